// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oracle

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// twoFacingSquares builds scenario S1: two facing unit squares (4
// triangles each), separation d=1, normals pointing at each other.
func twoFacingSquares() *inp.Mesh {
	var V []shp.Vec3
	var F [][3]uint32

	addQuad := func(z float64, flip bool) {
		base := uint32(len(V))
		V = append(V,
			shp.Vec3{0, 0, z}, shp.Vec3{1, 0, z}, shp.Vec3{1, 1, z}, shp.Vec3{0, 1, z},
			shp.Vec3{0.5, 0.5, z},
		)
		// 4 triangles fanned around the center vertex
		corners := [4][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
		for _, c := range corners {
			a, b := base+c[0], base+c[1]
			center := base + 4
			if flip {
				F = append(F, [3]uint32{a, center, b})
			} else {
				F = append(F, [3]uint32{a, b, center})
			}
		}
	}
	addQuad(0, false)  // bottom square, normal +z
	addQuad(1, true)   // top square, normal -z (facing down)

	m, err := inp.NewMesh(V, F, nil, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func buildBoth(tst *testing.T, m *inp.Mesh) (*BVH, *AABBTree) {
	cfg := Config{OrientedVisibility: true}
	bvh := NewBVH(cfg)
	if err := bvh.Build(m); err != nil {
		tst.Fatalf("BVH build failed: %v", err)
	}
	ab := NewAABBTree(cfg)
	if err := ab.Build(m); err != nil {
		tst.Fatalf("AABBTree build failed: %v", err)
	}
	return bvh, ab
}

func Test_oracle01_agreement(tst *testing.T) {

	chk.PrintTitle("oracle01")

	m := twoFacingSquares()
	bvh, ab := buildBoth(tst, m)

	n := m.NumFaces()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vb := bvh.Visible(i, j)
			va := ab.Visible(i, j)
			if vb != va {
				tst.Errorf("Visible(%d,%d) disagrees: bvh=%v aabb=%v\n", i, j, vb, va)
			}
		}
	}
}

func Test_oracle02_selfinvisible(tst *testing.T) {

	chk.PrintTitle("oracle02")

	m := twoFacingSquares()
	bvh, _ := buildBoth(tst, m)
	for i := 0; i < m.NumFaces(); i++ {
		if bvh.Visible(i, i) {
			tst.Errorf("face %d should not see itself\n", i)
		}
	}
}

func Test_oracle03_crossvisible(tst *testing.T) {

	chk.PrintTitle("oracle03")

	// faces 0-3 are the bottom square (normal +z), faces 4-7 the top
	// (normal -z); check that at least one bottom->top pair is visible.
	m := twoFacingSquares()
	bvh, _ := buildBoth(tst, m)
	sawVisible := false
	for i := 0; i < 4; i++ {
		for j := 4; j < 8; j++ {
			if bvh.Visible(i, j) {
				sawVisible = true
			}
		}
	}
	if !sawVisible {
		tst.Errorf("expected at least one visible pair between facing squares\n")
	}
}
