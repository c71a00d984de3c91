// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// gridMesh builds a flat n x n grid of unit squares (2 triangles each)
// in the z=0 plane, spanning [0,n] x [0,n].
func gridMesh(tst *testing.T, n int) *inp.Mesh {
	var V []shp.Vec3
	idx := func(i, j int) uint32 { return uint32(i*(n+1) + j) }
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			V = append(V, shp.Vec3{float64(i), float64(j), 0})
		}
	}
	var F [][3]uint32
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b, c, d := idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)
			F = append(F, [3]uint32{a, b, c})
			F = append(F, [3]uint32{a, c, d})
		}
	}
	m, err := inp.NewMesh(V, F, nil, nil)
	if err != nil {
		tst.Fatalf("gridMesh: %v", err)
	}
	return m
}

func countLeafFaces(n *SpatialNode) int {
	if n.IsLeaf() {
		return len(n.Faces)
	}
	total := 0
	for _, c := range n.Children {
		total += countLeafFaces(c)
	}
	return total
}

func Test_tree01_partition(tst *testing.T) {

	chk.PrintTitle("tree01")

	m := gridMesh(tst, 8) // 128 faces
	allFaces := make([]int, m.NumFaces())
	for i := range allFaces {
		allFaces[i] = i
	}
	root := BuildTree(m, allFaces, 8, 2)

	if got := countLeafFaces(root); got != m.NumFaces() {
		tst.Errorf("expected leaf partition to cover all %d faces, got %d\n", m.NumFaces(), got)
	}
	if root.IsLeaf() {
		tst.Errorf("expected the root to subdivide for 128 faces at minSize=8\n")
	}
}

func Test_tree02_smallmesh_singleleaf(tst *testing.T) {

	chk.PrintTitle("tree02")

	m := gridMesh(tst, 1) // 2 faces
	allFaces := []int{0, 1}
	root := BuildTree(m, allFaces, 512, 2)

	if !root.IsLeaf() {
		tst.Errorf("expected a single leaf when minSize exceeds face count\n")
	}
	if len(root.Faces) != 2 {
		tst.Errorf("expected root to own both faces, got %d\n", len(root.Faces))
	}
}
