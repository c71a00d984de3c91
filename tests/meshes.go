// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"math"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// gridSquare triangulates an n x n grid of unit cells in the plane at
// height z, spanning [offsetX,offsetX+n]x[offsetY,offsetY+n], all normals
// pointing +z (or -z when flip is set).
func gridSquare(n int, offsetX, offsetY, z float64, flip bool) ([]shp.Vec3, [][3]uint32, int) {
	var V []shp.Vec3
	idx := func(i, j int) uint32 { return uint32(i*(n+1) + j) }
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			V = append(V, shp.Vec3{offsetX + float64(i), offsetY + float64(j), z})
		}
	}
	var F [][3]uint32
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b, c, d := idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)
			if flip {
				F = append(F, [3]uint32{a, c, b})
				F = append(F, [3]uint32{a, d, c})
			} else {
				F = append(F, [3]uint32{a, b, c})
				F = append(F, [3]uint32{a, c, d})
			}
		}
	}
	return V, F, len(V)
}

// FacingSquares builds two parallel n x n unit-cell squares of side n,
// separated by distance d along z, facing each other (spec scenario S1:
// "facing squares"). Returns the mesh plus the face-index ranges of
// each square.
func FacingSquares(n int, d float64) (m *inp.Mesh, sqA, sqB []int, err error) {
	V1, F1, nv1 := gridSquare(n, 0, 0, 0, false) // normal +z
	V2, F2, _ := gridSquare(n, 0, 0, d, true)     // normal -z, facing sqA

	V := append(V1, V2...)
	var F [][3]uint32
	F = append(F, F1...)
	for _, f := range F2 {
		F = append(F, [3]uint32{f[0] + uint32(nv1), f[1] + uint32(nv1), f[2] + uint32(nv1)})
	}

	m, err = inp.NewMesh(V, F, nil, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	for i := 0; i < len(F1); i++ {
		sqA = append(sqA, i)
	}
	for i := len(F1); i < len(F); i++ {
		sqB = append(sqB, i)
	}
	return m, sqA, sqB, nil
}

// SingleTriangle builds a one-face mesh: a unit right triangle in the
// z=0 plane with normal +z (spec scenario S2: "single-triangle
// elevation").
func SingleTriangle() (*inp.Mesh, error) {
	V := []shp.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	F := [][3]uint32{{0, 1, 2}}
	return inp.NewMesh(V, F, nil, nil)
}

// WithOccluder builds the FacingSquares scene plus a third square
// inserted at the midplane, large enough to fully block every
// line-of-sight pair between sqA and sqB (spec scenario S3: "occluder
// triangle reflected heating").
func WithOccluder(n int, d float64) (m *inp.Mesh, sqA, sqB, occ []int, err error) {
	V1, F1, nv1 := gridSquare(n, 0, 0, 0, false)
	V2, F2, nv2 := gridSquare(n, 0, 0, d, true)
	// the occluder is oversized, extending one cell beyond the squares on
	// every side, so it fully shadows the n x n grid above it
	Vo, Fo, _ := gridSquare(n+2, -1, -1, d/2, false)

	V := append(append(V1, V2...), Vo...)
	var F [][3]uint32
	F = append(F, F1...)
	for _, f := range F2 {
		F = append(F, [3]uint32{f[0] + uint32(nv1), f[1] + uint32(nv1), f[2] + uint32(nv1)})
	}
	base := uint32(nv1 + nv2)
	for _, f := range Fo {
		F = append(F, [3]uint32{f[0] + base, f[1] + base, f[2] + base})
	}

	m, err = inp.NewMesh(V, F, nil, nil)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	for i := 0; i < len(F1); i++ {
		sqA = append(sqA, i)
	}
	for i := len(F1); i < len(F1)+len(F2); i++ {
		sqB = append(sqB, i)
	}
	for i := len(F1) + len(F2); i < len(F); i++ {
		occ = append(occ, i)
	}
	return m, sqA, sqB, occ, nil
}

// CraterMesh builds a radially symmetric paraboloid depression (a reduced-
// resolution stand-in for the full crater benchmark mesh; spec scenario
// S4): nRadial concentric rings, nAngular sectors each, depth `depth` at
// the center tapering to 0 at the rim of radius 1.
func CraterMesh(nRadial, nAngular int, depth float64) (*inp.Mesh, error) {
	var V []shp.Vec3
	V = append(V, shp.Vec3{0, 0, -depth}) // center (apex of the depression)
	ringStart := make([]int, nRadial+1)
	for r := 1; r <= nRadial; r++ {
		ringStart[r] = len(V)
		radius := float64(r) / float64(nRadial)
		z := -depth * (1 - radius*radius) // paraboloid profile
		for a := 0; a < nAngular; a++ {
			theta := 2 * math.Pi * float64(a) / float64(nAngular)
			V = append(V, shp.Vec3{radius * math.Cos(theta), radius * math.Sin(theta), z})
		}
	}

	var F [][3]uint32
	// innermost ring: fan from the apex
	for a := 0; a < nAngular; a++ {
		v0 := uint32(0)
		v1 := uint32(ringStart[1] + a)
		v2 := uint32(ringStart[1] + (a+1)%nAngular)
		F = append(F, [3]uint32{v0, v1, v2})
	}
	// remaining rings: quad strips split into triangles
	for r := 1; r < nRadial; r++ {
		for a := 0; a < nAngular; a++ {
			i0 := uint32(ringStart[r] + a)
			i1 := uint32(ringStart[r] + (a+1)%nAngular)
			j0 := uint32(ringStart[r+1] + a)
			j1 := uint32(ringStart[r+1] + (a+1)%nAngular)
			F = append(F, [3]uint32{i0, j0, j1})
			F = append(F, [3]uint32{i0, j1, i1})
		}
	}

	orientUpward(V, F)

	return inp.NewMesh(V, F, nil, nil)
}

// orientUpward swaps each face's last two vertices in place wherever its
// normal points downward, so every face of the depression faces the sky
// (N.z >= 0) regardless of the winding the triangulation happened to
// produce.
func orientUpward(V []shp.Vec3, F [][3]uint32) {
	for i, f := range F {
		t := shp.Triangle{V0: V[f[0]], V1: V[f[1]], V2: V[f[2]]}
		n, _, err := shp.NormalAndArea(t, i)
		if err != nil {
			continue
		}
		if n[2] < 0 {
			F[i][1], F[i][2] = F[i][2], F[i][1]
		}
	}
}
