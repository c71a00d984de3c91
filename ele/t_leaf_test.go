// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/oracle"
	"github.com/sampotter/gofflux/shp"
)

// twoFacingTriangles builds a minimal two-triangle mesh facing each
// other at unit separation (a 2-face reduction of scenario S1).
func twoFacingTriangles() *inp.Mesh {
	V := []shp.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
	}
	F := [][3]uint32{
		{0, 1, 2}, // normal +z
		{3, 5, 4}, // normal -z (reversed winding)
	}
	m, err := inp.NewMesh(V, F, nil, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func Test_dense01_symmetryAndSign(tst *testing.T) {

	chk.PrintTitle("dense01")

	m := twoFacingTriangles()
	or, _ := oracle.New("bvh", oracle.Config{OrientedVisibility: true})
	if err := or.Build(m); err != nil {
		tst.Fatalf("oracle build failed: %v", err)
	}

	I := []int{0, 1}
	B := AssembleDense(m, or, I, I)

	if B.B[0][0] != 0 || B.B[1][1] != 0 {
		tst.Errorf("diagonal entries must be zero\n")
	}
	if B.B[0][1] < 0 || B.B[1][0] < 0 {
		tst.Errorf("form factors must be non-negative\n")
	}

	// area-weighted symmetry: A[0]*F[0,1] ~= A[1]*F[1,0] (spec §8 invariant 4)
	lhs := m.A[0] * float64(B.B[0][1])
	rhs := m.A[1] * float64(B.B[1][0])
	if math.Abs(lhs-rhs) > 1e-6*math.Max(math.Abs(lhs), 1) {
		tst.Errorf("area-weighted symmetry violated: %g vs %g\n", lhs, rhs)
	}
}

func Test_leafregistry01(tst *testing.T) {

	chk.PrintTitle("leafregistry01")

	leaf, err := New(KindZero, 3, 4, nil)
	if err != nil {
		tst.Errorf("New(KindZero) failed: %v\n", err)
		return
	}
	nr, nc := leaf.Shape()
	if nr != 3 || nc != 4 {
		tst.Errorf("expected shape (3,4), got (%d,%d)\n", nr, nc)
	}
	y := []float64{1, 2, 3}
	leaf.Apply(y, 1, []float64{1, 1, 1, 1})
	chk.Vector(tst, "y unchanged", 1e-15, y, []float64{1, 2, 3})
}

func Test_lowrank01_apply(tst *testing.T) {

	chk.PrintTitle("lowrank01")

	// rank-1 block B = u*v^T with u=[1,2], v=[3,4]
	lr := &LowRank{
		NRows: 2, NCols: 2, Rank: 1,
		U:  [][]float32{{1}, {2}},
		Vt: [][]float32{{3, 4}},
	}
	y := make([]float64, 2)
	lr.Apply(y, 1, []float64{1, 1})
	// B = [[3,4],[6,8]]; B*[1,1] = [7, 14]
	chk.Vector(tst, "y", 1e-12, y, []float64{7, 14})
}
