// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/shp"
)

func unitSquareMesh() ([]shp.Vec3, [][3]uint32) {
	// two triangles forming the unit square [0,1]x[0,1] in z=0
	V := []shp.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	F := [][3]uint32{
		{0, 1, 2},
		{0, 2, 3},
	}
	return V, F
}

func Test_newmesh01(tst *testing.T) {

	chk.PrintTitle("newmesh01")

	V, F := unitSquareMesh()
	m, err := NewMesh(V, F, nil, nil)
	if err != nil {
		tst.Errorf("NewMesh failed: %v\n", err)
		return
	}
	if m.NumFaces() != 2 {
		tst.Errorf("expected 2 faces, got %d\n", m.NumFaces())
		return
	}
	chk.Scalar(tst, "A[0]", 1e-15, m.A[0], 0.5)
	chk.Scalar(tst, "A[1]", 1e-15, m.A[1], 0.5)
	chk.Vector(tst, "N[0]", 1e-15, m.N[0][:], []float64{0, 0, 1})
}

func Test_newmesh02_outofrange(tst *testing.T) {

	chk.PrintTitle("newmesh02")

	V, _ := unitSquareMesh()
	F := [][3]uint32{{0, 1, 9}}
	_, err := NewMesh(V, F, nil, nil)
	if err == nil {
		tst.Errorf("expected a DegenerateMeshError\n")
		return
	}
	if _, ok := err.(*DegenerateMeshError); !ok {
		tst.Errorf("expected *DegenerateMeshError, got %T\n", err)
	}
}

func Test_newmesh03_degenerate(tst *testing.T) {

	chk.PrintTitle("newmesh03")

	V := []shp.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	F := [][3]uint32{{0, 1, 2}}
	_, err := NewMesh(V, F, nil, nil)
	if err == nil {
		tst.Errorf("expected a DegenerateMeshError for a colinear triangle\n")
	}
}

func Test_defaultconfig(tst *testing.T) {

	chk.PrintTitle("defaultconfig")

	c := DefaultConfig()
	chk.Scalar(tst, "tol", 1e-15, c.Tol, 1e-3)
	if c.MinSize != 512 {
		tst.Errorf("expected MinSize=512, got %d\n", c.MinSize)
	}
	if !c.Oriented {
		tst.Errorf("expected Oriented=true by default\n")
	}
}
