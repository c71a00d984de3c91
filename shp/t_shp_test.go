// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_centroid01(tst *testing.T) {

	chk.PrintTitle("centroid01")

	t := Triangle{
		V0: Vec3{0, 0, 0},
		V1: Vec3{1, 0, 0},
		V2: Vec3{0, 1, 0},
	}
	p := t.Centroid()
	chk.Vector(tst, "centroid", 1e-15, p[:], []float64{1.0 / 3.0, 1.0 / 3.0, 0})
}

func Test_normalarea01(tst *testing.T) {

	chk.PrintTitle("normalarea01")

	// right triangle with legs 1,1 lying in z=0: area = 0.5, normal = +z
	t := Triangle{
		V0: Vec3{0, 0, 0},
		V1: Vec3{1, 0, 0},
		V2: Vec3{0, 1, 0},
	}
	n, a, err := NormalAndArea(t, 0)
	if err != nil {
		tst.Errorf("NormalAndArea failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "area", 1e-15, a, 0.5)
	chk.Vector(tst, "normal", 1e-15, n[:], []float64{0, 0, 1})
}

func Test_normalarea02_degenerate(tst *testing.T) {

	chk.PrintTitle("normalarea02")

	// three colinear points => zero-area triangle
	t := Triangle{
		V0: Vec3{0, 0, 0},
		V1: Vec3{1, 0, 0},
		V2: Vec3{2, 0, 0},
	}
	_, _, err := NormalAndArea(t, 7)
	if err == nil {
		tst.Errorf("expected a DegenerateFace error\n")
		return
	}
	if _, ok := err.(*DegenerateFace); !ok {
		tst.Errorf("expected *DegenerateFace, got %T\n", err)
	}
}

func Test_unitnormal(tst *testing.T) {

	chk.PrintTitle("unitnormal")

	t := Triangle{
		V0: Vec3{0, 0, 0},
		V1: Vec3{2, 0, 0},
		V2: Vec3{0, 3, 0},
	}
	n, _, err := NormalAndArea(t, 0)
	if err != nil {
		tst.Errorf("NormalAndArea failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "‖n‖", 1e-15, Norm(n), 1.0)
}
