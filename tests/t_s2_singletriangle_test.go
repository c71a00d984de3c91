// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/ana"
	"github.com/sampotter/gofflux/fem"
	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// Test_s2_singletriangle checks the full pipeline on a one-face mesh
// with an overhead sun: since a single face has no visible neighbors,
// the steady-state solver must reproduce the closed-form no-conduction
// equilibrium temperature exactly.
func Test_s2_singletriangle(tst *testing.T) {

	chk.PrintTitle("s2_singletriangle")

	m, err := SingleTriangle()
	if err != nil {
		tst.Fatalf("SingleTriangle: %v\n", err)
	}

	cfg := inp.DefaultConfig()
	p, err := fem.NewPipeline(context.Background(), m, cfg, "neumann", false)
	if err != nil {
		tst.Fatalf("NewPipeline: %v\n", err)
	}

	res, err := p.Run(context.Background(), shp.Vec3{0, 0, 1}, 1.0)
	if err != nil {
		tst.Fatalf("Run: %v\n", err)
	}

	eDir := ana.DirectFlux(1361.0, 1.0, math.Pi/2)
	Qwant := (1 - cfg.Albedo) * eDir
	Twant := ana.EquilibriumTemperature(Qwant, cfg.Emissivity, cfg.StefanBoltzmann)

	chk.Scalar(tst, "T", 1e-6, res.T[0], Twant)
}
