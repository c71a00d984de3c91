// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/sampotter/gofflux/fem"
	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

func main() {

	verbose := true

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\ngofflux -- compressed radiative form-factor solver\n\n")

	nradial := flag.Int("nradial", 24, "number of radial rings in the demo crater mesh")
	nangular := flag.Int("nangular", 48, "number of angular sectors per ring")
	depth := flag.Float64("depth", 0.3, "crater depth relative to its rim radius")
	elevation := flag.Float64("elevation", 10.0, "sun elevation above the local horizon, in degrees")
	compressor := flag.String("compressor", "svd", "low-rank compressor: \"svd\" or \"aca\"")
	dirout := flag.String("dirout", "/tmp/gofflux", "output directory for the temperature report")
	flag.Parse()

	m := mustCraterMesh(*nradial, *nangular, *depth)

	cfg := inp.DefaultConfig()
	cfg.Compressor = *compressor

	p := mustNewPipeline(context.Background(), m, cfg, "neumann", verbose)

	sunDir := shp.Vec3{1, 0, math.Tan(*elevation * math.Pi / 180)}
	res, err := p.Run(context.Background(), sunDir, 1.0)
	if err != nil {
		chk.Panic("run failed: %v", err)
	}

	fem.WriteReport(*dirout, "crater", res)
	tmin, tmax, tmean := fem.TemperatureStats(res)
	io.Pf("> T: min=%.2f mean=%.2f max=%.2f K\n", tmin, tmean, tmax)
}

// mustCraterMesh builds the same paraboloid-depression demo mesh used
// by the end-to-end scenario tests (spec scenario S4), inline here so
// main.go does not depend on the test-only tests package.
func mustCraterMesh(nRadial, nAngular int, depth float64) *inp.Mesh {
	var V []shp.Vec3
	V = append(V, shp.Vec3{0, 0, -depth})
	ringStart := make([]int, nRadial+1)
	for r := 1; r <= nRadial; r++ {
		ringStart[r] = len(V)
		radius := float64(r) / float64(nRadial)
		z := -depth * (1 - radius*radius)
		for a := 0; a < nAngular; a++ {
			theta := 2 * math.Pi * float64(a) / float64(nAngular)
			V = append(V, shp.Vec3{radius * math.Cos(theta), radius * math.Sin(theta), z})
		}
	}

	var F [][3]uint32
	for a := 0; a < nAngular; a++ {
		v1 := uint32(ringStart[1] + a)
		v2 := uint32(ringStart[1] + (a+1)%nAngular)
		F = append(F, [3]uint32{0, v1, v2})
	}
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

	m, err := inp.NewMesh(V, F, nil, nil)
	if err != nil {
		chk.Panic("cannot build demo mesh: %v", err)
	}
	return m
}

// mustNewPipeline panics instead of returning an error, following the
// teacher's chk.Panic-on-setup-failure convention in NewFEM.
func mustNewPipeline(ctx context.Context, m *inp.Mesh, cfg inp.Config, solverName string, verbose bool) *fem.Pipeline {
	p, err := fem.NewPipeline(ctx, m, cfg, solverName, verbose)
	if err != nil {
		chk.Panic("cannot build pipeline: %v", err)
	}
	return p
}
