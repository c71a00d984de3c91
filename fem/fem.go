// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem is the top-level package of gofflux: it ties together the
// spatial index (tree.go), the compressed form-factor operator
// (operator.go), direct-solar irradiance (irradiance.go) and the
// steady-state radiosity/temperature solver (solver.go) behind one
// Pipeline entry point, the way the teacher's fem package ties together
// Domain/Solver behind FEM.
package fem

import (
	"context"
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// Pipeline holds all data for one end-to-end radiative-equilibrium run:
// the domain (mesh + oracle + operator) and the solver used to find the
// steady state. Mirrors the teacher's FEM struct (Sim/Domains/Solver),
// reduced to the single domain this problem needs (spec Non-goals:
// no multi-body/multi-domain coupling).
type Pipeline struct {
	Cfg     inp.Config
	Domain  *Domain
	Solver  FEsolver
	ShowMsg bool
}

// NewPipeline builds a Domain over m with cfg and selects the named
// steady-state solver (currently only "neumann" is registered).
func NewPipeline(ctx context.Context, m *inp.Mesh, cfg inp.Config, solverName string, verbose bool) (p *Pipeline, err error) {
	cfg.SetDefaults()

	p = &Pipeline{Cfg: cfg, ShowMsg: verbose}
	if verbose {
		io.Pf("> Building domain (%d faces)\n", m.NumFaces())
	}
	p.Domain, err = NewDomain(ctx, m, cfg)
	if err != nil {
		return nil, err
	}
	if verbose {
		p.Domain.PrintSummary()
	}

	p.Solver, err = NewSolver(solverName)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Run computes direct-solar irradiance for sunDir (at sunDistAU) and
// iterates the steady-state solver to equilibrium (spec §4.G, §4.H).
func (p *Pipeline) Run(ctx context.Context, sunDir shp.Vec3, sunDistAU float64) (res *Result, err error) {
	cputime := time.Now()
	defer func() { err = p.onexit(cputime, err) }()

	eDir, err := DirectIrradiance(ctx, p.Domain.Mesh, p.Domain.Oracle, sunDir, sunDistAU)
	if err != nil {
		return nil, err
	}
	if p.ShowMsg {
		io.Pf("> Running steady-state solver\n")
	}
	res, err = p.Solver.Run(ctx, p.Domain, eDir)
	return res, err
}

// RunBatch runs Run once per sun direction in sunDirs, sharing the
// Pipeline's already-assembled domain across all of them (spec §4.G
// "batch M x 3 sun-direction support").
func (p *Pipeline) RunBatch(ctx context.Context, sunDirs []shp.Vec3, sunDistAU float64) (results []*Result, err error) {
	eDirs, err := BatchDirectIrradiance(ctx, p.Domain.Mesh, p.Domain.Oracle, sunDirs, sunDistAU)
	if err != nil {
		return nil, err
	}
	for k, eDir := range eDirs {
		if p.ShowMsg {
			io.Pf("> Running steady-state solver (direction %d/%d)\n", k+1, len(sunDirs))
		}
		res, e := p.Solver.Run(ctx, p.Domain, eDir)
		if e != nil {
			return nil, e
		}
		results = append(results, res)
	}
	return results, nil
}

// onexit prints the final status message and cpu time, mirroring the
// teacher's FEM.onexit.
func (p *Pipeline) onexit(cputime time.Time, prevErr error) error {
	if p.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Since(cputime))
		} else {
			io.PfRed("> Failed: %v\n", prevErr)
		}
	}
	return prevErr
}
