// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"

	"github.com/cpmech/gosl/io"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/oracle"
)

// Domain holds everything needed to run a steady-state thermal solve
// over one mesh: the mesh itself, the occlusion oracle built over it,
// and the compressed form-factor operator assembled from both. Where
// the teacher's Domain owns Nodes/Elems/Sol for one FE stage, this
// Domain owns Mesh/Oracle/Operator for one radiative scene (there are
// no stages here: spec Non-goals exclude multi-stage/time-dependent
// simulation).
type Domain struct {
	Cfg      inp.Config
	Mesh     *inp.Mesh
	Oracle   oracle.Oracle
	Operator *Operator
}

// NewDomain builds a Domain: constructs the oracle named by cfg.Oracle,
// builds its acceleration structure over m, then assembles the
// compressed operator (spec §4.B-§4.F).
func NewDomain(ctx context.Context, m *inp.Mesh, cfg inp.Config) (dom *Domain, err error) {
	cfg.SetDefaults()

	or, err := oracle.New(cfg.Oracle, oracle.Config{
		OrientedVisibility: cfg.Oriented,
		EpsSelf:            cfg.EpsSelf,
	})
	if err != nil {
		return nil, err
	}
	if err = or.Build(m); err != nil {
		return nil, err
	}

	op, err := BuildOperator(ctx, m, or, cfg)
	if err != nil {
		return nil, err
	}

	return &Domain{Cfg: cfg, Mesh: m, Oracle: or, Operator: op}, nil
}

// PrintSummary writes a short report of the assembled operator to
// stdout, in the teacher's io.Pf/io.PfGreen banner style (see
// fem.FEM.onexit).
func (dom *Domain) PrintSummary() {
	io.Pf("> Domain: %d faces, oracle=%q, compressor=%q\n", dom.Mesh.NumFaces(), dom.Cfg.Oracle, dom.Cfg.Compressor)
	io.Pf("%v", dom.Operator.Diag.String())
	if n := len(dom.Operator.Diag.RowSumWarnings); n > 0 {
		io.PfYel("> %d row-sum warnings (energy conservation check)\n", n)
	} else {
		io.PfGreen("> row-sum check passed for all diagonal blocks\n")
	}
}

// Clean releases resources held by the domain. Present for symmetry
// with the teacher's Domain.Clean; there are currently no OS-level
// resources to release (no open files, no MPI communicators), so this
// is a no-op kept as the natural extension point.
func (dom *Domain) Clean() {}
