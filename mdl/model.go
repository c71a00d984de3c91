// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdl implements the rank-adaptive low-rank approximators used to
// compress admissible blocks of the form-factor operator (spec §4.E):
// truncated SVD (exact optimum, small-to-medium blocks) and adaptive
// cross approximation (for blocks that are costly to assemble
// explicitly). Both are registered under a common Compressor interface,
// the same Model-registry shape the teacher uses for its pluggable
// constitutive models (mdl/diffusion.New, mdl/solid.New).
package mdl

import (
	"github.com/cpmech/gosl/chk"
)

// Factors is the result of a successful compression: B ~= U*Vt with rank
// r = len(Vt). Singular values are folded into U, so U*Vt alone
// reproduces B; Sigma is kept only for diagnostics (e.g. truncation
// energy reporting).
type Factors struct {
	U     [][]float64 // nrows x r, already scaled by the corresponding singular value
	Sigma []float64   // length r, descending singular values (diagnostic only; set by TruncatedSVD, nil from ACA)
	Vt    [][]float64 // r x ncols
}

// Rank returns len(f.Vt).
func (f *Factors) Rank() int { return len(f.Vt) }

// Compressor is implemented by each approximation strategy.
type Compressor interface {
	// Compress attempts to approximate B (nrows x ncols) to relative
	// Frobenius-norm tolerance tol, capped at rank maxRank (0 = no cap).
	// ok is false if no rank achieves tol strictly below the
	// nrows*ncols storage crossover (spec §4.E acceptance rule).
	Compress(B [][]float64, tol float64, maxRank int) (f *Factors, ok bool)
}

// allocators holds all available compressor strategies, keyed by name
// ("svd", "aca").
var allocators = map[string]func() Compressor{
	"svd": func() Compressor { return &TruncatedSVD{} },
	"aca": func() Compressor { return &ACA{} },
}

// New returns a new Compressor selected by name.
func New(name string) (c Compressor, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("compressor %q is not available (want \"svd\" or \"aca\")", name)
	}
	return allocator(), nil
}

// storageCost returns r*(nrows+ncols), compared against nrows*ncols to
// decide whether a rank-r factorization is actually cheaper to store
// (spec §4.E).
func storageCost(r, nrows, ncols int) int {
	return r * (nrows + ncols)
}
