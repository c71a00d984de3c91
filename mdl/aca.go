// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"
)

// Sampler evaluates a single entry of an (nrows x ncols) block on
// demand, without requiring the block ever be materialized in full.
type Sampler func(i, j int) float64

// ACA is the adaptive cross approximation strategy (spec §4.E strategy
// 2): it builds a low-rank factorization by sampling rows and columns of
// B one at a time (partial-pivoting ACA), used when explicit assembly of
// the block is itself costly.
type ACA struct{}

// Compress implements Compressor by wrapping the dense B in a Sampler
// and delegating to CompressSampled. Most callers that already have B in
// hand should prefer TruncatedSVD, which is exact; ACA is exposed here
// mainly so the two strategies share one Compressor registry (spec
// §4.E "Two admissible strategies").
func (a ACA) Compress(B [][]float64, tol float64, maxRank int) (*Factors, bool) {
	nrows := len(B)
	if nrows == 0 {
		return nil, false
	}
	ncols := len(B[0])
	sample := func(i, j int) float64 { return B[i][j] }
	return a.CompressSampled(sample, nrows, ncols, tol, maxRank)
}

// CompressSampled runs partial-pivoting ACA against an on-demand
// Sampler, never touching more than O(r*(nrows+ncols)) entries of the
// underlying block for an eventual rank r.
func (a ACA) CompressSampled(sample Sampler, nrows, ncols int, tol float64, maxRank int) (*Factors, bool) {
	if nrows == 0 || ncols == 0 {
		return nil, false
	}
	maxAllowed := nrows
	if ncols < maxAllowed {
		maxAllowed = ncols
	}
	if maxRank > 0 && maxRank < maxAllowed {
		maxAllowed = maxRank
	}

	used := make([]bool, nrows)
	var U [][]float64 // columns of U, each length nrows
	var V [][]float64 // rows of Vt, each length ncols

	// residual access: B[i][j] minus the sum of already-accepted terms
	residual := func(i, j int) float64 {
		v := sample(i, j)
		for k := range U {
			v -= U[k][i] * V[k][j]
		}
		return v
	}

	pivotRow := 0
	var approxNormSq float64

	for k := 0; k < maxAllowed; k++ {
		// find the pivot column: largest |residual| in the pivot row
		pivotCol, pivotVal := 0, 0.0
		for j := 0; j < ncols; j++ {
			v := residual(pivotRow, j)
			if math.Abs(v) > math.Abs(pivotVal) {
				pivotVal, pivotCol = v, j
			}
		}
		if math.Abs(pivotVal) < 1e-14 {
			used[pivotRow] = true
			nextRow, found := nextUnusedRow(used, pivotRow)
			if !found {
				break
			}
			pivotRow = nextRow
			continue
		}

		vrow := make([]float64, ncols)
		for j := 0; j < ncols; j++ {
			vrow[j] = residual(pivotRow, j) / pivotVal
		}
		ucol := make([]float64, nrows)
		for i := 0; i < nrows; i++ {
			ucol[i] = residual(i, pivotCol)
		}

		U = append(U, ucol)
		V = append(V, vrow)
		used[pivotRow] = true

		termNormSq := normSq(ucol) * normSq(vrow)
		approxNormSq += termNormSq
		for l := 0; l < k; l++ {
			approxNormSq += 2 * dotProd(U[l], ucol) * dotProd(V[l], vrow)
		}

		if termNormSq <= tol*tol*math.Max(approxNormSq, 1e-300) {
			break
		}

		nextRow, found := nextUnusedRow(used, pivotRow)
		if !found {
			break
		}
		// prefer the row with the largest residual magnitude in the just-added column
		best, bestVal := nextRow, math.Abs(residual(nextRow, pivotCol))
		for i := 0; i < nrows; i++ {
			if used[i] {
				continue
			}
			if v := math.Abs(residual(i, pivotCol)); v > bestVal {
				best, bestVal = i, v
			}
		}
		pivotRow = best
	}

	r := len(U)
	if r == 0 {
		return nil, false
	}
	if storageCost(r, nrows, ncols) >= nrows*ncols {
		return nil, false
	}

	Uout := make([][]float64, nrows)
	for i := 0; i < nrows; i++ {
		Uout[i] = make([]float64, r)
		for k := 0; k < r; k++ {
			Uout[i][k] = U[k][i]
		}
	}
	Vtout := make([][]float64, r)
	copy(Vtout, V)

	return &Factors{U: Uout, Vt: Vtout}, true
}

// nextUnusedRow scans circularly starting just after `after`, so
// repeated calls with the just-consumed pivot row make forward progress
// around the row set instead of always restarting at row 0.
func nextUnusedRow(used []bool, after int) (int, bool) {
	n := len(used)
	for k := 1; k <= n; k++ {
		i := (after + k) % n
		if !used[i] {
			return i, true
		}
	}
	return 0, false
}

func normSq(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return s
}

func dotProd(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
