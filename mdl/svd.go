// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// TruncatedSVD computes the exact optimal rank-r approximation of a
// dense block via a full SVD, truncated to the smallest rank whose
// relative Frobenius-norm error meets tol (spec §4.E strategy 1). Used
// at small-to-medium block sizes, where assembling B explicitly and
// factorizing it outright is cheaper than the sampling overhead of ACA.
type TruncatedSVD struct{}

// Compress implements Compressor.
func (TruncatedSVD) Compress(B [][]float64, tol float64, maxRank int) (*Factors, bool) {
	nrows := len(B)
	if nrows == 0 {
		return nil, false
	}
	ncols := len(B[0])
	if ncols == 0 {
		return nil, false
	}

	data := make([]float64, 0, nrows*ncols)
	for _, row := range B {
		data = append(data, row...)
	}
	A := mat.NewDense(nrows, ncols, data)

	var svd mat.SVD
	ok := svd.Factorize(A, mat.SVDThin)
	if !ok {
		return nil, false
	}
	values := svd.Values(nil)
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	// total Frobenius norm^2 = sum of squared singular values
	var total float64
	for _, s := range values {
		total += s * s
	}
	if total <= 0 {
		// B is (numerically) zero; caller should use a Zero leaf instead.
		return nil, false
	}

	maxAllowed := len(values)
	if maxRank > 0 && maxRank < maxAllowed {
		maxAllowed = maxRank
	}

	// find the smallest r in [1, maxAllowed] whose tail energy meets tol
	var tail float64
	for i := len(values) - 1; i >= 0; i-- {
		tail += values[i] * values[i]
	}
	r := 0
	for r = 0; r < maxAllowed; r++ {
		tail -= values[r] * values[r]
		if math.Sqrt(tail) <= tol*math.Sqrt(total) {
			r++
			break
		}
	}
	if r == 0 {
		r = maxAllowed
	}

	if storageCost(r, nrows, ncols) >= nrows*ncols {
		return nil, false
	}

	// fold singular values into U so that U*Vt reproduces B directly
	Uout := make([][]float64, nrows)
	for p := 0; p < nrows; p++ {
		Uout[p] = make([]float64, r)
		for k := 0; k < r; k++ {
			Uout[p][k] = U.At(p, k) * values[k]
		}
	}
	Vtout := make([][]float64, r)
	for k := 0; k < r; k++ {
		Vtout[k] = make([]float64, ncols)
		for q := 0; q < ncols; q++ {
			Vtout[k][q] = V.At(q, k)
		}
	}

	return &Factors{U: Uout, Sigma: values[:r], Vt: Vtout}, true
}
