// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/oracle"
	"github.com/sampotter/gofflux/shp"
)

// Dense is a leaf storing an explicit |I|x|J| block (spec §3, §4.D).
type Dense struct {
	NRows, NCols int
	B            [][]float32 // row-major, shape NRows x NCols
}

func (o *Dense) Kind() Kind                  { return KindDense }
func (o *Dense) Shape() (int, int)           { return o.NRows, o.NCols }
func (o *Dense) Bytes() int64                { return int64(o.NRows) * int64(o.NCols) * 4 }

// Apply implements Leaf: y += alpha * B * x, via gosl/la's row-major
// dense matrix-vector multiply (promoted to float64 for accumulation).
func (o *Dense) Apply(y []float64, alpha float64, x []float64) {
	Bf64 := la.MatAlloc(o.NRows, o.NCols)
	for p := 0; p < o.NRows; p++ {
		for q := 0; q < o.NCols; q++ {
			Bf64[p][q] = float64(o.B[p][q])
		}
	}
	tmp := make([]float64, o.NRows)
	la.MatVecMul(tmp, alpha, Bf64, x)
	la.VecAdd(y, 1, y, 1, tmp)
}

// RowSums returns, for each row, the sum of its entries (used to check
// the energy-conservation invariant, spec §4.D / §8 invariant 3).
func (o *Dense) RowSums() []float64 {
	sums := make([]float64, o.NRows)
	for p := 0; p < o.NRows; p++ {
		var s float64
		for q := 0; q < o.NCols; q++ {
			s += float64(o.B[p][q])
		}
		sums[p] = s
	}
	return sums
}

// AssembleDense builds the dense |I|x|J| form-factor sub-block (spec
// §4.D):
//
//	B[p,q] = vis(I[p],J[q]) * max(0, N[I[p]].dhat) * max(0, -N[J[q]].dhat) * A[J[q]] / (pi*r^2)
//
// where d = P[J[q]] - P[I[p]], r = ||d||, dhat = d/r. Cosine short-circuiting is
// applied before the (expensive) visibility query, per spec §4.D
// "short-circuit for performance". Diagonal entries (I[p] == J[q]) are
// always zero.
func AssembleDense(m *inp.Mesh, or oracle.Oracle, I, J []int) *Dense {
	nrows, ncols := len(I), len(J)
	B := make([][]float32, nrows)
	for p := range B {
		B[p] = make([]float32, ncols)
	}
	for p, fi := range I {
		for q, fj := range J {
			if fi == fj {
				continue
			}
			d := shp.Sub(m.P[fj], m.P[fi])
			r2 := shp.Dot(d, d)
			if r2 < 1e-30 {
				continue
			}
			r := math.Sqrt(r2)
			dhat := shp.Scale(1/r, d)
			cosI := shp.Dot(m.N[fi], dhat)
			if cosI <= 0 {
				continue
			}
			cosJ := shp.Dot(shp.Scale(-1, m.N[fj]), dhat)
			if cosJ <= 0 {
				continue
			}
			if !or.Visible(fi, fj) {
				continue
			}
			val := cosI * cosJ * m.A[fj] / (math.Pi * r2)
			B[p][q] = float32(val)
		}
	}
	return &Dense{NRows: nrows, NCols: ncols, B: B}
}
