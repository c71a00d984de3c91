// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// LowRank is a leaf storing a rank-r factorization B ~= U*Vt (spec §4.E,
// §6 wire format 0x03). U has shape NRows x Rank, Vt has shape Rank x
// NCols, both row-major.
type LowRank struct {
	NRows, NCols int
	Rank         int
	U            [][]float32 // NRows x Rank
	Vt           [][]float32 // Rank x NCols
}

func (o *LowRank) Kind() Kind        { return KindLowRank }
func (o *LowRank) Shape() (int, int) { return o.NRows, o.NCols }

// Bytes accounts for U and Vt storage (spec §4.F "Memory accounting").
func (o *LowRank) Bytes() int64 {
	return int64(o.NRows)*int64(o.Rank)*4 + int64(o.Rank)*int64(o.NCols)*4
}

// StorageCost returns r*(nrows+ncols), the quantity compared against
// nrows*ncols to decide whether a low-rank factorization is actually
// cheaper to store (spec §4.E acceptance criterion).
func (o *LowRank) StorageCost() int64 {
	return int64(o.Rank) * int64(o.NRows+o.NCols)
}

// Apply implements Leaf: y += alpha * U * (Vt * x), computed as two
// matrix-vector products of size r instead of materializing U*Vt (spec
// §4.F "Leaf applies use ... Ũ(Ṽᵀx)").
func (o *LowRank) Apply(y []float64, alpha float64, x []float64) {
	z := make([]float64, o.Rank)
	for k := 0; k < o.Rank; k++ {
		var s float64
		row := o.Vt[k]
		for q := 0; q < o.NCols; q++ {
			s += float64(row[q]) * x[q]
		}
		z[k] = s
	}
	for p := 0; p < o.NRows; p++ {
		var s float64
		for k := 0; k < o.Rank; k++ {
			s += float64(o.U[p][k]) * z[k]
		}
		y[p] += alpha * s
	}
}
