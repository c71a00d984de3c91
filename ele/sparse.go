// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Sparse is a leaf storing a block in CSR form (spec §4.E "kept dense ...
// or sparse if its nnz fraction is below a threshold", §6 wire format
// 0x02). Rows are indptr[p]..indptr[p+1) into Indices/Data.
type Sparse struct {
	NRows, NCols int
	Indptr       []uint64
	Indices      []uint32
	Data         []float32
}

func (o *Sparse) Kind() Kind        { return KindSparse }
func (o *Sparse) Shape() (int, int) { return o.NRows, o.NCols }

// Bytes accounts for indptr + indices + data, per spec §4.F "Memory
// accounting".
func (o *Sparse) Bytes() int64 {
	return int64(len(o.Indptr))*8 + int64(len(o.Indices))*4 + int64(len(o.Data))*4
}

// Apply implements Leaf: y += alpha * B * x using the CSR row-major
// sparse representation.
func (o *Sparse) Apply(y []float64, alpha float64, x []float64) {
	for p := 0; p < o.NRows; p++ {
		lo, hi := o.Indptr[p], o.Indptr[p+1]
		var s float64
		for k := lo; k < hi; k++ {
			s += float64(o.Data[k]) * x[o.Indices[k]]
		}
		y[p] += alpha * s
	}
}

// NNZFraction returns the fraction of non-zero entries, used to decide
// between sparse and dense storage (spec §4.E, threshold e.g. 0.25).
func (o *Sparse) NNZFraction() float64 {
	total := int64(o.NRows) * int64(o.NCols)
	if total == 0 {
		return 0
	}
	return float64(len(o.Data)) / float64(total)
}

// NewSparseFromDense converts a dense block to CSR, keeping only entries
// with |value| above tol (an absolute threshold; callers typically pass 0
// since AssembleDense already zeroes invisible/back-facing entries).
func NewSparseFromDense(B [][]float32, tol float32) *Sparse {
	nrows := len(B)
	ncols := 0
	if nrows > 0 {
		ncols = len(B[0])
	}
	s := &Sparse{NRows: nrows, NCols: ncols, Indptr: make([]uint64, nrows+1)}
	for p := 0; p < nrows; p++ {
		for q, v := range B[p] {
			if v > tol || v < -tol {
				s.Indices = append(s.Indices, uint32(q))
				s.Data = append(s.Data, v)
			}
		}
		s.Indptr[p+1] = uint64(len(s.Data))
	}
	return s
}
