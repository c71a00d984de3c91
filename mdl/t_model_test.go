// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// rankOneBlock returns a 4x4 rank-1 block u*v^T.
func rankOneBlock() [][]float64 {
	u := []float64{1, 2, 3, 4}
	v := []float64{2, 1, 0.5, 4}
	B := make([][]float64, 4)
	for i := range B {
		B[i] = make([]float64, 4)
		for j := range B[i] {
			B[i][j] = u[i] * v[j]
		}
	}
	return B
}

func reconstruct(f *Factors) [][]float64 {
	nrows, ncols := len(f.U), len(f.Vt[0])
	out := make([][]float64, nrows)
	for i := 0; i < nrows; i++ {
		out[i] = make([]float64, ncols)
		for j := 0; j < ncols; j++ {
			var s float64
			for k := 0; k < f.Rank(); k++ {
				s += f.U[i][k] * f.Vt[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func maxAbsDiff(A, B [][]float64) float64 {
	var m float64
	for i := range A {
		for j := range A[i] {
			d := math.Abs(A[i][j] - B[i][j])
			if d > m {
				m = d
			}
		}
	}
	return m
}

func Test_svd01_rankone(tst *testing.T) {

	chk.PrintTitle("svd01")

	B := rankOneBlock()
	svd := TruncatedSVD{}
	f, ok := svd.Compress(B, 1e-6, 0)
	if !ok {
		tst.Errorf("expected compression to succeed on an exact rank-1 block\n")
		return
	}
	if f.Rank() != 1 {
		tst.Errorf("expected rank 1, got %d\n", f.Rank())
	}
	R := reconstruct(f)
	if d := maxAbsDiff(R, B); d > 1e-8 {
		tst.Errorf("reconstruction error too large: %g\n", d)
	}
}

func Test_aca01_rankone(tst *testing.T) {

	chk.PrintTitle("aca01")

	B := rankOneBlock()
	aca := ACA{}
	f, ok := aca.Compress(B, 1e-6, 0)
	if !ok {
		tst.Errorf("expected ACA to succeed on an exact rank-1 block\n")
		return
	}
	if f.Rank() != 1 {
		tst.Errorf("expected rank 1, got %d\n", f.Rank())
	}
	R := reconstruct(f)
	if d := maxAbsDiff(R, B); d > 1e-6 {
		tst.Errorf("reconstruction error too large: %g\n", d)
	}
}

func Test_svd02_fullrank_rejected(tst *testing.T) {

	chk.PrintTitle("svd02")

	// identity-like full-rank block: no low rank approximation should
	// meet a tight tolerance below the storage crossover.
	n := 6
	B := make([][]float64, n)
	for i := range B {
		B[i] = make([]float64, n)
		B[i][i] = 1
	}
	svd := TruncatedSVD{}
	_, ok := svd.Compress(B, 1e-10, 0)
	if ok {
		tst.Errorf("expected identity block to reject low-rank compression\n")
	}
}

func Test_registry01(tst *testing.T) {

	chk.PrintTitle("registry01")

	if _, err := New("svd"); err != nil {
		tst.Errorf("New(svd) failed: %v\n", err)
	}
	if _, err := New("aca"); err != nil {
		tst.Errorf("New(aca) failed: %v\n", err)
	}
	if _, err := New("bogus"); err == nil {
		tst.Errorf("expected an error for an unknown compressor name\n")
	}
}
