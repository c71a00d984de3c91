// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements the tagged leaf-variant payloads of the
// hierarchical form-factor operator (spec §3, §4.F): dense, sparse,
// low-rank and zero blocks, each satisfying the same Leaf interface, plus
// the factory registry used to allocate and decode them.
package ele

import (
	"github.com/cpmech/gosl/chk"
)

// Kind tags which of the four leaf payload variants a Leaf carries (spec
// §3 "Spatial tree node"); also used as the wire tag in serialization
// (spec §6, one byte per node: 0x01 dense, 0x02 sparse, 0x03 low-rank,
// 0x04 zero).
type Kind byte

const (
	KindDense  Kind = 0x01
	KindSparse Kind = 0x02
	KindLowRank Kind = 0x03
	KindZero   Kind = 0x04
)

func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	case KindLowRank:
		return "lowrank"
	case KindZero:
		return "zero"
	}
	return "unknown"
}

// Leaf is what every compressed tree leaf must implement: apply itself to
// a sub-vector of x (indexed by the leaf's column set) and accumulate
// into y (indexed by the leaf's row set), and report its own byte
// footprint (spec §4.F). Serialization of leaves is done by fem's
// Operator.Encode and Decode (spec §6).
type Leaf interface {
	Kind() Kind
	Shape() (nrows, ncols int)

	// Apply computes y += alpha * B * x, where x has length ncols and y
	// has length nrows (both already restricted to this leaf's index
	// sets by the caller).
	Apply(y []float64, alpha float64, x []float64)

	// Bytes returns the size in bytes of this leaf's stored arrays (spec
	// §4.F "Memory accounting"). The tag byte, shape header and the
	// sparse nnz / low-rank rank count fields are not counted.
	Bytes() int64
}

// AllocatorType builds a Leaf of a particular Kind from raw decoded
// fields (used by deserialization; see fem.Decode).
type AllocatorType func(nrows, ncols int, payload interface{}) (Leaf, error)

// allocators holds all available leaf kinds, keyed by Kind, following the
// same registry shape as ele.factory's element allocators map.
var allocators = map[Kind]AllocatorType{}

// SetAllocator registers a new allocator function for a leaf Kind.
func SetAllocator(kind Kind, fcn AllocatorType) {
	if _, ok := allocators[kind]; ok {
		chk.Panic("cannot set allocator for leaf kind %v because it exists already", kind)
	}
	allocators[kind] = fcn
}

// New allocates a Leaf of the given kind from a decoded payload.
func New(kind Kind, nrows, ncols int, payload interface{}) (leaf Leaf, err error) {
	fcn, ok := allocators[kind]
	if !ok {
		return nil, chk.Err("no allocator registered for leaf kind %v", kind)
	}
	leaf, err = fcn(nrows, ncols, payload)
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		return nil, chk.Err("allocator for leaf kind %v returned nil", kind)
	}
	return
}

func init() {
	SetAllocator(KindDense, func(nrows, ncols int, payload interface{}) (Leaf, error) {
		B, ok := payload.([][]float32)
		if !ok {
			return nil, chk.Err("dense leaf payload must be [][]float32")
		}
		return &Dense{NRows: nrows, NCols: ncols, B: B}, nil
	})
	SetAllocator(KindSparse, func(nrows, ncols int, payload interface{}) (Leaf, error) {
		s, ok := payload.(*Sparse)
		if !ok {
			return nil, chk.Err("sparse leaf payload must be *Sparse")
		}
		s.NRows, s.NCols = nrows, ncols
		return s, nil
	})
	SetAllocator(KindLowRank, func(nrows, ncols int, payload interface{}) (Leaf, error) {
		lr, ok := payload.(*LowRank)
		if !ok {
			return nil, chk.Err("low-rank leaf payload must be *LowRank")
		}
		lr.NRows, lr.NCols = nrows, ncols
		return lr, nil
	})
	SetAllocator(KindZero, func(nrows, ncols int, payload interface{}) (Leaf, error) {
		return &Zero{NRows: nrows, NCols: ncols}, nil
	})
}
