// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/io"
)

// Diagnostics accumulates the warnings and byte-footprint counters
// produced while assembling an Operator (spec §4.F "Memory accounting",
// §4.I). It is printed the way out/printing.go renders a gofem Summary:
// an io.Sf-built report, not a log stream.
type Diagnostics struct {
	NLeaves       int
	NDense        int
	NSparse       int
	NLowRank      int
	NZero         int
	BytesDense    int64
	BytesSparse   int64
	BytesLowRank  int64
	RankRejected  int // leaf pairs where compression was attempted but rejected on the storage-cost test
	RowSumWarnings []string
}

// recordLeaf folds one assembled leaf's kind and byte footprint into the
// running tallies.
func (d *Diagnostics) recordLeaf(kind string, bytes int64) {
	d.NLeaves++
	switch kind {
	case "dense":
		d.NDense++
		d.BytesDense += bytes
	case "sparse":
		d.NSparse++
		d.BytesSparse += bytes
	case "lowrank":
		d.NLowRank++
		d.BytesLowRank += bytes
	case "zero":
		d.NZero++
	}
}

// warnRowSum records a violation of the row-sum-at-most-one invariant
// (spec §8 invariant 3) found for face id during diagonal-block assembly.
func (d *Diagnostics) warnRowSum(faceID int, sum float64) {
	d.RowSumWarnings = append(d.RowSumWarnings, io.Sf("face %d: row-sum %.6f exceeds 1 (energy-conservation check)", faceID, sum))
}

// TotalBytes returns the compressed operator's total footprint in bytes.
func (d *Diagnostics) TotalBytes() int64 {
	return d.BytesDense + d.BytesSparse + d.BytesLowRank
}

// String renders a human-readable summary, following the compact
// "key = value" style of the teacher's out.Ipoint.String().
func (d *Diagnostics) String() (l string) {
	l += io.Sf("leaves        = %d\n", d.NLeaves)
	l += io.Sf("  dense       = %d  (%d bytes)\n", d.NDense, d.BytesDense)
	l += io.Sf("  sparse      = %d  (%d bytes)\n", d.NSparse, d.BytesSparse)
	l += io.Sf("  lowrank     = %d  (%d bytes)\n", d.NLowRank, d.BytesLowRank)
	l += io.Sf("  zero        = %d\n", d.NZero)
	l += io.Sf("rank rejected = %d\n", d.RankRejected)
	l += io.Sf("total bytes   = %d\n", d.TotalBytes())
	if n := len(d.RowSumWarnings); n > 0 {
		l += io.Sf("row-sum warnings = %d\n", n)
	}
	return
}
