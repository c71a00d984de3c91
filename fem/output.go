// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/io"
)

// WriteReport writes a plain-text report of a steady-state Result to
// dirout/fnkey.rpt: per-face temperature, absorbed flux and radiosity,
// one line each. Follows the teacher's text-report convention (out
// package's Ipoint.String()-style rendering) rather than a binary
// format, since the report is meant to be read, not re-ingested.
func WriteReport(dirout, fnkey string, res *Result) {
	l := io.Sf("# face   T[K]          Q[W/m2]       B[W/m2]\n")
	for i := range res.T {
		l += io.Sf("%6d  %12.6f  %12.6f  %12.6f\n", i, res.T[i], res.Q[i], res.B[i])
	}
	io.WriteFileSD(dirout, fnkey+".rpt", l)
}

// TemperatureStats returns the min, max and mean temperature across a
// Result's faces, used for quick smoke-test sanity checks and for the
// one-line console summary printed after a run.
func TemperatureStats(res *Result) (min, max, mean float64) {
	if len(res.T) == 0 {
		return
	}
	min, max = res.T[0], res.T[0]
	var sum float64
	for _, t := range res.T {
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
		sum += t
	}
	mean = sum / float64(len(res.T))
	return
}
