// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests holds end-to-end scenario tests over the radiative
// operator and solver: facing-plate form factors, occluder shadowing,
// a circular crater mesh, serialization round-trips and cancellation
// mid-assembly.
package tests

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

// Verbose turns on progress printing and chk's verbose comparison
// output, following the teacher's tests.Verbose() toggle.
func Verbose() {
	io.Verbose = true
	chk.Verbose = true
}
