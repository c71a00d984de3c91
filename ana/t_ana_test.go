// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_parallelrect01_knownvalue(tst *testing.T) {

	chk.PrintTitle("parallelrect01")

	// unit squares, unit separation: a well known tabulated value
	f := ParallelRectangles(1, 1, 1)
	chk.Scalar(tst, "F", 1e-4, f, 0.19982)
}

func Test_parallelrect02_limits(tst *testing.T) {

	chk.PrintTitle("parallelrect02")

	// as separation grows, the view factor must vanish
	fFar := ParallelRectangles(1, 1, 1000)
	if fFar > 1e-5 {
		tst.Errorf("expected a vanishing view factor at large separation, got %g\n", fFar)
	}
}

func Test_directflux01(tst *testing.T) {

	chk.PrintTitle("directflux01")

	// overhead sun (elevation = 90deg): full solar constant at 1 AU
	f := DirectFlux(1361.0, 1.0, math.Pi/2)
	chk.Scalar(tst, "flux", 1e-6, f, 1361.0)

	// sun below the horizon: zero flux
	f2 := DirectFlux(1361.0, 1.0, -0.1)
	if f2 != 0 {
		tst.Errorf("expected zero flux below the horizon, got %g\n", f2)
	}
}

func Test_equilibriumtemp01(tst *testing.T) {

	chk.PrintTitle("equilibriumtemp01")

	// a face absorbing the full solar constant at 1 AU with emissivity 1
	sigma := 5.670374419e-8
	T := EquilibriumTemperature(1361.0, 1.0, sigma)
	want := math.Pow(1361.0/sigma, 0.25)
	chk.Scalar(tst, "T", 1e-6, T, want)
}
