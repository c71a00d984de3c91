// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana holds closed-form analytical references used to check the
// numerical radiative operator and solver against known results, the
// way the teacher's ana package checks FE displacements/stresses
// against closed-form elasticity solutions (PlateHole, ColPresFluid).
package ana

import "math"

// ParallelRectangles returns the view factor from one a x b rectangle to
// an identical, directly facing, aligned rectangle separated by distance
// c (Hottel's closed-form result for parallel aligned rectangles; see
// any radiative heat transfer reference, e.g. Incropera's View Factor
// tables). Used to check the facing-plate scenario against the
// numerical operator's aggregated form factor.
func ParallelRectangles(a, b, c float64) float64 {
	X, Y := a/c, b/c
	term1 := math.Log(math.Sqrt((1 + X*X) * (1 + Y*Y) / (1 + X*X + Y*Y)))
	term2 := X * math.Sqrt(1+Y*Y) * math.Atan(X/math.Sqrt(1+Y*Y))
	term3 := Y * math.Sqrt(1+X*X) * math.Atan(Y/math.Sqrt(1+X*X))
	term4 := X * math.Atan(X)
	term5 := Y * math.Atan(Y)
	return 2.0 / (math.Pi * X * Y) * (term1 + term2 + term3 - term4 - term5)
}

// DirectFlux returns the direct-solar irradiance on a flat, unoccluded
// surface at sunDistAU astronomical units with the sun at elevation
// angle elevationRad above the local horizon (cos of the incidence
// angle equals sin(elevation) for a horizontal surface).
func DirectFlux(solarConstant, sunDistAU, elevationRad float64) float64 {
	cos := math.Sin(elevationRad)
	if cos < 0 {
		return 0
	}
	return solarConstant * cos / (sunDistAU * sunDistAU)
}

// EquilibriumTemperature returns the blackbody-like equilibrium
// temperature T = (Q / (emissivity*sigma))^(1/4) for a face absorbing
// flux Q with no lateral conduction — the closed-form limit the
// numerical steady-state solver must reproduce whenever a face has no
// visible neighbors (spec §4.H).
func EquilibriumTemperature(absorbedFlux, emissivity, stefanBoltzmann float64) float64 {
	if absorbedFlux <= 0 {
		return 0
	}
	return math.Pow(absorbedFlux/(emissivity*stefanBoltzmann), 0.25)
}
