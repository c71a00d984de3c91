// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/oracle"
	"github.com/sampotter/gofflux/shp"
)

// solarConstant is the mean solar irradiance at 1 AU, in W/m^2, used to
// rescale direct flux for sun distances other than 1 AU (spec §4.G).
const solarConstant = 1361.0

// DirectIrradiance computes the direct-solar flux on every face of m for
// a single sun direction sunDir (from the surface toward the sun, need
// not be normalized) at distance sunDistAU astronomical units. A face is
// illuminated only if it faces the sun (N.sunDir > 0) and the oracle
// reports no occluder between the face centroid and the sun (spec
// §4.G).
func DirectIrradiance(ctx context.Context, m *inp.Mesh, or oracle.Oracle, sunDir shp.Vec3, sunDistAU float64) ([]float64, error) {
	batch, err := BatchDirectIrradiance(ctx, m, or, []shp.Vec3{sunDir}, sunDistAU)
	if err != nil {
		return nil, err
	}
	return batch[0], nil
}

// BatchDirectIrradiance computes direct-solar flux for M sun directions
// at once (spec §4.G "batch M x 3 sun-direction support"), sharing the
// oracle's acceleration structure across all M queries. Returns one
// []float64 of length m.NumFaces() per sun direction.
func BatchDirectIrradiance(ctx context.Context, m *inp.Mesh, or oracle.Oracle, sunDirs []shp.Vec3, sunDistAU float64) ([][]float64, error) {
	sunDistAU = roundToAU(sunDistAU)
	flux := solarConstant / (sunDistAU * sunDistAU)

	nf := m.NumFaces()
	out := make([][]float64, len(sunDirs))
	for k := range out {
		out[k] = make([]float64, nf)
	}

	tNear := 1e-6
	for k, sd := range sunDirs {
		select {
		case <-ctx.Done():
			return nil, &CancelledError{Stage: "irradiance"}
		default:
		}

		dirUnit := shp.Normalize(sd)
		var origins, dirs []shp.Vec3
		var litFaces []int
		for i := 0; i < nf; i++ {
			cos := shp.Dot(m.N[i], dirUnit)
			if cos <= 0 {
				continue
			}
			origins = append(origins, m.P[i])
			dirs = append(dirs, dirUnit)
			litFaces = append(litFaces, i)
		}
		if len(litFaces) == 0 {
			continue
		}
		occluded := or.Occluded(origins, dirs, tNear)
		for p, i := range litFaces {
			if occluded[p] {
				continue
			}
			cos := shp.Dot(m.N[i], dirUnit)
			out[k][i] = flux * cos
		}
	}
	return out, nil
}

// TotalIrradiance adds the flux scattered onto each face, Op*B, from a
// radiosity B already computed by a Solver, to the direct flux E_dir (spec §4.H "absorbed flux Q = E_dir +
// Op*B").
func TotalIrradiance(ctx context.Context, op *Operator, eDir, B []float64) ([]float64, error) {
	nf := len(eDir)
	scattered := make([]float64, nf)
	if err := op.Apply(ctx, scattered, 1, B, 0); err != nil {
		return nil, err
	}
	q := make([]float64, nf)
	for i := range q {
		q[i] = eDir[i] + scattered[i]
	}
	return q, nil
}

// roundToAU replaces a distance of at most 1e-6 AU (including zero or
// negative values) with 1 AU, guarding against a zero-distance
// misconfiguration producing +Inf flux; other distances pass unchanged.
func roundToAU(d float64) float64 {
	if d <= 1e-6 {
		return 1.0
	}
	return d
}
