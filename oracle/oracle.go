// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package oracle implements the ray-occlusion oracle (spec §4.B): pairwise
// face-to-face visibility and batched occlusion queries against an
// acceleration structure built over a triangle mesh. Two interchangeable
// implementations are provided, selected by name through the same
// registry pattern the teacher uses for its pluggable conductivity
// models (mconduct.New(name)).
package oracle

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// Oracle defines the two primitive queries every acceleration structure
// must support (spec §4.B).
type Oracle interface {

	// Build constructs the acceleration structure over the mesh. Returns
	// an *OracleBuildFailedError if construction fails.
	Build(m *inp.Mesh) error

	// Occluded returns, for each ray (origins[k], dirs[k]), whether it
	// strikes any triangle at finite t > tNear. Rays with zero direction
	// are reported as occluded (conservative), per spec §4.B "Failure".
	Occluded(origins, dirs []shp.Vec3, tNear float64) []bool

	// Visible returns true iff the open segment from P[i] to P[j]
	// strikes no triangle other than i or j.
	Visible(i, j int) bool
}

// Config controls the shared behavior of both oracle implementations.
type Config struct {
	OrientedVisibility bool    // also require (P[j]-P[i]).N[i] > 0 and symmetrically
	EpsSelf            float32 // self-ray perturbation distance; 0 => derive 1e3*float32-resolution per query
	EpsPerFaceSqrtA     bool    // scale eps by sqrt(A[i]) instead of using a global constant (opt-in, spec Open Question 1)
}

// float32Resolution is the smallest representable gap near 1.0 in
// float32, used as the basis of the default self-ray epsilon (spec §4.B).
const float32Resolution = 1.1920929e-07

// defaultEps returns the global self-ray perturbation distance used
// unless the caller has opted into per-face sqrt(A) scaling.
func defaultEps(cfg Config, faceArea float64) float64 {
	base := float64(cfg.EpsSelf)
	if base == 0 {
		base = 1e3 * float32Resolution
	}
	if cfg.EpsPerFaceSqrtA {
		return math.Sqrt(faceArea) / 200
	}
	return base
}

// OracleBuildFailedError is returned by Build when the acceleration
// structure cannot be constructed (spec §7, OracleBuildFailed).
type OracleBuildFailedError struct {
	Reason string
}

func (e *OracleBuildFailedError) Error() string {
	return chk.Err("oracle build failed: %s", e.Reason).Error()
}

// allocators holds all available oracle implementations, keyed by the
// Config.Oracle / inp.Config.Oracle name ("bvh", "aabb").
var allocators = map[string]func(Config) Oracle{
	"bvh":  func(cfg Config) Oracle { return NewBVH(cfg) },
	"aabb": func(cfg Config) Oracle { return NewAABBTree(cfg) },
}

// New returns a new Oracle implementation selected by name.
func New(name string, cfg Config) (o Oracle, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("oracle %q is not available (want \"bvh\" or \"aabb\")", name)
	}
	return allocator(cfg), nil
}
