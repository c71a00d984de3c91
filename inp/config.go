// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// Config holds the recognized options for building and applying a
// compressed form-factor operator (spec §6). Mirrors the teacher's
// JSON-tagged option structs (inp.SolverData): one field per option, with
// a trailing comment documenting units and the default.
type Config struct {
	Tol          float64 `json:"tol"`                // relative Frobenius-norm threshold for low-rank acceptance; default 1e-3
	MinSize      uint32  `json:"min_size"`           // stop subdividing a tree node at <= this many faces; default 512
	MaxRank      uint32  `json:"max_rank"`            // optional rank cap for a compressed leaf; 0 means unlimited
	Oracle       string  `json:"oracle"`              // "bvh" or "aabb"; default "bvh"
	Oriented     bool    `json:"oriented_visibility"` // require (P[j]-P[i]).N[i] > 0 and symmetrically; default true
	EpsSelf      float32 `json:"eps_self"`            // self-ray perturbation distance; 0 means "auto" (see EpsSelfAuto)
	EpsSelfAuto  bool    `json:"-"`                   // true when EpsSelf was left unset and should be derived per-query
	Parallel     bool    `json:"parallel"`            // assemble up to GOMAXPROCS leaf blocks at once (one at a time when false); default true
	Compressor   string  `json:"compressor"`          // "svd" or "aca"; default "svd"
	SparseThresh float64 `json:"sparse_threshold"`    // nnz fraction below which a rejected low-rank block is stored as sparse instead of dense; default 0.25

	// Emissivity and StefanBoltzmann feed the steady-state temperature
	// solver (spec §4.H): T = (Q / (epsilon * sigma))^(1/4).
	Emissivity      float64 `json:"emissivity"`       // thermal (longwave) emissivity epsilon; default 0.95
	StefanBoltzmann float64 `json:"-"`                // W/(m^2 K^4); physical constant, not user-configurable

	MaxIter uint32  `json:"max_iter"` // Neumann-iteration cap for the steady-state solver; default 100
	SolTol  float64 `json:"sol_tol"`  // relative max-norm change of the Neumann iterate (B, then Q) that signals convergence; default 1e-6
	Albedo  float64 `json:"albedo"`   // bolometric (visible) Bond albedo applied to reflected radiosity; default 0.12 (lunar regolith)
}

// DefaultConfig returns a Config with all documented defaults (spec §6).
func DefaultConfig() Config {
	return Config{
		Tol:             1e-3,
		MinSize:         512,
		MaxRank:         0,
		Oracle:          "bvh",
		Oriented:        true,
		EpsSelf:         0,
		EpsSelfAuto:     true,
		Parallel:        true,
		Compressor:      "svd",
		SparseThresh:    0.25,
		Emissivity:      0.95,
		StefanBoltzmann: 5.670374419e-8,
		MaxIter:         100,
		SolTol:          1e-6,
		Albedo:          0.12,
	}
}

// SetDefaults fills in zero-valued numeric and string fields of a
// partially populated Config with their documented defaults, following
// the same shape as inp.SolverData's "nmaxit/atol/rtol" being set up by
// the reading code. Boolean fields (Oriented, EpsSelfAuto, Parallel) are
// left as they are.
func (c *Config) SetDefaults() {
	if c.Tol <= 0 {
		c.Tol = 1e-3
	}
	if c.MinSize == 0 {
		c.MinSize = 512
	}
	if c.Oracle == "" {
		c.Oracle = "bvh"
	}
	if c.Compressor == "" {
		c.Compressor = "svd"
	}
	if c.SparseThresh <= 0 {
		c.SparseThresh = 0.25
	}
	if c.Emissivity <= 0 {
		c.Emissivity = 0.95
	}
	if c.StefanBoltzmann <= 0 {
		c.StefanBoltzmann = 5.670374419e-8
	}
	if c.MaxIter == 0 {
		c.MaxIter = 100
	}
	if c.SolTol <= 0 {
		c.SolTol = 1e-6
	}
	if c.Albedo <= 0 {
		c.Albedo = 0.12
	}
}
