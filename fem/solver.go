// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Result holds one converged (or aborted) steady-state solve (spec
// §4.H): visible-light radiosity B, total absorbed flux Q, and the
// resulting equilibrium temperature field.
type Result struct {
	B          []float64 // reflected visible radiosity at each face
	Q          []float64 // total absorbed flux (direct + scattered) at each face
	T          []float64 // equilibrium temperature at each face, Kelvin
	Iterations int
	Converged  bool
}

// FEsolver is implemented by each steady-state solution strategy. The
// name and registry shape follow the teacher's pluggable FE solver
// (fem.FEsolver / fem.solverallocators): here there is one production
// strategy (Neumann-series fixed point) rather than several time-
// integration schemes, but the same "name -> allocator" indirection is
// kept so an alternative (e.g. a direct linear solve for small meshes)
// can be added later without touching callers.
type FEsolver interface {
	// Run iterates the radiosity/temperature fixed point to convergence
	// or until cfg.MaxIter is reached.
	Run(ctx context.Context, dom *Domain, eDir []float64) (*Result, error)
}

// solverallocators holds all available steady-state solvers, keyed by
// name.
var solverallocators = map[string]func() FEsolver{
	"neumann": func() FEsolver { return &NeumannSolver{} },
}

// NewSolver returns a new FEsolver selected by name.
func NewSolver(name string) (s FEsolver, err error) {
	alloc, ok := solverallocators[name]
	if !ok {
		return nil, chk.Err("solver %q is not available (want \"neumann\")", name)
	}
	return alloc(), nil
}

// NumericalBreakdownError is returned when the Neumann iteration
// produces a non-finite radiosity value, which indicates the operator
// or input flux is inconsistent with a physically stable steady state
// (spec §7).
type NumericalBreakdownError struct {
	Iteration int
	FaceID    int
}

func (e *NumericalBreakdownError) Error() string {
	return chk.Err("numerical breakdown at iteration %d, face %d: radiosity is not finite", e.Iteration, e.FaceID).Error()
}

// NeumannSolver computes the steady-state radiosity and temperature
// field by two Neumann-series fixed-point iterations (spec §4.H):
//
//	B = E_dir + albedo * Op*B             (visible radiosity)
//	Q = (1-albedo)*B + emissivity * Op*Q  (IR self-heating)
//	T = (Q / (emissivity*sigma))^(1/4)
//
// Both series converge because Op's spectral radius is < 1 (each row
// sum is itself < 1, spec invariant 3); each iterates to a relative
// max-norm change below cfg.SolTol, or until cfg.MaxIter iterations.
// The second fixed point is what lets a face with no direct or visible-
// reflected view of a sunlit face (e.g. the floor of a permanently
// shadowed crater) still absorb flux, via multi-bounce infrared
// exchange with warmer neighbors through the same operator.
type NeumannSolver struct{}

// Run implements FEsolver.
func (NeumannSolver) Run(ctx context.Context, dom *Domain, eDir []float64) (*Result, error) {
	cfg := dom.Cfg
	nf := dom.Mesh.NumFaces()

	B, bIters, bConverged, err := iterateNeumann(ctx, dom, cfg.MaxIter, cfg.SolTol, func(i int, scattered []float64) float64 {
		return eDir[i] + cfg.Albedo*scattered[i]
	}, nil)
	if err != nil {
		return nil, err
	}

	absorbed := make([]float64, nf)
	for i := range absorbed {
		absorbed[i] = (1 - cfg.Albedo) * B[i]
	}
	Q, _, qConverged, err := iterateNeumann(ctx, dom, cfg.MaxIter, cfg.SolTol, func(i int, scattered []float64) float64 {
		return absorbed[i] + cfg.Emissivity*scattered[i]
	}, absorbed)
	if err != nil {
		return nil, err
	}

	T := make([]float64, nf)
	denom := cfg.Emissivity * cfg.StefanBoltzmann
	for i := 0; i < nf; i++ {
		if Q[i] <= 0 {
			T[i] = 0
			continue
		}
		T[i] = math.Pow(Q[i]/denom, 0.25)
	}

	res := &Result{B: B, Q: Q, T: T, Iterations: bIters, Converged: bConverged && qConverged}
	return res, nil
}

// iterateNeumann converges a fixed point x_(n+1)[i] = update(i, Op*x_n) to
// cfg.SolTol in relative max-norm, or gives up after maxIter iterations.
// init seeds the starting iterate (the zero vector when nil), letting the
// IR self-heating loop start from its absorbed-flux source term instead
// of from zero.
func iterateNeumann(ctx context.Context, dom *Domain, maxIter uint32, tol float64, update func(i int, scattered []float64) float64, init []float64) (x []float64, iters int, converged bool, err error) {
	nf := dom.Mesh.NumFaces()
	x = make([]float64, nf)
	if init != nil {
		copy(x, init)
	}
	next := make([]float64, nf)
	scattered := make([]float64, nf)

	for it := 0; it < int(maxIter); it++ {
		select {
		case <-ctx.Done():
			return nil, 0, false, &CancelledError{Stage: "solve"}
		default:
		}

		if err := dom.Operator.Apply(ctx, scattered, 1, x, 0); err != nil {
			return nil, 0, false, err
		}

		var maxDelta, maxX float64
		for i := 0; i < nf; i++ {
			v := update(i, scattered)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, false, &NumericalBreakdownError{Iteration: it, FaceID: i}
			}
			next[i] = v
			if d := math.Abs(v - x[i]); d > maxDelta {
				maxDelta = d
			}
			if math.Abs(v) > maxX {
				maxX = math.Abs(v)
			}
		}
		x, next = next, x
		iters = it + 1

		if maxX < 1e-300 || maxDelta/math.Max(maxX, 1e-300) < tol {
			converged = true
			break
		}
	}
	return x, iters, converged, nil
}
