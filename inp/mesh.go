// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the mesh and configuration input accepted by the
// radiative operator pipeline: an immutable triangle mesh with derived
// geometry, and the set of recognized configuration options.
package inp

import (
	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/shp"
)

// Mesh holds an immutable triangulated surface: vertices, faces and the
// derived per-face arrays (centroid, unit normal, area). Re-meshing
// invalidates any compressed operator built from a Mesh; Mesh itself never
// changes after NewMesh returns.
type Mesh struct {
	V []shp.Vec3 // vertices, length NumVerts()
	F [][3]uint32 // faces (vertex index triples), length NumFaces()

	P []shp.Vec3  // per-face centroids
	N []shp.Vec3  // per-face unit normals
	A []float64   // per-face areas, all > 0
}

// NewMesh builds a Mesh from vertices and faces, computing centroids and
// (unless supplied) normals and areas. Following
// TrimeshShapeModel.__init__ in the reference implementation, already
// computed normals/areas may be passed in to avoid recomputing them.
//
// It returns a *DegenerateMeshError if any face has out-of-range vertex
// indices or zero area.
func NewMesh(V []shp.Vec3, F [][3]uint32, N []shp.Vec3, A []float64) (m *Mesh, err error) {
	nf := len(F)
	nv := len(V)
	for i, f := range F {
		for k := 0; k < 3; k++ {
			if int(f[k]) >= nv {
				return nil, &DegenerateMeshError{Reason: chk.Err("face %d references out-of-range vertex %d (have %d vertices)", i, f[k], nv).Error()}
			}
		}
	}

	m = &Mesh{V: V, F: F, P: make([]shp.Vec3, nf)}
	for i, f := range F {
		t := shp.Triangle{V0: V[f[0]], V1: V[f[1]], V2: V[f[2]]}
		m.P[i] = t.Centroid()
	}

	switch {
	case N != nil && A != nil:
		if len(N) != nf || len(A) != nf {
			return nil, &DegenerateMeshError{Reason: chk.Err("N and A must have length %d (got %d, %d)", nf, len(N), len(A)).Error()}
		}
		m.N, m.A = N, A

	case N != nil:
		if len(N) != nf {
			return nil, &DegenerateMeshError{Reason: chk.Err("N must have length %d (got %d)", nf, len(N)).Error()}
		}
		m.N = N
		m.A = make([]float64, nf)
		for i, f := range F {
			t := shp.Triangle{V0: V[f[0]], V1: V[f[1]], V2: V[f[2]]}
			_, a, e := shp.NormalAndArea(t, i)
			if e != nil {
				return nil, &DegenerateMeshError{Reason: e.Error()}
			}
			m.A[i] = a
		}

	case A != nil:
		if len(A) != nf {
			return nil, &DegenerateMeshError{Reason: chk.Err("A must have length %d (got %d)", nf, len(A)).Error()}
		}
		m.A = A
		m.N = make([]shp.Vec3, nf)
		for i, f := range F {
			t := shp.Triangle{V0: V[f[0]], V1: V[f[1]], V2: V[f[2]]}
			n, _, e := shp.NormalAndArea(t, i)
			if e != nil {
				return nil, &DegenerateMeshError{Reason: e.Error()}
			}
			m.N[i] = n
		}

	default:
		m.N = make([]shp.Vec3, nf)
		m.A = make([]float64, nf)
		for i, f := range F {
			t := shp.Triangle{V0: V[f[0]], V1: V[f[1]], V2: V[f[2]]}
			n, a, e := shp.NormalAndArea(t, i)
			if e != nil {
				return nil, &DegenerateMeshError{Reason: e.Error()}
			}
			m.N[i], m.A[i] = n, a
		}
	}

	for i, a := range m.A {
		if a <= 0 {
			return nil, &DegenerateMeshError{Reason: chk.Err("face %d has non-positive area %g", i, a).Error()}
		}
	}
	return
}

// NumFaces returns the number of faces in the mesh.
func (m *Mesh) NumFaces() int { return len(m.F) }

// NumVerts returns the number of vertices in the mesh.
func (m *Mesh) NumVerts() int { return len(m.V) }

// Triangle returns the i'th face as a shp.Triangle.
func (m *Mesh) Triangle(i int) shp.Triangle {
	f := m.F[i]
	return shp.Triangle{V0: m.V[f[0]], V1: m.V[f[1]], V2: m.V[f[2]]}
}

// FlipNormalsDownward flips any normal N[i] with N[i]·ẑ > 0 in place, so
// that all normals satisfy N·ẑ ≤ 0. This is only applied when explicitly
// requested (spec §3: "core flips so N·ẑ ≤ 0 only when explicitly
// requested").
func (m *Mesh) FlipNormalsDownward() {
	for i, n := range m.N {
		if n[2] > 0 {
			m.N[i] = shp.Scale(-1, n)
		}
	}
}

// DegenerateMeshError reports an invalid mesh: out-of-range face indices
// or non-positive face area.
type DegenerateMeshError struct {
	Reason string
}

func (e *DegenerateMeshError) Error() string {
	return "degenerate mesh: " + e.Reason
}
