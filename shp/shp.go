// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements the geometric primitives derived from a triangle
// mesh: centroids, cross products, unit normals and areas.
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Vec3 is a 3-component vector; used for vertices, centroids and normals.
type Vec3 [3]float64

// Sub returns a-b
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a+b
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Scale returns s*a
func Scale(s float64, a Vec3) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

// Dot returns the inner product a.b
func Dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns a×b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of a
func Norm(a Vec3) float64 {
	return math.Sqrt(Dot(a, a))
}

// Normalize returns a/‖a‖; panics if ‖a‖ is (numerically) zero
func Normalize(a Vec3) Vec3 {
	n := Norm(a)
	if n < epsArea {
		chk.Panic("cannot normalize a vector with zero length")
	}
	return Scale(1.0/n, a)
}

// Triangle holds the three vertices of a face, in winding order.
type Triangle struct {
	V0, V1, V2 Vec3
}

// Centroid returns the arithmetic mean of the triangle's vertices.
func (t Triangle) Centroid() Vec3 {
	return Vec3{
		(t.V0[0] + t.V1[0] + t.V2[0]) / 3,
		(t.V0[1] + t.V1[1] + t.V2[1]) / 3,
		(t.V0[2] + t.V1[2] + t.V2[2]) / 3,
	}
}

// CrossProduct returns (v1-v0)×(v2-v0); its length is twice the triangle's area.
func (t Triangle) CrossProduct() Vec3 {
	return Cross(Sub(t.V1, t.V0), Sub(t.V2, t.V0))
}

// epsArea is the minimum |cross product| accepted before a face is
// rejected as degenerate (see DegenerateFace).
const epsArea = 1e-12

// DegenerateFace is returned by NormalAndArea when the triangle's cross
// product is (numerically) zero.
type DegenerateFace struct {
	FaceId int
}

func (e *DegenerateFace) Error() string {
	return chk.Err("face %d is degenerate (zero area)", e.FaceId).Error()
}

// NormalAndArea computes the unit outward normal and the area of a
// triangle. It returns a *DegenerateFace error if the cross product's
// length falls below an internal tolerance.
func NormalAndArea(t Triangle, faceId int) (n Vec3, area float64, err error) {
	c := t.CrossProduct()
	cn := Norm(c)
	if cn < epsArea {
		return Vec3{}, 0, &DegenerateFace{FaceId: faceId}
	}
	area = cn / 2
	n = Scale(1.0/cn, c)
	return
}
