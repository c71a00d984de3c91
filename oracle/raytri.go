// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oracle

import (
	"math"

	"github.com/sampotter/gofflux/shp"
)

// rayTriEps guards the Möller–Trumbore test against divide-by-near-zero
// when a ray is (numerically) parallel to a triangle's plane.
const rayTriEps = 1e-12

// intersectRayTriangle implements the Möller–Trumbore ray/triangle
// intersection test. It returns (t, true) if the line org+t*dir strikes
// the triangle, or (0, false) otherwise; t may be zero or negative (a hit
// behind the origin), and callers filter t against their own range. No third-party
// ray-tracing library appears anywhere in the retrieved pack, so this is
// hand-rolled from the standard formulation (see DESIGN.md).
func intersectRayTriangle(org, dir shp.Vec3, tri shp.Triangle) (t float64, hit bool) {
	e1 := shp.Sub(tri.V1, tri.V0)
	e2 := shp.Sub(tri.V2, tri.V0)
	pvec := shp.Cross(dir, e2)
	det := shp.Dot(e1, pvec)
	if math.Abs(det) < rayTriEps {
		return 0, false
	}
	invDet := 1.0 / det
	tvec := shp.Sub(org, tri.V0)
	u := shp.Dot(tvec, pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := shp.Cross(tvec, e1)
	v := shp.Dot(dir, qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = shp.Dot(e2, qvec) * invDet
	return t, true
}

// aabb is an axis-aligned bounding box, shared by both oracle
// implementations' acceleration structures.
type aabb struct {
	Lo, Hi shp.Vec3
}

func emptyAABB() aabb {
	inf := math.Inf(1)
	return aabb{
		Lo: shp.Vec3{inf, inf, inf},
		Hi: shp.Vec3{-inf, -inf, -inf},
	}
}

func (b aabb) expand(p shp.Vec3) aabb {
	for k := 0; k < 3; k++ {
		if p[k] < b.Lo[k] {
			b.Lo[k] = p[k]
		}
		if p[k] > b.Hi[k] {
			b.Hi[k] = p[k]
		}
	}
	return b
}

func (b aabb) union(o aabb) aabb {
	b = b.expand(o.Lo)
	b = b.expand(o.Hi)
	return b
}

func triangleAABB(t shp.Triangle) aabb {
	b := emptyAABB()
	b = b.expand(t.V0)
	b = b.expand(t.V1)
	b = b.expand(t.V2)
	return b
}

// hit tests whether the ray org+s*dir, s>=0, intersects the box at all
// (slab method); used to prune BVH/AABB-tree traversal.
func (b aabb) hit(org, invDir shp.Vec3) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for k := 0; k < 3; k++ {
		t0 := (b.Lo[k] - org[k]) * invDir[k]
		t1 := (b.Hi[k] - org[k]) * invDir[k]
		if invDir[k] < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax < tmin {
			return false
		}
	}
	return true
}
