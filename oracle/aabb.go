// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oracle

import (
	"math"
	"sort"

	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// aabbNode is a node of the CPU-only AABB tree. Unlike BVH, leaves hold
// exactly one primitive, and the split axis cycles with tree depth
// (round-robin) rather than picking the locally longest axis — the
// traversal pattern CGAL's AABB_tree uses by default (spec §4.B:
// "a CPU-only AABB-tree path").
type aabbNode struct {
	Box         aabb
	Left, Right int
	Prim        int // valid (>=0) only at leaves
}

// AABBTree is the CPU-only oracle implementation (spec §4.B, §3: "double
// precision used only by the CPU-side CGAL-style AABB oracle"). It must
// return identical boolean results to BVH modulo the ε perturbation.
type AABBTree struct {
	cfg   Config
	mesh  *inp.Mesh
	nodes []aabbNode
	root  int
}

// NewAABBTree allocates an (unbuilt) AABB-tree oracle.
func NewAABBTree(cfg Config) *AABBTree {
	return &AABBTree{cfg: cfg}
}

// Build constructs the AABB tree over the mesh's faces.
func (o *AABBTree) Build(m *inp.Mesh) error {
	if m.NumFaces() == 0 {
		return &OracleBuildFailedError{Reason: "mesh has no faces"}
	}
	o.mesh = m
	prims := make([]int, m.NumFaces())
	for i := range prims {
		prims[i] = i
	}
	o.nodes = make([]aabbNode, 0, 2*m.NumFaces())
	o.root = o.build(prims, 0)
	return nil
}

func (o *AABBTree) build(prims []int, depth int) int {
	box := emptyAABB()
	for _, p := range prims {
		box = box.union(triangleAABB(o.mesh.Triangle(p)))
	}
	if len(prims) == 1 {
		idx := len(o.nodes)
		o.nodes = append(o.nodes, aabbNode{Box: box, Left: -1, Right: -1, Prim: prims[0]})
		return idx
	}

	axis := depth % 3
	order := make([]int, len(prims))
	copy(order, prims)
	sort.Slice(order, func(a, b int) bool {
		return o.mesh.P[order[a]][axis] < o.mesh.P[order[b]][axis]
	})
	mid := len(order) / 2

	idx := len(o.nodes)
	o.nodes = append(o.nodes, aabbNode{Box: box, Prim: -1})
	left := o.build(order[:mid], depth+1)
	right := o.build(order[mid:], depth+1)
	o.nodes[idx].Left = left
	o.nodes[idx].Right = right
	return idx
}

// Occluded implements Oracle.
func (o *AABBTree) Occluded(origins, dirs []shp.Vec3, tNear float64) []bool {
	out := make([]bool, len(origins))
	for k := range origins {
		out[k] = o.occludedOne(origins[k], dirs[k], tNear)
	}
	return out
}

func (o *AABBTree) occludedOne(org, dir shp.Vec3, tNear float64) bool {
	if dir == (shp.Vec3{}) {
		return true
	}
	invDir := shp.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	return o.anyHit(o.root, org, dir, invDir, tNear, math.Inf(1), -1, -1)
}

func (o *AABBTree) anyHit(node int, org, dir, invDir shp.Vec3, tNear, tFar float64, skipI, skipJ int) bool {
	n := &o.nodes[node]
	if !n.Box.hit(org, invDir) {
		return false
	}
	if n.Left < 0 {
		if n.Prim == skipI || n.Prim == skipJ {
			return false
		}
		t, ok := intersectRayTriangle(org, dir, o.mesh.Triangle(n.Prim))
		return ok && t > tNear && t <= tFar
	}
	return o.anyHit(n.Left, org, dir, invDir, tNear, tFar, skipI, skipJ) ||
		o.anyHit(n.Right, org, dir, invDir, tNear, tFar, skipI, skipJ)
}

func (o *AABBTree) firstHit(org, dir shp.Vec3, tNear, tFar float64, skipI, skipJ int) (face int, tHit float64, ok bool) {
	invDir := shp.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	face = -1
	o.closestHit(o.root, org, dir, invDir, tNear, &tFar, skipI, skipJ, &face, &tHit)
	return face, tHit, face >= 0
}

func (o *AABBTree) closestHit(node int, org, dir, invDir shp.Vec3, tNear float64, tFar *float64, skipI, skipJ int, face *int, tHit *float64) {
	n := &o.nodes[node]
	if !n.Box.hit(org, invDir) {
		return
	}
	if n.Left < 0 {
		if n.Prim == skipI || n.Prim == skipJ {
			return
		}
		t, ok := intersectRayTriangle(org, dir, o.mesh.Triangle(n.Prim))
		if ok && t > tNear && t <= *tFar {
			*tFar = t
			*face = n.Prim
			*tHit = t
		}
		return
	}
	o.closestHit(n.Left, org, dir, invDir, tNear, tFar, skipI, skipJ, face, tHit)
	o.closestHit(n.Right, org, dir, invDir, tNear, tFar, skipI, skipJ, face, tHit)
}

// Visible implements Oracle; identical contract to BVH.Visible.
func (o *AABBTree) Visible(i, j int) bool {
	if i == j {
		return false
	}
	pi, pj := o.mesh.P[i], o.mesh.P[j]
	if o.cfg.OrientedVisibility {
		d := shp.Sub(pj, pi)
		if shp.Dot(d, o.mesh.N[i]) <= 0 {
			return false
		}
		if shp.Dot(shp.Scale(-1, d), o.mesh.N[j]) <= 0 {
			return false
		}
	}
	eps := defaultEps(o.cfg, o.mesh.A[i])
	dir := shp.Sub(pj, pi)
	dist := shp.Norm(dir)
	if dist < 1e-15 {
		return true
	}
	dirUnit := shp.Scale(1/dist, dir)
	org := shp.Add(pi, shp.Scale(eps, o.mesh.N[i]))
	_, _, ok := o.firstHit(org, dirUnit, 0, dist, i, j)
	return !ok
}
