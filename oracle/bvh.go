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

// bvhLeafSize is the maximum number of triangles kept in a BVH leaf.
const bvhLeafSize = 4

// bvhNode is one node of a flattened binary BVH. Internal nodes have
// Left/Right >= 0 indexing into the same Nodes slice; leaves have
// Left == -1 and list their triangle indices in Prims.
type bvhNode struct {
	Box         aabb
	Left, Right int
	Prims       []int
}

// BVH is the "embedded-tracer path" oracle implementation (spec §4.B): a
// binary bounding-volume hierarchy built by recursively splitting
// triangles along the longest axis of their centroid bounding box, in
// the manner of an embedded ray-tracing library's default BVH builder
// (e.g. Embree, used by the reference implementation).
type BVH struct {
	cfg   Config
	mesh  *inp.Mesh
	nodes []bvhNode
	root  int
}

// NewBVH allocates an (unbuilt) BVH oracle.
func NewBVH(cfg Config) *BVH {
	return &BVH{cfg: cfg}
}

// Build constructs the BVH over the mesh's faces. O(N log N).
func (o *BVH) Build(m *inp.Mesh) error {
	if m.NumFaces() == 0 {
		return &OracleBuildFailedError{Reason: "mesh has no faces"}
	}
	o.mesh = m
	boxes := make([]aabb, m.NumFaces())
	prims := make([]int, m.NumFaces())
	for i := range prims {
		boxes[i] = triangleAABB(m.Triangle(i))
		prims[i] = i
	}
	o.nodes = make([]bvhNode, 0, 2*m.NumFaces())
	o.root = o.build(prims, boxes)
	return nil
}

// build recursively partitions prims (a slice of face indices, with
// parallel bounding boxes) and returns the index of the node it built.
func (o *BVH) build(prims []int, boxes []aabb) int {
	box := emptyAABB()
	for _, b := range boxes {
		box = box.union(b)
	}
	if len(prims) <= bvhLeafSize {
		idx := len(o.nodes)
		o.nodes = append(o.nodes, bvhNode{Box: box, Left: -1, Prims: prims})
		return idx
	}

	// split along the longest axis of the centroid bounding box (median split)
	cbox := emptyAABB()
	for _, p := range prims {
		cbox = cbox.expand(o.mesh.P[p])
	}
	axis := longestAxis(cbox)
	order := make([]int, len(prims))
	copy(order, prims)
	sort.Slice(order, func(a, b int) bool {
		return o.mesh.P[order[a]][axis] < o.mesh.P[order[b]][axis]
	})
	mid := len(order) / 2

	leftPrims, rightPrims := order[:mid], order[mid:]
	leftBoxes := make([]aabb, len(leftPrims))
	rightBoxes := make([]aabb, len(rightPrims))
	for k, p := range leftPrims {
		leftBoxes[k] = triangleAABB(o.mesh.Triangle(p))
	}
	for k, p := range rightPrims {
		rightBoxes[k] = triangleAABB(o.mesh.Triangle(p))
	}

	idx := len(o.nodes)
	o.nodes = append(o.nodes, bvhNode{Box: box})
	left := o.build(leftPrims, leftBoxes)
	right := o.build(rightPrims, rightBoxes)
	o.nodes[idx].Left = left
	o.nodes[idx].Right = right
	return idx
}

func longestAxis(b aabb) int {
	ext := shp.Sub(b.Hi, b.Lo)
	axis := 0
	if ext[1] > ext[axis] {
		axis = 1
	}
	if ext[2] > ext[axis] {
		axis = 2
	}
	return axis
}

// Occluded implements Oracle. Batched rays are traced independently; the
// spec marks this as "trivially parallel across rays" (§5) but BVH
// traversal itself is cheap enough that this implementation traces them
// serially — the caller (oracle.Occluded's users in fem) is responsible
// for fanning out across goroutines if desired.
func (o *BVH) Occluded(origins, dirs []shp.Vec3, tNear float64) []bool {
	out := make([]bool, len(origins))
	for k := range origins {
		out[k] = o.occludedOne(origins[k], dirs[k], tNear)
	}
	return out
}

func (o *BVH) occludedOne(org, dir shp.Vec3, tNear float64) bool {
	if dir == (shp.Vec3{}) {
		return true // zero direction: conservative (spec §4.B "Failure")
	}
	invDir := shp.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	return o.anyHit(o.root, org, dir, invDir, tNear, math.Inf(1), -1, -1)
}

// anyHit walks the BVH looking for any triangle hit with t in
// (tNear, tFar], excluding faces skipI/skipJ (pass -1 to exclude none).
func (o *BVH) anyHit(node int, org, dir, invDir shp.Vec3, tNear, tFar float64, skipI, skipJ int) bool {
	n := &o.nodes[node]
	if !n.Box.hit(org, invDir) {
		return false
	}
	if n.Left < 0 {
		for _, p := range n.Prims {
			if p == skipI || p == skipJ {
				continue
			}
			t, ok := intersectRayTriangle(org, dir, o.mesh.Triangle(p))
			if ok && t > tNear && t <= tFar {
				return true
			}
		}
		return false
	}
	return o.anyHit(n.Left, org, dir, invDir, tNear, tFar, skipI, skipJ) ||
		o.anyHit(n.Right, org, dir, invDir, tNear, tFar, skipI, skipJ)
}

// firstHit returns the closest face struck by the ray in (tNear, tFar],
// excluding skipI/skipJ, or (-1, 0, false) if none.
func (o *BVH) firstHit(org, dir shp.Vec3, tNear, tFar float64, skipI, skipJ int) (face int, tHit float64, ok bool) {
	invDir := shp.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	face = -1
	o.closestHit(o.root, org, dir, invDir, tNear, &tFar, skipI, skipJ, &face, &tHit)
	return face, tHit, face >= 0
}

func (o *BVH) closestHit(node int, org, dir, invDir shp.Vec3, tNear float64, tFar *float64, skipI, skipJ int, face *int, tHit *float64) {
	n := &o.nodes[node]
	if !n.Box.hit(org, invDir) {
		return
	}
	if n.Left < 0 {
		for _, p := range n.Prims {
			if p == skipI || p == skipJ {
				continue
			}
			t, ok := intersectRayTriangle(org, dir, o.mesh.Triangle(p))
			if ok && t > tNear && t <= *tFar {
				*tFar = t
				*face = p
				*tHit = t
			}
		}
		return
	}
	o.closestHit(n.Left, org, dir, invDir, tNear, tFar, skipI, skipJ, face, tHit)
	o.closestHit(n.Right, org, dir, invDir, tNear, tFar, skipI, skipJ, face, tHit)
}

// Visible implements Oracle (spec §4.B): true iff the open segment from
// P[i] to P[j] strikes no triangle other than i or j.
func (o *BVH) Visible(i, j int) bool {
	if i == j {
		return false // faces never see themselves
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
		return true // coincident centroids: treat as mutually visible (degenerate, not occluded)
	}
	dirUnit := shp.Scale(1/dist, dir)
	org := shp.Add(pi, shp.Scale(eps, o.mesh.N[i]))
	_, _, ok := o.firstHit(org, dirUnit, 0, dist, i, j)
	return !ok // no triangle other than i or j lies on the segment
}
