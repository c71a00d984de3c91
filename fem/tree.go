// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the spatial index over face centroids (spec
// §4.C), the hierarchical compressed form-factor operator (spec §4.F),
// direct-solar irradiance (spec §4.G) and the steady-state temperature
// solver (spec §4.H). It is the top-level package of gofflux, the way
// the teacher's fem package is the top-level package of gofem.
package fem

import (
	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/shp"
)

// SpatialNode is one node of the quad/octree spatial index over face
// centroids (spec §4.C, §3 "Spatial tree node"). A leaf owns the face
// indices directly; an internal node's children partition its faces
// disjointly — "row indices of the node equal the disjoint union of
// children's row indices" (spec §3).
type SpatialNode struct {
	Faces    []int         // face indices owned by this node (leaves only need this for block assembly; internal nodes keep it too, for invariant checks)
	Lo, Hi   [3]float64    // bounding box of owned centroids
	Children []*SpatialNode // 0 (leaf) or 2..8 children
}

// IsLeaf reports whether this node has no children.
func (n *SpatialNode) IsLeaf() bool { return len(n.Children) == 0 }

// BuildTree partitions faceIDs by their projected centroids: 2 active
// axes (x,y) for a quadtree, 3 (x,y,z) for an octree. Recursion stops
// when a node holds <= minSize faces, or when all of its faces fall into
// a single child; other empty children are omitted (spec §4.C). A face
// whose centroid lies exactly on a split plane goes to the upper-
// coordinate child (closed-open [lo,mid), [mid,hi]).
func BuildTree(m *inp.Mesh, faceIDs []int, minSize int, dims int) *SpatialNode {
	n := &SpatialNode{Faces: faceIDs}
	n.Lo, n.Hi = centroidBounds(m, faceIDs)
	if len(faceIDs) <= minSize {
		return n
	}

	groups := splitByOctant(m, faceIDs, n.Lo, n.Hi, dims)
	if len(groups) < 2 {
		// subdivision produced no usable split (all faces coincide, or one
		// non-empty group): stop here, it's a leaf regardless of minSize.
		return n
	}
	for _, g := range groups {
		n.Children = append(n.Children, BuildTree(m, g, minSize, dims))
	}
	return n
}

func centroidBounds(m *inp.Mesh, faceIDs []int) (lo, hi [3]float64) {
	if len(faceIDs) == 0 {
		return
	}
	p0 := m.P[faceIDs[0]]
	lo, hi = [3]float64{p0[0], p0[1], p0[2]}, [3]float64{p0[0], p0[1], p0[2]}
	for _, f := range faceIDs[1:] {
		p := m.P[f]
		for k := 0; k < 3; k++ {
			lo[k] = shp.Min(lo[k], p[k])
			hi[k] = shp.Max(hi[k], p[k])
		}
	}
	return
}

// splitByOctant buckets faceIDs into up to 2^dims groups by comparing
// each centroid's active axes against the midpoint of [lo,hi], omitting
// empty buckets (spec §4.C "Empty children are omitted").
func splitByOctant(m *inp.Mesh, faceIDs []int, lo, hi [3]float64, dims int) [][]int {
	mid := [3]float64{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2}
	nbuckets := 1 << uint(dims)
	buckets := make([][]int, nbuckets)
	for _, f := range faceIDs {
		p := m.P[f]
		key := 0
		for axis := 0; axis < dims; axis++ {
			if p[axis] >= mid[axis] { // tie goes to the upper child ([mid,hi])
				key |= 1 << uint(axis)
			}
		}
		buckets[key] = append(buckets[key], f)
	}
	var groups [][]int
	for _, b := range buckets {
		if len(b) > 0 {
			groups = append(groups, b)
		}
	}
	return groups
}
