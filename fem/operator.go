// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/ele"
	"github.com/sampotter/gofflux/inp"
	"github.com/sampotter/gofflux/mdl"
	"github.com/sampotter/gofflux/oracle"
	"github.com/sampotter/gofflux/shp"
)

// opNode is one node of the compressed operator tree (spec §3, §4.F). A
// leaf pairs a Leaf payload with its row/column face-index sets; an
// internal node's children cover the Cartesian product of its row and
// column spatial sub-nodes.
type opNode struct {
	rowFaces, colFaces []int
	leaf               ele.Leaf
	children           []*opNode
}

// Operator is the compressed hierarchical form-factor operator (spec
// §3, §4.D-§4.F): a tree of Leaf blocks over a mesh, supporting
// matrix-free application without ever materializing the dense N x N
// matrix.
type Operator struct {
	Mesh   *inp.Mesh
	Cfg    inp.Config
	Root   *opNode
	Diag   *Diagnostics
}

// CancelledError is returned by BuildOperator or Apply when the supplied
// context is cancelled mid-computation (spec §4.F "cooperative
// cancellation is checked at block boundaries").
type CancelledError struct {
	Stage string
}

func (e *CancelledError) Error() string {
	return chk.Err("operator %s cancelled", e.Stage).Error()
}

// BuildOperator assembles the compressed operator over m, using or as
// the occlusion oracle and cfg to control tree granularity and
// compression tolerance (spec §4.C-§4.F). Oracle.Build must already have
// been called. Cancellation of ctx aborts assembly at the next block
// boundary and returns a *CancelledError.
func BuildOperator(ctx context.Context, m *inp.Mesh, or oracle.Oracle, cfg inp.Config) (*Operator, error) {
	cfg.SetDefaults()

	allFaces := make([]int, m.NumFaces())
	for i := range allFaces {
		allFaces[i] = i
	}
	dims := 3
	if isFlatMesh(m) {
		dims = 2
	}
	tree := BuildTree(m, allFaces, int(cfg.MinSize), dims)

	compressor, err := mdl.New(cfg.Compressor)
	if err != nil {
		return nil, err
	}

	b := &opBuilder{
		mesh:    m,
		oracle:  or,
		cfg:     cfg,
		comp:    compressor,
		diag:    &Diagnostics{},
		limiter: newLimiter(cfg.Parallel),
	}

	root, err := b.build(ctx, tree, tree)
	if err != nil {
		return nil, err
	}
	return &Operator{Mesh: m, Cfg: cfg, Root: root, Diag: b.diag}, nil
}

// isFlatMesh reports whether the mesh's z-extent is negligible relative
// to its x/y extent, in which case a 2D quadtree is used instead of an
// octree (spec §4.C "quad/octree").
func isFlatMesh(m *inp.Mesh) bool {
	if m.NumFaces() == 0 {
		return true
	}
	lo, hi := m.P[0], m.P[0]
	for _, p := range m.P {
		for k := 0; k < 3; k++ {
			lo[k] = shp.Min(lo[k], p[k])
			hi[k] = shp.Max(hi[k], p[k])
		}
	}
	xyExtent := (hi[0] - lo[0]) + (hi[1] - lo[1])
	zExtent := hi[2] - lo[2]
	return zExtent < 1e-9*(xyExtent+1)
}

// opBuilder carries the shared state of one BuildOperator run; methods
// are safe to call concurrently for disjoint node pairs.
type opBuilder struct {
	mesh    *inp.Mesh
	oracle  oracle.Oracle
	cfg     inp.Config
	comp    mdl.Compressor
	diagMu  sync.Mutex
	diag    *Diagnostics
	limiter *limiter
}

// build assembles the block spanning (rowNode, colNode), recursing in
// lockstep over the Cartesian product of their children when neither
// side has reached leaf size (spec §4.F).
func (b *opBuilder) build(ctx context.Context, rowNode, colNode *SpatialNode) (*opNode, error) {
	select {
	case <-ctx.Done():
		return nil, &CancelledError{Stage: "assembly"}
	default:
	}

	if rowNode.IsLeaf() && colNode.IsLeaf() {
		b.limiter.acquire()
		defer b.limiter.release()
		return b.buildLeafPair(rowNode, colNode)
	}

	rowChildren := rowNode.Children
	if len(rowChildren) == 0 {
		rowChildren = []*SpatialNode{rowNode}
	}
	colChildren := colNode.Children
	if len(colChildren) == 0 {
		colChildren = []*SpatialNode{colNode}
	}

	type pair struct{ r, c *SpatialNode }
	var pairs []pair
	for _, r := range rowChildren {
		for _, c := range colChildren {
			pairs = append(pairs, pair{r, c})
		}
	}

	children := make([]*opNode, len(pairs))
	errs := make([]error, len(pairs))
	var wg sync.WaitGroup
	for k, p := range pairs {
		k, p := k, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			children[k], errs[k] = b.build(ctx, p.r, p.c)
		}()
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	return &opNode{rowFaces: rowNode.Faces, colFaces: colNode.Faces, children: children}, nil
}

// buildLeafPair assembles one leaf block (spec §4.D-§4.E): dense/sparse
// for diagonal blocks (same node on both sides), dense-then-maybe-
// compressed for off-diagonal blocks.
func (b *opBuilder) buildLeafPair(rowNode, colNode *SpatialNode) (*opNode, error) {
	dense := ele.AssembleDense(b.mesh, b.oracle, rowNode.Faces, colNode.Faces)

	diagonal := rowNode == colNode
	if diagonal {
		b.checkRowSums(rowNode.Faces, dense)
	}

	leaf := b.chooseLeaf(dense, diagonal)
	kind, bytes := leaf.Kind().String(), leaf.Bytes()
	b.diagMu.Lock()
	b.diag.recordLeaf(kind, bytes)
	b.diagMu.Unlock()

	return &opNode{rowFaces: rowNode.Faces, colFaces: colNode.Faces, leaf: leaf}, nil
}

// chooseLeaf picks the storage representation for an assembled dense
// block: diagonal blocks are never compressed (spec §4.F "diagonal
// blocks ... are always stored as dense/sparse"); off-diagonal blocks
// attempt low-rank compression first, falling back to sparse or dense.
func (b *opBuilder) chooseLeaf(dense *ele.Dense, diagonal bool) ele.Leaf {
	if allZero(dense.B) {
		return &ele.Zero{NRows: dense.NRows, NCols: dense.NCols}
	}

	if !diagonal {
		B64 := toFloat64(dense.B)
		if f, ok := b.comp.Compress(B64, b.cfg.Tol, int(b.cfg.MaxRank)); ok {
			return &ele.LowRank{
				NRows: dense.NRows, NCols: dense.NCols, Rank: f.Rank(),
				U:  toFloat32(f.U), Vt: toFloat32(f.Vt),
			}
		}
		b.diagMu.Lock()
		b.diag.RankRejected++
		b.diagMu.Unlock()
	}

	s := ele.NewSparseFromDense(dense.B, 0)
	if s.NNZFraction() < b.cfg.SparseThresh {
		return s
	}
	return dense
}

func (b *opBuilder) checkRowSums(faces []int, dense *ele.Dense) {
	for p, sum := range dense.RowSums() {
		if sum > 1.0+1e-6 {
			b.diagMu.Lock()
			b.diag.warnRowSum(faces[p], sum)
			b.diagMu.Unlock()
		}
	}
}

func allZero(B [][]float32) bool {
	for _, row := range B {
		for _, v := range row {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

func toFloat64(B [][]float32) [][]float64 {
	out := make([][]float64, len(B))
	for i, row := range B {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = float64(v)
		}
	}
	return out
}

func toFloat32(B [][]float64) [][]float32 {
	out := make([][]float32, len(B))
	for i, row := range B {
		out[i] = make([]float32, len(row))
		for j, v := range row {
			out[i][j] = float32(v)
		}
	}
	return out
}

// limiter bounds the number of concurrently in-flight block builds to
// GOMAXPROCS, or to 1 when parallel dispatch is disabled (spec §5).
type limiter struct {
	sem chan struct{}
}

func newLimiter(parallel bool) *limiter {
	n := 1
	if parallel {
		n = runtime.GOMAXPROCS(0)
		if n < 1 {
			n = 1
		}
	}
	return &limiter{sem: make(chan struct{}, n)}
}

func (l *limiter) acquire() { l.sem <- struct{}{} }
func (l *limiter) release() { <-l.sem }

// Apply computes y = alpha*Op*x + beta*y over the full N-face vector
// (spec §4.F "matrix-free apply"). x and y must both have length
// Mesh.NumFaces().
func (op *Operator) Apply(ctx context.Context, y []float64, alpha float64, x []float64, beta float64) error {
	if beta == 0 {
		for i := range y {
			y[i] = 0
		}
	} else if beta != 1 {
		for i := range y {
			y[i] *= beta
		}
	}
	return applyNode(ctx, op.Root, y, alpha, x)
}

func applyNode(ctx context.Context, n *opNode, y []float64, alpha float64, x []float64) error {
	select {
	case <-ctx.Done():
		return &CancelledError{Stage: "apply"}
	default:
	}

	if n.leaf != nil {
		xs := gather(x, n.colFaces)
		ys := make([]float64, len(n.rowFaces))
		n.leaf.Apply(ys, alpha, xs)
		scatterAdd(y, n.rowFaces, ys)
		return nil
	}
	for _, c := range n.children {
		if err := applyNode(ctx, c, y, alpha, x); err != nil {
			return err
		}
	}
	return nil
}

func gather(x []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = x[i]
	}
	return out
}

func scatterAdd(y []float64, idx []int, vals []float64) {
	for k, i := range idx {
		y[i] += vals[k]
	}
}

// Bytes returns the sum of the leaves' payload sizes (Leaf.Bytes). The
// file header, node tags, shape fields and tree structure are not counted.
func (op *Operator) Bytes() int64 { return op.Diag.TotalBytes() }

// magicFFM1 is the serialization format's 4-byte magic (spec §6).
var magicFFM1 = [4]byte{'F', 'F', 'M', '1'}

// nodeTagInternal marks an internal node in the pre-order wire encoding;
// leaf tags reuse ele.Kind's byte values (spec §6).
const nodeTagInternal byte = 0x00

// formatVersion is the only wire-format version Encode produces and
// Decode accepts (spec §6, §7 "SerializationError").
const formatVersion uint32 = 1

// SerializationError is returned by Decode when the byte stream does not
// describe a gofflux operator this version of the package understands
// (spec §7 "SerializationError").
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string {
	return chk.Err("serialization error: %s", e.Reason).Error()
}

// Encode serializes the operator to w: magic, header (version, N, tol,
// min-size), then a pre-order walk of the tree (spec §6).
func (op *Operator) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magicFFM1[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(op.Mesh.NumFaces())); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, op.Cfg.Tol); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, op.Cfg.MinSize); err != nil {
		return err
	}
	if err := encodeNode(bw, op.Root); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeNode(w *bufio.Writer, n *opNode) error {
	if n.leaf != nil {
		if err := w.WriteByte(byte(n.leaf.Kind())); err != nil {
			return err
		}
		nrows, ncols := n.leaf.Shape()
		if err := binary.Write(w, binary.LittleEndian, uint64(nrows)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(ncols)); err != nil {
			return err
		}
		return encodeLeafPayload(w, n.leaf)
	}
	if err := w.WriteByte(nodeTagInternal); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(n.children))); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := encodeNode(w, c); err != nil {
			return err
		}
	}
	return nil
}

func encodeLeafPayload(w *bufio.Writer, leaf ele.Leaf) error {
	switch l := leaf.(type) {
	case *ele.Dense:
		for _, row := range l.B {
			for _, v := range row {
				if err := binary.Write(w, binary.LittleEndian, v); err != nil {
					return err
				}
			}
		}
	case *ele.Sparse:
		if err := binary.Write(w, binary.LittleEndian, uint64(len(l.Data))); err != nil {
			return err
		}
		for _, v := range l.Indptr {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		for _, v := range l.Indices {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		for _, v := range l.Data {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	case *ele.LowRank:
		if err := binary.Write(w, binary.LittleEndian, uint32(l.Rank)); err != nil {
			return err
		}
		for _, row := range l.U {
			for _, v := range row {
				if err := binary.Write(w, binary.LittleEndian, v); err != nil {
					return err
				}
			}
		}
		for _, row := range l.Vt {
			for _, v := range row {
				if err := binary.Write(w, binary.LittleEndian, v); err != nil {
					return err
				}
			}
		}
	case *ele.Zero:
		// no payload
	}
	return nil
}

// Decode reads an operator previously written by Encode. The same mesh
// and Config used at encode time must be supplied: decode rebuilds the
// spatial tree deterministically from (m, cfg) and pairs the wire
// payloads with it in pre-order, rather than re-encoding tree topology
// (spec §6 "the tree topology is implicit in the mesh and config").
func Decode(r io.Reader, m *inp.Mesh, cfg inp.Config) (*Operator, error) {
	cfg.SetDefaults()

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != magicFFM1 {
		return nil, chk.Err("not a gofflux operator file (bad magic %v)", magic)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, &SerializationError{Reason: chk.Err("unsupported operator file version %d (want %d)", version, formatVersion).Error()}
	}
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if int(n) != m.NumFaces() {
		return nil, chk.Err("operator file has %d faces, mesh has %d", n, m.NumFaces())
	}
	var tol float64
	if err := binary.Read(r, binary.LittleEndian, &tol); err != nil {
		return nil, err
	}
	var minSize uint32
	if err := binary.Read(r, binary.LittleEndian, &minSize); err != nil {
		return nil, err
	}

	allFaces := make([]int, m.NumFaces())
	for i := range allFaces {
		allFaces[i] = i
	}
	dims := 3
	if isFlatMesh(m) {
		dims = 2
	}
	tree := BuildTree(m, allFaces, int(minSize), dims)

	root, err := decodeNode(r, tree, tree)
	if err != nil {
		return nil, err
	}
	diag := &Diagnostics{}
	accumulateDiag(diag, root)
	return &Operator{Mesh: m, Cfg: cfg, Root: root, Diag: diag}, nil
}

func decodeNode(r io.Reader, rowNode, colNode *SpatialNode) (*opNode, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, err
	}
	if tag[0] == nodeTagInternal {
		var nchildren uint32
		if err := binary.Read(r, binary.LittleEndian, &nchildren); err != nil {
			return nil, err
		}
		rowChildren := rowNode.Children
		if len(rowChildren) == 0 {
			rowChildren = []*SpatialNode{rowNode}
		}
		colChildren := colNode.Children
		if len(colChildren) == 0 {
			colChildren = []*SpatialNode{colNode}
		}
		if int(nchildren) != len(rowChildren)*len(colChildren) {
			return nil, chk.Err("operator file structure does not match mesh/config (child count mismatch)")
		}
		children := make([]*opNode, 0, nchildren)
		for _, rc := range rowChildren {
			for _, cc := range colChildren {
				child, err := decodeNode(r, rc, cc)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
		}
		return &opNode{rowFaces: rowNode.Faces, colFaces: colNode.Faces, children: children}, nil
	}

	kind := ele.Kind(tag[0])
	var nrows, ncols uint64
	if err := binary.Read(r, binary.LittleEndian, &nrows); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ncols); err != nil {
		return nil, err
	}
	leaf, err := decodeLeafPayload(r, kind, int(nrows), int(ncols))
	if err != nil {
		return nil, err
	}
	return &opNode{rowFaces: rowNode.Faces, colFaces: colNode.Faces, leaf: leaf}, nil
}

func decodeLeafPayload(r io.Reader, kind ele.Kind, nrows, ncols int) (ele.Leaf, error) {
	switch kind {
	case ele.KindDense:
		B := make([][]float32, nrows)
		for p := range B {
			B[p] = make([]float32, ncols)
			for q := range B[p] {
				if err := binary.Read(r, binary.LittleEndian, &B[p][q]); err != nil {
					return nil, err
				}
			}
		}
		return ele.New(kind, nrows, ncols, B)
	case ele.KindSparse:
		var nnz uint64
		if err := binary.Read(r, binary.LittleEndian, &nnz); err != nil {
			return nil, err
		}
		s := &ele.Sparse{Indptr: make([]uint64, nrows+1), Indices: make([]uint32, nnz), Data: make([]float32, nnz)}
		for p := range s.Indptr {
			if err := binary.Read(r, binary.LittleEndian, &s.Indptr[p]); err != nil {
				return nil, err
			}
		}
		for k := range s.Indices {
			if err := binary.Read(r, binary.LittleEndian, &s.Indices[k]); err != nil {
				return nil, err
			}
		}
		for k := range s.Data {
			if err := binary.Read(r, binary.LittleEndian, &s.Data[k]); err != nil {
				return nil, err
			}
		}
		return ele.New(kind, nrows, ncols, s)
	case ele.KindLowRank:
		var rank uint32
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, err
		}
		lr := &ele.LowRank{Rank: int(rank), U: make([][]float32, nrows), Vt: make([][]float32, rank)}
		for p := range lr.U {
			lr.U[p] = make([]float32, rank)
			for k := range lr.U[p] {
				if err := binary.Read(r, binary.LittleEndian, &lr.U[p][k]); err != nil {
					return nil, err
				}
			}
		}
		for k := range lr.Vt {
			lr.Vt[k] = make([]float32, ncols)
			for q := range lr.Vt[k] {
				if err := binary.Read(r, binary.LittleEndian, &lr.Vt[k][q]); err != nil {
					return nil, err
				}
			}
		}
		return ele.New(kind, nrows, ncols, lr)
	case ele.KindZero:
		return ele.New(kind, nrows, ncols, nil)
	}
	return nil, chk.Err("unknown leaf kind tag %v", kind)
}

func accumulateDiag(d *Diagnostics, n *opNode) {
	if n.leaf != nil {
		d.recordLeaf(n.leaf.Kind().String(), n.leaf.Bytes())
		return
	}
	for _, c := range n.children {
		accumulateDiag(d, c)
	}
}
