// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Zero is a leaf marking a block that is identically zero within
// tolerance (spec §4.E "totally mutually invisible subregions", §6 wire
// format 0x04 — no payload).
type Zero struct {
	NRows, NCols int
}

func (o *Zero) Kind() Kind        { return KindZero }
func (o *Zero) Shape() (int, int) { return o.NRows, o.NCols }
func (o *Zero) Bytes() int64      { return 0 }

// Apply is a no-op: a zero block contributes nothing to y.
func (o *Zero) Apply(y []float64, alpha float64, x []float64) {}
