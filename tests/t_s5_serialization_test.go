// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"bytes"
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/fem"
	"github.com/sampotter/gofflux/inp"
)

// Test_s5_serialization_roundtrip checks that a full scene's operator
// survives an Encode/Decode round trip: byte-for-byte save->load->save
// agreement on the wire stream itself (spec §8 invariant 5), plus Apply
// agreement on an arbitrary vector (spec scenario S5).
func Test_s5_serialization_roundtrip(tst *testing.T) {

	chk.PrintTitle("s5_serialization_roundtrip")

	const n = 4
	m, sqA, sqB, err := FacingSquares(n, 1.0)
	if err != nil {
		tst.Fatalf("FacingSquares: %v\n", err)
	}

	cfg := inp.DefaultConfig()
	cfg.MinSize = 8
	dom, err := fem.NewDomain(context.Background(), m, cfg)
	if err != nil {
		tst.Fatalf("NewDomain: %v\n", err)
	}

	var buf1 bytes.Buffer
	if err := dom.Operator.Encode(&buf1); err != nil {
		tst.Fatalf("Encode: %v\n", err)
	}
	wire1 := append([]byte(nil), buf1.Bytes()...)

	op2, err := fem.Decode(&buf1, m, cfg)
	if err != nil {
		tst.Fatalf("Decode: %v\n", err)
	}

	var buf2 bytes.Buffer
	if err := op2.Encode(&buf2); err != nil {
		tst.Fatalf("Encode(decoded): %v\n", err)
	}
	if !bytes.Equal(wire1, buf2.Bytes()) {
		tst.Errorf("save->load->save is not byte-identical: %d bytes vs %d bytes\n", len(wire1), buf2.Len())
	}

	x := make([]float64, m.NumFaces())
	for _, j := range sqA {
		x[j] = 1
	}
	for _, j := range sqB {
		x[j] = 0.5
	}

	y1 := make([]float64, m.NumFaces())
	y2 := make([]float64, m.NumFaces())
	if err := dom.Operator.Apply(context.Background(), y1, 1, x, 0); err != nil {
		tst.Fatalf("Apply(original): %v\n", err)
	}
	if err := op2.Apply(context.Background(), y2, 1, x, 0); err != nil {
		tst.Fatalf("Apply(decoded): %v\n", err)
	}

	for i := range y1 {
		if y1[i] != y2[i] {
			tst.Errorf("face %d: original Apply = %g, decoded Apply = %g\n", i, y1[i], y2[i])
		}
	}

	if dom.Operator.Bytes() != op2.Bytes() {
		tst.Errorf("original operator reports %d bytes, decoded reports %d\n", dom.Operator.Bytes(), op2.Bytes())
	}
}
