// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/sampotter/gofflux/fem"
	"github.com/sampotter/gofflux/inp"
)

// Test_s6_cancellation checks that a pre-cancelled context aborts
// operator assembly cooperatively with a *fem.CancelledError, rather
// than running to completion or hanging (spec scenario S6).
func Test_s6_cancellation(tst *testing.T) {

	chk.PrintTitle("s6_cancellation")

	m, _, _, err := FacingSquares(6, 1.0)
	if err != nil {
		tst.Fatalf("FacingSquares: %v\n", err)
	}

	cfg := inp.DefaultConfig()
	cfg.MinSize = 8

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = fem.NewDomain(ctx, m, cfg)
	if err == nil {
		tst.Fatalf("expected a cancellation error, got nil\n")
	}
	if _, ok := err.(*fem.CancelledError); !ok {
		tst.Errorf("expected *fem.CancelledError, got %T: %v\n", err, err)
	}
}
