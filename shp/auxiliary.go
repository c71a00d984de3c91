// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// Min returns the min between two floats
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the max between two floats
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
