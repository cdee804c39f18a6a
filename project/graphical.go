// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"github.com/cpmech/gosl/chk"
)

// GFKind tags the closed GraphicalFunction lookup-semantics variant (§3.6).
type GFKind int

const (
	// GFContinuous clamps outside [x_scale.min, x_scale.max].
	GFContinuous GFKind = iota
	// GFExtrapolate linearly extrapolates outside the domain.
	GFExtrapolate
	// GFDiscrete is a step function returning y_k on [x_k, x_{k+1})
	// (right-continuous).
	GFDiscrete
)

// Scale holds the (min,max) bounds used to derive a uniform x grid.
type Scale struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// GraphicalFunction implements a table-lookup function attached to a Flow or Aux (§3.6).
type GraphicalFunction struct {
	Kind    GFKind    `json:"kind" yaml:"kind"`
	XPoints []float64 `json:"x_points,omitempty" yaml:"x_points,omitempty"`
	YPoints []float64 `json:"y_points" yaml:"y_points"`
	XScale  Scale     `json:"x_scale" yaml:"x_scale"`
	YScale  Scale     `json:"y_scale" yaml:"y_scale"`
}

// resolvedX returns the effective x grid, deriving a uniform one from
// XScale when XPoints is omitted.
func (g *GraphicalFunction) resolvedX() []float64 {
	if len(g.XPoints) > 0 {
		return g.XPoints
	}
	n := len(g.YPoints)
	if n < 2 {
		return nil
	}
	xs := make([]float64, n)
	step := (g.XScale.Max - g.XScale.Min) / float64(n-1)
	for i := range xs {
		xs[i] = g.XScale.Min + float64(i)*step
	}
	return xs
}

// Validate checks that the graphical function has a usable point table.
func (g *GraphicalFunction) Validate() error {
	if len(g.YPoints) < 2 {
		return chk.Err("graphical function: need at least 2 y points, got %d", len(g.YPoints))
	}
	xs := g.resolvedX()
	if len(xs) != len(g.YPoints) {
		return chk.Err("graphical function: x_points length (%d) must equal y_points length (%d)", len(xs), len(g.YPoints))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return chk.Err("graphical function: x values must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// Lookup evaluates the table at x according to the GF's Kind (§3.6).
func (g *GraphicalFunction) Lookup(x float64) float64 {
	xs := g.resolvedX()
	ys := g.YPoints
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return ys[0]
	}

	switch g.Kind {
	case GFDiscrete:
		if x < xs[0] {
			return ys[0]
		}
		for i := 0; i < n-1; i++ {
			if x < xs[i+1] {
				return ys[i]
			}
		}
		return ys[n-1]

	case GFExtrapolate:
		if x <= xs[0] {
			return extrapolateAt(xs, ys, 0, x)
		}
		if x >= xs[n-1] {
			return extrapolateAt(xs, ys, n-2, x)
		}
		return interpolateAt(xs, ys, x)

	default: // GFContinuous
		if x <= xs[0] {
			return ys[0]
		}
		if x >= xs[n-1] {
			return ys[n-1]
		}
		return interpolateAt(xs, ys, x)
	}
}

// interpolateAt performs linear interpolation of (xs,ys) at x, which must lie
// within [xs[0], xs[n-1]].
func interpolateAt(xs, ys []float64, x float64) float64 {
	n := len(xs)
	for i := 0; i < n-1; i++ {
		if x >= xs[i] && x <= xs[i+1] {
			return segmentValue(xs, ys, i, x)
		}
	}
	return ys[n-1]
}

// extrapolateAt extends the segment starting at index i0 (0 or n-2) beyond
// the table's domain.
func extrapolateAt(xs, ys []float64, i0 int, x float64) float64 {
	return segmentValue(xs, ys, i0, x)
}

// segmentValue evaluates the line through (xs[i],ys[i])-(xs[i+1],ys[i+1]) at x.
func segmentValue(xs, ys []float64, i int, x float64) float64 {
	x0, x1 := xs[i], xs[i+1]
	y0, y1 := ys[i], ys[i+1]
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}
