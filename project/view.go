// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import "github.com/cpmech/gosl/chk"

// ViewElementKind tags the closed ViewElement variant set (§3.7).
type ViewElementKind int

const (
	VEAux ViewElementKind = iota
	VEStock
	VEFlow
	VELink
	VEModule
	VEAlias
	VECloud
)

// Point is a 2D layout position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// LinkShape tags how a Link is drawn; pass-through data for the core.
type LinkShape int

const (
	LinkStraight LinkShape = iota
	LinkArc
	LinkMultiPoint
)

// ViewElement is a single visual element in a View (§3.7). The core treats
// views as opaque pass-through data; only uid-referential invariants are
// enforced (§3.7 invariant).
type ViewElement struct {
	UID  int             `json:"uid" yaml:"uid"`
	Kind ViewElementKind `json:"kind" yaml:"kind"`
	Pos  Point           `json:"pos" yaml:"pos"`
	Name string          `json:"name,omitempty" yaml:"name,omitempty"`

	// VEFlow: ordered points the flow pipe passes through, and the clouds/stocks
	// it attaches to (by uid); VELink: from/to uids and shape.
	LabelSide string    `json:"label_side,omitempty" yaml:"label_side,omitempty"`
	Points    []Point   `json:"points,omitempty" yaml:"points,omitempty"`
	AttachedTo []int    `json:"attached_to,omitempty" yaml:"attached_to,omitempty"`
	FromUID   int       `json:"from_uid,omitempty" yaml:"from_uid,omitempty"`
	ToUID     int       `json:"to_uid,omitempty" yaml:"to_uid,omitempty"`
	Shape     LinkShape `json:"shape,omitempty" yaml:"shape,omitempty"`
	AliasOf   int       `json:"alias_of,omitempty" yaml:"alias_of,omitempty"`
}

// View is an ordered sequence of ViewElements (§3.7).
type View struct {
	Elements []ViewElement `json:"elements" yaml:"elements"`
}

// Validate checks the §3.7 invariant: every uid referenced by a flow
// attachment, alias target or link endpoint exists in the same view.
func (v *View) Validate() error {
	known := make(map[int]bool, len(v.Elements))
	for _, e := range v.Elements {
		known[e.UID] = true
	}
	for _, e := range v.Elements {
		switch e.Kind {
		case VEFlow:
			for _, uid := range e.AttachedTo {
				if !known[uid] {
					return chk.Err("view: flow element uid=%d attaches to unknown uid=%d", e.UID, uid)
				}
			}
		case VELink:
			if !known[e.FromUID] {
				return chk.Err("view: link element uid=%d references unknown from_uid=%d", e.UID, e.FromUID)
			}
			if !known[e.ToUID] {
				return chk.Err("view: link element uid=%d references unknown to_uid=%d", e.UID, e.ToUID)
			}
		case VEAlias:
			if !known[e.AliasOf] {
				return chk.Err("view: alias element uid=%d references unknown alias_of=%d", e.UID, e.AliasOf)
			}
		}
	}
	return nil
}
