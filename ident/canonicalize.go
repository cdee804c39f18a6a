// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ident implements canonicalization of system-dynamics variable
// identifiers: case folding, whitespace normalisation and quote stripping.
package ident

import "strings"

// Canonicalize normalises a raw variable name into its canonical form:
// ASCII letters are lower-cased, runs of whitespace collapse to a single
// underscore, and a single matching pair of surrounding double-quotes is
// stripped. The result is idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('_')
			inSpace = false
		}
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Equal reports whether two identifiers are canonically equal.
func Equal(a, b string) bool {
	return Canonicalize(a) == Canonicalize(b)
}

// IsQualified reports whether ident names a dotted module path, e.g. "sub.var".
func IsQualified(s string) bool {
	return strings.Contains(s, ".")
}

// Split breaks a dotted qualified ident into its path segments, canonicalizing
// each segment independently. Split("Sub1.Sub2.My Var") -> ["sub1","sub2","my_var"].
func Split(s string) []string {
	parts := strings.Split(s, ".")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = Canonicalize(p)
	}
	return out
}
