// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cpmech/gosl/io"

	"github.com/bpowers/simlin-sub002/compiler"
	"github.com/bpowers/simlin-sub002/projectio"
)

// inspectCmd implements the "inspect" subcommand: compile a project and
// report its slot layout without running it, a supplemented feature
// (SPEC_FULL.md §4) useful for debugging module wiring and ordering.
func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <project>",
		Short: "Compile a project and print its slot layout without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := ctxWithSigint()
			defer cancel()

			proj, err := projectio.Load(ctx, args[0])
			if err != nil {
				io.Pfred("sim inspect: %v\n", err)
				os.Exit(exitCompileErr)
				return nil
			}

			cp, errs := compiler.Compile(proj)
			if len(errs) > 0 {
				for _, e := range errs {
					io.Pfred("compile error: %s\n", e.Message)
				}
				os.Exit(exitCompileErr)
				return nil
			}

			names := make([]string, 0, len(proj.Models))
			for name := range proj.Models {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				io.Pf("%s\n", proj.Models[name].Summary())
			}

			idents := make([]string, 0, len(cp.Vars))
			for _, v := range cp.Vars {
				if v.Ident != "" {
					idents = append(idents, v.Ident)
				}
			}
			sort.Strings(idents)

			io.Pf("project: %d slots, %d initials, %d steps, %d macros\n", cp.NSlots, len(cp.Initials), len(cp.Steps), len(cp.Macros))
			for _, id := range idents {
				slot := cp.SlotByName[id]
				v := cp.Vars[slot]
				io.Pf("  [%4d] %-40s %v\n", slot, id, kindString(v.Kind))
			}
			for _, mg := range cp.Macros {
				io.Pf("  macro %-30s chain=%v params=%v\n", mg.Ident, mg.Chain, mg.Params)
			}
			return nil
		},
	}
	return cmd
}

func kindString(k compiler.SlotKind) string {
	switch k {
	case compiler.SlotStock:
		return "stock"
	case compiler.SlotFlow:
		return "flow"
	case compiler.SlotAux:
		return "aux"
	case compiler.SlotModuleCopy:
		return "module_copy"
	default:
		return "unknown"
	}
}
