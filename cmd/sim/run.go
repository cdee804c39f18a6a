// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cpmech/gosl/io"

	"github.com/bpowers/simlin-sub002/compiler"
	"github.com/bpowers/simlin-sub002/ltm"
	"github.com/bpowers/simlin-sub002/projectio"
	"github.com/bpowers/simlin-sub002/results"
	"github.com/bpowers/simlin-sub002/sim"
)

func runCmd() *cobra.Command {
	var outPath string
	var binaryOut bool
	var enableLTM bool
	var cldOut string

	cmd := &cobra.Command{
		Use:   "run <project>",
		Short: "Compile and run a project, writing its save-grid results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := ctxWithSigint()
			defer cancel()

			proj, err := projectio.Load(ctx, args[0])
			if err != nil {
				os.Exit(exitCompileErr)
				return nil
			}
			debugf("sim: loaded project %q\n", args[0])

			cp, errs := compiler.Compile(proj)
			if len(errs) > 0 {
				for _, e := range errs {
					io.Pfred("compile error: %s\n", e.Message)
				}
				os.Exit(exitCompileErr)
				return nil
			}
			debugf("sim: compiled %d slots\n", cp.NSlots)

			res, report, runErr := sim.Run(proj, cp, sim.RunOptions{
				EnableLTM: enableLTM,
				Cancel:    ctx.Done(),
			})

			if err := writeResults(res, outPath, binaryOut); err != nil {
				io.Pfred("sim: writing results: %v\n", err)
				os.Exit(exitRunErr)
				return nil
			}

			if report != nil && cldOut != "" {
				if err := writeCLD(cp, report, cldOut); err != nil {
					io.Pfred("sim: writing simplified CLD: %v\n", err)
				}
			}

			if runErr != nil {
				if re, ok := runErr.(*results.RunError); ok && re.Kind == results.Cancelled {
					os.Exit(exitCancelled)
					return nil
				}
				io.Pfred("sim: run failed: %v\n", runErr)
				os.Exit(exitRunErr)
				return nil
			}

			io.Pf("sim: completed %d saved steps\n", res.NSteps())
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "results.csv", "Output results file path")
	cmd.Flags().BoolVar(&binaryOut, "binary", false, "Write the binary wire format instead of CSV")
	cmd.Flags().BoolVar(&enableLTM, "ltm", false, "Compute Loops That Matter diagnostics")
	cmd.Flags().StringVar(&cldOut, "cld-out", "", "Write a simplified causal-loop-diagram summary to this path (requires --ltm)")
	return cmd
}

func writeResults(res *results.Results, outPath string, binaryOut bool) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if binaryOut {
		return res.WriteBinary(f)
	}
	return res.WriteCSV(f)
}

func writeCLD(cp *compiler.CompiledProject, report *ltm.Report, path string) error {
	cld := ltm.ProjectSimplifiedCLD(cp, report, ltm.SimplifyOptions{
		LinkInclusionThreshold: 0.05,
		LoopInclusionThreshold: 0.05,
	})
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, l := range cld.Links {
		io.Ff(f, "%s -> %s (confidence=%.3f mixed=%v)\n", cp.IdentOf(l.Source), cp.IdentOf(l.Target), l.Confidence, l.MixedPolarity)
	}
	return nil
}
