// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sim runs system-dynamics projects and reports Loops That Matter
// diagnostics (§6.2).
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// exit codes (§6.2): 0 success, 1 usage/compile error, 2 run failure
// (NumericFailure/ResourceExhausted), 130 cancelled (128+SIGINT).
const (
	exitOK         = 0
	exitCompileErr = 1
	exitRunErr     = 2
	exitCancelled  = 130
)

var logLevel = os.Getenv("SIM_LOG_LEVEL")

func debugf(format string, args ...interface{}) {
	if logLevel == "debug" {
		io.Pfgrey(format, args...)
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			chk.Verbose = true
			io.Pfred("sim: panic: %v\n", r)
			os.Exit(exitRunErr)
		}
	}()

	root := &cobra.Command{
		Use:   "sim",
		Short: "sim runs system-dynamics projects and reports loop-dominance diagnostics",
	}
	root.AddCommand(runCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		os.Exit(exitCompileErr)
	}
}

func ctxWithSigint() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
