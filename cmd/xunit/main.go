// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
xunit runs the bundled sample cases and reports their outcomes:

	$ xunit --set notes
	.FE

	FAIL CalculatorCase/TestAdd_expecting_31
	...

	ERROR total: 3, passed: 1, failed: 1, errors: 1, skipped: 0 in 2ms

The exit code is 0 if all executed procedures passed, 1 if a procedure
failed and 2 if a procedure errored or the run couldn't be started.
"xunit list" prints the procedures a run would execute in their
execution order.  All flags may be given by XUNIT_ prefixed
environment variables or a YAML configuration file (see --config).
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

var Version = "v0.1.0"

const (
	exitFailed = 1
	exitError  = 2
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

// newApp creates the command line application writing reports to
// given out and logs as well as usage errors to given errOut.
func newApp(out, errOut io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "xunit"
	app.Version = Version
	app.Usage = "run xunit sample cases"
	app.Description = "xunit runs test cases procedure by procedure " +
		"and classifies each outcome as passed, failed or error"
	app.Writer, app.ErrWriter = out, errOut
	app.Flags = flags()
	app.Action = runCmd
	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "run the cases of a sample set (default)",
			Flags:  flags(),
			Action: runCmd,
		},
		{
			Name:   "list",
			Usage:  "print the procedures a run would execute",
			Flags:  flags(),
			Action: listCmd,
		},
	}
	return app
}
