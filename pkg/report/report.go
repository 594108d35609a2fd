// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package report provides xunit listeners rendering the progress and
// the results of a run for humans (Dots, Table) and machines (JSON):
//
//	rp, err := xunit.NewRunner(xunit.Config{
//	    Listeners: []xunit.Listener{report.NewDots(os.Stdout, true)},
//	}).Run(cases...)
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/slukits/xunit"
)

// ErrUnknownFormat is returned by New for unsupported format names.
var ErrUnknownFormat = errors.New("report: unknown format")

// Formats lists the names New accepts.
var Formats = []string{"dots", "table", "json"}

// New returns the listener of given format writing to given writer.
// Colored applies to human readable formats only.
func New(format string, w io.Writer, colored bool) (xunit.Listener, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "dots":
		return NewDots(w, colored), nil
	case "table":
		return NewTable(w, colored), nil
	case "json":
		return NewJSON(w), nil
	}
	return nil, fmt.Errorf("%w: %q (want one of %s)",
		ErrUnknownFormat, format, strings.Join(Formats, ", "))
}

// palette colors outcomes; its zero value doesn't color at all.
type palette struct {
	passed, failed, errored, skipped *color.Color
}

func newPalette(colored bool) *palette {
	p := &palette{
		passed:  color.New(color.FgGreen),
		failed:  color.New(color.FgRed),
		errored: color.New(color.FgHiRed, color.Bold),
		skipped: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.passed, p.failed, p.errored, p.skipped} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) of(o xunit.Outcome) *color.Color {
	switch o {
	case xunit.Failed:
		return p.failed
	case xunit.Error:
		return p.errored
	case xunit.Skipped:
		return p.skipped
	default:
		return p.passed
	}
}

// status renders an outcome the way the summaries show it.
func status(o xunit.Outcome) string {
	switch o {
	case xunit.Passed:
		return "PASS"
	case xunit.Failed:
		return "FAIL"
	case xunit.Error:
		return "ERROR"
	case xunit.Skipped:
		return "SKIP"
	}
	return "UNKNOWN"
}

// runStatus summarizes given counts.
func runStatus(c xunit.Counts) xunit.Outcome {
	switch {
	case c.Errored > 0:
		return xunit.Error
	case c.Failed > 0:
		return xunit.Failed
	case c.Total == 0 && c.Skipped > 0:
		return xunit.Skipped
	}
	return xunit.Passed
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}

// qualified names a result by its case and display name.
func qualified(r xunit.Result) string {
	return r.CaseName + "/" + r.Name
}
