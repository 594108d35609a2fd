// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/slukits/xunit"
)

// Dots writes one character per procedure result while a run
// progresses: "." passed, "F" failed, "E" error and "S" skipped.  At
// the end of a run the non-passing results are detailed followed by a
// summary line.
type Dots struct {
	xunit.NopListener
	w   io.Writer
	p   *palette
	bad []xunit.Result
}

// NewDots creates a dots listener writing to given writer.
func NewDots(w io.Writer, colored bool) *Dots {
	return &Dots{w: w, p: newPalette(colored)}
}

func dot(o xunit.Outcome) string {
	switch o {
	case xunit.Failed:
		return "F"
	case xunit.Error:
		return "E"
	case xunit.Skipped:
		return "S"
	}
	return "."
}

func (d *Dots) RunStarted(rp *xunit.Report) {
	d.bad = nil
	if rp.Order == xunit.OrderRandom {
		fmt.Fprintf(d.w, "seed: %d\n", rp.Seed)
	}
}

func (d *Dots) ProcedureFinished(r xunit.Result) {
	fmt.Fprint(d.w, d.p.of(r.Outcome).Sprint(dot(r.Outcome)))
	if r.Outcome == xunit.Failed || r.Outcome == xunit.Error {
		d.bad = append(d.bad, r)
	}
}

func (d *Dots) CaseFinished(cr xunit.CaseReport) {
	if cr.Err == nil {
		return
	}
	d.bad = append(d.bad, xunit.Result{
		CaseName: cr.Name, Outcome: xunit.Error, Err: cr.Err})
}

func (d *Dots) RunFinished(rp *xunit.Report) {
	fmt.Fprintln(d.w)
	for _, r := range d.bad {
		c := d.p.of(r.Outcome)
		name := qualified(r)
		if r.Name == "" {
			name = r.CaseName
		}
		fmt.Fprintf(d.w, "\n%s %s", c.Sprint(status(r.Outcome)), name)
		if r.Phase != xunit.PhaseNone && r.Phase != xunit.PhaseProcedure {
			fmt.Fprintf(d.w, " (%s)", r.Phase)
		}
		fmt.Fprintln(d.w)
		for _, l := range strings.Split(r.Message(), "\n") {
			if l == "" {
				continue
			}
			fmt.Fprintf(d.w, "    %s\n", l)
		}
	}
	if len(d.bad) > 0 {
		fmt.Fprintln(d.w)
	}
	st := runStatus(rp.Counts)
	fmt.Fprintf(d.w, "%s %s in %s\n", d.p.of(st).Sprint(status(st)),
		rp.Counts, formatDuration(rp.Duration()))
}
