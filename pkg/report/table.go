// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/slukits/xunit"
)

// Table renders the results of a run as table once the run has
// finished.  Each case is followed by a summary row.
type Table struct {
	xunit.NopListener
	w       io.Writer
	colored bool
	rows    []table.Row
}

// NewTable creates a table listener writing to given writer.
func NewTable(w io.Writer, colored bool) *Table {
	return &Table{w: w, colored: colored}
}

func (t *Table) RunStarted(*xunit.Report) { t.rows = nil }

func (t *Table) ProcedureFinished(r xunit.Result) {
	t.rows = append(t.rows, table.Row{
		"Procedure",
		"├── " + r.Name,
		formatDuration(r.Duration),
		status(r.Outcome),
		oneLine(r.Message()),
	})
}

func (t *Table) CaseStarted(cr xunit.CaseReport) {
	t.rows = append(t.rows, table.Row{"Case", cr.Name, "", "", ""})
}

func (t *Table) CaseFinished(cr xunit.CaseReport) {
	msg := ""
	if cr.Err != nil {
		msg = oneLine(cr.Err.Error())
	}
	t.rows = append(t.rows, table.Row{
		"", "", "", status(caseStatus(cr)), msg})
	t.rows = append(t.rows, nil)
}

func caseStatus(cr xunit.CaseReport) xunit.Outcome {
	if cr.Err != nil {
		return xunit.Error
	}
	return runStatus(cr.Counts)
}

func (t *Table) RunFinished(rp *xunit.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(t.w)
	tw.SetTitle(fmt.Sprintf("xunit run %s", rp.RunID))
	tw.AppendHeader(table.Row{
		"Type", "Name", "Duration", "Status", "Message"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "Name", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 60, WidthMaxEnforcer: text.Trim},
	})
	for _, r := range t.rows {
		if r == nil {
			tw.AppendSeparator()
			continue
		}
		tw.AppendRow(r)
	}

	st := runStatus(rp.Counts)
	switch {
	case !t.colored:
		tw.SetStyle(table.StyleLight)
	case st == xunit.Passed && rp.Counts.Skipped > 0:
		tw.SetStyle(table.StyleColoredBlackOnYellowWhite)
	case st == xunit.Passed:
		tw.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		tw.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	tw.AppendFooter(table.Row{
		"Total",
		fmt.Sprintf("%d passed, %d failed, %d errors, %d skipped",
			rp.Counts.Passed, rp.Counts.Failed, rp.Counts.Errored,
			rp.Counts.Skipped),
		formatDuration(rp.Duration()),
		status(st),
		"",
	})
	tw.Render()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
