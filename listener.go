// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

// Listener is notified by a runner about the progress of a run.  All
// notifications of a run happen on the goroutine calling Run.
type Listener interface {

	// RunStarted receives the report of a starting run whose run id,
	// start, order and seed are set.
	RunStarted(*Report)

	// CaseStarted is called before a case's Init hook.
	CaseStarted(CaseReport)

	// ProcedureFinished is called with the result of every executed
	// or skipped procedure repetition.
	ProcedureFinished(Result)

	// CaseFinished is called after a case's Finalize hook.
	CaseFinished(CaseReport)

	// RunFinished receives the complete report of a run.
	RunFinished(*Report)
}

// NopListener implements Listener doing nothing.  Embed it to
// implement only the notifications of interest.
type NopListener struct{}

func (NopListener) RunStarted(*Report)       {}
func (NopListener) CaseStarted(CaseReport)   {}
func (NopListener) ProcedureFinished(Result) {}
func (NopListener) CaseFinished(CaseReport)  {}
func (NopListener) RunFinished(*Report)      {}

// ListenerFunc adapts a function to a Listener which is only
// interested in procedure results.
type ListenerFunc func(Result)

func (ListenerFunc) RunStarted(*Report)           {}
func (ListenerFunc) CaseStarted(CaseReport)       {}
func (f ListenerFunc) ProcedureFinished(r Result) { f(r) }
func (ListenerFunc) CaseFinished(CaseReport)      {}
func (ListenerFunc) RunFinished(*Report)          {}
