// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"fmt"
	"strings"
	"time"
)

// Outcome classifies the execution of a procedure.  Failed means an
// expectation was checked and did not hold, Error means anything else
// went wrong, i.e. the test itself is broken rather than the tested
// code.
type Outcome uint8

const (
	// Passed procedures completed with all expectations satisfied.
	Passed Outcome = iota

	// Failed procedures reported an expectation mismatch.
	Failed

	// Error procedures faulted in a hook or in the procedure itself.
	Error

	// Skipped procedures were disabled, conditionally disabled or
	// skipped themselves.  They are not counted as executed.
	Skipped
)

var outcomeNames = [...]string{"passed", "failed", "error", "skipped"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// MarshalText renders an outcome by its name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Phase identifies the step of a procedure's execution which
// determined a non-passing outcome.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseInit
	PhaseSetUp
	PhaseProcedure
	PhaseTearDown
	PhaseFinalize
)

var phaseNames = [...]string{
	"", "init", "setup", "procedure", "teardown", "finalize"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

// MarshalText renders a phase by its name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Fault is the error of an unexpected failure during a phase, i.e. a
// recovered panic or an error passed to [T.FatalOn].
type Fault struct {
	Phase Phase

	// Value is the recovered panic value or the reported error.
	Value interface{}

	// Stack is the stack trace at recovery; nil for reported errors.
	Stack []byte
}

func (f *Fault) Error() string {
	if f.Stack == nil {
		return fmt.Sprintf("%s: %v", f.Phase, f.Value)
	}
	return fmt.Sprintf("%s: panic: %v", f.Phase, f.Value)
}

// Unwrap returns the fault's value if it is an error.
func (f *Fault) Unwrap() error {
	err, _ := f.Value.(error)
	return err
}

// Result of one executed (or skipped) procedure repetition.
type Result struct {
	// Case is the case's type name, CaseName its display name.
	Case     string `json:"case"`
	CaseName string `json:"case_name"`

	// Procedure is the method name, Name its display name.
	Procedure string `json:"procedure"`
	Name      string `json:"name"`

	// Repetition is the one based index of a repeated procedure's
	// execution out of Repetitions; both are zero for procedures
	// which are not repeated.
	Repetition  int `json:"repetition,omitempty"`
	Repetitions int `json:"repetitions,omitempty"`

	Outcome Outcome `json:"outcome"`
	Phase   Phase   `json:"phase,omitempty"`

	// Messages are the reported expectation mismatches.
	Messages []string `json:"messages,omitempty"`

	// Err holds the faults of an Error outcome.
	Err error `json:"-"`

	Logs       []string      `json:"logs,omitempty"`
	SkipReason string        `json:"skip_reason,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Message joins a result's messages and its error.
func (r Result) Message() string {
	mm := append([]string{}, r.Messages...)
	if r.Err != nil {
		mm = append(mm, r.Err.Error())
	}
	if r.Outcome == Skipped && r.SkipReason != "" {
		mm = append(mm, r.SkipReason)
	}
	return strings.Join(mm, "\n")
}

// Counts is a snapshot of an Accumulator.
type Counts struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// Consistent reports if the total equals the sum of passed, failed and
// errored.
func (c Counts) Consistent() bool {
	return c.Total == c.Passed+c.Failed+c.Errored
}

// OK is true iff nothing failed or errored.
func (c Counts) OK() bool { return c.Failed == 0 && c.Errored == 0 }

func (c Counts) String() string {
	return fmt.Sprintf(
		"total: %d, passed: %d, failed: %d, errors: %d, skipped: %d",
		c.Total, c.Passed, c.Failed, c.Errored, c.Skipped)
}

// Accumulator tallies outcomes.  Its counters only grow and the total
// always equals passed + failed + errored; skipped outcomes are
// counted separately.  The zero value is ready to use.
type Accumulator struct {
	c Counts
}

// Record counts given outcome once.
func (a *Accumulator) Record(o Outcome) {
	switch o {
	case Passed:
		a.c.Passed++
	case Failed:
		a.c.Failed++
	case Error:
		a.c.Errored++
	case Skipped:
		a.c.Skipped++
		return
	default:
		return
	}
	a.c.Total++
}

// Counts returns the current counters.
func (a *Accumulator) Counts() Counts { return a.c }

// CaseReport summarizes the run of one case.
type CaseReport struct {
	Case   string `json:"case"`
	Name   string `json:"name"`
	Counts Counts `json:"counts"`

	// Logs of the case's Init and Finalize hooks.
	Logs []string `json:"logs,omitempty"`

	// Err combines failures and faults of Init and Finalize.
	Err error `json:"-"`
}

// Report of a runner's run.
type Report struct {
	RunID string    `json:"run_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Order Order     `json:"order"`
	Seed  int64     `json:"seed,omitempty"`

	// Results in execution order.
	Results []Result     `json:"results"`
	Cases   []CaseReport `json:"cases"`
	Counts  Counts       `json:"counts"`
}

// Duration of a finished run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }
