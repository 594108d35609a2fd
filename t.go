// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
)

// T instances are passed to procedures and to the SetUp and TearDown
// hooks of a case.  They provide logging, assertions and the means to
// fail, fault or skip the running procedure:
//
//	type Calculator struct{ xunit.Case }
//
//	func (c *Calculator) TestAdd(t *xunit.T) { t.Eq(30, Add(10, 20)) }
//
// Reporting an expectation mismatch (Error, Fatal, FailNow, failing
// assertions) makes a procedure Failed while a panic or an error passed
// to FatalOn makes it Error.  A T must not be used after its procedure
// has finished.
type T struct {
	name      string
	rep, reps int
	phase     Phase
	logger    func(...interface{})
	logs      []string
	messages  []string
	faults    []error
	cleanups  []func()

	// failed is set by any failure, phaseFailed only by failures of the
	// currently executed phase.
	failed, phaseFailed bool

	skipped    bool
	skipReason string

	// quiet suppresses the reporting of failing assertions while a
	// negation evaluates them.
	quiet bool

	// Not provides the negations of T's assertions.
	Not Not
}

func newT(name string, rep, reps int, logger func(...interface{})) *T {
	t := &T{name: name, rep: rep, reps: reps, logger: logger}
	t.Not = Not{t: t}
	return t
}

// enter resets phase local state before the runner executes given
// phase.
func (t *T) enter(p Phase) {
	t.phase, t.phaseFailed = p, false
}

// Name returns the display name of the running procedure.
func (t *T) Name() string { return t.name }

// Repetition returns the one based index of the running repetition
// and the number of repetitions of a repeated procedure; 1, 1
// otherwise.
func (t *T) Repetition() (int, int) {
	if t.reps < 1 {
		return 1, 1
	}
	return t.rep, t.reps
}

// Log writes given arguments to the procedure's captured log or to a
// case's logger if it implements [CaseLogging].
func (t *T) Log(args ...interface{}) {
	if t.logger != nil {
		t.logger(args...)
		return
	}
	t.logs = append(t.logs, fmt.Sprint(args...))
}

// Logf logs given format string leveraging fmt.Sprintf.
func (t *T) Logf(format string, args ...interface{}) {
	t.Log(fmt.Sprintf(format, args...))
}

// Fail flags the procedure as failed but continues its execution.
func (t *T) Fail() { t.failed, t.phaseFailed = true, true }

// Failed reports if the procedure has been flagged as failed.
func (t *T) Failed() bool { return t.failed }

// Error reports an expectation mismatch described by given arguments
// and continues the execution.
func (t *T) Error(args ...interface{}) {
	t.messages = append(t.messages, fmt.Sprint(args...))
	t.Fail()
}

// Errorf reports an expectation mismatch described by given format
// string and continues the execution.
func (t *T) Errorf(format string, args ...interface{}) {
	t.Error(fmt.Sprintf(format, args...))
}

// FailNow flags the procedure as failed and stops the execution of the
// current phase.  A tear-down is still executed.  FailNow must be
// called from the goroutine running the phase.
func (t *T) FailNow() {
	t.Fail()
	runtime.Goexit()
}

// Fatal reports given arguments as expectation mismatch and stops the
// current phase (see FailNow).
func (t *T) Fatal(args ...interface{}) {
	t.Error(args...)
	runtime.Goexit()
}

// Fatalf reports given format string as expectation mismatch and
// stops the current phase (see FailNow).
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	runtime.Goexit()
}

// FatalIfNot stops the current phase as failed if given assertion is
// false; it is a no-op otherwise.
func (t *T) FatalIfNot(assertion bool) {
	if assertion {
		return
	}
	t.FailNow()
}

// FatalOn stops the current phase iff given error is not nil.  Unlike
// Fatal the procedure's outcome becomes Error since an unexpected
// error indicates a broken test rather than a mismatch.
func (t *T) FatalOn(err error) {
	if err == nil {
		return
	}
	t.faults = append(t.faults, &Fault{Phase: t.phase, Value: err})
	runtime.Goexit()
}

// Skip stops the current phase and reports the procedure as skipped
// with given arguments as reason unless it failed before.
func (t *T) Skip(args ...interface{}) {
	t.skipped, t.skipReason = true, fmt.Sprint(args...)
	runtime.Goexit()
}

// Skipf is Skip with a formatted reason.
func (t *T) Skipf(format string, args ...interface{}) {
	t.Skip(fmt.Sprintf(format, args...))
}

// Cleanup registers given function to be called after the procedure's
// tear-down.  Cleanups run in last registered first called order;
// they run even if the setup failed.
func (t *T) Cleanup(f func()) { t.cleanups = append(t.cleanups, f) }

var notInName = regexp.MustCompile(`[^[:alnum:]_-]+`)

// TempDir creates a new unique temporary directory which is removed
// after the procedure's tear-down.  A failing creation is a fault.
func (t *T) TempDir() string {
	dir, err := os.MkdirTemp("", "xunit-"+notInName.ReplaceAllString(
		t.name, "_")+"-")
	t.FatalOn(err)
	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			panic(err)
		}
	})
	return dir
}

// InitPrefix prefixes log messages of the Init hook to let a
// [CaseLogging] implementation discriminate them.
const InitPrefix = "__init__"

// FinalPrefix prefixes log messages of the Finalize hook to let a
// [CaseLogging] implementation discriminate them.
const FinalPrefix = "__final__"

// S instances are passed to a case's Init and Finalize hooks:
//
//	type DB struct{ xunit.Case; db *sql.DB }
//
//	func (c *DB) Init(s *xunit.S) { c.db = open(s) }
//
//	func (c *DB) Finalize(s *xunit.S) { s.FatalOn(c.db.Close()) }
//
// Fields set by Init are seen by the procedures of the case since fresh
// instances are shallow copies of the Init'ed instance.  A failing or
// faulting Init turns every procedure of the case into an Error without
// executing it.  A failing Finalize is reported by the
// case's [CaseReport].
type S struct {
	name     string
	phase    Phase
	logger   func(...interface{})
	logs     []string
	messages []string
	faults   []error
}

// Name returns the display name of the case.
func (s *S) Name() string { return s.name }

func (s *S) prefix() string {
	if s.phase == PhaseFinalize {
		return FinalPrefix
	}
	return InitPrefix
}

// Log given arguments to the case's log or to the case's logger if it
// implements [CaseLogging].
func (s *S) Log(args ...interface{}) {
	if s.logger != nil {
		s.logger(append([]interface{}{s.prefix()}, args...)...)
		return
	}
	s.logs = append(s.logs, s.prefix()+fmt.Sprint(args...))
}

// Logf logs given format string leveraging fmt.Sprintf.
func (s *S) Logf(format string, args ...interface{}) {
	s.Log(fmt.Sprintf(format, args...))
}

// Fatal reports given arguments as failure and stops the hook.
func (s *S) Fatal(args ...interface{}) {
	s.messages = append(s.messages, fmt.Sprint(args...))
	runtime.Goexit()
}

// Fatalf reports given format string as failure and stops the hook.
func (s *S) Fatalf(format string, args ...interface{}) {
	s.Fatal(fmt.Sprintf(format, args...))
}

// FatalOn stops the hook iff given error is not nil.
func (s *S) FatalOn(err error) {
	if err == nil {
		return
	}
	s.faults = append(s.faults, &Fault{Phase: s.phase, Value: err})
	runtime.Goexit()
}
