// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fx provides xunit test-fixture cases.
//
// Most fixture cases embed the FixtureLog ensuring that all loggings
// during a case's run are appended to its Logs property which then can
// be evaluated after the run:
//
//	type Lifecycle struct {
//	    xunit.Case
//	    fx.FixtureLog
//	}
//
//	rp, _ := xunit.NewRunner(xunit.Config{}).Run(&fx.Lifecycle{})
//	// rp.Results holds the outcomes while the fixture's Logs
//	// document in which order its hooks ran.
package fx

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/slukits/xunit"
)

// FixtureLog provides the logging facility for fixture cases by
// implementing xunit.CaseLogging.  Every logging call is recorded as
// one entry.  A FixtureLog mustn't be copied once it has been used.
type FixtureLog struct {
	mutex sync.Mutex
	ll    []string
}

func (fl *FixtureLog) log(args ...interface{}) {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()
	fl.ll = append(fl.ll, fmt.Sprint(args...))
}

// Logger implements xunit.CaseLogging.
func (fl *FixtureLog) Logger() func(args ...interface{}) {
	return fl.log
}

// Logs returns the logged entries joined by given separator.
func (fl *FixtureLog) Logs(sep string) string {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()
	return strings.Join(fl.ll, sep)
}

// ErrFixture is the error fixture cases fault with.
var ErrFixture = errors.New("fx: fixture error")

// Outcomes has one procedure for each way a procedure can end.
type Outcomes struct{ xunit.Case }

func (s *Outcomes) TestPasses(t *xunit.T) {}

func (s *Outcomes) TestErrors(t *xunit.T) {
	t.Error("first")
	t.Error("second")
}

func (s *Outcomes) TestFatal(t *xunit.T) {
	t.Fatal("stop")
	t.Error("unreachable")
}

func (s *Outcomes) TestFails_now(t *xunit.T) {
	t.FailNow()
	t.Error("unreachable")
}

func (s *Outcomes) TestFatal_if_not(t *xunit.T) { t.FatalIfNot(false) }

func (s *Outcomes) TestFatal_on(t *xunit.T) {
	t.FatalOn(ErrFixture)
	t.Error("unreachable")
}

func (s *Outcomes) TestPanics(t *xunit.T) { panic(ErrFixture) }

func (s *Outcomes) TestSkips(t *xunit.T) {
	t.Skip("not today")
	t.Error("unreachable")
}

func (s *Outcomes) TestFails_before_skipping(t *xunit.T) {
	t.Error("failed")
	t.Skip("too late")
}

// Lifecycle logs every hook and procedure call.
type Lifecycle struct {
	xunit.Case
	FixtureLog
}

func (s *Lifecycle) Init(t *xunit.S)        { t.Log("init") }
func (s *Lifecycle) SetUp(t *xunit.T)       { t.Log("setup:" + t.Name()) }
func (s *Lifecycle) TearDown(t *xunit.T)    { t.Log("teardown:" + t.Name()) }
func (s *Lifecycle) Finalize(t *xunit.S)    { t.Log("final") }
func (s *Lifecycle) TestA(t *xunit.T)       { t.Log("TestA") }
func (s *Lifecycle) TestB(t *xunit.T)       { t.Log("TestB") }
func (s *Lifecycle) TestC_fails(t *xunit.T) { t.Fatal("TestC_fails") }

// SetUpFails fails its setup, i.e. its procedure and tear-down must not
// run.
type SetUpFails struct {
	xunit.Case
	FixtureLog
}

func (s *SetUpFails) SetUp(t *xunit.T) {
	t.Log("setup")
	t.Fatal("no fixture")
}

func (s *SetUpFails) TearDown(t *xunit.T) { t.Log("teardown") }

func (s *SetUpFails) TestNot_run(t *xunit.T) { t.Log("procedure") }

// SetUpPanics panics in its setup.
type SetUpPanics struct {
	xunit.Case
	FixtureLog
}

func (s *SetUpPanics) SetUp(t *xunit.T) {
	var m map[string]int
	m["boom"]++
}

func (s *SetUpPanics) TearDown(t *xunit.T) { t.Log("teardown") }

func (s *SetUpPanics) TestNot_run(t *xunit.T) { t.Log("procedure") }

// SetUpSkips skips in its setup; the procedure doesn't run but the
// tear-down does.
type SetUpSkips struct {
	xunit.Case
	FixtureLog
}

func (s *SetUpSkips) SetUp(t *xunit.T) { t.Skip("assumption violated") }

func (s *SetUpSkips) TearDown(t *xunit.T) { t.Log("teardown") }

func (s *SetUpSkips) TestNot_run(t *xunit.T) { t.Log("procedure") }

// TearDownFaults panics in its tear-down which turns even a failed
// procedure into an error.
type TearDownFaults struct {
	xunit.Case
	FixtureLog
}

func (s *TearDownFaults) TearDown(t *xunit.T) {
	t.Log("teardown")
	panic("tear-down fault")
}

func (s *TearDownFaults) TestPasses(t *xunit.T) {}

func (s *TearDownFaults) TestFails(t *xunit.T) { t.Fatal("mismatch") }

func (s *TearDownFaults) TestPanics(t *xunit.T) { panic("procedure fault") }

// TearDownFails reports an expectation mismatch in its tear-down.
type TearDownFails struct{ xunit.Case }

func (s *TearDownFails) TearDown(t *xunit.T) { t.Error("leaked resource") }

func (s *TearDownFails) TestPasses(t *xunit.T) {}

// InitFails fails its Init, i.e. all its procedures error while its
// Finalize is called anyway.
type InitFails struct {
	xunit.Case
	FixtureLog
}

func (s *InitFails) Init(t *xunit.S) { t.Fatal("no database") }

func (s *InitFails) SetUp(t *xunit.T) { t.Log("setup") }

func (s *InitFails) Finalize(t *xunit.S) { t.Log("final") }

func (s *InitFails) TestA(t *xunit.T) { t.Log("TestA") }

func (s *InitFails) TestB(t *xunit.T) { t.Log("TestB") }

// FinalizeFaults faults in its Finalize.
type FinalizeFaults struct{ xunit.Case }

func (s *FinalizeFaults) Finalize(t *xunit.S) { t.FatalOn(ErrFixture) }

func (s *FinalizeFaults) TestPasses(t *xunit.T) {}

// Instances logs the value of a counter which each procedure
// increments.  With a fresh instance per procedure each procedure logs
// 1; with a shared instance the logs count up.
type Instances struct {
	xunit.Case
	FixtureLog
	n int
}

func (s *Instances) TestA(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

func (s *Instances) TestB(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

func (s *Instances) TestC(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

// InitState opens a resource in its Init which every procedure
// expects while the procedures' own field changes stay isolated.
type InitState struct {
	xunit.Case
	FixtureLog
	db []string
	n  int
}

func (s *InitState) Init(t *xunit.S) { s.db = []string{"open"} }

// Counter returns the counter of the supplied instance.
func (s *InitState) Counter() int { return s.n }

func (s *InitState) TestA(t *xunit.T) {
	if s.db == nil {
		t.Fatal("db from Init is nil")
	}
	s.n++
	t.Log(s.db[0], s.n)
}

func (s *InitState) TestB(t *xunit.T) {
	if s.db == nil {
		t.Fatal("db from Init is nil")
	}
	s.n++
	t.Log(s.db[0], s.n)
}

// SharedInstances is Instances opting in to a shared instance.
type SharedInstances struct {
	xunit.Case
	FixtureLog
	n int
}

func (s *SharedInstances) Annotate(a *xunit.Annotations) {
	a.Lifecycle(xunit.PerCase)
}

func (s *SharedInstances) TestA(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

func (s *SharedInstances) TestB(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

// Factory creates its fresh instances with a start value which its
// procedure logs.
type Factory struct {
	xunit.Case
	FixtureLog
	Start int
	n     int
}

func (s *Factory) New() xunit.CaseEmbedder {
	return &Factory{Start: s.Start, n: s.Start}
}

func (s *Factory) TestA(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

func (s *Factory) TestB(t *xunit.T) {
	s.n++
	t.Log(s.n)
}

// BadFactory's factory returns an instance of a different type.
type BadFactory struct{ xunit.Case }

func (s *BadFactory) New() xunit.CaseEmbedder { return &Outcomes{} }

func (s *BadFactory) TestNot_run(t *xunit.T) {}

// Ordered declares its procedures neither in name nor in priority
// order; A has no priority.
type Ordered struct{ xunit.Case }

func (s *Ordered) Annotate(a *xunit.Annotations) {
	a.Priority("TestB", 1).Priority("TestC", 2)
}

func (s *Ordered) TestC(t *xunit.T) {}
func (s *Ordered) TestA(t *xunit.T) {}

// TestB has a value receiver.
func (s Ordered) TestB(t *xunit.T) {}

// Annotated has repeated, disabled, conditionally disabled and renamed
// procedures.
type Annotated struct {
	xunit.Case
	FixtureLog
}

func (s *Annotated) Annotate(a *xunit.Annotations) {
	a.CaseName("annotated case").
		DisplayName("TestRenamed", "renamed procedure").
		Repeat("TestRepeated", 3).
		Disable("TestDisabled", "pending").
		EnableIf("TestNever", func() (bool, string) {
			return false, "never"
		}).
		EnableIf("TestAlways", func() (bool, string) { return true, "" }).
		Priority("TestUnknown", 1)
}

func (s *Annotated) SetUp(t *xunit.T) { t.Log("setup:" + t.Name()) }

func (s *Annotated) TestRenamed(t *xunit.T) {}

func (s *Annotated) TestRepeated(t *xunit.T) {
	i, n := t.Repetition()
	t.Logf("%d/%d", i, n)
}

func (s *Annotated) TestDisabled(t *xunit.T) {}

func (s *Annotated) TestNever(t *xunit.T) {}

func (s *Annotated) TestAlways(t *xunit.T) {}

// Signatures has methods with the procedure prefix but the wrong
// signature and special methods.
type Signatures struct{ xunit.Case }

func (s *Signatures) TestProcedure(t *xunit.T) {}

func (s *Signatures) TestTakesInt(n int) {}

func (s *Signatures) TestReturns(t *xunit.T) error { return nil }

func (s *Signatures) Helper(t *xunit.T) {}

func (s *Signatures) SetUp(t *xunit.T) {}

// Cleanups registers cleanups and creates a temporary directory.
type Cleanups struct {
	xunit.Case
	FixtureLog
	Dir string
}

func (s *Cleanups) Annotate(a *xunit.Annotations) {
	a.Lifecycle(xunit.PerCase)
}

func (s *Cleanups) TearDown(t *xunit.T) { t.Log("teardown") }

func (s *Cleanups) TestRegisters(t *xunit.T) {
	s.Dir = t.TempDir()
	t.Cleanup(func() { t.Log("first") })
	t.Cleanup(func() { t.Log("second") })
}

// CleanupFaults has a cleanup which panics.
type CleanupFaults struct{ xunit.Case }

func (s *CleanupFaults) TestRegisters(t *xunit.T) {
	t.Cleanup(func() { panic("cleanup fault") })
}
