// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit_test

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/slukits/xunit"
	"github.com/slukits/xunit/testdata/fx"
)

// NOTE the cases of this file run fixture cases with their own runner
// and investigate the returned report, i.e. failing and erroring
// fixture procedures do not fail the go test run.

// quiet returns a runner with given configuration whose logs are
// recorded by the returned hook instead of being printed.
func quiet(cfg xunit.Config) (*xunit.Runner, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	cfg.Log = log
	return xunit.NewRunner(cfg), hook
}

func runFx(t *xunit.T, cfg xunit.Config, cc ...xunit.CaseEmbedder) *xunit.Report {
	r, _ := quiet(cfg)
	rp, err := r.Run(cc...)
	t.FatalOn(err)
	return rp
}

// byName maps the results of given report to their display names.
func byName(rp *xunit.Report) map[string]xunit.Result {
	rr := map[string]xunit.Result{}
	for _, r := range rp.Results {
		rr[r.Name] = r
	}
	return rr
}

type outcomes struct{ xunit.Case }

func (s *outcomes) TestPassed_if_no_expectation_mismatch(t *xunit.T) {
	rr := byName(runFx(t, xunit.Config{}, &fx.Outcomes{}))
	t.Eq(xunit.Passed, rr["TestPasses"].Outcome)
	t.Eq(xunit.PhaseNone, rr["TestPasses"].Phase)
}

func (s *outcomes) TestFailed_on_reported_mismatches(t *xunit.T) {
	rr := byName(runFx(t, xunit.Config{}, &fx.Outcomes{}))
	for _, name := range []string{"TestErrors", "TestFatal",
		"TestFails_now", "TestFatal_if_not"} {
		t.Eq(xunit.Failed, rr[name].Outcome)
		t.Eq(xunit.PhaseProcedure, rr[name].Phase)
		t.True(rr[name].Err == nil)
	}
	t.Eq("first|second", strings.Join(rr["TestErrors"].Messages, "|"))
	t.Eq("stop", strings.Join(rr["TestFatal"].Messages, "|"))
}

func (s *outcomes) TestError_on_panic(t *xunit.T) {
	r := byName(runFx(t, xunit.Config{}, &fx.Outcomes{}))["TestPanics"]
	t.Eq(xunit.Error, r.Outcome)
	t.Eq(xunit.PhaseProcedure, r.Phase)
	t.ErrIs(r.Err, fx.ErrFixture)
	var fault *xunit.Fault
	t.FatalIfNot(t.True(errors.As(r.Err, &fault)))
	t.True(len(fault.Stack) > 0)
}

func (s *outcomes) TestError_on_fatal_error(t *xunit.T) {
	r := byName(runFx(t, xunit.Config{}, &fx.Outcomes{}))["TestFatal_on"]
	t.Eq(xunit.Error, r.Outcome)
	t.ErrIs(r.Err, fx.ErrFixture)
	t.True(len(r.Messages) == 0)
}

func (s *outcomes) TestSkipped_if_skipping_without_failure(t *xunit.T) {
	rr := byName(runFx(t, xunit.Config{}, &fx.Outcomes{}))
	t.Eq(xunit.Skipped, rr["TestSkips"].Outcome)
	t.Eq("not today", rr["TestSkips"].SkipReason)
	t.Eq(xunit.Failed, rr["TestFails_before_skipping"].Outcome)
}

func (s *outcomes) TestAre_counted_once_each(t *xunit.T) {
	rp := runFx(t, xunit.Config{}, &fx.Outcomes{})
	t.Eq(xunit.Counts{
		Total: 8, Passed: 1, Failed: 5, Errored: 2, Skipped: 1,
	}, rp.Counts)
	t.True(rp.Counts.Consistent())
	t.Eq(len(rp.Results), rp.Counts.Total+rp.Counts.Skipped)
}

func TestOutcomes(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &outcomes{})
}

type lifecycle struct{ xunit.Case }

func (s *lifecycle) TestRuns_hooks_around_each_procedure(t *xunit.T) {
	c := &fx.Lifecycle{}
	runFx(t, xunit.Config{Order: xunit.OrderName}, c)
	t.Eq(strings.Join([]string{
		xunit.InitPrefix + "init",
		"setup:TestA", "TestA", "teardown:TestA",
		"setup:TestB", "TestB", "teardown:TestB",
		"setup:TestC_fails", "teardown:TestC_fails",
		xunit.FinalPrefix + "final",
	}, "|"), c.Logs("|"))
}

func (s *lifecycle) TestSkips_procedure_and_tear_down_if_setup_fails(t *xunit.T) {
	c := &fx.SetUpFails{}
	r := runFx(t, xunit.Config{}, c).Results[0]
	t.Eq(xunit.Error, r.Outcome)
	t.Eq(xunit.PhaseSetUp, r.Phase)
	t.Eq("no fixture", strings.Join(r.Messages, ""))
	t.Eq("setup", c.Logs("|"))
}

func (s *lifecycle) TestReports_setup_panic_as_error(t *xunit.T) {
	c := &fx.SetUpPanics{}
	r := runFx(t, xunit.Config{}, c).Results[0]
	t.Eq(xunit.Error, r.Outcome)
	t.Eq(xunit.PhaseSetUp, r.Phase)
	t.Contains(r.Err.Error(), "setup: panic")
	t.Eq("", c.Logs("|"))
}

func (s *lifecycle) TestTears_down_after_skipping_setup(t *xunit.T) {
	c := &fx.SetUpSkips{}
	r := runFx(t, xunit.Config{}, c).Results[0]
	t.Eq(xunit.Skipped, r.Outcome)
	t.Eq("assumption violated", r.SkipReason)
	t.Eq("teardown", c.Logs("|"))
}

func (s *lifecycle) TestTears_down_after_failure_and_fault(t *xunit.T) {
	c := &fx.TearDownFaults{}
	rr := byName(runFx(t, xunit.Config{}, c))
	t.Eq("teardown|teardown|teardown", c.Logs("|"))
	t.Eq(xunit.Error, rr["TestPasses"].Outcome)
	t.Eq(xunit.PhaseTearDown, rr["TestPasses"].Phase)
	t.Eq(xunit.Error, rr["TestFails"].Outcome)
	t.Eq(xunit.PhaseTearDown, rr["TestFails"].Phase)
	t.Eq(xunit.Error, rr["TestPanics"].Outcome)
	t.Eq(xunit.PhaseProcedure, rr["TestPanics"].Phase)
	t.Contains(rr["TestPanics"].Err.Error(), "procedure fault")
	t.Contains(rr["TestPanics"].Err.Error(), "tear-down fault")
}

func (s *lifecycle) TestErrors_on_tear_down_mismatch(t *xunit.T) {
	r := runFx(t, xunit.Config{}, &fx.TearDownFails{}).Results[0]
	t.Eq(xunit.Error, r.Outcome)
	t.Eq(xunit.PhaseTearDown, r.Phase)
	t.Eq("leaked resource", strings.Join(r.Messages, ""))
}

func (s *lifecycle) TestErrors_all_procedures_if_init_fails(t *xunit.T) {
	c := &fx.InitFails{}
	rp := runFx(t, xunit.Config{}, c)
	t.Eq(2, len(rp.Results))
	for _, r := range rp.Results {
		t.Eq(xunit.Error, r.Outcome)
		t.Eq(xunit.PhaseInit, r.Phase)
	}
	t.Eq(xunit.FinalPrefix+"final", c.Logs("|"))
	t.Contains(rp.Cases[0].Err.Error(), "no database")
	t.Eq(2, rp.Counts.Errored)
}

func (s *lifecycle) TestReports_finalize_fault_by_case(t *xunit.T) {
	rp := runFx(t, xunit.Config{}, &fx.FinalizeFaults{})
	t.Eq(xunit.Passed, rp.Results[0].Outcome)
	t.ErrIs(rp.Cases[0].Err, fx.ErrFixture)
	t.True(rp.Counts.OK())
}

func (s *lifecycle) TestRuns_cleanups_after_tear_down_in_reverse(t *xunit.T) {
	c := &fx.Cleanups{}
	r := runFx(t, xunit.Config{}, c).Results[0]
	t.Eq(xunit.Passed, r.Outcome)
	t.Eq("teardown|second|first", c.Logs("|"))
	t.Not.Eq("", c.Dir)
	_, err := os.Stat(c.Dir)
	t.True(os.IsNotExist(err))
}

func (s *lifecycle) TestErrors_on_cleanup_fault(t *xunit.T) {
	r := runFx(t, xunit.Config{}, &fx.CleanupFaults{}).Results[0]
	t.Eq(xunit.Error, r.Outcome)
	t.Eq(xunit.PhaseTearDown, r.Phase)
}

func TestLifecycle(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &lifecycle{})
}

type instances struct{ xunit.Case }

func (s *instances) TestAre_fresh_per_procedure_by_default(t *xunit.T) {
	c := &fx.Instances{}
	runFx(t, xunit.Config{}, c)
	t.Eq("1|1|1", c.Logs("|"))
}

func (s *instances) TestCopy_the_state_set_up_by_init(t *xunit.T) {
	c := &fx.InitState{}
	rp := runFx(t, xunit.Config{}, c)
	t.Eq(2, rp.Counts.Passed)
	t.Eq("open1|open1", c.Logs("|"))
	t.Eq(0, c.Counter())
}

func (s *instances) TestAre_shared_if_configured(t *xunit.T) {
	c := &fx.Instances{}
	runFx(t, xunit.Config{Lifecycle: xunit.PerCase}, c)
	t.Eq("1|2|3", c.Logs("|"))
}

func (s *instances) TestAre_shared_if_annotated(t *xunit.T) {
	c := &fx.SharedInstances{}
	runFx(t, xunit.Config{}, c)
	t.Eq("1|2", c.Logs("|"))
}

func (s *instances) TestAre_created_by_a_case_s_factory(t *xunit.T) {
	c := &fx.Factory{Start: 10}
	runFx(t, xunit.Config{}, c)
	t.Eq("11|11", c.Logs("|"))
}

func (s *instances) TestError_if_factory_returns_other_type(t *xunit.T) {
	r := runFx(t, xunit.Config{}, &fx.BadFactory{}).Results[0]
	t.Eq(xunit.Error, r.Outcome)
	t.Eq(xunit.PhaseSetUp, r.Phase)
	t.ErrMatched(r.Err, "factory returned %s")
}

func TestInstances(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &instances{})
}

type invalid struct{ xunit.Case }

type valueCase struct{ xunit.Case }

func (s *invalid) TestNil_case(t *xunit.T) {
	r, _ := quiet(xunit.Config{})
	_, err := r.Run(nil)
	t.ErrIs(err, xunit.ErrNilCase)
	_, err = r.Run((*fx.Outcomes)(nil))
	t.ErrIs(err, xunit.ErrNilCase)
}

func (s *invalid) TestNon_pointer_case(t *xunit.T) {
	r, _ := quiet(xunit.Config{})
	_, err := r.Run(valueCase{})
	t.ErrIs(err, xunit.ErrNotCase)
}

func (s *invalid) TestCase_executes_nothing(t *xunit.T) {
	c := &fx.Lifecycle{}
	r, _ := quiet(xunit.Config{})
	_, err := r.Run(c, nil)
	t.ErrIs(err, xunit.ErrNilCase)
	t.Eq("", c.Logs("|"))
}

func (s *invalid) TestSignatures_are_ignored_with_warning(t *xunit.T) {
	r, hook := quiet(xunit.Config{})
	rp, err := r.Run(&fx.Signatures{})
	t.FatalOn(err)
	t.Eq(1, len(rp.Results))
	t.Eq("TestProcedure", rp.Results[0].Procedure)
	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "ignoring method" {
			warnings++
		}
	}
	t.Eq(2, warnings)
}

func TestInvalid(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &invalid{})
}

type annotations struct{ xunit.Case }

func (s *annotations) TestRename_case_and_procedures(t *xunit.T) {
	rp := runFx(t, xunit.Config{}, &fx.Annotated{})
	t.Eq("annotated case", rp.Cases[0].Name)
	r, ok := byName(rp)["renamed procedure"]
	t.FatalIfNot(t.True(ok))
	t.Eq("TestRenamed", r.Procedure)
	t.Eq("annotated case", r.CaseName)
}

func (s *annotations) TestRepeat_procedures(t *xunit.T) {
	c := &fx.Annotated{}
	rr := byName(runFx(t, xunit.Config{}, c))
	for i, name := range []string{"TestRepeated [1/3]",
		"TestRepeated [2/3]", "TestRepeated [3/3]"} {
		t.Eq(xunit.Passed, rr[name].Outcome)
		t.Eq(i+1, rr[name].Repetition)
		t.Eq(3, rr[name].Repetitions)
	}
	t.Contains(c.Logs("|"), "setup:TestRepeated [2/3]|2/3|")
}

func (s *annotations) TestSkip_disabled_procedures(t *xunit.T) {
	c := &fx.Annotated{}
	rp := runFx(t, xunit.Config{}, c)
	rr := byName(rp)
	t.Eq(xunit.Skipped, rr["TestDisabled"].Outcome)
	t.Eq("pending", rr["TestDisabled"].SkipReason)
	t.Eq(xunit.Skipped, rr["TestNever"].Outcome)
	t.Eq("never", rr["TestNever"].SkipReason)
	t.Eq(xunit.Passed, rr["TestAlways"].Outcome)
	t.Not.Contains(c.Logs("|"), "TestDisabled")
	t.Not.Contains(c.Logs("|"), "TestNever")
	t.Eq(xunit.Counts{Total: 5, Passed: 5, Skipped: 2}, rp.Counts)
}

func (s *annotations) TestOf_unknown_procedures_are_warned(t *xunit.T) {
	r, hook := quiet(xunit.Config{})
	_, err := r.Run(&fx.Annotated{})
	t.FatalOn(err)
	found := false
	for _, e := range hook.AllEntries() {
		if e.Data["procedure"] == "TestUnknown" {
			found = e.Level == logrus.WarnLevel
		}
	}
	t.True(found)
}

func TestAnnotations(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &annotations{})
}

// planned extracts the procedure names from a runner's plan.
func planned(t *xunit.T, cfg xunit.Config, c xunit.CaseEmbedder) string {
	r, _ := quiet(cfg)
	pp, err := r.Plan(c)
	t.FatalOn(err)
	nn := []string{}
	for _, p := range pp {
		nn = append(nn, p.Procedure)
	}
	return strings.Join(nn, ",")
}

type order struct{ xunit.Case }

func (s *order) TestBy_declaration(t *xunit.T) {
	t.Eq("TestC,TestA,TestB", planned(
		t, xunit.Config{Order: xunit.OrderDeclaration}, &fx.Ordered{}))
}

func (s *order) TestBy_name(t *xunit.T) {
	t.Eq("TestA,TestB,TestC", planned(
		t, xunit.Config{Order: xunit.OrderName}, &fx.Ordered{}))
}

func (s *order) TestBy_priority_with_unprioritized_last(t *xunit.T) {
	t.Eq("TestB,TestC,TestA", planned(
		t, xunit.Config{Order: xunit.OrderPriority}, &fx.Ordered{}))
}

func (s *order) TestRandomly_reproducible_by_seed(t *xunit.T) {
	cfg := xunit.Config{Order: xunit.OrderRandom, Seed: 42}
	t.Eq(planned(t, cfg, &fx.Lifecycle{}), planned(t, cfg, &fx.Lifecycle{}))
	rp := runFx(t, cfg, &fx.Ordered{})
	t.Eq(int64(42), rp.Seed)
	t.Eq(xunit.OrderRandom, rp.Order)
}

func (s *order) TestRandomly_reports_clock_seed(t *xunit.T) {
	rp := runFx(t, xunit.Config{Order: xunit.OrderRandom}, &fx.Ordered{})
	t.Not.Eq(int64(0), rp.Seed)
}

func (s *order) TestRuns_results_in_planned_order(t *xunit.T) {
	cfg := xunit.Config{Order: xunit.OrderPriority}
	rp := runFx(t, cfg, &fx.Ordered{})
	nn := []string{}
	for _, r := range rp.Results {
		nn = append(nn, r.Procedure)
	}
	t.Eq(planned(t, cfg, &fx.Ordered{}), strings.Join(nn, ","))
}

func (s *order) TestIs_parsed_from_its_name(t *xunit.T) {
	for _, o := range []xunit.Order{xunit.OrderDefault,
		xunit.OrderDeclaration, xunit.OrderName, xunit.OrderPriority,
		xunit.OrderRandom} {
		parsed, err := xunit.ParseOrder(strings.ToUpper(o.String()))
		t.FatalOn(err)
		t.Eq(o, parsed)
	}
	_, err := xunit.ParseOrder("alphabetical")
	t.ErrIs(err, xunit.ErrUnknownOrder)
}

func TestOrder(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &order{})
}

type runner struct{ xunit.Case }

func (s *runner) TestFilters_procedures_by_case_and_name(t *xunit.T) {
	rp := runFx(t, xunit.Config{
		Run: regexp.MustCompile(`^Outcomes/TestPa`)}, &fx.Outcomes{})
	nn := []string{}
	for _, r := range rp.Results {
		nn = append(nn, r.Procedure)
	}
	t.Eq("TestPanics,TestPasses", strings.Join(nn, ","))
}

func (s *runner) TestGenerates_display_names(t *xunit.T) {
	rp := runFx(t, xunit.Config{Names: xunit.UnderscoreNames{}},
		&fx.Lifecycle{})
	t.Eq("C fails", rp.Results[2].Name)
	t.Eq("TestC_fails", rp.Results[2].Procedure)
}

func (s *runner) TestIdentifies_runs(t *xunit.T) {
	rp1 := runFx(t, xunit.Config{}, &fx.Instances{})
	rp2 := runFx(t, xunit.Config{}, &fx.Instances{})
	t.Not.Eq(rp1.RunID, rp2.RunID)
	t.True(!rp1.End.Before(rp1.Start))
}

func (s *runner) TestNotifies_listeners_in_order(t *xunit.T) {
	rec := &recorder{}
	runFx(t, xunit.Config{Listeners: []xunit.Listener{rec}},
		&fx.Instances{}, &fx.FinalizeFaults{})
	t.Eq(strings.Join([]string{
		"run", "case:Instances", "TestA", "TestB", "TestC",
		"/case:Instances", "case:FinalizeFaults", "TestPasses",
		"/case:FinalizeFaults", "/run:4"}, "|"), strings.Join(rec.ee, "|"))
}

func (s *runner) TestCounts_consistently_after_every_procedure(t *xunit.T) {
	var acc xunit.Accumulator
	consistent := true
	runFx(t, xunit.Config{Listeners: []xunit.Listener{
		xunit.ListenerFunc(func(r xunit.Result) {
			acc.Record(r.Outcome)
			consistent = consistent && acc.Counts().Consistent()
		}),
	}}, &fx.Outcomes{}, &fx.TearDownFaults{}, &fx.Annotated{})
	t.True(consistent)
}

func TestRunner(t *testing.T) {
	t.Parallel()
	xunit.Test(t, &runner{})
}

type recorder struct {
	xunit.NopListener
	ee []string
}

func (r *recorder) RunStarted(*xunit.Report) { r.ee = append(r.ee, "run") }

func (r *recorder) CaseStarted(c xunit.CaseReport) {
	r.ee = append(r.ee, "case:"+c.Case)
}

func (r *recorder) ProcedureFinished(res xunit.Result) {
	r.ee = append(r.ee, res.Name)
}

func (r *recorder) CaseFinished(c xunit.CaseReport) {
	r.ee = append(r.ee, "/case:"+c.Case)
}

func (r *recorder) RunFinished(rp *xunit.Report) {
	r.ee = append(r.ee, fmt.Sprintf("/run:%d", rp.Counts.Total))
}
