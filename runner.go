// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"math/rand"
	"reflect"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// DefaultPrefix identifies procedures if no other prefix is
// configured.
const DefaultPrefix = "Test"

// Config of a Runner.  The zero value is a valid configuration.
type Config struct {

	// Prefix identifies the procedure methods of a case; defaults to
	// DefaultPrefix.
	Prefix string

	// Order of a case's procedures.
	Order Order

	// Seed for OrderRandom; zero seeds from the clock.  The used seed
	// is reported.
	Seed int64

	// Lifecycle of case instances; a case may overwrite it by its
	// annotations.
	Lifecycle Lifecycle

	// Names generates display names; defaults to StandardNames.
	Names DisplayNames

	// Run restricts the executed procedures to those whose
	// "Case/Procedure" name it matches.
	Run *regexp.Regexp

	// Listeners are notified about a run's progress.
	Listeners []Listener

	// Log receives the runner's diagnostics; defaults to logrus'
	// standard logger.
	Log logrus.FieldLogger
}

// Runner executes the procedures of test cases one after another and
// classifies their outcomes.  A Runner may be used for several runs,
// also concurrently as long as its listeners can cope with that.
type Runner struct {
	cfg Config
	log logrus.FieldLogger
}

// NewRunner creates a runner with given configuration.
func NewRunner(cfg Config) *Runner {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Names == nil {
		cfg.Names = StandardNames{}
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &Runner{cfg: cfg, log: cfg.Log}
}

// Config returns a copy of the runner's configuration with defaults
// applied.
func (r *Runner) Config() Config { return r.cfg }

// Planned describes a procedure repetition a run would execute.
type Planned struct {
	Case        string
	CaseName    string
	Procedure   string
	Name        string
	Repetition  int
	Repetitions int

	// Disabled is the reason of a disabled procedure.
	Disabled string
}

// plan validates given cases and orders their procedures.
func (r *Runner) plan(cases []CaseEmbedder) ([]*caseDef, int64, error) {
	seed := r.cfg.Seed
	if r.cfg.Order == OrderRandom && seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	dd := make([]*caseDef, 0, len(cases))
	for _, c := range cases {
		d, err := r.newCaseDef(c)
		if err != nil {
			return nil, 0, err
		}
		r.cfg.Order.sort(d.procs, rnd)
		dd = append(dd, d)
	}
	if r.cfg.Order != OrderRandom {
		seed = 0
	}
	return dd, seed, nil
}

// Plan returns the procedure repetitions a run of given cases would
// execute in their execution order.  For OrderRandom the plan matches
// a run only if a seed is configured.
func (r *Runner) Plan(cases ...CaseEmbedder) ([]Planned, error) {
	dd, _, err := r.plan(cases)
	if err != nil {
		return nil, err
	}
	pp := []Planned{}
	for _, d := range dd {
		for _, p := range d.procs {
			for i := 1; i <= p.repeat; i++ {
				pp = append(pp, Planned{
					Case:        d.name,
					CaseName:    d.display,
					Procedure:   p.name,
					Name:        repetitionName(p.display, i, p.repeat),
					Repetition:  repetition(i, p.repeat),
					Repetitions: repetition(p.repeat, p.repeat),
					Disabled:    p.disabled,
				})
			}
		}
	}
	return pp, nil
}

func repetition(i, n int) int {
	if n < 2 {
		return 0
	}
	return i
}

// run is the state of one run.
type run struct {
	rp  *Report
	acc Accumulator
}

func (r *Runner) notify(f func(Listener)) {
	for _, l := range r.cfg.Listeners {
		f(l)
	}
}

// start plans given cases and starts a new run.
func (r *Runner) start(cases []CaseEmbedder) ([]*caseDef, *run, error) {
	dd, seed, err := r.plan(cases)
	if err != nil {
		return nil, nil, err
	}
	rn := &run{rp: &Report{
		RunID: uuid.NewString(),
		Start: time.Now(),
		Order: r.cfg.Order,
		Seed:  seed,
	}}
	r.log.WithFields(logrus.Fields{
		"run":   rn.rp.RunID,
		"cases": len(dd),
		"order": r.cfg.Order,
		"seed":  seed,
	}).Debug("run started")
	r.notify(func(l Listener) { l.RunStarted(rn.rp) })
	return dd, rn, nil
}

func (r *Runner) finish(rn *run) *Report {
	rn.rp.End = time.Now()
	rn.rp.Counts = rn.acc.Counts()
	r.log.WithFields(logrus.Fields{
		"run":      rn.rp.RunID,
		"total":    rn.rp.Counts.Total,
		"passed":   rn.rp.Counts.Passed,
		"failed":   rn.rp.Counts.Failed,
		"errored":  rn.rp.Counts.Errored,
		"skipped":  rn.rp.Counts.Skipped,
		"duration": rn.rp.Duration(),
	}).Debug("run finished")
	r.notify(func(l Listener) { l.RunFinished(rn.rp) })
	return rn.rp
}

// Run executes the procedures of given cases in given order and
// returns the report of the run.  An error is only returned for
// invalid cases in which case nothing is executed; failing and faulting
// procedures are reported by the report.
func (r *Runner) Run(cases ...CaseEmbedder) (*Report, error) {
	dd, rn, err := r.start(cases)
	if err != nil {
		return nil, err
	}
	for _, d := range dd {
		r.runCase(d, rn, nil)
	}
	return r.finish(rn), nil
}

// runCase executes the procedures of given case and calls given emit
// function, if not nil, with every result.
func (r *Runner) runCase(d *caseDef, rn *run, emit func(Result)) CaseReport {
	cr := CaseReport{Case: d.name, Name: d.display}
	r.notify(func(l Listener) { l.CaseStarted(cr) })
	var acc Accumulator

	s := &S{name: d.display, logger: d.logger}
	var initErr error
	if i, ok := d.proto.(Initializer); ok {
		initErr = s.exec(PhaseInit, func() { i.Init(s) })
	}

	for _, p := range d.procs {
		for i := 1; i <= p.repeat; i++ {
			res := r.runProcedure(d, p, i, initErr)
			rn.acc.Record(res.Outcome)
			acc.Record(res.Outcome)
			rn.rp.Results = append(rn.rp.Results, res)
			r.log.WithFields(logrus.Fields{
				"case":      d.name,
				"procedure": res.Name,
				"outcome":   res.Outcome,
				"phase":     res.Phase,
			}).Debug("procedure finished")
			if emit != nil {
				emit(res)
			}
			r.notify(func(l Listener) { l.ProcedureFinished(res) })
		}
	}

	var finalErr error
	if f, ok := d.proto.(Finalizer); ok {
		finalErr = s.exec(PhaseFinalize, func() { f.Finalize(s) })
	}

	cr.Counts, cr.Logs = acc.Counts(), s.logs
	cr.Err = multierror.Append(initErr, finalErr).ErrorOrNil()
	if cr.Err != nil {
		r.log.WithField("case", d.name).WithError(cr.Err).Warn("case hook failed")
	}
	rn.rp.Cases = append(rn.rp.Cases, cr)
	r.notify(func(l Listener) { l.CaseFinished(cr) })
	return cr
}

// call runs given function on its own goroutine and waits for it to
// finish.  A recovered panic is returned as *Fault while a
// runtime.Goexit, e.g. from T.FailNow, ends the function without
// fault.
func call(phase Phase, f func()) (fault error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		finished := false
		defer func() {
			if finished {
				return
			}
			if p := recover(); p != nil {
				fault = &Fault{Phase: phase, Value: p, Stack: debug.Stack()}
			}
		}()
		f()
		finished = true
	}()
	<-done
	return fault
}

// exec runs an Init or Finalize hook and returns its failures and
// faults combined.
func (s *S) exec(phase Phase, f func()) error {
	s.phase, s.messages, s.faults = phase, nil, nil
	if fault := call(phase, f); fault != nil {
		s.faults = append(s.faults, fault)
	}
	var errs *multierror.Error
	if len(s.messages) > 0 {
		errs = multierror.Append(errs, &Fault{
			Phase: phase, Value: strings.Join(s.messages, "\n")})
	}
	return multierror.Append(errs, s.faults...).ErrorOrNil()
}

// runPhase executes given phase of a procedure with given T and
// records a fault if the phase panicked.
func runPhase(t *T, phase Phase, f func()) {
	t.enter(phase)
	if fault := call(phase, f); fault != nil {
		t.faults = append(t.faults, fault)
	}
}

// runProcedure executes given repetition of given procedure including
// its setup and tear-down and classifies its outcome.
func (r *Runner) runProcedure(
	d *caseDef, p *procedure, rep int, initErr error,
) (res Result) {
	res = Result{
		Case:        d.name,
		CaseName:    d.display,
		Procedure:   p.name,
		Name:        repetitionName(p.display, rep, p.repeat),
		Repetition:  repetition(rep, p.repeat),
		Repetitions: repetition(p.repeat, p.repeat),
	}
	if reason := p.skipReason(); reason != "" {
		res.Outcome, res.SkipReason = Skipped, reason
		return res
	}
	if initErr != nil {
		res.Outcome, res.Phase, res.Err = Error, PhaseInit, initErr
		return res
	}

	start := time.Now()
	t := newT(res.Name, rep, p.repeat, d.logger)
	defer func() {
		res.Duration = time.Since(start)
		res.Messages, res.Logs = t.messages, t.logs
		res.Err = multierror.Append(nil, t.faults...).ErrorOrNil()
	}()

	var inst CaseEmbedder
	runPhase(t, PhaseSetUp, func() {
		var err error
		inst, err = d.instance()
		t.FatalOn(err)
		if su, ok := inst.(SetUpper); ok {
			su.SetUp(t)
		}
	})
	if t.phaseFailed || len(t.faults) > 0 {
		res.Outcome, res.Phase = Error, PhaseSetUp
		r.cleanup(t, &res)
		return res
	}

	if !t.skipped {
		runPhase(t, PhaseProcedure, func() {
			p.method.Func.Call(
				[]reflect.Value{reflect.ValueOf(inst), reflect.ValueOf(t)})
		})
	}
	switch {
	case len(t.faults) > 0:
		res.Outcome, res.Phase = Error, PhaseProcedure
	case t.failed:
		res.Outcome, res.Phase = Failed, PhaseProcedure
	case t.skipped:
		res.Outcome, res.SkipReason = Skipped, t.skipReason
	}

	if td, ok := inst.(TearDowner); ok {
		faults := len(t.faults)
		runPhase(t, PhaseTearDown, func() { td.TearDown(t) })
		if t.phaseFailed || len(t.faults) > faults {
			res.tearDownFailed()
		}
	}
	r.cleanup(t, &res)
	return res
}

// cleanup calls the cleanups registered at given T; failing cleanups
// turn given result into an Error.
func (r *Runner) cleanup(t *T, res *Result) {
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		faults := len(t.faults)
		runPhase(t, PhaseTearDown, t.cleanups[i])
		if t.phaseFailed || len(t.faults) > faults {
			res.tearDownFailed()
		}
	}
}

// tearDownFailed turns a result into an Error originating in the
// tear-down unless it is already an Error.
func (res *Result) tearDownFailed() {
	if res.Outcome == Error {
		return
	}
	res.Outcome, res.Phase, res.SkipReason = Error, PhaseTearDown, ""
}

// skipReason evaluates a procedure's disabling annotations.
func (p *procedure) skipReason() string {
	if p.disabled != "" {
		return p.disabled
	}
	for _, c := range p.conditions {
		if enabled, reason := c(); !enabled {
			if reason == "" {
				reason = "disabled by condition"
			}
			return reason
		}
	}
	return ""
}
