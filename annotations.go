// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

// Annotator is implemented by cases which want to annotate their
// procedures:
//
//	type Calculator struct{ xunit.Case }
//
//	func (c *Calculator) Annotate(a *xunit.Annotations) {
//	    a.DisplayName("TestAdd", "adds two numbers").
//	        Repeat("TestRandomSum", 3).
//	        Disable("TestOverflow", "not implemented yet").
//	        EnableIf("TestPaths", xunit.OnOS("linux", "darwin"))
//	}
//
// Annotate is called once on the case instance given to the runner
// before any of its procedures is planned.
type Annotator interface {
	Annotate(*Annotations)
}

// Annotations collects per case and per procedure settings.  Setters
// return the receiver for chaining.  Procedures are referenced by their
// method name.
type Annotations struct {
	caseName  string
	lifecycle *Lifecycle
	pp        map[string]*annotation
}

type annotation struct {
	name       string
	priority   int
	repeat     int
	disabled   string
	conditions []Condition
}

// Condition reports if a procedure is enabled and if not why.
type Condition func() (enabled bool, reason string)

func newAnnotations() *Annotations {
	return &Annotations{pp: map[string]*annotation{}}
}

func (a *Annotations) of(procedure string) *annotation {
	p, ok := a.pp[procedure]
	if !ok {
		p = &annotation{priority: unprioritized}
		a.pp[procedure] = p
	}
	return p
}

// CaseName sets the annotated case's display name.
func (a *Annotations) CaseName(name string) *Annotations {
	a.caseName = name
	return a
}

// Lifecycle overwrites the runner's lifecycle for the annotated case.
// Use [PerCase] to opt in to procedures sharing one case instance.
func (a *Annotations) Lifecycle(l Lifecycle) *Annotations {
	a.lifecycle = &l
	return a
}

// DisplayName sets given procedure's display name.
func (a *Annotations) DisplayName(procedure, name string) *Annotations {
	a.of(procedure).name = name
	return a
}

// Priority sets given procedure's priority for [OrderPriority]; lower
// priorities run first.
func (a *Annotations) Priority(procedure string, p int) *Annotations {
	a.of(procedure).priority = p
	return a
}

// Repeat executes given procedure n times, each repetition with its
// own setup, tear-down and result.  n < 1 is treated as 1.
func (a *Annotations) Repeat(procedure string, n int) *Annotations {
	a.of(procedure).repeat = n
	return a
}

// Disable skips given procedure reporting given reason.
func (a *Annotations) Disable(procedure, reason string) *Annotations {
	if reason == "" {
		reason = "disabled"
	}
	a.of(procedure).disabled = reason
	return a
}

// EnableIf skips given procedure unless given condition holds at the
// time the procedure is about to run.  Several conditions must all
// hold.
func (a *Annotations) EnableIf(procedure string, c Condition) *Annotations {
	p := a.of(procedure)
	p.conditions = append(p.conditions, c)
	return a
}
