// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrNilCase = errors.New("xunit: nil case")
	ErrNotCase = errors.New("xunit: case must be a pointer to a struct")
)

// Case implements the private method of the CaseEmbedder interface.
// I.e. to have a runner execute the procedures of your own test case
// you must embed this type:
//
//	type Calculator struct{ xunit.Case }
//
//	// optional Init-method
//	// optional SetUp-method
//	// optional TearDown-method
//
//	// ... the procedures as Test-prefixed methods of *Calculator ...
//
//	// optional Finalize-method
//
//	func TestCalculator(t *testing.T) { xunit.Test(t, &Calculator{}) }
type Case struct{}

func (Case) xunitCase() {}

// CaseEmbedder is automatically implemented by embedding a Case.
type CaseEmbedder interface {
	xunitCase()
}

// SetUpper cases have SetUp called before each procedure.  A failing
// or faulting SetUp turns the procedure into an Error without
// executing it or the tear-down.
type SetUpper interface {
	SetUp(*T)
}

// TearDowner cases have TearDown called after each procedure even if
// it failed or faulted.  A failing or faulting TearDown turns the
// procedure into an Error.
type TearDowner interface {
	TearDown(*T)
}

// Initializer cases have Init called once before any of their
// procedures.
type Initializer interface {
	Init(*S)
}

// Finalizer cases have Finalize called once after all of their
// procedures.
type Finalizer interface {
	Finalize(*S)
}

// Factory cases provide the fresh instances their procedures run on
// with [PerProcedure] lifecycle.  New must return a pointer of the
// same type as its receiver.  Cases not implementing Factory get
// shallow copies of the supplied instance taken after Init ran, i.e.
// fields set by Init are seen by every procedure.
type Factory interface {
	New() CaseEmbedder
}

// CaseLogging implementations of a case overwrite the log capturing of
// T and S instances passed to its hooks and procedures, e.g.:
//
//	type Calculator struct {
//	    xunit.Case
//	    Logs string
//	}
//
//	func (c *Calculator) Logger() func(...interface{}) {
//	    return func(args ...interface{}) { c.Logs += fmt.Sprint(args...) }
//	}
//
// The logger is retrieved once from the instance given to the runner,
// i.e. it receives the logs of all fresh instances as well.
type CaseLogging interface {
	Logger() func(args ...interface{})
}

// special hook names are never procedures.
var special = map[string]bool{
	"SetUp": true, "TearDown": true, "Init": true, "Finalize": true}

var tType = reflect.TypeOf((*T)(nil))

// procedure is a discovered procedure method of a case.
type procedure struct {
	method     reflect.Method
	name       string
	display    string
	file       string
	line       int
	priority   int
	repeat     int
	disabled   string
	conditions []Condition
}

// caseDef is a validated case with its ordered procedures.
type caseDef struct {
	proto     CaseEmbedder
	rtype     reflect.Type
	name      string
	display   string
	lifecycle Lifecycle
	logger    func(...interface{})
	procs     []*procedure
}

// isProcedure reports if given method of a case is a procedure with
// respect to given discovery prefix.
func isProcedure(m reflect.Method, prefix string) (bool, error) {
	if special[m.Name] || !strings.HasPrefix(m.Name, prefix) {
		return false, nil
	}
	mt := m.Type
	if mt.NumIn() == 2 && mt.In(1) == tType && mt.NumOut() == 0 {
		return true, nil
	}
	return false, fmt.Errorf(
		"%s has prefix %q but not the signature func(*xunit.T)",
		m.Name, prefix)
}

// funcPos returns the source position of given function value.
func funcPos(fn reflect.Value) (string, int) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", 0
	}
	file, line := f.FileLine(f.Entry())
	if strings.HasPrefix(file, "<") {
		return "", 0
	}
	return file, line
}

// position returns the source position of given method declared on
// given pointer type.  Methods with value receivers are reported by
// autogenerated wrappers on the pointer type, hence the value type's
// method is consulted as well.
func position(rtype reflect.Type, m reflect.Method) (string, int) {
	if file, line := funcPos(m.Func); line > 0 {
		return file, line
	}
	if vm, ok := rtype.Elem().MethodByName(m.Name); ok {
		return funcPos(vm.Func)
	}
	return "", 0
}

// newCaseDef validates given case and discovers its procedures.
func (r *Runner) newCaseDef(c CaseEmbedder) (*caseDef, error) {
	if c == nil {
		return nil, ErrNilCase
	}
	rtype := reflect.TypeOf(c)
	if rtype.Kind() != reflect.Ptr || rtype.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotCase, c)
	}
	if reflect.ValueOf(c).IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNilCase, c)
	}

	d := &caseDef{
		proto:     c,
		rtype:     rtype,
		name:      rtype.Elem().Name(),
		lifecycle: r.cfg.Lifecycle,
	}
	if d.name == "" {
		d.name = rtype.Elem().String()
	}
	d.display = r.cfg.Names.Case(d.name)
	if l, ok := c.(CaseLogging); ok {
		d.logger = l.Logger()
	}

	ann := newAnnotations()
	if a, ok := c.(Annotator); ok {
		a.Annotate(ann)
	}
	if ann.caseName != "" {
		d.display = ann.caseName
	}
	if ann.lifecycle != nil {
		d.lifecycle = *ann.lifecycle
	}

	log := r.log.WithField("case", d.name)
	known := map[string]bool{}
	for i := 0; i < rtype.NumMethod(); i++ {
		m := rtype.Method(i)
		ok, err := isProcedure(m, r.cfg.Prefix)
		if err != nil {
			log.WithError(err).Warn("ignoring method")
			continue
		}
		if !ok {
			continue
		}
		known[m.Name] = true
		if r.cfg.Run != nil && !r.cfg.Run.MatchString(d.name+"/"+m.Name) {
			continue
		}
		d.procs = append(d.procs, r.newProcedure(rtype, m, ann))
	}
	for name := range ann.pp {
		if !known[name] {
			log.WithField("procedure", name).Warn(
				"annotation of unknown procedure")
		}
	}
	log.WithFields(logrus.Fields{
		"procedures": len(d.procs),
		"lifecycle":  d.lifecycle,
	}).Debug("discovered case")
	return d, nil
}

func (r *Runner) newProcedure(
	rtype reflect.Type, m reflect.Method, ann *Annotations,
) *procedure {
	p := &procedure{
		method:   m,
		name:     m.Name,
		display:  r.cfg.Names.Procedure(r.cfg.Prefix, m.Name),
		priority: unprioritized,
		repeat:   1,
	}
	p.file, p.line = position(rtype, m)
	if a, ok := ann.pp[m.Name]; ok {
		if a.name != "" {
			p.display = a.name
		}
		if a.repeat > 1 {
			p.repeat = a.repeat
		}
		p.priority = a.priority
		p.disabled = a.disabled
		p.conditions = a.conditions
	}
	return p
}

// instance returns the case instance given procedure runs on.
func (d *caseDef) instance() (CaseEmbedder, error) {
	if d.lifecycle == PerCase {
		return d.proto, nil
	}
	f, ok := d.proto.(Factory)
	if !ok {
		v := reflect.New(d.rtype.Elem())
		v.Elem().Set(reflect.ValueOf(d.proto).Elem())
		return v.Interface().(CaseEmbedder), nil
	}
	c := f.New()
	if c == nil || reflect.TypeOf(c) != d.rtype {
		return nil, fmt.Errorf(
			"xunit: %s: factory returned %T, want %s", d.name, c, d.rtype)
	}
	if reflect.ValueOf(c).IsNil() {
		return nil, fmt.Errorf("xunit: %s: factory returned nil", d.name)
	}
	return c, nil
}
