// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// assertErr is the format-string for assertion errors.
const assertErr = "assert %s:\n%v"

// assertFailed reports a failing assertion unless a negation is
// evaluating it.
func (t *T) assertFailed(assertion string, msg interface{}) {
	if t.quiet {
		return
	}
	t.Errorf(assertErr, assertion, msg)
}

// negate evaluates given assertion quietly and reports if it passed.
func (t *T) negate(assertion func() bool) bool {
	quiet := t.quiet
	t.quiet = true
	passed := assertion()
	t.quiet = quiet
	return passed
}

// trueErr default message for failed 'true'-assertion.
const trueErr = "expected given value to be true"

// True fails the procedure and returns false iff given value is not
// true; otherwise true is returned.
func (t *T) True(value bool) bool {
	if !value {
		t.assertFailed("true", trueErr)
		return false
	}
	return true
}

// falseErr default message for failed 'false'-assertion.
const falseErr = "expected given value to be false"

// False fails the procedure and returns false iff given value is not
// false; otherwise true is returned.
func (t *T) False(value bool) bool {
	if value {
		t.assertFailed("false", falseErr)
		return false
	}
	return true
}

const eqTypeErr = "types mismatch %T != %T"

// Eq fails the procedure with a diff and returns false if given values
// are not considered equal; otherwise true is returned.  a and b are
// considered equal if they are of the same type (or one is a string and
// the other a fmt.Stringer) and
//   - a == b in case of pointers,
//   - a.String() == b.String() in case of Stringer implementations,
//   - fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b) otherwise.
func (t *T) Eq(a, b interface{}) bool {
	differentTypes := fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b)
	if differentTypes && !isStringers(a, b) {
		t.assertFailed("equal: types", fmt.Sprintf(eqTypeErr, a, b))
		return false
	}

	if a != nil && reflect.ValueOf(a).Kind() == reflect.Ptr {
		if a != b {
			t.assertFailed("equal: pointer", fmt.Sprintf("%p != %p", a, b))
			return false
		}
		return true
	}

	if d := diff(toString(a), toString(b)); d != "" {
		t.assertFailed("equal: string-representations", d)
		return false
	}
	return true
}

func isStringers(a, b interface{}) bool {
	_, okA := a.(fmt.Stringer)
	_, okB := b.(fmt.Stringer)
	switch {
	case okA && okB:
		return true
	case okA:
		_, ok := b.(string)
		return ok
	case okB:
		_, ok := a.(string)
		return ok
	}
	return false
}

func diff(a, b string) string {
	if a == b {
		return ""
	}
	return cmp.Diff(a, b)
}

// StringRepresentation documents what a string representation of any
// type is:
//   - the string if it is of type string,
//   - the return value of String if the Stringer interface is
//     implemented,
//   - fmt.Sprintf("%v", value) in all other cases.
type StringRepresentation interface{}

func toString(value interface{}) string {
	switch value := value.(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// containsErr default message for failed 'Contains'-assertion.
const containsErr = "%s doesn't contain %s"

// Contains fails the procedure and returns false iff given value's
// string representation doesn't contain given sub-string; otherwise
// true is returned.
func (t *T) Contains(value StringRepresentation, sub string) bool {
	str := toString(value)
	if !strings.Contains(str, sub) {
		t.assertFailed("contains", fmt.Sprintf(containsErr, str, sub))
		return false
	}
	return true
}

// matchedErr default message for failed 'Matched'-assertion.
const matchedErr = "regexp\n'%s'\ndoesn't match\n'%s'"

// Matched fails the procedure and returns false iff given value's
// string representation isn't matched by given regular expression;
// otherwise true is returned.
func (t *T) Matched(value StringRepresentation, re string) bool {
	str := toString(value)
	if !regexp.MustCompile(re).MatchString(str) {
		t.assertFailed("matched", fmt.Sprintf(matchedErr, re, str))
		return false
	}
	return true
}

// errIsErr default message for failed 'ErrIs'-assertion.
const errIsErr = "given error doesn't wrap target-error"

// ErrIs fails the procedure and returns false iff given error doesn't
// wrap given target; otherwise true is returned.
func (t *T) ErrIs(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	t.assertFailed("error is",
		fmt.Sprintf("%s: %+v\n%+v", errIsErr, err, target))
	return false
}

// errMatchedErr default message for failed 'ErrMatched'-assertion.
const errMatchedErr = "given regexp '%s' doesn't match '%v'"

// ErrMatched fails the procedure and returns false iff given error is
// nil or its message isn't matched by given regular expression in
// which "%s" matches anything; otherwise true is returned.
func (t *T) ErrMatched(err error, re string) bool {
	re = strings.ReplaceAll(re, "%s", ".*?")
	if err == nil || !regexp.MustCompile(re).MatchString(err.Error()) {
		t.assertFailed("error matched", fmt.Sprintf(errMatchedErr, re, err))
		return false
	}
	return true
}

// panicsErr default message for failed 'Panics'-assertion.
const panicsErr = "given function doesn't panic"

// Panics fails the procedure and returns false iff given function
// doesn't panic; otherwise true is returned.
func (t *T) Panics(f func()) (hasPanicked bool) {
	defer func() {
		if r := recover(); r == nil {
			t.assertFailed("panics", panicsErr)
			hasPanicked = false
			return
		}
		hasPanicked = true
	}()
	f()
	return false
}

// Not implements the negations of [T]'s assertions.  Negated
// assertions are accessed through T's Not field, e.g.
//
//	t.Not.Contains(calculator.Log(), "error")
type Not struct{ t *T }

// True passes iff [T.True] with given value fails.
func (n Not) True(value bool) bool {
	if n.t.negate(func() bool { return n.t.True(value) }) {
		n.t.assertFailed("not-true", falseErr)
		return false
	}
	return true
}

// Eq passes iff [T.Eq] with given values fails.
func (n Not) Eq(a, b interface{}) bool {
	if n.t.negate(func() bool { return n.t.Eq(a, b) }) {
		n.t.assertFailed("not-equal", fmt.Sprintf("%v == %v", a, b))
		return false
	}
	return true
}

// notContainsErr default message for failed Not-'Contains'-assertion.
const notContainsErr = "\n'%s'\ndoes contain\n'%s'"

// Contains passes iff [T.Contains] with given arguments fails.
func (n Not) Contains(value StringRepresentation, sub string) bool {
	if n.t.negate(func() bool { return n.t.Contains(value, sub) }) {
		n.t.assertFailed("doesn't contain",
			fmt.Sprintf(notContainsErr, toString(value), sub))
		return false
	}
	return true
}

// notMatchedErr default message for failed Not-'Matched'-assertion.
const notMatchedErr = "regexp '%s'\nmatches '%s'"

// Matched passes iff [T.Matched] with given arguments fails.
func (n Not) Matched(value StringRepresentation, re string) bool {
	if n.t.negate(func() bool { return n.t.Matched(value, re) }) {
		n.t.assertFailed("doesn't match",
			fmt.Sprintf(notMatchedErr, re, toString(value)))
		return false
	}
	return true
}
