// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sample

import (
	"os"
	"path/filepath"

	"github.com/slukits/xunit"
)

// CalculatorCase checks an addition once with the right and once with
// a wrong expectation, i.e. it reports one passed and one failed
// procedure.
type CalculatorCase struct {
	xunit.Case
	calc *Calculator
}

func (c *CalculatorCase) SetUp(t *xunit.T) { c.calc = NewCalculator() }

func (c *CalculatorCase) TestAdd_expecting_30(t *xunit.T) {
	t.Eq(30, c.calc.Add(10, 20))
}

func (c *CalculatorCase) TestAdd_expecting_31(t *xunit.T) {
	t.Eq(31, c.calc.Add(10, 20))
}

// BrokenFixtureCase's setup reads a fixture file which doesn't exist,
// i.e. its procedure errors without being executed.
type BrokenFixtureCase struct {
	xunit.Case
	fixture []byte
}

func (c *BrokenFixtureCase) SetUp(t *xunit.T) {
	bb, err := os.ReadFile(filepath.Join(
		t.TempDir(), "missing", "fixture.json"))
	t.FatalOn(err)
	c.fixture = bb
}

func (c *BrokenFixtureCase) TestAdd_from_fixture(t *xunit.T) {
	t.True(len(c.fixture) > 0)
}

// ArithmeticCase covers the calculator's remaining operations.
type ArithmeticCase struct {
	xunit.Case
	calc *Calculator
}

func (c *ArithmeticCase) SetUp(t *xunit.T) { c.calc = NewCalculator() }

func (c *ArithmeticCase) TearDown(t *xunit.T) {
	t.Logf("last result: %d", c.calc.Last())
}

func (c *ArithmeticCase) TestSubtract(t *xunit.T) {
	t.Eq(-10, c.calc.Subtract(10, 20))
}

func (c *ArithmeticCase) TestMultiply(t *xunit.T) {
	t.Eq(200, c.calc.Multiply(10, 20))
}

func (c *ArithmeticCase) TestDivide(t *xunit.T) {
	got, err := c.calc.Divide(20, 10)
	t.FatalOn(err)
	t.Eq(2, got)
}

func (c *ArithmeticCase) TestDivide_by_zero(t *xunit.T) {
	_, err := c.calc.Divide(20, 0)
	t.ErrIs(err, ErrDivisionByZero)
}

// palindromes are checked by StringsCase's repeated procedure.
var palindromes = []string{"otto", "A man, a plan, a canal: Panama", "12321"}

// StringsCase has a repeated, a disabled and a conditionally enabled
// procedure.
type StringsCase struct{ xunit.Case }

func (c *StringsCase) Annotate(a *xunit.Annotations) {
	a.CaseName("string helpers").
		DisplayName("TestReverse", "reverses runes").
		Repeat("TestPalindromes", len(palindromes)).
		Disable("TestGrapheme_clusters", "combining characters are reversed separately").
		EnableIf("TestUnix_line_endings", xunit.OnOS(
			"linux", "darwin", "freebsd", "openbsd", "netbsd"))
}

func (c *StringsCase) TestReverse(t *xunit.T) {
	t.Eq("olleh", Reverse("hello"))
	t.Eq("界世", Reverse("世界"))
}

func (c *StringsCase) TestPalindromes(t *xunit.T) {
	i, _ := t.Repetition()
	t.True(IsPalindrome(palindromes[i-1]))
}

func (c *StringsCase) TestGrapheme_clusters(t *xunit.T) {
	t.Eq("e\u0301a", Reverse("ae\u0301"))
}

func (c *StringsCase) TestUnix_line_endings(t *xunit.T) {
	t.Eq("\nb\na", Reverse("a\nb\n"))
}

// CounterCase's procedures intentionally share their case instance
// and depend on running in declaration order.
type CounterCase struct {
	xunit.Case
	n int
}

func (c *CounterCase) Annotate(a *xunit.Annotations) {
	a.Lifecycle(xunit.PerCase).
		Priority("Test1_increments", 1).
		Priority("Test2_increments_again", 2).
		Priority("Test3_counts_two", 3)
}

func (c *CounterCase) Test1_increments(t *xunit.T) { c.n++ }

func (c *CounterCase) Test2_increments_again(t *xunit.T) { c.n++ }

func (c *CounterCase) Test3_counts_two(t *xunit.T) { t.Eq(2, c.n) }

// Notes returns the cases of the introductory example: one passing,
// one failing and one erroring procedure.
func Notes() []xunit.CaseEmbedder {
	return []xunit.CaseEmbedder{&CalculatorCase{}, &BrokenFixtureCase{}}
}

// All returns all sample cases.
func All() []xunit.CaseEmbedder {
	return append(Notes(),
		&ArithmeticCase{}, &StringsCase{}, &CounterCase{})
}

// Sets maps the names of the sample sets to their cases.
var Sets = map[string]func() []xunit.CaseEmbedder{
	"notes": Notes,
	"all":   All,
}
