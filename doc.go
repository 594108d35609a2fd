// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xunit is a minimal test harness in the tradition of the
// xUnit family: a runner discovers the procedures of test cases,
// executes each of them between its case's setup and tear-down and
// classifies the outcome:
//
//   - Passed: all expectations held,
//   - Failed: an expectation was checked and did not hold,
//   - Error: anything else went wrong, e.g. a panic or a failing
//     setup; i.e. the test itself is broken rather than the tested
//     code.
//
// The outcomes are tallied by an [Accumulator] whose total always
// equals passed + failed + errored.
//
// A case is a pointer to a struct embedding [Case].  Its procedures
// are the exported methods with the prefix "Test" (see
// [Config].Prefix) taking a single *T argument:
//
//	import "github.com/slukits/xunit"
//
//	type Calculator struct {
//	    xunit.Case
//	    calc *sample.Calculator
//	}
//
//	func (c *Calculator) SetUp(t *xunit.T) { c.calc = sample.New() }
//
//	func (c *Calculator) TestAdd(t *xunit.T) {
//	    t.Eq(30, c.calc.Add(10, 20))
//	}
//
//	func main() {
//	    rp, err := xunit.NewRunner(xunit.Config{}).Run(&Calculator{})
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(rp.Counts)
//	}
//
// Optional hooks are recognized by their names: SetUp and TearDown run
// before respectively after every procedure, Init and Finalize (taking
// an *S) before respectively after all procedures of a case.  A
// TearDown runs even if its procedure failed or faulted but not if the
// SetUp failed.
//
// By default every procedure runs on a fresh instance of its case
// ([PerProcedure]), i.e. procedures can't influence each other through
// the case's fields.  A fresh instance is a shallow copy of the
// supplied instance after its Init ran unless the case is a [Factory].  Cases whose procedures intentionally share state
// may opt in to [PerCase] through their annotations (see [Annotator])
// and combine it with a deterministic [Order].
//
// Procedures are executed strictly one after another.  Each hook and
// procedure runs on its own goroutine which the runner waits for; this
// lets T.FailNow stop a procedure like testing.T.FailNow does.
//
// Runs can be mapped onto go test sub-tests by [Test]:
//
//	func TestCalculator(t *testing.T) { xunit.Test(t, &Calculator{}) }
//
// while [Listener] implementations report progress and results, see
// the packages pkg/report and pkg/metrics.
package xunit
