// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import "testing"

// Test runs given cases with a default runner reporting each case as
// sub-test of given testing.T instance and each procedure repetition
// as sub-test of its case:
//
//	type Calculator struct{ xunit.Case }
//
//	func (c *Calculator) TestAdd(t *xunit.T) { t.Eq(30, Add(10, 20)) }
//
//	func TestCalculator(t *testing.T) {
//	    t.Parallel()
//	    xunit.Test(t, &Calculator{})
//	}
func Test(t *testing.T, cases ...CaseEmbedder) *Report {
	t.Helper()
	return NewRunner(Config{}).Test(t, cases...)
}

// Test runs given cases like [Runner.Run] mapping the run onto
// sub-tests of given testing.T instance: Failed and Error results fail
// their sub-test, Skipped results skip it.  Invalid cases fatal given
// testing.T instance.
func (r *Runner) Test(t *testing.T, cases ...CaseEmbedder) *Report {
	t.Helper()
	dd, rn, err := r.start(cases)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range dd {
		t.Run(d.display, func(ct *testing.T) {
			cr := r.runCase(d, rn, func(res Result) {
				ct.Run(res.Name, func(pt *testing.T) { goTestReport(pt, res) })
			})
			for _, l := range cr.Logs {
				ct.Log(l)
			}
			if cr.Err != nil {
				ct.Errorf("%s: %v", d.display, cr.Err)
			}
		})
	}
	return r.finish(rn)
}

func goTestReport(t *testing.T, res Result) {
	t.Helper()
	for _, l := range res.Logs {
		t.Log(l)
	}
	switch res.Outcome {
	case Failed:
		t.Error(res.Message())
	case Error:
		t.Errorf("error in %s: %s", res.Phase, res.Message())
	case Skipped:
		t.Skip(res.SkipReason)
	}
}
