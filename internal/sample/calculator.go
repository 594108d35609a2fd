// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sample provides the tested code and the test cases the xunit
// command runs: a calculator and string helpers along with cases
// exercising passing, failing, erroring, repeated, disabled and
// conditional procedures.
package sample

import "errors"

// ErrDivisionByZero is returned by Calculator.Divide for a zero
// divisor.
var ErrDivisionByZero = errors.New("sample: division by zero")

// Calculator does integer arithmetic and remembers its last result.
type Calculator struct {
	last int
}

// NewCalculator returns a calculator whose last result is zero.
func NewCalculator() *Calculator { return &Calculator{} }

// Last returns the result of the last operation.
func (c *Calculator) Last() int { return c.last }

func (c *Calculator) Add(a, b int) int {
	c.last = a + b
	return c.last
}

func (c *Calculator) Subtract(a, b int) int {
	c.last = a - b
	return c.last
}

func (c *Calculator) Multiply(a, b int) int {
	c.last = a * b
	return c.last
}

// Divide returns a divided by b truncated toward zero.
func (c *Calculator) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	c.last = a / b
	return c.last, nil
}
