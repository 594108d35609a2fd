// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

// TrueErr default message for failed 'true'-assertion.
const TrueErr = trueErr

// ContainsErr default message for failed 'Contains'-assertion.
const ContainsErr = containsErr

// ErrIsErr default message for failed "ErrIs"-assertion
const ErrIsErr = errIsErr

// NewT creates a T which isn't run by a runner.
func NewT(name string) *T { return newT(name, 1, 1, nil) }

// Messages returns the reported mismatches of given T.
func Messages(t *T) []string { return t.messages }
