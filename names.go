// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownNames = errors.New("xunit: unknown display names")

// DisplayNames generates the names under which cases and procedures
// are reported.  Annotated display names take precedence.
type DisplayNames interface {

	// Case returns the display name of a case with given type name.
	Case(typeName string) string

	// Procedure returns the display name of given procedure method
	// which is discovered by given prefix.
	Procedure(prefix, method string) string
}

// StandardNames reports cases and procedures by their type and method
// names.
type StandardNames struct{}

func (StandardNames) Case(typeName string) string { return typeName }

func (StandardNames) Procedure(_, method string) string { return method }

// UnderscoreNames turns method names into sentences: the discovery
// prefix is removed and underscores become spaces, e.g.
// "TestAdds_two_numbers" is reported as "Adds two numbers".
type UnderscoreNames struct{}

func (UnderscoreNames) Case(typeName string) string {
	return strings.ReplaceAll(typeName, "_", " ")
}

func (UnderscoreNames) Procedure(prefix, method string) string {
	name := strings.TrimLeft(strings.TrimPrefix(method, prefix), "_")
	if name == "" {
		return method
	}
	return strings.ReplaceAll(name, "_", " ")
}

// ParseNames maps "standard" (or "") and "underscores" to their
// display name generators.
func ParseNames(s string) (DisplayNames, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return StandardNames{}, nil
	case "underscores":
		return UnderscoreNames{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNames, s)
}

// repetitionName decorates a repeated procedure's display name.
func repetitionName(name string, rep, reps int) string {
	if reps < 2 {
		return name
	}
	return fmt.Sprintf("%s [%d/%d]", name, rep, reps)
}
