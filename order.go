// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	ErrUnknownOrder     = errors.New("xunit: unknown order")
	ErrUnknownLifecycle = errors.New("xunit: unknown lifecycle")
)

// Order determines the execution order of a case's procedures.
// Procedures are meant to be independent of each other; a
// deterministic order is only needed for the rare case of procedures
// intentionally sharing state (see [PerCase]).
type Order uint8

const (
	// OrderDefault leaves the order unspecified.
	OrderDefault Order = iota

	// OrderDeclaration runs procedures in the order their methods are
	// declared in the source.
	OrderDeclaration

	// OrderName runs procedures sorted by their method names.
	OrderName

	// OrderPriority runs procedures ascending by their annotated
	// priority; procedures without priority run last.  Equal
	// priorities run in declaration order.
	OrderPriority

	// OrderRandom shuffles procedures using the configured seed.
	OrderRandom
)

var orderNames = [...]string{
	"default", "declaration", "name", "priority", "random"}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("order(%d)", o)
}

// MarshalText renders an order by its name.
func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an order name.
func (o *Order) UnmarshalText(text []byte) error {
	parsed, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOrder maps a case insensitive order name to its Order.  The
// empty string maps to OrderDefault.
func ParseOrder(s string) (Order, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OrderDefault, nil
	}
	for i, n := range orderNames {
		if n == s {
			return Order(i), nil
		}
	}
	return OrderDefault, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Lifecycle determines how case instances are bound to procedures.
type Lifecycle uint8

const (
	// PerProcedure runs every procedure on a fresh case instance.
	PerProcedure Lifecycle = iota

	// PerCase runs all procedures of a case on the one instance given
	// to the runner, i.e. procedures may share state.
	PerCase
)

var lifecycleNames = [...]string{"per-procedure", "per-case"}

func (l Lifecycle) String() string {
	if int(l) < len(lifecycleNames) {
		return lifecycleNames[l]
	}
	return fmt.Sprintf("lifecycle(%d)", l)
}

// ParseLifecycle maps a lifecycle name to its Lifecycle.  The empty
// string maps to PerProcedure.
func ParseLifecycle(s string) (Lifecycle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PerProcedure, nil
	}
	for i, n := range lifecycleNames {
		if n == s {
			return Lifecycle(i), nil
		}
	}
	return PerProcedure, fmt.Errorf("%w: %q", ErrUnknownLifecycle, s)
}

// unprioritized is the priority of procedures without annotated
// priority.
const unprioritized = math.MaxInt32

func byDeclaration(a, b *procedure) bool {
	if (a.line == 0) != (b.line == 0) {
		return b.line == 0
	}
	if a.file != b.file {
		return a.file < b.file
	}
	if a.line != b.line {
		return a.line < b.line
	}
	return a.name < b.name
}

// sort orders given procedures; rnd is only used by OrderRandom.
func (o Order) sort(pp []*procedure, rnd *rand.Rand) {
	switch o {
	case OrderDeclaration:
		slices.SortStableFunc(pp, byDeclaration)
	case OrderName:
		slices.SortStableFunc(pp, func(a, b *procedure) bool {
			return a.name < b.name
		})
	case OrderPriority:
		slices.SortStableFunc(pp, byDeclaration)
		slices.SortStableFunc(pp, func(a, b *procedure) bool {
			return a.priority < b.priority
		})
	case OrderRandom:
		rnd.Shuffle(len(pp), func(i, j int) { pp[i], pp[j] = pp[j], pp[i] })
	}
}
