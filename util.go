// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xunit

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// OnOS enables a procedure only on given operating systems, e.g.:
//
//	a.EnableIf("TestSymlinks", xunit.OnOS("linux", "darwin"))
func OnOS(oss ...string) Condition {
	return func() (bool, string) {
		for _, goos := range oss {
			if goos == runtime.GOOS {
				return true, ""
			}
		}
		return false, fmt.Sprintf(
			"disabled on %s: enabled on %s",
			runtime.GOOS, strings.Join(oss, ", "))
	}
}

// EnvEquals enables a procedure only if given environment variable
// has given value.
func EnvEquals(key, value string) Condition {
	return func() (bool, string) {
		if os.Getenv(key) == value {
			return true, ""
		}
		return false, fmt.Sprintf("%s != %q", key, value)
	}
}

// EnvSet enables a procedure only if given environment variable is
// set.
func EnvSet(key string) Condition {
	return func() (bool, string) {
		if _, ok := os.LookupEnv(key); ok {
			return true, ""
		}
		return false, fmt.Sprintf("%s not set", key)
	}
}

// NotIf negates given condition reporting given reason if the
// negated condition holds.
func NotIf(c Condition, reason string) Condition {
	return func() (bool, string) {
		if enabled, _ := c(); enabled {
			return false, reason
		}
		return true, ""
	}
}

// Fixtures stores a fixture per procedure execution.  It lets [PerCase]
// cases, whose procedures share one instance, keep what a SetUp
// prepares apart from what other procedures prepared:
//
//	type Files struct {
//	    xunit.Case
//	    fx xunit.Fixtures
//	}
//
//	func (c *Files) SetUp(t *xunit.T) { c.fx.Set(t, t.TempDir()) }
//
//	func (c *Files) TearDown(t *xunit.T) { c.fx.Del(t) }
//
//	func (c *Files) TestWrite(t *xunit.T) {
//	    dir := c.fx.Get(t).(string)
//	    ...
//	}
//
// A Fixtures instance must not be copied after its first use.
type Fixtures struct {
	mutex sync.Mutex
	ff    map[*T]interface{}
}

// Set maps given procedure execution to given fixture.
func (ff *Fixtures) Set(t *T, fixture interface{}) {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	if ff.ff == nil {
		ff.ff = map[*T]interface{}{}
	}
	ff.ff[t] = fixture
}

// Get returns the fixture of given procedure execution.
func (ff *Fixtures) Get(t *T) interface{} {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	return ff.ff[t]
}

// Del removes the fixture of given procedure execution and returns it.
func (ff *Fixtures) Del(t *T) interface{} {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	fixture := ff.ff[t]
	delete(ff.ff, t)
	return fixture
}

// Len returns the number of stored fixtures.
func (ff *Fixtures) Len() int {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	return len(ff.ff)
}
