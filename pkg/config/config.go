// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config reads xunit run configurations from YAML documents:
//
//	prefix: Test
//	order: priority
//	lifecycle: per-procedure
//	run: ^Calculator
//	names: underscores
//	format: table
//	color: true
//
// All keys are optional.  A File's settings may be overwritten by
// another File, e.g. with the values of command line flags, before
// they are applied to an xunit.Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/slukits/xunit"
	"gopkg.in/yaml.v3"
)

// File holds the settings of a configuration document.
type File struct {
	Prefix    string `yaml:"prefix,omitempty"`
	Order     string `yaml:"order,omitempty"`
	Seed      int64  `yaml:"seed,omitempty"`
	Lifecycle string `yaml:"lifecycle,omitempty"`
	Run       string `yaml:"run,omitempty"`
	Names     string `yaml:"names,omitempty"`
	Format    string `yaml:"format,omitempty"`

	// Color is nil if not configured.
	Color *bool `yaml:"color,omitempty"`
}

// Load reads the configuration file at given path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return cfg, nil
}

// Parse decodes a configuration document; unknown keys are an error.
// An empty document is an empty configuration.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return f, nil
}

// Merge overwrites the settings of f with the set settings of o.
func (f *File) Merge(o *File) *File {
	if o == nil {
		return f
	}
	if o.Prefix != "" {
		f.Prefix = o.Prefix
	}
	if o.Order != "" {
		f.Order = o.Order
	}
	if o.Seed != 0 {
		f.Seed = o.Seed
	}
	if o.Lifecycle != "" {
		f.Lifecycle = o.Lifecycle
	}
	if o.Run != "" {
		f.Run = o.Run
	}
	if o.Names != "" {
		f.Names = o.Names
	}
	if o.Format != "" {
		f.Format = o.Format
	}
	if o.Color != nil {
		f.Color = o.Color
	}
	return f
}

// Colored reports if colored output is configured; defaults to given
// value.
func (f *File) Colored(dflt bool) bool {
	if f.Color == nil {
		return dflt
	}
	return *f.Color
}

// Apply validates the settings of f and sets them in given runner
// configuration.  Format and Color are left to the caller choosing
// the listeners.
func (f *File) Apply(cfg *xunit.Config) error {
	order, err := xunit.ParseOrder(f.Order)
	if err != nil {
		return fmt.Errorf("config: order: %w", err)
	}
	lifecycle, err := xunit.ParseLifecycle(f.Lifecycle)
	if err != nil {
		return fmt.Errorf("config: lifecycle: %w", err)
	}
	names, err := xunit.ParseNames(f.Names)
	if err != nil {
		return fmt.Errorf("config: names: %w", err)
	}
	var run *regexp.Regexp
	if f.Run != "" {
		if run, err = regexp.Compile(f.Run); err != nil {
			return fmt.Errorf("config: run: %w", err)
		}
	}
	cfg.Prefix, cfg.Order, cfg.Seed = f.Prefix, order, f.Seed
	cfg.Lifecycle, cfg.Names, cfg.Run = lifecycle, names, run
	return nil
}

// Write encodes f as YAML document to given writer.
func (f *File) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}
