// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/slukits/xunit/internal/sample"
	"github.com/slukits/xunit/pkg/config"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const EnvVarPrefix = "XUNIT"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

const (
	ConfigFlag     = "config"
	SetFlag        = "set"
	PrefixFlag     = "prefix"
	OrderFlag      = "order"
	SeedFlag       = "seed"
	LifecycleFlag  = "lifecycle"
	RunFlag        = "run"
	NamesFlag      = "names"
	FormatFlag     = "format"
	ColorFlag      = "color"
	MetricsOutFlag = "metrics-out"
	LogLevelFlag   = "log-level"
	LogFormatFlag  = "log-format"
)

// flags returns new instances of the command line flags, i.e. each
// command gets its own.
func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			EnvVars: prefixEnvVar("CONFIG"),
			Usage:   "Path to a YAML configuration file (eg. 'xunit.yaml')",
		},
		&cli.StringFlag{
			Name:    SetFlag,
			Value:   "all",
			EnvVars: prefixEnvVar("SET"),
			Usage:   "Set of bundled sample cases to run: " + setNames(),
		},
		&cli.StringFlag{
			Name:    PrefixFlag,
			EnvVars: prefixEnvVar("PREFIX"),
			Usage:   "Method name prefix identifying procedures (default 'Test')",
		},
		&cli.StringFlag{
			Name:    OrderFlag,
			EnvVars: prefixEnvVar("ORDER"),
			Usage:   "Procedure order: default, declaration, name, priority or random",
		},
		&cli.Int64Flag{
			Name:    SeedFlag,
			EnvVars: prefixEnvVar("SEED"),
			Usage:   "Seed of the random order; 0 seeds from the clock",
		},
		&cli.StringFlag{
			Name:    LifecycleFlag,
			EnvVars: prefixEnvVar("LIFECYCLE"),
			Usage:   "Case instance lifecycle: per-procedure or per-case",
		},
		&cli.StringFlag{
			Name:    RunFlag,
			EnvVars: prefixEnvVar("RUN"),
			Usage:   "Regular expression selecting procedures by 'Case/Procedure'",
		},
		&cli.StringFlag{
			Name:    NamesFlag,
			EnvVars: prefixEnvVar("NAMES"),
			Usage:   "Display names: standard or underscores",
		},
		&cli.StringFlag{
			Name:    FormatFlag,
			EnvVars: prefixEnvVar("FORMAT"),
			Usage:   "Report format: dots, table or json",
		},
		&cli.BoolFlag{
			Name:    ColorFlag,
			EnvVars: prefixEnvVar("COLOR"),
			Usage:   "Color the report",
		},
		&cli.StringFlag{
			Name:    MetricsOutFlag,
			EnvVars: prefixEnvVar("METRICS_OUT"),
			Usage:   "Write prometheus metrics of the run to given file",
		},
		&cli.StringFlag{
			Name:    LogLevelFlag,
			Value:   "warn",
			EnvVars: prefixEnvVar("LOG_LEVEL"),
			Usage:   "Log level: trace, debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:    LogFormatFlag,
			Value:   "text",
			EnvVars: prefixEnvVar("LOG_FORMAT"),
			Usage:   "Log format: text or json",
		},
	}
}

// fileFromFlags collects the set configuration flags.
func fileFromFlags(c *cli.Context) *config.File {
	f := &config.File{
		Prefix:    str(c, PrefixFlag),
		Order:     str(c, OrderFlag),
		Seed:      lookup(c, SeedFlag).Int64(SeedFlag),
		Lifecycle: str(c, LifecycleFlag),
		Run:       str(c, RunFlag),
		Names:     str(c, NamesFlag),
		Format:    str(c, FormatFlag),
	}
	if cc := lookup(c, ColorFlag); cc.IsSet(ColorFlag) {
		colored := cc.Bool(ColorFlag)
		f.Color = &colored
	}
	return f
}

// lookup returns the innermost context of c's lineage the flag with
// given name was set on, i.e. flags given before a command are found as
// well as the command's own.  Without such a context c is returned.
func lookup(c *cli.Context, name string) *cli.Context {
	for _, cc := range c.Lineage() {
		if cc.IsSet(name) {
			return cc
		}
	}
	return c
}

func str(c *cli.Context, name string) string {
	return lookup(c, name).String(name)
}

func setNames() string {
	nn := maps.Keys(sample.Sets)
	slices.Sort(nn)
	return strings.Join(nn, ", ")
}
