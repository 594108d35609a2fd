// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/slukits/xunit"
	"github.com/slukits/xunit/internal/sample"
	"github.com/slukits/xunit/pkg/config"
	"github.com/slukits/xunit/pkg/metrics"
	"github.com/slukits/xunit/pkg/report"
	"github.com/urfave/cli/v2"
)

// newLogger configures a logger writing to the app's error writer.
func newLogger(c *cli.Context) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(c.App.ErrWriter)
	level, err := logrus.ParseLevel(str(c, LogLevelFlag))
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	switch str(c, LogFormatFlag) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", str(c, LogFormatFlag))
	}
	return log, nil
}

// setup resolves the configuration of a command from its flags and an
// optional configuration file; flags take precedence.
func setup(c *cli.Context) (*config.File, xunit.Config, []xunit.CaseEmbedder, error) {
	log, err := newLogger(c)
	if err != nil {
		return nil, xunit.Config{}, nil, err
	}
	file := &config.File{}
	if path := str(c, ConfigFlag); path != "" {
		if file, err = config.Load(path); err != nil {
			return nil, xunit.Config{}, nil, err
		}
		log.WithField("path", path).Debug("loaded configuration")
	}
	file.Merge(fileFromFlags(c))

	cfg := xunit.Config{Log: log}
	if err := file.Apply(&cfg); err != nil {
		return nil, xunit.Config{}, nil, err
	}
	set, ok := sample.Sets[str(c, SetFlag)]
	if !ok {
		return nil, xunit.Config{}, nil, fmt.Errorf(
			"unknown sample set %q (want one of %s)",
			str(c, SetFlag), setNames())
	}
	return file, cfg, set(), nil
}

func runCmd(c *cli.Context) error {
	file, cfg, cases, err := setup(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	l, err := report.New(file.Format, c.App.Writer, file.Colored(false))
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	cfg.Listeners = append(cfg.Listeners, l)

	reg := prometheus.NewRegistry()
	if str(c, MetricsOutFlag) != "" {
		cfg.Listeners = append(cfg.Listeners, metrics.New(reg))
	}

	rp, err := xunit.NewRunner(cfg).Run(cases...)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	cfg.Log.WithFields(logrus.Fields{
		"run":   rp.RunID,
		"total": rp.Counts.Total,
		"ok":    rp.Counts.OK(),
	}).Info("run finished")

	if path := str(c, MetricsOutFlag); path != "" {
		if err := metrics.WriteFile(path, reg); err != nil {
			return cli.Exit(err.Error(), exitError)
		}
	}
	switch {
	case rp.Counts.Errored > 0:
		return cli.Exit("", exitError)
	case rp.Counts.Failed > 0:
		return cli.Exit("", exitFailed)
	}
	return nil
}

func listCmd(c *cli.Context) error {
	_, cfg, cases, err := setup(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	pp, err := xunit.NewRunner(cfg).Plan(cases...)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	for _, p := range pp {
		line := p.CaseName + "/" + p.Name
		if p.Disabled != "" {
			line += " (disabled: " + p.Disabled + ")"
		}
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}
