// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"io"

	"github.com/slukits/xunit"
)

// JSON writes the report of a finished run as indented JSON document.
type JSON struct {
	xunit.NopListener
	w   io.Writer
	err error
}

// NewJSON creates a JSON listener writing to given writer.
func NewJSON(w io.Writer) *JSON { return &JSON{w: w} }

// Err returns the error of the last write if any.
func (j *JSON) Err() error { return j.err }

type jsonResult struct {
	xunit.Result
	Error string `json:"error,omitempty"`
}

type jsonCase struct {
	xunit.CaseReport
	Error string `json:"error,omitempty"`
}

type jsonReport struct {
	*xunit.Report
	Results  []jsonResult `json:"results"`
	Cases    []jsonCase   `json:"cases"`
	Duration string       `json:"duration"`
	Status   string       `json:"status"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (j *JSON) RunFinished(rp *xunit.Report) {
	doc := jsonReport{
		Report:   rp,
		Results:  []jsonResult{},
		Cases:    []jsonCase{},
		Duration: rp.Duration().String(),
		Status:   status(runStatus(rp.Counts)),
	}
	for _, r := range rp.Results {
		doc.Results = append(doc.Results,
			jsonResult{Result: r, Error: errString(r.Err)})
	}
	for _, c := range rp.Cases {
		doc.Cases = append(doc.Cases,
			jsonCase{CaseReport: c, Error: errString(c.Err)})
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	j.err = enc.Encode(doc)
}
