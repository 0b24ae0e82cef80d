// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frame is one entry of a report's traceback.
type Frame struct {
	Function  string `yaml:"function"`
	Depth     int    `yaml:"depth"`
	ArgAmount uint   `yaml:"args"`
	Threaded  bool   `yaml:"threaded,omitempty"`
}

// Report describes a failure seen from a failing context: where it was
// observed, where it was raised, the call path between them, and a copy of
// the exception with its causes. A Report shares nothing with the arena.
type Report struct {
	Function string `yaml:"function"`
	Origin   string `yaml:"origin"`
	// Traceback runs from the observing context down to the origin.
	Traceback []Frame    `yaml:"traceback"`
	Exception *Exception `yaml:"exception"`
}

// NewReport builds a report for ctx. It returns false when ctx is not failing.
func NewReport(ctx Ctx) (*Report, bool) {
	f := FailureOf(ctx)
	if f == nil {
		return nil, false
	}
	rep := &Report{
		Function:  ctx.Identifier().Value(),
		Exception: f.Exception.Clone(),
	}
	if rep.Exception == nil {
		rep.Exception = &Exception{}
	}

	var path []Frame
	for c := f.Origin; c.Valid(); c = c.CallOrigin() {
		r := c.rec()
		path = append(path, Frame{
			Function:  r.identifier.Value(),
			Depth:     r.depth,
			ArgAmount: r.argAmount.Value(),
			Threaded:  r.isThreaded.Value(),
		})
		if c == ctx {
			break
		}
	}
	if len(path) > 0 {
		rep.Origin = path[0].Function
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	rep.Traceback = path
	return rep, true
}

// String renders the report as a traceback, most recent call last.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for _, f := range r.Traceback {
		fmt.Fprintf(&b, "  in %s\n", f.Function)
	}
	causes := r.Exception.Causes()
	for i := len(causes) - 1; i >= 0; i-- {
		e := causes[i]
		if loc := e.Location(); loc != "" {
			fmt.Fprintf(&b, "  File %q, line %d\n", e.Filename.Value(), e.Line.Value())
		}
		if lc := e.LineContent.Value(); lc != "" {
			fmt.Fprintf(&b, "    %s\n", lc)
		}
		b.WriteString(e.Error())
		b.WriteByte('\n')
		if i > 0 {
			b.WriteString("\nDuring handling of the above exception, another exception occurred:\n\n")
		}
	}
	return b.String()
}

// YAML encodes the report as a YAML document.
func (r *Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("report: encode: %w", err)
	}
	return data, nil
}
