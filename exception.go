// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"runtime"
	"strconv"
	"strings"
)

// Exception is a structured error record with a source location and an
// optional causal chain.
//
// An Exception exclusively owns Parent and Child: destroying it destroys
// both. Parent is the cause this exception was raised from; Child is a
// follow-up exception raised while this one was being handled.
type Exception struct {
	Msg         Box[string] `yaml:"msg,omitempty"`
	Name        Box[string] `yaml:"name,omitempty"`
	Filename    Box[string] `yaml:"filename,omitempty"`
	Line        Box[uint]   `yaml:"line,omitempty"`
	LineContent Box[string] `yaml:"line_content,omitempty"`

	Parent *Exception `yaml:"parent,omitempty"`
	Child  *Exception `yaml:"child,omitempty"`

	pooled   bool
	released bool
}

// Exception names used by the runtime itself.
const (
	// RecursionError is raised in a context whose call depth exceeds the
	// arena's configured maximum.
	RecursionError = "RecursionError"
)

// NewException allocates an exception and stores the given fields.
// Ownership of parent and child, when non-nil, transfers to the new exception.
func NewException(msg, name, filename string, line uint, lineContent string, parent, child *Exception) *Exception {
	e := acquireException()
	e.Msg = Define(msg)
	e.Name = Define(name)
	e.Filename = Define(filename)
	e.Line = Define(line)
	e.LineContent = Define(lineContent)
	e.Parent = parent
	e.Child = child
	return e
}

// NewExceptionHere is NewException with the filename and line of its caller.
func NewExceptionHere(msg, name, lineContent string) *Exception {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return NewException(msg, name, "", 0, lineContent, nil, nil)
	}
	return NewException(msg, name, file, uint(line), lineContent, nil, nil)
}

// DestroyException releases exc together with its Parent and Child.
// A nil exc is a no-op. Destroying an exception twice panics.
func DestroyException(exc *Exception) {
	if exc == nil {
		return
	}
	parent, child := exc.Parent, exc.Child
	releaseException(exc)
	DestroyException(parent)
	DestroyException(child)
}

// DeclareException returns the declaration default for an Exception value.
func DeclareException() Box[Exception] {
	return Declare[Exception]()
}

// DefineException returns the definition default with unset children:
// the Exception itself is defined, its fields are declared only.
func DefineException() Box[Exception] {
	return Define(Exception{})
}

// DefineExceptionWithChildren returns the definition default whose fields
// are defined at their zero values as well.
func DefineExceptionWithChildren() Box[Exception] {
	return Define(Exception{
		Msg:         DefineZero[string](),
		Name:        DefineZero[string](),
		Filename:    DefineZero[string](),
		Line:        DefineZero[uint](),
		LineContent: DefineZero[string](),
	})
}

// Causes returns the causal chain: e first, then each Parent in turn,
// ending with the root cause.
func (e *Exception) Causes() []*Exception {
	var chain []*Exception
	for c := e; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	return chain
}

// Root returns the deepest cause of e.
func (e *Exception) Root() *Exception {
	c := e
	for c.Parent != nil {
		c = c.Parent
	}
	return c
}

// Clone returns a deep copy of e that shares nothing with it.
// The copy is not pooled.
func (e *Exception) Clone() *Exception {
	if e == nil {
		return nil
	}
	return &Exception{
		Msg:         e.Msg,
		Name:        e.Name,
		Filename:    e.Filename,
		Line:        e.Line,
		LineContent: e.LineContent,
		Parent:      e.Parent.Clone(),
		Child:       e.Child.Clone(),
	}
}

// Snapshot returns e by value in a defined Box. Links are deep copies, so
// the snapshot stays valid after e is destroyed.
func (e *Exception) Snapshot() Box[Exception] {
	if e == nil {
		return DeclareException()
	}
	return Define(*e.Clone())
}

// Equal reports whether the five scalar fields of e and o are equal.
// Causal links are not compared.
func (e Exception) Equal(o Exception) bool {
	return e.Msg.Equal(o.Msg) &&
		e.Name.Equal(o.Name) &&
		e.Filename.Equal(o.Filename) &&
		e.Line.Equal(o.Line) &&
		e.LineContent.Equal(o.LineContent)
}

// Location returns "filename:line", or "" when no filename is set.
func (e *Exception) Location() string {
	file := e.Filename.Value()
	if file == "" {
		return ""
	}
	return file + ":" + strconv.FormatUint(uint64(e.Line.Value()), 10)
}

func (e *Exception) Error() string {
	var b strings.Builder
	if name := e.Name.Value(); name != "" {
		b.WriteString(name)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg.Value())
	return b.String()
}

// Unwrap returns the Parent cause, so errors.Is and errors.As walk the chain.
func (e *Exception) Unwrap() error {
	if e.Parent == nil {
		return nil
	}
	return e.Parent
}
