// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Calling convention.
//
// Every participating function takes a Ctx first and returns a Box of its
// result type. On an unhandled failure it returns the declaration default of
// that type, and the failing context is the only reliable failure signal.

// InvokeWithContext creates a child context of parent named name, calls fn
// with it, and returns fn's result together with the child for inspection.
// The child stays allocated until the tree is cleaned up.
//
// When the arena has a MaxDepth and the child would exceed it, fn is not
// called: a RecursionError is raised on the child instead.
func InvokeWithContext[T any](parent Ctx, name string, argAmount uint, isThreaded bool, fn func(Ctx) Box[T]) (Box[T], Ctx) {
	a := parent.arena
	parent.rec()
	child := a.NewContext(
		Define(name),
		Define(false),
		Define(argAmount),
		Define(isThreaded),
		Ctx{},
		parent,
		nil,
	)
	if limit, ok := a.cfg.MaxDepth.Get(); ok && uint(child.Depth()) > limit {
		exc := NewException(
			fmt.Sprintf("maximum call depth %d exceeded", limit),
			RecursionError, "", 0, name, nil, nil)
		return RaiseReturn[T](child, exc), child
	}
	return fn(child), child
}

// Invoke calls fn in a fresh child of parent. The child's identifier is fn's
// function name and it inherits parent's threading flag.
func Invoke[T any](parent Ctx, fn func(Ctx) Box[T]) (Box[T], Ctx) {
	return InvokeWithContext(parent, funcName(fn), 0, parent.IsThreaded().Value(), fn)
}

// Invoke1 is Invoke for a function of one argument.
func Invoke1[A, T any](parent Ctx, fn func(Ctx, A) Box[T], a A) (Box[T], Ctx) {
	return InvokeWithContext(parent, funcName(fn), 1, parent.IsThreaded().Value(), func(c Ctx) Box[T] {
		return fn(c, a)
	})
}

// Invoke2 is Invoke for a function of two arguments.
func Invoke2[A, B, T any](parent Ctx, fn func(Ctx, A, B) Box[T], a A, b B) (Box[T], Ctx) {
	return InvokeWithContext(parent, funcName(fn), 2, parent.IsThreaded().Value(), func(c Ctx) Box[T] {
		return fn(c, a, b)
	})
}

// Invoke3 is Invoke for a function of three arguments.
func Invoke3[A, B, C, T any](parent Ctx, fn func(Ctx, A, B, C) Box[T], a A, b B, c C) (Box[T], Ctx) {
	return InvokeWithContext(parent, funcName(fn), 3, parent.IsThreaded().Value(), func(ctx Ctx) Box[T] {
		return fn(ctx, a, b, c)
	})
}

// Forward relays a failing child into parent without unwinding parent.
// It copies the failure flag, the exception, and the failure origin: the
// child's own origin when it has one, otherwise the child itself, so the
// origin is always the frame that raised.
// Forward reports whether child was failing.
func Forward(parent, child Ctx) bool {
	cr := child.rec()
	if !cr.isFailure.Value() {
		return false
	}
	origin := cr.failureOrigin
	if origin.IsNil() {
		origin = child
	}
	a := parent.arena
	if a.setFailure(parent, parent.rec(), cr.exception, origin) {
		a.logger.Debug("relay",
			"from", child.String(),
			"to", parent.String(),
			"origin", origin.String())
	}
	return true
}

// Call invokes fn and forwards any failure into ctx, then lets the caller
// continue. It suits frames with nothing to return to, such as the top level.
func Call[T any](ctx Ctx, fn func(Ctx) Box[T]) (Box[T], Ctx) {
	v, child := Invoke(ctx, fn)
	Forward(ctx, child)
	return v, child
}

// Call1 is Call for a function of one argument.
func Call1[A, T any](ctx Ctx, fn func(Ctx, A) Box[T], a A) (Box[T], Ctx) {
	v, child := Invoke1(ctx, fn, a)
	Forward(ctx, child)
	return v, child
}

// Call2 is Call for a function of two arguments.
func Call2[A, B, T any](ctx Ctx, fn func(Ctx, A, B) Box[T], a A, b B) (Box[T], Ctx) {
	v, child := Invoke2(ctx, fn, a, b)
	Forward(ctx, child)
	return v, child
}

// Catch invokes fn and forwards any failure into ctx. When ok is false the
// caller must unwind at once by returning its own declaration default:
//
//	v, ok := unwind.Catch(ctx, Load)
//	if !ok {
//		return unwind.Declare[string]()
//	}
//
// This is the default per-frame policy. Frames that do not handle a failure
// pass it upward in constant time, and the origin stays the raising frame.
func Catch[T any](ctx Ctx, fn func(Ctx) Box[T]) (v Box[T], ok bool) {
	v, child := Invoke(ctx, fn)
	if Forward(ctx, child) {
		return Declare[T](), false
	}
	return v, true
}

// Catch1 is Catch for a function of one argument.
func Catch1[A, T any](ctx Ctx, fn func(Ctx, A) Box[T], a A) (v Box[T], ok bool) {
	v, child := Invoke1(ctx, fn, a)
	if Forward(ctx, child) {
		return Declare[T](), false
	}
	return v, true
}

// Catch2 is Catch for a function of two arguments.
func Catch2[A, B, T any](ctx Ctx, fn func(Ctx, A, B) Box[T], a A, b B) (v Box[T], ok bool) {
	v, child := Invoke2(ctx, fn, a, b)
	if Forward(ctx, child) {
		return Declare[T](), false
	}
	return v, true
}

// Failure is a failing context's state as a Go error.
//
// A Failure borrows from the context tree: once the tree is cleaned up its
// handles are stale and its Exception may be recycled for another owner.
// Take a [NewReport] before cleanup to keep the failure around.
type Failure struct {
	// Exception is owned by the context tree, not by the Failure.
	Exception *Exception
	// Origin is the context where the exception was raised.
	Origin Ctx
	// Relay is the context the failure was observed on.
	Relay Ctx
}

// FailureOf returns the failure ctx carries, or nil when it is not failing.
// The result is valid only until the tree is cleaned up.
func FailureOf(ctx Ctx) *Failure {
	r := ctx.rec()
	if !r.isFailure.Value() {
		return nil
	}
	origin := r.failureOrigin
	if origin.IsNil() {
		origin = ctx
	}
	return &Failure{Exception: r.exception, Origin: origin, Relay: ctx}
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString("unwind: ")
	if r, ok := f.Origin.lookup(); ok {
		b.WriteString(r.identifier.Value())
		b.WriteString(": ")
	}
	if f.Exception == nil {
		b.WriteString("failure without exception")
		return b.String()
	}
	b.WriteString(f.Exception.Error())
	if loc := f.Exception.Location(); loc != "" {
		b.WriteString(" (")
		b.WriteString(loc)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the exception.
func (f *Failure) Unwrap() error {
	if f.Exception == nil {
		return nil
	}
	return f.Exception
}

// funcName returns the unqualified symbol name of fn, such as "Nested" or
// "TestCall.func1".
func funcName(fn any) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return "?"
	}
	name := rf.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
