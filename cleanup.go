// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Cleanup tears down the invocation tree below c: every context created
// under c is destroyed, every exception they own is destroyed exactly once,
// and c's failure state is reset. c itself stays allocated.
//
// Relayed failures share one exception between the raising frame and every
// relay frame above it; Cleanup counts each exception once by identity,
// following causal links too.
//
// Cleanup runs once per tree, at its top. Calling it again before any new
// call was made under c panics, as does cleaning a subtree whose failure was
// relayed into a caller that is still alive.
func (c Ctx) Cleanup() {
	r := c.rec()
	if r.cleaned {
		panic("unwind: context cleaned up twice")
	}
	a := c.arena

	subtree := c.subtree()
	owned := make(map[*Exception]struct{})
	for _, x := range subtree {
		collectExceptions(x.rec().exception, owned)
	}

	if caller, ok := r.callOrigin.lookup(); ok {
		for e := caller.exception; e != nil; e = e.Parent {
			if _, shared := owned[e]; shared {
				panic("unwind: cleanup of a subtree whose failure was relayed to a live caller")
			}
		}
	}

	for e := range owned {
		releaseException(e)
	}
	for _, x := range subtree[1:] {
		x.Destroy()
	}

	r.isFailure = Define(false)
	r.exception = nil
	r.failureOrigin = Ctx{}
	r.children = nil
	r.cleaned = true

	a.logger.Debug("cleanup",
		"ctx", c.String(),
		"contexts", len(subtree),
		"exceptions", len(owned))
}

// subtree returns c followed by every live descendant, parents before
// children.
func (c Ctx) subtree() []Ctx {
	var out []Ctx
	stack := arraystack.New()
	stack.Push(c)
	for !stack.Empty() {
		v, _ := stack.Pop()
		x := v.(Ctx)
		out = append(out, x)
		for _, child := range x.rec().children {
			if child.Valid() {
				stack.Push(child)
			}
		}
	}
	return out
}

func collectExceptions(e *Exception, seen map[*Exception]struct{}) {
	for e != nil {
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		collectExceptions(e.Child, seen)
		e = e.Parent
	}
}

// Uncaught is the error Execute returns when a failure reaches the top of
// the tree. It outlives the tree: Report holds copies, not arena data.
type Uncaught struct {
	Report *Report
}

func (u *Uncaught) Error() string {
	x := u.Report.Exception
	msg := "unwind: uncaught " + x.Error()
	if loc := x.Location(); loc != "" {
		msg += " at " + loc
	}
	if u.Report.Origin != "" {
		msg += " in " + u.Report.Origin
	}
	return msg
}

// Unwrap returns the reported exception.
func (u *Uncaught) Unwrap() error {
	return u.Report.Exception
}

// Execute runs fn as the single call of a fresh top-level context named
// name, then cleans the tree up exactly once, whatever fn did.
// A failure that reaches the top is returned as an [*Uncaught].
func Execute[T any](a *Arena, name string, fn func(Ctx) Box[T]) (T, error) {
	s := a.Enter(name)
	defer s.Close()

	v, _ := Call(s.Ctx(), fn)
	if rep, failed := NewReport(s.Ctx()); failed {
		var zero T
		return zero, &Uncaught{Report: rep}
	}
	return v.Value(), nil
}
