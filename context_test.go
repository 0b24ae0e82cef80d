// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind_test

import (
	"testing"

	"code.hybscloud.com/unwind"
)

func TestRootDefaults(t *testing.T) {
	a := unwind.NewArena()
	root := a.Root("main")

	if got := root.Identifier(); !got.Equal(unwind.Define("main")) {
		t.Fatalf("got identifier %v", got)
	}
	if !root.IsFailure().IsDefined() || root.Failed() {
		t.Fatal("root is not defined-clear")
	}
	if got := root.ArgAmount(); !got.Equal(unwind.Define[uint](0)) {
		t.Fatalf("got arg amount %v", got)
	}
	if !root.CallOrigin().IsNil() || !root.FailureOrigin().IsNil() {
		t.Fatal("root has origins")
	}
	if root.Exception() != nil {
		t.Fatal("root has an exception")
	}
	if root.Depth() != 0 {
		t.Fatalf("got depth %d", root.Depth())
	}
	if a.Len() != 1 {
		t.Fatalf("got %d live contexts, want 1", a.Len())
	}
}

func TestNewContextVerbatim(t *testing.T) {
	a := unwind.NewArena()
	parent := a.Root("parent")
	origin := a.Root("origin")
	exc := testException()

	// No invariant checks: a failing context with a foreign origin is stored as is.
	c := a.NewContext(
		unwind.Define("f"),
		unwind.Define(true),
		unwind.Define[uint](2),
		unwind.Define(true),
		origin,
		parent,
		exc,
	)
	if !c.Failed() || c.Exception() != exc || c.FailureOrigin() != origin || c.CallOrigin() != parent {
		t.Fatal("fields not stored verbatim")
	}
	if c.ArgAmount().Value() != 2 || !c.IsThreaded().Value() {
		t.Fatal("scalar fields not stored verbatim")
	}
	if c.Depth() != 1 {
		t.Fatalf("got depth %d, want 1", c.Depth())
	}

	unwind.DestroyException(exc)
}

func TestContextDefaults(t *testing.T) {
	a := unwind.NewArena()

	if d := unwind.DeclareContext(); !d.IsNil() || d.Valid() {
		t.Fatal("declaration default refers to storage")
	}

	def := a.DefineContext()
	if !def.Valid() || a.Len() != 1 {
		t.Fatal("definition default not allocated")
	}
	if def.Identifier().IsDefined() || def.IsFailure().IsDefined() ||
		def.ArgAmount().IsDefined() || def.IsThreaded().IsDefined() {
		t.Fatal("unset-children default has defined fields")
	}
	if def.Failed() || def.Exception() != nil || !def.CallOrigin().IsNil() || !def.FailureOrigin().IsNil() {
		t.Fatal("definition default carries state")
	}

	full := a.Root("f")
	if !full.Identifier().IsDefined() || !full.IsFailure().IsDefined() ||
		!full.ArgAmount().IsDefined() || !full.IsThreaded().IsDefined() {
		t.Fatal("with-children default has undefined fields")
	}
}

func TestContextDestroyDoesNotFollowLinks(t *testing.T) {
	a := unwind.NewArena()
	parent := a.Root("parent")
	exc := testException()
	c := a.NewContext(unwind.Define("f"), unwind.Define(true), unwind.Define[uint](0),
		unwind.Define(false), unwind.Ctx{}, parent, exc)

	c.Destroy()

	if c.Valid() {
		t.Fatal("destroyed context is still valid")
	}
	if !parent.Valid() {
		t.Fatal("Destroy freed the call origin")
	}
	if exc.Msg.Value() != "test" {
		t.Fatal("Destroy freed the exception")
	}
	unwind.DestroyException(exc)
	if a.Len() != 1 {
		t.Fatalf("got %d live contexts, want 1", a.Len())
	}
}

func TestStaleContextPanics(t *testing.T) {
	a := unwind.NewArena()
	c := a.Root("gone")
	c.Destroy()

	mustPanic(t, "use of destroyed context", func() { c.Failed() })
	mustPanic(t, "use of destroyed context", func() { c.Destroy() })

	// The slot is reused with a new generation; the old handle stays stale.
	d := a.Root("next")
	if c.Valid() {
		t.Fatal("stale handle became valid after slot reuse")
	}
	if !d.Valid() || d.Identifier().Value() != "next" {
		t.Fatal("new context is not usable")
	}
	if got := c.String(); got != "<destroyed#0>" {
		t.Fatalf("got %q", got)
	}
}

func TestNilContext(t *testing.T) {
	var c unwind.Ctx
	if !c.IsNil() || c.Valid() {
		t.Fatal("zero Ctx is not nil")
	}
	if got := c.String(); got != "<nil>" {
		t.Fatalf("got %q", got)
	}
	mustPanic(t, "nil context", func() { c.Failed() })
}

func TestThreadedRootFromConfig(t *testing.T) {
	a := unwind.NewArenaFromConfig(unwind.Config{Threaded: true})
	root := a.Root("worker")
	_, child := unwind.Invoke1(root, double, 3)
	if !child.IsThreaded().Value() {
		t.Fatal("threaded flag not inherited")
	}
}
