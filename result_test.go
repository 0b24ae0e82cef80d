// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind_test

import (
	"strconv"
	"testing"

	"code.hybscloud.com/unwind"
)

func TestAttempt(t *testing.T) {
	a := unwind.NewArena()
	root := a.Root("main")

	ok := unwind.Attempt1(root, double, 4)
	if v, right := ok.GetRight(); !right || v.Value() != 8 {
		t.Fatalf("got %v", v)
	}

	bad := unwind.Attempt(root, caller)
	f, left := bad.GetLeft()
	if !left || f == nil {
		t.Fatal("failing call is not Left")
	}
	if f.Origin.Identifier().Value() != "nested" || f.Relay != root {
		t.Fatalf("got failure %v", f)
	}
	if !root.Failed() {
		t.Fatal("Attempt did not forward the failure")
	}
	if unwind.Unwrap(bad).IsDefined() {
		t.Fatal("Unwrap of Left is defined")
	}
	root.Cleanup()
}

func TestAttemptChain(t *testing.T) {
	a := unwind.NewArena()
	root := a.Root("main")
	called := false

	r := unwind.FlatMapEither(unwind.Attempt1(root, nested, uint(1)), func(v unwind.Box[int]) unwind.Result[int] {
		called = true
		return unwind.Attempt1(root, double, v.Value())
	})
	if called {
		t.Fatal("Left did not short-circuit")
	}
	s := unwind.MatchEither(r,
		func(f *unwind.Failure) string { return f.Origin.Identifier().Value() },
		func(v unwind.Box[int]) string { return v.String() },
	)
	if s != "nested" {
		t.Fatalf("got %q, want nested", s)
	}
	root.Cleanup()

	r2 := unwind.FlatMapEither(unwind.Attempt2(root, func(ctx unwind.Ctx, x, y int) unwind.Box[int] {
		return unwind.Define(x + y)
	}, 2, 3), func(v unwind.Box[int]) unwind.Result[string] {
		return unwind.Right[*unwind.Failure](unwind.Define(strconv.Itoa(v.Value())))
	})
	if got := unwind.Unwrap(r2); got.Value() != "5" {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestEitherAccessors(t *testing.T) {
	l := unwind.Left[string, int]("boom")
	if v, ok := l.GetLeft(); !ok || v != "boom" || !l.IsLeft() || l.IsRight() {
		t.Fatalf("got left %q ok %v", v, ok)
	}
	if v, ok := l.GetRight(); ok || v != 0 {
		t.Fatalf("Left has a right value %d", v)
	}
	r := unwind.Right[string](1)
	if v, ok := r.GetLeft(); ok || v != "" {
		t.Fatalf("Right has a left value %q", v)
	}
	if got := unwind.MatchEither(r, func(s string) int { return len(s) }, func(n int) int { return n + 1 }); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}
