// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind_test

import (
	"fmt"
	"strings"
	"testing"

	"code.hybscloud.com/unwind"
)

const (
	testFile = "fixtures_test.go"
	testLine = 42
)

func testException() *unwind.Exception {
	return unwind.NewException("test", "TestException", testFile, testLine, "raise exception", nil, nil)
}

// nested unconditionally raises.
func nested(ctx unwind.Ctx, i uint) unwind.Box[int] {
	return unwind.RaiseReturn[int](ctx, testException())
}

// double returns 2*i without failing.
func double(ctx unwind.Ctx, i int) unwind.Box[int] {
	return unwind.Define(2 * i)
}

// caller relays nested's failure and unwinds.
func caller(ctx unwind.Ctx) unwind.Box[int] {
	r, ok := unwind.Catch1(ctx, nested, uint(1))
	if !ok {
		return unwind.Declare[int]()
	}
	return r
}

// relay recurses n times, then raises in the deepest frame.
func relay(ctx unwind.Ctx, n int) unwind.Box[int] {
	if n == 0 {
		return unwind.RaiseReturn[int](ctx, testException())
	}
	v, ok := unwind.Catch1(ctx, relay, n-1)
	if !ok {
		return unwind.Declare[int]()
	}
	return v
}

// caller2 catches nested's failure and returns 1 from the handler.
func caller2(ctx unwind.Ctx) unwind.Box[int] {
	out := unwind.Try(ctx, "Y2", func(g *unwind.Guard) (unwind.Box[int], bool) {
		r, ok := unwind.Guarded1(g, nested, uint(1))
		if !ok {
			return r, false
		}
		return r, true
	}, unwind.ExceptAll(func(exc unwind.Exception) (unwind.Box[int], bool) {
		return unwind.Define(1), true
	}))
	if v, ok := out.Return(); ok {
		return v
	}
	return unwind.Define(0)
}

// caller3 guards nested with a clause that does not match.
func caller3(ctx unwind.Ctx) unwind.Box[int] {
	out := unwind.Try(ctx, "Y3", func(g *unwind.Guard) (unwind.Box[int], bool) {
		r, ok := unwind.Guarded1(g, nested, uint(1))
		if !ok {
			return r, false
		}
		return r, true
	}, unwind.ExceptNamed("OtherException", func(exc unwind.Exception) (unwind.Box[int], bool) {
		return unwind.Define(1), true
	}))
	if v, ok := out.Return(); ok {
		return v
	}
	return unwind.Define(0)
}

// caller4 handles nested's failure and continues after the construct.
func caller4(ctx unwind.Ctx) unwind.Box[int] {
	out := unwind.Try(ctx, "Y4", func(g *unwind.Guard) (unwind.Box[int], bool) {
		r, ok := unwind.Guarded1(g, nested, uint(1))
		if !ok {
			return r, false
		}
		return r, true
	}, unwind.ExceptNamed[int]("TestException", nil))
	if v, ok := out.Return(); ok {
		return v
	}
	return unwind.Define(0)
}

func mustPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, want) {
			t.Fatalf("got panic %q, want it to contain %q", msg, want)
		}
	}()
	f()
}
