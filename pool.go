// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import "sync"

// Pools for exceptions and try guards.
// Release zeroes every field before returning storage to the pool.
// Pooled values follow affine ownership: a pointer kept after release
// observes zeroed fields, or another owner's data once reacquired.

var exceptionPool = sync.Pool{New: func() any { return new(Exception) }}
var guardPool = sync.Pool{New: func() any { return new(Guard) }}

// acquireException returns a zeroed, live, pooled exception.
func acquireException() *Exception {
	e := exceptionPool.Get().(*Exception)
	e.pooled = true
	e.released = false
	return e
}

// releaseException zeroes e without following its links.
// Exceptions built outside the pool are zeroed and marked but not pooled.
func releaseException(e *Exception) {
	if e.released {
		panic("unwind: exception destroyed twice")
	}
	pooled := e.pooled
	*e = Exception{released: true}
	if pooled {
		exceptionPool.Put(e)
	}
}

func acquireGuard(ctx Ctx, id string) *Guard {
	g := guardPool.Get().(*Guard)
	g.ctx = ctx
	g.id = id
	return g
}

func releaseGuard(g *Guard) {
	*g = Guard{}
	guardPool.Put(g)
}
