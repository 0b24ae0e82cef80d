// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

// Raise marks ctx as failing with exc. The context takes ownership of exc.
//
// Raise does not unwind: the raising function must return its canonical
// default right after, which is what [RaiseReturn] does in one step.
// Raise never sets the failure origin; the call that observes ctx failing
// records ctx itself as the origin.
//
// Raising on a context that is already failing follows the arena's
// [ReraisePolicy]. Raise panics if exc is nil.
func Raise(ctx Ctx, exc *Exception) {
	if exc == nil {
		panic("unwind: raise with nil exception")
	}
	r := ctx.rec()
	a := ctx.arena
	if !a.setFailure(ctx, r, exc, Ctx{}) {
		detachCause(exc, r.exception)
		DestroyException(exc)
		return
	}
	a.logger.Debug("raise",
		"ctx", ctx.String(),
		"exception", exc.Error(),
		"location", exc.Location())
}

// RaiseReturn raises exc on ctx and returns the declaration default of T,
// so a function unwinds with
//
//	return unwind.RaiseReturn[int](ctx, exc)
func RaiseReturn[T any](ctx Ctx, exc *Exception) Box[T] {
	Raise(ctx, exc)
	return Declare[T]()
}

// detachCause cuts target out of everything exc links to, through Parent
// and Child, so that destroying exc leaves target alive.
func detachCause(exc, target *Exception) {
	for e := exc; e != nil; e = e.Parent {
		if e.Child == target {
			e.Child = nil
		} else {
			detachCause(e.Child, target)
		}
		if e.Parent == target {
			e.Parent = nil
			return
		}
	}
}
