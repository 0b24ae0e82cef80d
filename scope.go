// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"sync/atomic"
)

// Scope owns a top-level context and closes it at most once.
// Closing cleans the tree up and destroys the root; a second Close
// panics (Close) or returns false (TryClose).
//
// Scope gives the exactly-once teardown rule an owner that can be deferred.
type Scope struct {
	used atomic.Uintptr
	root Ctx
}

// Enter opens a scope around a new root context named name.
func (a *Arena) Enter(name string) *Scope {
	return &Scope{root: a.Root(name)}
}

// Ctx returns the scope's root context.
func (s *Scope) Ctx() Ctx {
	return s.root
}

// Close cleans up and destroys the root context.
// Panics if the scope has already been closed.
func (s *Scope) Close() {
	if s.used.Add(1) != 1 {
		panic("unwind: scope closed twice")
	}
	s.close()
}

// TryClose closes the scope and returns true, or returns false if it was
// already closed.
func (s *Scope) TryClose() bool {
	if s.used.Add(1) != 1 {
		return false
	}
	s.close()
	return true
}

// Closed reports whether the scope has been closed.
func (s *Scope) Closed() bool {
	return s.used.Load() != 0
}

func (s *Scope) close() {
	s.root.Cleanup()
	s.root.Destroy()
}
