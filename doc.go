// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package unwind provides structured exceptions propagated through explicit
// call contexts, without panics or stack unwinding.
//
// Every participating function takes a [Ctx] as its first parameter and
// returns a [Box] of its result type. A failing function marks its context
// with an [Exception] and returns the declaration default of its result.
// Callers observe the context and either relay the failure upward, handle
// it in a try/except construct, or stop at the top level.
//
// # Boxed Values
//
// [Box] distinguishes "declared but never set" from "set to the zero value":
//
//   - [Declare]: Declaration default (undefined, zero actual)
//   - [Define], [DefineZero]: Defined values
//   - [Box.Get], [Box.Value], [Box.IsDefined], [Box.Or]: Accessors
//   - [Box.Equal]: Structural equality, flag included
//
// # Exceptions
//
// An [Exception] carries a message, a type name, a source location, and
// two owned links: Parent, the cause it was raised from, and Child, a
// follow-up raised while handling it.
//
//   - [NewException], [NewExceptionHere]: Pooled constructors
//   - [DestroyException]: Release with its links (panics on double destroy)
//   - [DeclareException], [DefineException], [DefineExceptionWithChildren]: Defaults
//   - [Exception.Causes], [Exception.Root]: Causal chain
//   - [Exception.Clone], [Exception.Snapshot]: Copies that outlive the original
//
// Exceptions implement error; [Exception.Unwrap] walks the Parent chain, so
// errors.Is and errors.As see causes.
//
// # Contexts
//
// Contexts live in an [Arena] and are addressed by [Ctx] handles. A handle
// to a destroyed context panics on use instead of reading a recycled slot.
//
//   - [NewArena], [NewArenaFromConfig]: Create an arena
//   - [Arena.Root]: Top-level context with every field defined
//   - [Arena.NewContext]: Context populated verbatim
//   - [Ctx.Destroy]: Free one context without following its links
//
// # Raising and Propagation
//
//   - [Raise], [RaiseReturn]: Mark a context failing
//   - [InvokeWithContext], [Invoke], [Invoke1], [Invoke2], [Invoke3]: Call in a fresh child
//   - [Forward]: Relay a failing child into its parent, keeping the origin
//   - [Call], [Call1], [Call2]: Forward and continue (top level)
//   - [Catch], [Catch1], [Catch2]: Forward and tell the caller to unwind
//   - [FailureOf]: The failure as an error
//
// The failure origin always names the frame that raised, however many
// frames relayed it. A re-raise on a failing context follows the arena's
// [ReraisePolicy].
//
// Results can also be taken as a tagged union:
//
//   - [Result]: [Either] of [*Failure] and [Box]
//   - [Attempt], [Attempt1], [Attempt2]: Catch returning a Result
//   - [Unwrap]: Right value or the declaration default
//   - [MatchEither], [FlatMapEither]: Fold and sequence
//
// # Try/Except
//
// [Try] runs a block whose guarded calls snapshot a failure instead of
// relaying it. The first matching [Except] clause runs; with no match the
// enclosing function unwinds while its own context stays clean.
//
//   - [Guarded], [Guarded1], [Guarded2]: Calls inside a try block
//   - [ExceptAll], [ExceptNamed]: Clauses
//   - [Outcome]: How the construct finished
//
// # Cleanup
//
// A failure is cleaned up exactly once, at the top of its tree:
//
//   - [Ctx.Cleanup]: Destroy every descendant and every owned exception once
//   - [Scope]: One-shot owner of a root context ([Scope.Close], [Scope.TryClose])
//   - [Execute]: Run, report, and clean up in one call
//   - [NewReport]: Traceback copy that outlives cleanup
//
// # Example
//
//	func load(ctx unwind.Ctx, path string) unwind.Box[string] {
//		if path == "" {
//			return unwind.RaiseReturn[string](ctx,
//				unwind.NewExceptionHere("empty path", "ValueError", "load"))
//		}
//		return unwind.Define(path)
//	}
//
//	func start(ctx unwind.Ctx) unwind.Box[int] {
//		p, ok := unwind.Catch1(ctx, load, "")
//		if !ok {
//			return unwind.Declare[int]()
//		}
//		return unwind.Define(len(p.Value()))
//	}
//
//	_, err := unwind.Execute(unwind.NewArena(), "main", start)
//	// err: unwind: uncaught ValueError: empty path at ... in load
package unwind
