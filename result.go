// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

// Either holds exactly one of a Left or a Right. [Result] puts the failure
// on the Left and the value on the Right.
type Either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

// Result is the tagged outcome of a context-carrying call: the callee's
// value, or the failure that was forwarded into the caller.
type Result[T any] = Either[*Failure, Box[T]]

// Left wraps a failure.
func Left[E, A any](e E) Either[E, A] {
	return Either[E, A]{left: e}
}

// Right wraps a value.
func Right[E, A any](a A) Either[E, A] {
	return Either[E, A]{isRight: true, right: a}
}

// IsRight reports whether e holds a value.
func (e Either[E, A]) IsRight() bool { return e.isRight }

// IsLeft reports whether e holds a failure.
func (e Either[E, A]) IsLeft() bool { return !e.isRight }

// GetRight returns the value, if any.
func (e Either[E, A]) GetRight() (A, bool) {
	return e.right, e.isRight
}

// GetLeft returns the failure, if any.
func (e Either[E, A]) GetLeft() (E, bool) {
	return e.left, !e.isRight
}

// MatchEither folds e: onLeft sees the failure, onRight the value.
func MatchEither[E, A, T any](e Either[E, A], onLeft func(E) T, onRight func(A) T) T {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}

// FlatMapEither feeds the value of e into the next step. A failure passes
// through untouched, origin included, and f is not called.
func FlatMapEither[E, A, B any](e Either[E, A], f func(A) Either[E, B]) Either[E, B] {
	if !e.isRight {
		return Left[E, B](e.left)
	}
	return f(e.right)
}

// Attempt is [Catch] returning a Result. On failure ctx has already
// received the failure and the Left carries it. Like any [*Failure], the
// Left must not be used after the tree is cleaned up.
func Attempt[T any](ctx Ctx, fn func(Ctx) Box[T]) Result[T] {
	v, ok := Catch(ctx, fn)
	return attempted(ctx, v, ok)
}

// Attempt1 is Attempt for a function of one argument.
func Attempt1[A, T any](ctx Ctx, fn func(Ctx, A) Box[T], a A) Result[T] {
	v, ok := Catch1(ctx, fn, a)
	return attempted(ctx, v, ok)
}

// Attempt2 is Attempt for a function of two arguments.
func Attempt2[A, B, T any](ctx Ctx, fn func(Ctx, A, B) Box[T], a A, b B) Result[T] {
	v, ok := Catch2(ctx, fn, a, b)
	return attempted(ctx, v, ok)
}

func attempted[T any](ctx Ctx, v Box[T], ok bool) Result[T] {
	if !ok {
		return Left[*Failure, Box[T]](FailureOf(ctx))
	}
	return Right[*Failure](v)
}

// Unwrap returns the Right value, or the declaration default of T on Left,
// which is what an unwinding function returns.
func Unwrap[T any](r Result[T]) Box[T] {
	return MatchEither(r,
		func(*Failure) Box[T] { return Declare[T]() },
		func(v Box[T]) Box[T] { return v },
	)
}
