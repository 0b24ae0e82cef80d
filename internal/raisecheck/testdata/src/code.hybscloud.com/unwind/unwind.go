// Package unwind mirrors the exported call surface of the real package for
// analyzer tests.
package unwind

type Ctx struct{}

type Box[T any] struct{}

type Exception struct{}

type Guard struct{}

func Declare[T any]() Box[T] { return Box[T]{} }

func Raise(ctx Ctx, exc *Exception) {}

func RaiseReturn[T any](ctx Ctx, exc *Exception) Box[T] { return Box[T]{} }

func Catch[T any](ctx Ctx, fn func(Ctx) Box[T]) (Box[T], bool) { return Box[T]{}, true }

func Catch1[A, T any](ctx Ctx, fn func(Ctx, A) Box[T], a A) (Box[T], bool) {
	return Box[T]{}, true
}

func Guarded1[A, T any](g *Guard, fn func(Ctx, A) Box[T], a A) (Box[T], bool) {
	return Box[T]{}, true
}
