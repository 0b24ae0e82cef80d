// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import "fmt"

// TryState is the state of one try/except instance.
type TryState uint8

const (
	// TryClear means no guarded call failed.
	TryClear TryState = iota
	// TryFailing means a guarded call failed and no clause has run yet.
	TryFailing
	// TryHandled means an except clause ran; normal flow resumes.
	TryHandled
	// TryUnhandled means no clause matched; the enclosing function unwinds.
	TryUnhandled
)

var tryStateNames = map[TryState]string{
	TryClear:     "clear",
	TryFailing:   "failing",
	TryHandled:   "handled",
	TryUnhandled: "unhandled",
}

func (s TryState) String() string {
	v, ok := tryStateNames[s]
	if !ok {
		return fmt.Sprintf("invalid(%d)", s)
	}
	return v
}

// Guard is the state of a running try block. Guarded calls take it in place
// of a Ctx. A Guard is valid only while its block runs.
type Guard struct {
	ctx           Ctx
	id            string
	invokeExcept  bool
	exceptHandled bool
	caught        Box[Exception]
	failed        Ctx
}

// Ctx returns the context of the function that runs the try block.
func (g *Guard) Ctx() Ctx { return g.ctx }

// ID returns the try block identifier.
func (g *Guard) ID() string { return g.id }

// Failed reports whether a guarded call has failed.
func (g *Guard) Failed() bool { return g.invokeExcept }

// State returns the guard's position in the try state machine.
func (g *Guard) State() TryState {
	switch {
	case g.exceptHandled:
		return TryHandled
	case g.invokeExcept:
		return TryFailing
	default:
		return TryClear
	}
}

func (g *Guard) check() {
	if g.ctx.IsNil() {
		panic("unwind: guard used outside its try block")
	}
	if g.invokeExcept {
		panic("unwind: guarded call after failure in try block " + g.id)
	}
}

// observe snapshots a failing child's exception and reports whether the
// block may continue.
func (g *Guard) observe(child Ctx) bool {
	if !child.Failed() {
		return true
	}
	g.caught = child.Exception().Snapshot()
	g.invokeExcept = true
	g.failed = child
	return false
}

// Guarded calls fn inside a try block. When the call fails the exception
// is snapshot by value into the guard and ok is false: the block must
// return at once so the except clauses run. The failure is not copied into
// the enclosing context.
func Guarded[T any](g *Guard, fn func(Ctx) Box[T]) (v Box[T], ok bool) {
	g.check()
	v, child := Invoke(g.ctx, fn)
	if !g.observe(child) {
		return Declare[T](), false
	}
	return v, true
}

// Guarded1 is Guarded for a function of one argument.
func Guarded1[A, T any](g *Guard, fn func(Ctx, A) Box[T], a A) (v Box[T], ok bool) {
	g.check()
	v, child := Invoke1(g.ctx, fn, a)
	if !g.observe(child) {
		return Declare[T](), false
	}
	return v, true
}

// Guarded2 is Guarded for a function of two arguments.
func Guarded2[A, B, T any](g *Guard, fn func(Ctx, A, B) Box[T], a A, b B) (v Box[T], ok bool) {
	g.check()
	v, child := Invoke2(g.ctx, fn, a, b)
	if !g.observe(child) {
		return Declare[T](), false
	}
	return v, true
}

// Except is one except clause. An empty Name catches every exception.
//
// Body receives the caught exception by value. Its bool result reports
// that the clause returns from the enclosing function with the Box; false
// means execution continues after the try construct. A nil Body handles the
// exception and continues.
type Except[T any] struct {
	Name string
	Body func(exc Exception) (Box[T], bool)
}

// ExceptAll returns a catch-all clause.
func ExceptAll[T any](body func(exc Exception) (Box[T], bool)) Except[T] {
	return Except[T]{Body: body}
}

// ExceptNamed returns a clause matching exceptions whose Name is name.
func ExceptNamed[T any](name string, body func(exc Exception) (Box[T], bool)) Except[T] {
	return Except[T]{Name: name, Body: body}
}

func (c Except[T]) matches(exc Exception) bool {
	return c.Name == "" || exc.Name.Value() == c.Name
}

// Outcome is how a try construct finished.
type Outcome[T any] struct {
	State TryState
	// Value is the block's or the clause's result; meaningful when Returned.
	Value Box[T]
	// Returned reports that the enclosing function must return Value now.
	Returned bool
	// Caught is the snapshot of the exception that triggered the clauses.
	Caught Box[Exception]
}

// Return returns Value and Returned, for
//
//	if v, ok := out.Return(); ok {
//		return v
//	}
func (o Outcome[T]) Return() (Box[T], bool) {
	return o.Value, o.Returned
}

// Try runs block as a guarded region of the function owning ctx.
//
// block's bool result reports that the block executed a return; falling
// off its end continues after the construct. When a guarded call fails,
// the clauses are tried in order and the first match runs. If none
// matches, the Outcome is TryUnhandled and carries the declaration default
// with Returned set, so the enclosing function unwinds; ctx itself is left
// untouched.
//
// id names the construct. Each id may be active at most once per context;
// reusing an active id panics.
func Try[T any](ctx Ctx, id string, block func(g *Guard) (Box[T], bool), clauses ...Except[T]) Outcome[T] {
	r := ctx.rec()
	if _, busy := r.tries[id]; busy {
		panic(fmt.Sprintf("unwind: try block %q already active", id))
	}
	if r.tries == nil {
		r.tries = make(map[string]struct{})
	}
	r.tries[id] = struct{}{}
	defer func() {
		if r, ok := ctx.lookup(); ok {
			delete(r.tries, id)
		}
	}()

	g := acquireGuard(ctx, id)
	defer releaseGuard(g)

	v, returned := block(g)
	if !g.invokeExcept {
		return Outcome[T]{State: TryClear, Value: v, Returned: returned}
	}

	a := ctx.arena
	exc, _ := g.caught.Get()
	for _, c := range clauses {
		if !c.matches(exc) {
			continue
		}
		out := Outcome[T]{State: TryHandled, Caught: g.caught}
		if c.Body != nil {
			out.Value, out.Returned = c.Body(exc)
		}
		g.exceptHandled = true
		a.logger.Debug("except",
			"ctx", ctx.String(),
			"try", id,
			"exception", exc.Error(),
			"from", g.failed.String())
		return out
	}
	a.logger.Warn("unhandled exception in try block",
		"ctx", ctx.String(),
		"try", id,
		"exception", exc.Error(),
		"from", g.failed.String())
	return Outcome[T]{State: TryUnhandled, Value: Declare[T](), Returned: true, Caught: g.caught}
}
