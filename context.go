// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"log/slog"
	"strconv"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// Arena owns the call contexts of one invocation tree.
//
// Contexts are addressed by [Ctx] handles. A handle carries the slot
// generation it was issued for, so using a handle after its context was
// destroyed panics instead of reading a recycled slot.
//
// An Arena performs no synchronization. Concurrent tasks must each use
// their own Arena; contexts and exceptions are never shared across them.
type Arena struct {
	records []*record
	free    *arraystack.Stack
	live    int
	cfg     Config
	logger  *slog.Logger
}

// record is the storage behind one context.
type record struct {
	gen  uint32
	live bool

	identifier    Box[string]
	isFailure     Box[bool]
	argAmount     Box[uint]
	isThreaded    Box[bool]
	failureOrigin Ctx
	callOrigin    Ctx
	exception     *Exception

	depth    int
	children []Ctx
	cleaned  bool
	tries    map[string]struct{}
}

// NewArena creates an empty arena.
func NewArena(opts ...Option) *Arena {
	o := arenaOptions{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Arena{
		free:   arraystack.New(),
		cfg:    o.cfg,
		logger: o.buildLogger(),
	}
}

// NewArenaFromConfig creates an arena using cfg and the given extra options.
func NewArenaFromConfig(cfg Config, opts ...Option) *Arena {
	return NewArena(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Config returns the arena's configuration.
func (a *Arena) Config() Config { return a.cfg }

// Logger returns the arena's logger.
func (a *Arena) Logger() *slog.Logger { return a.logger }

// Len returns the number of live contexts.
func (a *Arena) Len() int { return a.live }

// NewContext allocates a context populated verbatim from its arguments.
// It does not establish the failure invariants; callers do.
// A valid callOrigin records the new context among its children.
func (a *Arena) NewContext(
	identifier Box[string],
	isFailure Box[bool],
	argAmount Box[uint],
	isThreaded Box[bool],
	failureOrigin Ctx,
	callOrigin Ctx,
	exception *Exception,
) Ctx {
	var slot uint32
	if v, ok := a.free.Pop(); ok {
		slot = v.(uint32)
	} else {
		slot = uint32(len(a.records))
		a.records = append(a.records, &record{})
	}
	r := a.records[slot]
	r.live = true
	r.identifier = identifier
	r.isFailure = isFailure
	r.argAmount = argAmount
	r.isThreaded = isThreaded
	r.failureOrigin = failureOrigin
	r.callOrigin = callOrigin
	r.exception = exception
	r.depth = 0
	a.live++

	c := Ctx{arena: a, slot: slot, gen: r.gen}
	if callOrigin.Valid() {
		p := callOrigin.rec()
		p.children = append(p.children, c)
		p.cleaned = false
		r.depth = p.depth + 1
	}
	return c
}

// Root allocates a top-level context set to its definition default with
// set children: every boxed field is defined.
func (a *Arena) Root(identifier string) Ctx {
	return a.NewContext(
		Define(identifier),
		Define(false),
		Define[uint](0),
		Define(a.cfg.Threaded),
		Ctx{},
		Ctx{},
		nil,
	)
}

// DefineContext allocates a context set to its definition default with
// unset children: the context exists, its boxed fields are declared only.
func (a *Arena) DefineContext() Ctx {
	return a.NewContext(Declare[string](), Declare[bool](), Declare[uint](), Declare[bool](), Ctx{}, Ctx{}, nil)
}

// DeclareContext returns the declaration default of a context: the nil
// handle, referring to no storage.
func DeclareContext() Ctx {
	return Ctx{}
}

// Ctx is a handle to a call context: the invocation record every
// participating function receives as its first parameter.
//
// The zero Ctx is the nil context. Ctx values are cheap to copy; passing one
// to a callee lends it for the duration of the call.
type Ctx struct {
	arena *Arena
	slot  uint32
	gen   uint32
}

func (c Ctx) lookup() (*record, bool) {
	if c.arena == nil || int(c.slot) >= len(c.arena.records) {
		return nil, false
	}
	r := c.arena.records[c.slot]
	if !r.live || r.gen != c.gen {
		return nil, false
	}
	return r, true
}

func (c Ctx) rec() *record {
	if c.arena == nil {
		panic("unwind: nil context")
	}
	r, ok := c.lookup()
	if !ok {
		panic("unwind: use of destroyed context")
	}
	return r
}

// Equal reports whether c and o are the same handle.
func (c Ctx) Equal(o Ctx) bool { return c == o }

// IsNil reports whether c is the zero Ctx.
func (c Ctx) IsNil() bool { return c.arena == nil }

// Valid reports whether c refers to a live context.
func (c Ctx) Valid() bool {
	_, ok := c.lookup()
	return ok
}

// Arena returns the arena c belongs to.
func (c Ctx) Arena() *Arena { return c.arena }

// Identifier returns the function identifier.
func (c Ctx) Identifier() Box[string] { return c.rec().identifier }

// IsFailure returns the boxed failure flag.
func (c Ctx) IsFailure() Box[bool] { return c.rec().isFailure }

// Failed reports whether the context is failing.
func (c Ctx) Failed() bool { return c.rec().isFailure.Value() }

// ArgAmount returns the number of arguments the invocation received.
func (c Ctx) ArgAmount() Box[uint] { return c.rec().argAmount }

// IsThreaded returns the advisory threading flag.
func (c Ctx) IsThreaded() Box[bool] { return c.rec().isThreaded }

// FailureOrigin returns the context where the failure was first raised.
// It is the zero Ctx until a failure has been relayed through c.
func (c Ctx) FailureOrigin() Ctx { return c.rec().failureOrigin }

// CallOrigin returns the caller's context.
func (c Ctx) CallOrigin() Ctx { return c.rec().callOrigin }

// Exception returns the exception the context owns, or nil.
func (c Ctx) Exception() *Exception { return c.rec().exception }

// Depth returns the number of call-origin links above c at creation time.
func (c Ctx) Depth() int { return c.rec().depth }

func (c Ctx) String() string {
	r, ok := c.lookup()
	switch {
	case c.arena == nil:
		return "<nil>"
	case !ok:
		return "<destroyed#" + strconv.FormatUint(uint64(c.slot), 10) + ">"
	default:
		return r.identifier.Value() + "#" + strconv.FormatUint(uint64(c.slot), 10)
	}
}

// Destroy releases the context's own storage. It never follows or frees the
// exception, the failure origin, or the call origin; those belong to
// [Ctx.Cleanup]. Destroying a destroyed context panics.
func (c Ctx) Destroy() {
	r := c.rec()
	*r = record{gen: r.gen + 1}
	c.arena.free.Push(c.slot)
	c.arena.live--
}

// setFailure records exc and origin on r, honoring the re-raise policy when
// r is already failing. It reports whether r now carries exc.
func (a *Arena) setFailure(c Ctx, r *record, exc *Exception, origin Ctx) bool {
	prev := r.exception
	switch {
	case prev == nil || prev == exc:
	case reaches(prev, exc):
		// exc is already one of prev's causes; prev keeps owning it.
		a.logger.Warn("failing context re-raised one of its causes",
			"ctx", c.String(), "exception", prev.Error(), "cause", exc.Error())
		exc = prev
	case a.cfg.Reraise == ReraiseReject:
		a.logger.Warn("failing context kept its first exception",
			"ctx", c.String(), "kept", prev.Error(), "rejected", exc.Error())
		return false
	default:
		if !reaches(exc, prev) {
			exc.Root().Parent = prev
		}
		a.logger.Warn("failing context chained a new exception",
			"ctx", c.String(), "cause", prev.Error(), "exception", exc.Error())
	}
	r.isFailure = Define(true)
	r.exception = exc
	r.failureOrigin = origin
	r.cleaned = false
	return true
}

// reaches reports whether target is e or is linked from e through Parent
// or Child.
func reaches(e, target *Exception) bool {
	for ; e != nil; e = e.Parent {
		if e == target || reaches(e.Child, target) {
			return true
		}
	}
	return false
}
