package a

import "code.hybscloud.com/unwind"

func leaf(ctx unwind.Ctx, n int) unwind.Box[int] {
	return unwind.Declare[int]()
}

func raiseThenReturn(ctx unwind.Ctx) unwind.Box[int] {
	unwind.Raise(ctx, nil)
	return unwind.Declare[int]()
}

func raiseReturn(ctx unwind.Ctx) unwind.Box[int] {
	return unwind.RaiseReturn[int](ctx, nil)
}

func raiseAtEndOfVoid(ctx unwind.Ctx) {
	unwind.Raise(ctx, nil)
}

func raiseThenWork(ctx unwind.Ctx) unwind.Box[int] {
	unwind.Raise(ctx, nil) // want "unwind.Raise must be followed by a return"
	n := 1
	_ = n
	return unwind.Declare[int]()
}

func raiseInBranch(ctx unwind.Ctx, bad bool) unwind.Box[int] {
	if bad {
		unwind.Raise(ctx, nil) // want "unwind.Raise must be followed by a return"
	}
	return unwind.Declare[int]()
}

func raiseInVoidBranch(ctx unwind.Ctx, bad bool) {
	if bad {
		unwind.Raise(ctx, nil) // want "unwind.Raise must be followed by a return"
	}
}

func raiseInSwitch(ctx unwind.Ctx, n int) unwind.Box[int] {
	switch n {
	case 0:
		unwind.Raise(ctx, nil)
		return unwind.Declare[int]()
	case 1:
		unwind.Raise(ctx, nil) // want "unwind.Raise must be followed by a return"
	}
	return unwind.Declare[int]()
}

func raiseInClosure(ctx unwind.Ctx) unwind.Box[int] {
	fail := func() {
		unwind.Raise(ctx, nil)
	}
	fail()
	count := func() int {
		if true {
			unwind.Raise(ctx, nil) // want "unwind.Raise must be followed by a return"
		}
		return 0
	}
	_ = count
	return unwind.Declare[int]()
}

func droppedRaiseReturn(ctx unwind.Ctx) unwind.Box[int] {
	unwind.RaiseReturn[int](ctx, nil) // want "result of unwind.RaiseReturn must be returned"
	return unwind.Declare[int]()
}

func catching(ctx unwind.Ctx) unwind.Box[int] {
	v, ok := unwind.Catch1(ctx, leaf, 1)
	if !ok {
		return unwind.Declare[int]()
	}
	w, _ := unwind.Catch1(ctx, leaf, 2) // want `ok result of unwind.Catch1 discarded`
	_ = w
	return v
}

func guarding(g *unwind.Guard) unwind.Box[int] {
	v, _ := unwind.Guarded1(g, leaf, 1) // want `ok result of unwind.Guarded1 discarded`
	return v
}
