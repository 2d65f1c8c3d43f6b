package tp

type (
	equality struct {
		seen map[typePair]struct{}
	}

	typePair struct {
		x, y Type
	}
)

// Equal reports whether x and y have the same shape.
// Scalars are compared by identity, everything else structurally.
// Bound names are looked through. Two unbound names are equal if their names are.
func Equal(x, y Type) bool {
	var e equality

	return e.equal(x, y)
}

func (e *equality) equal(x, y Type) bool {
	x, y = Deref(x), Deref(y)

	if x == y {
		return true
	}

	xn, xok := x.(*Named)
	yn, yok := y.(*Named)

	if xok || yok {
		return xok && yok && xn.Name == yn.Name
	}

	// A pair already being compared is assumed equal, so recursive types compare finitely.
	p := typePair{x: x, y: y}

	if _, ok := e.seen[p]; ok {
		return true
	}

	if e.seen == nil {
		e.seen = map[typePair]struct{}{}
	}

	e.seen[p] = struct{}{}

	switch x := x.(type) {
	case *Scalar:
		return false
	case *Array:
		y, ok := y.(*Array)

		return ok && x.Count == y.Count && e.equal(x.X, y.X)
	case *Struct:
		y, ok := y.(*Struct)

		return ok && e.list(x.Fields, y.Fields)
	case *Ptr:
		y, ok := y.(*Ptr)

		return ok && e.equal(x.X, y.X)
	case *Func:
		y, ok := y.(*Func)

		return ok && x.Variadic == y.Variadic && e.equal(x.Ret, y.Ret) && e.list(x.Params, y.Params)
	case nil:
		return false
	default:
		panic(x)
	}
}

func (e *equality) list(x, y []Type) bool {
	if len(x) != len(y) {
		return false
	}

	for i := range x {
		if !e.equal(x[i], y[i]) {
			return false
		}
	}

	return true
}
