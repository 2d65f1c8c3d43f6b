package tp

import "tlog.app/go/errors"

func Size(t Type) (int, error) {
	return t.Size()
}

// Offset returns the byte offset of element i of t.
func Offset(t Type, i int) (int, error) {
	switch x := t.(type) {
	case *Array:
		return x.Offset(i)
	case *Struct:
		return x.Offset(i)
	case *Func:
		return 0, errors.Wrap(ErrNoSize, "%v", x)
	case *Named:
		if x.t == nil {
			return 0, errors.Wrap(ErrUnresolved, "%v", x.Name)
		}

		return Offset(x.t, i)
	case *Scalar, *Ptr:
		return 0, errors.Wrap(ErrNotCompound, "%v", x)
	default:
		panic(x)
	}
}

// OffsetOf follows path through nested arrays and structs
// and returns the element type found and its offset from the start of t.
func OffsetOf(t Type, path ...int) (_ Type, off int, err error) {
	if _, err = t.Size(); err != nil {
		return nil, 0, err
	}

	for d, i := range path {
		var o int

		o, err = Offset(t, i)
		if err != nil {
			return nil, 0, errors.Wrap(err, "path[%d]", d)
		}

		off += o
		t = Deref(t).(Compound).Elem(i)
	}

	return t, off, nil
}

// Deref unwraps bound Named types.
func Deref(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok || n.t == nil {
			return t
		}

		t = n.t
	}
}
