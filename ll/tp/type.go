package tp

import (
	"math"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

type (
	// Type is one of *Scalar, *Array, *Struct, *Ptr, *Func.
	// *Named stands in for a typedef referenced before it was bound.
	Type interface {
		Size() (int, error)
		String() string

		isType()
	}

	// Compound types have addressable elements.
	Compound interface {
		Type

		Len() int
		Elem(i int) Type
		Offset(i int) (int, error)
	}

	Scalar struct {
		Bits int
		name string
	}

	Array struct {
		Count int
		X     Type

		size int
		err  error
	}

	Struct struct {
		Fields []Type

		offs []int
		size int
		err  error
	}

	Ptr struct {
		X Type
	}

	Func struct {
		Ret      Type
		Params   []Type
		Variadic bool
	}

	// Named is a typedef name used before its definition.
	// It is bound exactly once, while the module is being parsed.
	Named struct {
		Name string

		t Type
	}
)

// PtrSize is the size of any pointer. The model assumes a 32-bit target.
const PtrSize = 4

var (
	ErrNoSize      = errors.New("type has no size")
	ErrUnresolved  = errors.New("unresolved type")
	ErrIndex       = errors.New("index out of range")
	ErrNotCompound = errors.New("not a compound type")
	ErrTooLarge    = errors.New("type is too large")
)

var (
	Void  = &Scalar{Bits: 0, name: "void"}
	Int1  = &Scalar{Bits: 1, name: "i1"}
	Int8  = &Scalar{Bits: 8, name: "i8"}
	Int16 = &Scalar{Bits: 16, name: "i16"}
	Int32 = &Scalar{Bits: 32, name: "i32"}
	Int64 = &Scalar{Bits: 64, name: "i64"}

	Scalars = []*Scalar{Void, Int1, Int8, Int16, Int32, Int64}
)

var (
	_ Compound = &Array{}
	_ Compound = &Struct{}
)

func NewArray(n int, x Type) *Array {
	if n < 0 {
		panic("negative array length")
	}

	a := &Array{
		Count: n,
		X:     x,
	}

	a.layout()

	return a
}

// NewStruct makes a struct of the given fields. The slice is copied.
func NewStruct(fields ...Type) *Struct {
	s := &Struct{
		Fields: append([]Type{}, fields...),
		offs:   make([]int, len(fields)),
	}

	s.layout()

	return s
}

func (x *Array) layout() {
	x.size, x.err = 0, nil

	s, err := x.X.Size()
	if err != nil {
		x.err = errors.Wrap(err, "element %v", x.X)
		return
	}

	if s != 0 && x.Count > math.MaxInt/s {
		x.err = errors.Wrap(ErrTooLarge, "%d x %d bytes", x.Count, s)
		return
	}

	x.size = x.Count * s
}

func (x *Struct) layout() {
	x.size, x.err = 0, nil

	for i, f := range x.Fields {
		x.offs[i] = x.size

		fs, err := f.Size()
		if err != nil {
			x.err = errors.Wrap(err, "field %d: %v", i, f)
			return
		}

		if x.size > math.MaxInt-fs {
			x.err = errors.Wrap(ErrTooLarge, "field %d: %v", i, f)
			return
		}

		x.size += fs
	}
}

// Relayout computes the layout of an aggregate again
// if it was built over a name which was not bound at the time.
// It reports whether the layout no longer depends on an unbound name.
// It must be called before t is shared.
func Relayout(t Type) bool {
	switch x := t.(type) {
	case *Array:
		if errors.Is(x.err, ErrUnresolved) {
			x.layout()
		}

		return !errors.Is(x.err, ErrUnresolved)
	case *Struct:
		if errors.Is(x.err, ErrUnresolved) {
			x.layout()
		}

		return !errors.Is(x.err, ErrUnresolved)
	default:
		return true
	}
}

func NewPtr(x Type) *Ptr {
	return &Ptr{X: x}
}

func NewFunc(ret Type, params []Type, variadic bool) *Func {
	return &Func{
		Ret:      ret,
		Params:   params,
		Variadic: variadic,
	}
}

func NewNamed(name string) *Named {
	return &Named{Name: name}
}

// Bind sets the type the name stands for.
func (x *Named) Bind(t Type) error {
	if x.t != nil {
		return errors.New("%v already bound", x.Name)
	}

	for y, ok := t.(*Named); ok; y, ok = y.t.(*Named) {
		if y == x {
			return errors.New("%v refers to itself", x.Name)
		}

		if y.t == nil {
			break
		}
	}

	x.t = t

	return nil
}

// Resolved returns the bound type or nil.
func (x *Named) Resolved() Type { return x.t }

func (x *Scalar) Size() (int, error) {
	return (x.Bits + 7) / 8, nil
}

func (x *Array) Size() (int, error) { return x.size, x.err }

func (x *Struct) Size() (int, error) { return x.size, x.err }

func (x *Ptr) Size() (int, error) { return PtrSize, nil }

func (x *Func) Size() (int, error) {
	return 0, errors.Wrap(ErrNoSize, "%v", x)
}

func (x *Named) Size() (int, error) {
	if x.t == nil {
		return 0, errors.Wrap(ErrUnresolved, "%v", x.Name)
	}

	return x.t.Size()
}

func (x *Array) Len() int        { return x.Count }
func (x *Array) Elem(i int) Type { return x.X }

func (x *Array) Offset(i int) (int, error) {
	if i < 0 || i >= x.Count {
		return 0, errors.Wrap(ErrIndex, "%d of %v", i, x)
	}

	if x.err != nil {
		return 0, x.err
	}

	s, _ := x.X.Size()

	return i * s, nil
}

func (x *Struct) Len() int        { return len(x.Fields) }
func (x *Struct) Elem(i int) Type { return x.Fields[i] }

func (x *Struct) Offset(i int) (int, error) {
	if i < 0 || i >= len(x.Fields) {
		return 0, errors.Wrap(ErrIndex, "%d of %v", i, x)
	}

	if x.err != nil {
		return 0, x.err
	}

	return x.offs[i], nil
}

func (*Scalar) isType() {}
func (*Array) isType()  {}
func (*Struct) isType() {}
func (*Ptr) isType()    {}
func (*Func) isType()   {}
func (*Named) isType()  {}

func (x *Scalar) TlogAppend(b []byte) []byte { return appendTlog(b, x) }
func (x *Array) TlogAppend(b []byte) []byte  { return appendTlog(b, x) }
func (x *Struct) TlogAppend(b []byte) []byte { return appendTlog(b, x) }
func (x *Ptr) TlogAppend(b []byte) []byte    { return appendTlog(b, x) }
func (x *Func) TlogAppend(b []byte) []byte   { return appendTlog(b, x) }
func (x *Named) TlogAppend(b []byte) []byte  { return appendTlog(b, x) }

func appendTlog(b []byte, t Type) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, t.String())
}
