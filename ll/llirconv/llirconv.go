// Package llirconv converts types between this module and github.com/llir/llvm.
package llirconv

import (
	"strings"

	"github.com/llir/llvm/ir/types"
	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/tp"
)

type (
	toConv struct {
		named map[*tp.Named]*types.StructType
	}

	fromConv struct {
		named map[string]tp.Type
	}
)

var ErrUnsupported = errors.New("unsupported type")

// ToLLIR returns the llir equivalent of t.
// Named types become named llir structs; unresolved ones are opaque.
func ToLLIR(t tp.Type) (types.Type, error) {
	c := toConv{named: map[*tp.Named]*types.StructType{}}

	return c.conv(t)
}

// FromLLIR returns the equivalent of t.
// References to a named struct from inside its own definition become *tp.Named.
func FromLLIR(t types.Type) (tp.Type, error) {
	c := fromConv{named: map[string]tp.Type{}}

	return c.conv(t)
}

func (c toConv) conv(t tp.Type) (_ types.Type, err error) {
	switch x := t.(type) {
	case *tp.Scalar:
		switch x {
		case tp.Void:
			return types.Void, nil
		case tp.Int1:
			return types.I1, nil
		case tp.Int8:
			return types.I8, nil
		case tp.Int16:
			return types.I16, nil
		case tp.Int32:
			return types.I32, nil
		case tp.Int64:
			return types.I64, nil
		}
	case *tp.Array:
		el, err := c.conv(x.X)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}

		return types.NewArray(uint64(x.Count), el), nil
	case *tp.Struct:
		fs, err := c.list(x.Fields)
		if err != nil {
			return nil, errors.Wrap(err, "struct")
		}

		return types.NewStruct(fs...), nil
	case *tp.Ptr:
		el, err := c.conv(x.X)
		if err != nil {
			return nil, errors.Wrap(err, "pointer")
		}

		return types.NewPointer(el), nil
	case *tp.Func:
		ret, err := c.conv(x.Ret)
		if err != nil {
			return nil, errors.Wrap(err, "return type")
		}

		ps, err := c.list(x.Params)
		if err != nil {
			return nil, errors.Wrap(err, "params")
		}

		f := types.NewFunc(ret, ps...)
		f.Variadic = x.Variadic

		return f, nil
	case *tp.Named:
		if s, ok := c.named[x]; ok {
			return s, nil
		}

		s := &types.StructType{
			TypeName: strings.TrimPrefix(x.Name, "%"),
		}

		body, ok := tp.Deref(x).(*tp.Struct)
		if !ok {
			if r := x.Resolved(); r != nil {
				return c.conv(r)
			}

			s.Opaque = true

			return s, nil
		}

		c.named[x] = s

		s.Fields, err = c.list(body.Fields)
		if err != nil {
			return nil, errors.Wrap(err, "%v", x.Name)
		}

		return s, nil
	}

	return nil, errors.Wrap(ErrUnsupported, "%v", t)
}

func (c toConv) list(l []tp.Type) (r []types.Type, err error) {
	r = make([]types.Type, len(l))

	for i, t := range l {
		r[i], err = c.conv(t)
		if err != nil {
			return nil, errors.Wrap(err, "%d", i)
		}
	}

	return r, nil
}

func (c fromConv) conv(t types.Type) (_ tp.Type, err error) {
	switch x := t.(type) {
	case *types.VoidType:
		return tp.Void, nil
	case *types.IntType:
		for _, s := range tp.Scalars {
			if s.Bits != 0 && uint64(s.Bits) == x.BitSize {
				return s, nil
			}
		}
	case *types.ArrayType:
		el, err := c.conv(x.ElemType)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}

		return tp.NewArray(int(x.Len), el), nil
	case *types.StructType:
		if x.TypeName == "" {
			return c.structType(x)
		}

		name := "%" + x.TypeName

		if n, ok := c.named[name]; ok {
			return n, nil
		}

		if x.Opaque {
			c.named[name] = tp.Void
			return tp.Void, nil
		}

		n := tp.NewNamed(name)
		c.named[name] = n

		s, err := c.structType(x)
		if err != nil {
			return nil, errors.Wrap(err, "%v", name)
		}

		err = n.Bind(s)
		if err != nil {
			return nil, err
		}

		c.named[name] = s

		return s, nil
	case *types.PointerType:
		if x.ElemType == nil {
			break
		}

		el, err := c.conv(x.ElemType)
		if err != nil {
			return nil, errors.Wrap(err, "pointer")
		}

		return tp.NewPtr(el), nil
	case *types.FuncType:
		ret, err := c.conv(x.RetType)
		if err != nil {
			return nil, errors.Wrap(err, "return type")
		}

		ps, err := c.list(x.Params)
		if err != nil {
			return nil, errors.Wrap(err, "params")
		}

		return tp.NewFunc(ret, ps, x.Variadic), nil
	}

	return nil, errors.Wrap(ErrUnsupported, "%v", t)
}

func (c fromConv) structType(x *types.StructType) (tp.Type, error) {
	fs, err := c.list(x.Fields)
	if err != nil {
		return nil, errors.Wrap(err, "struct")
	}

	return tp.NewStruct(fs...), nil
}

func (c fromConv) list(l []types.Type) (r []tp.Type, err error) {
	r = make([]tp.Type, len(l))

	for i, t := range l {
		r[i], err = c.conv(t)
		if err != nil {
			return nil, errors.Wrap(err, "%d", i)
		}
	}

	return r, nil
}
