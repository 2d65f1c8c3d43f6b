package tp

import "strconv"

// AppendText appends t in IR syntax.
func AppendText(b []byte, t Type) []byte {
	switch x := t.(type) {
	case *Scalar:
		return append(b, x.name...)
	case *Array:
		b = append(b, '[')
		b = strconv.AppendInt(b, int64(x.Count), 10)
		b = append(b, " x "...)
		b = AppendText(b, x.X)

		return append(b, ']')
	case *Struct:
		if len(x.Fields) == 0 {
			return append(b, "{}"...)
		}

		b = append(b, "{ "...)
		b = appendList(b, x.Fields)

		return append(b, " }"...)
	case *Ptr:
		b = AppendText(b, x.X)

		return append(b, '*')
	case *Func:
		b = AppendText(b, x.Ret)
		b = append(b, " ("...)
		b = appendList(b, x.Params)

		if x.Variadic {
			if len(x.Params) != 0 {
				b = append(b, ", "...)
			}

			b = append(b, "..."...)
		}

		return append(b, ')')
	case *Named:
		return append(b, x.Name...)
	case nil:
		return append(b, "<nil>"...)
	default:
		panic(x)
	}
}

func appendList(b []byte, l []Type) []byte {
	for i, t := range l {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = AppendText(b, t)
	}

	return b
}

func (x *Scalar) String() string { return x.name }
func (x *Array) String() string  { return string(AppendText(nil, x)) }
func (x *Struct) String() string { return string(AppendText(nil, x)) }
func (x *Ptr) String() string    { return string(AppendText(nil, x)) }
func (x *Func) String() string   { return string(AppendText(nil, x)) }
func (x *Named) String() string  { return x.Name }
