package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/ast"
	"github.com/tstanisl/llipy/ll/tp"
)

type (
	namedRef struct{}

	ptrSuffix struct{}

	argsSuffix struct {
		Elem Parser
	}

	ptrOp struct{}

	funcOp struct {
		params   []tp.Type
		variadic bool
	}
)

func (g *Grammar) buildTypes() {
	typ := sp(g.Type)

	var scalars AnyOf
	for _, s := range tp.Scalars {
		scalars = append(scalars, Keyword{Word: s.String(), Value: s})
	}

	g.Scalar = scalars

	count := Map{
		Of: Number{},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			if x.(ast.Int).Value < 0 {
				return nil, errorAt(st, errors.New("negative array length"))
			}

			return x, nil
		},
	}

	g.Array = Map{
		Of: AllOf{
			Const("["),
			sp(Label{Name: "array length", Of: count}),
			sp(Keyword{Word: "x"}),
			typ,
			sp(Const("]")),
		},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			xs := x.([]ast.Node)

			a := tp.NewArray(int(xs[1].(ast.Int).Value), xs[3].(tp.Type))

			if s := StateFromContext(ctx); s != nil {
				s.track(a)
			}

			return a, nil
		},
	}

	g.Struct = Map{
		Of: AllOf{
			Const("{"),
			List{Of: typ, Sep: sp(Const(",")), Empty: true},
			sp(Const("}")),
		},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			xs := x.([]ast.Node)[1].([]ast.Node)

			fs := make([]tp.Type, len(xs))
			for i, f := range xs {
				fs[i] = f.(tp.Type)
			}

			t := tp.NewStruct(fs...)

			if s := StateFromContext(ctx); s != nil {
				s.track(t)
			}

			return t, nil
		},
	}

	g.NamedRef = namedRef{}

	g.Suffix = sp(AnyOf{
		ptrSuffix{},
		argsSuffix{Elem: g.Type},
	})

	g.Type.Bind(Postfix{
		Base: Label{
			Name: "type",
			Of: AnyOf{
				g.Scalar,
				g.Array,
				g.Struct,
				g.NamedRef,
			},
		},
		Suffix: g.Suffix,
	})
}

func (p namedRef) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Local{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	s := StateFromContext(ctx)
	if s == nil {
		return nil, st, errors.New("named type outside of module")
	}

	return s.lookup(x.(ast.Local).Name), i, nil
}

func (p ptrSuffix) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '*' {
		return nil, st, errors.New("'*' expected")
	}

	return ptrOp{}, st + 1, nil
}

func (p argsSuffix) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '(' {
		return nil, st, errors.New("'(' expected")
	}

	var op funcOp

	i = Blank.Skip(b, st+1)

	if i < len(b) && b[i] == ')' {
		return op, i + 1, nil
	}

	for {
		if bytes.HasPrefix(b[i:], []byte("...")) {
			op.variadic = true

			i = Blank.Skip(b, i+3)

			if i == len(b) || b[i] != ')' {
				return nil, i, errors.New("')' expected after '...'")
			}

			return op, i + 1, nil
		}

		x, i, err = p.Elem.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "argument %d", len(op.params))
		}

		op.params = append(op.params, x.(tp.Type))

		i = Blank.Skip(b, i)

		switch {
		case i < len(b) && b[i] == ',':
			i = Blank.Skip(b, i+1)
		case i < len(b) && b[i] == ')':
			return op, i + 1, nil
		default:
			return nil, i, errors.New("',' or ')' expected")
		}
	}
}

func (ptrOp) Apply(x ast.Node) (ast.Node, error) {
	return tp.NewPtr(x.(tp.Type)), nil
}

func (op funcOp) Apply(x ast.Node) (ast.Node, error) {
	return tp.NewFunc(x.(tp.Type), op.params, op.variadic), nil
}
