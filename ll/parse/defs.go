package parse

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tstanisl/llipy/ll/ast"
	"github.com/tstanisl/llipy/ll/tp"
)

type (
	typeDef struct {
		Of Parser
	}

	module struct {
		Def Parser
	}

	// MetaRef is !name.
	MetaRef struct{}

	opaque   struct{}
	linkage  string
	alignOpt int64
	metaOpt  ast.Meta

	sectionOpt string
)

const (
	linkages = "private external internal common weak weak_odr linkonce linkonce_odr available_externally appending extern_weak"
	gattrs   = "default hidden protected dso_local dso_preemptable unnamed_addr local_unnamed_addr thread_local externally_initialized"
)

func (g *Grammar) buildDefs() {
	typ := sp(g.Type)

	g.Noise = Map{
		Of: AllOf{
			AnyOf{
				Keywords("target declare attributes source_filename"),
				Const("!"),
			},
			RestOfLine{},
		},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			return ast.Noise{Base: ast.Base{Pos: st, End: end}}, nil
		},
	}

	g.TypeDef = typeDef{
		Of: AllOf{
			Local{},
			sp(Const("=")),
			sp(Keyword{Word: "type"}),
			sp(AnyOf{
				Keyword{Word: "opaque", Value: opaque{}},
				g.Type,
			}),
		},
	}

	var preamble AnyOf

	for _, w := range Keywords(linkages) {
		w := w.(Keyword)
		w.Value = linkage(w.Word)

		preamble = append(preamble, w)
	}

	preamble = append(preamble, Keywords(gattrs)...)

	initializer := AnyOf{
		Number{},
		Keyword{Word: "zeroinitializer", Value: ast.ZeroInit},
		Keyword{Word: "null", Value: ast.ZeroInit},
		Keyword{Word: "undef", Value: ast.Undef},
		Keyword{Word: "true", Value: true},
		Keyword{Word: "false", Value: false},
	}

	align := Map{
		Of: AllOf{Keyword{Word: "align"}, sp(Label{Name: "alignment", Of: Number{}})},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			v := x.([]ast.Node)[1].(ast.Int).Value
			if v <= 0 || v&(v-1) != 0 {
				return nil, errorAt(st, errors.New("alignment is not a power of two: %d", v))
			}

			return alignOpt(v), nil
		},
	}

	section := Map{
		Of: AllOf{Keyword{Word: "section"}, sp(QStr{})},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			return sectionOpt(x.([]ast.Node)[1].(ast.Str).Value), nil
		},
	}

	meta := Map{
		Of: AllOf{MetaRef{}, sp(Label{Name: "metadata", Of: MetaRef{}})},
		F: func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
			xs := x.([]ast.Node)

			return metaOpt{Key: xs[0].(ast.Str).Value, Value: xs[1].(ast.Str).Value}, nil
		},
	}

	g.GlobalDef = Map{
		Of: AllOf{
			Global{},
			sp(Const("=")),
			Many{Of: sp(preamble)},
			sp(Label{Name: "global or constant", Of: Keywords("global constant")}),
			typ,
			Optional{sp(initializer)},
			Many{Of: sp(AllOf{
				Const(","),
				sp(Label{Name: "align, section or metadata", Of: AnyOf{align, section, meta}}),
			})},
		},
		F: newGlobalDef,
	}

	g.Module = module{
		Def: AnyOf{
			g.Noise,
			g.TypeDef,
			g.GlobalDef,
		},
	}
}

func newGlobalDef(ctx context.Context, x ast.Node, st, end int) (ast.Node, error) {
	xs := x.([]ast.Node)

	d := &ast.GlobalDef{
		Base:     ast.Base{Pos: st, End: end},
		Name:     xs[0].(ast.Global).Name,
		Constant: xs[3].(ast.Word).Word == "constant",
		Type:     xs[4].(tp.Type),
		Value:    ast.Undef,
	}

	for _, a := range xs[2].([]ast.Node) {
		switch a := a.(type) {
		case linkage:
			if d.Linkage == "" {
				d.Linkage = string(a)
			}
		case ast.Word:
			d.Attrs = append(d.Attrs, a.Word)
		}
	}

	if d.Linkage == "" {
		d.Linkage = ast.DefaultLinkage
	}

	switch v := xs[5].(type) {
	case None:
	case ast.Int:
		d.Value = v.Value
	default:
		d.Value = v
	}

	for _, o := range xs[6].([]ast.Node) {
		switch o := o.([]ast.Node)[1].(type) {
		case alignOpt:
			d.Align = int(o)
		case sectionOpt:
			d.Section = string(o)
		case metaOpt:
			d.Meta = append(d.Meta, ast.Meta(o))
		}
	}

	return d, nil
}

func (p typeDef) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Of.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	xs := x.([]ast.Node)

	d := &ast.TypeDef{
		Base: ast.Base{Pos: st, End: i},
		Name: xs[0].(ast.Local).Name,
	}

	switch t := xs[3].(type) {
	case opaque:
		d.Type = tp.Void
		d.Opaque = true
	default:
		d.Type = t.(tp.Type)
	}

	s := StateFromContext(ctx)
	if s == nil {
		return nil, st, errors.New("type definition outside of module")
	}

	err = s.define(d.Name, d.Type)
	if err != nil {
		return nil, i, errorAt(st, err)
	}

	return d, i, nil
}

func (p module) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	tr := tlog.SpanFromContext(ctx)
	s := StateFromContext(ctx)
	m := s.mod

	i = st

	for {
		j := Blank.Skip(b, i)
		if j == len(b) {
			return m, j, nil
		}

		x, i, err = p.Def.Parse(ctx, b, j)
		if err != nil && i == j {
			return m, j, nil
		}
		if err != nil {
			return nil, i, err
		}

		if tr.If("defs") {
			tr.Printw("definition", "pos", j, "end", i, "typ", tlog.NextAsType, x, "def", x)
		}

		switch x := x.(type) {
		case *ast.TypeDef:
			m.TypeDefs = append(m.TypeDefs, x)
		case *ast.GlobalDef:
			m.Globals = append(m.Globals, x)
		case ast.Noise:
			continue
		}

		m.Defs = append(m.Defs, x)
	}
}

func (p MetaRef) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i, err = parseName(ctx, b, st, '!')
	if err != nil {
		return nil, i, err
	}

	return ast.Str{
		Base:  ast.Base{Pos: st, End: i},
		Value: string(b[st:i]),
	}, i, nil
}
