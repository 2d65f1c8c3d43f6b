package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/ast"
	"github.com/tstanisl/llipy/ll/tp"
)

// Format appends the IR text of x to b.
// Formatted text parses back to an equal module.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Module:
		return formatModule(ctx, b, x)
	case *ast.TypeDef:
		return formatTypeDef(b, x), nil
	case *ast.GlobalDef:
		return formatGlobal(b, x)
	case tp.Type:
		return tp.AppendText(b, x), nil
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatModule(ctx context.Context, b []byte, m *ast.Module) (_ []byte, err error) {
	for _, d := range m.Defs {
		b, err = Format(ctx, b, d)
		if err != nil {
			return nil, errors.Wrap(err, "%T", d)
		}

		b = append(b, '\n')
	}

	return b, nil
}

func formatTypeDef(b []byte, d *ast.TypeDef) []byte {
	b = hfmt.Appendf(b, "%s = type ", d.Name)

	if d.Opaque {
		return append(b, "opaque"...)
	}

	return tp.AppendText(b, d.Type)
}

func formatGlobal(b []byte, g *ast.GlobalDef) (_ []byte, err error) {
	b = hfmt.Appendf(b, "%s = ", g.Name)

	if g.Linkage != "" && g.Linkage != ast.DefaultLinkage {
		b = hfmt.Appendf(b, "%s ", g.Linkage)
	}

	for _, a := range g.Attrs {
		b = hfmt.Appendf(b, "%s ", a)
	}

	if g.Constant {
		b = append(b, "constant "...)
	} else {
		b = append(b, "global "...)
	}

	b = tp.AppendText(b, g.Type)

	switch v := g.Value.(type) {
	case nil:
	case ast.Sentinel:
		switch {
		case v == ast.Undef:
		case v == ast.ZeroInit && isPtr(g.Type):
			b = append(b, " null"...)
		default:
			b = hfmt.Appendf(b, " %v", v)
		}
	case int64:
		b = hfmt.Appendf(b, " %d", v)
	case bool:
		b = hfmt.Appendf(b, " %v", v)
	default:
		return nil, errors.New("unsupported value: %T", v)
	}

	if g.Section != "" {
		b = append(b, ", section "...)
		b = appendQuoted(b, g.Section)
	}

	if g.Align != 0 {
		b = hfmt.Appendf(b, ", align %d", g.Align)
	}

	for _, m := range g.Meta {
		b = hfmt.Appendf(b, ", %s %s", m.Key, m.Value)
	}

	return b, nil
}

// appendQuoted escapes with a backslash only what the string parser needs.
func appendQuoted(b []byte, s string) []byte {
	b = append(b, '"')

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\', '\n':
			b = append(b, '\\')
		}

		b = append(b, s[i])
	}

	return append(b, '"')
}

func isPtr(t tp.Type) bool {
	_, ok := tp.Deref(t).(*tp.Ptr)
	return ok
}
