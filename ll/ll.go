package ll

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tstanisl/llipy/ll/ast"
	"github.com/tstanisl/llipy/ll/parse"
)

func ParseFile(ctx context.Context, name string) (*ast.Module, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Parse(ctx, name, text)
}

func Parse(ctx context.Context, name string, text []byte) (m *ast.Module, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "ll: parse", "name", name)
	defer tr.Finish("err", &err)

	st := parse.New()

	st.AddFile(name, text)

	m, err = st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", name)
	}

	if tr.If("dump_module") {
		for _, d := range m.TypeDefs {
			tr.Printw("typedef", "name", d.Name, "type", d.Type, "opaque", d.Opaque)
		}

		for _, g := range m.Globals {
			tr.Printw("global", "name", g.Name, "type", g.Type, "value", g.Value, "linkage", g.Linkage)
		}
	}

	return m, nil
}
