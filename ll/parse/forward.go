package parse

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"

	"github.com/tstanisl/llipy/ll/ast"
)

type (
	// Forward is a parser which can be referred to before it is defined.
	// It's bound once while the grammar is built and is read-only after that.
	Forward struct {
		p    Parser
		decl loc.PC
	}
)

func NewForward() *Forward {
	return &Forward{decl: loc.Caller(1)}
}

func (f *Forward) Bind(p Parser) {
	if f.p != nil {
		panic("forward parser bound twice")
	}

	f.p = p
}

func (f *Forward) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if f.p == nil {
		return nil, st, errors.New("forward parser declared at %v is not bound", f.decl)
	}

	return f.p.Parse(ctx, b, st)
}
