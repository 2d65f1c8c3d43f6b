package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/ast"
)

type (
	// Postfix parses Base followed by any number of Suffix.
	// Suffixes are applied left to right, each to the result so far.
	Postfix struct {
		Base   Parser
		Suffix Parser
	}

	Suffix interface {
		Apply(x ast.Node) (ast.Node, error)
	}
)

func (p Postfix) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Base.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	for i < len(b) {
		var op ast.Node
		opst := i

		op, i, err = p.Suffix.Parse(ctx, b, i)
		if err != nil {
			if i == opst {
				return x, opst, nil
			}

			return nil, i, err
		}

		c, ok := op.(Suffix)
		if !ok {
			return nil, i, errors.New("suffix expected, got %T", op)
		}

		x, err = c.Apply(x)
		if err != nil {
			return nil, i, errors.Wrap(err, "%T", c)
		}
	}

	return x, i, nil
}
