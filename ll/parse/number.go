package parse

import (
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/ast"
)

type (
	// Number is an optionally negative decimal integer.
	Number struct{}
)

func (p Number) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if i < len(b) && b[i] == '-' {
		i++
	}

	dst := i

	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	if i == dst {
		return nil, st, errors.New("number expected")
	}

	v, err := strconv.ParseInt(string(b[st:i]), 10, 64)
	if err != nil {
		return nil, i, errors.Wrap(err, "number")
	}

	return ast.Int{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Value: v,
	}, i, nil
}
