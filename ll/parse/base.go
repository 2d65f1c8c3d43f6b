package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/ast"
)

type (
	None struct{}

	Optional struct {
		Parser
	}

	// AllOf is a sequence. Once its first element matched
	// any failure is final.
	AllOf []Parser

	// AnyOf returns the first alternative that matches.
	AnyOf []Parser

	// Many matches its parser zero or more times.
	Many struct {
		Of Parser
	}

	// List is a Sep separated list of Of. No trailing Sep is allowed.
	List struct {
		Of  Parser
		Sep Parser

		Empty bool
	}

	Map struct {
		Of Parser
		F  func(ctx context.Context, x ast.Node, st, end int) (ast.Node, error)
	}

	// Label names what the parser expects in error messages.
	Label struct {
		Name string
		Of   Parser
	}
)

func (None) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	return None{}, st, nil
}

func (p Optional) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Parser.Parse(ctx, b, st)
	if err != nil && i == st {
		return None{}, st, nil
	}

	return
}

func (p AllOf) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	res := make([]ast.Node, len(p))

	for j, r := range p {
		x, i, err = r.Parse(ctx, b, i)
		if err != nil {
			return nil, i, err
		}

		res[j] = x
	}

	return res, i, nil
}

func (p AnyOf) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	for _, r := range p {
		x, j, e := r.Parse(ctx, b, st)
		if e == nil {
			return x, j, nil
		}
		if j == st {
			continue
		}

		return nil, j, e
	}

	return nil, st, errors.New("expected %v", joinHuman(p...))
}

func (p Many) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	var res []ast.Node

	i = st

	for i < len(b) {
		var x ast.Node
		j := i

		x, i, err = p.Of.Parse(ctx, b, i)
		if err != nil {
			if i == j {
				break
			}

			return nil, i, err
		}
		if i == j {
			break
		}

		res = append(res, x)
	}

	return res, i, nil
}

func (p List) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	var x ast.Node

	x, i, err = p.Of.Parse(ctx, b, st)
	if err != nil {
		if i == st && p.Empty {
			return []ast.Node{}, st, nil
		}

		return nil, i, err
	}

	res := []ast.Node{x}

	for {
		j := i

		_, i, err = p.Sep.Parse(ctx, b, j)
		if err != nil {
			if i == j {
				return res, j, nil
			}

			return nil, i, err
		}

		sep := i

		x, i, err = p.Of.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "after separator at %d", sep)
		}

		res = append(res, x)
	}
}

func (p Map) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Of.Parse(ctx, b, st)
	if err != nil {
		return
	}

	x, err = p.F(ctx, x, st, i)
	if err != nil {
		return nil, i, err
	}

	return x, i, nil
}

func (p Label) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Of.Parse(ctx, b, st)
	if err != nil && i == st {
		return nil, st, errors.New("%v expected", p.Name)
	}

	return
}

func joinHuman(l ...Parser) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return describe(l[0])
	}

	var b strings.Builder

	for i, r := range l {
		if i+1 == len(l) {
			b.WriteString(" or ")
		} else if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(describe(r))
	}

	return b.String()
}

func describe(p Parser) string {
	switch p := p.(type) {
	case Label:
		return p.Name
	case Spacer:
		return describe(p.Of)
	case Const:
		return fmt.Sprintf("%q", []byte(p))
	case Keyword:
		return fmt.Sprintf("%q", p.Word)
	default:
		return fmt.Sprintf("%T", p)
	}
}
