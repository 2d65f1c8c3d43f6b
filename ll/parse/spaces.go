package parse

import (
	"context"

	"github.com/tstanisl/llipy/ll/ast"
)

type (
	Skipper interface {
		Skip(b []byte, st int) int
	}

	Spaces uint64

	// Comments skips Spaces and line comments started with Start.
	Comments struct {
		Spaces Spaces
		Start  byte
	}

	Spacer struct {
		Spaces Skipper
		Of     Parser
	}
)

var (
	SpaceAll = NewSpaces(' ', '\t', '\r', '\n')

	Blank = Comments{Spaces: SpaceAll, Start: ';'}
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

func (c Comments) Skip(b []byte, st int) (i int) {
	i = c.Spaces.Skip(b, st)

	for i < len(b) && b[i] == c.Start {
		i = skipLine(b, i)
		i = c.Spaces.Skip(b, i)
	}

	return i
}

func Spaced(p Parser, ss Skipper) Spacer {
	return Spacer{
		Spaces: ss,
		Of:     p,
	}
}

// sp skips blanks and comments before p.
func sp(p Parser) Spacer {
	return Spaced(p, Blank)
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := p.Spaces.Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil {
		if i == vst && vst != st {
			return nil, st, errorAt(vst, err)
		}

		return nil, i, err
	}

	return
}

func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}
