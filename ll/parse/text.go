package parse

import (
	"bytes"
	"context"
	"strings"

	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/ast"
)

type (
	Const []byte

	// Keyword matches Word not followed by an identifier char
	// and returns Value, or the matched word if Value is nil.
	Keyword struct {
		Word  string
		Value ast.Node
	}

	// Local is %name or %"quoted name".
	Local struct{}

	// Global is @name or @"quoted name".
	Global struct{}

	// QStr is a double quoted string with backslash escapes.
	QStr struct{}

	RestOfLine struct{}
)

// Keywords returns a first match wins choice over space separated words.
func Keywords(words string) AnyOf {
	var p AnyOf

	for _, w := range strings.Fields(words) {
		p = append(p, Keyword{Word: w})
	}

	return p
}

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Keyword) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	end := st + len(p.Word)

	if !bytes.HasPrefix(b[st:], []byte(p.Word)) || end < len(b) && isKeywordChar(b[end]) {
		return nil, st, errors.New("%q expected", p.Word)
	}

	if p.Value != nil {
		return p.Value, end, nil
	}

	return ast.Word{
		Base: ast.Base{Pos: st, End: end},
		Word: p.Word,
	}, end, nil
}

func (p Local) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i, err = parseName(ctx, b, st, '%')
	if err != nil {
		return nil, i, err
	}

	return ast.Local{
		Base: ast.Base{Pos: st, End: i},
		Name: string(b[st:i]),
	}, i, nil
}

func (p Global) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i, err = parseName(ctx, b, st, '@')
	if err != nil {
		return nil, i, err
	}

	return ast.Global{
		Base: ast.Base{Pos: st, End: i},
		Name: string(b[st:i]),
	}, i, nil
}

func parseName(ctx context.Context, b []byte, st int, sigil byte) (i int, err error) {
	if st == len(b) || b[st] != sigil {
		return st, errors.New("%c identifier expected", sigil)
	}

	i = st + 1

	if i < len(b) && b[i] == '"' {
		_, i, err = QStr{}.Parse(ctx, b, i)
		if err != nil {
			return i, errors.Wrap(err, "quoted name")
		}

		return i, nil
	}

	for i < len(b) && (isWordChar(b[i]) || b[i] == '.') {
		i++
	}

	if i == st+1 {
		return st, errors.New("%c identifier expected", sigil)
	}

	return i, nil
}

func (p QStr) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '"' {
		return nil, st, errors.New("string expected")
	}

	var v []byte

	for i = st + 1; i < len(b); i++ {
		switch b[i] {
		case '"':
			return ast.Str{
				Base:  ast.Base{Pos: st, End: i + 1},
				Value: string(v),
			}, i + 1, nil
		case '\\':
			i++

			if i == len(b) {
				return nil, i, errors.New("unterminated string")
			}
		case '\n':
			return nil, i, errors.New("newline in string")
		}

		v = append(v, b[i])
	}

	return nil, i, errors.New("unterminated string")
}

func (p RestOfLine) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return nil, skipLine(b, st), nil
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isKeywordChar(c byte) bool {
	return isWordChar(c) || c == '$'
}
