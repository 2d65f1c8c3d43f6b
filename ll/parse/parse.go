package parse

import (
	"bytes"
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tstanisl/llipy/ll/ast"
	"github.com/tstanisl/llipy/ll/tp"
)

type (
	State struct {
		b []byte // all files concatenated

		files []file

		mod   *ast.Module
		named map[string]*tp.Named

		// aggregates built over names which were not bound yet
		pending []tp.Type
	}

	file struct {
		base int
		size int
		name string
	}

	// Parser returns i == st on a failure that consumed nothing,
	// so that the caller is free to try another alternative.
	// A failure with i > st is final.
	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	SyntaxError struct {
		File string
		Pos  int
		Line int
		Col  int

		Err error
	}

	PartialReadError struct {
		File string
		Pos  int
		Line int
		Col  int
	}

	// posError overrides the position a failure is reported at.
	posError struct {
		pos int
		err error
	}

	stateCtxKey struct{}
)

var ErrRedefined = errors.New("type redefinition")

// Parse parses a whole module.
func Parse(ctx context.Context, text []byte) (*ast.Module, error) {
	s := New()

	s.AddFile("", text)

	return s.Parse(ctx)
}

// ParseType parses a single type expression.
func ParseType(ctx context.Context, text []byte) (tp.Type, error) {
	return ParseTypeIn(ctx, nil, text)
}

// ParseTypeIn parses a type expression which may refer to the given typedefs.
func ParseTypeIn(ctx context.Context, types map[string]tp.Type, text []byte) (tp.Type, error) {
	s := New()

	for name, t := range types {
		s.mod.Types[name] = t
	}

	s.AddFile("", text)

	return s.ParseType(ctx)
}

// ParseGlobal parses a single global variable definition.
func ParseGlobal(ctx context.Context, text []byte) (*ast.GlobalDef, error) {
	s := New()

	s.AddFile("", text)

	return s.ParseGlobal(ctx)
}

func New() *State {
	return &State{
		mod: &ast.Module{
			Types: map[string]tp.Type{},
		},
		named: map[string]*tp.Named{},
	}
}

func (s *State) AddFile(name string, text []byte) {
	f := file{
		name: name,
		base: len(s.b),
		size: len(text),
	}

	s.b = append(s.b, text...)

	s.files = append(s.files, f)
}

func (s *State) Parse(ctx context.Context) (m *ast.Module, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse module", "size", len(s.b), "files", len(s.files))
	defer tr.Finish("err", &err)

	_, err = s.run(ctx, grammar.Module)
	if err != nil {
		return nil, err
	}

	tr.Printw("module parsed", "typedefs", len(s.mod.TypeDefs), "globals", len(s.mod.Globals), "defs", len(s.mod.Defs))

	return s.mod, nil
}

func (s *State) ParseType(ctx context.Context) (tp.Type, error) {
	x, err := s.run(ctx, grammar.Type)
	if err != nil {
		return nil, err
	}

	return x.(tp.Type), nil
}

func (s *State) ParseGlobal(ctx context.Context) (*ast.GlobalDef, error) {
	x, err := s.run(ctx, grammar.GlobalDef)
	if err != nil {
		return nil, err
	}

	return x.(*ast.GlobalDef), nil
}

func (s *State) run(ctx context.Context, p Parser) (x ast.Node, err error) {
	ctx = context.WithValue(ctx, stateCtxKey{}, s)

	st := Blank.Skip(s.b, 0)

	x, i, err := p.Parse(ctx, s.b, st)
	if err != nil {
		var pe posError
		if errors.As(err, &pe) {
			i = pe.pos
		}

		return nil, s.syntaxError(i, err)
	}

	i = Blank.Skip(s.b, i)

	if i != len(s.b) {
		e := &PartialReadError{Pos: i}
		e.File, e.Line, e.Col = s.position(i)

		return nil, e
	}

	s.relayout()

	return x, nil
}

// track remembers an aggregate whose layout waits for a name to be bound.
func (s *State) track(t tp.Type) {
	if _, err := t.Size(); errors.Is(err, tp.ErrUnresolved) {
		s.pending = append(s.pending, t)
	}
}

// relayout lays pending aggregates out again until a pass resolves none.
func (s *State) relayout() {
	for progress := true; progress && len(s.pending) != 0; {
		progress = false
		left := s.pending[:0]

		for _, t := range s.pending {
			if tp.Relayout(t) {
				progress = true
				continue
			}

			left = append(left, t)
		}

		s.pending = left
	}
}

// define binds a typedef name. Earlier uses of the name get resolved.
func (s *State) define(name string, t tp.Type) error {
	if _, ok := s.mod.Types[name]; ok {
		return errors.Wrap(ErrRedefined, "%v", name)
	}

	if n, ok := s.named[name]; ok {
		err := n.Bind(t)
		if err != nil {
			return err
		}

		delete(s.named, name)
	}

	s.mod.Types[name] = t

	return nil
}

// lookup returns the type bound to name,
// or the placeholder standing for it until it is defined.
func (s *State) lookup(name string) tp.Type {
	if t, ok := s.mod.Types[name]; ok {
		return t
	}

	n, ok := s.named[name]
	if !ok {
		n = tp.NewNamed(name)
		s.named[name] = n
	}

	return n
}

func (s *State) syntaxError(pos int, err error) *SyntaxError {
	e := &SyntaxError{Pos: pos, Err: err}
	e.File, e.Line, e.Col = s.position(pos)

	return e
}

func (s *State) position(pos int) (name string, line, col int) {
	base := 0

	for _, f := range s.files {
		if pos >= f.base && pos <= f.base+f.size {
			name, base = f.name, f.base
			break
		}
	}

	line = 1 + bytes.Count(s.b[base:pos], []byte{'\n'})

	ls := bytes.LastIndexByte(s.b[base:pos], '\n') + 1

	return name, line, pos - base - ls + 1
}

func StateFromContext(ctx context.Context) *State {
	s, _ := ctx.Value(stateCtxKey{}).(*State)
	return s
}

func errorAt(pos int, err error) error {
	return posError{pos: pos, err: err}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%d:%d: %v", e.File, e.Line, e.Col, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *PartialReadError) Error() string {
	return fmt.Sprintf("%v:%d:%d: unexpected input", e.File, e.Line, e.Col)
}

func (e posError) Error() string { return e.err.Error() }

func (e posError) Unwrap() error { return e.err }
