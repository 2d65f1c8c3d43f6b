package ast

import (
	"tlog.app/go/tlog/tlwire"

	"github.com/tstanisl/llipy/ll/tp"
)

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	Int struct {
		Base `tlog:",embed"`

		Value int64
	}

	Local struct {
		Base `tlog:",embed"`

		Name string
	}

	Global struct {
		Base `tlog:",embed"`

		Name string
	}

	Str struct {
		Base `tlog:",embed"`

		Value string
	}

	Word struct {
		Base `tlog:",embed"`

		Word string
	}

	Noise struct {
		Base `tlog:",embed"`
	}

	Module struct {
		Defs []Node

		TypeDefs []*TypeDef
		Globals  []*GlobalDef

		Types map[string]tp.Type
	}

	TypeDef struct {
		Base `tlog:",embed"`

		Name   string
		Type   tp.Type
		Opaque bool
	}

	GlobalDef struct {
		Base `tlog:",embed"`

		Name     string
		Linkage  string
		Attrs    []string
		Constant bool
		Type     tp.Type
		Value    Value
		Align    int
		Section  string
		Meta     []Meta
	}

	Meta struct {
		Key   string
		Value string
	}

	// Value is an int64, a bool or a Sentinel.
	Value interface{}

	Sentinel int
)

const (
	_ Sentinel = iota

	Undef
	ZeroInit
)

const DefaultLinkage = "external"

func (s Sentinel) String() string {
	switch s {
	case Undef:
		return "undef"
	case ZeroInit:
		return "zeroinitializer"
	default:
		return "<bad sentinel>"
	}
}

func (s Sentinel) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, s.String())
}

func (m *Module) Global(name string) *GlobalDef {
	for _, g := range m.Globals {
		if g.Name == name {
			return g
		}
	}

	return nil
}
