package main

import (
	"github.com/nikandfor/hacked/hfmt"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/tstanisl/llipy/ll/tp"
)

type layout struct {
	Type   string `yaml:"type"`
	Offset int    `yaml:"offset"`
	Size   int    `yaml:"size"`

	// Count is set for arrays. Elems then holds the first element only.
	Count int      `yaml:"count,omitempty"`
	Elems []layout `yaml:"elems,omitempty"`
}

func newLayout(t tp.Type, off int) (l layout, err error) {
	l.Type = t.String()
	l.Offset = off

	l.Size, err = t.Size()
	if err != nil {
		return l, err
	}

	c, ok := tp.Deref(t).(tp.Compound)
	if !ok {
		return l, nil
	}

	n := c.Len()

	if a, ok := c.(*tp.Array); ok {
		l.Count = a.Count

		if n > 1 {
			n = 1
		}
	}

	for i := 0; i < n; i++ {
		o, err := c.Offset(i)
		if err != nil {
			return l, errors.Wrap(err, "elem %d", i)
		}

		e, err := newLayout(c.Elem(i), off+o)
		if err != nil {
			return l, errors.Wrap(err, "elem %d", i)
		}

		l.Elems = append(l.Elems, e)
	}

	return l, nil
}

func (l layout) YAML() ([]byte, error) {
	return yaml.Marshal(l)
}

func (l layout) AppendText(b []byte, depth int) []byte {
	for i := 0; i < depth; i++ {
		b = append(b, "  "...)
	}

	b = hfmt.Appendf(b, "%4d %4d  %s", l.Offset, l.Size, l.Type)

	if l.Count != 0 {
		b = hfmt.Appendf(b, "  x%d", l.Count)
	}

	b = append(b, '\n')

	for _, e := range l.Elems {
		b = e.AppendText(b, depth+1)
	}

	return b
}
