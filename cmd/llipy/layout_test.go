package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tstanisl/llipy/ll/parse"
	"github.com/tstanisl/llipy/ll/tp"
)

func TestLayout(t *testing.T) {
	ctx := context.Background()

	x, err := parse.ParseType(ctx, []byte("{ i8, [3 x i16], i32* }"))
	require.NoError(t, err)

	l, err := newLayout(x, 0)
	require.NoError(t, err)

	assert.Equal(t, 11, l.Size)
	require.Len(t, l.Elems, 3)

	assert.Equal(t, 0, l.Elems[0].Offset)
	assert.Equal(t, 1, l.Elems[1].Offset)
	assert.Equal(t, 3, l.Elems[1].Count)
	require.Len(t, l.Elems[1].Elems, 1)
	assert.Equal(t, 6, l.Elems[1].Size)
	assert.Equal(t, 7, l.Elems[2].Offset)
	assert.Equal(t, 4, l.Elems[2].Size)

	b, err := l.YAML()
	require.NoError(t, err)

	var back layout
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, l, back)

	text := string(l.AppendText(nil, 0))
	assert.Contains(t, text, "   0   11  { i8, [3 x i16], i32* }\n")
	assert.Contains(t, text, "     1    6  [3 x i16]  x3\n")
}

func TestLayoutNamed(t *testing.T) {
	ctx := context.Background()

	m, err := parse.Parse(ctx, []byte("%p = type { i8, i16 }\n"))
	require.NoError(t, err)

	x, err := parse.ParseTypeIn(ctx, m.Types, []byte("[2 x %p]"))
	require.NoError(t, err)

	l, err := newLayout(x, 0)
	require.NoError(t, err)

	assert.Equal(t, 6, l.Size)
	require.Len(t, l.Elems, 1)
	assert.Len(t, l.Elems[0].Elems, 2)
	assert.Equal(t, 1, l.Elems[0].Elems[1].Offset)
}

func TestLayoutUnsized(t *testing.T) {
	ctx := context.Background()

	x, err := parse.ParseType(ctx, []byte("{ i8, void (i8) }"))
	require.NoError(t, err)

	_, err = newLayout(x, 0)
	assert.ErrorIs(t, err, tp.ErrNoSize)
}
