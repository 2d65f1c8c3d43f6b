package llirconv

import (
	"context"
	"testing"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstanisl/llipy/ll/parse"
	"github.com/tstanisl/llipy/ll/tp"
)

const module = `target triple = "i386-pc-linux-gnu"

%struct.node = type { i32, %struct.node* }
%struct.pair = type { i8, i16 }
%struct.handle = type opaque

@head = global %struct.node* null, align 4
@p = global %struct.pair zeroinitializer
@arr = internal constant [3 x %struct.pair] zeroinitializer
@h = external global %struct.handle*
@fp = global void (i8, ...)* null
@m = global [2 x [4 x i64]] zeroinitializer
@b = global i1 true
@s = global { i8, { i16, i32* } } zeroinitializer
`

func TestCrossCheck(t *testing.T) {
	ctx := context.Background()

	m, err := parse.Parse(ctx, []byte(module))
	require.NoError(t, err)

	ref, err := asm.ParseString("cross.ll", module)
	require.NoError(t, err)

	require.Len(t, ref.Globals, len(m.Globals))

	for i, rg := range ref.Globals {
		g := m.Globals[i]

		assert.Equal(t, g.Name, "@"+rg.Name())

		x, err := FromLLIR(rg.ContentType)
		if !assert.NoError(t, err, g.Name) {
			continue
		}

		assert.True(t, tp.Equal(g.Type, x), "%v: ours %v, llir %v", g.Name, g.Type, x)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, text := range []string{
		"void",
		"i1",
		"i64",
		"[4 x i1]",
		"{}",
		"{ i8, [2 x i16*] }",
		"void (i8, i16)*",
		"void ()* ()",
		"i32 (i8*, ...)",
	} {
		x, err := parse.ParseType(ctx, []byte(text))
		require.NoError(t, err, text)

		y, err := ToLLIR(x)
		require.NoError(t, err, text)

		z, err := FromLLIR(y)
		require.NoError(t, err, text)

		assert.True(t, tp.Equal(x, z), "%q: %v", text, z)
	}
}

func TestNamed(t *testing.T) {
	ctx := context.Background()

	m, err := parse.Parse(ctx, []byte("%list = type { i32, %list* }\n%h = type opaque\n@x = global %missing* null\n"))
	require.NoError(t, err)

	y, err := ToLLIR(m.Types["%list"])
	require.NoError(t, err)

	s, ok := y.(*types.StructType)
	require.True(t, ok)
	require.Len(t, s.Fields, 2)

	p, ok := s.Fields[1].(*types.PointerType)
	require.True(t, ok)

	named, ok := p.ElemType.(*types.StructType)
	require.True(t, ok)
	assert.Equal(t, "list", named.TypeName)

	z, err := FromLLIR(y)
	require.NoError(t, err)
	assert.True(t, tp.Equal(m.Types["%list"], z))

	y, err = ToLLIR(m.Global("@x").Type)
	require.NoError(t, err)

	opq := y.(*types.PointerType).ElemType.(*types.StructType)
	assert.True(t, opq.Opaque)
	assert.Equal(t, "missing", opq.TypeName)
}

func TestUnsupported(t *testing.T) {
	_, err := FromLLIR(types.Double)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = FromLLIR(types.NewInt(7))
	assert.ErrorIs(t, err, ErrUnsupported)
}
