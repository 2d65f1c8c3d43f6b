package tp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarSize(t *testing.T) {
	for _, tc := range []struct {
		t    *Scalar
		size int
	}{
		{Void, 0},
		{Int1, 1},
		{Int8, 1},
		{Int16, 2},
		{Int32, 4},
		{Int64, 8},
	} {
		s, err := tc.t.Size()
		assert.NoError(t, err, tc.t)
		assert.Equal(t, tc.size, s, tc.t)
	}
}

func TestScalarIdentity(t *testing.T) {
	for i, x := range Scalars {
		for j, y := range Scalars {
			assert.Equal(t, i == j, Equal(x, y), "%v %v", x, y)
		}
	}

	assert.False(t, Equal(Int8, &Scalar{Bits: 8, name: "i8"}))
}

func TestArrayLayout(t *testing.T) {
	for _, n := range []int{0, 1, 4, 50} {
		for _, el := range []Type{Int1, Int16, Int64, NewPtr(Int8), NewStruct(Int8, Int32)} {
			a := NewArray(n, el)
			es, err := el.Size()
			require.NoError(t, err)

			s, err := a.Size()
			require.NoError(t, err)
			assert.Equal(t, n*es, s, "%v", a)

			for i := 0; i < n; i++ {
				off, err := a.Offset(i)
				require.NoError(t, err)
				assert.Equal(t, i*es, off, "%v [%d]", a, i)
			}

			_, err = a.Offset(n)
			assert.ErrorIs(t, err, ErrIndex)
		}
	}

	s, err := NewArray(50, NewArray(4, Int32)).Size()
	require.NoError(t, err)
	assert.Equal(t, 800, s)

	s, err = NewArray(1, NewArray(2, NewArray(3, Int64))).Size()
	require.NoError(t, err)
	assert.Equal(t, 48, s)
}

func TestStructLayout(t *testing.T) {
	x := NewStruct(Int8, Int16, NewPtr(Int8), NewArray(3, Int32), Int1)

	s, err := x.Size()
	require.NoError(t, err)
	assert.Equal(t, 1+2+4+12+1, s)

	for i, want := range []int{0, 1, 3, 7, 19} {
		off, err := x.Offset(i)
		require.NoError(t, err)
		assert.Equal(t, want, off, "field %d", i)
	}

	_, err = x.Offset(5)
	assert.ErrorIs(t, err, ErrIndex)

	_, err = x.Offset(-1)
	assert.ErrorIs(t, err, ErrIndex)

	e := NewStruct()
	s, err = e.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, e.Len())
}

func TestPtrSize(t *testing.T) {
	for _, x := range []Type{
		NewPtr(Int8),
		NewPtr(NewPtr(Int32)),
		NewPtr(NewFunc(Void, nil, false)),
		NewPtr(NewStruct(Int64, Int64, Int64)),
		NewPtr(NewNamed("%unknown")),
	} {
		s, err := x.Size()
		assert.NoError(t, err, x)
		assert.Equal(t, PtrSize, s, x)
	}
}

func TestFuncHasNoSize(t *testing.T) {
	for _, f := range []*Func{
		NewFunc(Void, nil, false),
		NewFunc(Int1, []Type{Int1}, false),
		NewFunc(Void, []Type{Int8}, true),
		NewFunc(NewPtr(NewFunc(Void, nil, false)), nil, false),
		NewFunc(NewStruct(Int8), []Type{NewArray(2, Int8)}, true),
	} {
		_, err := f.Size()
		assert.ErrorIs(t, err, ErrNoSize, f)

		_, err = Offset(f, 0)
		assert.ErrorIs(t, err, ErrNoSize, f)

		_, err = NewStruct(Int8, f).Size()
		assert.ErrorIs(t, err, ErrNoSize, f)

		_, err = NewArray(2, f).Size()
		assert.ErrorIs(t, err, ErrNoSize, f)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NewArray(4, Int1), NewArray(4, Int1)))
	assert.False(t, Equal(NewArray(4, Int1), NewArray(5, Int1)))
	assert.False(t, Equal(NewArray(4, Int1), NewArray(4, Int8)))

	assert.True(t, Equal(NewStruct(Int8, Int16), NewStruct(Int8, Int16)))
	assert.False(t, Equal(NewStruct(Int8, Int16), NewStruct(Int16, Int8)))
	assert.False(t, Equal(NewStruct(Int8), NewStruct(Int8, Int8)))
	assert.True(t, Equal(NewStruct(), NewStruct()))

	assert.True(t, Equal(NewPtr(Int8), NewPtr(Int8)))
	assert.False(t, Equal(NewPtr(Int8), Int8))

	f := func(v bool, p ...Type) *Func { return NewFunc(Void, p, v) }

	assert.True(t, Equal(f(false, Int8, Int16), f(false, Int8, Int16)))
	assert.False(t, Equal(f(false, Int8), f(true, Int8)))
	assert.False(t, Equal(f(false, Int8), f(false)))
	assert.False(t, Equal(NewFunc(Int8, nil, false), f(false)))

	assert.False(t, Equal(NewStruct(Int8), NewArray(1, Int8)))
}

func TestNamed(t *testing.T) {
	n := NewNamed("%list")

	_, err := n.Size()
	assert.ErrorIs(t, err, ErrUnresolved)

	s := NewStruct(Int32, NewPtr(n))
	require.NoError(t, n.Bind(s))

	sz, err := n.Size()
	require.NoError(t, err)
	assert.Equal(t, 8, sz)

	assert.True(t, Equal(n, s))
	assert.True(t, Equal(s, n))
	assert.False(t, Equal(n, NewNamed("%list")))
	assert.True(t, Equal(NewNamed("%x"), NewNamed("%x")))
	assert.False(t, Equal(NewNamed("%x"), NewNamed("%y")))

	m := NewNamed("%list2")
	require.NoError(t, m.Bind(NewStruct(Int32, NewPtr(m))))
	assert.True(t, Equal(n, m))

	l := NewNamed("%list3")
	require.NoError(t, l.Bind(NewStruct(Int64, NewPtr(l))))
	assert.False(t, Equal(n, l))

	assert.Error(t, n.Bind(Int8))

	self := NewNamed("%self")
	assert.Error(t, self.Bind(self))

	a, b := NewNamed("%a"), NewNamed("%b")
	require.NoError(t, a.Bind(b))
	assert.Error(t, b.Bind(a))
}

func TestEqualByShape(t *testing.T) {
	p, q := NewNamed("%P"), NewNamed("%Q")
	s := NewStruct(NewPtr(p), NewPtr(q))

	require.NoError(t, p.Bind(NewStruct(Int8)))
	require.NoError(t, q.Bind(NewStruct(Int8)))

	assert.True(t, Equal(s.Fields[0], s.Fields[1]))

	b1, b2 := NewNamed("%B"), NewNamed("%B")
	require.NoError(t, b1.Bind(NewStruct(Int8)))
	require.NoError(t, b2.Bind(NewStruct(Int64)))

	assert.False(t, Equal(NewStruct(NewPtr(b1)), NewStruct(NewPtr(b2))))

	// a <-> b mutually recursive vs a single self-recursive struct of the same shape
	a, b, c := NewNamed("%a"), NewNamed("%b"), NewNamed("%c")
	require.NoError(t, a.Bind(NewStruct(Int8, NewPtr(b))))
	require.NoError(t, b.Bind(NewStruct(Int8, NewPtr(a))))
	require.NoError(t, c.Bind(NewStruct(Int8, NewPtr(c))))

	assert.True(t, Equal(a, c))
	assert.True(t, Equal(c, b))
}

func TestRelayout(t *testing.T) {
	n := NewNamed("%later")
	s := NewStruct(Int8, n)
	a := NewArray(2, n)
	outer := NewStruct(s, a)

	_, err := s.Size()
	assert.ErrorIs(t, err, ErrUnresolved)

	assert.False(t, Relayout(outer))

	require.NoError(t, n.Bind(Int32))

	assert.True(t, Relayout(s))
	assert.True(t, Relayout(a))
	assert.True(t, Relayout(outer))

	sz, err := outer.Size()
	require.NoError(t, err)
	assert.Equal(t, 5+8, sz)

	off, err := outer.Offset(1)
	require.NoError(t, err)
	assert.Equal(t, 5, off)

	assert.True(t, Relayout(Int8))
	assert.True(t, Relayout(NewStruct(NewFunc(Void, nil, false))))
}

func TestTooLarge(t *testing.T) {
	_, err := NewArray(math.MaxInt/2+1, Int32).Size()
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = NewStruct(NewArray(math.MaxInt/8, Int64), Int64).Size()
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = NewArray(2, NewArray(math.MaxInt/2+1, Int32)).Size()
	assert.ErrorIs(t, err, ErrTooLarge)

	s, err := NewArray(math.MaxInt, Void).Size()
	assert.NoError(t, err)
	assert.Equal(t, 0, s)
}

func TestStructFieldsCopied(t *testing.T) {
	fs := []Type{Int8, Int16}
	s := NewStruct(fs...)

	fs[0] = Int64

	assert.Equal(t, Int8, s.Fields[0])

	sz, err := s.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, sz)
}

func TestOffsetOf(t *testing.T) {
	inner := NewStruct(Int8, NewArray(4, Int16))
	outer := NewStruct(Int64, NewArray(3, inner))

	el, off, err := OffsetOf(outer, 1, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Int16, el)
	assert.Equal(t, 8+2*9+1+3*2, off)

	el, off, err = OffsetOf(outer)
	require.NoError(t, err)
	assert.Equal(t, outer, el)
	assert.Equal(t, 0, off)

	_, _, err = OffsetOf(outer, 0, 0)
	assert.ErrorIs(t, err, ErrNotCompound)

	_, _, err = OffsetOf(outer, 2)
	assert.ErrorIs(t, err, ErrIndex)

	n := NewNamed("%n")
	require.NoError(t, n.Bind(inner))

	_, off, err = OffsetOf(n, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, off)
}

func TestText(t *testing.T) {
	for _, tc := range []struct {
		t    Type
		text string
	}{
		{Void, "void"},
		{NewArray(4, Int1), "[4 x i1]"},
		{NewStruct(), "{}"},
		{NewStruct(Int8, Int16), "{ i8, i16 }"},
		{NewPtr(NewPtr(Int32)), "i32**"},
		{NewFunc(Void, []Type{Int8}, true), "void (i8, ...)"},
		{NewFunc(Void, nil, true), "void (...)"},
		{NewFunc(NewPtr(NewFunc(Void, nil, false)), nil, false), "void ()* ()"},
		{NewPtr(NewNamed("%T")), "%T*"},
	} {
		assert.Equal(t, tc.text, tc.t.String())
	}
}
