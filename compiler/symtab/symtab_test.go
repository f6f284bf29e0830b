package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindLookup(t *testing.T) {
	s := New()

	s.Bind("a", 4)
	s.Bind("b", 8)

	off, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 4, off)

	off, ok = s.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 8, off)

	assert.Equal(t, 2, s.Len())
}

func TestLookupMissing(t *testing.T) {
	s := New()

	_, ok := s.Lookup("x")
	assert.False(t, ok)

	s.Bind("y", 4)

	_, ok = s.Lookup("x")
	assert.False(t, ok)
}

func TestRedeclarationDoesNotShadow(t *testing.T) {
	s := New()

	s.Bind("x", 4)
	s.Bind("x", 8)

	off, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 4, off)

	assert.Equal(t, []Var{{"x", 4}, {"x", 8}}, s.Vars())
}
