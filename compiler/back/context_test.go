package back

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshLabel(t *testing.T) {
	c := NewContext()

	assert.Equal(t, ".if_true_0", c.FreshLabel("if_true"))
	assert.Equal(t, ".continue_1", c.FreshLabel("continue"))

	c.EnterFunctionScope("f")

	assert.Equal(t, ".continue_2", c.FreshLabel("continue"))
}

func TestEnterFunctionScope(t *testing.T) {
	c := NewContext()

	c.EnterFunctionScope("f")
	assert.Equal(t, 4, c.FrameSize())

	assert.Equal(t, 4, c.Define("a"))
	assert.Equal(t, 8, c.Define("b"))
	assert.Equal(t, 12, c.FrameSize())

	off, err := c.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, 8, off)

	c.EnterFunctionScope("g")
	assert.Equal(t, 4, c.FrameSize())
	assert.Equal(t, 0, c.syms.Len())

	_, err = c.Lookup("a")
	assert.Equal(t, UnboundVariableError{Func: "g", Name: "a"}, err)
}

func TestSpillReuse(t *testing.T) {
	c := NewContext()
	c.EnterFunctionScope("f")

	a := c.Spill()
	b := c.Spill()
	assert.Equal(t, []int{4, 8}, []int{a, b})

	x := c.Define("x")
	assert.Equal(t, 12, x)

	c.Release(b)
	c.Release(a)

	assert.Equal(t, 4, c.Spill())
	assert.Equal(t, 8, c.Spill())
	assert.Equal(t, 16, c.Spill())
	assert.Equal(t, 20, c.FrameSize())

	c.EnterFunctionScope("g")
	assert.Equal(t, 4, c.Spill())
}
