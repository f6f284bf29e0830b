package back

import (
	"fmt"

	"nikand.dev/go/heap"

	"github.com/slowlang/lilpcc/compiler/asm/mips"
	"github.com/slowlang/lilpcc/compiler/symtab"
)

type (
	// Context is the state of one compilation run.
	// Labels are numbered across the whole program,
	// everything else is reset by EnterFunctionScope.
	Context struct {
		labels int

		*funContext
	}

	funContext struct {
		name string
		exit string

		syms *symtab.Table

		// next free stack slot; slot 0 holds the return address
		offset int

		// released spill slots, lowest first
		spill heap.Heap[int]
	}
)

func NewContext() *Context {
	return &Context{}
}

func (c *Context) EnterFunctionScope(name string) {
	c.funContext = &funContext{
		name:   name,
		syms:   symtab.New(),
		offset: 1 * mips.WordSize,
		spill:  heap.Heap[int]{Less: offsetLess},
	}
}

func (c *Context) FreshLabel(prefix string) string {
	l := fmt.Sprintf(".%s_%d", prefix, c.labels)
	c.labels++

	return l
}

// Define binds name to the next free slot.
func (f *funContext) Define(name string) int {
	off := f.offset
	f.offset += mips.WordSize

	f.syms.Bind(name, off)

	return off
}

func (f *funContext) Lookup(name string) (int, error) {
	off, ok := f.syms.Lookup(name)
	if !ok {
		return 0, UnboundVariableError{Func: f.name, Name: name}
	}

	return off, nil
}

// Spill reserves a slot for a temporary value.
func (f *funContext) Spill() int {
	if f.spill.Len() != 0 {
		return f.spill.Pop()
	}

	off := f.offset
	f.offset += mips.WordSize

	return off
}

func (f *funContext) Release(off int) {
	f.spill.Push(off)
}

// FrameSize is the number of bytes the function's slots occupy so far.
func (f *funContext) FrameSize() int {
	return f.offset
}

func offsetLess(d []int, i, j int) bool {
	return d[i] < d[j]
}
