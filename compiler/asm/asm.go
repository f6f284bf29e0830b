package asm

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/lilpcc/compiler/asm/mips"
)

type (
	// Emitter appends assembly text to a buffer.
	// Everything after a label is indented one level deeper
	// until the construct that emitted the label calls Dedent.
	Emitter struct {
		b      []byte
		indent int
	}

	// Mark is a position in the output to insert text at later.
	Mark struct {
		off    int
		indent int
	}
)

const (
	indentUnit = "    "

	// operands start at this column regardless of mnemonic length
	operandColumn = 8
)

func New(b []byte) *Emitter {
	return &Emitter{b: b}
}

func (e *Emitter) Bytes() []byte { return e.b }

func (e *Emitter) Len() int { return len(e.b) }

func (e *Emitter) Depth() int { return e.indent }

func (e *Emitter) Dedent() {
	if e.indent != 0 {
		e.indent--
	}
}

func (e *Emitter) Instr(op mips.Op, format string, args ...any) {
	e.pad()

	e.b = append(e.b, op...)

	n := operandColumn - len(op)
	if n < 1 {
		n = 1
	}

	for ; n > 0; n-- {
		e.b = append(e.b, ' ')
	}

	e.b = hfmt.Appendf(e.b, format, args...)
	e.b = append(e.b, '\n')

	if tlog.If("asm_instr") {
		tlog.Printw("instr", "op", op, "depth", e.indent, "from", loc.Caller(1))
	}
}

func (e *Emitter) Label(name string) {
	e.pad()

	e.b = append(e.b, name...)
	e.b = append(e.b, ":\n"...)

	e.indent++
}

func (e *Emitter) Call(name string) {
	e.Instr(mips.JAL, "%s", name)
}

func (e *Emitter) Return() {
	e.Instr(mips.JR, "%s", mips.RA)
}

func (e *Emitter) Jump(label string) {
	e.Instr(mips.J, "%s", label)
}

func (e *Emitter) FuncDecl(name string) {
	e.Label(name)
}

// FuncEpilogue separates function bodies.
func (e *Emitter) FuncEpilogue() {
	e.Blank()
}

func (e *Emitter) Blank() {
	e.b = append(e.b, '\n')
}

func (e *Emitter) Mark() Mark {
	return Mark{off: len(e.b), indent: e.indent}
}

// InsertAt runs f on an emitter with the indentation recorded in m
// and splices its output into the buffer at m.
// Indentation changes made by f are discarded.
func (e *Emitter) InsertAt(m Mark, f func(e *Emitter)) {
	sub := &Emitter{indent: m.indent}

	f(sub)

	tail := append([]byte{}, e.b[m.off:]...)

	e.b = append(e.b[:m.off], sub.b...)
	e.b = append(e.b, tail...)
}

func (e *Emitter) pad() {
	for i := 0; i < e.indent; i++ {
		e.b = append(e.b, indentUnit...)
	}
}
