package sim

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lilpcc/compiler/asm/mips"
)

type (
	// Machine runs a Program on a word-addressed stack.
	// The program starts at its first instruction with $ra pointing
	// at a halt address and stops when control returns there.
	Machine struct {
		Prog *Program

		Regs [32]int32
		PC   int

		Mem []int32

		Steps    int
		MaxSteps int

		// Calls counts jal instructions per target label.
		Calls map[string]int
	}

	FaultError struct {
		PC     int
		Line   int
		Reason string
	}
)

const (
	DefaultMemWords = 1 << 14
	DefaultMaxSteps = 1 << 20

	haltAddr = -1
)

func New(p *Program) *Machine {
	m := &Machine{
		Prog:     p,
		Mem:      make([]int32, DefaultMemWords),
		MaxSteps: DefaultMaxSteps,
		Calls:    make(map[string]int),
	}

	m.Regs[mips.Regs[string(mips.SP)]] = int32(len(m.Mem) * mips.WordSize)
	m.Regs[mips.Regs[string(mips.RA)]] = haltAddr

	return m
}

// Exec loads text and runs it to completion.
func Exec(ctx context.Context, text []byte) (*Machine, error) {
	p, err := Load(text)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}

	m := New(p)

	err = m.Run(ctx)
	if err != nil {
		return m, err
	}

	return m, nil
}

func (m *Machine) Reg(r mips.Reg) int32 {
	return m.Regs[mips.Regs[string(r)]]
}

func (m *Machine) Run(ctx context.Context) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "sim: run", "instrs", len(m.Prog.Code))
	defer tr.Finish("steps", &m.Steps, "err", &err)

	for m.PC != haltAddr {
		if m.Steps&0xfff == 0 {
			if err = ctx.Err(); err != nil {
				return err
			}
		}

		if m.MaxSteps != 0 && m.Steps >= m.MaxSteps {
			return m.fault("step limit %d exceeded", m.MaxSteps)
		}

		err = m.Step()
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine) Step() error {
	if m.PC < 0 || m.PC >= len(m.Prog.Code) {
		return m.fault("pc out of program")
	}

	in := &m.Prog.Code[m.PC]
	r := &m.Regs

	if tlog.If("sim_step") {
		tlog.Printw("step", "pc", m.PC, "line", in.Line, "op", in.Op, "t0", m.Reg(mips.T0), "t1", m.Reg(mips.T1))
	}

	m.Steps++
	next := m.PC + 1

	var v int32

	switch in.Op {
	case mips.MOVE:
		v = r[in.Rs]
	case mips.LI:
		v = in.Imm
	case mips.LW:
		a, err := m.addr(in)
		if err != nil {
			return err
		}

		r[in.Rt] = m.Mem[a]
	case mips.SW:
		a, err := m.addr(in)
		if err != nil {
			return err
		}

		m.Mem[a] = r[in.Rt]
	case mips.XOR:
		v = r[in.Rs] ^ r[in.Rt]
	case mips.ADDU:
		v = r[in.Rs] + r[in.Rt]
	case mips.SUBU:
		v = r[in.Rs] - r[in.Rt]
	case mips.MUL:
		v = r[in.Rs] * r[in.Rt]
	case mips.DIV:
		if r[in.Rt] == 0 {
			return m.fault("division by zero")
		}

		v = r[in.Rs] / r[in.Rt]
	case mips.SLT:
		v = b2i(r[in.Rs] < r[in.Rt])
	case mips.ORI:
		r[in.Rt] = r[in.Rs] | in.Imm
	case mips.ADDIU:
		r[in.Rt] = r[in.Rs] + in.Imm
	case mips.BEQ, mips.BNE, mips.BLE, mips.BGT, mips.BGE:
		if cond(in.Op, r[in.Rs], r[in.Rt]) {
			next = in.Target
		}
	case mips.J:
		next = in.Target
	case mips.JAL:
		m.Calls[in.Label]++
		r[mips.Regs[string(mips.RA)]] = int32(next)
		next = in.Target
	case mips.JR:
		next = int(r[in.Rs])
	default:
		return m.fault("unsupported op %v", in.Op)
	}

	switch forms[in.Op] {
	case formRR, formRI, formRRR:
		r[in.Rd] = v
	}

	r[0] = 0
	m.PC = next

	return nil
}

func (m *Machine) addr(in *Instr) (int, error) {
	a := int(m.Regs[in.Rs]) + int(in.Imm)

	if a%mips.WordSize != 0 {
		return 0, m.fault("misaligned address %#x", a)
	}

	a /= mips.WordSize

	if a < 0 || a >= len(m.Mem) {
		return 0, m.fault("address %#x out of memory", a*mips.WordSize)
	}

	return a, nil
}

func (m *Machine) fault(format string, args ...any) FaultError {
	e := FaultError{
		PC:     m.PC,
		Reason: fmt.Sprintf(format, args...),
	}

	if m.PC >= 0 && m.PC < len(m.Prog.Code) {
		e.Line = m.Prog.Code[m.PC].Line
	}

	return e
}

func (e FaultError) Error() string {
	return fmt.Sprintf("fault at pc %d (line %d): %s", e.PC, e.Line, e.Reason)
}

func cond(op mips.Op, a, b int32) bool {
	switch op {
	case mips.BEQ:
		return a == b
	case mips.BNE:
		return a != b
	case mips.BLE:
		return a <= b
	case mips.BGT:
		return a > b
	default:
		return a >= b
	}
}

func b2i(x bool) int32 {
	if x {
		return 1
	}

	return 0
}
