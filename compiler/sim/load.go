package sim

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/lilpcc/compiler/asm/mips"
)

type (
	Program struct {
		Code   []Instr
		Labels map[string]int
	}

	Instr struct {
		Op mips.Op

		Rd, Rs, Rt int
		Imm        int32

		// Target is the index of the instruction a branch or jump goes to.
		Target int
		Label  string

		Line int
	}

	form int

	line struct {
		no       int
		mnemonic string
		operands []string
	}
)

const (
	formRR     form = iota // rd, rs
	formRI                 // rd, imm
	formMem                // rt, off(base)
	formRRR                // rd, rs, rt
	formRRI                // rt, rs, imm
	formBranch             // rs, rt, label
	formJump               // label
	formR                  // rs
)

var forms = map[mips.Op]form{
	mips.MOVE:  formRR,
	mips.LI:    formRI,
	mips.LW:    formMem,
	mips.SW:    formMem,
	mips.XOR:   formRRR,
	mips.ADDU:  formRRR,
	mips.SUBU:  formRRR,
	mips.MUL:   formRRR,
	mips.DIV:   formRRR,
	mips.SLT:   formRRR,
	mips.ORI:   formRRI,
	mips.ADDIU: formRRI,
	mips.BEQ:   formBranch,
	mips.BNE:   formBranch,
	mips.BLE:   formBranch,
	mips.BGT:   formBranch,
	mips.BGE:   formBranch,
	mips.J:     formJump,
	mips.JAL:   formJump,
	mips.JR:    formR,
}

var operandCount = map[form]int{
	formRR:     2,
	formRI:     2,
	formMem:    2,
	formRRR:    3,
	formRRI:    3,
	formBranch: 3,
	formJump:   1,
	formR:      1,
}

// Load assembles text in two passes: labels first, then instructions,
// so forward references resolve.
func Load(text []byte) (*Program, error) {
	var lines []line

	p := &Program{
		Labels: make(map[string]int),
	}

	s := bufio.NewScanner(bytes.NewReader(text))

	for no := 1; s.Scan(); no++ {
		l := s.Text()

		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}

		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}

		if strings.HasSuffix(l, ":") {
			name := strings.TrimSuffix(l, ":")

			if _, ok := p.Labels[name]; ok {
				return nil, errors.New("line %d: duplicate label %v", no, name)
			}

			p.Labels[name] = len(lines)

			continue
		}

		mnemonic, rest, _ := strings.Cut(l, " ")

		var ops []string

		if rest = strings.TrimSpace(rest); rest != "" {
			for _, op := range strings.Split(rest, ",") {
				ops = append(ops, strings.TrimSpace(op))
			}
		}

		lines = append(lines, line{no: no, mnemonic: mnemonic, operands: ops})
	}

	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scan")
	}

	for _, l := range lines {
		in, err := p.decode(l)
		if err != nil {
			return nil, errors.Wrap(err, "line %d", l.no)
		}

		p.Code = append(p.Code, in)
	}

	return p, nil
}

func (p *Program) decode(l line) (in Instr, err error) {
	in = Instr{Op: mips.Op(l.mnemonic), Line: l.no}

	f, ok := forms[in.Op]
	if !ok {
		return in, errors.New("unknown mnemonic %q", l.mnemonic)
	}

	if n := operandCount[f]; len(l.operands) != n {
		return in, errors.New("%v: want %d operands, got %d", in.Op, n, len(l.operands))
	}

	o := l.operands

	switch f {
	case formRR:
		in.Rd, err = reg(o[0])
		if err == nil {
			in.Rs, err = reg(o[1])
		}
	case formRI:
		in.Rd, err = reg(o[0])
		if err == nil {
			in.Imm, err = imm(o[1])
		}
	case formMem:
		in.Rt, err = reg(o[0])
		if err == nil {
			in.Imm, in.Rs, err = mem(o[1])
		}
	case formRRR:
		in.Rd, err = reg(o[0])
		if err == nil {
			in.Rs, err = reg(o[1])
		}
		if err == nil {
			in.Rt, err = reg(o[2])
		}
	case formRRI:
		in.Rt, err = reg(o[0])
		if err == nil {
			in.Rs, err = reg(o[1])
		}
		if err == nil {
			in.Imm, err = imm(o[2])
		}
	case formBranch:
		in.Rs, err = reg(o[0])
		if err == nil {
			in.Rt, err = reg(o[1])
		}
		if err == nil {
			in.Label = o[2]
			in.Target, err = p.label(o[2])
		}
	case formJump:
		in.Label = o[0]
		in.Target, err = p.label(o[0])
	case formR:
		in.Rs, err = reg(o[0])
	}

	if err != nil {
		return in, errors.Wrap(err, "%v", in.Op)
	}

	return in, nil
}

func (p *Program) label(name string) (int, error) {
	i, ok := p.Labels[name]
	if !ok {
		return 0, errors.New("undefined label %v", name)
	}

	return i, nil
}

func reg(s string) (int, error) {
	r, ok := mips.Regs[s]
	if !ok {
		return 0, errors.New("unknown register %q", s)
	}

	return r, nil
}

// imm accepts anything that fits 32 bits, signed or not.
func imm(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errors.Wrap(err, "immediate")
	}

	if v < -1<<31 || v > 1<<32-1 {
		return 0, errors.New("immediate %v out of range", s)
	}

	return int32(v), nil
}

func mem(s string) (off int32, base int, err error) {
	o, r, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(r, ")") {
		return 0, 0, errors.New("bad memory operand %q", s)
	}

	off, err = imm(o)
	if err != nil {
		return 0, 0, err
	}

	base, err = reg(strings.TrimSuffix(r, ")"))
	if err != nil {
		return 0, 0, err
	}

	return off, base, nil
}
