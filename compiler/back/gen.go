package back

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lilpcc/compiler/asm"
	"github.com/slowlang/lilpcc/compiler/asm/mips"
	"github.com/slowlang/lilpcc/compiler/ast"
)

type (
	Compiler struct {
		// Entry is the function the program starts with.
		Entry string
	}

	gen struct {
		*Context

		prog *ast.Program
		e    *asm.Emitter
	}

	cmpBranch struct {
		op     mips.Op
		prefix string
	}
)

const DefaultEntry = "main"

var synthesized = map[ast.BinaryOp]cmpBranch{
	ast.Le: {mips.BLE, "if_less_or_equal"},
	ast.Gt: {mips.BGT, "if_greater"},
	ast.Ge: {mips.BGE, "if_greater_or_equal"},
}

var arith = map[ast.BinaryOp]mips.Op{
	ast.Mul: mips.MUL,
	ast.Div: mips.DIV,
	ast.Add: mips.ADDU,
	ast.Sub: mips.SUBU,
	ast.Lt:  mips.SLT,
}

func New() *Compiler {
	return &Compiler{Entry: DefaultEntry}
}

// CompileProgram appends the assembly for p to b.
// Every call uses a fresh Context so the output depends on p only.
func (c *Compiler) CompileProgram(ctx context.Context, b []byte, p *ast.Program) (_ []byte, err error) {
	entry := c.Entry
	if entry == "" {
		entry = DefaultEntry
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: compile program", "funcs", len(p.Funcs), "entry", entry)
	defer tr.Finish("err", &err)

	if p.Func(entry) == nil {
		return nil, errors.New("entry function %v is not declared", entry)
	}

	g := &gen{
		Context: NewContext(),
		prog:    p,
		e:       asm.New(b),
	}

	g.e.Jump(entry)
	g.e.Blank()

	for _, f := range p.Funcs {
		err = g.compileFunc(ctx, f)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	tr.Printw("program compiled", "labels", g.labels, "size", g.e.Len())

	return g.e.Bytes(), nil
}

func (g *gen) compileFunc(ctx context.Context, f *ast.Func) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "compile func", "name", f.Name)
	defer tr.Finish("err", &err)

	g.EnterFunctionScope(f.Name)
	g.exit = g.FreshLabel("return")

	g.e.FuncDecl(f.Name)
	prologue := g.e.Mark()

	err = g.block(f.Body)
	if err != nil {
		return err
	}

	frame := g.FrameSize()

	g.e.InsertAt(prologue, func(e *asm.Emitter) {
		e.Instr(mips.ADDIU, "%s, %s, %d", mips.SP, mips.SP, -frame)
		e.Instr(mips.SW, "%s, 0(%s)", mips.RA, mips.SP)
	})

	g.e.Label(g.exit)
	g.e.Instr(mips.LW, "%s, 0(%s)", mips.RA, mips.SP)
	g.e.Instr(mips.ADDIU, "%s, %s, %d", mips.SP, mips.SP, frame)
	g.e.Return()
	g.e.Dedent()

	g.e.FuncEpilogue()

	if tr.If("dump_symtab") {
		tr.Printw("symbols", "func", f.Name, "vars", g.syms, "frame", frame)
	}

	return nil
}

// block closes the indentation level opened by the label before it.
func (g *gen) block(b *ast.Block) (err error) {
	if b != nil {
		for i, s := range b.Stmts {
			err = g.stmt(s)
			if err != nil {
				return errors.Wrap(err, "stmt %d", i)
			}
		}
	}

	g.e.Dedent()

	return nil
}

func (g *gen) stmt(s ast.Stmt) (err error) {
	switch s := s.(type) {
	case *ast.VarDef:
		off := g.Define(s.Name)

		err = g.expr(s.Init)
		if err != nil {
			return errors.Wrap(err, "var %v", s.Name)
		}

		g.e.Instr(mips.SW, "%s, %d(%s)", mips.Acc, off, mips.SP)
	case *ast.Assign:
		err = g.expr(s.Value)
		if err != nil {
			return errors.Wrap(err, "assign %v", s.Name)
		}

		off, err := g.Lookup(s.Name)
		if err != nil {
			return err
		}

		g.e.Instr(mips.SW, "%s, %d(%s)", mips.Acc, off, mips.SP)
	case *ast.Return:
		err = g.expr(s.Value)
		if err != nil {
			return errors.Wrap(err, "return")
		}

		g.e.Jump(g.exit)
	case *ast.Call:
		err = g.call(s)
		if err != nil {
			return err
		}
	case *ast.If:
		then := g.FreshLabel("if_true")
		cont := g.FreshLabel("continue")

		err = g.expr(s.Cond)
		if err != nil {
			return errors.Wrap(err, "if cond")
		}

		g.e.Instr(mips.BNE, "%s, %s, %s", mips.Acc, mips.Zero, then)
		g.e.Jump(cont)

		g.e.Label(then)

		err = g.block(s.Then)
		if err != nil {
			return errors.Wrap(err, "if then")
		}

		g.e.Label(cont)
		g.e.Dedent()
	case *ast.While:
		head := g.FreshLabel("while_test")
		cont := g.FreshLabel("continue")

		g.e.Label(head)

		err = g.expr(s.Cond)
		if err != nil {
			return errors.Wrap(err, "while cond")
		}

		g.e.Instr(mips.BEQ, "%s, %s, %s", mips.Acc, mips.Zero, cont)

		err = g.block(s.Body)
		if err != nil {
			return errors.Wrap(err, "while body")
		}

		g.e.Jump(head)

		g.e.Label(cont)
		g.e.Dedent()
	default:
		panic(NewUnsupportedNode(s))
	}

	return nil
}

func (g *gen) expr(x ast.Expr) (err error) {
	switch x := x.(type) {
	case *ast.Imm:
		g.e.Instr(mips.LI, "%s, %d", mips.Acc, x.Value)
	case *ast.Ref:
		off, err := g.Lookup(x.Name)
		if err != nil {
			return err
		}

		g.e.Instr(mips.LW, "%s, %d(%s)", mips.Acc, off, mips.SP)
	case *ast.Call:
		return g.call(x)
	case *ast.Unary:
		if x.Op != ast.Not {
			panic(NewUnsupportedNode(x))
		}

		err = g.expr(x.X)
		if err != nil {
			return errors.Wrap(err, "%v", x.Op)
		}

		g.e.Instr(mips.MOVE, "%s, %s", mips.Sec, mips.Acc)
		g.e.Instr(mips.LI, "%s, %s", mips.Acc, "0xffffffff")
		g.e.Instr(mips.XOR, "%s, %s, %s", mips.Acc, mips.Acc, mips.Sec)
	case *ast.Binary:
		return g.binary(x)
	default:
		panic(NewUnsupportedNode(x))
	}

	return nil
}

func (g *gen) call(x *ast.Call) error {
	if g.prog.Func(x.Func) == nil {
		return UndefinedFunctionError{Func: g.name, Name: x.Func}
	}

	g.e.Call(x.Func)

	return nil
}

// binary keeps the left operand in a spill slot while the right one is
// generated, so operands may nest to any depth.
func (g *gen) binary(x *ast.Binary) (err error) {
	slot := g.Spill()

	err = g.expr(x.Left)
	if err != nil {
		return errors.Wrap(err, "%v left", x.Op)
	}

	g.e.Instr(mips.SW, "%s, %d(%s)", mips.Acc, slot, mips.SP)

	err = g.expr(x.Right)
	if err != nil {
		return errors.Wrap(err, "%v right", x.Op)
	}

	g.e.Instr(mips.LW, "%s, %d(%s)", mips.Sec, slot, mips.SP)
	g.Release(slot)

	if op, ok := arith[x.Op]; ok {
		g.e.Instr(op, "%s, %s, %s", mips.Acc, mips.Sec, mips.Acc)

		return nil
	}

	cmp, ok := synthesized[x.Op]
	if !ok {
		panic(NewUnsupportedNode(x))
	}

	yes := g.FreshLabel(cmp.prefix)
	cont := g.FreshLabel("continue")

	g.e.Instr(cmp.op, "%s, %s, %s", mips.Sec, mips.Acc, yes)
	g.e.Instr(mips.LI, "%s, 0", mips.Acc)
	g.e.Jump(cont)

	g.e.Label(yes)
	g.e.Instr(mips.LI, "%s, 1", mips.Acc)
	g.e.Dedent()

	g.e.Label(cont)
	g.e.Dedent()
	g.e.Instr(mips.ORI, "%s, %s, 0", mips.Acc, mips.Acc)

	return nil
}
