package ast

type (
	Node interface {
		node()
	}

	Expr interface {
		Node
		expr()
	}

	Stmt interface {
		Node
		stmt()
	}

	UnaryOp  string
	BinaryOp string

	Unary struct {
		Op UnaryOp
		X  Expr
	}

	Imm struct {
		Value int32
	}

	Ref struct {
		Name string
	}

	Binary struct {
		Op BinaryOp

		Left  Expr
		Right Expr
	}

	// Call is both an expression and a statement.
	// Its value is whatever the callee left in the accumulator.
	Call struct {
		Func string
	}

	Assign struct {
		Name  string
		Value Expr
	}

	Return struct {
		Value Expr
	}

	If struct {
		Cond Expr
		Then *Block
	}

	While struct {
		Cond Expr
		Body *Block
	}

	VarDef struct {
		Name string
		Init Expr
	}

	Block struct {
		Stmts []Stmt
	}

	Func struct {
		Name string
		Body *Block
	}

	Program struct {
		Funcs []*Func
	}
)

const (
	Not UnaryOp = "not"
)

const (
	Mul BinaryOp = "mul"
	Div BinaryOp = "div"
	Add BinaryOp = "add"
	Sub BinaryOp = "sub"
	Lt  BinaryOp = "lt"
	Le  BinaryOp = "le"
	Gt  BinaryOp = "gt"
	Ge  BinaryOp = "ge"
)

var binarySymbols = map[BinaryOp]string{
	Mul: "*",
	Div: "/",
	Add: "+",
	Sub: "-",
	Lt:  "<",
	Le:  "<=",
	Gt:  ">",
	Ge:  ">=",
}

func (op BinaryOp) Valid() bool {
	_, ok := binarySymbols[op]
	return ok
}

// Symbol returns the source spelling of the operator.
func (op BinaryOp) Symbol() string {
	if s, ok := binarySymbols[op]; ok {
		return s
	}

	return string(op)
}

func (op UnaryOp) Symbol() string {
	if op == Not {
		return "~"
	}

	return string(op)
}

func (*Unary) node()   {}
func (*Imm) node()     {}
func (*Ref) node()     {}
func (*Binary) node()  {}
func (*Call) node()    {}
func (*Assign) node()  {}
func (*Return) node()  {}
func (*If) node()      {}
func (*While) node()   {}
func (*VarDef) node()  {}
func (*Block) node()   {}
func (*Func) node()    {}
func (*Program) node() {}

func (*Unary) expr()  {}
func (*Imm) expr()    {}
func (*Ref) expr()    {}
func (*Binary) expr() {}
func (*Call) expr()   {}

func (*Call) stmt()   {}
func (*Assign) stmt() {}
func (*Return) stmt() {}
func (*If) stmt()     {}
func (*While) stmt()  {}
func (*VarDef) stmt() {}

// Func returns the function declared under name, or nil.
func (p *Program) Func(name string) *Func {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}

	return nil
}
