package ast

import (
	"bytes"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	yamlProgram struct {
		Functions []yamlFunc `yaml:"functions"`
	}

	yamlFunc struct {
		Name string     `yaml:"name"`
		Body []yamlStmt `yaml:"body"`

		line int
	}

	yamlStmt struct {
		Var  string    `yaml:"var"`
		Init *yamlExpr `yaml:"init"`

		Assign string    `yaml:"assign"`
		Value  *yamlExpr `yaml:"value"`

		Return *yamlExpr `yaml:"return"`
		Call   string    `yaml:"call"`

		If   *yamlExpr  `yaml:"if"`
		Then []yamlStmt `yaml:"then"`

		While *yamlExpr  `yaml:"while"`
		Do    []yamlStmt `yaml:"do"`

		line int
		keys []string
	}

	yamlExpr struct {
		Imm  *int32    `yaml:"imm"`
		Ref  string    `yaml:"ref"`
		Not  *yamlExpr `yaml:"not"`
		Call string    `yaml:"call"`

		Op string    `yaml:"op"`
		L  *yamlExpr `yaml:"l"`
		R  *yamlExpr `yaml:"r"`

		line int
		keys []string
	}
)

// Decode reads a program handed over by the parsing stage as a YAML document.
func Decode(data []byte) (*Program, error) {
	return DecodeReader(bytes.NewReader(data))
}

func DecodeReader(r io.Reader) (*Program, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	var y yamlProgram

	err := d.Decode(&y)
	if err == io.EOF {
		return nil, errors.New("empty document")
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	p := &Program{}

	for i, yf := range y.Functions {
		f, err := yf.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "function %d", i)
		}

		p.Funcs = append(p.Funcs, f)
	}

	return p, nil
}

// Node.Decode does not inherit KnownFields, so nested
// values check their keys themselves.

func (f *yamlFunc) UnmarshalYAML(n *yaml.Node) error {
	type plain yamlFunc

	f.line = n.Line

	if _, err := checkKeys(n, "name", "body"); err != nil {
		return err
	}

	return n.Decode((*plain)(f))
}

func (s *yamlStmt) UnmarshalYAML(n *yaml.Node) error {
	type plain yamlStmt

	s.line = n.Line

	keys, err := checkKeys(n, "var", "init", "assign", "value", "return", "call", "if", "then", "while", "do")
	if err != nil {
		return err
	}

	s.keys = keys

	return n.Decode((*plain)(s))
}

func (x *yamlExpr) UnmarshalYAML(n *yaml.Node) error {
	type plain yamlExpr

	x.line = n.Line

	keys, err := checkKeys(n, "imm", "ref", "not", "call", "op", "l", "r")
	if err != nil {
		return err
	}

	x.keys = keys

	return n.Decode((*plain)(x))
}

// checkKeys returns the keys of mapping n.
func checkKeys(n *yaml.Node, known ...string) (keys []string, err error) {
	if n.Kind != yaml.MappingNode {
		return nil, nil
	}

	for i := 0; i < len(n.Content); i += 2 {
		k := n.Content[i]

		if !slices.Contains(known, k.Value) {
			return nil, errors.New("line %d: unknown field %q", k.Line, k.Value)
		}

		keys = append(keys, k.Value)
	}

	return keys, nil
}

// onlyKeys rejects keys that belong to another node kind.
func onlyKeys(line int, keys []string, kind string, allowed ...string) error {
	for _, k := range keys {
		if k != kind && !slices.Contains(allowed, k) {
			return errors.New("line %d: %v does not take %v", line, kind, k)
		}
	}

	return nil
}

func (f *yamlFunc) toAST() (*Func, error) {
	if f.Name == "" {
		return nil, errors.New("line %d: function without name", f.line)
	}

	body, err := blockToAST(f.Body)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", f.Name)
	}

	return &Func{Name: f.Name, Body: body}, nil
}

func blockToAST(ys []yamlStmt) (*Block, error) {
	b := &Block{}

	for i := range ys {
		s, err := ys[i].toAST()
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}

		b.Stmts = append(b.Stmts, s)
	}

	return b, nil
}

func (s *yamlStmt) toAST() (_ Stmt, err error) {
	kinds := 0
	for _, set := range []bool{s.Var != "", s.Assign != "", s.Return != nil, s.Call != "", s.If != nil, s.While != nil} {
		if set {
			kinds++
		}
	}

	if kinds != 1 {
		return nil, errors.New("line %d: statement must have exactly one of var, assign, return, call, if, while", s.line)
	}

	switch {
	case s.Var != "":
		if err = onlyKeys(s.line, s.keys, "var", "init"); err != nil {
			return nil, err
		}

		if s.Init == nil {
			return nil, errors.New("line %d: var %v: missing init", s.line, s.Var)
		}

		init, err := s.Init.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "var %v", s.Var)
		}

		return &VarDef{Name: s.Var, Init: init}, nil
	case s.Assign != "":
		if err = onlyKeys(s.line, s.keys, "assign", "value"); err != nil {
			return nil, err
		}

		if s.Value == nil {
			return nil, errors.New("line %d: assign %v: missing value", s.line, s.Assign)
		}

		val, err := s.Value.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "assign %v", s.Assign)
		}

		return &Assign{Name: s.Assign, Value: val}, nil
	case s.Return != nil:
		if err = onlyKeys(s.line, s.keys, "return"); err != nil {
			return nil, err
		}

		val, err := s.Return.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		return &Return{Value: val}, nil
	case s.Call != "":
		if err = onlyKeys(s.line, s.keys, "call"); err != nil {
			return nil, err
		}

		return &Call{Func: s.Call}, nil
	case s.If != nil:
		if err = onlyKeys(s.line, s.keys, "if", "then"); err != nil {
			return nil, err
		}

		x := &If{}

		x.Cond, err = s.If.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "if cond")
		}

		x.Then, err = blockToAST(s.Then)
		if err != nil {
			return nil, errors.Wrap(err, "if then")
		}

		return x, nil
	default:
		if err = onlyKeys(s.line, s.keys, "while", "do"); err != nil {
			return nil, err
		}

		x := &While{}

		x.Cond, err = s.While.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "while cond")
		}

		x.Body, err = blockToAST(s.Do)
		if err != nil {
			return nil, errors.Wrap(err, "while body")
		}

		return x, nil
	}
}

func (x *yamlExpr) toAST() (_ Expr, err error) {
	kinds := 0
	for _, set := range []bool{x.Imm != nil, x.Ref != "", x.Not != nil, x.Call != "", x.Op != ""} {
		if set {
			kinds++
		}
	}

	if kinds != 1 {
		return nil, errors.New("line %d: expression must have exactly one of imm, ref, not, call, op", x.line)
	}

	switch {
	case x.Imm != nil:
		if err = onlyKeys(x.line, x.keys, "imm"); err != nil {
			return nil, err
		}

		return &Imm{Value: *x.Imm}, nil
	case x.Ref != "":
		if err = onlyKeys(x.line, x.keys, "ref"); err != nil {
			return nil, err
		}

		return &Ref{Name: x.Ref}, nil
	case x.Call != "":
		if err = onlyKeys(x.line, x.keys, "call"); err != nil {
			return nil, err
		}

		return &Call{Func: x.Call}, nil
	case x.Not != nil:
		if err = onlyKeys(x.line, x.keys, "not"); err != nil {
			return nil, err
		}

		y, err := x.Not.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "not")
		}

		return &Unary{Op: Not, X: y}, nil
	}

	if err = onlyKeys(x.line, x.keys, "op", "l", "r"); err != nil {
		return nil, err
	}

	op := BinaryOp(x.Op)
	if !op.Valid() {
		return nil, errors.New("line %d: unknown operator %q", x.line, x.Op)
	}

	if x.L == nil || x.R == nil {
		return nil, errors.New("line %d: operator %v needs both l and r", x.line, op)
	}

	b := &Binary{Op: op}

	b.Left, err = x.L.toAST()
	if err != nil {
		return nil, errors.Wrap(err, "%v left", op)
	}

	b.Right, err = x.R.toAST()
	if err != nil {
		return nil, errors.Wrap(err, "%v right", op)
	}

	return b, nil
}
