package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	p, err := Decode([]byte(`
functions:
  - name: tick
    body:
      - return: {imm: 0}
  - name: main
    body:
      - var: x
        init: {imm: 5}
      - assign: x
        value: {op: add, l: {ref: x}, r: {imm: 1}}
      - if: {op: lt, l: {ref: x}, r: {imm: 10}}
        then:
          - call: tick
      - while: {ref: x}
        do:
          - assign: x
            value: {op: sub, l: {ref: x}, r: {call: tick}}
      - return: {not: {ref: x}}
`))
	require.NoError(t, err)

	x := &Ref{Name: "x"}

	assert.Equal(t, &Program{Funcs: []*Func{
		{Name: "tick", Body: &Block{Stmts: []Stmt{
			&Return{Value: &Imm{Value: 0}},
		}}},
		{Name: "main", Body: &Block{Stmts: []Stmt{
			&VarDef{Name: "x", Init: &Imm{Value: 5}},
			&Assign{Name: "x", Value: &Binary{Op: Add, Left: x, Right: &Imm{Value: 1}}},
			&If{
				Cond: &Binary{Op: Lt, Left: x, Right: &Imm{Value: 10}},
				Then: &Block{Stmts: []Stmt{&Call{Func: "tick"}}},
			},
			&While{
				Cond: x,
				Body: &Block{Stmts: []Stmt{
					&Assign{Name: "x", Value: &Binary{Op: Sub, Left: x, Right: &Call{Func: "tick"}}},
				}},
			},
			&Return{Value: &Unary{Op: Not, X: x}},
		}}},
	}}, p)

	assert.NotNil(t, p.Func("tick"))
	assert.Nil(t, p.Func("nope"))
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		msg  string
	}{
		{"empty", ``, "empty document"},
		{"unknown_field", "functions:\n  - name: main\n    bdy: []\n", "bdy"},
		{"no_name", "functions:\n  - body: []\n", "function without name"},
		{"two_kinds", "functions:\n  - name: main\n    body:\n      - {return: {imm: 1}, call: f}\n", "exactly one of var"},
		{"var_no_init", "functions:\n  - name: main\n    body:\n      - var: x\n", "missing init"},
		{"bad_op", "functions:\n  - name: main\n    body:\n      - return: {op: mod, l: {imm: 1}, r: {imm: 2}}\n", `unknown operator "mod"`},
		{"missing_operand", "functions:\n  - name: main\n    body:\n      - return: {op: add, l: {imm: 1}}\n", "needs both l and r"},
		{"empty_expr", "functions:\n  - name: main\n    body:\n      - return: {}\n", "exactly one of imm"},
		{"while_then", "functions:\n  - name: main\n    body:\n      - while: {imm: 0}\n        then:\n          - call: f\n", "while does not take then"},
		{"if_do", "functions:\n  - name: main\n    body:\n      - {if: {imm: 1}, do: [{call: f}]}\n", "if does not take do"},
		{"var_value", "functions:\n  - name: main\n    body:\n      - {var: x, init: {imm: 1}, value: {imm: 2}}\n", "var does not take value"},
		{"assign_init", "functions:\n  - name: main\n    body:\n      - {assign: x, value: {imm: 1}, init: {imm: 2}}\n", "assign does not take init"},
		{"call_then", "functions:\n  - name: main\n    body:\n      - {call: f, then: []}\n", "call does not take then"},
		{"return_do", "functions:\n  - name: main\n    body:\n      - {return: {imm: 1}, do: []}\n", "return does not take do"},
		{"imm_operands", "functions:\n  - name: main\n    body:\n      - return: {imm: 1, l: {imm: 2}, r: {imm: 3}}\n", "imm does not take l"},
		{"ref_operand", "functions:\n  - name: main\n    body:\n      - return: {r: {imm: 3}, ref: x}\n", "ref does not take r"},
		{"not_operand", "functions:\n  - name: main\n    body:\n      - return: {not: {imm: 1}, l: {imm: 2}}\n", "not does not take l"},
		{"imm_range", "functions:\n  - name: main\n    body:\n      - return: {imm: 99999999999}\n", "decode yaml"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestDecodeErrorLine(t *testing.T) {
	_, err := Decode([]byte(`functions:
  - name: main
    body:
      - var: x
        init: {imm: 1}
      - assign: x
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 6")
	assert.Contains(t, err.Error(), "stmt 1")
}

func TestBinaryOpSymbols(t *testing.T) {
	assert.Equal(t, "<=", Le.Symbol())
	assert.True(t, Ge.Valid())
	assert.False(t, BinaryOp("mod").Valid())
	assert.Equal(t, "mod", BinaryOp("mod").Symbol())
	assert.Equal(t, "~", Not.Symbol())
}
