package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/lilpcc/compiler/ast"
)

func TestFormatProgram(t *testing.T) {
	p := &ast.Program{
		Funcs: []*ast.Func{
			{
				Name: "f",
				Body: &ast.Block{Stmts: []ast.Stmt{
					&ast.Return{Value: &ast.Imm{Value: 1}},
				}},
			},
			{
				Name: "main",
				Body: &ast.Block{Stmts: []ast.Stmt{
					&ast.VarDef{Name: "x", Init: &ast.Binary{
						Op:   ast.Add,
						Left: &ast.Imm{Value: 3},
						Right: &ast.Binary{
							Op:    ast.Mul,
							Left:  &ast.Imm{Value: 4},
							Right: &ast.Imm{Value: 2},
						},
					}},
					&ast.While{
						Cond: &ast.Binary{Op: ast.Gt, Left: &ast.Ref{Name: "x"}, Right: &ast.Imm{Value: 0}},
						Body: &ast.Block{Stmts: []ast.Stmt{
							&ast.Assign{Name: "x", Value: &ast.Binary{Op: ast.Sub, Left: &ast.Ref{Name: "x"}, Right: &ast.Call{Func: "f"}}},
							&ast.If{
								Cond: &ast.Unary{Op: ast.Not, X: &ast.Ref{Name: "x"}},
								Then: &ast.Block{Stmts: []ast.Stmt{
									&ast.Call{Func: "f"},
								}},
							},
						}},
					},
					&ast.Return{Value: &ast.Ref{Name: "x"}},
				}},
			},
		},
	}

	b, err := Format(context.Background(), nil, p)
	require.NoError(t, err)

	assert.Equal(t, `func f() {
	return 1
}

func main() {
	var x = 3 + (4 * 2)
	while x > 0 {
		x = x - f()
		if ~x {
			f()
		}
	}
	return x
}
`, string(b))
}

func TestFormatExpr(t *testing.T) {
	b, err := Format(context.Background(), nil, &ast.Binary{
		Op:    ast.Le,
		Left:  &ast.Binary{Op: ast.Div, Left: &ast.Ref{Name: "a"}, Right: &ast.Imm{Value: -2}},
		Right: &ast.Imm{Value: 7},
	})
	require.NoError(t, err)

	assert.Equal(t, "(a / -2) <= 7", string(b))
}

func TestFormatUnsupported(t *testing.T) {
	_, err := Format(context.Background(), nil, &ast.Block{})
	assert.Error(t, err)
}
