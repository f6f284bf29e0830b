package back

import (
	"fmt"
	"reflect"

	"tlog.app/go/loc"

	"github.com/slowlang/lilpcc/compiler/ast"
)

type (
	UnboundVariableError struct {
		Func string
		Name string
	}

	// UndefinedFunctionError is a call to a function the program doesn't declare.
	UndefinedFunctionError struct {
		Func string
		Name string
	}

	// UnsupportedNodeError means the tree did not come from the parsing stage.
	// Generation panics with it.
	UnsupportedNodeError struct {
		Node ast.Node
		PC   loc.PC
	}
)

func (e UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable %q in func %v", e.Name, e.Func)
}

func (e UndefinedFunctionError) Error() string {
	return fmt.Sprintf("call to undefined function %v in func %v", e.Name, e.Func)
}

func NewUnsupportedNode(x ast.Node) UnsupportedNodeError {
	return UnsupportedNodeError{
		Node: x,
		PC:   loc.Caller(1),
	}
}

func (e UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported node: %v (%v)", reflect.TypeOf(e.Node), e.PC)
}
