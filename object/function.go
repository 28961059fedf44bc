package object

import (
	"encoding/json"

	"github.com/cloudcmds/kestrel/ast"
)

// Function is a user-defined function value together with the environment
// it closes over. Only the tree-walking evaluator produces functions.
type Function struct {
	params []*ast.Ident
	body   *ast.Block
	env    *Environment
}

func NewFunction(params []*ast.Ident, body *ast.Block, env *Environment) *Function {
	return &Function{params: params, body: body, env: env}
}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Params() []*ast.Ident {
	return f.params
}

func (f *Function) Body() *ast.Block {
	return f.body
}

// Env returns the environment captured when the function was defined.
func (f *Function) Env() *Environment {
	return f.env
}

func (f *Function) Inspect() string {
	return (&ast.Func{Params: f.params, Body: f.body}).String()
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() any {
	return f.Inspect()
}

func (f *Function) Equals(other Object) bool {
	o, ok := other.(*Function)
	return ok && o == f
}

func (f *Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Inspect())
}
