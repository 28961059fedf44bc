package compiler

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/op"
)

// Bytecode is a compiled program: an instruction stream and the constant
// pool its Constant instructions index into.
type Bytecode struct {
	Instructions op.Instructions
	Constants    []object.Object
}

// String renders the instructions followed by the constant pool.
func (b *Bytecode) String() string {
	var out strings.Builder
	out.WriteString(b.Instructions.String())
	for i, c := range b.Constants {
		fmt.Fprintf(&out, "CONST %d %s\n", i, c.Inspect())
	}
	return out.String()
}
