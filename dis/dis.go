// Package dis supports analysis of kestrel bytecode by disassembling it.
// This works with the opcodes defined in the `op` package.
package dis

import (
	"fmt"
	"io"

	"github.com/cloudcmds/kestrel/compiler"
	"github.com/cloudcmds/kestrel/internal/table"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/op"
	"github.com/fatih/color"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset     int           `json:"offset"`
	Name       string        `json:"name"`
	Opcode     op.Code       `json:"opcode"`
	Operand    uint16        `json:"operand,omitempty"`
	HasOperand bool          `json:"has_operand"`
	Annotation string        `json:"annotation,omitempty"`
	Constant   object.Object `json:"constant,omitempty"`
}

// Disassemble returns a parsed representation of the given bytecode. Global
// slots are annotated with their names when symbols is not nil.
func Disassemble(bytecode *compiler.Bytecode, symbols *compiler.SymbolTable) ([]Instruction, error) {
	var instructions []Instruction
	code := bytecode.Instructions
	for offset := 0; offset < len(code); {
		decoded, err := op.Decode(code, offset)
		if err != nil {
			return nil, err
		}
		instr := Instruction{
			Offset:     offset,
			Name:       decoded.Code.String(),
			Opcode:     decoded.Code,
			Operand:    decoded.Operand,
			HasOperand: decoded.HasOperand(),
		}
		switch decoded.Code {
		case op.Constant:
			if int(decoded.Operand) >= len(bytecode.Constants) {
				return nil, fmt.Errorf("constant index out of range: %d", decoded.Operand)
			}
			instr.Constant = bytecode.Constants[decoded.Operand]
			instr.Annotation = instr.Constant.Inspect()
		case op.GetGlobal, op.SetGlobal:
			if symbols != nil {
				if name, ok := symbols.Lookup(decoded.Operand); ok {
					instr.Annotation = name
				}
			}
		case op.Jump, op.JumpIfNotTrue:
			instr.Annotation = fmt.Sprintf("-> %04d", decoded.Operand)
		}
		instructions = append(instructions, instr)
		offset += decoded.Width
	}
	return instructions, nil
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgHiCyan).SprintFunc()
)

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		values := []string{fmt.Sprintf("%d", instr.Offset), bold(instr.Name)}
		if instr.HasOperand {
			values = append(values, fmt.Sprintf("%d", instr.Operand))
		} else {
			values = append(values, "")
		}
		switch c := instr.Constant.(type) {
		case *object.Int:
			values = append(values, yellow(c.Inspect()))
		case *object.String:
			s := c.Inspect()
			if len(s) > 80 {
				s = s[:77] + "..."
			}
			values = append(values, green(s))
		case nil:
			if instr.Annotation != "" {
				values = append(values, cyan(instr.Annotation))
			} else {
				values = append(values, "")
			}
		default:
			values = append(values, bold(c.Inspect()))
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
