package kestrel

import (
	"github.com/cloudcmds/kestrel/compiler"
	"github.com/cloudcmds/kestrel/dis"
	"github.com/cloudcmds/kestrel/op"
)

// Program is the compiled representation of kestrel source code. It is
// immutable after creation and may be run any number of times.
type Program struct {
	bytecode *compiler.Bytecode
	symbols  *compiler.SymbolTable

	// Metadata
	source   string
	filename string
}

// ProgramStats summarizes the size of a compiled program.
type ProgramStats struct {
	InstructionCount int
	InstructionBytes int
	ConstantCount    int
	GlobalCount      int
	SourceBytes      int
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Bytecode returns the compiled instructions and constants.
func (p *Program) Bytecode() *compiler.Bytecode {
	return p.bytecode
}

// GlobalNames returns the names of all global variables known to this
// program, ordered by slot.
func (p *Program) GlobalNames() []string {
	symbols := p.symbols.Symbols()
	names := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		names = append(names, symbol.Name)
	}
	return names
}

// Stats returns size information about the program.
func (p *Program) Stats() ProgramStats {
	stats := ProgramStats{
		InstructionBytes: len(p.bytecode.Instructions),
		ConstantCount:    len(p.bytecode.Constants),
		GlobalCount:      p.symbols.Count(),
		SourceBytes:      len(p.source),
	}
	for offset := 0; offset < len(p.bytecode.Instructions); {
		decoded, err := op.Decode(p.bytecode.Instructions, offset)
		if err != nil {
			break
		}
		stats.InstructionCount++
		offset += decoded.Width
	}
	return stats
}

// Disassemble decodes the program's instructions with constant values and
// global names attached.
func (p *Program) Disassemble() ([]dis.Instruction, error) {
	return dis.Disassemble(p.bytecode, p.symbols)
}
