package kestrel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgramStats(t *testing.T) {
	source := "let x = 1; let y = 2; if (x < y) { x; } else { y; };"
	program, err := Compile(source, WithFilename("stats.ks"))
	require.Nil(t, err)
	require.Equal(t, source, program.Source())
	require.Equal(t, "stats.ks", program.Filename())

	stats := program.Stats()
	require.Equal(t, ProgramStats{
		InstructionCount: 12,
		InstructionBytes: 32,
		ConstantCount:    2,
		GlobalCount:      2,
		SourceBytes:      len(source),
	}, stats)
	require.Equal(t, []string{"x", "y"}, program.GlobalNames())
}

func TestProgramDisassemble(t *testing.T) {
	program, err := Compile("let x = 1 + 2;")
	require.Nil(t, err)

	instructions, err := program.Disassemble()
	require.Nil(t, err)
	require.Len(t, instructions, 4)
	require.Equal(t, "OpConstant", instructions[0].Name)
	require.Equal(t, "1", instructions[0].Annotation)
	require.Equal(t, "OpAdd", instructions[2].Name)
	require.Equal(t, "OpSetGlobal", instructions[3].Name)
	require.Equal(t, "x", instructions[3].Annotation)
	require.Same(t, program.Bytecode(), program.Bytecode())
}
