package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cloudcmds/kestrel/compiler"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/op"
	"github.com/cloudcmds/kestrel/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, input string) (*compiler.Bytecode, *compiler.SymbolTable) {
	t.Helper()
	program, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	c := compiler.New()
	require.Nil(t, c.Compile(program))
	return c.Bytecode(), c.SymbolTable()
}

func TestDisassemble(t *testing.T) {
	bytecode, symbols := compileSource(t, `let x = "hi"; if (true) { 10; } else { x; };`)
	instructions, err := Disassemble(bytecode, symbols)
	require.Nil(t, err)

	type row struct {
		offset     int
		name       string
		annotation string
	}
	var got []row
	for _, instr := range instructions {
		got = append(got, row{instr.Offset, instr.Name, instr.Annotation})
	}
	require.Equal(t, []row{
		{0, "OpConstant", `"hi"`},
		{3, "OpSetGlobal", "x"},
		{6, "OpTrue", ""},
		{7, "OpJumpIfNotTrue", "-> 0016"},
		{10, "OpConstant", "10"},
		{13, "OpJump", "-> 0019"},
		{16, "OpGetGlobal", "x"},
		{19, "OpPop", ""},
	}, got)

	require.True(t, object.NewInt(10).Equals(instructions[4].Constant))
	require.True(t, instructions[4].HasOperand)
	require.Equal(t, uint16(1), instructions[4].Operand)
	require.False(t, instructions[2].HasOperand)
}

func TestDisassembleWithoutSymbols(t *testing.T) {
	bytecode, _ := compileSource(t, "let x = 1; x;")
	instructions, err := Disassemble(bytecode, nil)
	require.Nil(t, err)
	require.Len(t, instructions, 4)
	require.Equal(t, "", instructions[1].Annotation)
	require.Equal(t, op.SetGlobal, instructions[1].Opcode)
}

func TestDisassembleInvalid(t *testing.T) {
	_, err := Disassemble(&compiler.Bytecode{Instructions: op.Instructions{0xEE}}, nil)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unrecognized instruction 0xEE")

	_, err = Disassemble(&compiler.Bytecode{Instructions: op.Concat(op.Make(op.Constant, 2))}, nil)
	require.NotNil(t, err)
	require.Equal(t, "constant index out of range: 2", err.Error())
}

func TestPrint(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	bytecode, symbols := compileSource(t, "let x = 1; x + 2;")
	instructions, err := Disassemble(bytecode, symbols)
	require.Nil(t, err)

	var buf bytes.Buffer
	Print(instructions, &buf)

	expected := strings.TrimSpace(`
+--------+-------------+----------+------+
| OFFSET |   OPCODE    | OPERANDS | INFO |
+--------+-------------+----------+------+
|      0 | OpConstant  |        0 | 1    |
|      3 | OpSetGlobal |        0 | x    |
|      6 | OpGetGlobal |        0 | x    |
|      9 | OpConstant  |        1 | 2    |
|     12 | OpAdd       |          |      |
|     13 | OpPop       |          |      |
+--------+-------------+----------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}
