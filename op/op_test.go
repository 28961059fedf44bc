package op

import (
	"errors"
	"testing"

	"github.com/cloudcmds/kestrel/errz"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(JumpIfNotTrue)
	require.Equal(t, "OpJumpIfNotTrue", info.Name)
	require.Equal(t, 1, info.OperandCount)
	require.Equal(t, JumpIfNotTrue, info.Code)
	require.Equal(t, 3, info.Width())
}

func TestOpcodeTags(t *testing.T) {
	tests := []struct {
		code     Code
		tag      byte
		name     string
		operands int
	}{
		{Constant, 0x01, "OpConstant", 1},
		{Pop, 0x02, "OpPop", 0},
		{Add, 0x03, "OpAdd", 0},
		{Sub, 0x04, "OpSub", 0},
		{Mul, 0x05, "OpMul", 0},
		{Div, 0x06, "OpDiv", 0},
		{True, 0x07, "OpTrue", 0},
		{False, 0x08, "OpFalse", 0},
		{Equal, 0x09, "OpEqual", 0},
		{NotEqual, 0x0A, "OpNotEqual", 0},
		{GreaterThan, 0x0B, "OpGreaterThan", 0},
		{Minus, 0x0C, "OpMinus", 0},
		{Bang, 0x0D, "OpBang", 0},
		{JumpIfNotTrue, 0x0E, "OpJumpIfNotTrue", 1},
		{Jump, 0x0F, "OpJump", 1},
		{SetGlobal, 0x10, "OpSetGlobal", 1},
		{GetGlobal, 0x11, "OpGetGlobal", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.tag, byte(tt.code))
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
			require.True(t, IsDefined(tt.code))
		})
	}
	require.False(t, IsDefined(Invalid))
	require.False(t, IsDefined(Code(0x12)))
}

func TestMake(t *testing.T) {
	tests := []struct {
		op       Code
		operands []uint16
		expected []byte
	}{
		{Constant, []uint16{65534}, []byte{0x01, 255, 254}},
		{Constant, []uint16{0}, []byte{0x01, 0, 0}},
		{Pop, nil, []byte{0x02}},
		{Add, nil, []byte{0x03}},
		{JumpIfNotTrue, []uint16{7}, []byte{0x0E, 0, 7}},
		{Jump, []uint16{258}, []byte{0x0F, 1, 2}},
		{SetGlobal, []uint16{65535}, []byte{0x10, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			require.Equal(t, tt.expected, Make(tt.op, tt.operands...))
		})
	}
}

func TestMakeWrongOperandCount(t *testing.T) {
	require.Panics(t, func() { Make(Constant) })
	require.Panics(t, func() { Make(Pop, 1) })
	require.Panics(t, func() { Make(Code(0xFF)) })
}

func TestUint16RoundTrip(t *testing.T) {
	values := []uint16{0, 1, 2, 255, 256, 257, 4096, 32767, 32768, 40000, 65534, 65535}
	for _, v := range values {
		buf := make([]byte, 2)
		PutUint16(buf, v)
		require.Equal(t, []byte{byte(v >> 8), byte(v)}, buf)
		require.Equal(t, v, ReadUint16(buf))
	}
}

func TestUint16RoundTripExhaustive(t *testing.T) {
	buf := make([]byte, 2)
	for v := 0; v <= MaxOperand; v++ {
		PutUint16(buf, uint16(v))
		if got := ReadUint16(buf); got != uint16(v) {
			t.Fatalf("round trip of %d produced %d", v, got)
		}
	}
}

func TestDecode(t *testing.T) {
	ins := Concat(
		Make(True),
		Make(JumpIfNotTrue, 7),
		Make(Constant, 65535),
	)
	first, err := Decode(ins, 0)
	require.Nil(t, err)
	require.Equal(t, Instruction{Code: True, Width: 1}, first)
	require.False(t, first.HasOperand())

	second, err := Decode(ins, 1)
	require.Nil(t, err)
	require.Equal(t, Instruction{Code: JumpIfNotTrue, Operand: 7, Width: 3}, second)

	third, err := Decode(ins, 4)
	require.Nil(t, err)
	require.Equal(t, uint16(65535), third.Operand)
	require.Equal(t, "OpConstant 65535", third.String())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte{0xFF}, 0)
	require.True(t, errors.Is(err, errz.UnknownOpcode))
	require.Contains(t, err.Error(), "0xFF")

	_, err = Decode([]byte{byte(Constant), 0}, 0)
	require.True(t, errors.Is(err, errz.UnknownOpcode))
	require.Contains(t, err.Error(), "truncated")

	_, err = Decode([]byte{byte(Pop)}, 1)
	require.True(t, errors.Is(err, errz.UnknownOpcode))
}

func TestInstructionsString(t *testing.T) {
	ins := Concat(
		Make(Constant, 1),
		Make(Constant, 2),
		Make(Add),
		Make(Pop),
	)
	expected := "0000 OpConstant 1\n" +
		"0003 OpConstant 2\n" +
		"0006 OpAdd\n" +
		"0007 OpPop\n"
	require.Equal(t, expected, ins.String())
}

func TestInstructionsStringCorrupt(t *testing.T) {
	ins := Instructions{byte(Pop), 0xEE}
	require.Equal(t, "0000 OpPop\nERROR: unknown opcode: unrecognized instruction 0xEE (ip 0001)\n", ins.String())
}

func TestCodeString(t *testing.T) {
	require.Equal(t, "OpGetGlobal", GetGlobal.String())
	require.Equal(t, "Op(0x7F)", Code(0x7F).String())
}
