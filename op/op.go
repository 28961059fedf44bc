// Package op defines the opcodes used by the kestrel compiler and virtual
// machine, along with their byte-level encoding.
//
// Every instruction begins with a one byte opcode. Opcodes that take an
// operand are followed by a two byte big-endian unsigned integer, which may be
// a constant pool index, an absolute jump target, or a global slot.
package op

import (
	"fmt"
	"math"

	"github.com/cloudcmds/kestrel/errz"
)

// Code is a one byte opcode that indicates an operation to execute.
type Code byte

const (
	Invalid Code = 0

	// Load
	Constant Code = 0x01

	// Stack
	Pop Code = 0x02

	// Arithmetic
	Add Code = 0x03
	Sub Code = 0x04
	Mul Code = 0x05
	Div Code = 0x06

	// Push constants
	True  Code = 0x07
	False Code = 0x08

	// Comparison
	Equal       Code = 0x09
	NotEqual    Code = 0x0A
	GreaterThan Code = 0x0B

	// Unary
	Minus Code = 0x0C
	Bang  Code = 0x0D

	// Jump
	JumpIfNotTrue Code = 0x0E
	Jump          Code = 0x0F

	// Globals
	SetGlobal Code = 0x10
	GetGlobal Code = 0x11
)

// OperandWidth is the byte width of every operand. Operands share a single
// 16-bit space, so constant indexes, jump targets, and slots all max out at
// MaxOperand.
const OperandWidth = 2

// MaxOperand is the largest value an operand can hold.
const MaxOperand = math.MaxUint16

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

// Width returns the encoded size of an instruction with this opcode.
func (i Info) Width() int {
	return 1 + i.OperandCount*OperandWidth
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Constant, "OpConstant", 1},
		{Pop, "OpPop", 0},
		{Add, "OpAdd", 0},
		{Sub, "OpSub", 0},
		{Mul, "OpMul", 0},
		{Div, "OpDiv", 0},
		{True, "OpTrue", 0},
		{False, "OpFalse", 0},
		{Equal, "OpEqual", 0},
		{NotEqual, "OpNotEqual", 0},
		{GreaterThan, "OpGreaterThan", 0},
		{Minus, "OpMinus", 0},
		{Bang, "OpBang", 0},
		{JumpIfNotTrue, "OpJumpIfNotTrue", 1},
		{Jump, "OpJump", 1},
		{SetGlobal, "OpSetGlobal", 1},
		{GetGlobal, "OpGetGlobal", 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsDefined reports whether the opcode is part of the instruction set.
func IsDefined(op Code) bool {
	return infos[op].Name != ""
}

// String returns the opcode name, or a hex rendering if it is unknown.
func (c Code) String() string {
	if info := infos[c]; info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("Op(0x%02X)", byte(c))
}

// Make encodes an opcode and its operands into a new byte slice. It panics if
// the operand count does not match the opcode, since that can only happen
// through a programming error in the compiler.
func Make(opcode Code, operands ...uint16) []byte {
	info := GetInfo(opcode)
	if info.Name == "" {
		panic(fmt.Sprintf("op: cannot encode undefined opcode 0x%02X", byte(opcode)))
	}
	if len(operands) != info.OperandCount {
		panic(fmt.Sprintf("op: %s takes %d operand(s), got %d",
			info.Name, info.OperandCount, len(operands)))
	}
	instruction := make([]byte, info.Width())
	instruction[0] = byte(opcode)
	offset := 1
	for _, operand := range operands {
		PutUint16(instruction[offset:], operand)
		offset += OperandWidth
	}
	return instruction
}

// PutUint16 writes v into the first two bytes of dst, most significant first.
func PutUint16(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

// ReadUint16 reconstructs the big-endian value held in the first two bytes
// of b.
func ReadUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// Instruction is a single decoded instruction.
type Instruction struct {
	Code    Code
	Operand uint16
	Width   int
}

// HasOperand reports whether the instruction carries an operand.
func (ins Instruction) HasOperand() bool {
	return ins.Width > 1
}

// String returns a human friendly rendering such as "OpConstant 3".
func (ins Instruction) String() string {
	if ins.HasOperand() {
		return fmt.Sprintf("%s %d", ins.Code, ins.Operand)
	}
	return ins.Code.String()
}

// Decode decodes the instruction starting at offset. An undefined opcode or
// an operand cut short by the end of the stream yields an UnknownOpcode
// error.
func Decode(ins []byte, offset int) (Instruction, error) {
	if offset < 0 || offset >= len(ins) {
		return Instruction{}, errz.Errorf(errz.UnknownOpcode,
			"offset %d outside of instruction stream of length %d", offset, len(ins)).WithIP(offset)
	}
	code := Code(ins[offset])
	info := GetInfo(code)
	if info.Name == "" {
		return Instruction{}, errz.Errorf(errz.UnknownOpcode,
			"unrecognized instruction 0x%02X", byte(code)).WithIP(offset)
	}
	decoded := Instruction{Code: code, Width: info.Width()}
	if info.OperandCount > 0 {
		if offset+decoded.Width > len(ins) {
			return Instruction{}, errz.Errorf(errz.UnknownOpcode,
				"truncated operand for %s", info.Name).WithIP(offset)
		}
		decoded.Operand = ReadUint16(ins[offset+1:])
	}
	return decoded, nil
}
