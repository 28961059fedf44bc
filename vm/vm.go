// Package vm provides a VirtualMachine that executes compiled kestrel
// bytecode.
//
// The machine is a flat fetch-decode-execute loop over a single instruction
// stream. It runs until the instruction pointer reaches the end of the
// stream; there is no halt opcode. The most recently popped stack element is
// available from LastPoppedStackElem. The value of a run, as reported by
// Result, is the value of its final statement: the value discarded by an
// OpPop, or nothing when the program ends in a let statement.
package vm

import (
	"context"

	"github.com/cloudcmds/kestrel/compiler"
	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/op"
)

const (
	// DefaultStackSize is the default operand stack capacity.
	DefaultStackSize = 2048

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// VirtualMachine executes one compiled program. It borrows the bytecode and
// never modifies it.
type VirtualMachine struct {
	instructions op.Instructions
	constants    []object.Object

	stack     []object.Object
	stackSize int
	sp        int // next free slot; stack[sp] is the last popped element
	ip        int

	globals *Globals

	// result is the value most recently discarded by an OpPop. SetGlobal
	// clears it.
	result object.Object

	instructionLimit int64
	executed         int64

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// observer receives callbacks for VM execution events. If nil, no
	// callbacks are made.
	observer Observer
}

// New creates a new Virtual Machine for the given bytecode.
func New(bytecode *compiler.Bytecode, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		instructions:         bytecode.Instructions,
		constants:            bytecode.Constants,
		stackSize:            DefaultStackSize,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.stackSize <= 0 {
		vm.stackSize = DefaultStackSize
	}
	vm.stack = make([]object.Object, vm.stackSize)
	if vm.globals == nil {
		vm.globals = NewGlobals()
	}
	return vm
}

// Run executes the bytecode until the end of the instruction stream or the
// first error. Errors are *errz.Error values carrying the offset of the
// failing instruction.
func (vm *VirtualMachine) Run(ctx context.Context) error {
	var sinceCheck int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	var filter *stepFilter
	if vm.observer != nil {
		filter = newStepFilter(vm.observer.Config())
	}

	for vm.ip < len(vm.instructions) {
		if checkInterval > 0 && doneChan != nil {
			sinceCheck++
			if sinceCheck >= checkInterval {
				sinceCheck = 0
				select {
				case <-doneChan:
					return errz.New(errz.ResourceExceeded, "execution cancelled").
						WithCause(ctx.Err()).WithIP(vm.ip)
				default:
				}
			}
		}
		if vm.instructionLimit > 0 && vm.executed >= vm.instructionLimit {
			return errz.Errorf(errz.ResourceExceeded,
				"instruction limit of %d exceeded", vm.instructionLimit).WithIP(vm.ip)
		}

		instruction, err := op.Decode(vm.instructions, vm.ip)
		if err != nil {
			return err
		}

		if filter != nil && filter.observe() {
			event := StepEvent{
				IP:         vm.ip,
				Opcode:     instruction.Code,
				OpcodeName: instruction.Code.String(),
				Operand:    instruction.Operand,
				HasOperand: instruction.HasOperand(),
				StackDepth: vm.sp,
			}
			if !vm.observer.OnStep(event) {
				return errz.New(errz.Runtime, "execution halted by observer").WithIP(vm.ip)
			}
		}

		ip := vm.ip
		vm.ip += instruction.Width
		vm.executed++
		if err := vm.execute(instruction); err != nil {
			if e, ok := err.(*errz.Error); ok && e.IP < 0 {
				e.IP = ip
			}
			return err
		}
	}
	return nil
}

func (vm *VirtualMachine) execute(ins op.Instruction) error {
	switch ins.Code {
	case op.Constant:
		if int(ins.Operand) >= len(vm.constants) {
			return errz.Errorf(errz.UnknownOpcode,
				"constant index %d out of range for a pool of %d", ins.Operand, len(vm.constants))
		}
		return vm.push(vm.constants[ins.Operand])
	case op.Pop:
		value, err := vm.pop()
		if err != nil {
			return err
		}
		vm.result = value
		return nil
	case op.Add, op.Sub, op.Mul, op.Div:
		return vm.executeArithmetic(ins.Code)
	case op.True:
		return vm.push(object.True)
	case op.False:
		return vm.push(object.False)
	case op.Equal, op.NotEqual, op.GreaterThan:
		return vm.executeComparison(ins.Code)
	case op.Minus:
		return vm.executeMinus()
	case op.Bang:
		return vm.executeBang()
	case op.JumpIfNotTrue:
		condition, err := vm.pop()
		if err != nil {
			return err
		}
		b, ok := condition.(*object.Bool)
		if !ok {
			return errz.Errorf(errz.TypeMismatch,
				"condition must be a bool (got %s)", condition.Type())
		}
		if b != object.True {
			return vm.jump(ins.Operand)
		}
		return nil
	case op.Jump:
		return vm.jump(ins.Operand)
	case op.SetGlobal:
		value, err := vm.pop()
		if err != nil {
			return err
		}
		vm.globals.Set(ins.Operand, value)
		vm.result = nil
		return nil
	case op.GetGlobal:
		value, ok := vm.globals.Get(ins.Operand)
		if !ok {
			return errz.Errorf(errz.UninitializedGlobal,
				"global slot %d was read before it was assigned", ins.Operand)
		}
		return vm.push(value)
	default:
		return errz.Errorf(errz.UnknownOpcode, "unrecognized instruction 0x%02X", byte(ins.Code))
	}
}

func (vm *VirtualMachine) jump(target uint16) error {
	if int(target) > len(vm.instructions) {
		return errz.Errorf(errz.UnknownOpcode,
			"jump target %d is outside the instruction stream", target)
	}
	vm.ip = int(target)
	return nil
}

// popOperands pops the right operand and then the left.
func (vm *VirtualMachine) popOperands() (left, right object.Object, err error) {
	if right, err = vm.pop(); err != nil {
		return nil, nil, err
	}
	if left, err = vm.pop(); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (vm *VirtualMachine) executeArithmetic(code op.Code) error {
	left, right, err := vm.popOperands()
	if err != nil {
		return err
	}
	l, lok := left.(*object.Int)
	r, rok := right.(*object.Int)
	if !lok || !rok {
		return typeMismatch(code, left, right)
	}
	var result int32
	switch code {
	case op.Add:
		result = l.Value() + r.Value()
	case op.Sub:
		result = l.Value() - r.Value()
	case op.Mul:
		result = l.Value() * r.Value()
	case op.Div:
		if r.Value() == 0 {
			return errz.Errorf(errz.DivideByZero, "cannot divide %d by zero", l.Value())
		}
		result = l.Value() / r.Value()
	}
	return vm.push(object.NewInt(result))
}

func (vm *VirtualMachine) executeComparison(code op.Code) error {
	left, right, err := vm.popOperands()
	if err != nil {
		return err
	}
	switch l := left.(type) {
	case *object.Int:
		r, ok := right.(*object.Int)
		if !ok {
			return typeMismatch(code, left, right)
		}
		switch code {
		case op.Equal:
			return vm.push(object.NewBool(l.Value() == r.Value()))
		case op.NotEqual:
			return vm.push(object.NewBool(l.Value() != r.Value()))
		default:
			return vm.push(object.NewBool(l.Value() > r.Value()))
		}
	case *object.Bool, *object.String, *object.NullType:
		if left.Type() != right.Type() || code == op.GreaterThan {
			return typeMismatch(code, left, right)
		}
		equal := left.Equals(right)
		if code == op.NotEqual {
			equal = !equal
		}
		return vm.push(object.NewBool(equal))
	default:
		return typeMismatch(code, left, right)
	}
}

func (vm *VirtualMachine) executeMinus() error {
	operand, err := vm.pop()
	if err != nil {
		return err
	}
	i, ok := operand.(*object.Int)
	if !ok {
		return errz.Errorf(errz.TypeMismatch, "unsupported operand type for -: %s", operand.Type())
	}
	return vm.push(object.NewInt(-i.Value()))
}

func (vm *VirtualMachine) executeBang() error {
	operand, err := vm.pop()
	if err != nil {
		return err
	}
	b, ok := operand.(*object.Bool)
	if !ok {
		return errz.Errorf(errz.TypeMismatch, "unsupported operand type for !: %s", operand.Type())
	}
	return vm.push(object.NewBool(!b.Value()))
}

var operatorSymbols = map[op.Code]string{
	op.Add:         "+",
	op.Sub:         "-",
	op.Mul:         "*",
	op.Div:         "/",
	op.Equal:       "==",
	op.NotEqual:    "!=",
	op.GreaterThan: ">",
}

func typeMismatch(code op.Code, left, right object.Object) *errz.Error {
	return errz.Errorf(errz.TypeMismatch, "unsupported operand types for %s: %s and %s",
		operatorSymbols[code], left.Type(), right.Type())
}

func (vm *VirtualMachine) push(obj object.Object) error {
	if vm.sp >= len(vm.stack) {
		return errz.Errorf(errz.StackOverflow, "stack capacity of %d exceeded", len(vm.stack))
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

// pop removes the top element. The slot is not cleared, so the value stays
// available as the last popped element until it is overwritten.
func (vm *VirtualMachine) pop() (object.Object, error) {
	if vm.sp == 0 {
		return nil, errz.New(errz.StackUnderflow, "pop from an empty stack")
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// StackTop returns the element on top of the stack, or nil if the stack is
// empty.
func (vm *VirtualMachine) StackTop() object.Object {
	if vm.sp == 0 {
		return nil
	}
	return vm.stack[vm.sp-1]
}

// Result returns the value discarded by the last OpPop, or nil if nothing
// was discarded or a SetGlobal ran after it.
func (vm *VirtualMachine) Result() object.Object {
	return vm.result
}

// LastPoppedStackElem returns the element most recently popped by any
// instruction, including SetGlobal. It returns nil if nothing has been
// popped from that position.
func (vm *VirtualMachine) LastPoppedStackElem() object.Object {
	if vm.sp >= len(vm.stack) {
		return nil
	}
	return vm.stack[vm.sp]
}

// StackDepth returns the number of elements on the stack.
func (vm *VirtualMachine) StackDepth() int {
	return vm.sp
}

// Globals returns the global store used by this machine.
func (vm *VirtualMachine) Globals() *Globals {
	return vm.globals
}

// InstructionCount returns the number of instructions executed so far.
func (vm *VirtualMachine) InstructionCount() int64 {
	return vm.executed
}
