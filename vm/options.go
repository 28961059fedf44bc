package vm

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithStackSize sets the capacity of the operand stack. Pushing beyond it
// fails with errz.StackOverflow. The default is DefaultStackSize.
func WithStackSize(size int) Option {
	return func(vm *VirtualMachine) {
		vm.stackSize = size
	}
}

// WithGlobals runs against an existing global store instead of a fresh one.
// Sessions use this to carry bindings from one run to the next.
func WithGlobals(globals *Globals) Option {
	return func(vm *VirtualMachine) {
		vm.globals = globals
	}
}

// WithInstructionLimit caps the number of instructions a run may execute.
// Exceeding the limit fails with errz.ResourceExceeded. A value of 0, the
// default, means no limit.
func WithInstructionLimit(limit int64) Option {
	return func(vm *VirtualMachine) {
		vm.instructionLimit = limit
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables checking. The default is DefaultContextCheckInterval.
//
// Lower values provide more responsive cancellation but may slightly impact
// performance due to more frequent checks.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events. Observer methods
// are called synchronously during execution, so implementations should be
// fast. Returning false from OnStep halts execution.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
