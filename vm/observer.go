package vm

import "github.com/cloudcmds/kestrel/op"

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NewObserverConfig creates a config with the given mode and a default
// sample interval.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{StepMode: mode, SampleInterval: 1000}
}

// Observer is an interface for observing VM execution. Implementations can
// be used for tracing, profiling, or debugging.
type Observer interface {
	// Config returns the observer's configuration. Called once per run.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the
	// StepMode in the observer's config. Returns false to halt execution.
	OnStep(event StepEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the byte offset of the instruction.
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Operand is the decoded operand, if the opcode has one.
	Operand uint16

	// HasOperand reports whether Operand is meaningful.
	HasOperand bool

	// StackDepth is the current depth of the value stack.
	StackDepth int
}

// NoOpObserver is an Observer implementation that does nothing. Embed it
// to get a default Config that observes every step.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

var _ Observer = NoOpObserver{}

// stepFilter decides which instructions are reported to an observer.
type stepFilter struct {
	mode     StepMode
	interval int
	count    int
}

func newStepFilter(cfg ObserverConfig) *stepFilter {
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = 1
	}
	return &stepFilter{mode: cfg.StepMode, interval: interval}
}

func (f *stepFilter) observe() bool {
	switch f.mode {
	case StepAll:
		return true
	case StepSampled:
		f.count++
		if f.count >= f.interval {
			f.count = 0
			return true
		}
	}
	return false
}
