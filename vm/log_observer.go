package vm

import "github.com/rs/zerolog"

// LogObserver writes one debug event per executed instruction.
type LogObserver struct {
	logger zerolog.Logger
	config ObserverConfig
}

// NewLogObserver returns an observer that traces every step to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger, config: NewObserverConfig(StepAll)}
}

// WithSampling traces only every interval-th instruction.
func (o *LogObserver) WithSampling(interval int) *LogObserver {
	o.config = ObserverConfig{StepMode: StepSampled, SampleInterval: interval}
	return o
}

func (o *LogObserver) Config() ObserverConfig {
	return o.config
}

func (o *LogObserver) OnStep(event StepEvent) bool {
	e := o.logger.Debug().
		Int("ip", event.IP).
		Str("op", event.OpcodeName).
		Int("stack", event.StackDepth)
	if event.HasOperand {
		e = e.Uint16("operand", event.Operand)
	}
	e.Msg("step")
	return true
}
