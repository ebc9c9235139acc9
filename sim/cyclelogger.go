package sim

import "github.com/sirupsen/logrus"

// A CycleLogger is a hook that logs the progress of a simulation,
// one line per executed cycle.
type CycleLogger struct {
	log logrus.FieldLogger
}

// NewCycleLogger creates a CycleLogger that writes to the given
// logger.
func NewCycleLogger(log logrus.FieldLogger) *CycleLogger {
	return &CycleLogger{log: log}
}

// Func writes a log line when a cycle completes or the engine rewinds.
func (l *CycleLogger) Func(ctx HookCtx) {
	engine, ok := ctx.Domain.(*Engine)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosAfterCycle:
		l.log.WithFields(logrus.Fields{
			"cycle": ctx.Item,
			"pc":    engine.pc.Address(),
			"state": engine.State().String(),
		}).Debug("cycle executed")
	case HookPosRewind:
		l.log.WithFields(logrus.Fields{
			"cycle": ctx.Item,
			"pc":    engine.pc.Address(),
		}).Debug("rewound")
	}
}
