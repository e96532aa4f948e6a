package notify

import (
	"context"

	"github.com/Freeeeeet/officehours/internal/model"
	"go.uber.org/zap"
)

// LogSink пишет события в лог
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, event model.SlotEvent) error {
	s.logger.Info("Slot event",
		zap.String("slot_id", event.SlotID),
		zap.String("instructor_id", event.InstructorID),
		zap.String("kind", string(event.Kind)),
		zap.String("state", string(event.State)),
		zap.String("reserved_by", event.ReservedBy),
		zap.String("previous_holder", event.PreviousHolder),
		zap.Int64("version", event.Version),
	)
	return nil
}
