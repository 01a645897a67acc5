package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink renders messages and logs them instead of mailing. Used when no
// SMTP host is configured.
type LogSink struct {
	log      *zap.Logger
	renderer *Renderer
}

func NewLogSink(log *zap.Logger, renderer *Renderer) *LogSink {
	return &LogSink{log: log.Named("notify"), renderer: renderer}
}

func (s *LogSink) Send(_ context.Context, msg Message) error {
	r, err := s.renderer.Render(msg)
	if err != nil {
		return err
	}

	s.log.Info("notification",
		zap.String("template", msg.Template),
		zap.String("to", msg.To),
		zap.String("subject", r.Subject),
	)
	return nil
}
