package submission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// Submission is an accepted entry. Files carries attachment names only; file
// contents never reach this type.
type Submission struct {
	ID         uuid.UUID           `json:"id"`
	FormID     string              `json:"form"`
	ReceivedAt time.Time           `json:"receivedAt"`
	Values     map[string]string   `json:"values"`
	Files      map[string][]string `json:"files,omitempty"`
}

// Outcome reports what a submission attempt produced. On acceptance Values is
// nil (the form is cleared) and Notice is the form's acknowledgment. On
// rejection Values echoes the submitted state so the form can be redisplayed.
type Outcome struct {
	Accepted   bool              `json:"accepted"`
	Result     validation.Result `json:"result"`
	Notice     *model.Notice     `json:"notice,omitempty"`
	Values     validation.Values `json:"values,omitempty"`
	Submission *Submission       `json:"submission,omitempty"`
}

// Sink receives accepted submissions.
type Sink interface {
	Accept(ctx context.Context, entry Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entry Submission) error

func (f SinkFunc) Accept(ctx context.Context, entry Submission) error {
	return f(ctx, entry)
}

// LogSink writes accepted submissions to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink that logs at Info. A nil logger discards entries.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Accept(_ context.Context, entry Submission) error {
	fields := []zap.Field{
		zap.String("id", entry.ID.String()),
		zap.String("form", entry.FormID),
		zap.Time("received_at", entry.ReceivedAt),
		zap.Any("values", entry.Values),
	}
	if len(entry.Files) > 0 {
		fields = append(fields, zap.Any("files", entry.Files))
	}
	s.logger.Info("submission accepted", fields...)
	return nil
}
