package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/goliatone/go-schoolsite/pkg/forms"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

type Option func(*Processor)

// WithSink replaces the default LogSink.
func WithSink(sink Sink) Option {
	return func(p *Processor) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithLogger sets the logger used for rejections and sink failures. The
// default LogSink shares it unless WithSink is also given.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRegisterer registers the submission counters with reg. Without it the
// counters live in a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Processor) {
		if reg != nil {
			p.registerer = reg
		}
	}
}

// WithClock overrides the receive timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// Processor validates submissions against the compiled forms of a Store.
// It is safe for concurrent use.
type Processor struct {
	forms      *forms.Store
	sink       Sink
	logger     *zap.Logger
	registerer prometheus.Registerer
	now        func() time.Time
	newID      func() uuid.UUID

	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
}

// NewProcessor builds a Processor for the forms in store.
func NewProcessor(store *forms.Store, opts ...Option) (*Processor, error) {
	if store == nil {
		return nil, fmt.Errorf("submission: form store is nil")
	}
	p := &Processor{
		forms:  store,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.sink == nil {
		p.sink = NewLogSink(p.logger)
	}
	if p.registerer == nil {
		p.registerer = prometheus.NewRegistry()
	}

	factory := promauto.With(p.registerer)
	p.submissions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schoolsite",
		Subsystem: "forms",
		Name:      "submissions_total",
		Help:      "Form submissions by form and outcome",
	}, []string{"form", "outcome"})
	p.fieldErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schoolsite",
		Subsystem: "forms",
		Name:      "field_errors_total",
		Help:      "Field validation failures by form and field",
	}, []string{"form", "field"})
	return p, nil
}

// Submit validates values for the form with the given id. A rejected
// submission is not an error: the Outcome carries the per-field messages.
// Errors are returned for unknown forms, a cancelled context and sink
// failures.
func (p *Processor) Submit(ctx context.Context, formID string, values validation.Values) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	validator, err := p.forms.Validator(formID)
	if err != nil {
		return Outcome{}, fmt.Errorf("submission: %w", err)
	}
	form, err := p.forms.Form(formID)
	if err != nil {
		return Outcome{}, fmt.Errorf("submission: %w", err)
	}

	result := validator.Validate(values)
	if !result.Valid {
		p.submissions.WithLabelValues(formID, outcomeRejected).Inc()
		for _, field := range result.Fields() {
			p.fieldErrors.WithLabelValues(formID, field).Inc()
		}
		p.logger.Debug("submission rejected",
			zap.String("form", formID),
			zap.Strings("fields", result.Fields()),
		)
		return Outcome{Result: result, Values: values}, nil
	}

	entry := Submission{
		ID:         p.newID(),
		FormID:     formID,
		ReceivedAt: p.now().UTC(),
		Values:     values.Raw(),
		Files:      values.FileNames(),
	}
	if err := p.sink.Accept(ctx, entry); err != nil {
		p.submissions.WithLabelValues(formID, outcomeFailed).Inc()
		p.logger.Error("submission sink failed",
			zap.String("form", formID),
			zap.String("id", entry.ID.String()),
			zap.Error(err),
		)
		return Outcome{Result: result, Values: values}, fmt.Errorf("submission: accept %s: %w", entry.ID, err)
	}

	p.submissions.WithLabelValues(formID, outcomeAccepted).Inc()
	notice := form.Success
	return Outcome{
		Accepted:   true,
		Result:     result,
		Notice:     &notice,
		Submission: &entry,
	}, nil
}
