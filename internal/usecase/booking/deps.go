package booking

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruksfildServices01/mediplus/internal/notify"
)

// Notifier queues a message without waiting for delivery.
type Notifier interface {
	Dispatch(msg notify.Message) bool
}

// URLResolver turns a stored blob id into a download URL.
type URLResolver interface {
	URL(id string) string
}

var tracer = otel.Tracer("github.com/BruksfildServices01/mediplus/internal/usecase/booking")

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
