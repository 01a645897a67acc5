package booking

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
)

type UpdateBooking struct {
	repo    domain.Repository
	notes   *Notifications
	cache   domain.StatsCache
	metrics *metrics.Collector
}

func NewUpdateBooking(
	repo domain.Repository,
	notes *Notifications,
	cache domain.StatsCache,
	m *metrics.Collector,
) *UpdateBooking {
	if cache == nil {
		cache = domain.NopStatsCache{}
	}
	return &UpdateBooking{
		repo:    repo,
		notes:   notes,
		cache:   cache,
		metrics: m,
	}
}

// Execute applies patch and returns the number of rows touched. Zero rows
// is reported as ErrBookingNotFound. Issuing a meeting link notifies the
// patient and, when known, the doctor; re-issuing the same link notifies
// again.
func (uc *UpdateBooking) Execute(
	ctx context.Context,
	id uint,
	patch domain.Patch,
) (int64, error) {

	ctx, span := tracer.Start(ctx, "booking.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", int64(id)))

	patch, err := patch.Normalize()
	if err != nil {
		return 0, fail(span, err)
	}

	affected, err := uc.repo.UpdateBooking(ctx, id, patch)
	if err != nil {
		return 0, fail(span, err)
	}
	if affected == 0 {
		return 0, fail(span, domain.ErrBookingNotFound)
	}

	if patch.Status != nil {
		span.SetAttributes(attribute.String("booking.status", string(*patch.Status)))
		uc.metrics.BookingStatusSet.WithLabelValues(string(*patch.Status)).Inc()
		uc.cache.Invalidate(ctx)
	}

	if patch.IssuesLink() {
		uc.notes.MeetingLinkIssued(ctx, id)
	}

	return affected, nil
}
