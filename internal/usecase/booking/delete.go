package booking

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
)

type DeleteBooking struct {
	repo  domain.Repository
	cache domain.StatsCache
}

func NewDeleteBooking(repo domain.Repository, cache domain.StatsCache) *DeleteBooking {
	if cache == nil {
		cache = domain.NopStatsCache{}
	}
	return &DeleteBooking{repo: repo, cache: cache}
}

func (uc *DeleteBooking) Execute(ctx context.Context, id uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "booking.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", int64(id)))

	affected, err := uc.repo.DeleteBooking(ctx, id)
	if err != nil {
		return 0, fail(span, err)
	}
	if affected == 0 {
		return 0, fail(span, domain.ErrBookingNotFound)
	}

	uc.cache.Invalidate(ctx)
	return affected, nil
}
