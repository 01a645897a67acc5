package booking

import (
	"context"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
)

type BookingStats struct {
	repo  domain.Repository
	cache domain.StatsCache
}

func NewBookingStats(repo domain.Repository, cache domain.StatsCache) *BookingStats {
	if cache == nil {
		cache = domain.NopStatsCache{}
	}
	return &BookingStats{repo: repo, cache: cache}
}

// CountByStatus reports every status, including those with no bookings.
func (uc *BookingStats) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	ctx, span := tracer.Start(ctx, "booking.CountByStatus")
	defer span.End()

	cached, gen, ok := uc.cache.GetStatusCounts(ctx)
	if ok {
		return withAllStatuses(cached), nil
	}

	counts, err := uc.repo.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	counts = withAllStatuses(counts)
	uc.cache.SetStatusCounts(ctx, gen, counts)

	return counts, nil
}

func (uc *BookingStats) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "booking.Count")
	defer span.End()

	n, err := uc.repo.CountBookings(ctx)
	if err != nil {
		return 0, fail(span, err)
	}
	return n, nil
}

func withAllStatuses(in map[domain.Status]int64) map[domain.Status]int64 {
	out := make(map[domain.Status]int64, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		out[s] = 0
	}
	for s, n := range in {
		out[s] = n
	}
	return out
}
