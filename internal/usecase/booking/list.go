package booking

import (
	"context"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/models"
)

// ListBookings groups the read-only booking queries. Lists are newest first.
type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.ListByUser")
	defer span.End()

	out, err := uc.repo.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fail(span, err)
	}
	return out, nil
}

func (uc *ListBookings) All(ctx context.Context) ([]models.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.ListAll")
	defer span.End()

	out, err := uc.repo.ListBookings(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	return out, nil
}

func (uc *ListBookings) Get(ctx context.Context, id uint) (*models.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.Get")
	defer span.End()

	b, err := uc.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return b, nil
}
