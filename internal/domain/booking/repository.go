package booking

import (
	"context"

	"github.com/BruksfildServices01/mediplus/internal/models"
)

type Repository interface {
	// -------- Booking (write) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		id uint,
		patch Patch,
	) (int64, error)

	DeleteBooking(
		ctx context.Context,
		id uint,
	) (int64, error)

	SetPrescriptions(
		ctx context.Context,
		id uint,
		ids []string,
	) (int64, error)

	SetUserDocuments(
		ctx context.Context,
		id uint,
		ids []string,
	) (int64, error)

	// -------- Booking (read) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	ListBookingsByUser(
		ctx context.Context,
		userID uint,
	) ([]models.Booking, error)

	ListBookings(
		ctx context.Context,
	) ([]models.Booking, error)

	CountBookings(
		ctx context.Context,
	) (int64, error)

	CountBookingsByStatus(
		ctx context.Context,
	) (map[Status]int64, error)

	// -------- User / Doctor --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetDoctor(
		ctx context.Context,
		id uint,
	) (*models.Doctor, error)

	FindDoctorByIdentity(
		ctx context.Context,
		firstname string,
		lastname string,
		specialty string,
	) (*models.Doctor, error)
}

// StatsCache fronts CountBookingsByStatus. Misses and cache errors are
// treated the same way: fall through to the repository.
//
// GetStatusCounts also returns the cache generation it observed, and
// SetStatusCounts only stores counts for that generation. Counts read
// before an Invalidate are therefore never served after it.
type StatsCache interface {
	GetStatusCounts(ctx context.Context) (counts map[Status]int64, gen int64, ok bool)
	SetStatusCounts(ctx context.Context, gen int64, counts map[Status]int64)
	Invalidate(ctx context.Context)
}

type NopStatsCache struct{}

func (NopStatsCache) GetStatusCounts(context.Context) (map[Status]int64, int64, bool) {
	return nil, 0, false
}
func (NopStatsCache) SetStatusCounts(context.Context, int64, map[Status]int64) {}
func (NopStatsCache) Invalidate(context.Context)                              {}
