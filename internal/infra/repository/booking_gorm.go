package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Booking (write)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	if b.Prescriptions == nil {
		b.Prescriptions = datatypes.JSONSlice[string]{}
	}
	if b.UserDocs == nil {
		b.UserDocs = datatypes.JSONSlice[string]{}
	}

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	id uint,
	patch domain.Patch,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(patchColumns(patch))
	if res.Error != nil {
		return 0, fmt.Errorf("update booking %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) (int64, error) {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete booking %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *BookingGormRepository) SetPrescriptions(
	ctx context.Context,
	id uint,
	ids []string,
) (int64, error) {
	return r.setList(ctx, id, "prescriptions", ids)
}

func (r *BookingGormRepository) SetUserDocuments(
	ctx context.Context,
	id uint,
	ids []string,
) (int64, error) {
	return r.setList(ctx, id, "user_docs", ids)
}

func (r *BookingGormRepository) setList(
	ctx context.Context,
	id uint,
	column string,
	ids []string,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update(column, datatypes.JSONSlice[string](domain.NormalizeAttachments(ids)))
	if res.Error != nil {
		return 0, fmt.Errorf("set %s on booking %d: %w", column, id, res.Error)
	}
	return res.RowsAffected, nil
}

// --------------------------------------------------
// Booking (read)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsByUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list bookings for user %d: %w", userID, err)
	}
	return out, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (r *BookingGormRepository) CountBookings(
	ctx context.Context,
) (int64, error) {

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *BookingGormRepository) CountBookingsByStatus(
	ctx context.Context,
) (map[domain.Status]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Total
	}
	return out, nil
}

// --------------------------------------------------
// User / Doctor
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *BookingGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor %d: %w", id, err)
	}
	return &d, nil
}

func (r *BookingGormRepository) FindDoctorByIdentity(
	ctx context.Context,
	firstname string,
	lastname string,
	specialty string,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).
		Where("firstname = ? AND lastname = ? AND specialty = ?", firstname, lastname, specialty).
		Order("id ASC").
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor %s %s (%s): %w", firstname, lastname, specialty, err)
	}
	return &d, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func patchColumns(p domain.Patch) map[string]any {
	cols := map[string]any{}

	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Link != nil {
		cols["link"] = *p.Link
	}
	if p.ClearsLink() {
		cols["link"] = nil
	}
	if p.Receipt != nil {
		cols["receipt"] = *p.Receipt
	}
	if p.UserEmail != nil {
		cols["user_email"] = *p.UserEmail
	}
	if p.UserMobile != nil {
		cols["user_mobile"] = *p.UserMobile
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.Time != nil {
		cols["time"] = *p.Time
	}
	if p.Fees != nil {
		cols["fees"] = *p.Fees
	}
	if p.Prescriptions != nil {
		cols["prescriptions"] = datatypes.JSONSlice[string](*p.Prescriptions)
	}
	if p.UserDocs != nil {
		cols["user_docs"] = datatypes.JSONSlice[string](*p.UserDocs)
	}

	return cols
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
