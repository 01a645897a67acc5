package booking

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
	"github.com/BruksfildServices01/mediplus/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID     uint
	UserEmail  string
	UserMobile string

	DoctorID        *uint
	DoctorFirstname string
	DoctorLastname  string
	DoctorSpecialty string

	Date string
	Time string
	Fees *float64

	Status  string
	Link    string
	Receipt *string

	Prescriptions []string
	UserDocs      []string
}

func (in *CreateBookingInput) normalize() (domain.Status, error) {
	verr := &domain.ValidationError{}

	in.UserEmail = strings.TrimSpace(in.UserEmail)
	in.UserMobile = strings.TrimSpace(in.UserMobile)
	in.DoctorFirstname = strings.TrimSpace(in.DoctorFirstname)
	in.DoctorLastname = strings.TrimSpace(in.DoctorLastname)
	in.DoctorSpecialty = strings.TrimSpace(in.DoctorSpecialty)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Link = strings.TrimSpace(in.Link)

	if in.UserID == 0 {
		verr.Add("user_id", "is required")
	}

	if in.DoctorID == nil {
		if in.DoctorFirstname == "" {
			verr.Add("doctor_firstname", "is required")
		}
		if in.DoctorLastname == "" {
			verr.Add("doctor_lastname", "is required")
		}
		if in.DoctorSpecialty == "" {
			verr.Add("doctor_specialty", "is required")
		}
	}

	if in.Date == "" {
		verr.Add("booking_date", "is required")
	} else if !domain.IsValidDate(in.Date) {
		verr.Add("booking_date", "must be a YYYY-MM-DD date")
	}
	if in.Time == "" {
		verr.Add("booking_time", "is required")
	}

	if in.Fees != nil && *in.Fees < 0 {
		verr.Add("booking_fees", "must not be negative")
	}

	status := domain.InitialStatus()
	if s := strings.TrimSpace(in.Status); s != "" {
		parsed, ok := domain.ParseStatus(s)
		if !ok {
			verr.Add("booking_status", "must be one of Pending, Processing, Confirmed, Link")
		}
		status = parsed
	}

	if in.Link != "" && status != domain.StatusLink {
		verr.Add("booking_link", "may only be set together with booking_status Link")
	}

	return status, verr.Err()
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	notes   *Notifications
	cache   domain.StatsCache
	metrics *metrics.Collector
}

func NewCreateBooking(
	repo domain.Repository,
	notes *Notifications,
	cache domain.StatsCache,
	m *metrics.Collector,
) *CreateBooking {
	if cache == nil {
		cache = domain.NopStatsCache{}
	}
	return &CreateBooking{
		repo:    repo,
		notes:   notes,
		cache:   cache,
		metrics: m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.Create")
	defer span.End()

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	status, err := in.normalize()
	if err != nil {
		return nil, fail(span, err)
	}

	// --------------------------------------------------
	// 2. Patient
	// --------------------------------------------------
	user, err := uc.repo.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, fail(span, err)
	}

	// --------------------------------------------------
	// 3. Doctor (by id, else by name + specialty)
	// --------------------------------------------------
	var doctor *models.Doctor
	if in.DoctorID != nil {
		doctor, err = uc.repo.GetDoctor(ctx, *in.DoctorID)
		if err != nil {
			return nil, fail(span, err)
		}
	} else {
		doctor, err = uc.repo.FindDoctorByIdentity(ctx, in.DoctorFirstname, in.DoctorLastname, in.DoctorSpecialty)
		if err != nil && !errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, fail(span, err)
		}
	}

	// --------------------------------------------------
	// 4. Booking row
	// --------------------------------------------------
	b := &models.Booking{
		UserID:          in.UserID,
		UserEmail:       firstNonEmpty(in.UserEmail, user.Email),
		UserMobile:      firstNonEmpty(in.UserMobile, user.Phone),
		DoctorFirstname: in.DoctorFirstname,
		DoctorLastname:  in.DoctorLastname,
		DoctorSpecialty: in.DoctorSpecialty,
		Date:            in.Date,
		Time:            in.Time,
		Status:          string(status),
		Receipt:         in.Receipt,
		Prescriptions:   domain.NormalizeAttachments(in.Prescriptions),
		UserDocs:        domain.NormalizeAttachments(in.UserDocs),
	}

	if doctor != nil {
		b.DoctorID = &doctor.ID
		b.DoctorFirstname = doctor.Firstname
		b.DoctorLastname = doctor.Lastname
		b.DoctorSpecialty = doctor.Specialty
	}

	switch {
	case in.Fees != nil:
		b.Fees = *in.Fees
	case doctor != nil:
		b.Fees = doctor.Fees
	default:
		return nil, fail(span, &domain.ValidationError{Fields: map[string]string{
			"booking_fees": "is required when the doctor is not registered",
		}})
	}

	if in.Link != "" {
		link := in.Link
		b.Link = &link
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(
		attribute.Int64("booking.id", int64(b.ID)),
		attribute.String("booking.status", b.Status),
	)

	uc.cache.Invalidate(ctx)
	uc.metrics.BookingsCreated.Inc()

	// --------------------------------------------------
	// 5. Notifications (fire and forget)
	// --------------------------------------------------
	uc.notes.BookingCreated(b, user, doctor)

	return b, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
