package booking

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/models"
	"github.com/BruksfildServices01/mediplus/internal/notify"
)

const defaultPatientName = "Valued Customer"

// Notifications builds the messages tied to booking events and hands them
// to the Notifier. Lookup failures are logged and the affected recipient
// skipped; nothing here is reported back to the caller.
type Notifications struct {
	notifier   Notifier
	repo       domain.Repository
	links      URLResolver
	adminEmail string
	log        *zap.Logger
}

func NewNotifications(
	notifier Notifier,
	repo domain.Repository,
	links URLResolver,
	adminEmail string,
	log *zap.Logger,
) *Notifications {
	return &Notifications{
		notifier:   notifier,
		repo:       repo,
		links:      links,
		adminEmail: adminEmail,
		log:        log.Named("booking.notifications"),
	}
}

// ======================================================
// EVENTS
// ======================================================

func (n *Notifications) BookingCreated(
	b *models.Booking,
	user *models.User,
	doctor *models.Doctor,
) {
	vars := bookingVars(b, user)

	n.send(notify.TemplateBookingConfirmation, patientEmail(b, user), vars)

	if doctor != nil && doctor.Email != "" {
		n.send(notify.TemplateBookingDoctor, doctor.Email, vars)
	}

	if n.adminEmail != "" {
		n.send(notify.TemplateBookingAdmin, n.adminEmail, vars)
	}
}

func (n *Notifications) MeetingLinkIssued(ctx context.Context, bookingID uint) {
	b, user, doctor, ok := n.resolve(ctx, bookingID)
	if !ok {
		return
	}

	vars := bookingVars(b, user)

	n.send(notify.TemplateMeetingLinkPatient, patientEmail(b, user), vars)

	if doctor != nil && doctor.Email != "" {
		n.send(notify.TemplateMeetingLinkDoctor, doctor.Email, vars)
	}
}

func (n *Notifications) PrescriptionReady(ctx context.Context, bookingID uint) {
	b, user, _, ok := n.resolve(ctx, bookingID)
	if !ok {
		return
	}

	links := make([]string, 0, len(b.Prescriptions))
	for _, id := range b.Prescriptions {
		links = append(links, n.links.URL(id))
	}

	vars := bookingVars(b, user)
	vars["prescription_links"] = links

	n.send(notify.TemplatePrescriptionReady, patientEmail(b, user), vars)
}

// ======================================================
// HELPERS
// ======================================================

func (n *Notifications) send(template, to string, vars map[string]any) {
	if to == "" {
		n.log.Debug("no recipient, skipping notification", zap.String("template", template))
		return
	}
	n.notifier.Dispatch(notify.Message{Template: template, To: to, Vars: vars})
}

func (n *Notifications) resolve(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, *models.User, *models.Doctor, bool) {

	b, err := n.repo.GetBooking(ctx, bookingID)
	if err != nil {
		n.log.Warn("booking lookup for notification failed", zap.Uint("booking_id", bookingID), zap.Error(err))
		return nil, nil, nil, false
	}

	user, err := n.repo.GetUser(ctx, b.UserID)
	if err != nil {
		n.log.Warn("user lookup for notification failed", zap.Uint("user_id", b.UserID), zap.Error(err))
		user = nil
	}

	return b, user, n.ResolveDoctor(ctx, b), true
}

// ResolveDoctor finds the doctor behind a booking, by id when the booking
// carries one and by name and specialty otherwise. Returns nil when the
// doctor cannot be found.
func (n *Notifications) ResolveDoctor(ctx context.Context, b *models.Booking) *models.Doctor {
	var (
		doctor *models.Doctor
		err    error
	)

	if b.DoctorID != nil {
		doctor, err = n.repo.GetDoctor(ctx, *b.DoctorID)
	} else {
		doctor, err = n.repo.FindDoctorByIdentity(ctx, b.DoctorFirstname, b.DoctorLastname, b.DoctorSpecialty)
	}

	if err != nil {
		if !errors.Is(err, domain.ErrDoctorNotFound) {
			n.log.Warn("doctor lookup for notification failed", zap.Uint("booking_id", b.ID), zap.Error(err))
		}
		return nil
	}
	return doctor
}

func patientEmail(b *models.Booking, user *models.User) string {
	if b.UserEmail != "" {
		return b.UserEmail
	}
	if user != nil {
		return user.Email
	}
	return ""
}

func bookingVars(b *models.Booking, user *models.User) map[string]any {
	name := defaultPatientName
	if user != nil && user.Name != "" {
		name = user.Name
	}

	link := ""
	if b.Link != nil {
		link = *b.Link
	}

	return map[string]any{
		"user_name":        name,
		"user_email":       patientEmail(b, user),
		"doctor_firstname": b.DoctorFirstname,
		"doctor_lastname":  b.DoctorLastname,
		"doctor_specialty": b.DoctorSpecialty,
		"booking_id":       b.ID,
		"booking_date":     b.Date,
		"booking_time":     b.Time,
		"booking_fees":     strconv.FormatFloat(b.Fees, 'f', 2, 64),
		"booking_status":   b.Status,
		"booking_link":     link,
	}
}
