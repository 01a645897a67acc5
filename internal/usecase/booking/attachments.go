package booking

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
)

// ======================================================
// PRESCRIPTIONS
// ======================================================

type AddPrescription struct {
	repo    domain.Repository
	notes   *Notifications
	metrics *metrics.Collector
}

func NewAddPrescription(
	repo domain.Repository,
	notes *Notifications,
	m *metrics.Collector,
) *AddPrescription {
	return &AddPrescription{repo: repo, notes: notes, metrics: m}
}

// Execute replaces the prescription list with ids and tells the patient
// where to download them.
func (uc *AddPrescription) Execute(ctx context.Context, id uint, ids []string) error {
	ctx, span := tracer.Start(ctx, "booking.AddPrescription")
	defer span.End()

	ids = domain.NormalizeAttachments(ids)
	span.SetAttributes(
		attribute.Int64("booking.id", int64(id)),
		attribute.Int("attachments", len(ids)),
	)

	if len(ids) == 0 {
		return fail(span, &domain.ValidationError{Fields: map[string]string{
			"booking_prescription": "at least one attachment is required",
		}})
	}

	affected, err := uc.repo.SetPrescriptions(ctx, id, ids)
	if err != nil {
		return fail(span, err)
	}
	if affected == 0 {
		return fail(span, domain.ErrBookingNotFound)
	}

	uc.metrics.PrescriptionsIssued.Inc()
	uc.notes.PrescriptionReady(ctx, id)

	return nil
}

// ======================================================
// USER DOCUMENTS
// ======================================================

type AddUserDocuments struct {
	repo domain.Repository
}

func NewAddUserDocuments(repo domain.Repository) *AddUserDocuments {
	return &AddUserDocuments{repo: repo}
}

// Execute replaces the patient's document list. An empty list clears it.
func (uc *AddUserDocuments) Execute(ctx context.Context, id uint, ids []string) error {
	ctx, span := tracer.Start(ctx, "booking.AddUserDocuments")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", int64(id)))

	affected, err := uc.repo.SetUserDocuments(ctx, id, domain.NormalizeAttachments(ids))
	if err != nil {
		return fail(span, err)
	}
	if affected == 0 {
		return fail(span, domain.ErrBookingNotFound)
	}
	return nil
}
