package notify

import "context"

const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateBookingDoctor       = "booking_notification_doctor"
	TemplateBookingAdmin        = "booking_notification_admin"
	TemplateMeetingLinkPatient  = "meeting_link_patient"
	TemplateMeetingLinkDoctor   = "meeting_link_doctor"
	TemplatePrescriptionReady   = "prescription_ready"
)

var Templates = []string{
	TemplateBookingConfirmation,
	TemplateBookingDoctor,
	TemplateBookingAdmin,
	TemplateMeetingLinkPatient,
	TemplateMeetingLinkDoctor,
	TemplatePrescriptionReady,
}

// Message names a template, a recipient and the values substituted into it.
type Message struct {
	Template string
	To       string
	Vars     map[string]any
}

type Sink interface {
	Send(ctx context.Context, msg Message) error
}
