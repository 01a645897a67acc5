package booking

import "strings"

// Patch is a partial update of a booking. Nil fields are left untouched.
type Patch struct {
	Status     *Status
	Link       *string
	Receipt    *string
	UserEmail  *string
	UserMobile *string
	Date       *string
	Time       *string
	Fees       *float64

	Prescriptions *[]string
	UserDocs      *[]string

	clearLink bool
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil &&
		p.Link == nil &&
		p.Receipt == nil &&
		p.UserEmail == nil &&
		p.UserMobile == nil &&
		p.Date == nil &&
		p.Time == nil &&
		p.Fees == nil &&
		p.Prescriptions == nil &&
		p.UserDocs == nil
}

// Normalize validates the patch and applies the link rule: a link travels
// only with status Link, and any other status clears the stored link.
func (p Patch) Normalize() (Patch, error) {
	verr := &ValidationError{}

	if p.IsEmpty() {
		verr.Add("body", "no fields to update")
		return p, verr
	}

	if p.Status != nil && !p.Status.IsValid() {
		verr.Add("booking_status", "must be one of Pending, Processing, Confirmed, Link")
	}

	if p.Link != nil {
		link := strings.TrimSpace(*p.Link)
		p.Link = &link
		if p.Status == nil || *p.Status != StatusLink {
			if link != "" {
				verr.Add("booking_link", "may only be set together with booking_status Link")
			}
		}
		if link == "" {
			p.Link = nil
			p.clearLink = true
		}
	}

	if p.Status != nil && *p.Status != StatusLink {
		p.Link = nil
		p.clearLink = true
	}

	if p.Date != nil && !IsValidDate(*p.Date) {
		verr.Add("booking_date", "must be a YYYY-MM-DD date")
	}
	if p.Time != nil && strings.TrimSpace(*p.Time) == "" {
		verr.Add("booking_time", "must not be empty")
	}
	if p.Fees != nil && *p.Fees < 0 {
		verr.Add("booking_fees", "must not be negative")
	}

	if p.Prescriptions != nil {
		ids := NormalizeAttachments(*p.Prescriptions)
		p.Prescriptions = &ids
	}
	if p.UserDocs != nil {
		ids := NormalizeAttachments(*p.UserDocs)
		p.UserDocs = &ids
	}

	return p, verr.Err()
}

// ClearsLink reports whether the stored link must be set to NULL.
func (p Patch) ClearsLink() bool {
	return p.clearLink
}

// IssuesLink reports whether applying the patch hands out a meeting link.
func (p Patch) IssuesLink() bool {
	return p.Status != nil && *p.Status == StatusLink && p.Link != nil && *p.Link != ""
}
