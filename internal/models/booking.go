package models

import (
	"time"

	"gorm.io/datatypes"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"booking_id"`

	UserID     uint   `gorm:"not null;index" json:"user_id"`
	User       *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserEmail  string `gorm:"size:100" json:"user_email"`
	UserMobile string `gorm:"size:20" json:"user_mobile"`

	// Snapshot of the doctor at booking time. DoctorID is kept alongside
	// and nulled if the doctor record goes away.
	DoctorID        *uint   `gorm:"index" json:"doctor_id"`
	Doctor          *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	DoctorFirstname string  `gorm:"size:100;not null" json:"doctor_firstname"`
	DoctorLastname  string  `gorm:"size:100;not null" json:"doctor_lastname"`
	DoctorSpecialty string  `gorm:"size:50;not null" json:"doctor_specialty"`

	Date string  `gorm:"size:10;not null" json:"booking_date"`
	Time string  `gorm:"size:50;not null" json:"booking_time"`
	Fees float64 `gorm:"type:decimal(10,2);not null;default:0" json:"booking_fees"`

	Status  string  `gorm:"size:20;not null;default:'Pending';index" json:"booking_status"`
	Link    *string `gorm:"size:500" json:"booking_link"`
	Receipt *string `gorm:"size:500" json:"booking_receipt"`

	Prescriptions datatypes.JSONSlice[string] `json:"booking_prescription"`
	UserDocs      datatypes.JSONSlice[string] `json:"booking_user_doc"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
