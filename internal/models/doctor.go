package models

import "time"

var Specialties = []string{
	"GP",
	"Urologist",
	"Gynecologist",
	"Venereologist",
	"Fertility",
	"Psychologist",
	"Ayurvedic",
}

func IsValidSpecialty(s string) bool {
	for _, v := range Specialties {
		if v == s {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"doctor_id"`

	Username     string `gorm:"size:100;uniqueIndex;not null" json:"doctor_username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Firstname  string `gorm:"size:100;not null;index:idx_doctor_identity" json:"doctor_firstname"`
	Lastname   string `gorm:"size:100;not null;index:idx_doctor_identity" json:"doctor_lastname"`
	Specialty  string `gorm:"size:50;not null;index:idx_doctor_identity" json:"doctor_specialty"`
	Experience int    `json:"doctor_experience"`
	Bio        string `gorm:"type:text" json:"doctor_bio"`
	Image      string `gorm:"size:500" json:"doctor_image"`
	Email      string `gorm:"size:100" json:"doctor_email"`
	Mobile     string `gorm:"size:20" json:"doctor_mobile"`

	// Comma-separated weekday abbreviations and time ranges, e.g.
	// "Mon, Wed" and "09:00-10:00, 14:00-15:00".
	AvailableDate string `gorm:"size:100" json:"doctor_available_date"`
	AvailableTime string `gorm:"size:255" json:"doctor_available_time"`

	Fees float64 `gorm:"type:decimal(10,2);default:2000" json:"doctor_fees"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
