package models

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"user_id"`

	Username     string `gorm:"size:100;uniqueIndex;not null" json:"user_username"`
	Email        string `gorm:"size:100;not null" json:"user_email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Name   string `gorm:"size:100" json:"user_name"`
	Age    *int   `json:"user_age"`
	Gender string `gorm:"size:20" json:"user_gender"`
	Phone  string `gorm:"size:20" json:"user_phone"`
	Role   string `gorm:"size:20;default:'patient'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
