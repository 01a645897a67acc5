package dto

import "time"

type TokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	ID        uint      `json:"id"`
}

type CallerDTO struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}
