package dto

import domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"

type DoctorSlotsDTO struct {
	DoctorID uint              `json:"doctor_id"`
	Days     []domain.DaySlots `json:"days"`
}
