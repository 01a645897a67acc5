package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mediplus/internal/dto"
	"github.com/BruksfildServices01/mediplus/internal/httpresp"
	"github.com/BruksfildServices01/mediplus/internal/models"
	ucBooking "github.com/BruksfildServices01/mediplus/internal/usecase/booking"
)

type DashboardHandler struct {
	db    *gorm.DB
	stats *ucBooking.BookingStats
	log   *zap.Logger
}

func NewDashboardHandler(db *gorm.DB, stats *ucBooking.BookingStats, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{db: db, stats: stats, log: log.Named("dashboard")}
}

func (h *DashboardHandler) Counts(c *gin.Context) {
	ctx := c.Request.Context()

	var out dto.DashboardCountsDTO

	if err := h.db.WithContext(ctx).Model(&models.Doctor{}).Count(&out.Doctors).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.User{}).Count(&out.Users).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	n, err := h.stats.Count(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out.Appointments = n

	httpresp.OK(c, out)
}
