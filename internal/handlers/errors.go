package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/httperr"
	"github.com/BruksfildServices01/mediplus/internal/imaging"
	"github.com/BruksfildServices01/mediplus/internal/infra/blob"
)

// respondError maps service errors to HTTP responses. Anything it does not
// recognise is logged and answered with a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		verr *domain.ValidationError
		be   httperr.BusinessError
	)

	switch {
	case errors.As(err, &verr):
		httperr.Validation(c, verr.Fields)
	case errors.Is(err, domain.ErrBookingNotFound):
		httperr.NotFound(c, "booking_not_found", "booking not found")
	case errors.Is(err, domain.ErrUserNotFound):
		httperr.NotFound(c, "user_not_found", "user not found")
	case errors.Is(err, domain.ErrDoctorNotFound):
		httperr.NotFound(c, "doctor_not_found", "doctor not found")
	case errors.Is(err, blob.ErrNotFound):
		httperr.NotFound(c, "file_not_found", "file not found")
	case errors.Is(err, blob.ErrInvalidID):
		httperr.BadRequest(c, "invalid_file_id", "invalid file id")
	case errors.Is(err, imaging.ErrUnsupportedImage):
		httperr.BadRequest(c, "unsupported_image", "image must be jpeg, png, gif or webp")
	case errors.As(err, &be):
		httperr.Conflict(c, be.Code, be.Code)
	case httperr.IsUniqueViolation(err):
		httperr.Conflict(c, "already_exists", "a record with the same unique value already exists")
	default:
		_ = c.Error(err)
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		httperr.Internal(c, "internal_error", "something went wrong")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
