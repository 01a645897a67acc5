package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mediplus/internal/auth"
	"github.com/BruksfildServices01/mediplus/internal/config"
	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/dto"
	"github.com/BruksfildServices01/mediplus/internal/httperr"
	"github.com/BruksfildServices01/mediplus/internal/httpresp"
	"github.com/BruksfildServices01/mediplus/internal/middleware"
	"github.com/BruksfildServices01/mediplus/internal/models"
	"github.com/BruksfildServices01/mediplus/internal/timezone"
)

const defaultDoctorFee = 2000

type DoctorHandler struct {
	db     *gorm.DB
	config *config.Config
	log    *zap.Logger
}

func NewDoctorHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{db: db, config: cfg, log: log.Named("doctors")}
}

// --------- Requests ---------

type CreateDoctorRequest struct {
	Username      string   `json:"doctor_username" binding:"required"`
	Password      string   `json:"doctor_password" binding:"required,min=6"`
	Firstname     string   `json:"doctor_firstname" binding:"required"`
	Lastname      string   `json:"doctor_lastname" binding:"required"`
	Specialty     string   `json:"doctor_specialty" binding:"required"`
	Experience    int      `json:"doctor_experience" binding:"gte=0"`
	Bio           string   `json:"doctor_bio"`
	Image         string   `json:"doctor_image"`
	Email         string   `json:"doctor_email" binding:"omitempty,email"`
	Mobile        string   `json:"doctor_mobile"`
	AvailableDate string   `json:"doctor_available_date"`
	AvailableTime string   `json:"doctor_available_time"`
	Fees          *float64 `json:"doctor_fees"`
}

type UpdateDoctorRequest struct {
	Password      *string  `json:"doctor_password" binding:"omitempty,min=6"`
	Firstname     *string  `json:"doctor_firstname"`
	Lastname      *string  `json:"doctor_lastname"`
	Specialty     *string  `json:"doctor_specialty"`
	Experience    *int     `json:"doctor_experience" binding:"omitempty,gte=0"`
	Bio           *string  `json:"doctor_bio"`
	Image         *string  `json:"doctor_image"`
	Email         *string  `json:"doctor_email" binding:"omitempty,email"`
	Mobile        *string  `json:"doctor_mobile"`
	AvailableDate *string  `json:"doctor_available_date"`
	AvailableTime *string  `json:"doctor_available_time"`
	Fees          *float64 `json:"doctor_fees"`
}

// --------- Handlers ---------

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	verr := &domain.ValidationError{}
	if !models.IsValidSpecialty(req.Specialty) {
		verr.Add("doctor_specialty", "must be one of "+strings.Join(models.Specialties, ", "))
	}
	fees := float64(defaultDoctorFee)
	if req.Fees != nil {
		fees = *req.Fees
	}
	if fees < 0 {
		verr.Add("doctor_fees", "must not be negative")
	}
	if err := verr.Err(); err != nil {
		respondError(c, h.log, err)
		return
	}

	username := strings.TrimSpace(req.Username)

	var count int64
	if err := h.db.Model(&models.Doctor{}).Where("username = ?", username).Count(&count).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	if count > 0 {
		respondError(c, h.log, httperr.ErrBusiness("username_taken"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	doctor := models.Doctor{
		Username:      username,
		PasswordHash:  hashed,
		Firstname:     strings.TrimSpace(req.Firstname),
		Lastname:      strings.TrimSpace(req.Lastname),
		Specialty:     req.Specialty,
		Experience:    req.Experience,
		Bio:           req.Bio,
		Image:         req.Image,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:        req.Mobile,
		AvailableDate: req.AvailableDate,
		AvailableTime: req.AvailableTime,
		Fees:          fees,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&doctor).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

func (h *DoctorHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Order("id DESC")

	if specialty := strings.TrimSpace(c.Query("specialty")); specialty != "" {
		q = q.Where("specialty = ?", specialty)
	}

	var doctors []models.Doctor
	if err := q.Find(&doctors).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, doctor)
}

// Slots lists the doctor's upcoming bookable slots. ?from=YYYY-MM-DD
// overrides the starting date.
func (h *DoctorHandler) Slots(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	today, ok := timezone.Today(h.config.ClinicTimezone, c.Query("from"))
	if !ok {
		httperr.Validation(c, map[string]string{"from": "must be a date in YYYY-MM-DD format"})
		return
	}

	days := domain.CollectSlots(domain.UpcomingSlots(doctor.AvailableDate, doctor.AvailableTime, today))

	httpresp.OK(c, dto.DoctorSlotsDTO{DoctorID: doctor.ID, Days: days})
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	callerID, role := middleware.Caller(c)
	if role != models.RoleAdmin && !(role == models.RoleDoctor && callerID == id) {
		httperr.Forbidden(c, "forbidden", "not allowed to edit this doctor")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	doctor, err := h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	updates, err := req.columns()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if len(updates) == 0 {
		httperr.Validation(c, map[string]string{"body": "no fields to update"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(doctor).
		Updates(updates).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	doctor, err = h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, doctor)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Doctor{}, id)
	if res.Error != nil {
		respondError(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, h.log, domain.ErrDoctorNotFound)
		return
	}

	httpresp.OK(c, gin.H{"message": "doctor deleted"})
}

func (h *DoctorHandler) Count(c *gin.Context) {
	var n int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.Doctor{}).Count(&n).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"count": n})
}

// --------- Helpers ---------

func (r UpdateDoctorRequest) columns() (map[string]any, error) {
	verr := &domain.ValidationError{}
	cols := map[string]any{}

	setString := func(col string, v *string) {
		if v != nil {
			cols[col] = strings.TrimSpace(*v)
		}
	}
	setString("firstname", r.Firstname)
	setString("lastname", r.Lastname)
	setString("bio", r.Bio)
	setString("image", r.Image)
	setString("mobile", r.Mobile)
	setString("available_date", r.AvailableDate)
	setString("available_time", r.AvailableTime)

	if r.Email != nil {
		cols["email"] = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Specialty != nil {
		if !models.IsValidSpecialty(*r.Specialty) {
			verr.Add("doctor_specialty", "must be one of "+strings.Join(models.Specialties, ", "))
		}
		cols["specialty"] = *r.Specialty
	}
	if r.Experience != nil {
		cols["experience"] = *r.Experience
	}
	if r.Fees != nil {
		if *r.Fees < 0 {
			verr.Add("doctor_fees", "must not be negative")
		}
		cols["fees"] = *r.Fees
	}
	if r.Password != nil {
		hashed, err := auth.HashPassword(*r.Password)
		if err != nil {
			return nil, err
		}
		cols["password_hash"] = hashed
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

func (h *DoctorHandler) find(c *gin.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := h.db.WithContext(c.Request.Context()).First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, err
	}
	return &doctor, nil
}
