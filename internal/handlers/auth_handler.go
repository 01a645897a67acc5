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
	"github.com/BruksfildServices01/mediplus/internal/dto"
	"github.com/BruksfildServices01/mediplus/internal/httperr"
	"github.com/BruksfildServices01/mediplus/internal/httpresp"
	"github.com/BruksfildServices01/mediplus/internal/middleware"
	"github.com/BruksfildServices01/mediplus/internal/models"
	"github.com/BruksfildServices01/mediplus/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	tokens *auth.TokenManager
	log    *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, tokens *auth.TokenManager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, tokens: tokens, log: log.Named("auth")}
}

// --------- Requests ---------

type SignupRequest struct {
	Username string `json:"user_username" binding:"required"`
	Email    string `json:"user_email" binding:"required,email"`
	Password string `json:"user_password" binding:"required,min=6"`
	Name     string `json:"user_name"`
	Age      *int   `json:"user_age"`
	Gender   string `json:"user_gender"`
	Phone    string `json:"user_phone"`
}

type SigninRequest struct {
	Username string `json:"user_username"`
	Email    string `json:"user_email"`
	Password string `json:"user_password" binding:"required"`
}

type DoctorSigninRequest struct {
	Username string `json:"doctor_username" binding:"required"`
	Password string `json:"doctor_password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.config.CheckEmailHosts && !validators.IsEmailDomainValid(email) {
		httperr.Validation(c, map[string]string{"user_email": "email domain does not resolve"})
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
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

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(req.Name),
		Age:          req.Age,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Role:         models.RolePatient,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	token, ok := h.issue(c, user.ID, user.Role)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "auth": token})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	q := h.db.WithContext(c.Request.Context())
	switch {
	case strings.TrimSpace(req.Username) != "":
		q = q.Where("username = ?", strings.TrimSpace(req.Username))
	case strings.TrimSpace(req.Email) != "":
		q = q.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email)))
	default:
		httperr.Validation(c, map[string]string{"user_username": "username or email is required"})
		return
	}

	var user models.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "invalid credentials")
			return
		}
		respondError(c, h.log, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "invalid credentials")
		return
	}

	token, ok := h.issue(c, user.ID, user.Role)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{"user": user, "auth": token})
}

func (h *AuthHandler) DoctorSignin(c *gin.Context) {
	var req DoctorSigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.db.WithContext(c.Request.Context()).
		Where("username = ?", strings.TrimSpace(req.Username)).
		First(&doctor).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "invalid credentials")
			return
		}
		respondError(c, h.log, err)
		return
	}

	if err := auth.CheckPassword(doctor.PasswordHash, req.Password); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "invalid credentials")
		return
	}

	token, ok := h.issue(c, doctor.ID, models.RoleDoctor)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{"doctor": doctor, "auth": token})
}

func (h *AuthHandler) Validate(c *gin.Context) {
	id, role := middleware.Caller(c)
	httpresp.OK(c, dto.CallerDTO{ID: id, Role: role})
}

// --------- JWT ---------

func (h *AuthHandler) issue(c *gin.Context, id uint, role string) (dto.TokenDTO, bool) {
	token, exp, err := h.tokens.Issue(id, role)
	if err != nil {
		respondError(c, h.log, err)
		return dto.TokenDTO{}, false
	}
	return dto.TokenDTO{Token: token, ExpiresAt: exp, Role: role, ID: id}, true
}
