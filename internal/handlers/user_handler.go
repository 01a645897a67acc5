package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mediplus/internal/auth"
	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/httperr"
	"github.com/BruksfildServices01/mediplus/internal/httpresp"
	"github.com/BruksfildServices01/mediplus/internal/middleware"
	"github.com/BruksfildServices01/mediplus/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	cache domain.StatsCache
	log   *zap.Logger
}

func NewUserHandler(db *gorm.DB, cache domain.StatsCache, log *zap.Logger) *UserHandler {
	if cache == nil {
		cache = domain.NopStatsCache{}
	}
	return &UserHandler{db: db, cache: cache, log: log.Named("users")}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Username string `json:"user_username" binding:"required"`
	Email    string `json:"user_email" binding:"required,email"`
	Password string `json:"user_password" binding:"required,min=6"`
	Name     string `json:"user_name"`
	Age      *int   `json:"user_age"`
	Gender   string `json:"user_gender"`
	Phone    string `json:"user_phone"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Email    *string `json:"user_email" binding:"omitempty,email"`
	Password *string `json:"user_password" binding:"omitempty,min=6"`
	Name     *string `json:"user_name"`
	Age      *int    `json:"user_age"`
	Gender   *string `json:"user_gender"`
	Phone    *string `json:"user_phone"`
	Role     *string `json:"role"`
}

func isValidRole(r string) bool {
	return r == models.RolePatient || r == models.RoleAdmin
}

// --------- Handlers ---------

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}
	if !isValidRole(role) {
		httperr.Validation(c, map[string]string{"role": "must be patient or admin"})
		return
	}

	username := strings.TrimSpace(req.Username)

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
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Name:         strings.TrimSpace(req.Name),
		Age:          req.Age,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Role:         role,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Order("id DESC").
		Find(&users).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.authorizedID(c)
	if !ok {
		return
	}

	user, err := h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.authorizedID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	updates := map[string]any{}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		if _, role := middleware.Caller(c); role != models.RoleAdmin {
			httperr.Forbidden(c, "forbidden", "only admins can change roles")
			return
		}
		if !isValidRole(*req.Role) {
			httperr.Validation(c, map[string]string{"role": "must be patient or admin"})
			return
		}
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		updates["password_hash"] = hashed
	}

	if len(updates) == 0 {
		httperr.Validation(c, map[string]string{"body": "no fields to update"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Updates(updates).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err = h.find(c, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.User{}, id)
	if res.Error != nil {
		respondError(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, h.log, domain.ErrUserNotFound)
		return
	}

	// the user's bookings went with it (ON DELETE CASCADE)
	h.cache.Invalidate(c.Request.Context())

	httpresp.OK(c, gin.H{"message": "user deleted"})
}

func (h *UserHandler) Count(c *gin.Context) {
	var n int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Count(&n).Error; err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"count": n})
}

// --------- Helpers ---------

// authorizedID returns the :id param when the caller is that user or an admin.
func (h *UserHandler) authorizedID(c *gin.Context) (uint, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}

	callerID, role := middleware.Caller(c)
	if role != models.RoleAdmin && !(role == models.RolePatient && callerID == id) {
		httperr.Forbidden(c, "forbidden", "not allowed to access this user")
		return 0, false
	}
	return id, true
}

func (h *UserHandler) find(c *gin.Context, id uint) (*models.User, error) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
