package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mediplus/internal/auth"
	"github.com/BruksfildServices01/mediplus/internal/config"
	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/handlers"
	"github.com/BruksfildServices01/mediplus/internal/infra/blob"
	infraRepo "github.com/BruksfildServices01/mediplus/internal/infra/repository"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
	"github.com/BruksfildServices01/mediplus/internal/middleware"
	"github.com/BruksfildServices01/mediplus/internal/models"
	ucBooking "github.com/BruksfildServices01/mediplus/internal/usecase/booking"
)

// Deps carries the process-wide singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Collector
	Store    blob.Store
	Notifier ucBooking.Notifier
	Cache    domain.StatsCache
	Tokens   *auth.TokenManager
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.Tracing(cfg.Tracing.ServiceName),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(d.Metrics),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)

	notes := ucBooking.NewNotifications(
		d.Notifier,
		bookingRepo,
		d.Store,
		cfg.Mail.AdminEmail,
		d.Log,
	)

	// ======================================================
	// USE CASES - BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, notes, d.Cache, d.Metrics)
	updateBookingUC := ucBooking.NewUpdateBooking(bookingRepo, notes, d.Cache, d.Metrics)
	deleteBookingUC := ucBooking.NewDeleteBooking(bookingRepo, d.Cache)
	addPrescriptionUC := ucBooking.NewAddPrescription(bookingRepo, notes, d.Metrics)
	addDocumentsUC := ucBooking.NewAddUserDocuments(bookingRepo)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)
	bookingStatsUC := ucBooking.NewBookingStats(bookingRepo, d.Cache)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg, d.Tokens, d.Log)
	userHandler := handlers.NewUserHandler(d.DB, d.Cache, d.Log)
	doctorHandler := handlers.NewDoctorHandler(d.DB, cfg, d.Log)
	uploadHandler := handlers.NewUploadHandler(d.Store, cfg.Storage.MaxUploadBytes, cfg.Storage.ImageMaxWidth, d.Log)
	dashboardHandler := handlers.NewDashboardHandler(d.DB, bookingStatsUC, d.Log)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingUC,
		deleteBookingUC,
		addPrescriptionUC,
		addDocumentsUC,
		listBookingsUC,
		bookingStatsUC,
		d.Store,
		cfg.Storage.MaxUploadBytes,
		d.Log,
	)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// ---------- PUBLIC ----------
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/signin", authHandler.Signin)
		authGroup.POST("/doctor/signin", authHandler.DoctorSignin)
	}

	api.GET("/doctors", doctorHandler.List)
	api.GET("/doctors/:id", doctorHandler.Get)
	api.GET("/doctors/:id/slots", doctorHandler.Slots)

	api.GET("/files/*id", uploadHandler.Download)

	// ---------- AUTHENTICATED ----------
	requireAuth := middleware.AuthMiddleware(d.Tokens)
	admin := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleDoctor)

	secured := api.Group("")
	secured.Use(requireAuth)

	secured.GET("/auth/validate", authHandler.Validate)

	bookings := secured.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRole(models.RolePatient, models.RoleAdmin), bookingHandler.Create)
		bookings.GET("", staff, bookingHandler.List)
		bookings.GET("/count", admin, bookingHandler.Count)
		bookings.GET("/stats", admin, bookingHandler.Stats)
		bookings.GET("/user/:userId", bookingHandler.ListByUser)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.PUT("/:id", staff, bookingHandler.Update)
		bookings.DELETE("/:id", admin, bookingHandler.Delete)
		bookings.POST("/:id/prescription", staff, bookingHandler.AddPrescription)
		bookings.POST("/:id/documents", bookingHandler.AddDocuments)
	}

	users := secured.Group("/users")
	{
		users.POST("", admin, userHandler.Create)
		users.GET("", admin, userHandler.List)
		users.GET("/count", admin, userHandler.Count)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", admin, userHandler.Delete)
	}

	doctors := secured.Group("/doctors")
	{
		doctors.POST("", admin, doctorHandler.Create)
		doctors.GET("/count", admin, doctorHandler.Count)
		doctors.PUT("/:id", staff, doctorHandler.Update)
		doctors.DELETE("/:id", admin, doctorHandler.Delete)
	}

	uploads := secured.Group("/uploads")
	{
		uploads.POST("", uploadHandler.Upload)
		uploads.POST("/image", uploadHandler.UploadImage)
	}

	secured.GET("/admin/counts", admin, dashboardHandler.Counts)
}
