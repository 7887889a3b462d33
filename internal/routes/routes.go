package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/catalog"
	rx "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/handlers"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
	"github.com/BruksfildServices01/healthconnect-api/internal/notify"
	"github.com/BruksfildServices01/healthconnect-api/internal/observability/metrics"
	"github.com/BruksfildServices01/healthconnect-api/internal/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/recommendation"
	"github.com/BruksfildServices01/healthconnect-api/internal/session"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/healthconnect-api/internal/usecase/appointment"
)

// Infra holds the singletons built at startup. Storage and providers vary by
// configuration, so main assembles them and RegisterRoutes only wires use
// cases and handlers on top.
type Infra struct {
	Log     zerolog.Logger
	Clock   timezone.Clock
	Redis   *redis.Client
	Metrics *metrics.Metrics

	AllowedOrigins []string

	Users         user.Repository
	Devices       user.DeviceRepository
	Appointments  appointment.Repository
	Feed          appointment.Feed
	Publisher     appointment.Publisher
	Prescriptions rx.Repository
	Objects       prescription.ObjectStore
	AuditStore    audit.Store
	Audit         audit.Recorder

	Sessions  *session.Manager
	Tokens    *session.Tokens
	Notifier  *notify.Notifier
	Generator recommendation.Generator
	Catalog   *catalog.Catalog
}

func RegisterRoutes(r *gin.Engine, in Infra) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestLogger(in.Log),
		middleware.Recovery(in.Log),
		middleware.Metrics(in.Metrics),
		middleware.CORSMiddleware(in.AllowedOrigins),
	)

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		in.Users,
		in.Appointments,
		in.Publisher,
		in.Audit,
		in.Metrics,
		in.Clock,
		in.Log,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		in.Appointments,
		in.Publisher,
		in.Notifier,
		in.Audit,
		in.Metrics,
		in.Clock,
		in.Log,
	)

	saveDetailsUC := ucAppointment.NewSaveAppointmentDetails(
		in.Appointments,
		in.Publisher,
		in.Audit,
		in.Log,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(in.Appointments)
	availabilityUC := ucAppointment.NewGetAvailability(in.Clock)
	dashboardUC := ucAppointment.NewDashboard(in.Appointments, in.Prescriptions, in.Clock)

	// ======================================================
	// SERVICES
	// ======================================================
	prescriptionSvc := prescription.NewService(in.Prescriptions, in.Objects, in.Audit, in.Clock, in.Log)
	recommendationSvc := recommendation.NewService(in.Generator, in.Catalog, in.Metrics, in.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(in.Sessions)
	meHandler := handlers.NewMeHandler(in.Sessions, in.Devices)
	publicHandler := handlers.NewPublicHandler(in.Catalog, availabilityUC)
	catalogHandler := handlers.NewCatalogHandler(in.Catalog, in.Audit)
	usersHandler := handlers.NewUsersHandler(in.Users)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(in.AuditStore, in.Clock)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionSvc)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationSvc)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		confirmAppointmentUC,
		saveDetailsUC,
		listAppointmentsUC,
		in.Feed,
	)

	requireAuth := middleware.AuthMiddleware(in.Tokens, in.Sessions)
	optionalAuth := middleware.OptionalAuth(in.Tokens, in.Sessions)
	idempotent := middleware.Idempotency(in.Redis, middleware.IdempotencyTTL)

	// ======================================================
	// INFRA ROUTES
	// ======================================================
	r.GET("/health", publicHandler.Health)
	r.GET("/metrics", gin.WrapH(in.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/doctors", publicHandler.ListDoctors)
		api.GET("/lab-tests", publicHandler.ListLabTests)
		api.GET("/catalog/filters", publicHandler.Filters)
		api.GET("/booking/slots", publicHandler.Slots)
		api.GET("/booking/state", optionalAuth, publicHandler.BookingState)

		api.POST("/recommendations", recommendationHandler.Recommend)
		api.POST("/recommendations/doctors", recommendationHandler.Doctors)
		api.POST("/recommendations/lab-tests", recommendationHandler.LabTests)

		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/otp/request", authHandler.RequestOTP)
			auth.POST("/otp/verify", authHandler.VerifyOTP)
			auth.POST("/firebase", authHandler.FirebaseLogin)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		me := api.Group("/me")
		me.Use(requireAuth)
		{
			me.GET("", meHandler.GetMe)
			me.PATCH("", meHandler.UpdateMe)
			me.POST("/devices", meHandler.RegisterDevice)

			me.GET("/appointments", appointmentHandler.ListMine)
			me.POST("/appointments", idempotent, appointmentHandler.Create)
			me.GET("/appointments/stream", appointmentHandler.StreamMine)

			me.GET("/prescriptions", prescriptionHandler.ListMine)
			me.POST("/prescriptions", idempotent, prescriptionHandler.Upload)
			me.GET("/prescriptions/:id/download", prescriptionHandler.Download)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireAdmin())
		{
			admin.GET("/appointments", appointmentHandler.ListAll)
			admin.GET("/appointments/stream", appointmentHandler.StreamAll)
			admin.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			admin.PATCH("/appointments/:id/details", appointmentHandler.SaveDetails)

			admin.POST("/doctors", catalogHandler.CreateDoctor)
			admin.PATCH("/doctors/:id", catalogHandler.UpdateDoctor)
			admin.DELETE("/doctors/:id", catalogHandler.DeleteDoctor)

			admin.POST("/lab-tests", catalogHandler.CreateLabTest)
			admin.PATCH("/lab-tests/:id", catalogHandler.UpdateLabTest)
			admin.DELETE("/lab-tests/:id", catalogHandler.DeleteLabTest)

			admin.GET("/prescriptions", prescriptionHandler.ListAll)
			admin.PATCH("/prescriptions/:id/approve", prescriptionHandler.Approve)
			admin.PATCH("/prescriptions/:id/reject", prescriptionHandler.Reject)
			admin.GET("/prescriptions/:id/download", prescriptionHandler.Download)

			admin.GET("/users", usersHandler.List)
			admin.GET("/dashboard", dashboardHandler.Stats)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
