package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/config"
	dbpkg "github.com/BruksfildServices01/healthconnect-api/internal/db"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/catalog"
	rx "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	fbinfra "github.com/BruksfildServices01/healthconnect-api/internal/infra/firebase"
	infraRepo "github.com/BruksfildServices01/healthconnect-api/internal/infra/repository"
	"github.com/BruksfildServices01/healthconnect-api/internal/logging"
	"github.com/BruksfildServices01/healthconnect-api/internal/notify"
	"github.com/BruksfildServices01/healthconnect-api/internal/observability/metrics"
	"github.com/BruksfildServices01/healthconnect-api/internal/otp"
	"github.com/BruksfildServices01/healthconnect-api/internal/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/realtime"
	"github.com/BruksfildServices01/healthconnect-api/internal/recommendation"
	"github.com/BruksfildServices01/healthconnect-api/internal/reminder"
	"github.com/BruksfildServices01/healthconnect-api/internal/routes"
	"github.com/BruksfildServices01/healthconnect-api/internal/session"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
	"github.com/BruksfildServices01/healthconnect-api/internal/validators"
)

const shutdownTimeout = 15 * time.Second

type storage struct {
	users         user.Repository
	devices       user.DeviceRepository
	appointments  appointment.Repository
	prescriptions rx.Repository
	auditStore    audit.Store

	// feed is set when the backend streams changes itself.
	feed appointment.Feed
}

func main() {

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := timezone.ClockIn(cfg.Timezone)

	// ======================================================
	// INFRA
	// ======================================================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}

	var app *fb.App
	if cfg.FirebaseEnabled() {
		var err error
		app, err = fbinfra.NewApp(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init failed")
		}
	}

	store, closeStore, err := openStorage(ctx, cfg, app)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("storage init failed")
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	auditDispatcher := audit.NewDispatcher(audit.New(store.auditStore), log)

	// ======================================================
	// REALTIME
	// ======================================================
	hub := realtime.NewHub()
	var publisher appointment.Publisher = hub
	feed := store.feed

	if feed == nil {
		notifier := realtime.NewRedisNotifier(rdb, hub, log)
		publisher = notifier
		feed = realtime.NewNotifierFeed(store.appointments, hub)

		go func() {
			if err := notifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("appointment change listener stopped")
			}
		}()
	}

	// ======================================================
	// SESSIONS
	// ======================================================
	deps := session.Deps{
		Users:  store.users,
		Store:  session.NewStore(rdb, cfg.SessionTTL),
		Tokens: session.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		Audit:  auditDispatcher,
		Clock:  clock,
		Log:    log,
	}
	if cfg.VerifyEmailDomain {
		deps.CheckEmailDomain = validators.IsEmailDomainValid
	}

	var challenge otp.ChallengeVerifier
	var pushClient notify.Multicaster
	if app != nil {
		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase auth client")
		}
		deps.Phones = fbinfra.NewPhoneIdentity(authClient)

		if cfg.AppCheckEnabled {
			checkClient, err := app.AppCheck(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("firebase app check client")
			}
			challenge = fbinfra.NewAppCheckVerifier(checkClient)
		}

		if cfg.PushEnabled {
			msgClient, err := app.Messaging(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("firebase messaging client")
			}
			pushClient = msgClient
		}
	}

	if cfg.OTPSender == "log" {
		deps.OTP = otp.NewService(rdb, otp.NewLogSender(log), challenge, otp.Config{
			TTL:          cfg.OTPTTL,
			MaxPerWindow: cfg.OTPMaxPerWindow,
			Window:       cfg.OTPWindow,
		}, m, log)
	}

	sessions := session.NewManager(deps)
	if cfg.AdminEmail != "" {
		if err := sessions.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	// ======================================================
	// NOTIFICATIONS
	// ======================================================
	var email notify.EmailSender = notify.NewStubEmailSender(log)
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, log); sg != nil {
		email = sg
	}

	var push notify.PushSender = notify.NewStubPushSender(log)
	if pushClient != nil {
		push = notify.NewFCMSender(pushClient, log)
	}

	notifier := notify.NewNotifier(email, push, store.devices, log)

	job := reminder.NewJob(store.appointments, publisher, notifier, m, clock, cfg.ReminderLead, log)
	scheduler, err := job.Start(ctx, cfg.ReminderInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("reminder scheduler")
	}
	defer scheduler.Stop()

	// ======================================================
	// PRESCRIPTIONS + RECOMMENDATIONS
	// ======================================================
	var objects prescription.ObjectStore
	if cfg.S3Bucket != "" {
		objects = prescription.NewS3Store(prescription.NewS3Client(prescription.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}), cfg.S3Bucket)
	} else {
		log.Warn().Msg("S3_BUCKET not set, prescriptions are kept in memory")
		objects = prescription.NewMemoryStore()
	}

	var generator recommendation.Generator = recommendation.Unavailable{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := recommendation.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client")
		}
		defer gemini.Close()
		generator = gemini
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, recommendations are disabled")
	}

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	routes.RegisterRoutes(r, routes.Infra{
		Log:            log,
		Clock:          clock,
		Redis:          rdb,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
		Users:          store.users,
		Devices:        store.devices,
		Appointments:   store.appointments,
		Feed:           feed,
		Publisher:      publisher,
		Prescriptions:  store.prescriptions,
		Objects:        objects,
		AuditStore:     store.auditStore,
		Audit:          auditDispatcher,
		Sessions:       sessions,
		Tokens:         deps.Tokens,
		Notifier:       notifier,
		Generator:      generator,
		Catalog:        catalog.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("storage", cfg.StorageDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := auditDispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit queue not drained")
	}
}

// openStorage picks the backend for users, credentials and appointments.
// Prescriptions, device tokens and audit logs live in postgres unless the
// driver is memory.
func openStorage(ctx context.Context, cfg *config.Config, app *fb.App) (storage, func(), error) {
	noop := func() {}

	if cfg.StorageDriver == config.StorageMemory {
		return storage{
			users:         infraRepo.NewUserMemoryRepository(),
			devices:       infraRepo.NewDeviceMemoryRepository(),
			appointments:  infraRepo.NewAppointmentMemoryRepository(),
			prescriptions: infraRepo.NewPrescriptionMemoryRepository(),
			auditStore:    infraRepo.NewAuditMemoryStore(),
		}, noop, nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return storage{}, noop, err
	}
	s := storage{
		users:         infraRepo.NewUserGormRepository(db),
		devices:       infraRepo.NewDeviceGormRepository(db),
		appointments:  infraRepo.NewAppointmentGormRepository(db),
		prescriptions: infraRepo.NewPrescriptionGormRepository(db),
		auditStore:    infraRepo.NewAuditGormStore(db),
	}
	closeDB := func() { closeGorm(db) }

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return s, closeDB, nil

	case config.StorageFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			closeDB()
			return storage{}, noop, err
		}
		appointments := infraRepo.NewAppointmentFirestoreRepository(client)
		s.users = infraRepo.NewUserFirestoreRepository(client)
		s.appointments = appointments
		s.feed = appointments
		return s, func() { closeFirestore(client); closeDB() }, nil
	}

	closeDB()
	return storage{}, noop, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func closeFirestore(client *firestore.Client) {
	_ = client.Close()
}
