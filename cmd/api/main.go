package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medora-health/emr-admin-api/config"
	"github.com/medora-health/emr-admin-api/internal/handler"
	appointmentHandler "github.com/medora-health/emr-admin-api/internal/handler/appointment"
	authHandler "github.com/medora-health/emr-admin-api/internal/handler/auth"
	clinicHandler "github.com/medora-health/emr-admin-api/internal/handler/clinic"
	doctorHandler "github.com/medora-health/emr-admin-api/internal/handler/doctor"
	formHandler "github.com/medora-health/emr-admin-api/internal/handler/form"
	healthHandler "github.com/medora-health/emr-admin-api/internal/handler/health"
	patientHandler "github.com/medora-health/emr-admin-api/internal/handler/patient"
	rbacHandler "github.com/medora-health/emr-admin-api/internal/handler/rbac"
	taskHandler "github.com/medora-health/emr-admin-api/internal/handler/task"
	userHandler "github.com/medora-health/emr-admin-api/internal/handler/user"
	"github.com/medora-health/emr-admin-api/internal/middleware"
	"github.com/medora-health/emr-admin-api/internal/repository/postgres"
	"github.com/medora-health/emr-admin-api/internal/router"
	appointmentService "github.com/medora-health/emr-admin-api/internal/service/appointment"
	authService "github.com/medora-health/emr-admin-api/internal/service/auth"
	clinicService "github.com/medora-health/emr-admin-api/internal/service/clinic"
	doctorService "github.com/medora-health/emr-admin-api/internal/service/doctor"
	formService "github.com/medora-health/emr-admin-api/internal/service/form"
	patientService "github.com/medora-health/emr-admin-api/internal/service/patient"
	rbacService "github.com/medora-health/emr-admin-api/internal/service/rbac"
	taskService "github.com/medora-health/emr-admin-api/internal/service/task"
	userService "github.com/medora-health/emr-admin-api/internal/service/user"
	"github.com/medora-health/emr-admin-api/pkg/access"
	"github.com/medora-health/emr-admin-api/pkg/auth"
	"github.com/medora-health/emr-admin-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	rbacRepo := postgres.NewRBACRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	formRepo := postgres.NewFormRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	authSvc := authService.NewService(userRepo, jwtSvc, hasher)
	clinicSvc := clinicService.NewService(clinicRepo)
	userSvc := userService.NewService(userRepo, hasher)
	rbacSvc := rbacService.NewService(rbacRepo, userRepo)
	doctorSvc := doctorService.NewService(doctorRepo, userRepo)
	patientSvc := patientService.NewService(patientRepo, clinicRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorSvc)
	taskSvc := taskService.NewService(taskRepo)
	formSvc := formService.NewService(formRepo)

	resolver := access.NewResolver(cfg.Access.BypassUserType)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, rbacSvc, resolver)

	emitter := handler.NewEmitter(outboxRepo)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		clinicHandler.NewHandler(clinicSvc, emitter),
		userHandler.NewHandler(userSvc, emitter),
		rbacHandler.NewHandler(rbacSvc, emitter, authMiddleware),
		doctorHandler.NewHandler(doctorSvc, emitter),
		patientHandler.NewHandler(patientSvc, emitter),
		appointmentHandler.NewHandler(appointmentSvc, emitter),
		taskHandler.NewHandler(taskSvc, emitter),
		formHandler.NewHandler(formSvc, emitter),
		router.Config{
			RateLimitRPS:   rateLimitRPS(cfg),
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORS:           corsConfig(cfg),
			MetricsPrefix:  "emr_admin",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func rateLimitRPS(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RequestsPerSecond
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	if len(cfg.CORS.AllowOrigins) == 0 {
		return middleware.DefaultCORSConfig()
	}
	return middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}
}
