package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/pawdesk/internal/application"
	"github.com/example/pawdesk/internal/config"
	httptransport "github.com/example/pawdesk/internal/http"
	"github.com/example/pawdesk/internal/logging"
	"github.com/example/pawdesk/internal/persistence/sqlite"
	"github.com/example/pawdesk/internal/recurrence"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, parseLogLevel(cfg.LogLevel))

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	organizationRepo := sqlite.NewOrganizationRepository(pool)
	userRepo := sqlite.NewUserRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	clientRepo := sqlite.NewClientRepository(pool)
	dogRepo := sqlite.NewDogRepository(pool)
	vetRepo := sqlite.NewVetRepository(pool)
	clinicRepo := sqlite.NewClinicRepository(pool)
	bookingTypeRepo := sqlite.NewBookingTypeRepository(pool)
	bookingRepo := sqlite.NewBookingRepository(pool)

	inviteIssuer := application.NewInviteIssuer([]byte(cfg.SessionSecret), cfg.InviteTTL)
	engine := recurrence.NewEngine(0)

	authService := application.NewAuthService(userRepo, sessionRepo, tokenGenerator, now, cfg.SessionTTL, logger)
	organizationService := application.NewOrganizationService(organizationRepo, userRepo, inviteIssuer, idGenerator, now, logger)
	userService := application.NewUserService(userRepo, idGenerator, now, logger)
	clientService := application.NewClientService(clientRepo, idGenerator, now, logger)
	dogService := application.NewDogService(dogRepo, clientRepo, vetRepo, idGenerator, now, logger)
	vetService := application.NewVetService(vetRepo, clinicRepo, idGenerator, now, logger)
	clinicService := application.NewClinicService(clinicRepo, idGenerator, now, logger)
	bookingTypeService := application.NewBookingTypeService(bookingTypeRepo, idGenerator, now, logger)
	bookingService := application.NewBookingService(bookingRepo, bookingTypeRepo, userRepo, dogRepo, engine, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          httptransport.NewAuthHandler(authService, logger),
		Organizations: httptransport.NewOrganizationHandler(organizationService, logger),
		Users:         httptransport.NewUserHandler(userService, logger),
		Clients:       httptransport.NewClientHandler(clientService, logger),
		Dogs:          httptransport.NewDogHandler(dogService, logger),
		Vets:          httptransport.NewVetHandler(vetService, logger),
		Clinics:       httptransport.NewClinicHandler(clinicService, logger),
		BookingTypes:  httptransport.NewBookingTypeHandler(bookingTypeService, logger),
		Bookings:      httptransport.NewBookingHandler(bookingService, logger),
		Session:       httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SessionPurgeSchedule, func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := authService.PurgeExpiredSessions(purgeCtx); err != nil {
			logger.Error("failed to purge expired sessions", "error", err)
		}
	}); err != nil {
		logger.Error("invalid session purge schedule", "schedule", cfg.SessionPurgeSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("pawdesk API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
