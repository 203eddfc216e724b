package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	router "busbooking/internal/http"
	"busbooking/internal/http/handlers"
	"busbooking/internal/pnr"
	"busbooking/internal/repositories"
	"busbooking/internal/services"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		addr    = pflag.String("addr", "", "listen address, overrides APP_ADDR")
		envFile = pflag.String("env-file", ".env", "optional dotenv file")
		migrate = pflag.Bool("migrate", false, "create missing tables before serving")
	)
	pflag.Parse()

	env, err := intconfig.LoadEnv(*envFile)
	if err != nil {
		// logger is not configured yet
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	if *addr != "" {
		env.AppAddr = *addr
	}
	if *migrate {
		env.AutoMigrate = true
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	log, err := utils.NewLogger(env.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	db, err := intconfig.OpenDB(ctx, env)
	if err != nil {
		log.Fatal("connect database", zap.String("driver", env.DBDriver), zap.Error(err))
	}
	defer db.Close()
	log.Info("database connected", zap.String("driver", env.DBDriver))

	dialect := intdb.DialectFor(env.DBDriver)
	if env.AutoMigrate {
		if err := intdb.EnsureSchema(ctx, db, dialect); err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
		log.Info("schema ready")
	}

	bookingRepo := repositories.BookingRepo{DB: db, Dialect: dialect}
	userRepo := repositories.UserRepo{DB: db, Dialect: dialect}

	issuer := services.ReservationIssuer{
		Bookings:    bookingRepo,
		Codes:       pnr.RandomGenerator{},
		MaxAttempts: env.PNRMaxAttempts,
		Log:         log,
	}
	bookings := services.BookingService{
		DB:     db,
		Ledger: services.SeatLedger{Bookings: bookingRepo, Log: log},
		Issuer: issuer,
		Log:    log,
	}
	auth := services.AuthService{
		Users:  userRepo,
		Secret: []byte(env.JWTSecret),
		TTL:    env.JWTTTL,
		Log:    log,
	}

	h := &handlers.Handler{
		Bookings: bookings,
		Auth:     auth,
		Catalog:  services.CatalogService{Catalog: repositories.CatalogRepo{DB: db, Dialect: dialect}},
		Feedback: services.FeedbackService{Feedback: repositories.FeedbackRepo{DB: db, Dialect: dialect}},
		Tickets:  services.DocsService{Issuer: issuer, Log: log},
		DB:       userRepo,
		Log:      log,
	}
	verify := func(raw string) (int64, error) {
		claims, err := auth.ParseToken(raw)
		if err != nil {
			return 0, err
		}
		return claims.UserID, nil
	}

	r := router.NewRouter(env, h, verify, log)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return
	}

	log.Info("server stopped")
}
