package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/taptune/taptune-backend/api/routes"
	"github.com/taptune/taptune-backend/internal/cards"
	"github.com/taptune/taptune-backend/internal/connects"
	"github.com/taptune/taptune-backend/internal/enquiries"
	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/internal/orders"
	"github.com/taptune/taptune-backend/internal/payments"
	"github.com/taptune/taptune-backend/internal/profiles"
	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/internal/reviewcards"
	"github.com/taptune/taptune-backend/internal/teams"
	"github.com/taptune/taptune-backend/internal/users"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/db"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/migrate"
	"github.com/taptune/taptune-backend/pkg/razorpay"
	"github.com/taptune/taptune-backend/pkg/redis"
	"github.com/taptune/taptune-backend/pkg/whatsapp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	razorpayClient, err := razorpay.NewClient(ctx, cfg.Razorpay, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap razorpay client", err)
		os.Exit(1)
	}

	whatsappClient, err := whatsapp.NewClient(ctx, cfg.WhatsApp, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap whatsapp client", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	cardRepo := cards.NewRepository(gdb)
	profileRepo := profiles.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)
	paymentRepo := payments.NewRepository(gdb)
	connectRepo := connects.NewRepository(gdb)
	reviewRepo := reviewcards.NewRepository(gdb)
	teamRepo := teams.NewRepository(gdb)
	enquiryRepo := enquiries.NewRepository(gdb)

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(gdb), logg)
	if err != nil {
		fatal(logg, "notifications service", err)
	}
	usersSvc, err := users.NewService(userRepo, cfg.JWT)
	if err != nil {
		fatal(logg, "users service", err)
	}
	cardsSvc, err := cards.NewService(cardRepo)
	if err != nil {
		fatal(logg, "cards service", err)
	}
	profilesSvc, err := profiles.NewService(profileRepo, userRepo, dbClient, notificationsSvc, logg)
	if err != nil {
		fatal(logg, "profiles service", err)
	}
	paymentsSvc, err := payments.NewService(paymentRepo, razorpayClient, notificationsSvc, cfg.Razorpay, logg)
	if err != nil {
		fatal(logg, "payments service", err)
	}
	ordersSvc, err := orders.NewService(orderRepo, userRepo, cardRepo, profileRepo, paymentRepo, dbClient, razorpayClient, notificationsSvc, whatsappClient, cfg.WhatsApp, logg)
	if err != nil {
		fatal(logg, "orders service", err)
	}
	connectsSvc, err := connects.NewService(connectRepo, profileRepo, userRepo, notificationsSvc, whatsappClient, cfg.WhatsApp, logg)
	if err != nil {
		fatal(logg, "connects service", err)
	}
	reviewSvc, err := reviewcards.NewService(reviewRepo, notificationsSvc)
	if err != nil {
		fatal(logg, "review cards service", err)
	}
	teamsSvc, err := teams.NewService(teamRepo, userRepo, profileRepo)
	if err != nil {
		fatal(logg, "teams service", err)
	}
	enquiriesSvc, err := enquiries.NewService(enquiryRepo, notificationsSvc)
	if err != nil {
		fatal(logg, "enquiries service", err)
	}
	referralSvc, err := referral.NewService(referral.NewRepository(gdb), dbClient)
	if err != nil {
		fatal(logg, "referral service", err)
	}

	handler := routes.NewRouter(cfg, logg, routes.Pingers{DB: dbClient, Redis: redisClient}, redisClient, routes.Services{
		Users:         usersSvc,
		Cards:         cardsSvc,
		Profiles:      profilesSvc,
		Orders:        ordersSvc,
		Payments:      paymentsSvc,
		Connects:      connectsSvc,
		ReviewCards:   reviewSvc,
		Teams:         teamsSvc,
		Notifications: notificationsSvc,
		Enquiries:     enquiriesSvc,
		Referral:      referralSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(startCtx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(startCtx, "error closing infrastructure clients", closeErr)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, what string, err error) {
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
