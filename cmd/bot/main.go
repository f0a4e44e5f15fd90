package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/school-bot/internal/bot"
	"github.com/Spok95/school-bot/internal/config"
	"github.com/Spok95/school-bot/internal/dialog"
	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/instructors"
	"github.com/Spok95/school-bot/internal/domain/packages"
	"github.com/Spok95/school-bot/internal/domain/payments"
	"github.com/Spok95/school-bot/internal/domain/referrals"
	"github.com/Spok95/school-bot/internal/domain/users"
	"github.com/Spok95/school-bot/internal/infra/db"
	httpx "github.com/Spok95/school-bot/internal/infra/http"
	"github.com/Spok95/school-bot/internal/infra/logger"
	paysvc "github.com/Spok95/school-bot/internal/infra/payments"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	usersRepo := users.NewRepo(pool)
	statesRepo := dialog.NewRepo(pool)
	bookingsRepo := bookings.NewRepo(pool)
	instructorsRepo := instructors.NewRepo(pool)
	paymentsRepo := payments.NewRepo(pool)
	packagesRepo := packages.NewRepo(pool)
	referralsRepo := referrals.NewRepo(pool)
	pay := paysvc.NewService(cfg.Payments.BaseURL)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	tgBot := bot.New(api, log, usersRepo, statesRepo, cfg.Telegram.AdminChatID,
		bookingsRepo, instructorsRepo, paymentsRepo, packagesRepo, referralsRepo, pay)
	go func() {
		if err := tgBot.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled,
		httpx.NewAPI(log, bookingsRepo, paymentsRepo))
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
