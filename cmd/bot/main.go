package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/subosito/gotenv"

	"github.com/vkozyrev/sklad-bot/internal/bot"
	"github.com/vkozyrev/sklad-bot/internal/config"
	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
	httpx "github.com/vkozyrev/sklad-bot/internal/infra/http"
	"github.com/vkozyrev/sklad-bot/internal/infra/lock"
	"github.com/vkozyrev/sklad-bot/internal/infra/logger"
	"github.com/vkozyrev/sklad-bot/internal/store"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	release, err := lock.Acquire(cfg.App.LockFile)
	if err != nil {
		log.Error("already running", "err", err)
		return
	}
	defer release()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Error("open workbook failed", "path", cfg.Store.Path, "err", err)
		return
	}
	defer func() { _ = st.Close() }()
	if err := st.EnsureSheet(cfg.Store.OrdersSheet, ledger.Header()); err != nil {
		log.Error("ensure orders sheet failed", "err", err)
		return
	}
	log.Info("workbook opened", "path", cfg.Store.Path)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("authorized", "account", api.Self.UserName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	ledgerModel := ledger.New(st, cfg.Store.OrdersSheet)
	stockRepo := stock.NewRepo(st, cfg.Store.WarehouseHint)
	b := bot.New(api, log, dialog.NewStore(), ledgerModel, stockRepo)

	go func() {
		if err := b.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
			stop()
		}
	}()
	log.Info("bot started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
