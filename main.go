package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-checker-bot/bot"
	"go-checker-bot/checker"
	"go-checker-bot/config"
	"go-checker-bot/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("configuration loaded",
		"api_id", cfg.APIID,
		"token", maskString(cfg.Token),
		"data_dir", cfg.DataDir,
		"cooldown", cfg.Cooldown)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		sugar.Fatalw("failed to create data directory", "dir", cfg.DataDir, "error", err)
	}

	accounts, err := store.OpenAccountStore(filepath.Join(cfg.DataDir, "users.db"), sugar)
	if err != nil {
		sugar.Fatalw("failed to open account store", "error", err)
	}

	vbv, err := store.LoadVbvStore(filepath.Join(cfg.DataDir, "vbvbin.txt"), sugar)
	if err != nil {
		sugar.Fatalw("failed to load vbv table", "error", err)
	}

	bins, err := store.LoadBinStore(cfg.BinFile, sugar)
	if err != nil {
		sugar.Fatalw("failed to load BIN table", "error", err)
	}
	sugar.Infow("stores ready", "vbv_tokens", vbv.Len(), "bin_records", bins.Len())

	gate := checker.NewSimulatedGate(cfg.GateMinLatency, cfg.GateMaxLatency, cfg.GateApproval)
	generator := checker.NewGenerator()

	telegramBot, err := bot.NewTelegramBot(cfg, logger)
	if err != nil {
		sugar.Fatalw("failed to create bot", "error", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		received := <-sig
		sugar.Infow("shutdown signal received", "signal", received)
		telegramBot.Stop()
		os.Exit(0)
	}()

	startOnce := func() error {
		if err := telegramBot.Connect(); err != nil {
			return err
		}

		messenger := bot.NewTelegramMessenger(telegramBot.GetClient().API())
		animator := bot.NewAnimator(messenger)
		errorHandler := bot.NewErrorHandler(sugar, messenger)

		dispatcher := bot.NewDispatcher(accounts, cfg, animator, errorHandler, sugar)
		dispatcher.RegisterHandler(bot.NewStartHandler(sugar))
		dispatcher.RegisterHandler(bot.NewHelpHandler(sugar))
		dispatcher.RegisterHandler(bot.NewPingHandler(sugar))
		dispatcher.RegisterHandler(bot.NewIDHandler(sugar))
		dispatcher.RegisterHandler(bot.NewRegisterHandler(accounts, cfg, sugar))
		dispatcher.RegisterHandler(bot.NewGenHandler(generator, bins, cfg, sugar))
		dispatcher.RegisterHandler(bot.NewBinHandler(bins, sugar))
		dispatcher.RegisterHandler(bot.NewAdyenHandler(gate, bins, sugar))
		dispatcher.RegisterHandler(bot.NewBraintreeHandler(gate, bins, sugar))
		dispatcher.RegisterHandler(bot.NewMassGateHandler(gate, sugar))
		dispatcher.RegisterHandler(bot.NewVbvHandler(vbv, bins, sugar))
		dispatcher.RegisterHandler(bot.NewMassVbvHandler(vbv, sugar))
		dispatcher.RegisterHandler(bot.NewAddVbvHandler(vbv, sugar))
		dispatcher.RegisterHandler(bot.NewRemoveVbvHandler(vbv, sugar))
		telegramBot.SetDispatcher(dispatcher)

		return telegramBot.Run()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxInterval = time.Minute
	policy.MaxElapsedTime = 10 * time.Minute

	if err := backoff.RetryNotify(startOnce, policy, func(err error, wait time.Duration) {
		sugar.Warnw("bot start failed, retrying", "error", err, "retry_in", wait)
	}); err != nil {
		sugar.Fatalw("bot failed to start", "error", err)
	}
}

// buildLogger creates the process logger at the configured level
func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// maskString masks sensitive information for logging
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
