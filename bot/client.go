package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher/handlers"
	"github.com/celestix/gotgproto/dispatcher/handlers/filters"
	"github.com/celestix/gotgproto/ext"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"

	"go-checker-bot/config"
)

// TelegramBot wraps the gotgproto client and provides bot lifecycle management
type TelegramBot struct {
	client     *gotgproto.Client
	logger     *zap.SugaredLogger
	zapLogger  *zap.Logger
	config     *config.BotConfig
	dispatcher *Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewTelegramBot creates a new TelegramBot instance
func NewTelegramBot(cfg *config.BotConfig, logger *zap.Logger) (*TelegramBot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TelegramBot{
		config:    cfg,
		logger:    logger.Sugar(),
		zapLogger: logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// SetDispatcher attaches the command dispatcher incoming messages are fed to
func (b *TelegramBot) SetDispatcher(dispatcher *Dispatcher) {
	b.dispatcher = dispatcher
}

// Connect initializes the gotgproto client and hooks up message handling.
// The client API is available through GetClient afterwards.
func (b *TelegramBot) Connect() error {
	b.logger.Info("connecting Telegram bot...")

	sessionPath := filepath.Join(b.config.DataDir, "bot_session.db")
	clientOpts := &gotgproto.ClientOpts{
		Session: sessionMaker.SqlSession(sqlite.Open(sessionPath)),
		Logger:  b.zapLogger,
	}

	client, err := gotgproto.NewClient(b.config.APIID, b.config.APIHash, gotgproto.ClientTypeBot(b.config.Token), clientOpts)
	if err != nil {
		return fmt.Errorf("failed to create gotgproto client: %w", err)
	}

	b.client = client
	client.Dispatcher.AddHandler(handlers.NewMessage(filters.Message.All, b.handleMessage))

	b.logger.Info("Telegram bot client initialized")
	return nil
}

// Run blocks until the client disconnects or Stop is called
func (b *TelegramBot) Run() error {
	if b.client == nil {
		return fmt.Errorf("bot is not connected")
	}
	b.logger.Info("listening for updates")
	return b.client.Idle()
}

// Stop gracefully shuts down the bot
func (b *TelegramBot) Stop() error {
	b.logger.Info("stopping Telegram bot...")

	if b.cancel != nil {
		b.cancel()
	}
	if b.client != nil {
		b.client.Stop()
		time.Sleep(100 * time.Millisecond)
	}

	b.logger.Info("Telegram bot stopped")
	return nil
}

// GetClient returns the underlying gotgproto client
func (b *TelegramBot) GetClient() *gotgproto.Client {
	return b.client
}

// IsRunning returns true if the bot is currently running
func (b *TelegramBot) IsRunning() bool {
	return b.client != nil && b.ctx.Err() == nil
}

// handleMessage converts an incoming update into an Inbound and hands it to
// the command dispatcher. Dispatch errors never propagate back to gotgproto.
func (b *TelegramBot) handleMessage(ctx *ext.Context, update *ext.Update) error {
	if b.dispatcher == nil || update.EffectiveMessage == nil {
		return nil
	}

	text := update.EffectiveMessage.Text
	if strings.TrimSpace(text) == "" {
		return nil
	}

	in := &Inbound{
		Text:     text,
		FromSelf: update.EffectiveMessage.Out,
	}

	if chat := update.EffectiveChat(); chat != nil {
		in.ChatID = chat.GetID()
	}
	if user := update.EffectiveUser(); user != nil {
		in.SenderID = user.ID
		in.SenderName = user.FirstName
	}
	if in.SenderID == 0 {
		return nil
	}

	b.dispatcher.Dispatch(b.ctx, in)
	return nil
}
