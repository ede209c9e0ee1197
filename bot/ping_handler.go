package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PingHandler implements CommandHandler for the /ping command
type PingHandler struct {
	logger *zap.SugaredLogger
}

// NewPingHandler creates a new PingHandler instance
func NewPingHandler(logger *zap.SugaredLogger) *PingHandler {
	return &PingHandler{logger: logger}
}

// Command returns the command string this handler processes
func (h *PingHandler) Command() string {
	return "ping"
}

// Requirements returns the preconditions for /ping
func (h *PingHandler) Requirements() Requirements {
	return Requirements{}
}

// Handle processes the /ping command and replies with a pong plus latency info
func (h *PingHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	latency := time.Since(cmdCtx.Timestamp)

	h.logger.Debugw("processing /ping", "user", cmdCtx.UserID, "chat", cmdCtx.ChatID)

	message := fmt.Sprintf("🏓 Pong!\n\n"+
		"📅 Timestamp: %s\n"+
		"⚡ Latency: %v\n"+
		"✅ Status: Bot is responsive and operational",
		cmdCtx.Timestamp.Format("2006-01-02 15:04:05 MST"),
		latency.Round(time.Millisecond))

	return Reply(message), nil
}
