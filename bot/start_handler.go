package bot

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	botBanner      = "CHECKER BOT"
	typingInterval = 200 * time.Millisecond
)

// StartHandler implements CommandHandler for the /start command. The banner
// is typed out one character per frame before the welcome text lands.
type StartHandler struct {
	logger *zap.SugaredLogger
}

// NewStartHandler creates a new StartHandler instance
func NewStartHandler(logger *zap.SugaredLogger) *StartHandler {
	return &StartHandler{logger: logger}
}

// Command returns the command string this handler processes
func (h *StartHandler) Command() string {
	return "start"
}

// Requirements returns the preconditions for /start
func (h *StartHandler) Requirements() Requirements {
	return Requirements{}
}

// Handle processes the /start command and plays the animated welcome
func (h *StartHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	h.logger.Debugw("processing /start", "user", cmdCtx.UserID, "chat", cmdCtx.ChatID)

	runes := []rune(botBanner)
	plan := NewReplyPlan(string(runes[0]))
	for i := 2; i <= len(runes); i++ {
		plan.AddFrame(typingInterval, string(runes[:i]))
	}
	plan.AddFrame(typingInterval, h.welcomeMessage(cmdCtx.SenderName))

	return &Outcome{Plan: plan}, nil
}

func (h *StartHandler) welcomeMessage(name string) string {
	if name == "" {
		name = "there"
	}
	return "🤖 " + botBanner + "\n\n" +
		"Hey " + name + "! I generate test cards, look up BINs and run simulated checks.\n\n" +
		"• /register to create an account\n" +
		"• /help for the full command list"
}
