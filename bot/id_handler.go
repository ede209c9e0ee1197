package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// IDHandler implements CommandHandler for the /id command
type IDHandler struct {
	logger *zap.SugaredLogger
}

// NewIDHandler creates a new IDHandler instance
func NewIDHandler(logger *zap.SugaredLogger) *IDHandler {
	return &IDHandler{logger: logger}
}

// Command returns the command string this handler processes
func (h *IDHandler) Command() string {
	return "id"
}

// Requirements returns the preconditions for /id
func (h *IDHandler) Requirements() Requirements {
	return Requirements{}
}

// Handle processes the /id command and replies with the sender's identifiers
func (h *IDHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	h.logger.Debugw("processing /id", "user", cmdCtx.UserID, "chat", cmdCtx.ChatID)

	message := fmt.Sprintf("🆔 Your Identifiers\n\n"+
		"👤 User ID: `%s`\n"+
		"💬 Chat ID: `%d`",
		cmdCtx.UserID, cmdCtx.ChatID)

	return Reply(message), nil
}
