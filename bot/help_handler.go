package bot

import (
	"context"

	"go.uber.org/zap"
)

// HelpHandler implements CommandHandler for the /help command
type HelpHandler struct {
	logger *zap.SugaredLogger
}

// NewHelpHandler creates a new HelpHandler instance
func NewHelpHandler(logger *zap.SugaredLogger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

// Command returns the command string this handler processes
func (h *HelpHandler) Command() string {
	return "help"
}

// Requirements returns the preconditions for /help
func (h *HelpHandler) Requirements() Requirements {
	return Requirements{}
}

// Handle processes the /help command and replies with the command reference
func (h *HelpHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	h.logger.Debugw("processing /help", "user", cmdCtx.UserID, "chat", cmdCtx.ChatID)

	message := "📖 Command Reference\n\n" +
		"Account\n" +
		"• /register - create your account (100 credits)\n" +
		"• /id - show your user and chat IDs\n" +
		"• /ping - check if the bot is alive\n\n" +
		"Tools (free)\n" +
		"• /gen bin|mes|ano|cvv [amount] - generate test cards\n" +
		"• /bin 447697 - look up BIN metadata\n\n" +
		"Checks (1 credit each, 10s cooldown)\n" +
		"• /ad cc|mes|ano|cvv - Adyen Auth check\n" +
		"• /b4 cc|mes|ano|cvv - Braintree Auth 3 check\n" +
		"• /vbv cc|mes|ano|cvv - 3D Secure lookup\n\n" +
		"Mass checks (1 credit per card)\n" +
		"• /mad - up to 10 cards, one per line\n" +
		"• /mvbv - up to 25 cards, one per line\n\n" +
		"Fields accept x for random, e.g. /gen 447697xx|x|x|x 10"

	return Reply(message), nil
}
