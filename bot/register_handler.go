package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-checker-bot/config"
	"go-checker-bot/store"
)

// RegisterHandler implements CommandHandler for the /register command
type RegisterHandler struct {
	accounts *store.AccountStore
	cfg      *config.BotConfig
	logger   *zap.SugaredLogger
}

// NewRegisterHandler creates a new RegisterHandler instance
func NewRegisterHandler(accounts *store.AccountStore, cfg *config.BotConfig, logger *zap.SugaredLogger) *RegisterHandler {
	return &RegisterHandler{
		accounts: accounts,
		cfg:      cfg,
		logger:   logger,
	}
}

// Command returns the command string this handler processes
func (h *RegisterHandler) Command() string {
	return "register"
}

// Requirements returns the preconditions for /register
func (h *RegisterHandler) Requirements() Requirements {
	return Requirements{}
}

// Handle processes the /register command. Creating an account grants the
// starting credit balance; registering twice is answered without touching
// the existing account.
func (h *RegisterHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	if IsRegistered(cmdCtx.Account) {
		return Reply(fmt.Sprintf("ℹ️ You are already registered.\n\n💳 Credits: %d", cmdCtx.Account.Credits)), nil
	}

	account, err := h.accounts.Create(cmdCtx.UserID, cmdCtx.SenderName, cmdCtx.Timestamp)
	if err == store.ErrAlreadyExists {
		existing, getErr := h.accounts.Get(cmdCtx.UserID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load existing account: %w", getErr)
		}
		return Reply(fmt.Sprintf("ℹ️ You are already registered.\n\n💳 Credits: %d", existing.Credits)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if h.cfg.IsOwner(cmdCtx.SenderID) {
		if _, roleErr := h.accounts.SetRole(cmdCtx.UserID, store.RoleOwner); roleErr != nil {
			h.logger.Warnw("failed to assign owner role", "user", cmdCtx.UserID, "error", roleErr)
		} else {
			account.Role = store.RoleOwner
		}
	}

	h.logger.Infow("registered new account", "user", cmdCtx.UserID, "role", account.Role)

	message := fmt.Sprintf("✅ Registration complete!\n\n"+
		"👤 User: %s\n"+
		"💳 Credits: %d\n"+
		"🏷️ Plan: %s\n\n"+
		"Use /help to see what I can do.",
		cmdCtx.SenderName, account.Credits, account.Role)

	return Reply(message), nil
}
