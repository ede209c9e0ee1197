package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-checker-bot/store"
)

const ownerOnlyMessage = "🔒 This command is restricted to the bot owner."

// AddVbvHandler implements CommandHandler for the owner-only /addvbv command
type AddVbvHandler struct {
	vbv    *store.VbvStore
	logger *zap.SugaredLogger
}

// NewAddVbvHandler creates a new AddVbvHandler instance
func NewAddVbvHandler(vbv *store.VbvStore, logger *zap.SugaredLogger) *AddVbvHandler {
	return &AddVbvHandler{vbv: vbv, logger: logger}
}

// Command returns the command string this handler processes
func (h *AddVbvHandler) Command() string {
	return "addvbv"
}

// Requirements returns the preconditions for /addvbv
func (h *AddVbvHandler) Requirements() Requirements {
	return Requirements{Registration: true}
}

// Handle processes the /addvbv command. The entry line is taken raw since
// status and response text may contain spaces. An existing BIN is replaced.
func (h *AddVbvHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	if !isOwnerAccount(cmdCtx.Account) {
		return Reply(ownerOnlyMessage), nil
	}

	fields := strings.SplitN(rawArgs(cmdCtx), "|", 3)
	if len(fields) < 3 {
		return Reply("Usage: /addvbv BIN|STATUS|RESPONSE\n\nExample: /addvbv 447697|3D TRUE ❌|3D Secure Required"), nil
	}

	token := store.VbvToken{
		BIN:      strings.TrimSpace(fields[0]),
		Status:   strings.TrimSpace(fields[1]),
		Response: strings.TrimSpace(fields[2]),
	}
	if len(token.BIN) != 6 || !isDigits(token.BIN) {
		return Reply("⚠️ BIN must be exactly 6 digits."), nil
	}

	if err := h.vbv.Add(token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	h.logger.Infow("vbv token added", "user", cmdCtx.UserID, "bin", token.BIN)

	return Reply(fmt.Sprintf("✅ Token stored.\n\n%s\n\n📊 Table size: %d", token.Line(), h.vbv.Len())), nil
}

// RemoveVbvHandler implements CommandHandler for the owner-only /rmvbv command
type RemoveVbvHandler struct {
	vbv    *store.VbvStore
	logger *zap.SugaredLogger
}

// NewRemoveVbvHandler creates a new RemoveVbvHandler instance
func NewRemoveVbvHandler(vbv *store.VbvStore, logger *zap.SugaredLogger) *RemoveVbvHandler {
	return &RemoveVbvHandler{vbv: vbv, logger: logger}
}

// Command returns the command string this handler processes
func (h *RemoveVbvHandler) Command() string {
	return "rmvbv"
}

// Requirements returns the preconditions for /rmvbv
func (h *RemoveVbvHandler) Requirements() Requirements {
	return Requirements{Registration: true}
}

// Handle processes the /rmvbv command
func (h *RemoveVbvHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	if !isOwnerAccount(cmdCtx.Account) {
		return Reply(ownerOnlyMessage), nil
	}

	bin := strings.TrimSpace(cmdCtx.ArgBlob)
	if len(bin) != 6 || !isDigits(bin) {
		return Reply("Usage: /rmvbv BIN\n\nBIN must be exactly 6 digits."), nil
	}

	removed, err := h.vbv.Remove(bin)
	if err != nil {
		return nil, fmt.Errorf("failed to remove token: %w", err)
	}
	if !removed {
		return Reply(fmt.Sprintf("ℹ️ No token stored for BIN %s.", bin)), nil
	}

	h.logger.Infow("vbv token removed", "user", cmdCtx.UserID, "bin", bin)

	return Reply(fmt.Sprintf("🗑️ Token for BIN %s removed.\n\n📊 Table size: %d", bin, h.vbv.Len())), nil
}

// isOwnerAccount reports whether the account holds the owner role
func isOwnerAccount(account *store.Account) bool {
	return account != nil && account.Role == store.RoleOwner
}

// rawArgs returns the message text after the command token, preserving
// internal whitespace
func rawArgs(cmdCtx *CommandContext) string {
	text := strings.TrimSpace(cmdCtx.RawText)
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return strings.TrimSpace(text[i+1:])
		}
	}
	return ""
}
