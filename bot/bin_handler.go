package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-checker-bot/store"
)

// BinHandler implements CommandHandler for the /bin command
type BinHandler struct {
	bins   *store.BinStore
	logger *zap.SugaredLogger
}

// NewBinHandler creates a new BinHandler instance
func NewBinHandler(bins *store.BinStore, logger *zap.SugaredLogger) *BinHandler {
	return &BinHandler{bins: bins, logger: logger}
}

// Command returns the command string this handler processes
func (h *BinHandler) Command() string {
	return "bin"
}

// Requirements returns the preconditions for /bin
func (h *BinHandler) Requirements() Requirements {
	return Requirements{Registration: true}
}

// Handle processes the /bin command and replies with BIN metadata
func (h *BinHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	bin := strings.TrimSpace(cmdCtx.ArgBlob)
	if len(bin) < 6 || !isDigits(bin[:6]) {
		return Reply("Usage: /bin 447697\n\nProvide at least the first 6 digits of a card number."), nil
	}

	record := h.bins.Lookup(bin)
	h.logger.Debugw("processing /bin", "user", cmdCtx.UserID, "bin", bin[:6])

	message := fmt.Sprintf("🔎 BIN Lookup\n\n"+
		"🔢 BIN: %s\n"+
		"🏦 Bank: %s\n"+
		"🌍 Country: %s %s\n"+
		"🏷️ Brand: %s\n"+
		"💳 Type: %s\n"+
		"⭐ Level: %s",
		bin[:6], record.Bank, record.Country, record.Flag,
		record.Brand, record.CardType, record.Level)

	return Reply(message), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
