package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-checker-bot/checker"
	"go-checker-bot/store"
)

const (
	massVbvLimit        = 25
	massVbvCadence      = 5
	massFrameInterval   = 500 * time.Millisecond
	insufficientCredits = "💳 Insufficient credits. Mass checks cost 1 credit per card."
)

// MassVbvHandler implements CommandHandler for the /mvbv command
type MassVbvHandler struct {
	vbv    *store.VbvStore
	logger *zap.SugaredLogger
}

// NewMassVbvHandler creates a new MassVbvHandler instance
func NewMassVbvHandler(vbv *store.VbvStore, logger *zap.SugaredLogger) *MassVbvHandler {
	return &MassVbvHandler{vbv: vbv, logger: logger}
}

// Command returns the command string this handler processes
func (h *MassVbvHandler) Command() string {
	return "mvbv"
}

// Requirements returns the preconditions for /mvbv. The per-card cost is
// checked inside Handle once the batch size is known.
func (h *MassVbvHandler) Requirements() Requirements {
	return Requirements{Registration: true, Cooldown: true}
}

// Handle processes the /mvbv command. A batch over the cap is rejected as a
// whole; a batch the sender cannot afford is rejected before any lookup.
func (h *MassVbvHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	cards := checker.ExtractCards(cmdCtx.RawText)
	if len(cards) == 0 {
		return Reply("Usage: /mvbv followed by up to 25 cards, one cc|mes|ano|cvv per line."), nil
	}
	if len(cards) > massVbvLimit {
		return Reply(fmt.Sprintf("⚠️ Too many cards. The maximum is %d per batch, you sent %d.", massVbvLimit, len(cards))), nil
	}
	if !HasSufficientCredits(cmdCtx.Account, len(cards)) {
		return Reply(insufficientCredits), nil
	}

	h.logger.Infow("mass vbv lookup", "user", cmdCtx.UserID, "cards", len(cards))

	lines := make([]string, 0, len(cards))
	plan := NewReplyPlan(fmt.Sprintf("🔐 Mass 3D Secure Lookup\n\nChecking %d card(s)...", len(cards)))

	for i, card := range cards {
		if strings.HasPrefix(card.Number, "3") {
			lines = append(lines, fmt.Sprintf("⚠️ %s | Unsupported network", card.String()))
		} else {
			lines = append(lines, formatVbvLine(h.vbv, card))
		}

		done := i + 1
		if done%massVbvCadence == 0 && done < len(cards) {
			plan.AddFrame(massFrameInterval, h.progressMessage(lines, done, len(cards)))
		}
	}

	plan.AddFrame(massFrameInterval, h.finalMessage(lines))

	return &Outcome{
		Plan:   plan,
		Effect: StateEffect{DeductCredits: len(cards), TouchCooldown: true},
	}, nil
}

func (h *MassVbvHandler) progressMessage(lines []string, done, total int) string {
	return fmt.Sprintf("🔐 Mass 3D Secure Lookup (%d/%d)\n\n%s", done, total, strings.Join(lines, "\n"))
}

func (h *MassVbvHandler) finalMessage(lines []string) string {
	return fmt.Sprintf("🔐 Mass 3D Secure Lookup - Done\n\n%s\n\n✅ %d card(s) checked.", strings.Join(lines, "\n"), len(lines))
}
