package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-checker-bot/checker"
)

const (
	massGateLimit   = 10
	massGateCadence = 3
)

// MassGateHandler implements CommandHandler for the /mad command
type MassGateHandler struct {
	gate    checker.Gate
	gateway string
	logger  *zap.SugaredLogger
}

// NewMassGateHandler creates the /mad handler
func NewMassGateHandler(gate checker.Gate, logger *zap.SugaredLogger) *MassGateHandler {
	return &MassGateHandler{gate: gate, gateway: "Adyen Auth", logger: logger}
}

// Command returns the command string this handler processes
func (h *MassGateHandler) Command() string {
	return "mad"
}

// Requirements returns the preconditions for /mad. The per-card cost is
// checked inside Handle once the batch size is known.
func (h *MassGateHandler) Requirements() Requirements {
	return Requirements{Registration: true, Cooldown: true}
}

// Handle processes the /mad command. Every card is run through the gate
// before the reply plan starts, so the batch is charged exactly once.
func (h *MassGateHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	cards := checker.ExtractCards(cmdCtx.RawText)
	if len(cards) == 0 {
		return Reply("Usage: /mad followed by up to 10 cards, one cc|mes|ano|cvv per line."), nil
	}
	if len(cards) > massGateLimit {
		return Reply(fmt.Sprintf("⚠️ Too many cards. The maximum is %d per batch, you sent %d.", massGateLimit, len(cards))), nil
	}
	if !HasSufficientCredits(cmdCtx.Account, len(cards)) {
		return Reply(insufficientCredits), nil
	}

	h.logger.Infow("mass gate check", "user", cmdCtx.UserID, "gateway", h.gateway, "cards", len(cards))

	lines := make([]string, 0, len(cards))
	approved := 0
	plan := NewReplyPlan(fmt.Sprintf("🚪 Mass %s\n\nChecking %d card(s)...", h.gateway, len(cards)))

	for i, card := range cards {
		result, err := h.gate.Check(ctx, card, h.gateway)
		if err != nil {
			return nil, fmt.Errorf("gate check failed on card %d: %w", i+1, err)
		}

		if result.Approved {
			approved++
			lines = append(lines, fmt.Sprintf("✅ %s | %s", card.String(), result.Response))
		} else {
			lines = append(lines, fmt.Sprintf("❌ %s | %s", card.String(), result.Response))
		}

		done := i + 1
		if done%massGateCadence == 0 && done < len(cards) {
			plan.AddFrame(massFrameInterval, h.progressMessage(lines, done, len(cards)))
		}
	}

	plan.AddFrame(massFrameInterval, h.finalMessage(lines, approved))

	return &Outcome{
		Plan:   plan,
		Effect: StateEffect{DeductCredits: len(cards), TouchCooldown: true},
	}, nil
}

func (h *MassGateHandler) progressMessage(lines []string, done, total int) string {
	return fmt.Sprintf("🚪 Mass %s (%d/%d)\n\n%s", h.gateway, done, total, strings.Join(lines, "\n"))
}

func (h *MassGateHandler) finalMessage(lines []string, approved int) string {
	return fmt.Sprintf("🚪 Mass %s - Done\n\n%s\n\n✅ Approved: %d / %d", h.gateway, strings.Join(lines, "\n"), approved, len(lines))
}
