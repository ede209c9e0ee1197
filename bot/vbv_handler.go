package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-checker-bot/checker"
	"go-checker-bot/store"
)

// VbvHandler implements CommandHandler for the /vbv command
type VbvHandler struct {
	vbv    *store.VbvStore
	bins   *store.BinStore
	logger *zap.SugaredLogger
}

// NewVbvHandler creates a new VbvHandler instance
func NewVbvHandler(vbv *store.VbvStore, bins *store.BinStore, logger *zap.SugaredLogger) *VbvHandler {
	return &VbvHandler{vbv: vbv, bins: bins, logger: logger}
}

// Command returns the command string this handler processes
func (h *VbvHandler) Command() string {
	return "vbv"
}

// Requirements returns the preconditions for /vbv
func (h *VbvHandler) Requirements() Requirements {
	return Requirements{Registration: true, Cooldown: true, Cost: 1}
}

// Handle processes the /vbv command. Cards on unsupported networks are
// answered without a table lookup and without a charge.
func (h *VbvHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	card, ok := checker.ExtractCard(cmdCtx.RawText)
	if !ok {
		return Reply("Usage: /vbv cc|mes|ano|cvv"), nil
	}

	if strings.HasPrefix(card.Number, "3") {
		return Reply(fmt.Sprintf("💳 %s\n\n⚠️ This card network is not supported for 3D Secure lookups.", card.String())), nil
	}

	plan := NewReplyPlan(fmt.Sprintf("💳 %s\n\n🔐 Looking up 3D Secure status...", card.String()))
	plan.AddFrame(gateFrameInterval, h.resultMessage(card))

	h.logger.Infow("vbv lookup", "user", cmdCtx.UserID, "bin", card.BIN())

	return &Outcome{
		Plan:   plan,
		Effect: StateEffect{DeductCredits: 1, TouchCooldown: true},
	}, nil
}

func (h *VbvHandler) resultMessage(card checker.Card) string {
	status, response, passed := h.lookup(card)

	verdict := "✅ PASSED"
	if !passed {
		verdict = "❌ REJECTED"
	}

	record := h.bins.Lookup(card.BIN())

	return fmt.Sprintf("💳 %s\n\n"+
		"%s\n"+
		"🔐 Status: %s\n"+
		"📋 Response: %s\n\n"+
		"🏦 Bank: %s\n"+
		"🌍 Country: %s %s\n"+
		"🏷️ Type: %s - %s - %s",
		card.String(), verdict, status, response,
		record.Bank, record.Country, record.Flag,
		record.Brand, record.CardType, record.Level)
}

// lookup resolves a card's 3D Secure verdict from the token table. Enrolled
// BINs are rejected; everything else, including unknown BINs, passes.
func (h *VbvHandler) lookup(card checker.Card) (status, response string, passed bool) {
	token, found := h.vbv.Get(card.BIN())
	if !found {
		return "3D FALSE ✅", "No 3D Secure record found", true
	}
	return token.Status, token.Response, !token.Enrolled()
}

func formatVbvLine(vbv *store.VbvStore, card checker.Card) string {
	token, found := vbv.Get(card.BIN())
	if !found {
		return fmt.Sprintf("✅ %s | 3D FALSE | No record", card.String())
	}
	if token.Enrolled() {
		return fmt.Sprintf("❌ %s | %s | %s", card.String(), token.Status, token.Response)
	}
	return fmt.Sprintf("✅ %s | %s | %s", card.String(), token.Status, token.Response)
}
