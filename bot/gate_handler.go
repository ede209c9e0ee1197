package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-checker-bot/checker"
	"go-checker-bot/store"
)

const gateFrameInterval = 500 * time.Millisecond

var gateProgressFrames = []string{"■□□□", "■■■□", "■■■■"}

// GateHandler implements CommandHandler for single-card gate checks. One
// handler type serves every gateway; the command name and gateway label are
// set at construction.
type GateHandler struct {
	command string
	gateway string
	gate    checker.Gate
	bins    *store.BinStore
	logger  *zap.SugaredLogger
}

// NewAdyenHandler creates the /ad handler
func NewAdyenHandler(gate checker.Gate, bins *store.BinStore, logger *zap.SugaredLogger) *GateHandler {
	return &GateHandler{command: "ad", gateway: "Adyen Auth", gate: gate, bins: bins, logger: logger}
}

// NewBraintreeHandler creates the /b4 handler
func NewBraintreeHandler(gate checker.Gate, bins *store.BinStore, logger *zap.SugaredLogger) *GateHandler {
	return &GateHandler{command: "b4", gateway: "Braintree Auth 3", gate: gate, bins: bins, logger: logger}
}

// Command returns the command string this handler processes
func (h *GateHandler) Command() string {
	return h.command
}

// Requirements returns the preconditions for a gate check
func (h *GateHandler) Requirements() Requirements {
	return Requirements{Registration: true, Cooldown: true, Cost: 1}
}

// Handle processes a single-card gate check. The credit is consumed and the
// cooldown touched whether the gate approves or declines; only a missing
// card skips the charge.
func (h *GateHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	card, ok := checker.ExtractCard(cmdCtx.RawText)
	if !ok {
		return Reply(fmt.Sprintf("Usage: /%s cc|mes|ano|cvv", h.command)), nil
	}

	started := time.Now()
	result, err := h.gate.Check(ctx, card, h.gateway)
	if err != nil {
		return nil, fmt.Errorf("gate check failed: %w", err)
	}
	elapsed := time.Since(started)

	h.logger.Infow("gate check complete",
		"command", "/"+h.command,
		"user", cmdCtx.UserID,
		"bin", card.BIN(),
		"approved", result.Approved)

	plan := NewReplyPlan(h.progressMessage(card, gateProgressFrames[0]))
	for _, frame := range gateProgressFrames[1:] {
		plan.AddFrame(gateFrameInterval, h.progressMessage(card, frame))
	}
	plan.AddFrame(gateFrameInterval, h.resultMessage(card, result, elapsed))

	return &Outcome{
		Plan:   plan,
		Effect: StateEffect{DeductCredits: 1, TouchCooldown: true},
	}, nil
}

func (h *GateHandler) progressMessage(card checker.Card, frame string) string {
	return fmt.Sprintf("💳 %s\n\n🚪 Gate: %s\n\n%s Checking...", card.String(), h.gateway, frame)
}

func (h *GateHandler) resultMessage(card checker.Card, result checker.GateResult, elapsed time.Duration) string {
	status := "❌ DECLINED"
	if result.Approved {
		status = "✅ APPROVED"
	}

	record := h.bins.Lookup(card.BIN())

	return fmt.Sprintf("💳 %s\n\n"+
		"🚪 Gate: %s\n"+
		"%s\n"+
		"📋 Response: %s\n\n"+
		"🏦 Bank: %s\n"+
		"🌍 Country: %s %s\n"+
		"🏷️ Type: %s - %s - %s\n\n"+
		"⏱️ Took: %.2fs",
		card.String(), h.gateway, status, result.Response,
		record.Bank, record.Country, record.Flag,
		record.Brand, record.CardType, record.Level,
		elapsed.Seconds())
}
