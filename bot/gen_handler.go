package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"go-checker-bot/checker"
	"go-checker-bot/config"
	"go-checker-bot/store"
)

const defaultGenAmount = 10

// GenHandler implements CommandHandler for the /gen command
type GenHandler struct {
	generator *checker.Generator
	bins      *store.BinStore
	cfg       *config.BotConfig
	logger    *zap.SugaredLogger
}

// NewGenHandler creates a new GenHandler instance
func NewGenHandler(generator *checker.Generator, bins *store.BinStore, cfg *config.BotConfig, logger *zap.SugaredLogger) *GenHandler {
	return &GenHandler{
		generator: generator,
		bins:      bins,
		cfg:       cfg,
		logger:    logger,
	}
}

// Command returns the command string this handler processes
func (h *GenHandler) Command() string {
	return "gen"
}

// Requirements returns the preconditions for /gen
func (h *GenHandler) Requirements() Requirements {
	return Requirements{Registration: true}
}

// Handle processes the /gen command. Only the default amount of 10 is
// replied inline; any other amount is exported to a file and sent as an
// attachment.
func (h *GenHandler) Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error) {
	if cmdCtx.ArgBlob == "" {
		return Reply("Usage: /gen bin|mes|ano|cvv [amount]\n\nExample: /gen 447697xx|x|x|x 20"), nil
	}

	amount := defaultGenAmount
	if cmdCtx.Extra != "" {
		parsed, err := strconv.Atoi(cmdCtx.Extra)
		if err != nil || parsed <= 0 {
			return Reply("⚠️ Amount must be a positive number."), nil
		}
		amount = parsed
	}
	if amount > h.cfg.GenLimit {
		return Reply(fmt.Sprintf("⚠️ Amount too large. The maximum is %d cards per request.", h.cfg.GenLimit)), nil
	}

	prefix := fieldOrNone(cmdCtx, 0)
	cards, err := h.generator.GenerateBatch(prefix, fieldOrNone(cmdCtx, 1), fieldOrNone(cmdCtx, 2), fieldOrNone(cmdCtx, 3), amount)
	if err != nil {
		if checker.IsCheckError(err, checker.ErrorInvalidInput) {
			return Reply("⚠️ " + err.Error() + "\n\nUsage: /gen bin|mes|ano|cvv [amount]"), nil
		}
		return nil, fmt.Errorf("card generation failed: %w", err)
	}

	record := h.bins.Lookup(cards[0].BIN())
	h.logger.Infow("generated cards", "user", cmdCtx.UserID, "bin", cards[0].BIN(), "amount", amount)

	header := fmt.Sprintf("💳 Generated %d card(s)\n\n"+
		"🔢 BIN: %s\n"+
		"🏦 Bank: %s\n"+
		"🌍 Country: %s %s\n"+
		"🏷️ Type: %s - %s - %s\n\n",
		len(cards), cards[0].BIN(),
		record.Bank, record.Country, record.Flag,
		record.Brand, record.CardType, record.Level)

	if amount == defaultGenAmount {
		return Reply(header + "```\n" + checker.CardsText(cards) + "\n```"), nil
	}

	path := filepath.Join(h.cfg.DataDir, fmt.Sprintf("gen_%s_%d.txt", cmdCtx.UserID, cmdCtx.Timestamp.UnixNano()))
	if err := os.WriteFile(path, []byte(checker.CardsText(cards)+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	plan := NewReplyPlan(header + "📄 Batch attached below.")
	plan.AddDocument(0, DocumentSpec{
		Path:     path,
		Filename: fmt.Sprintf("cards_%s.txt", cards[0].BIN()),
		Caption:  fmt.Sprintf("💳 %d cards for BIN %s", len(cards), cards[0].BIN()),
	})

	return &Outcome{Plan: plan}, nil
}

// fieldOrNone reads a pipe field, mapping absent or empty to the wildcard
func fieldOrNone(cmdCtx *CommandContext, i int) string {
	if i >= len(cmdCtx.Fields) {
		return checker.FieldNone
	}
	if cmdCtx.Fields[i] == "" {
		return checker.FieldNone
	}
	return cmdCtx.Fields[i]
}
