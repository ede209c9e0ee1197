package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-checker-bot/config"
	"go-checker-bot/store"
)

// Dispatcher routes parsed commands to their handlers after checking the
// sender's preconditions. Dispatch is serialized so account reads and the
// post-reply state effect never interleave between commands.
type Dispatcher struct {
	mu           sync.Mutex
	handlers     map[string]CommandHandler
	accounts     *store.AccountStore
	cfg          *config.BotConfig
	animator     *Animator
	errorHandler *ErrorHandler
	logger       *zap.SugaredLogger
	now          func() time.Time
}

// NewDispatcher creates a dispatcher with no handlers registered
func NewDispatcher(accounts *store.AccountStore, cfg *config.BotConfig, animator *Animator, errorHandler *ErrorHandler, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		handlers:     make(map[string]CommandHandler),
		accounts:     accounts,
		cfg:          cfg,
		animator:     animator,
		errorHandler: errorHandler,
		logger:       logger,
		now:          time.Now,
	}
}

// RegisterHandler registers a command handler under its command name
func (d *Dispatcher) RegisterHandler(handler CommandHandler) {
	command := handler.Command()
	d.handlers[command] = handler
	d.logger.Infof("registered handler for command: /%s", command)
}

// RegisteredCommands returns all registered command names, sorted
func (d *Dispatcher) RegisteredCommands() []string {
	commands := make([]string, 0, len(d.handlers))
	for command := range d.handlers {
		commands = append(commands, command)
	}
	sort.Strings(commands)
	return commands
}

// HasHandler returns true if a handler is registered for the given command
func (d *Dispatcher) HasHandler(command string) bool {
	_, exists := d.handlers[command]
	return exists
}

// Dispatch processes one inbound message end to end: parse, gate on the
// sender's account state, run the handler, play the reply plan, and only
// then apply the handler's state effect. A failed reply leaves account
// state untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, in *Inbound) {
	if in.FromSelf {
		return
	}

	parsed, ok := ParseCommand(in.Text)
	if !ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cmdCtx := &CommandContext{
		ChatID:     in.ChatID,
		SenderID:   in.SenderID,
		SenderName: in.SenderName,
		UserID:     strconv.FormatInt(in.SenderID, 10),
		Command:    parsed.Name,
		ArgBlob:    parsed.ArgBlob,
		Fields:     parsed.Fields,
		Extra:      parsed.Extra,
		RawText:    in.Text,
		Timestamp:  d.now(),
	}

	handler, exists := d.handlers[parsed.Name]
	if !exists {
		d.reply(ctx, cmdCtx, d.unknownCommandMessage())
		return
	}

	account, err := d.accounts.Get(cmdCtx.UserID)
	if err != nil && err != store.ErrNotFound {
		d.errorHandler.HandleCommandError(fmt.Errorf("failed to load account: %w", err), cmdCtx)
		return
	}
	cmdCtx.Account = account

	reqs := handler.Requirements()
	if rejection := d.checkPreconditions(cmdCtx, reqs); rejection != "" {
		d.reply(ctx, cmdCtx, rejection)
		return
	}

	d.logger.Infow("dispatching command",
		"command", "/"+cmdCtx.Command,
		"user", cmdCtx.UserID,
		"chat", cmdCtx.ChatID)

	outcome, err := d.runHandler(ctx, handler, cmdCtx)
	if err != nil {
		d.errorHandler.HandleCommandError(err, cmdCtx)
		return
	}
	if outcome == nil || outcome.Plan == nil {
		return
	}

	if err := d.animator.Run(ctx, cmdCtx.ChatID, outcome.Plan); err != nil {
		d.errorHandler.HandleTransportError(err, cmdCtx)
		return
	}

	if !outcome.Effect.IsZero() {
		delta := store.Delta{
			CreditsDelta:  -outcome.Effect.DeductCredits,
			TouchCooldown: outcome.Effect.TouchCooldown,
			Now:           cmdCtx.Timestamp,
		}
		if _, err := d.accounts.ApplyDelta(cmdCtx.UserID, delta); err != nil {
			d.errorHandler.HandleRuntimeError(fmt.Errorf("failed to apply state effect for /%s: %w", cmdCtx.Command, err))
		}
	}
}

// runHandler executes the handler with panic recovery
func (d *Dispatcher) runHandler(ctx context.Context, handler CommandHandler, cmdCtx *CommandContext) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, cmdCtx)
}

// checkPreconditions checks the handler's requirements against the sender's
// account, in fixed order. The first failing check wins; a non-empty return
// is the rejection reply.
func (d *Dispatcher) checkPreconditions(cmdCtx *CommandContext, reqs Requirements) string {
	if reqs.Registration && !IsRegistered(cmdCtx.Account) {
		return "⚠️ You are not registered yet.\n\nUse /register to create an account."
	}

	if reqs.Cooldown && !CooldownElapsed(cmdCtx.Account, cmdCtx.Timestamp, d.cfg.Cooldown) {
		remaining := d.cfg.Cooldown - cmdCtx.Timestamp.Sub(cmdCtx.Account.LastActionAt)
		seconds := int(remaining.Seconds()) + 1
		return fmt.Sprintf("⏳ Slow down! Please wait %d second(s) before your next check.", seconds)
	}

	if reqs.Cost > 0 && !HasSufficientCredits(cmdCtx.Account, reqs.Cost) {
		return fmt.Sprintf("💳 Insufficient credits. This command costs %d credit(s).", reqs.Cost)
	}

	return ""
}

// unknownCommandMessage lists the registered commands
func (d *Dispatcher) unknownCommandMessage() string {
	var builder strings.Builder
	builder.WriteString("❓ Unknown command.\n\nAvailable commands:\n")
	for _, command := range d.RegisteredCommands() {
		builder.WriteString("• /" + command + "\n")
	}
	return builder.String()
}

// reply sends a single-frame reply, logging delivery failures
func (d *Dispatcher) reply(ctx context.Context, cmdCtx *CommandContext, text string) {
	if err := d.animator.Run(ctx, cmdCtx.ChatID, NewReplyPlan(text)); err != nil {
		d.errorHandler.HandleTransportError(err, cmdCtx)
	}
}
