package bot

import (
	"context"
	"time"

	"go-checker-bot/store"
)

// CommandHandler defines the interface for handling bot commands
type CommandHandler interface {
	// Handle processes a command and returns the reply plan plus the state
	// effect to apply once the reply has been delivered
	Handle(ctx context.Context, cmdCtx *CommandContext) (*Outcome, error)
	// Command returns the command string this handler processes (e.g., "gen", "vbv")
	Command() string
	// Requirements returns the preconditions the dispatcher must enforce
	// before invoking Handle
	Requirements() Requirements
}

// Requirements are the per-command preconditions, evaluated by the
// dispatcher in a fixed order: registration, cooldown, credits
type Requirements struct {
	// Registration requires the sender to have a registered account
	Registration bool
	// Cooldown requires the per-account cooldown window to have elapsed
	Cooldown bool
	// Cost is the statically known credit cost checked before dispatch.
	// Commands whose cost depends on their arguments keep this at zero and
	// validate the balance themselves.
	Cost int
}

// StateEffect is the account mutation a handler requests. The dispatcher
// applies it only after the reply plan has been delivered without fault.
type StateEffect struct {
	DeductCredits int
	TouchCooldown bool
}

// IsZero reports whether the effect changes nothing
func (e StateEffect) IsZero() bool {
	return e.DeductCredits == 0 && !e.TouchCooldown
}

// Outcome is a handler result: what to say and what to mutate
type Outcome struct {
	Plan   *ReplyPlan
	Effect StateEffect
}

// Reply builds an effect-free outcome with a single text frame
func Reply(text string) *Outcome {
	return &Outcome{Plan: NewReplyPlan(text)}
}

// Inbound is one incoming transport event, decoupled from the Telegram
// update types so the dispatcher can be driven by a fake transport in tests
type Inbound struct {
	ChatID     int64
	SenderID   int64
	SenderName string
	Text       string
	FromSelf   bool
}

// CommandContext provides context information for command processing
type CommandContext struct {
	// ChatID is the chat where the command was sent
	ChatID int64
	// SenderID is the numeric transport ID of the sender
	SenderID int64
	// SenderName is the sender's display name
	SenderName string
	// UserID is the account-store key for the sender
	UserID string
	// Account is a read snapshot of the sender's account, nil when the
	// sender is not registered. Handlers never mutate it.
	Account *store.Account
	// Command is the command string without the leading prefix
	Command string
	// ArgBlob is the first whitespace-delimited argument token
	ArgBlob string
	// Fields are the pipe-delimited fields of ArgBlob; absent fields
	// read as the "None" sentinel via Field
	Fields []string
	// Extra is the optional second argument token (e.g. the gen amount)
	Extra string
	// RawText is the complete message text, used by the mass-check
	// commands to harvest card tokens from every line
	RawText string
	// Timestamp is when the command was received
	Timestamp time.Time
}
