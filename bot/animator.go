package bot

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Messenger is the outgoing half of the transport: send a message and get a
// handle back, edit a previously sent message, or send a file attachment
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	SendDocument(ctx context.Context, chatID int64, path, filename, caption string) error
}

// DocumentSpec describes a transient export file to send as an attachment.
// The file is removed after the send attempt; it never outlives the plan.
type DocumentSpec struct {
	Path     string
	Filename string
	Caption  string
}

// Frame is one step of a reply plan: wait Delay, then either edit the
// previously sent message with Text or (when Document is set) send the
// attachment as its own message
type Frame struct {
	Delay    time.Duration
	Text     string
	Document *DocumentSpec
}

// ReplyPlan is an ordered, finite sequence of frames. The first text frame
// sends a new message; every later text frame edits it in place.
type ReplyPlan struct {
	Frames []Frame
}

// NewReplyPlan creates a plan whose first frame sends the given text
func NewReplyPlan(text string) *ReplyPlan {
	return &ReplyPlan{Frames: []Frame{{Text: text}}}
}

// AddFrame appends an edit frame played after the given delay
func (p *ReplyPlan) AddFrame(delay time.Duration, text string) *ReplyPlan {
	p.Frames = append(p.Frames, Frame{Delay: delay, Text: text})
	return p
}

// AddDocument appends a document frame played after the given delay
func (p *ReplyPlan) AddDocument(delay time.Duration, doc DocumentSpec) *ReplyPlan {
	p.Frames = append(p.Frames, Frame{Delay: delay, Document: &doc})
	return p
}

// Animator plays reply plans against the transport: strictly in sequence,
// never skipping a frame, aborting the remainder on the first transport
// failure. The delay function is injectable so plans are testable without
// real timers.
type Animator struct {
	messenger Messenger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewAnimator creates an Animator over the given messenger
func NewAnimator(messenger Messenger) *Animator {
	return &Animator{
		messenger: messenger,
		sleep:     sleepContext,
	}
}

// Run plays the plan into the chat. The remaining frames are abandoned on
// the first send/edit failure and the failure is returned to the caller;
// there are no retries.
func (a *Animator) Run(ctx context.Context, chatID int64, plan *ReplyPlan) error {
	if plan == nil || len(plan.Frames) == 0 {
		return nil
	}

	messageID := 0
	sent := false

	for i, frame := range plan.Frames {
		if frame.Delay > 0 {
			if err := a.sleep(ctx, frame.Delay); err != nil {
				discardDocuments(plan.Frames[i:])
				return err
			}
		}

		if frame.Document != nil {
			err := a.messenger.SendDocument(ctx, chatID, frame.Document.Path, frame.Document.Filename, frame.Document.Caption)
			// the export file is transient either way
			os.Remove(frame.Document.Path)
			if err != nil {
				discardDocuments(plan.Frames[i+1:])
				return fmt.Errorf("failed to send document frame %d: %w", i, err)
			}
			continue
		}

		if !sent {
			id, err := a.messenger.SendMessage(ctx, chatID, frame.Text)
			if err != nil {
				discardDocuments(plan.Frames[i+1:])
				return fmt.Errorf("failed to send frame %d: %w", i, err)
			}
			messageID = id
			sent = true
			continue
		}

		if err := a.messenger.EditMessage(ctx, chatID, messageID, frame.Text); err != nil {
			discardDocuments(plan.Frames[i+1:])
			return fmt.Errorf("failed to edit frame %d: %w", i, err)
		}
	}

	return nil
}

// discardDocuments removes the export files of frames that will never play.
// Abandoned plans must not leave their attachments on disk.
func discardDocuments(frames []Frame) {
	for _, frame := range frames {
		if frame.Document != nil {
			os.Remove(frame.Document.Path)
		}
	}
}

// sleepContext waits for the duration or until the context is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
