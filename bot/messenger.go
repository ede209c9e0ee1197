package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// TelegramAPI defines the Telegram API operations needed by the messenger
type TelegramAPI interface {
	MessagesSendMessage(ctx context.Context, request *tg.MessagesSendMessageRequest) (tg.UpdatesClass, error)
	MessagesEditMessage(ctx context.Context, request *tg.MessagesEditMessageRequest) (tg.UpdatesClass, error)
	MessagesSendMedia(ctx context.Context, request *tg.MessagesSendMediaRequest) (tg.UpdatesClass, error)
}

// telegramMessenger implements Messenger over the raw Telegram API
type telegramMessenger struct {
	api      TelegramAPI
	uploader *uploader.Uploader
}

// NewTelegramMessenger creates a Messenger backed by the given API client
func NewTelegramMessenger(api *tg.Client) Messenger {
	return &telegramMessenger{
		api:      api,
		uploader: uploader.NewUploader(api),
	}
}

// SendMessage sends a new message and returns its ID for later edits
func (m *telegramMessenger) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	request := &tg.MessagesSendMessageRequest{
		Peer:     resolvePeer(chatID),
		Message:  text,
		RandomID: time.Now().UnixNano(),
	}

	updates, err := m.api.MessagesSendMessage(ctx, request)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	return extractMessageID(updates), nil
}

// EditMessage replaces the text of a previously sent message
func (m *telegramMessenger) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	request := &tg.MessagesEditMessageRequest{
		Peer:    resolvePeer(chatID),
		ID:      messageID,
		Message: text,
	}

	_, err := m.api.MessagesEditMessage(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to edit message %d: %w", messageID, err)
	}
	return nil
}

// SendDocument uploads a local file and sends it as a document attachment
func (m *telegramMessenger) SendDocument(ctx context.Context, chatID int64, path, filename, caption string) error {
	if m.uploader == nil {
		return fmt.Errorf("uploader is not initialized")
	}
	if filename == "" {
		filename = filepath.Base(path)
	}

	file, err := m.uploader.FromPath(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	media := &tg.InputMediaUploadedDocument{
		File:     file,
		MimeType: "text/plain",
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeFilename{FileName: filename},
		},
	}

	request := &tg.MessagesSendMediaRequest{
		Peer:     resolvePeer(chatID),
		Media:    media,
		Message:  caption,
		RandomID: time.Now().UnixNano(),
	}

	if _, err := m.api.MessagesSendMedia(ctx, request); err != nil {
		return fmt.Errorf("failed to send document %s: %w", filename, err)
	}
	return nil
}

// resolvePeer maps a chat ID to the corresponding input peer. Positive IDs
// are direct user chats, negative IDs are group chats.
func resolvePeer(chatID int64) tg.InputPeerClass {
	if chatID > 0 {
		return &tg.InputPeerUser{UserID: chatID}
	}
	return &tg.InputPeerChat{ChatID: -chatID}
}

// extractMessageID pulls the new message ID out of the send response
func extractMessageID(updates tg.UpdatesClass) int {
	switch u := updates.(type) {
	case *tg.Updates:
		for _, update := range u.Updates {
			if msgUpdate, ok := update.(*tg.UpdateNewMessage); ok {
				if msg, ok := msgUpdate.Message.(*tg.Message); ok {
					return msg.ID
				}
			}
		}
	case *tg.UpdateShortSentMessage:
		return u.ID
	}
	return 0
}
