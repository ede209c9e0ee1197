package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-checker-bot/checker"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypePrecondition
	ErrorTypePermission
	ErrorTypeTransport
	ErrorTypeUnexpected
)

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypePrecondition:
		return "PRECONDITION"
	case ErrorTypePermission:
		return "PERMISSION"
	case ErrorTypeTransport:
		return "TRANSPORT"
	case ErrorTypeUnexpected:
		return "UNEXPECTED"
	default:
		return "UNKNOWN"
	}
}

// ErrorContext carries the request details attached to an error report
type ErrorContext struct {
	UserID        string
	ChatID        int64
	Command       string
	CorrelationID string
	Timestamp     time.Time
}

// ErrorHandler provides centralized error management for the bot. Handler
// failures never take the process down; they are logged with a correlation
// ID and answered with a single generic reply.
type ErrorHandler struct {
	logger    *zap.SugaredLogger
	messenger Messenger
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *zap.SugaredLogger, messenger Messenger) *ErrorHandler {
	return &ErrorHandler{
		logger:    logger,
		messenger: messenger,
	}
}

// HandleCommandError logs a handler failure and sends the user one generic
// failure reply. The correlation ID ties the reply to the log entry.
func (e *ErrorHandler) HandleCommandError(err error, cmdCtx *CommandContext) {
	errorCtx := &ErrorContext{
		UserID:        cmdCtx.UserID,
		ChatID:        cmdCtx.ChatID,
		Command:       cmdCtx.Command,
		CorrelationID: e.generateCorrelationID(),
		Timestamp:     time.Now(),
	}

	e.logStructuredError(classifyError(err), err, errorCtx, "command processing failed")

	if sendErr := e.sendUserErrorMessage(cmdCtx.ChatID, err, errorCtx.CorrelationID); sendErr != nil {
		e.logger.Errorw("failed to deliver error reply",
			"chat", cmdCtx.ChatID,
			"correlation", errorCtx.CorrelationID,
			"error", sendErr)
	}
}

// HandleTransportError logs a reply delivery failure. There is nothing to
// tell the user since delivery itself is what failed.
func (e *ErrorHandler) HandleTransportError(err error, cmdCtx *CommandContext) {
	errorCtx := &ErrorContext{
		CorrelationID: e.generateCorrelationID(),
		Timestamp:     time.Now(),
	}
	if cmdCtx != nil {
		errorCtx.UserID = cmdCtx.UserID
		errorCtx.ChatID = cmdCtx.ChatID
		errorCtx.Command = cmdCtx.Command
	}

	e.logStructuredError(ErrorTypeTransport, err, errorCtx, "reply delivery failed")
}

// HandleRuntimeError logs an unexpected error outside any command context
func (e *ErrorHandler) HandleRuntimeError(err error) {
	errorCtx := &ErrorContext{
		CorrelationID: e.generateCorrelationID(),
		Timestamp:     time.Now(),
	}

	e.logStructuredError(ErrorTypeUnexpected, err, errorCtx, "runtime error occurred")
}

// RecoverFromPanic converts a panic in a handler into a logged runtime error
func (e *ErrorHandler) RecoverFromPanic() {
	if r := recover(); r != nil {
		var err error
		if pe, ok := r.(error); ok {
			err = pe
		} else {
			err = fmt.Errorf("panic: %v", r)
		}

		e.HandleRuntimeError(fmt.Errorf("recovered from panic: %w", err))
	}
}

// classifyError maps checker error types onto the bot's error taxonomy
func classifyError(err error) ErrorType {
	switch {
	case checker.IsCheckError(err, checker.ErrorInvalidInput, checker.ErrorLimitExceeded):
		return ErrorTypeValidation
	case checker.IsCheckError(err, checker.ErrorGateFailure):
		return ErrorTypeTransport
	default:
		return ErrorTypeUnexpected
	}
}

// logStructuredError logs errors with structured request information
func (e *ErrorHandler) logStructuredError(errorType ErrorType, err error, ctx *ErrorContext, message string) {
	fields := []interface{}{
		"type", errorType.String(),
		"error", err,
	}

	if ctx != nil {
		fields = append(fields,
			"correlation", ctx.CorrelationID,
			"timestamp", ctx.Timestamp.Format(time.RFC3339))
		if ctx.UserID != "" {
			fields = append(fields, "user", ctx.UserID)
		}
		if ctx.ChatID != 0 {
			fields = append(fields, "chat", ctx.ChatID)
		}
		if ctx.Command != "" {
			fields = append(fields, "command", "/"+ctx.Command)
		}
	}

	switch errorType {
	case ErrorTypeValidation, ErrorTypePrecondition, ErrorTypePermission:
		e.logger.Warnw(message, fields...)
	default:
		e.logger.Errorw(message, fields...)
	}
}

// sendUserErrorMessage sends a single user-facing failure reply
func (e *ErrorHandler) sendUserErrorMessage(chatID int64, err error, correlationID string) error {
	if e.messenger == nil {
		return fmt.Errorf("messenger is not available")
	}

	userMessage := e.createUserFriendlyMessage(err, correlationID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, sendErr := e.messenger.SendMessage(ctx, chatID, userMessage); sendErr != nil {
		return fmt.Errorf("failed to send error reply: %w", sendErr)
	}
	return nil
}

// createUserFriendlyMessage creates a user-facing error message
func (e *ErrorHandler) createUserFriendlyMessage(err error, correlationID string) string {
	errorMsg := strings.ToLower(err.Error())

	var userMessage string
	switch {
	case strings.Contains(errorMsg, "timeout"):
		userMessage = "⏱️ The request took too long to process. Please try again."
	case strings.Contains(errorMsg, "network") || strings.Contains(errorMsg, "connection"):
		userMessage = "🌐 I'm having trouble reaching Telegram's servers. Please try again in a moment."
	default:
		userMessage = "❌ Something went wrong while processing your request. Please try again."
	}

	if len(correlationID) >= 8 {
		userMessage += fmt.Sprintf("\n\n🔧 Error ID: %s", correlationID[:8])
	}

	return userMessage
}

// generateCorrelationID generates a unique ID for error tracking
func (e *ErrorHandler) generateCorrelationID() string {
	return uuid.NewString()
}
