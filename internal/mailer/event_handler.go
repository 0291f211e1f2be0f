package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/workforce-portal/internal/core/events"
)

type EventHandler struct {
	sender Sender
	logger *slog.Logger
}

func NewEventHandler(sender Sender, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		sender: sender,
		logger: logger,
	}
}

// HandleOTPGenerated delivers a freshly issued login code. It runs on the
// synchronous publish path so the request sees delivery failures.
func (h *EventHandler) HandleOTPGenerated(ctx context.Context, event events.Event) error {
	otpEvent, ok := event.(*events.OTPGeneratedEvent)
	if !ok {
		h.logger.Error("invalid event type for otp generated handler", "event_type", event.EventType())
		return fmt.Errorf("expected OTPGeneratedEvent, got %T", event)
	}

	subject := "Your login code"
	body := fmt.Sprintf(
		"<p>Your one-time login code is <strong>%s</strong>.</p><p>It expires at %s.</p>",
		otpEvent.Code,
		otpEvent.ExpiresAt.Format("15:04 MST"),
	)

	if err := h.sender.Send(otpEvent.Email, subject, body); err != nil {
		h.logger.Error("failed to deliver otp mail",
			"email", otpEvent.Email,
			"event_id", otpEvent.EventID(),
			"error", err)
		return fmt.Errorf("otp mail delivery failed: %w", err)
	}

	h.logger.Info("otp mail delivered", "email", otpEvent.Email, "event_id", otpEvent.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeOTPGenerated, h.HandleOTPGenerated)

	h.logger.Info("mailer event handlers registered",
		"handlers", []string{events.EventTypeOTPGenerated})
}
