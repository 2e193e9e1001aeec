// Package mail sends notification email to deck creators and subscribers
// when an administrator blocks or unblocks a deck. It plugs into the events
// package as an EventHandler.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/deckmate/deckmate-api/internal/config"
	"github.com/deckmate/deckmate-api/internal/events"
)

// Sender abstracts the SMTP send call so tests can capture outgoing mail.
type Sender interface {
	Send(addr, from string, to []string, msg []byte) error
}

// smtpSender sends mail through net/smtp without authentication. Deployments
// are expected to relay through a local or network-internal MTA.
type smtpSender struct{}

func (smtpSender) Send(addr, from string, to []string, msg []byte) error {
	return smtp.SendMail(addr, nil, from, to, msg)
}

// Notifier handles deck moderation events by emailing the affected persons.
// When no SMTP host is configured it degrades to logging the notification,
// which keeps development setups free of mail infrastructure.
type Notifier struct {
	cfg    config.MailConfig
	sender Sender
	logger *slog.Logger
}

// NewNotifier creates a Notifier using the default net/smtp sender.
// If logger is nil, a default logger will be used.
func NewNotifier(cfg config.MailConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		cfg:    cfg,
		sender: smtpSender{},
		logger: logger.With(slog.String("component", "mail_notifier")),
	}
}

// NewNotifierWithSender creates a Notifier with a custom sender, for tests.
func NewNotifierWithSender(cfg config.MailConfig, sender Sender, logger *slog.Logger) *Notifier {
	n := NewNotifier(cfg, logger)
	n.sender = sender
	return n
}

// Ensure Notifier implements events.EventHandler interface
var _ events.EventHandler = (*Notifier)(nil)

// HandleEvent implements events.EventHandler. Events other than deck
// moderation events are ignored.
func (n *Notifier) HandleEvent(ctx context.Context, event *events.DeckEvent) error {
	var subject, body string

	switch event.Type {
	case events.EventDeckBlocked:
		subject = "Deck blocked"
		body = "The deck %q has been blocked by an administrator and is no longer available."
	case events.EventDeckUnblocked:
		subject = "Deck unblocked"
		body = "The deck %q has been unblocked and is available again."
	default:
		return nil
	}

	var payload events.DeckModerationPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode deck moderation payload: %w", err)
	}

	if len(payload.Recipients) == 0 {
		n.logger.Debug("no recipients for deck notification",
			"event_type", event.Type,
			"deck_id", payload.DeckID)
		return nil
	}

	if n.cfg.Host == "" {
		n.logger.Info("mail host not configured, logging notification instead",
			"event_type", event.Type,
			"deck_id", payload.DeckID,
			"deck_name", payload.DeckName,
			"recipient_count", len(payload.Recipients))
		return nil
	}

	msg := buildMessage(n.cfg.From, subject, fmt.Sprintf(body, payload.DeckName))
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	if err := n.sender.Send(addr, n.cfg.From, payload.Recipients, msg); err != nil {
		n.logger.Error("failed to send deck notification mail",
			"error", err,
			"event_type", event.Type,
			"deck_id", payload.DeckID,
			"recipient_count", len(payload.Recipients))
		return fmt.Errorf("failed to send notification mail: %w", err)
	}

	n.logger.Debug("sent deck notification mail",
		"event_type", event.Type,
		"deck_id", payload.DeckID,
		"recipient_count", len(payload.Recipients))
	return nil
}

// buildMessage assembles a minimal RFC 5322 message. Recipients travel in
// the SMTP envelope only; the To header lists the sender so subscriber
// addresses are not leaked to each other.
func buildMessage(from string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + from + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
