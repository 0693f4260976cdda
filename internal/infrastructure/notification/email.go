package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/config"
)

// MailSender delivers a rendered HTML message.
type MailSender interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPSender sends mail via net/smtp
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (s *SMTPSender) Send(to []string, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, strings.Join(to, ", "), subject, htmlBody)
	return smtp.SendMail(s.addr, s.auth, s.from, to, []byte(msg))
}

// EmailChannel mails buyers about their own orders and staff about admin kinds.
type EmailChannel struct {
	sender       MailSender
	recipients   application.RecipientLookup
	adminAddress string
}

func NewEmailChannel(sender MailSender, recipients application.RecipientLookup, adminAddress string) *EmailChannel {
	return &EmailChannel{
		sender:       sender,
		recipients:   recipients,
		adminAddress: adminAddress,
	}
}

func (c *EmailChannel) Name() string {
	return "email"
}

func (c *EmailChannel) Deliver(ctx context.Context, n application.Notification) error {
	if n.Order == nil {
		return errors.New("notification without order")
	}

	var to, name string
	if n.Kind.IsAdmin() {
		if c.adminAddress == "" {
			return nil
		}
		to = c.adminAddress
	} else {
		rec, err := c.recipients.FindRecipient(ctx, n.Order.UserID)
		if err != nil {
			return fmt.Errorf("resolve recipient for user %d: %w", n.Order.UserID, err)
		}
		to, name = rec.Email, rec.FullName
	}

	subject, body, err := renderMessage(n, name)
	if err != nil {
		return err
	}

	// net/smtp has no context support
	done := make(chan error, 1)
	go func() {
		done <- c.sender.Send([]string{to}, subject, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
