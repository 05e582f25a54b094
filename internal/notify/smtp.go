// Package notify e-mails the site owner when a contact message arrives.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-backend/internal/config"
	"github.com/Zachkp/portfolio-backend/internal/domain"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends contact notifications over SMTP.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
	send   sendFunc
}

func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// MessageReceived mails m to the configured inbox.
func (m *Mailer) MessageReceived(ctx context.Context, msg domain.Message) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.ToEmail}, m.compose(msg)); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}

	m.logger.Info("contact email sent", zap.String("message_id", msg.ID))
	return nil
}

func (m *Mailer) compose(msg domain.Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + m.cfg.ToEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips CR/LF so visitor input cannot inject extra headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
