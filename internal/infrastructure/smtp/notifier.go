package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dat-archive/internal/config"
)

const verificationSubject = "Your Verification Code - DAT Historical Archive"

// CodeNotifier delivers a verification code to its owner.
type CodeNotifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// NewNotifier picks the delivery channel from cfg.EmailMode.
// Any mode other than "smtp" only logs the code. Config.Validate rejects
// that in production.
func NewNotifier(cfg *config.Config, logger *slog.Logger) CodeNotifier {
	if cfg.EmailMode == config.EmailModeSMTP {
		return NewMailNotifier(NewMailer(cfg), cfg.CodeTTL)
	}
	return NewLogNotifier(logger)
}

// MailNotifier emails the code through a Mailer.
type MailNotifier struct {
	mailer Mailer
	ttl    time.Duration
}

func NewMailNotifier(m Mailer, ttl time.Duration) *MailNotifier {
	return &MailNotifier{mailer: m, ttl: ttl}
}

func (n *MailNotifier) SendVerificationCode(_ context.Context, email, code string) error {
	if err := n.mailer.SendEmail(email, verificationSubject, verificationBody(code, n.ttl)); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

func verificationBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(`DAT Historical Archive - Verification Code

Your verification code is: %s

This code will expire in %d minutes.

If you didn't request this code, please ignore this email.

Unilink Transportation
`, code, int(ttl.Minutes()))
}

// LogNotifier writes the code to the log. Development only.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	n.logger.InfoContext(ctx, "verification code issued", "email", email, "code", code)
	return nil
}
