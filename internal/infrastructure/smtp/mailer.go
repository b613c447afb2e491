package smtp

import (
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/dat-archive/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	send     sendFunc
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	// The header keeps the display name, the envelope needs the bare address.
	envelopeFrom := m.from
	if addr, err := mail.ParseAddress(m.from); err == nil {
		envelopeFrom = addr.Address
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := m.send(addr, auth, envelopeFrom, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
