package smtp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"testing"
	"time"

	"github.com/dat-archive/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func newTestMailer(captured *sentMail, err error) *mailer {
	return &mailer{
		host:     "smtp.example.com",
		port:     "587",
		from:     "DAT Historical Archive <noreply@unilinktransportation.com>",
		username: "user",
		password: "pass",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			*captured = sentMail{addr: addr, auth: a, from: from, to: to, msg: string(msg)}
			return err
		},
	}
}

func TestSendEmail_Message(t *testing.T) {
	var got sentMail
	m := newTestMailer(&got, nil)

	require.NoError(t, m.SendEmail("a@unilinktransportation.com", "Hello", "body text"))

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "noreply@unilinktransportation.com", got.from)
	assert.Equal(t, []string{"a@unilinktransportation.com"}, got.to)
	assert.NotNil(t, got.auth)
	assert.Contains(t, got.msg, "From: DAT Historical Archive <noreply@unilinktransportation.com>\r\n")
	assert.Contains(t, got.msg, "Subject: Hello\r\n")
	assert.Contains(t, got.msg, "\r\n\r\nbody text")
}

func TestSendEmail_NoAuthWithoutUsername(t *testing.T) {
	var got sentMail
	m := newTestMailer(&got, nil)
	m.username = ""

	require.NoError(t, m.SendEmail("a@x.com", "s", "b"))
	assert.Nil(t, got.auth)
}

func TestSendEmail_Error(t *testing.T) {
	var got sentMail
	m := newTestMailer(&got, errors.New("connection refused"))

	err := m.SendEmail("a@x.com", "s", "b")
	assert.ErrorContains(t, err, "connection refused")
}

type mockMailer struct {
	to, subject, body string
	err               error
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func TestMailNotifier_SendsCode(t *testing.T) {
	mm := &mockMailer{}
	n := NewMailNotifier(mm, 10*time.Minute)

	require.NoError(t, n.SendVerificationCode(context.Background(), "a@x.com", "1234567890"))
	assert.Equal(t, "a@x.com", mm.to)
	assert.Equal(t, verificationSubject, mm.subject)
	assert.Contains(t, mm.body, "Your verification code is: 1234567890")
	assert.Contains(t, mm.body, "expire in 10 minutes")
}

func TestMailNotifier_WrapsError(t *testing.T) {
	mm := &mockMailer{err: errors.New("boom")}
	err := NewMailNotifier(mm, time.Minute).SendVerificationCode(context.Background(), "a@x.com", "1")
	assert.ErrorContains(t, err, "boom")
}

func TestNewNotifier_Mode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := NewNotifier(&config.Config{EmailMode: "log"}, logger)
	require.IsType(t, &LogNotifier{}, n)
	require.NoError(t, n.SendVerificationCode(context.Background(), "a@x.com", "1234567890"))
	assert.Contains(t, buf.String(), "1234567890")

	assert.IsType(t, &MailNotifier{}, NewNotifier(&config.Config{EmailMode: "smtp", CodeTTL: time.Minute}, logger))
}
