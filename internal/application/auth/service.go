package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dat-archive/internal/domain"
	"github.com/dat-archive/internal/metrics"
	pkgtoken "github.com/dat-archive/internal/pkg/token"
)

// DefaultCodeTTL is how long an issued code stays valid.
const DefaultCodeTTL = 10 * time.Minute

type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// CredentialStore holds at most one pending code per email.
// Consume must delete the credential only when it still holds code and
// report whether this call performed the delete.
type CredentialStore interface {
	Upsert(ctx context.Context, c *domain.VerificationCredential) error
	Get(ctx context.Context, email string) (*domain.VerificationCredential, error)
	Delete(ctx context.Context, email string) error
	Consume(ctx context.Context, email, code string) (bool, error)
}

// Notifier delivers a code to the address it was issued for.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

type Service interface {
	// RequestCode issues a fresh code for email, replacing any pending one.
	RequestCode(ctx context.Context, email string) error
	// VerifyCode reports whether code is the live code for email, consuming it on success.
	VerifyCode(ctx context.Context, email, code string) (bool, error)
}

// ServiceDeps holds the collaborators for NewService. Zero values for
// CodeTTL, Now, NewCode and Recorder are replaced with defaults.
type ServiceDeps struct {
	Store         CredentialStore
	Notifier      Notifier
	Recorder      metrics.Recorder
	AllowedDomain string
	CodeTTL       time.Duration
	Now           func() time.Time
	NewCode       func() (string, error)
}

type service struct {
	store    CredentialStore
	notifier Notifier
	recorder metrics.Recorder
	suffix   string
	codeTTL  time.Duration
	now      func() time.Time
	newCode  func() (string, error)
}

func NewService(d ServiceDeps) Service {
	s := &service{
		store:    d.Store,
		notifier: d.Notifier,
		recorder: d.Recorder,
		suffix:   "@" + strings.ToLower(strings.TrimPrefix(d.AllowedDomain, "@")),
		codeTTL:  d.CodeTTL,
		now:      d.Now,
		newCode:  d.NewCode,
	}
	if s.recorder == nil {
		s.recorder = metrics.Nop{}
	}
	if s.codeTTL <= 0 {
		s.codeTTL = DefaultCodeTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = pkgtoken.NewVerificationCode
	}
	return s
}

// NormalizeEmail trims surrounding space and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) allowed(email string) bool {
	return len(email) > len(s.suffix) && strings.HasSuffix(email, s.suffix)
}

func (s *service) RequestCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}
	if !s.allowed(email) {
		return fmt.Errorf("email must be from %s domain: %w", s.suffix, domain.ErrForbidden)
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	cred := &domain.VerificationCredential{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.codeTTL),
	}
	if err := s.store.Upsert(ctx, cred); err != nil {
		return err
	}
	s.recorder.RecordCodeIssued()

	// The stored code stays valid when delivery fails; a new request replaces it.
	if err := s.notifier.SendVerificationCode(ctx, email, code); err != nil {
		s.recorder.RecordDeliveryFailure()
		slog.ErrorContext(ctx, "verification code delivery failed", "email", email, "err", err)
		return fmt.Errorf("deliver code: %w: %w", domain.ErrDelivery, err)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return false, fmt.Errorf("email and code are required: %w", domain.ErrBadRequest)
	}

	cred, err := s.store.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.recorder.RecordVerification(metrics.OutcomeMissing)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if cred.Expired(s.now()) {
		s.recorder.RecordVerification(metrics.OutcomeExpired)
		if err := s.store.Delete(ctx, email); err != nil {
			slog.WarnContext(ctx, "failed to delete expired credential", "email", email, "err", err)
		}
		return false, nil
	}

	// A wrong guess leaves the credential in place until it expires.
	if cred.Code != code {
		s.recorder.RecordVerification(metrics.OutcomeInvalid)
		return false, nil
	}

	ok, err := s.store.Consume(ctx, email, code)
	if err != nil {
		return false, err
	}
	if !ok {
		// Another request consumed or replaced it between Get and Consume.
		s.recorder.RecordVerification(metrics.OutcomeInvalid)
		return false, nil
	}
	s.recorder.RecordVerification(metrics.OutcomeSuccess)
	return true, nil
}
