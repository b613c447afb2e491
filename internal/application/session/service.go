package session

import (
	"fmt"
	"time"

	"github.com/dat-archive/internal/domain"
	jwtinfra "github.com/dat-archive/internal/infrastructure/jwt"
	"github.com/dat-archive/internal/metrics"
)

// TokenProvider signs and verifies session tokens.
type TokenProvider interface {
	Sign(email, name string) (string, time.Time, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

// Issued is a freshly minted session token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

type Service interface {
	Issue(identity domain.Identity) (*Issued, error)
	// Validate returns the identity carried by token. Malformed, tampered
	// and expired tokens all report false.
	Validate(token string) (*domain.Identity, bool)
}

type service struct {
	tokens   TokenProvider
	recorder metrics.Recorder
}

func NewService(tokens TokenProvider, recorder metrics.Recorder) Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &service{tokens: tokens, recorder: recorder}
}

func (s *service) Issue(identity domain.Identity) (*Issued, error) {
	tok, exp, err := s.tokens.Sign(identity.Email, identity.Name)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	s.recorder.RecordSessionIssued()
	return &Issued{Token: tok, ExpiresAt: exp, Identity: identity}, nil
}

func (s *service) Validate(token string) (*domain.Identity, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, false
	}
	return &domain.Identity{Email: claims.Email, Name: claims.Name}, true
}
