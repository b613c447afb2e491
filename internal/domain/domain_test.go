package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	assert.Equal(t, Identity{Email: "a@unilinktransportation.com", Name: "a"}, NewIdentity("a@unilinktransportation.com"))
	assert.Equal(t, Identity{Email: "first.last@x.com", Name: "first.last"}, NewIdentity("first.last@x.com"))
	assert.Equal(t, Identity{Email: "nobody", Name: "nobody"}, NewIdentity("nobody"))
}

func TestVerificationCredential_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &VerificationCredential{Email: "a@x.com", Code: "123456", ExpiresAt: now}

	assert.False(t, c.Expired(now), "a code is still valid at its expiry instant")
	assert.False(t, c.Expired(now.Add(-time.Second)))
	assert.True(t, c.Expired(now.Add(time.Nanosecond)))
}
