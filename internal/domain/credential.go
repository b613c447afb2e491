package domain

import "time"

// VerificationCredential is the pending one-time code for an email address.
// PK: email. ExpiresAt is stored as Unix seconds so DynamoDB can use it as TTL.
type VerificationCredential struct {
	Email     string    `json:"email" dynamodbav:"email"`
	Code      string    `json:"-" dynamodbav:"code"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
}

// Expired reports whether the credential is past its expiry at now.
// A credential expiring exactly at now is still usable.
func (c *VerificationCredential) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}
