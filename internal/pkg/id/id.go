package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, which keeps
// archived uploads in upload order when listed by key prefix.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
