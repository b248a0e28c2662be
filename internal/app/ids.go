package app

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// newQRToken returns an opaque 256-bit token. Redemption looks sales up by
// this token only, never by primary key, so it must be unguessable.
func newQRToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// random uuid rather than returning an empty token.
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
