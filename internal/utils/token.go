package utils // package utils provides helper functions for guest token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// guestTokenLen is the length of the code handed to guests.  Ten
// characters of the alphabet below give ~50 bits of entropy, plenty for
// a rate-limited lookup credential.
const guestTokenLen = 10

// tokenAlphabet avoids characters that are easy to misread over the
// phone (no 0/O, 1/I/L).
const tokenAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewGuestToken returns a cryptographically random guest lookup code.
// The raw code goes to the guest; only its hash is stored.
func NewGuestToken() (string, error) {
	buf := make([]byte, guestTokenLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, guestTokenLen)
	for i, b := range buf {
		code[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(code), nil
}

// HashGuestToken returns the SHA-256 hex digest of a raw guest token.
// Storing only the hash keeps stolen database rows from being usable as
// lookup credentials.
func HashGuestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
