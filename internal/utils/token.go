package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// jobIdentifierPrefix makes job identifiers recognizable on paper
// documents and in support conversations.
const jobIdentifierPrefix = "JOB-"

// NewJobIdentifier returns a globally unique, human-displayable job
// identifier: the fixed prefix followed by 32 hex characters from 16
// bytes of cryptographically secure randomness.  128 random bits make a
// collision astronomically unlikely, so there is no retry loop; the
// unique index on jobs.job_identifier is the backstop.
func NewJobIdentifier() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return jobIdentifierPrefix + hex.EncodeToString(buf), nil
}

// RandomHex returns n bytes of secure randomness hex encoded, so the
// result is 2n characters long.  Used for generated one-time secrets
// such as placeholder account passwords.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
