package model

import (
	"crypto/rand"
	"encoding/base64"
)

// generateSecureToken creates a secure random 256-bit token string
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
