// Package payments verifies provider callbacks and hands out hosted checkout links.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Signature"

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is a valid signature of body. An empty secret
// verifies nothing.
func Verify(secret string, body []byte, provided string) bool {
	if secret == "" {
		return false
	}
	cleaned := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(provided)), "sha256=")
	if cleaned == "" {
		return false
	}
	got, err := hex.DecodeString(cleaned)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), got)
}
