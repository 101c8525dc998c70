package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks that signatureHeader is the hex-encoded HMAC-SHA256
// of payload under secret. It returns false for any malformed input; it never
// panics or errors. Callers must reject the request before parsing the
// payload when this returns false.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	signatureHeader = strings.TrimSpace(signatureHeader)
	if signatureHeader == "" || strings.TrimSpace(secret) == "" {
		return false
	}

	candidate, err := hex.DecodeString(signatureHeader)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	expected := mac.Sum(nil)

	return hmac.Equal(candidate, expected)
}
