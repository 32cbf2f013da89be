package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives the device-correlation key for a login attempt.
// A client-supplied value wins; otherwise we fold request metadata together
// with fresh randomness, so the fallback is always present but deliberately
// not stable across requests.
func Fingerprint(clientSupplied, userAgent, acceptLanguage, clientIP string) string {
	h := sha256.New()
	if clientSupplied != "" {
		h.Write([]byte(clientSupplied))
		return hex.EncodeToString(h.Sum(nil))
	}
	h.Write([]byte(userAgent))
	h.Write([]byte{0})
	h.Write([]byte(acceptLanguage))
	h.Write([]byte{0})
	h.Write([]byte(clientIP))
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	h.Write(salt)
	return hex.EncodeToString(h.Sum(nil))
}
