package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := RandomHex(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNumericCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := NumericCode(6)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code, "zero-padded even for small draws")
	}
}

func TestFingerprintStableForClientValue(t *testing.T) {
	a := Fingerprint("device-1", "ua", "en", "203.0.113.9")
	b := Fingerprint("device-1", "other-ua", "ru", "198.51.100.1")
	assert.Equal(t, a, b, "a client-supplied value alone determines the fingerprint")
	assert.Len(t, a, 64)
}

func TestFingerprintFallbackIsSalted(t *testing.T) {
	a := Fingerprint("", "ua", "en", "203.0.113.9")
	b := Fingerprint("", "ua", "en", "203.0.113.9")
	assert.NotEqual(t, a, b, "the metadata fallback must not be linkable across requests")
}
