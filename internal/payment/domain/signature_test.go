package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureRoundTrip(t *testing.T) {
	sig := Sign("topsecret", "ext_1", "pay_1")
	assert.NotEmpty(t, sig)
	assert.True(t, VerifySignature("topsecret", "ext_1", "pay_1", sig))
}

func TestSignatureRejectsTampering(t *testing.T) {
	sig := Sign("topsecret", "ext_1", "pay_1")

	assert.False(t, VerifySignature("topsecret", "ext_1", "pay_2", sig))
	assert.False(t, VerifySignature("topsecret", "ext_2", "pay_1", sig))
	assert.False(t, VerifySignature("othersecret", "ext_1", "pay_1", sig))
	assert.False(t, VerifySignature("topsecret", "ext_1", "pay_1", sig+"00"))
	assert.False(t, VerifySignature("topsecret", "ext_1", "pay_1", ""))
}

func TestSignatureCoversSeparator(t *testing.T) {
	// "a|bc" and "ab|c" must not collide.
	assert.NotEqual(t, Sign("s", "a", "bc"), Sign("s", "ab", "c"))
}
