package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the gateway callback digest: HMAC-SHA256 over
// "externalOrderID|externalPaymentID", hex encoded.
func Sign(secret, externalOrderID, externalPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(externalOrderID + "|" + externalPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a claimed callback signature in constant time.
func VerifySignature(secret, externalOrderID, externalPaymentID, signature string) bool {
	expected := Sign(secret, externalOrderID, externalPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
