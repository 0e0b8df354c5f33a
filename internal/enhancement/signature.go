package enhancement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier authenticates inbound webhook payloads with a keyed
// HMAC-SHA256 over the exact payload bytes.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Sign returns the hex-encoded HMAC-SHA256 of payload. The provider computes
// the same value and sends it in the X-Webhook-Signature header.
func (v *SignatureVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares the expected signature against the provided one in
// constant time.
func (v *SignatureVerifier) Verify(payload []byte, signature string) bool {
	expected := v.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
