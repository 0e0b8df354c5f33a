package enhancement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"estatedesk-backend/internal/enhancement"
)

func TestSignatureVerifier_RoundTrip(t *testing.T) {
	v := enhancement.NewSignatureVerifier("secret-key")
	payload := []byte(`{"job_id":"abc","status":"success"}`)

	sig := v.Sign(payload)
	assert.Len(t, sig, 64) // hex SHA-256
	assert.True(t, v.Verify(payload, sig))
}

func TestSignatureVerifier_RejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"job_id":"abc","status":"success"}`)
	sig := enhancement.NewSignatureVerifier("secret-a").Sign(payload)

	assert.False(t, enhancement.NewSignatureVerifier("secret-b").Verify(payload, sig))
}

func TestSignatureVerifier_RejectsModifiedPayload(t *testing.T) {
	v := enhancement.NewSignatureVerifier("secret-key")
	sig := v.Sign([]byte(`{"status":"success"}`))

	assert.False(t, v.Verify([]byte(`{"status":"failed"}`), sig))
}

func TestSignatureVerifier_RejectsEmptySignature(t *testing.T) {
	v := enhancement.NewSignatureVerifier("secret-key")
	assert.False(t, v.Verify([]byte("payload"), ""))
}
