package enhancement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookPayload_Valid(t *testing.T) {
	p, err := parseWebhookPayload([]byte(
		`{"job_id":"j1","status":"success","enhanced_image_url":"https://x/e.jpg","processing_time_seconds":12}`))
	require.NoError(t, err)
	assert.Equal(t, "j1", p.JobID)
	assert.Equal(t, "success", p.Status)
	assert.Equal(t, "https://x/e.jpg", p.EnhancedImageURL)
	assert.Equal(t, 12, p.ProcessingTimeSeconds)
}

func TestParseWebhookPayload_FailedWithoutOptionalFields(t *testing.T) {
	p, err := parseWebhookPayload([]byte(`{"job_id":"j1","status":"failed"}`))
	require.NoError(t, err)
	assert.Equal(t, "failed", p.Status)
	assert.Empty(t, p.ErrorMessage)
}

func TestParseWebhookPayload_Rejections(t *testing.T) {
	cases := map[string]string{
		"not json":               `{{`,
		"unknown field":          `{"job_id":"j1","status":"failed","extra":1}`,
		"missing job_id":         `{"status":"failed"}`,
		"missing status":         `{"job_id":"j1"}`,
		"unknown status":         `{"job_id":"j1","status":"done"}`,
		"success without url":    `{"job_id":"j1","status":"success"}`,
		"trailing data":          `{"job_id":"j1","status":"failed"}{}`,
		"wrong job_id type":      `{"job_id":7,"status":"failed"}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseWebhookPayload([]byte(raw))
			assert.Error(t, err)
		})
	}
}
