package enhancement

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	webhookStatusSuccess = "success"
	webhookStatusFailed  = "failed"
)

// WebhookPayload is the completion notification posted by the AI provider.
type WebhookPayload struct {
	JobID                 string `json:"job_id"`
	Status                string `json:"status"`
	EnhancedImageURL      string `json:"enhanced_image_url,omitempty"`
	ProcessingTimeSeconds int    `json:"processing_time_seconds,omitempty"`
	ErrorMessage          string `json:"error_message,omitempty"`
}

// parseWebhookPayload decodes and validates a webhook body. Unknown fields
// are rejected, as are missing required fields, so a malformed delivery never
// reaches state-machine dispatch.
func parseWebhookPayload(raw []byte) (*WebhookPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var p WebhookPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after payload")
	}

	if p.JobID == "" {
		return nil, fmt.Errorf("missing job_id")
	}
	switch p.Status {
	case webhookStatusSuccess:
		if p.EnhancedImageURL == "" {
			return nil, fmt.Errorf("success payload missing enhanced_image_url")
		}
	case webhookStatusFailed:
	default:
		return nil, fmt.Errorf("unknown status %q", p.Status)
	}

	return &p, nil
}
