package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external AI image-enhancement service.
type Client struct {
	apiURL        string
	apiKey        string
	webhookSecret string
	httpClient    *http.Client
}

// EnhancementRequest is the request body for starting an enhancement job.
type EnhancementRequest struct {
	ImageURL      string `json:"image_url"`
	JobID         string `json:"job_id"`
	WebhookURL    string `json:"webhook_url"`
	WebhookSecret string `json:"webhook_secret"`
}

// EnhancementResponse is the acknowledgement returned by the service.
type EnhancementResponse struct {
	AIJobID string `json:"ai_job_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewClient(apiURL, apiKey, webhookSecret string) *Client {
	return &Client{
		apiURL:        strings.TrimSuffix(apiURL, "/"),
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RequestEnhancement asks the service to enhance the image at imageURL and
// call webhookURL when done. Returns the provider-assigned job id, which may
// be empty when the provider only echoes our correlation token.
func (c *Client) RequestEnhancement(ctx context.Context, imageURL, jobID, webhookURL string) (string, error) {
	reqBody := EnhancementRequest{
		ImageURL:      imageURL,
		JobID:         jobID,
		WebhookURL:    webhookURL,
		WebhookSecret: c.webhookSecret,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ai service returned status %d, body: %s", resp.StatusCode, string(body))
	}

	var result EnhancementResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return result.AIJobID, nil
}

// RetryingRequester wraps Client with retry on transient request failures.
type RetryingRequester struct {
	Client     *Client
	MaxRetries int
}

func (r *RetryingRequester) RequestEnhancement(ctx context.Context, imageURL, jobID, webhookURL string) (string, error) {
	var result string
	err := r.Client.RetryWithBackoff(func() error {
		id, err := r.Client.RequestEnhancement(ctx, imageURL, jobID, webhookURL)
		if err != nil {
			return err
		}
		result = id
		return nil
	}, r.MaxRetries)
	return result, err
}

// RetryWithBackoff executes fn with exponential backoff retry logic.
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
