package enhancement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"estatedesk-backend/internal/models"
)

// WebhookPath is appended to the configured callback base URL when an
// enhancement is requested.
const WebhookPath = "/api/v1/webhooks/ai-enhancement"

// ObjectStore is the blob storage collaborator.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
	Download(ctx context.Context, url string) ([]byte, error)
	Delete(ctx context.Context, url string) (bool, error)
}

// Requester starts an enhancement job with the external AI provider and
// returns the provider-assigned job identifier.
type Requester interface {
	RequestEnhancement(ctx context.Context, imageURL, jobID, webhookURL string) (string, error)
}

// ImageStore persists enhancement state. Every Mark* call is a single
// conditional update guarded by the expected current status; it returns false
// when the guard did not match, meaning a concurrent caller won the
// transition.
type ImageStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyImage, error)

	// MarkProcessing transitions pending|failed -> processing.
	MarkProcessing(ctx context.Context, id uuid.UUID, jobID string, requestedAt time.Time) (bool, error)
	// MarkCompleted transitions processing -> completed.
	MarkCompleted(ctx context.Context, id uuid.UUID, enhancedURL string, completedAt time.Time) (bool, error)
	// MarkFailed transitions processing -> failed.
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, completedAt time.Time) (bool, error)
	// MarkTimeout transitions processing -> timeout.
	MarkTimeout(ctx context.Context, id uuid.UUID) (bool, error)

	// ListStuck returns records still processing whose request predates cutoff.
	ListStuck(ctx context.Context, cutoff time.Time) ([]models.PropertyImage, error)
}

// Workflow orchestrates the enhancement lifecycle of property images:
// request submission, webhook completion and the failure paths in between.
type Workflow struct {
	store     ImageStore
	objects   ObjectStore
	requester Requester
	verifier  *SignatureVerifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewWorkflow(store ImageStore, objects ObjectStore, requester Requester, verifier *SignatureVerifier, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:     store,
		objects:   objects,
		requester: requester,
		verifier:  verifier,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestEnhancement submits an image to the AI provider. The record must be
// pending or failed; processing, completed and timeout records are rejected.
// On provider failure the record is left untouched.
func (w *Workflow) RequestEnhancement(ctx context.Context, imageID uuid.UUID, callbackBaseURL string) (string, error) {
	img, err := w.store.GetByID(ctx, imageID)
	if err != nil {
		return "", err
	}
	if img == nil {
		return "", ErrNotFound
	}

	switch img.EnhancementStatus {
	case models.EnhancementPending, models.EnhancementFailed:
	default:
		return "", &ValidationError{
			Reason: fmt.Sprintf("image cannot be enhanced, current status: %s", img.EnhancementStatus),
		}
	}

	webhookURL := strings.TrimSuffix(callbackBaseURL, "/") + WebhookPath

	jobID, err := w.requester.RequestEnhancement(ctx, img.OriginalURL, img.ID.String(), webhookURL)
	if err != nil {
		w.logger.Error("enhancement request failed", "image_id", img.ID, "error", err)
		return "", &UpstreamError{Op: "request enhancement", Err: err}
	}
	if jobID == "" {
		// Providers that echo our correlation token back may omit their own id.
		jobID = img.ID.String()
	}

	ok, err := w.store.MarkProcessing(ctx, img.ID, jobID, w.now())
	if err != nil {
		return "", err
	}
	if !ok {
		// The provider job was already submitted; its webhook will find a
		// non-processing record and resolve as an idempotent no-op.
		w.logger.Warn("enhancement request lost status race, provider job orphaned",
			"image_id", img.ID, "ai_job_id", jobID)
		return "", &ValidationError{Reason: "image status changed concurrently"}
	}

	w.logger.Info("enhancement requested", "image_id", img.ID, "ai_job_id", jobID)
	return jobID, nil
}

// HandleWebhook processes a completion notification from the AI provider.
//
// The signature is verified before anything else is read. A payload that
// fails validation or references an unknown record returns (false, nil):
// the delivery is acknowledged so the provider stops retrying, but nothing
// is mutated. Deliveries for records already in a terminal status are
// idempotent no-ops returning (true, nil).
func (w *Workflow) HandleWebhook(ctx context.Context, payload []byte, signature string) (bool, error) {
	if !w.verifier.Verify(payload, signature) {
		w.logger.Warn("webhook signature mismatch")
		return false, ErrInvalidSignature
	}

	p, err := parseWebhookPayload(payload)
	if err != nil {
		w.logger.Warn("malformed webhook payload", "error", err)
		return false, nil
	}

	imageID, err := uuid.Parse(p.JobID)
	if err != nil {
		w.logger.Warn("webhook job_id is not a valid image id", "job_id", p.JobID)
		return false, nil
	}

	img, err := w.store.GetByID(ctx, imageID)
	if err != nil {
		return false, err
	}
	if img == nil {
		w.logger.Warn("webhook for unknown image", "image_id", imageID)
		return false, nil
	}

	if img.EnhancementStatus.Terminal() {
		w.logger.Info("duplicate webhook ignored", "image_id", img.ID, "status", img.EnhancementStatus)
		return true, nil
	}

	switch p.Status {
	case webhookStatusSuccess:
		if err := w.completeSuccess(ctx, img, p); err != nil {
			return false, err
		}
	case webhookStatusFailed:
		msg := p.ErrorMessage
		if msg == "" {
			msg = "enhancement failed"
		}
		ok, err := w.store.MarkFailed(ctx, img.ID, msg, w.now())
		if err != nil {
			return false, err
		}
		if !ok {
			w.logger.Info("failure webhook lost transition race", "image_id", img.ID)
			return true, nil
		}
		w.logger.Warn("enhancement failed", "image_id", img.ID, "error", msg)
	}

	return true, nil
}

// completeSuccess copies the enhanced blob into our own storage namespace so
// the record does not depend on the provider's storage lifetime, then marks
// the record completed. A copy failure marks the record failed instead of
// leaving it processing.
func (w *Workflow) completeSuccess(ctx context.Context, img *models.PropertyImage, p *WebhookPayload) error {
	data, err := w.objects.Download(ctx, p.EnhancedImageURL)
	if err != nil {
		return w.failCopy(ctx, img, fmt.Errorf("download enhanced image: %w", err))
	}

	name := fmt.Sprintf("enhanced_%s.jpg", img.ID)
	enhancedURL, err := w.objects.Upload(ctx, data, name, "image/jpeg")
	if err != nil {
		return w.failCopy(ctx, img, fmt.Errorf("store enhanced image: %w", err))
	}

	ok, err := w.store.MarkCompleted(ctx, img.ID, enhancedURL, w.now())
	if err != nil {
		return err
	}
	if !ok {
		w.logger.Info("success webhook lost transition race", "image_id", img.ID)
		return nil
	}

	w.logger.Info("enhancement completed",
		"image_id", img.ID,
		"processing_time_seconds", p.ProcessingTimeSeconds)
	return nil
}

func (w *Workflow) failCopy(ctx context.Context, img *models.PropertyImage, cause error) error {
	w.logger.Error("enhanced image copy failed", "image_id", img.ID, "error", cause)
	msg := fmt.Sprintf("failed to process enhanced image: %v", cause)
	if _, err := w.store.MarkFailed(ctx, img.ID, msg, w.now()); err != nil {
		return errors.Join(cause, err)
	}
	return nil
}
