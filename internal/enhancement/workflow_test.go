package enhancement_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatedesk-backend/internal/enhancement"
	"estatedesk-backend/internal/models"
)

const testSecret = "test-webhook-secret"

// fakeImageStore mirrors the conditional-update semantics of the SQL
// repository: every Mark* checks the current status under a lock and
// reports false when the guard does not match.
type fakeImageStore struct {
	mu     sync.Mutex
	images map[uuid.UUID]*models.PropertyImage
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{images: make(map[uuid.UUID]*models.PropertyImage)}
}

func (s *fakeImageStore) put(img *models.PropertyImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *img
	s.images[img.ID] = &cp
}

func (s *fakeImageStore) get(id uuid.UUID) models.PropertyImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.images[id]
}

func (s *fakeImageStore) GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[id]
	if !ok {
		return nil, nil
	}
	cp := *img
	return &cp, nil
}

func (s *fakeImageStore) MarkProcessing(ctx context.Context, id uuid.UUID, jobID string, requestedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[id]
	if !ok {
		return false, nil
	}
	if img.EnhancementStatus != models.EnhancementPending && img.EnhancementStatus != models.EnhancementFailed {
		return false, nil
	}
	img.EnhancementStatus = models.EnhancementProcessing
	img.AIJobID = &jobID
	img.EnhancementRequestedAt = &requestedAt
	img.EnhancementCompletedAt = nil
	img.EnhancementErrorMessage = nil
	return true, nil
}

func (s *fakeImageStore) MarkCompleted(ctx context.Context, id uuid.UUID, enhancedURL string, completedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[id]
	if !ok || img.EnhancementStatus != models.EnhancementProcessing {
		return false, nil
	}
	img.EnhancementStatus = models.EnhancementCompleted
	img.EnhancedURL = &enhancedURL
	img.EnhancementCompletedAt = &completedAt
	return true, nil
}

func (s *fakeImageStore) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, completedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[id]
	if !ok || img.EnhancementStatus != models.EnhancementProcessing {
		return false, nil
	}
	img.EnhancementStatus = models.EnhancementFailed
	img.EnhancementErrorMessage = &errorMessage
	img.EnhancementCompletedAt = &completedAt
	return true, nil
}

func (s *fakeImageStore) MarkTimeout(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[id]
	if !ok || img.EnhancementStatus != models.EnhancementProcessing {
		return false, nil
	}
	img.EnhancementStatus = models.EnhancementTimeout
	return true, nil
}

func (s *fakeImageStore) ListStuck(ctx context.Context, cutoff time.Time) ([]models.PropertyImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stuck []models.PropertyImage
	for _, img := range s.images {
		if img.EnhancementStatus == models.EnhancementProcessing &&
			img.EnhancementRequestedAt != nil &&
			img.EnhancementRequestedAt.Before(cutoff) {
			stuck = append(stuck, *img)
		}
	}
	return stuck, nil
}

type fakeObjectStore struct {
	mu          sync.Mutex
	downloads   map[string][]byte
	uploaded    map[string][]byte
	downloadErr error
	uploadErr   error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		downloads: make(map[string][]byte),
		uploaded:  make(map[string][]byte),
	}
}

func (o *fakeObjectStore) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.uploadErr != nil {
		return "", o.uploadErr
	}
	url := "https://storage.example.com/property-images/" + name
	o.uploaded[url] = data
	return url, nil
}

func (o *fakeObjectStore) Download(ctx context.Context, url string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.downloadErr != nil {
		return nil, o.downloadErr
	}
	data, ok := o.downloads[url]
	if !ok {
		return nil, fmt.Errorf("not found: %s", url)
	}
	return data, nil
}

func (o *fakeObjectStore) Delete(ctx context.Context, url string) (bool, error) {
	return true, nil
}

type fakeRequester struct {
	jobID      string
	err        error
	lastJobID  string
	lastURL    string
	webhookURL string
	calls      int
}

func (r *fakeRequester) RequestEnhancement(ctx context.Context, imageURL, jobID, webhookURL string) (string, error) {
	r.calls++
	r.lastURL = imageURL
	r.lastJobID = jobID
	r.webhookURL = webhookURL
	if r.err != nil {
		return "", r.err
	}
	return r.jobID, nil
}

type env struct {
	store     *fakeImageStore
	objects   *fakeObjectStore
	requester *fakeRequester
	verifier  *enhancement.SignatureVerifier
	workflow  *enhancement.Workflow
}

func newEnv() *env {
	store := newFakeImageStore()
	objects := newFakeObjectStore()
	requester := &fakeRequester{jobID: "ai-job-1"}
	verifier := enhancement.NewSignatureVerifier(testSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &env{
		store:     store,
		objects:   objects,
		requester: requester,
		verifier:  verifier,
		workflow:  enhancement.NewWorkflow(store, objects, requester, verifier, logger),
	}
}

func (e *env) addImage(status models.EnhancementStatus) uuid.UUID {
	img := &models.PropertyImage{
		ID:                uuid.New(),
		PropertyID:        uuid.New(),
		OriginalURL:       "https://storage.example.com/property-images/original.jpg",
		EnhancementStatus: status,
	}
	if status == models.EnhancementProcessing {
		now := time.Now()
		img.EnhancementRequestedAt = &now
	}
	e.store.put(img)
	return img.ID
}

func (e *env) signedPayload(t *testing.T, payload any) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body, e.verifier.Sign(body)
}

func TestRequestEnhancement_Pending(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementPending)

	jobID, err := e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "ai-job-1", jobID)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementProcessing, img.EnhancementStatus)
	require.NotNil(t, img.AIJobID)
	assert.Equal(t, "ai-job-1", *img.AIJobID)
	assert.NotNil(t, img.EnhancementRequestedAt)
	assert.Nil(t, img.EnhancementCompletedAt)

	// Correlation token is the record id; callback URL has no double slash.
	assert.Equal(t, id.String(), e.requester.lastJobID)
	assert.Equal(t, "https://api.example.com"+enhancement.WebhookPath, e.requester.webhookURL)
}

func TestRequestEnhancement_RetryAfterFailure(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementFailed)

	_, err := e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com")
	require.NoError(t, err)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementProcessing, img.EnhancementStatus)
	assert.Nil(t, img.EnhancementErrorMessage)
	assert.Nil(t, img.EnhancementCompletedAt)
}

func TestRequestEnhancement_RejectsIneligibleStatus(t *testing.T) {
	for _, status := range []models.EnhancementStatus{
		models.EnhancementProcessing,
		models.EnhancementCompleted,
		models.EnhancementTimeout,
	} {
		t.Run(string(status), func(t *testing.T) {
			e := newEnv()
			id := e.addImage(status)

			_, err := e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com")

			var validationErr *enhancement.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, status, e.store.get(id).EnhancementStatus)
			assert.Zero(t, e.requester.calls)
		})
	}
}

func TestRequestEnhancement_NotFound(t *testing.T) {
	e := newEnv()
	_, err := e.workflow.RequestEnhancement(context.Background(), uuid.New(), "https://api.example.com")
	assert.ErrorIs(t, err, enhancement.ErrNotFound)
}

func TestRequestEnhancement_ProviderFailureLeavesRecordUntouched(t *testing.T) {
	e := newEnv()
	e.requester.err = errors.New("connection refused")
	id := e.addImage(models.EnhancementPending)

	_, err := e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com")

	var upstreamErr *enhancement.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementPending, img.EnhancementStatus)
	assert.Nil(t, img.AIJobID)
	assert.Nil(t, img.EnhancementRequestedAt)
}

func TestRequestEnhancement_EmptyProviderJobIDFallsBackToRecordID(t *testing.T) {
	e := newEnv()
	e.requester.jobID = ""
	id := e.addImage(models.EnhancementPending)

	jobID, err := e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, id.String(), jobID)
}

// contestedStore simulates a concurrent caller flipping the record's status
// between the eligibility read and the processing transition.
type contestedStore struct {
	*fakeImageStore
}

func (s *contestedStore) MarkProcessing(ctx context.Context, id uuid.UUID, jobID string, requestedAt time.Time) (bool, error) {
	return false, nil
}

func TestRequestEnhancement_LostProcessingRace(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementPending)
	e.workflow = enhancement.NewWorkflow(
		&contestedStore{fakeImageStore: e.store},
		e.objects, e.requester, e.verifier,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com")

	// The provider call already happened; the caller gets a rejection and
	// the record is left for the winning transition.
	var validationErr *enhancement.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 1, e.requester.calls)
	assert.Equal(t, models.EnhancementPending, e.store.get(id).EnhancementStatus)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	body, _ := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
		EnhancedImageURL: "https://provider.example.com/enhanced.jpg",
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, "deadbeef")
	assert.ErrorIs(t, err, enhancement.ErrInvalidSignature)
	assert.False(t, applied)
	assert.Equal(t, models.EnhancementProcessing, e.store.get(id).EnhancementStatus)
}

func TestHandleWebhook_TamperedPayload(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "failed",
	})
	tampered := append([]byte{}, body...)
	tampered[len(tampered)-2] = 'X'

	applied, err := e.workflow.HandleWebhook(context.Background(), tampered, sig)
	assert.ErrorIs(t, err, enhancement.ErrInvalidSignature)
	assert.False(t, applied)
}

func TestHandleWebhook_Success(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)
	providerURL := "https://provider.example.com/enhanced.jpg"
	e.objects.downloads[providerURL] = []byte("enhanced-bytes")

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
		EnhancedImageURL:      providerURL,
		ProcessingTimeSeconds: 42,
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.True(t, applied)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementCompleted, img.EnhancementStatus)
	require.NotNil(t, img.EnhancedURL)
	assert.NotNil(t, img.EnhancementCompletedAt)

	// The blob now lives in our own bucket, not the provider's.
	assert.Contains(t, *img.EnhancedURL, "storage.example.com")
	assert.Equal(t, []byte("enhanced-bytes"), e.objects.uploaded[*img.EnhancedURL])
}

func TestHandleWebhook_Failed(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "failed",
		ErrorMessage: "low resolution input",
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.True(t, applied)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementFailed, img.EnhancementStatus)
	require.NotNil(t, img.EnhancementErrorMessage)
	assert.Equal(t, "low resolution input", *img.EnhancementErrorMessage)
	assert.NotNil(t, img.EnhancementCompletedAt)
}

func TestHandleWebhook_FailedWithoutMessageGetsGenericOne(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "failed",
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.True(t, applied)

	img := e.store.get(id)
	require.NotNil(t, img.EnhancementErrorMessage)
	assert.Equal(t, "enhancement failed", *img.EnhancementErrorMessage)
}

func TestHandleWebhook_DuplicateDeliveryIsIdempotent(t *testing.T) {
	for _, status := range []models.EnhancementStatus{
		models.EnhancementCompleted,
		models.EnhancementFailed,
		models.EnhancementTimeout,
	} {
		t.Run(string(status), func(t *testing.T) {
			e := newEnv()
			id := e.addImage(status)
			before := e.store.get(id)

			body, sig := e.signedPayload(t, enhancement.WebhookPayload{
				JobID: id.String(), Status: "failed",
				ErrorMessage: "should not be applied",
			})

			applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
			require.NoError(t, err)
			assert.True(t, applied)
			assert.Equal(t, before, e.store.get(id))
		})
	}
}

func TestHandleWebhook_MalformedJobID(t *testing.T) {
	e := newEnv()

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: "not-a-uuid", Status: "failed",
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestHandleWebhook_UnknownRecord(t *testing.T) {
	e := newEnv()

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: uuid.New().String(), Status: "failed",
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestHandleWebhook_UnknownFieldsRejected(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	body := []byte(fmt.Sprintf(`{"job_id":%q,"status":"failed","surprise":true}`, id))
	sig := e.verifier.Sign(body)

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, models.EnhancementProcessing, e.store.get(id).EnhancementStatus)
}

func TestHandleWebhook_SuccessWithoutURLIsMalformed(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
	})

	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, models.EnhancementProcessing, e.store.get(id).EnhancementStatus)
}

func TestHandleWebhook_DownloadFailureMarksFailed(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)
	e.objects.downloadErr = errors.New("provider storage unavailable")

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
		EnhancedImageURL: "https://provider.example.com/enhanced.jpg",
	})

	_, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementFailed, img.EnhancementStatus)
	require.NotNil(t, img.EnhancementErrorMessage)
	assert.Contains(t, *img.EnhancementErrorMessage, "failed to process enhanced image")
}

func TestHandleWebhook_UploadFailureMarksFailed(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)
	providerURL := "https://provider.example.com/enhanced.jpg"
	e.objects.downloads[providerURL] = []byte("enhanced-bytes")
	e.objects.uploadErr = errors.New("bucket quota exceeded")

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
		EnhancedImageURL: providerURL,
	})

	_, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementFailed, img.EnhancementStatus)
	assert.Nil(t, img.EnhancedURL)
}

func TestHandleWebhook_ConcurrentDuplicateDeliveries(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)
	providerURL := "https://provider.example.com/enhanced.jpg"
	e.objects.downloads[providerURL] = []byte("enhanced-bytes")

	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
		EnhancedImageURL: providerURL,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.workflow.HandleWebhook(context.Background(), body, sig)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementCompleted, img.EnhancementStatus)
	require.NotNil(t, img.EnhancedURL)
}

func TestReEnhancementAfterFailure(t *testing.T) {
	e := newEnv()
	id := e.addImage(models.EnhancementProcessing)

	// First attempt fails via webhook.
	body, sig := e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "failed",
		ErrorMessage: "blurry input",
	})
	_, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	require.Equal(t, models.EnhancementFailed, e.store.get(id).EnhancementStatus)

	// Second request is accepted and clears the old diagnostics.
	_, err = e.workflow.RequestEnhancement(context.Background(), id, "https://api.example.com")
	require.NoError(t, err)

	img := e.store.get(id)
	assert.Equal(t, models.EnhancementProcessing, img.EnhancementStatus)
	assert.Nil(t, img.EnhancementErrorMessage)
	assert.Nil(t, img.EnhancementCompletedAt)

	// And the retried job can still complete.
	providerURL := "https://provider.example.com/enhanced-v2.jpg"
	e.objects.downloads[providerURL] = []byte("v2")
	body, sig = e.signedPayload(t, enhancement.WebhookPayload{
		JobID: id.String(), Status: "success",
		EnhancedImageURL: providerURL,
	})
	applied, err := e.workflow.HandleWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, models.EnhancementCompleted, e.store.get(id).EnhancementStatus)
}
