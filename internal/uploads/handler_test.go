package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photo_portal_backend/internal/adapters/storage"

	"github.com/gin-gonic/gin"
)

type fakeStorage struct {
	err        error
	lastFolder string
	lastType   string
}

func (f *fakeStorage) GenerateUploadURL(_ context.Context, bucket, folder, fileName, contentType string, _ int64) (*storage.PresignedURL, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFolder, f.lastType = folder, contentType
	key := folder + "/" + fileName
	return &storage.PresignedURL{
		URL:       "http://minio.local/" + bucket + "/" + key + "?X-Amz-Signature=abc",
		FileKey:   key,
		ExpiresAt: time.Date(2025, 1, 1, 12, 15, 0, 0, time.UTC),
		Headers:   map[string]string{"Content-Type": contentType},
	}, nil
}

func (f *fakeStorage) PublicURL(bucket, fileKey string) string {
	return "https://cdn.example.com/" + bucket + "/" + fileKey
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func newTestRouter(svc storage.StorageService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, "reference-files", nil, nil).RegisterRoutes(r.Group("/api/v1/public/uploads"))
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/uploads/reference-file", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPresignReferenceFileReturnsUploadAndPublicURL(t *testing.T) {
	svc := &fakeStorage{}
	w := postJSON(newTestRouter(svc), `{"fileName":"noiva.jpg","contentType":"image/jpeg","sizeBytes":1024}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp ReferenceFileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.FileKey != "leads/noiva.jpg" {
		t.Fatalf("unexpected file key %q", resp.FileKey)
	}
	if resp.FileURL != "https://cdn.example.com/reference-files/leads/noiva.jpg" {
		t.Fatalf("unexpected file url %q", resp.FileURL)
	}
	if !strings.Contains(resp.UploadURL, "X-Amz-Signature") {
		t.Fatalf("unexpected upload url %q", resp.UploadURL)
	}
	if resp.UploadHeaders["Content-Type"] != "image/jpeg" {
		t.Fatalf("unexpected upload headers %v", resp.UploadHeaders)
	}
	if resp.ExpiresAt.IsZero() {
		t.Fatal("expected expiry in response")
	}
}

func TestPresignReferenceFileRejectsBadRequests(t *testing.T) {
	r := newTestRouter(&fakeStorage{})

	for _, body := range []string{
		`{`,
		`{"contentType":"image/png","sizeBytes":10}`,
		`{"fileName":"a.png","contentType":"image/png","sizeBytes":0}`,
	} {
		if w := postJSON(r, body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestPresignReferenceFileMapsInvalidFileTo400(t *testing.T) {
	svc := &fakeStorage{err: fmt.Errorf("%w: content type %q is not allowed", storage.ErrInvalidFile, "text/plain")}
	w := postJSON(newTestRouter(svc), `{"fileName":"a.txt","contentType":"text/plain","sizeBytes":10}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), msgInvalidFile) {
		t.Fatalf("expected invalid file message, got %s", w.Body.String())
	}
}

func TestPresignReferenceFileStorageFailureIs500(t *testing.T) {
	svc := &fakeStorage{err: errors.New("minio unreachable")}
	w := postJSON(newTestRouter(svc), `{"fileName":"a.pdf","contentType":"application/pdf","sizeBytes":10}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "minio unreachable") {
		t.Fatal("storage error leaked to the client")
	}
}
