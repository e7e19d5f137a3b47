package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openshorts/openshorts/internal/config"
	"github.com/openshorts/openshorts/internal/project"
	"github.com/openshorts/openshorts/internal/types"
)

func newTestServer(t *testing.T) (*Server, *project.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := project.NewStore(t.TempDir())
	return New(config.Default(), store, zap.NewNop().Sugar()), store
}

func do(t *testing.T, router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	w := do(t, srv.Router(), http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
}

func TestCreateProjectAndUpload(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	router := srv.Router()

	w := do(t, router, http.MethodPost, "/api/projects", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ProjectID == "" {
		t.Fatalf("bad create response: %s", w.Body.String())
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "talk.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("fake media")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	w = do(t, router, http.MethodPost, "/api/projects/"+created.ProjectID+"/upload", &buf, mw.FormDataContentType())
	if w.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(filepath.Join(store.InputDir(created.ProjectID), "talk.mp4")); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
}

func TestBoundaryErrors(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	router := srv.Router()

	// Unknown project is rejected before any pipeline work.
	w := do(t, router, http.MethodPost, "/api/projects/ghost/process", bytes.NewBufferString("{}"), "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown project, got %d: %s", w.Code, w.Body.String())
	}

	// A project without media is a 400.
	id, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	w = do(t, router, http.MethodPost, "/api/projects/"+id+"/process", bytes.NewBufferString("{}"), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing input, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/projects/ghost/clips", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 listing unknown project, got %d", w.Code)
	}
}

func TestListClipsReturnsManifest(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	id, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	manifest := []types.ManifestEntry{
		{File: "clip_01.mp4", Start: 0, End: 15, Score: 1.5, Width: 1080, Height: 1920},
	}
	if err := store.SaveManifest(id, manifest); err != nil {
		t.Fatal(err)
	}

	w := do(t, srv.Router(), http.MethodGet, "/api/projects/"+id+"/clips", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d", w.Code)
	}
	var resp struct {
		Clips []types.ManifestEntry `json:"clips"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad list response: %s", w.Body.String())
	}
	if len(resp.Clips) != 1 || resp.Clips[0] != manifest[0] {
		t.Fatalf("manifest mismatch: %+v", resp.Clips)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	w := do(t, srv.Router(), http.MethodGet, "/metrics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "openshorts_pipeline_runs_total") &&
		!strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("metrics output looks empty:\n%s", w.Body.String())
	}
}
