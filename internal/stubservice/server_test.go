package stubservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
)

func fixedAnalyzer(name string) Analyzer {
	return AnalyzerFunc(func(_ context.Context, _ string, _ []byte) (api.ExtractedData, api.Feedback, error) {
		rating := api.Rating(7)
		return api.ExtractedData{Name: api.Text(name), CoreSkills: []api.Text{}},
			api.Feedback{Rating: &rating, ImprovementAreas: "Add metrics", UpskillSuggestions: []api.Suggestion{}},
			nil
	})
}

func startServer(t *testing.T, opts ...Option) (*Server, *api.Client) {
	t.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return s, client
}

func writePDF(t *testing.T, name string) *document.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	doc, err := document.Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	return doc
}

func TestRoundTrip(t *testing.T) {
	s, client := startServer(t, WithAnalyzer(fixedAnalyzer("Jane Doe")))
	ctx := context.Background()

	history, err := client.ListHistory(ctx)
	if err != nil {
		t.Fatalf("ListHistory() error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("Expected empty history, got %d", len(history))
	}

	rec, err := client.Submit(ctx, writePDF(t, "jane.pdf"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if rec.ID != "1" {
		t.Errorf("Expected id 1, got %q", rec.ID)
	}
	if _, err := client.Submit(ctx, writePDF(t, "second.pdf")); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if s.Store().Len() != 2 {
		t.Errorf("Expected 2 stored analyses, got %d", s.Store().Len())
	}

	history, err = client.ListHistory(ctx)
	if err != nil {
		t.Fatalf("ListHistory() error: %v", err)
	}
	if len(history) != 2 || history[0].Filename != "second.pdf" || history[1].Filename != "jane.pdf" {
		t.Fatalf("Expected newest first, got %+v", history)
	}

	detail, err := client.FetchDetail(ctx, history[1].ID)
	if err != nil {
		t.Fatalf("FetchDetail() error: %v", err)
	}
	if detail.Name != "Jane Doe" || detail.Filename != "jane.pdf" {
		t.Errorf("Unexpected detail %+v", detail)
	}
}

func TestDetailErrors(t *testing.T) {
	_, client := startServer(t)

	_, err := client.FetchDetail(context.Background(), "99")
	if err == nil || err.Error() != "Resume not found" {
		t.Errorf("Expected 'Resume not found', got %v", err)
	}

	_, err = client.FetchDetail(context.Background(), "abc")
	if err == nil || err.Error() != api.DetailFailedReason {
		t.Errorf("Expected generic detail failure, got %v", err)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	s := New()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile() error: %v", err)
	}
	_, _ = part.Write([]byte("hello"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if payload["detail"] != "Only PDF files are allowed." {
		t.Errorf("Unexpected detail %q", payload["detail"])
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("Expected X-Request-Id response header")
	}
}

func TestUploadMissingFile(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}

func TestUploadUnreadablePDF(t *testing.T) {
	_, client := startServer(t)

	_, err := client.Submit(context.Background(), writePDF(t, "broken.pdf"))
	if err == nil || !strings.HasPrefix(err.Error(), "Error reading PDF:") {
		t.Errorf("Expected PDF read error, got %v", err)
	}
}

func TestUploadAnalysisFailure(t *testing.T) {
	failing := AnalyzerFunc(func(context.Context, string, []byte) (api.ExtractedData, api.Feedback, error) {
		return api.ExtractedData{}, api.Feedback{}, errors.New("model unavailable")
	})
	s, client := startServer(t, WithAnalyzer(failing))

	_, err := client.Submit(context.Background(), writePDF(t, "jane.pdf"))
	if err == nil || err.Error() != "LLM extraction failed: model unavailable" {
		t.Errorf("Expected in-band analysis error, got %v", err)
	}
	if s.Store().Len() != 0 {
		t.Errorf("Expected nothing stored, got %d", s.Store().Len())
	}
}

func TestAnalyzeText(t *testing.T) {
	text := "Jane Doe\njane@example.com\n+1 555 123 4567\nSkills: Go, Docker, Kubernetes, SQL\n"

	extracted, feedback, err := analyzeText(text)
	if err != nil {
		t.Fatalf("analyzeText() error: %v", err)
	}
	if extracted.Name != "Jane Doe" {
		t.Errorf("Expected name Jane Doe, got %q", extracted.Name)
	}
	if extracted.Email != "jane@example.com" {
		t.Errorf("Expected email, got %q", extracted.Email)
	}
	if extracted.Phone == "" {
		t.Error("Expected phone to be found")
	}
	if len(extracted.CoreSkills) != 4 {
		t.Errorf("Expected 4 skills, got %v", extracted.CoreSkills)
	}
	if feedback.Rating == nil || *feedback.Rating != 9 {
		t.Errorf("Expected rating 9, got %v", feedback.Rating)
	}
	if len(feedback.UpskillSuggestions) != 3 {
		t.Errorf("Expected 3 suggestions, got %d", len(feedback.UpskillSuggestions))
	}

	if _, _, err := analyzeText("   "); err == nil {
		t.Error("Expected error for empty text")
	}
}
