package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/varunsharma/ostexplorer/internal/config"
	"github.com/varunsharma/ostexplorer/internal/model"
	"github.com/varunsharma/ostexplorer/internal/testutil"
)

// stubParser returns a fixed email list, or an error.
type stubParser struct {
	emails []model.Email
	err    error

	gotPath string
}

func (p *stubParser) Parse(ctx context.Context, path string) ([]model.Email, error) {
	p.gotPath = path
	if p.err != nil {
		return nil, p.err
	}
	return p.emails, nil
}

func newTestServer(t *testing.T, parser ArchiveParser) *Server {
	t.Helper()
	cfg := &config.Config{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, parser, logger)
}

func doRequest(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) model.EmailList {
	t.Helper()
	var list model.EmailList
	testutil.MustNoErr(t, json.Unmarshal(rec.Body.Bytes(), &list), "decode response")
	return list
}

func multipartUpload(t *testing.T, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	testutil.MustNoErr(t, err, "create form file")
	_, err = part.Write([]byte(content))
	testutil.MustNoErr(t, err, "write form file")
	testutil.MustNoErr(t, mw.Close(), "close multipart writer")
	return &buf, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doRequest(t, s, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRootBanner(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doRequest(t, s, http.MethodGet, "/api/", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "active") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUploadRejectsWrongExtension(t *testing.T) {
	parser := &stubParser{emails: SampleEmails()}
	s := newTestServer(t, parser)

	body, ct := multipartUpload(t, "inbox.pst", "data")
	rec := doRequest(t, s, http.MethodPost, "/api/upload-ost", body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if parser.gotPath != "" {
		t.Error("parser should not run for a rejected file")
	}
}

func TestUploadWithoutParserIs501(t *testing.T) {
	s := newTestServer(t, nil)

	body, ct := multipartUpload(t, "inbox.ost", "data")
	rec := doRequest(t, s, http.MethodPost, "/api/upload-ost", body, ct)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
	var eb ErrorResponse
	testutil.MustNoErr(t, json.Unmarshal(rec.Body.Bytes(), &eb), "decode error")
	if eb.Detail == "" {
		t.Error("501 response should carry a detail message")
	}
}

func TestUploadParsesAndCaches(t *testing.T) {
	parser := &stubParser{emails: SampleEmails()[:3]}
	s := newTestServer(t, parser)

	body, ct := multipartUpload(t, "inbox.ost", "archive bytes")
	rec := doRequest(t, s, http.MethodPost, "/api/upload-ost", body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	list := decodeList(t, rec)
	if !list.Success || list.EmailCount != 3 {
		t.Errorf("got success=%v count=%d, want success with 3", list.Success, list.EmailCount)
	}
	if got := s.getCache(); len(got) != 3 {
		t.Errorf("cache has %d emails, want 3", len(got))
	}
	if parser.gotPath == "" {
		t.Fatal("parser did not run")
	}
	if _, err := os.Stat(parser.gotPath); !os.IsNotExist(err) {
		t.Errorf("spooled upload %s should be removed after parsing", parser.gotPath)
	}
}

func TestUploadEmptyArchiveIs400(t *testing.T) {
	s := newTestServer(t, &stubParser{emails: nil})

	body, ct := multipartUpload(t, "inbox.ost", "data")
	rec := doRequest(t, s, http.MethodPost, "/api/upload-ost", body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No emails found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUploadParserFailureIs500(t *testing.T) {
	s := newTestServer(t, &stubParser{err: errors.New("corrupt node tree")})

	body, ct := multipartUpload(t, "inbox.ost", "data")
	rec := doRequest(t, s, http.MethodPost, "/api/upload-ost", body, ct)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestBrowseMissingFileIs404(t *testing.T) {
	s := newTestServer(t, &stubParser{emails: SampleEmails()})

	payload, _ := json.Marshal(model.FilePathRequest{FilePath: "/no/such/file.ost"})
	rec := doRequest(t, s, http.MethodPost, "/api/browse-file", bytes.NewReader(payload), "application/json")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestBrowseParsesLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.ost")
	testutil.MustNoErr(t, os.WriteFile(path, []byte("archive"), 0o644), "write archive")

	parser := &stubParser{emails: SampleEmails()[:2]}
	s := newTestServer(t, parser)

	payload, _ := json.Marshal(model.FilePathRequest{FilePath: path})
	rec := doRequest(t, s, http.MethodPost, "/api/browse-file", bytes.NewReader(payload), "application/json")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if parser.gotPath != path {
		t.Errorf("parser path = %q, want %q", parser.gotPath, path)
	}
	list := decodeList(t, rec)
	if list.EmailCount != 2 {
		t.Errorf("email_count = %d, want 2", list.EmailCount)
	}
}

func TestSampleDataThenSearch(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/load-sample-data", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load sample: status = %d", rec.Code)
	}
	list := decodeList(t, rec)
	if list.EmailCount != 8 {
		t.Fatalf("sample dataset has %d emails, want 8", list.EmailCount)
	}

	// February 2025 holds three of the sample messages.
	start, end := "2025-02-01T00:00:00Z", "2025-02-28T23:59:59Z"
	payload, _ := json.Marshal(model.SearchRequest{StartDate: &start, EndDate: &end})
	rec = doRequest(t, s, http.MethodPost, "/api/search-emails", bytes.NewReader(payload), "application/json")

	if rec.Code != http.StatusOK {
		t.Fatalf("search: status = %d", rec.Code)
	}
	filtered := decodeList(t, rec)
	if filtered.EmailCount != 3 {
		t.Errorf("email_count = %d, want 3", filtered.EmailCount)
	}
	for _, e := range filtered.Emails {
		if e.Date == nil {
			t.Fatalf("filtered email %q has no date", e.Subject)
		}
	}
}

func TestSearchWithEmptyCacheSucceedsWithNothing(t *testing.T) {
	s := newTestServer(t, nil)

	payload, _ := json.Marshal(model.SearchRequest{})
	rec := doRequest(t, s, http.MethodPost, "/api/search-emails", bytes.NewReader(payload), "application/json")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	list := decodeList(t, rec)
	if !list.Success || list.EmailCount != 0 {
		t.Errorf("got success=%v count=%d, want empty success", list.Success, list.EmailCount)
	}
}

func TestSearchRejectsBadDates(t *testing.T) {
	s := newTestServer(t, nil)
	s.setCache(SampleEmails())

	bad := "not-a-date"
	payload, _ := json.Marshal(model.SearchRequest{StartDate: &bad})
	rec := doRequest(t, s, http.MethodPost, "/api/search-emails", bytes.NewReader(payload), "application/json")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIngestionReplacesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.ost")
	testutil.MustNoErr(t, os.WriteFile(path, []byte("archive"), 0o644), "write archive")

	parser := &stubParser{emails: SampleEmails()[:1]}
	s := newTestServer(t, parser)
	s.setCache(SampleEmails())

	payload, _ := json.Marshal(model.FilePathRequest{FilePath: path})
	rec := doRequest(t, s, http.MethodPost, "/api/browse-file", bytes.NewReader(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := s.getCache(); len(got) != 1 {
		t.Errorf("cache has %d emails after re-ingestion, want 1", len(got))
	}
}
