// Package remote provides the HTTP client for the external archive
// parsing/query service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/varunsharma/ostexplorer/internal/daterange"
	"github.com/varunsharma/ostexplorer/internal/model"
	"github.com/varunsharma/ostexplorer/internal/session"
)

// Config holds configuration for creating a client.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Client talks to the parsing service. It implements session.Service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client for the service at cfg.URL.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("service URL is required")
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("service URL must include a host (e.g., http://localhost:8000)")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// UploadArchive streams an archive file to POST /api/upload-ost as a
// multipart body, reporting fractional progress as file bytes are consumed
// by the transfer.
func (c *Client) UploadArchive(ctx context.Context, filename string, r io.Reader, size int64, progress session.ProgressFunc) (*model.EmailList, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := &progressReader{r: r, total: size, report: progress}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-ost", pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// BrowseLocalPath asks the service to parse an archive at a path local to it
// via POST /api/browse-file.
func (c *Client) BrowseLocalPath(ctx context.Context, path string) (*model.EmailList, error) {
	return c.postJSON(ctx, "/api/browse-file", model.FilePathRequest{FilePath: path})
}

// LoadSampleData fetches the fixed demonstration dataset via
// GET /api/load-sample-data.
func (c *Client) LoadSampleData(ctx context.Context) (*model.EmailList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/load-sample-data", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// SearchEmails asks the service to filter its loaded set by the given range
// via POST /api/search-emails. The shipped client filters locally instead
// (see session.Filter); this is provided for completeness of the service
// contract.
func (c *Client) SearchEmails(ctx context.Context, rng daterange.Range) (*model.EmailList, error) {
	body := model.SearchRequest{}
	if rng.Start != nil {
		s := rng.Start.Format(time.RFC3339)
		body.StartDate = &s
	}
	if rng.End != nil {
		e := rng.End.Format(time.RFC3339)
		body.EndDate = &e
	}
	return c.postJSON(ctx, "/api/search-emails", body)
}

// postJSON sends a JSON body and decodes the standard email list response.
func (c *Client) postJSON(ctx context.Context, path string, body any) (*model.EmailList, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// do executes the request and maps the response into the engine's error
// taxonomy: 501 means the parsing capability is missing on the server, any
// other non-2xx or network failure is a transport error.
func (c *Client) do(req *http.Request) (*model.EmailList, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &session.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotImplemented {
		return nil, &session.ServiceUnavailableError{Detail: errorDetail(resp)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &session.TransportError{Status: resp.StatusCode, Detail: errorDetail(resp)}
	}

	var list model.EmailList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &session.TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &list, nil
}

// errorBody matches the error payloads of both this repo's server
// ({error, message}) and the original backend ({detail}).
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorDetail extracts the server-provided message from an error response,
// or returns empty for the caller's generic fallback.
func errorDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			return eb.Detail
		}
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// progressReader reports cumulative read progress as a percentage of total.
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	report session.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.loaded += int64(n)
	if p.report != nil && p.total > 0 {
		pct := int(p.loaded * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		p.report(pct)
	}
	return n, err
}
