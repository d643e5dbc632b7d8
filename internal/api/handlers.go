package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/varunsharma/ostexplorer/internal/daterange"
	"github.com/varunsharma/ostexplorer/internal/model"
	"github.com/varunsharma/ostexplorer/internal/session"
)

// parserUnavailableDetail explains the 501 to users; installing the parser
// is a structural fix, not a transient failure.
const parserUnavailableDetail = "OST parsing is not available on this server. " +
	"Use the sample dataset to try the application, or run a build with the PST parser enabled."

// ErrorResponse represents a service error. Detail duplicates Message for
// compatibility with clients of the original backend.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: message, Detail: message})
}

// writeEmailList writes the standard success envelope.
func writeEmailList(w http.ResponseWriter, message string, emails []model.Email) {
	writeJSON(w, http.StatusOK, model.EmailList{
		Success:    true,
		Message:    message,
		EmailCount: len(emails),
		Emails:     emails,
	})
}

// handleRoot returns a service banner.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "OST Email Search API",
		"status":  "active",
	})
}

// isArchiveFile reports whether name carries the expected archive extension.
func isArchiveFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".ost")
}

// handleUpload accepts a multipart archive upload, parses it, and replaces
// the in-memory set with the result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Multipart form must include a 'file' field")
		return
	}
	defer file.Close()

	if !isArchiveFile(header.Filename) {
		writeError(w, http.StatusBadRequest, "unsupported_file", "Only OST files are supported")
		return
	}
	if s.parser == nil {
		writeError(w, http.StatusNotImplemented, "parser_unavailable", parserUnavailableDetail)
		return
	}

	// Spool the upload to disk; the parser needs random access.
	tmp, err := os.CreateTemp(s.cfg.Data.TempDir, "ostexplorer-upload-*.ost")
	if err != nil {
		s.logger.Error("failed to create temp file", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store uploaded file")
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Error("failed to spool upload", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store uploaded file")
		return
	}

	emails, err := s.parser.Parse(r.Context(), tmpPath)
	if err != nil {
		s.logger.Error("failed to parse uploaded archive", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "parse_error", fmt.Sprintf("Error processing file: %v", err))
		return
	}
	if len(emails) == 0 {
		writeError(w, http.StatusBadRequest, "empty_archive",
			"No emails found in the file. The file may be empty, corrupted, or encrypted.")
		return
	}

	s.setCache(emails)
	writeEmailList(w, fmt.Sprintf("Successfully parsed %d emails from your file", len(emails)), emails)
}

// handleBrowse parses an archive at a path local to the server.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	var req model.FilePathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Request body must be JSON with a file_path field")
		return
	}

	if _, err := os.Stat(req.FilePath); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "File not found at specified path")
		return
	}
	if !isArchiveFile(req.FilePath) {
		writeError(w, http.StatusBadRequest, "unsupported_file", "Only OST files are supported")
		return
	}
	if s.parser == nil {
		writeError(w, http.StatusNotImplemented, "parser_unavailable", parserUnavailableDetail)
		return
	}

	emails, err := s.parser.Parse(r.Context(), req.FilePath)
	if err != nil {
		s.logger.Error("failed to parse archive", "path", req.FilePath, "error", err)
		writeError(w, http.StatusInternalServerError, "parse_error", fmt.Sprintf("Error processing file: %v", err))
		return
	}
	if len(emails) == 0 {
		writeError(w, http.StatusBadRequest, "empty_archive",
			"No emails found in the file. The file may be empty, corrupted, or encrypted.")
		return
	}

	s.setCache(emails)
	writeEmailList(w, fmt.Sprintf("Successfully parsed %d emails from your file", len(emails)), emails)
}

// handleSearch filters the in-memory set by a date range. Each call is
// stateless: it always filters the full cached set. An empty cache is a
// successful zero-result response; clients enforce their own load-first
// precondition.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Request body must be JSON")
		return
	}

	var rng daterange.Range
	if req.StartDate != nil && *req.StartDate != "" {
		t, err := model.ParseDate(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid start_date: %v", err))
			return
		}
		rng.Start = &t
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := model.ParseDate(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid end_date: %v", err))
			return
		}
		rng.End = &t
	}

	cached := s.getCache()
	if len(cached) == 0 {
		writeEmailList(w, "No emails loaded. Please upload or browse an OST file first.", []model.Email{})
		return
	}

	filtered := session.Filter(cached, rng)
	writeEmailList(w, fmt.Sprintf("Found %d emails matching criteria", len(filtered)), filtered)
}

// handleSampleData loads the fixed demonstration dataset.
func (s *Server) handleSampleData(w http.ResponseWriter, r *http.Request) {
	emails := SampleEmails()
	s.setCache(emails)
	writeEmailList(w, fmt.Sprintf("Loaded %d sample emails", len(emails)), emails)
}
