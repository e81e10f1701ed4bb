package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/voicenotes/internal/mailer"
	"github.com/thebtf/voicenotes/internal/ocr"
)

const livenessMessage = "Voice Notes App Backend Running"

// Error strings are part of the wire contract.
const (
	errNoFiles       = "No files uploaded"
	errMissingFields = "Missing required fields"
	errTooManyFiles  = "Too many files uploaded"
	errInvalidJSON   = "Invalid JSON body"
)

// uploadFieldName is the multipart field carrying the image batch.
const uploadFieldName = "images"

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type sendEmailResponse struct {
	Success bool `json:"success"`
}

type ocrResponse struct {
	Texts []string `json:"texts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(livenessMessage))
}

// handleOCR accepts a multipart batch of images, recognizes each file
// concurrently and answers with the texts in input order. Staged files
// are removed before the response is written, whatever the outcome.
func (s *Service) handleOCR(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		// No parseable batch is the same user error as an empty one.
		writeError(w, http.StatusBadRequest, errNoFiles)
		return
	}

	files := r.MultipartForm.File[uploadFieldName]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, errNoFiles)
		return
	}
	if len(files) > s.cfg.MaxFiles {
		writeError(w, http.StatusBadRequest, errTooManyFiles)
		return
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := s.stageUpload(fh)
		if err != nil {
			s.removeStaged(paths)
			log.Error().Err(err).Str("file", fh.Filename).Msg("failed to stage upload")
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		paths = append(paths, path)
	}

	texts, err := ocr.Batch(r.Context(), s.engine, paths)
	s.removeStaged(paths)
	if err != nil {
		log.Error().Err(err).Int("files", len(paths)).Msg("recognition failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{Texts: texts})
}

// handleSendEmail validates the three required fields and dispatches one
// message through the configured transport. A single attempt, no retry.
func (s *Service) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSON)
		return
	}
	if req.To == "" || req.Subject == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, errMissingFields)
		return
	}

	msg := mailer.Message{To: req.To, Subject: req.Subject, Body: req.Text}
	if err := s.transport.Send(r.Context(), msg); err != nil {
		log.Error().Err(err).Str("to", req.To).Msg("email delivery failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sendEmailResponse{Success: true})
}

// stageUpload copies one multipart file into the staging directory under
// a fresh name.
func (s *Service) stageUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(s.cfg.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}
	return path, nil
}

// removeStaged is the best-effort cleanup step. Failures are logged and
// never alter the request's result.
func (s *Service) removeStaged(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove staged upload")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
