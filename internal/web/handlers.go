package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"contactcleaner/internal/clean"
	"contactcleaner/internal/ingest"
	"contactcleaner/internal/logging"
	"contactcleaner/internal/session"
	"contactcleaner/internal/table"
)

// DownloadFilename is the fixed name the cleaned CSV is served under.
const DownloadFilename = "cleaned_contacts.csv"

// Shape reports row and column counts.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Preview is a truncated view of a table for display.
type Preview struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	SessionID string  `json:"session_id"`
	Filename  string  `json:"filename"`
	Shape     Shape   `json:"shape"`
	Preview   Preview `json:"preview"`
}

// CleanResponse is returned after a successful cleaning run.
type CleanResponse struct {
	SessionID     string   `json:"session_id"`
	OriginalShape Shape    `json:"original_shape"`
	CleanedShape  Shape    `json:"cleaned_shape"`
	Applied       []string `json:"applied"`
	Preview       Preview  `json:"preview"`
}

func shapeOf(t table.Table) Shape {
	rows, cols := t.Shape()
	return Shape{Rows: rows, Columns: cols}
}

func (s *Server) preview(t table.Table) Preview {
	head := t.Head(s.cfg.Upload.PreviewRows)
	rows := head.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return Preview{Headers: head.Headers, Rows: rows}
}

// handleUpload ingests a multipart CSV upload into a new session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		respondError(w, r, ErrNoFile, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		respondError(w, r, ErrNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, r, ErrNoFile, http.StatusBadRequest)
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, r, ErrWrongType, http.StatusBadRequest)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, ErrInvalidInput, http.StatusBadRequest)
		return
	}

	t := ingest.Decode(raw)
	if t.IsEmpty() {
		respondError(w, r, ErrInvalidInput, http.StatusBadRequest)
		return
	}

	id, err := s.store.Put(t)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	rows, cols := t.Shape()
	logging.FromContext(r.Context()).Info("file uploaded",
		"session_id", id,
		"filename", header.Filename,
		"rows", rows,
		"columns", cols,
	)

	respondJSON(w, UploadResponse{
		SessionID: id,
		Filename:  header.Filename,
		Shape:     shapeOf(t),
		Preview:   s.preview(t),
	})
}

// handleClean runs the cleaning pipeline over a session's uploaded table.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, ErrNoOptions, http.StatusBadRequest)
		return
	}

	id := r.PostFormValue("session_id")
	opts := clean.ParseOptions(r.PostForm["cleaning_options"])
	if len(opts) == 0 {
		respondError(w, r, ErrNoOptions, http.StatusBadRequest)
		return
	}

	t, err := s.store.Get(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	cleaned, err := clean.Clean(t, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if err := s.store.PutCleaned(id, cleaned); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	applied := make([]string, 0, len(opts))
	for _, stage := range opts.Stages() {
		applied = append(applied, string(stage))
	}

	origRows, _ := t.Shape()
	cleanRows, _ := cleaned.Shape()
	logging.FromContext(r.Context()).Info("table cleaned",
		"session_id", id,
		"options", applied,
		"rows_before", origRows,
		"rows_after", cleanRows,
	)

	respondJSON(w, CleanResponse{
		SessionID:     id,
		OriginalShape: shapeOf(t),
		CleanedShape:  shapeOf(cleaned),
		Applied:       applied,
		Preview:       s.preview(cleaned),
	})
}

// handleSession returns the stored upload's preview and shape, so a client
// can re-render without re-uploading.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	t, err := s.store.Get(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	respondJSON(w, UploadResponse{
		SessionID: id,
		Shape:     shapeOf(t),
		Preview:   s.preview(t),
	})
}

// handleDownload serves the cleaned table as a CSV attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	t, err := s.store.GetCleaned(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	if err := t.WriteCSV(w); err != nil {
		logging.FromContext(r.Context()).Error("download write failed",
			"session_id", id,
			"error", err,
		)
	}
}

// handleReset discards a session's stored files.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	if err := s.store.Remove(id); err != nil && !errors.Is(err, session.ErrNotFound) {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statusFor picks the HTTP status for a known internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, clean.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
