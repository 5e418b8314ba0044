package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/auth"
	"github.com/magellan-group/report-triage/internal/export"
	"github.com/magellan-group/report-triage/internal/model"
	"github.com/magellan-group/report-triage/internal/store"
)

// pdfMagic is the required file signature for uploads. The extension and
// declared content type are advisory; the magic bytes are not.
var pdfMagic = []byte("%PDF-")

// handleUpload accepts a multipart PDF, stores it, runs extraction, and
// returns the created record.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, apperr.Wrap(err, apperr.KindTooLarge,
			"upload exceeds the 50 MB limit"))
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Wrap(err, apperr.KindValidation,
			"multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, eris.Wrap(err, "server: read upload"))
		return
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		writeError(w, r, apperr.New(apperr.KindValidation,
			"only PDF files are accepted"))
		return
	}

	filename := hdr.Filename
	if filename == "" || !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		writeError(w, r, apperr.New(apperr.KindValidation,
			"filename must end in .pdf"))
		return
	}

	rec, err := s.svc.ProcessUpload(r.Context(), auth.UserID(r.Context()), filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type extractStoredRequest struct {
	StoragePath string `json:"storage_path"`
	Filename    string `json:"filename"`
}

// handleExtractStored re-runs extraction against an already uploaded
// file.
func (s *Server) handleExtractStored(w http.ResponseWriter, r *http.Request) {
	var req extractStoredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Wrap(err, apperr.KindValidation, "invalid JSON body"))
		return
	}
	if req.StoragePath == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "storage_path is required"))
		return
	}
	if req.Filename == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "filename is required"))
		return
	}

	rec, err := s.svc.ProcessStored(r.Context(), auth.UserID(r.Context()), req.StoragePath, req.Filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// filterFromQuery builds a record filter from list query parameters.
func filterFromQuery(r *http.Request) store.RecordFilter {
	q := r.URL.Query()
	f := store.RecordFilter{
		Stage:     q.Get("stage"),
		Country:   q.Get("country"),
		Commodity: q.Get("commodity"),
		Priority:  q.Get("priority"),
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort"),
		SortDesc:  q.Get("order") == "desc",
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		f.Offset = n
	}
	return f
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.records.ListRecords(r.Context(), auth.UserID(r.Context()), filterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []model.ExtractionRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": recs, "count": len(recs)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.GetRecord(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, notFoundStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type updateNotesRequest struct {
	Notes *string `json:"notes"`
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Wrap(err, apperr.KindValidation, "invalid JSON body"))
		return
	}
	if req.Notes == nil {
		writeError(w, r, apperr.New(apperr.KindValidation, "notes is required"))
		return
	}

	rec, err := s.records.UpdateNotes(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), *req.Notes)
	if err != nil {
		writeError(w, r, notFoundStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.records.DeleteRecord(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, notFoundStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport streams the caller's filtered records as CSV or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, apperr.Wrap(err, apperr.KindValidation,
			"format must be csv or xlsx"))
		return
	}

	filter := filterFromQuery(r)
	filter.Limit = 10_000
	recs, err := s.records.ListRecords(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+format.Filename(time.Now())+`"`)
	if err := export.Write(w, format, recs); err != nil {
		// Headers already went out; nothing useful to send.
		zap.L().Error("server: stream export", zap.Error(err))
	}
}

// notFoundStatus turns the store's not-found sentinel into a 404-bearing
// error while leaving classified errors alone.
func notFoundStatus(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Wrap(err, apperr.KindNotFound, "record not found")
	}
	return err
}
