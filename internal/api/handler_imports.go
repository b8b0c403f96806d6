package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"moleculehub/internal/domain"
)

// === Properties ===

func (h *Handler) listProperties(w http.ResponseWriter, _ *http.Request) {
	defs := h.imports.Registry().Properties()
	out := make([]PropertyDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, propertyToAPI(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// === Imports ===

func (h *Handler) createImport(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.imports.CreateSession(r.Context(), principalFromCtx(r.Context()), filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.sessionToAPI(view))
}

// readUpload accepts either a multipart form with a "file" part or a raw
// CSV/TSV body named by the "filename" query parameter.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	body := r.Body
	if h.maxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", nil, err
		}
		return r.URL.Query().Get("filename"), data, nil
	}

	r.Body = body
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, err
		}
		return "", nil, domain.ErrValidation("invalid multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, domain.ErrValidation("multipart form must contain a \"file\" part")
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

func (h *Handler) listImports(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sessions, total, err := h.imports.ListSessions(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]ImportSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, summaryToAPI(&sessions[i]))
	}
	writeJSON(w, http.StatusOK, newPage(out, page, total))
}

func (h *Handler) getImport(w http.ResponseWriter, r *http.Request) {
	view, err := h.imports.GetSession(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionToAPI(view))
}

func (h *Handler) setMapping(w http.ResponseWriter, r *http.Request) {
	var req SetMappingRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.SourceColumn) == "" {
		h.writeError(w, r, domain.ErrValidation("source_column is required"))
		return
	}

	view, err := h.imports.SetMapping(r.Context(), principalFromCtx(r.Context()),
		chi.URLParam(r, "importID"), req.SourceColumn, req.TargetField)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionToAPI(view))
}

func (h *Handler) applySuggestions(w http.ResponseWriter, r *http.Request) {
	view, err := h.imports.ApplySuggestions(r.Context(), principalFromCtx(r.Context()), chi.URLParam(r, "importID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionToAPI(view))
}

func (h *Handler) validateImport(w http.ResponseWriter, r *http.Request) {
	report, err := h.imports.Validate(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidationReport{
		ValidationResult: validationToAPI(report.Result),
		RowsTotal:        report.RowsTotal,
		RowIssues:        rowIssuesToAPI(report.RowIssues),
	})
}

func (h *Handler) commitImport(w http.ResponseWriter, r *http.Request) {
	result, err := h.imports.Commit(r.Context(), principalFromCtx(r.Context()), chi.URLParam(r, "importID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultToAPI(result))
}

func (h *Handler) abandonImport(w http.ResponseWriter, r *http.Request) {
	if err := h.imports.Abandon(r.Context(), principalFromCtx(r.Context()), chi.URLParam(r, "importID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionToAPI(view *domain.ImportSessionView) ImportSession {
	rows := make([]map[string]string, 0, len(view.SampleRows))
	for _, row := range view.SampleRows {
		rows = append(rows, map[string]string(row))
	}
	return ImportSession{
		ImportSummary:   summaryToAPI(view.Session),
		SampleRows:      rows,
		Mappings:        mappingsToAPI(view.Session.Mappings),
		Suggestions:     mappingsToAPI(view.Session.Suggestions),
		Validation:      validationToAPI(view.Validation),
		ArchiveLocation: h.imports.ArchiveLocation(view.Session),
	}
}
