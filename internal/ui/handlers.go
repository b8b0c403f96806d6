package ui

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moleculehub/internal/domain"
)

func pageFromRequest(r *http.Request, defaultPageSize int) domain.PageRequest {
	maxResults := defaultPageSize
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}
	return domain.PageRequest{
		MaxResults: maxResults,
		PageToken:  r.URL.Query().Get("page_token"),
	}
}

func (h *Handler) ImportsList(w http.ResponseWriter, r *http.Request) {
	sessions, total, err := h.imports.ListSessions(r.Context(), pageFromRequest(r, 25))
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	renderHTML(w, http.StatusOK, importsPage(r, domain.PrincipalName(r.Context()), sessions, total))
}

func (h *Handler) ImportsUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderServiceError(w, domain.ErrValidation("choose a file to upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	view, err := h.imports.CreateSession(r.Context(), domain.PrincipalName(r.Context()), header.Filename, data)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	http.Redirect(w, r, "/ui/imports/"+view.Session.ID, http.StatusSeeOther)
}

func (h *Handler) ImportsPreview(w http.ResponseWriter, r *http.Request) {
	h.renderPreview(w, r, chi.URLParam(r, "importID"), http.StatusOK, false)
}

func (h *Handler) renderPreview(w http.ResponseWriter, r *http.Request, id string, status int, refused bool) {
	view, err := h.imports.GetSession(r.Context(), id)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	report, err := h.imports.Validate(r.Context(), id)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	renderHTML(w, status, previewPage(r, domain.PrincipalName(r.Context()), previewData{
		View:     view,
		Report:   report,
		Registry: h.imports.Registry(),
		Refused:  refused,
	}))
}

func (h *Handler) ImportsSetMapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "importID")
	_, err := h.imports.SetMapping(r.Context(), domain.PrincipalName(r.Context()), id,
		r.PostFormValue("source_column"), r.PostFormValue("target_field"))
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	http.Redirect(w, r, "/ui/imports/"+id, http.StatusSeeOther)
}

func (h *Handler) ImportsApplySuggestions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "importID")
	if _, err := h.imports.ApplySuggestions(r.Context(), domain.PrincipalName(r.Context()), id); err != nil {
		h.renderServiceError(w, err)
		return
	}
	http.Redirect(w, r, "/ui/imports/"+id, http.StatusSeeOther)
}

func (h *Handler) ImportsCommit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "importID")
	_, err := h.imports.Commit(r.Context(), domain.PrincipalName(r.Context()), id)
	var invalid *domain.MappingInvalidError
	switch {
	case errors.As(err, &invalid):
		h.renderPreview(w, r, id, http.StatusUnprocessableEntity, true)
	case err != nil:
		h.renderServiceError(w, err)
	default:
		http.Redirect(w, r, "/ui/imports/"+id, http.StatusSeeOther)
	}
}

func (h *Handler) ImportsAbandon(w http.ResponseWriter, r *http.Request) {
	if err := h.imports.Abandon(r.Context(), domain.PrincipalName(r.Context()), chi.URLParam(r, "importID")); err != nil {
		h.renderServiceError(w, err)
		return
	}
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) MoleculesList(w http.ResponseWriter, r *http.Request) {
	mols, total, err := h.molecules.List(r.Context(), pageFromRequest(r, 50))
	if err != nil {
		h.renderServiceError(w, err)
		return
	}
	renderHTML(w, http.StatusOK, moleculesPage(domain.PrincipalName(r.Context()), mols, total))
}
