package api

import (
	"net/http"

	"moleculehub/internal/domain"
)

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	filter := domain.AuditFilter{Page: page}
	q := r.URL.Query()
	if v := q.Get("principal_name"); v != "" {
		filter.PrincipalName = &v
	}
	if v := q.Get("action"); v != "" {
		filter.Action = &v
	}
	if v := q.Get("session_id"); v != "" {
		filter.SessionID = &v
	}

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]AuditEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryToAPI(e))
	}
	writeJSON(w, http.StatusOK, newPage(out, page, total))
}
