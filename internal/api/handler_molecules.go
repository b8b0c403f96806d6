package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listMolecules(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mols, total, err := h.molecules.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]Molecule, 0, len(mols))
	for _, m := range mols {
		out = append(out, moleculeToAPI(m))
	}
	writeJSON(w, http.StatusOK, newPage(out, page, total))
}

func (h *Handler) getMolecule(w http.ResponseWriter, r *http.Request) {
	m, err := h.molecules.Get(r.Context(), chi.URLParam(r, "moleculeID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moleculeToAPI(*m))
}
