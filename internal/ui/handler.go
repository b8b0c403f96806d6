// Package ui renders the server-side HTML pages for reviewing and mapping
// uploads.
package ui

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	gomponents "maragu.dev/gomponents"

	"moleculehub/internal/domain"
	"moleculehub/internal/ui/assets"
)

// ImportService is the part of the import workflow the pages drive.
type ImportService interface {
	Registry() domain.PropertyRegistry
	CreateSession(ctx context.Context, principal, filename string, data []byte) (*domain.ImportSessionView, error)
	GetSession(ctx context.Context, id string) (*domain.ImportSessionView, error)
	ListSessions(ctx context.Context, page domain.PageRequest) ([]domain.ImportSession, int64, error)
	SetMapping(ctx context.Context, principal, id, column, target string) (*domain.ImportSessionView, error)
	ApplySuggestions(ctx context.Context, principal, id string) (*domain.ImportSessionView, error)
	Validate(ctx context.Context, id string) (*domain.ValidationReport, error)
	Commit(ctx context.Context, principal, id string) (*domain.ImportResult, error)
	Abandon(ctx context.Context, principal, id string) error
}

// MoleculeService lists committed molecules.
type MoleculeService interface {
	List(ctx context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error)
}

// Handler serves the /ui pages.
type Handler struct {
	imports        ImportService
	molecules      MoleculeService
	production     bool
	maxUploadBytes int64
}

// NewHandler creates a Handler.
func NewHandler(imports ImportService, molecules MoleculeService, production bool, maxUploadBytes int64) *Handler {
	return &Handler{
		imports:        imports,
		molecules:      molecules,
		production:     production,
		maxUploadBytes: maxUploadBytes,
	}
}

// MountRoutes registers the pages on r, which is expected to be mounted at /ui.
func MountRoutes(r chi.Router, h *Handler) {
	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)

		r.Get("/", h.ImportsList)
		r.Post("/imports", h.ImportsUpload)
		r.Get("/imports/{importID}", h.ImportsPreview)
		r.Post("/imports/{importID}/mappings", h.ImportsSetMapping)
		r.Post("/imports/{importID}/suggestions", h.ImportsApplySuggestions)
		r.Post("/imports/{importID}/commit", h.ImportsCommit)
		r.Post("/imports/{importID}/abandon", h.ImportsAbandon)
		r.Get("/molecules", h.MoleculesList)
	})
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func (h *Handler) renderServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while handling this request."

	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var unknownColumn *domain.UnknownColumnError
	var unknownProperty *domain.UnknownPropertyError
	switch {
	case errors.As(err, &notFound):
		status, title, message = http.StatusNotFound, "Not Found", err.Error()
	case errors.As(err, &validation):
		status, title, message = http.StatusBadRequest, "Invalid Upload", err.Error()
	case errors.As(err, &unknownColumn), errors.As(err, &unknownProperty):
		status, title, message = http.StatusBadRequest, "Invalid Mapping", err.Error()
	case errors.As(err, &conflict):
		status, title, message = http.StatusConflict, "Conflict", err.Error()
	}
	renderHTML(w, status, errorPage(title, message))
}
