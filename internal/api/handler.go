// Package api provides the HTTP handlers of the molecule import REST API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moleculehub/internal/domain"
	"moleculehub/internal/middleware"
)

// ImportService is the import workflow used by the handler.
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
	ArchiveLocation(session *domain.ImportSession) string
}

// MoleculeService reads committed molecules.
type MoleculeService interface {
	List(ctx context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error)
	Get(ctx context.Context, id string) (*domain.Molecule, error)
}

// AuditService lists audit entries.
type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)
}

// Handler serves the /v1 API.
type Handler struct {
	imports        ImportService
	molecules      MoleculeService
	audit          AuditService
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewHandler creates a Handler. maxUploadBytes <= 0 disables the upload
// size limit.
func NewHandler(imports ImportService, molecules MoleculeService, audit AuditService, logger *slog.Logger, maxUploadBytes int64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		imports:        imports,
		molecules:      molecules,
		audit:          audit,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes registers the API endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/properties", h.listProperties)

	r.Route("/imports", func(r chi.Router) {
		r.Post("/", h.createImport)
		r.Get("/", h.listImports)
		r.Route("/{importID}", func(r chi.Router) {
			r.Get("/", h.getImport)
			r.Delete("/", h.abandonImport)
			r.Put("/mappings", h.setMapping)
			r.Post("/suggestions", h.applySuggestions)
			r.Get("/validation", h.validateImport)
			r.Post("/commit", h.commitImport)
		})
	})

	r.Get("/molecules", h.listMolecules)
	r.Get("/molecules/{moleculeID}", h.getMolecule)

	r.Get("/audit", h.listAudit)
}

func principalFromCtx(ctx context.Context) string {
	return domain.PrincipalName(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()), "error", err)
	}
	writeJSON(w, status, errorBody(status, err))
}

// pageFromQuery extracts a PageRequest from max_results/page_token.
func pageFromQuery(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	p := domain.PageRequest{PageToken: q.Get("page_token")}
	if v := q.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, domain.ErrValidation("max_results must be a non-negative integer")
		}
		p.MaxResults = n
	}
	return p, nil
}
