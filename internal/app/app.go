// Package app provides application-level wiring and dependency injection
// for the moleculehub server following hexagonal architecture.
package app

import (
	"fmt"
	"log/slog"

	"moleculehub/internal/config"
	"moleculehub/internal/db"
	"moleculehub/internal/db/repository"
	"moleculehub/internal/domain"
	"moleculehub/internal/service/audit"
	"moleculehub/internal/service/importer"
	"moleculehub/internal/service/molecule"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, the property registry and the archive backend.
type Deps struct {
	Cfg      *config.Config
	Pool     *db.Pool
	Registry domain.PropertyRegistry
	Archiver domain.UploadArchiver // nil disables archiving
	Logger   *slog.Logger
}

// Services groups all service pointers that the API handler and router need.
type Services struct {
	Import   *importer.Service
	Molecule *molecule.Service
	Audit    *audit.Service
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Sweeper  *importer.Sweeper
	Cfg      *config.Config
	Logger   *slog.Logger
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if deps.Pool == nil {
		return nil, fmt.Errorf("app: database pool is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("app: property registry is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// === Repositories ===
	sessionRepo := repository.NewImportSessionRepo(deps.Pool.Write)
	moleculeReadRepo := repository.NewMoleculeRepo(deps.Pool.Read)
	auditWriteRepo := repository.NewAuditRepo(deps.Pool.Write)

	// === Services ===
	auditSvc := audit.NewService(auditWriteRepo, logger.With("component", "audit"))
	importSvc := importer.NewService(
		sessionRepo, deps.Registry, deps.Archiver, auditSvc,
		logger,
		importer.Options{
			PreviewRows:   cfg.Import.PreviewRows,
			MaxRows:       cfg.Import.MaxRows,
			SessionTTL:    cfg.Import.SessionTTL,
			ArchivePrefix: cfg.Archive.Prefix,
		},
	)
	moleculeSvc := molecule.NewService(moleculeReadRepo)

	sweeper, err := importer.NewSweeper(importSvc, cfg.Import.SweepSchedule, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Services: Services{
			Import:   importSvc,
			Molecule: moleculeSvc,
			Audit:    auditSvc,
		},
		Sweeper: sweeper,
		Cfg:     cfg,
		Logger:  logger,
	}, nil
}
