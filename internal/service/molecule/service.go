// Package molecule serves committed molecule records.
package molecule

import (
	"context"

	"moleculehub/internal/domain"
)

// Service provides read access to committed molecules.
type Service struct {
	repo domain.MoleculeRepository
}

// NewService creates a new Service.
func NewService(repo domain.MoleculeRepository) *Service {
	return &Service{repo: repo}
}

// List returns a page of molecules, newest first.
func (s *Service) List(ctx context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error) {
	return s.repo.List(ctx, page)
}

// Get returns one molecule by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Molecule, error) {
	if id == "" {
		return nil, domain.ErrValidation("molecule id is required")
	}
	return s.repo.GetByID(ctx, id)
}
