// Package table implements table lifecycle: lazy ensure-on-use, explicit
// creation, and listing.
package table

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
)

// Repository defines the storage contract for table operations.
type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Service handles table lifecycle.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a table service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Ensure makes the table usable: if it does not exist it is created with the
// fixed schema and the placeholder seed cycle. Losing a creation race to a
// concurrent caller is success.
func (s *Service) Ensure(ctx context.Context, name string) error {
	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("ensure table %s: %w", name, err)
	}
	if exists {
		return nil
	}

	if err := s.repo.Create(ctx, name); err != nil {
		if errors.Is(err, domain.ErrTableAlreadyExists) {
			return nil
		}
		return fmt.Errorf("ensure table %s: %w", name, err)
	}

	s.logger.Info("Created table", zap.String("table", name))
	return nil
}

// Create explicitly creates a table. Created reports whether this call made
// it; an existing table is not an error.
func (s *Service) Create(ctx context.Context, name string) (created bool, err error) {
	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("create table %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if err := s.repo.Create(ctx, name); err != nil {
		if errors.Is(err, domain.ErrTableAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("create table %s: %w", name, err)
	}

	s.logger.Info("Created table", zap.String("table", name))
	return true, nil
}

// Exists reports whether the table is present.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("table exists %s: %w", name, err)
	}
	return exists, nil
}

// List returns all registered table names.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}
