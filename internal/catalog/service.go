package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes crop catalog reads plus the quantity adjustments the
// checkout path needs.
type Service interface {
	List(ctx context.Context, params ListParams) ([]Crop, error)
	Search(ctx context.Context, query string) ([]Crop, error)
	Get(ctx context.Context, id uuid.UUID) (*Crop, error)
	Reserve(ctx context.Context, id uuid.UUID, qty int) error
	Release(ctx context.Context, id uuid.UUID, qty int) error
}

// ListParams filters catalog listings.
type ListParams struct {
	Category string
}

type service struct {
	repo Repository
}

// NewService builds a catalog service over the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]Crop, error) {
	var category *enums.CropCategory
	if raw := strings.TrimSpace(params.Category); raw != "" {
		parsed, err := enums.ParseCropCategory(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		category = &parsed
	}
	crops, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list crops")
	}
	return crops, nil
}

func (s *service) Search(ctx context.Context, query string) ([]Crop, error) {
	crops, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search crops")
	}
	return crops, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Crop, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop id is required")
	}
	crop, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCropNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crop")
	}
	return crop, nil
}

func (s *service) Reserve(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if err := s.repo.Reserve(ctx, id, qty); err != nil {
		switch {
		case errors.Is(err, ErrCropNotFound):
			return pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
		case errors.Is(err, ErrInsufficientStock):
			return pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve crop quantity")
		}
	}
	return nil
}

func (s *service) Release(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release quantity must be positive")
	}
	if err := s.repo.Release(ctx, id, qty); err != nil {
		if errors.Is(err, ErrCropNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "release crop quantity")
	}
	return nil
}
