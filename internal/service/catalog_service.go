package service

import (
	"context"
	"fmt"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type CatalogStore interface {
	listing.Source[domain.CatalogEntry, domain.CatalogFilter]
	Kind() domain.CatalogKind
	Create(ctx context.Context, e *domain.CatalogEntry) error
	Update(ctx context.Context, e *domain.CatalogEntry) error
	GetByID(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	GetBySlug(ctx context.Context, slug string) (*domain.CatalogEntry, error)
	SetStatus(ctx context.Context, id int64, status domain.CatalogStatus) error
}

// CatalogService owns the write path of products and items so the discount is
// recomputed on every create and update.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Kind() domain.CatalogKind {
	return s.store.Kind()
}

// CatalogInput is the writable part of an entry. Nil fields are left as stored on update.
type CatalogInput struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	Stock       *int             `json:"stock"`
	Status      *string          `json:"status"`
	ImageURL    string           `json:"-"`
	Gallery     []string         `json:"-"`
}

func (in CatalogInput) applyTo(e *domain.CatalogEntry) error {
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		e.Slug = Slugify(*in.Slug)
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Category != nil {
		e.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		e.Price = *in.Price
		// a new price without a sale price sells at full price
		if in.SalePrice == nil {
			e.SalePrice = e.Price
		}
	}
	if in.SalePrice != nil {
		e.SalePrice = *in.SalePrice
	}
	if in.Stock != nil {
		e.Stock = *in.Stock
	}
	if in.Status != nil {
		status := domain.CatalogStatus(*in.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, *in.Status)
		}
		e.Status = status
	}
	if in.ImageURL != "" {
		e.ImageURL = in.ImageURL
	}
	if len(in.Gallery) > 0 {
		e.Gallery = in.Gallery
	}

	if e.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if e.Slug == "" {
		e.Slug = Slugify(e.Name)
	}
	if e.Slug == "" {
		return fmt.Errorf("%w: slug cannot be derived from %q, provide one", domain.ErrInvalidArgument, e.Name)
	}
	return e.ApplyPricing()
}

func (s *CatalogService) Create(ctx context.Context, in CatalogInput) (*domain.CatalogEntry, error) {
	e := &domain.CatalogEntry{Kind: s.store.Kind(), Status: domain.CatalogActive}
	if err := in.applyTo(e); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.store.Kind(), err)
	}
	return e, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, in CatalogInput) (*domain.CatalogEntry, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.applyTo(e); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", s.store.Kind(), id, err)
	}
	return e, nil
}

// Get returns an entry by id. Inactive entries are only visible to admins.
func (s *CatalogService) Get(ctx context.Context, id int64, admin bool) (*domain.CatalogEntry, error) {
	e, err := s.store.GetByID(ctx, id)
	return visible(e, err, admin)
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string, admin bool) (*domain.CatalogEntry, error) {
	e, err := s.store.GetBySlug(ctx, slug)
	return visible(e, err, admin)
}

func visible(e *domain.CatalogEntry, err error, admin bool) (*domain.CatalogEntry, error) {
	if err != nil {
		return nil, err
	}
	if !admin && e.Status != domain.CatalogActive {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// Disable hides an entry from the public catalog. Entries are never hard-deleted.
func (s *CatalogService) Disable(ctx context.Context, id int64) error {
	return s.store.SetStatus(ctx, id, domain.CatalogInactive)
}

// List pages through the catalog; public listings only see Active entries.
func (s *CatalogService) List(ctx context.Context, f domain.CatalogFilter, admin bool, page, pageSize int) (*listing.Result[domain.CatalogEntry], error) {
	if !admin {
		f.Status = domain.CatalogActive
	}
	return listing.List[domain.CatalogEntry, domain.CatalogFilter](ctx, s.store, f, page, pageSize)
}

// Slugify transliterates s to lower-case ASCII joined by dashes, so
// "Чай" becomes "chai". Symbol-only input yields "".
func Slugify(s string) string {
	return slug.Make(s)
}
