package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
)

type CreateRequest struct {
	Name        string
	Description *string
	PriceCents  int64
	Active      *bool // defaults to true
}

type UpdateRequest struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Active      *bool
}

type Store interface {
	Create(ctx context.Context, p *repo.Product) error
	Get(ctx context.Context, id uuid.UUID) (*repo.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*repo.Product, error)
	Update(ctx context.Context, p *repo.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*repo.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*repo.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*repo.Product, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	store Store

	now   func() time.Time
	newID func() uuid.UUID
}

func New(store Store) Service {
	return &productService{
		store: store,
		now:   time.Now,
		newID: func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

func check(p *repo.Product) error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.PriceCents <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func cleanDescription(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *productService) Create(ctx context.Context, req CreateRequest) (*repo.Product, error) {
	now := s.now().UTC()
	p := &repo.Product{
		ID:          s.newID(),
		Name:        strings.TrimSpace(req.Name),
		Description: cleanDescription(req.Description),
		PriceCents:  req.PriceCents,
		Active:      req.Active == nil || *req.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := check(p); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*repo.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, activeOnly bool) ([]*repo.Product, error) {
	ps, err := s.store.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ps, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = cleanDescription(req.Description)
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := check(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, p); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
