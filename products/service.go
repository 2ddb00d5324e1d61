package products

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// CreateInput holds the attributes of a new listing. Everything except the
// images is required.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// UpdateInput holds a partial update. Nil fields are left untouched; a
// non-nil Images slice replaces the previous set wholesale.
type UpdateInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Images      []string `json:"images"`
}

// Service applies listing rules on top of the repository: required fields
// on creation and seller ownership on mutation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, input CreateInput) (*Product, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" || input.Price <= 0 {
		return nil, ErrMissingFields
	}

	product := &Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Images:      input.Images,
		SellerID:    sellerID,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create product")
	}

	return created, nil
}

func (s *Service) Update(ctx context.Context, sellerID, id uuid.UUID, input UpdateInput) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, ErrNotSeller
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Images != nil {
		product.Images = input.Images
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update product")
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.SellerID != sellerID {
		return ErrNotSeller
	}

	return s.repo.Delete(ctx, id)
}
