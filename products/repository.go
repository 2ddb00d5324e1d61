package products

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the persistence surface for listings.
type Repository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, product *Product) (*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BunRepository implements Repository using Bun.
type BunRepository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// List returns all listings, newest first, with the seller projection loaded.
func (r *BunRepository) List(ctx context.Context) ([]*Product, error) {
	var records []*Product
	err := r.db.NewSelect().
		Model(&records).
		Relation("Seller").
		Order("prd.created_at DESC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Product{}, nil
		}
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	record := &Product{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Seller").
		Where("prd.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) Create(ctx context.Context, product *Product) (*Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	now := time.Now()
	product.CreatedAt = &now
	product.UpdatedAt = &now

	_, err := r.db.NewInsert().
		Model(product).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *BunRepository) Update(ctx context.Context, product *Product) (*Product, error) {
	now := time.Now()
	product.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(product).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrProductNotFound
	}

	return product, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrProductNotFound
	}

	return nil
}
