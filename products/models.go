package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Product is a marketplace listing owned by the user that created it.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description,notnull" json:"description"`
	Price       float64    `bun:"price,notnull" json:"price"`
	Category    string     `bun:"category,notnull" json:"category"`
	Images      []string   `bun:"images,type:jsonb" json:"images"`
	SellerID    uuid.UUID  `bun:"seller_id,notnull,type:uuid" json:"seller_id"`
	Seller      *Seller    `bun:"rel:belongs-to,join:seller_id=id" json:"seller,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Seller is a read-only projection of the listing owner's account. Listings
// whose owner deleted their account come back with a nil Seller.
type Seller struct {
	bun.BaseModel `bun:"table:users,alias:slr"`

	ID       uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Username string    `bun:"username" json:"username"`
	Email    string    `bun:"email" json:"email"`
}
