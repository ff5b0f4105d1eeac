package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
)

// CabinRepository reads cabin records. Cabins are managed elsewhere; this
// service only ever consults them for rates and capacity.
type CabinRepository struct {
	db *pgxpool.Pool
}

// NewCabinRepository constructs a CabinRepository.
func NewCabinRepository(db *pgxpool.Pool) *CabinRepository {
	return &CabinRepository{db: db}
}

// GetByID returns a single cabin or ErrNotFound.
func (r *CabinRepository) GetByID(ctx context.Context, id int64) (*model.Cabin, error) {
	var c model.Cabin
	err := r.db.QueryRow(ctx,
		`SELECT id, name, max_capacity, regular_price, discount
		 FROM cabins WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.MaxCapacity, &c.RegularPrice, &c.Discount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cabin: %w", err)
	}
	return &c, nil
}
