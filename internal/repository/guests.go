package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
)

// GuestRepository handles persistence for guest profiles.
type GuestRepository struct {
	db *pgxpool.Pool
}

// NewGuestRepository constructs a GuestRepository.
func NewGuestRepository(db *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create inserts a new guest and fills in its store-assigned ID.
func (r *GuestRepository) Create(ctx context.Context, g *model.Guest) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO guests (full_name, email)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		g.FullName, g.Email,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert guest: %w", err)
	}
	return nil
}

// GetByID returns a single guest or ErrNotFound.
func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*model.Guest, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns the guest registered under an email address, or
// ErrNotFound. Used by sign-in to find-or-create the profile.
func (r *GuestRepository) GetByEmail(ctx context.Context, email string) (*model.Guest, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *GuestRepository) get(ctx context.Context, where string, arg any) (*model.Guest, error) {
	var g model.Guest
	err := r.db.QueryRow(ctx,
		`SELECT id, full_name, email, nationality, country_flag, national_id, created_at
		 FROM guests `+where,
		arg,
	).Scan(&g.ID, &g.FullName, &g.Email, &g.Nationality, &g.CountryFlag, &g.NationalID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return &g, nil
}

// UpdateProfile patches the guest-editable profile fields by exact ID.
func (r *GuestRepository) UpdateProfile(ctx context.Context, id int64, nationality, countryFlag, nationalID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE guests SET nationality = $2, country_flag = $3, national_id = $4 WHERE id = $1`,
		id, nationality, countryFlag, nationalID,
	)
	if err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
