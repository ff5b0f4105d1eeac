package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
)

const bookingColumns = `id, cabin_id, guest_id, start_date, end_date, num_nights,
	 num_guests, observations, extras_price, cabin_price, total_price,
	 is_paid, has_breakfast, status, created_at`

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking and fills in its store-assigned ID and
// creation time.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO bookings (cabin_id, guest_id, start_date, end_date, num_nights,
		   num_guests, observations, extras_price, cabin_price, total_price,
		   is_paid, has_breakfast, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at`,
		b.CabinID, b.GuestID, b.StartDate, b.EndDate, b.NumNights,
		b.NumGuests, b.Observations, b.ExtrasPrice, b.CabinPrice, b.TotalPrice,
		b.IsPaid, b.HasBreakfast, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		id,
	).Scan(
		&b.ID, &b.CabinID, &b.GuestID, &b.StartDate, &b.EndDate, &b.NumNights,
		&b.NumGuests, &b.Observations, &b.ExtrasPrice, &b.CabinPrice, &b.TotalPrice,
		&b.IsPaid, &b.HasBreakfast, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// ListByGuest returns all bookings owned by a guest, most recent stay first.
func (r *BookingRepository) ListByGuest(ctx context.Context, guestID int64) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE guest_id = $1
		 ORDER BY start_date DESC`,
		guestID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.CabinID, &b.GuestID, &b.StartDate, &b.EndDate, &b.NumNights,
			&b.NumGuests, &b.Observations, &b.ExtrasPrice, &b.CabinPrice, &b.TotalPrice,
			&b.IsPaid, &b.HasBreakfast, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStay patches the guest-editable fields of a booking by exact ID.
func (r *BookingRepository) UpdateStay(ctx context.Context, id int64, numGuests int, observations string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET num_guests = $2, observations = $3 WHERE id = $1`,
		id, numGuests, observations,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a booking by exact ID.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}
