// Package model defines the core domain types for the cabin reservation system.
package model

import "time"

// BookingStatus tracks a booking through its stay lifecycle.
type BookingStatus string

const (
	StatusUnconfirmed BookingStatus = "unconfirmed"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusCheckedIn   BookingStatus = "checked-in"
	StatusCheckedOut  BookingStatus = "checked-out"
)

// Cabin is the read model for a bookable cabin. The rate fields are the
// authoritative source for pricing; clients never supply a price.
type Cabin struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	MaxCapacity  int     `json:"max_capacity"`
	RegularPrice float64 `json:"regular_price"`
	Discount     float64 `json:"discount"`
}

// Booking is a persisted reservation tying a guest to a cabin and date range.
type Booking struct {
	ID           int64         `json:"id"`
	CabinID      int64         `json:"cabin_id"`
	GuestID      int64         `json:"guest_id"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	NumNights    int           `json:"num_nights"`
	NumGuests    int           `json:"num_guests"`
	Observations string        `json:"observations"`
	ExtrasPrice  float64       `json:"extras_price"`
	CabinPrice   float64       `json:"cabin_price"`
	TotalPrice   float64       `json:"total_price"`
	IsPaid       bool          `json:"is_paid"`
	HasBreakfast bool          `json:"has_breakfast"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Guest is the profile record behind an authenticated user.
type Guest struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Nationality string    `json:"nationality"`
	CountryFlag string    `json:"country_flag"`
	NationalID  string    `json:"national_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is the authenticated identity resolved per request by the session
// provider. An absent session means the request is unauthenticated.
type Session struct {
	GuestID int64
}

// DateRange is the stay window selected for an in-progress reservation.
// It is passed explicitly into the create pipeline; there is no shared
// draft state on the server.
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// IsSet reports whether both endpoints have been selected.
func (r DateRange) IsSet() bool {
	return !r.StartDate.IsZero() && !r.EndDate.IsZero()
}

// Valid reports whether the range describes at least one night.
func (r DateRange) Valid() bool {
	return r.IsSet() && r.StartDate.Before(r.EndDate)
}

// CreateReservationRequest is the coerced form payload for creating a booking.
// The date range and cabin ID travel separately as explicit parameters.
type CreateReservationRequest struct {
	NumGuests    int
	Observations string
}

// UpdateReservationRequest is the coerced form payload for editing a booking.
type UpdateReservationRequest struct {
	ReservationID int64
	NumGuests     int
	Observations  string
}

// UpdateProfileRequest carries the raw profile form fields. Nationality holds
// the combined "nationality%countryFlag" value; the pipeline splits it.
type UpdateProfileRequest struct {
	NationalID  string
	Nationality string
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
