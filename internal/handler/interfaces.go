package handler

import (
	"context"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
)

// ReservationActions is the slice of the service layer the handlers call.
type ReservationActions interface {
	CreateReservation(ctx context.Context, stay model.DateRange, cabinID int64, req model.CreateReservationRequest) (*model.Booking, error)
	UpdateReservation(ctx context.Context, req model.UpdateReservationRequest) error
	DeleteReservation(ctx context.Context, bookingID int64) error
	UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) error
	ListReservations(ctx context.Context) ([]model.Booking, error)
}

// CabinReader supplies cabin detail for the reservation form.
type CabinReader interface {
	GetByID(ctx context.Context, id int64) (*model.Cabin, error)
}

// ViewCache serves and stores rendered views for read endpoints.
type ViewCache interface {
	Get(ctx context.Context, path string) ([]byte, bool)
	Set(ctx context.Context, path string, body []byte)
}
