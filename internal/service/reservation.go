// Package service implements the reservation action pipelines: the ordered
// authenticate → validate → authorize → mutate → invalidate sequence behind
// each guest-facing action. Every pipeline is terminal on its first failure;
// nothing after a failed step runs.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ssssstella/the-wild-oasis-customer/internal/metrics"
	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
	"github.com/ssssstella/the-wild-oasis-customer/internal/pricing"
	"github.com/ssssstella/the-wild-oasis-customer/internal/repository"
	"github.com/ssssstella/the-wild-oasis-customer/internal/session"
)

// maxObservations caps the free-text field; longer input is truncated, not
// rejected.
const maxObservations = 1000

var nationalIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{6,12}$`)

// BookingStore is the slice of the booking table this service mutates.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByGuest(ctx context.Context, guestID int64) ([]model.Booking, error)
	UpdateStay(ctx context.Context, id int64, numGuests int, observations string) error
	Delete(ctx context.Context, id int64) error
}

// GuestStore is the slice of the guest table this service mutates.
type GuestStore interface {
	UpdateProfile(ctx context.Context, id int64, nationality, countryFlag, nationalID string) error
}

// CabinStore supplies the authoritative cabin rate and capacity.
type CabinStore interface {
	GetByID(ctx context.Context, id int64) (*model.Cabin, error)
}

// ViewInvalidator declares a cached view stale. Fire-and-forget.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, path string)
}

// ReservationService orchestrates the reservation and profile actions.
type ReservationService struct {
	sessions session.Provider
	bookings BookingStore
	guests   GuestStore
	cabins   CabinStore
	views    ViewInvalidator
	log      *zerolog.Logger
}

// NewReservationService constructs a ReservationService with its dependencies.
func NewReservationService(
	sessions session.Provider,
	bookings BookingStore,
	guests GuestStore,
	cabins CabinStore,
	views ViewInvalidator,
	log *zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		sessions: sessions,
		bookings: bookings,
		guests:   guests,
		cabins:   cabins,
		views:    views,
		log:      log,
	}
}

// CreateReservation books a stay in a cabin for the signed-in guest. The date
// range arrives as an explicit parameter; the price is always recomputed here
// from the cabin's current rate, never taken from the client.
func (s *ReservationService) CreateReservation(
	ctx context.Context,
	stay model.DateRange,
	cabinID int64,
	req model.CreateReservationRequest,
) (*model.Booking, error) {
	sess, err := s.authenticate(ctx)
	if err != nil {
		return nil, s.fail("create_reservation", err)
	}

	if !stay.IsSet() {
		return nil, s.fail("create_reservation", &ValidationError{Msg: "Start by selecting dates"})
	}
	if !stay.Valid() {
		return nil, s.fail("create_reservation", &ValidationError{Msg: "The end date must be after the start date"})
	}

	cabin, err := s.cabins.GetByID(ctx, cabinID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.fail("create_reservation", &ValidationError{Msg: "This cabin does not exist"})
		}
		return nil, s.fail("create_reservation", &PersistenceError{Msg: "Reservation could not be created", Err: err})
	}

	if err := validateNumGuests(req.NumGuests, cabin.MaxCapacity); err != nil {
		return nil, s.fail("create_reservation", err)
	}

	quote := pricing.QuoteStay(cabin, stay)
	booking := &model.Booking{
		CabinID:      cabin.ID,
		GuestID:      sess.GuestID,
		StartDate:    stay.StartDate,
		EndDate:      stay.EndDate,
		NumNights:    quote.NumNights,
		NumGuests:    req.NumGuests,
		Observations: truncate(req.Observations),
		ExtrasPrice:  0,
		CabinPrice:   quote.CabinPrice,
		TotalPrice:   quote.CabinPrice,
		IsPaid:       false,
		HasBreakfast: false,
		Status:       model.StatusUnconfirmed,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, s.fail("create_reservation", &PersistenceError{Msg: "Reservation could not be created", Err: err})
	}

	s.views.Invalidate(ctx, fmt.Sprintf("/cabins/%d", cabin.ID))
	metrics.IncReservationCreated()
	s.log.Info().
		Int64("booking_id", booking.ID).
		Int64("cabin_id", cabin.ID).
		Int64("guest_id", sess.GuestID).
		Int("num_nights", booking.NumNights).
		Float64("total_price", booking.TotalPrice).
		Msg("reservation created")
	return booking, nil
}

// UpdateReservation patches the guest-editable fields of a booking the
// signed-in guest owns.
func (s *ReservationService) UpdateReservation(ctx context.Context, req model.UpdateReservationRequest) error {
	sess, err := s.authenticate(ctx)
	if err != nil {
		return s.fail("update_reservation", err)
	}

	booking, err := s.authorize(ctx, sess, req.ReservationID,
		"You are not allowed to update this reservation",
		"The reservation could not be updated")
	if err != nil {
		return s.fail("update_reservation", err)
	}

	cabin, err := s.cabins.GetByID(ctx, booking.CabinID)
	if err != nil {
		return s.fail("update_reservation", &PersistenceError{Msg: "The reservation could not be updated", Err: err})
	}
	if err := validateNumGuests(req.NumGuests, cabin.MaxCapacity); err != nil {
		return s.fail("update_reservation", err)
	}

	if err := s.bookings.UpdateStay(ctx, booking.ID, req.NumGuests, truncate(req.Observations)); err != nil {
		return s.fail("update_reservation", &PersistenceError{Msg: "The reservation could not be updated", Err: err})
	}

	s.views.Invalidate(ctx, "/account/reservations")
	s.views.Invalidate(ctx, fmt.Sprintf("/account/reservations/edit/%d", booking.ID))
	metrics.IncReservationUpdated()
	s.log.Info().Int64("booking_id", booking.ID).Int64("guest_id", sess.GuestID).Msg("reservation updated")
	return nil
}

// DeleteReservation removes a booking the signed-in guest owns.
func (s *ReservationService) DeleteReservation(ctx context.Context, bookingID int64) error {
	sess, err := s.authenticate(ctx)
	if err != nil {
		return s.fail("delete_reservation", err)
	}

	booking, err := s.authorize(ctx, sess, bookingID,
		"You are not allowed to delete this booking",
		"Booking could not be deleted")
	if err != nil {
		return s.fail("delete_reservation", err)
	}

	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return s.fail("delete_reservation", &PersistenceError{Msg: "Booking could not be deleted", Err: err})
	}

	s.views.Invalidate(ctx, "/account/reservations")
	metrics.IncReservationDeleted()
	s.log.Info().Int64("booking_id", booking.ID).Int64("guest_id", sess.GuestID).Msg("reservation deleted")
	return nil
}

// UpdateProfile patches the signed-in guest's own profile record.
func (s *ReservationService) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) error {
	sess, err := s.authenticate(ctx)
	if err != nil {
		return s.fail("update_profile", err)
	}

	if !nationalIDPattern.MatchString(req.NationalID) {
		return s.fail("update_profile", &ValidationError{Msg: "Please provide a valid national ID"})
	}

	// The nationality select encodes "name%flag" in a single field.
	nationality, countryFlag, found := strings.Cut(req.Nationality, "%")
	if !found || nationality == "" {
		return s.fail("update_profile", &ValidationError{Msg: "Please provide a valid nationality"})
	}

	if err := s.guests.UpdateProfile(ctx, sess.GuestID, nationality, countryFlag, req.NationalID); err != nil {
		return s.fail("update_profile", &PersistenceError{Msg: "Guest profile could not be updated", Err: err})
	}

	s.views.Invalidate(ctx, "/account/profile")
	metrics.IncProfileUpdated()
	s.log.Info().Int64("guest_id", sess.GuestID).Msg("guest profile updated")
	return nil
}

// ListReservations returns the signed-in guest's bookings, most recent stay
// first.
func (s *ReservationService) ListReservations(ctx context.Context) ([]model.Booking, error) {
	sess, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByGuest(ctx, sess.GuestID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return bookings, nil
}

// authenticate resolves the current session or fails the pipeline.
func (s *ReservationService) authenticate(ctx context.Context) (*model.Session, error) {
	sess, err := s.sessions.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	return sess, nil
}

// authorize fetches a booking by ID and checks the session owns it. A missing
// booking gets the same forbidden message as a foreign one, so the response
// does not reveal which IDs exist.
func (s *ReservationService) authorize(
	ctx context.Context,
	sess *model.Session,
	bookingID int64,
	forbiddenMsg, storeMsg string,
) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ForbiddenError{Msg: forbiddenMsg}
		}
		return nil, &PersistenceError{Msg: storeMsg, Err: err}
	}
	if booking.GuestID != sess.GuestID {
		return nil, &ForbiddenError{Msg: forbiddenMsg}
	}
	return booking, nil
}

func (s *ReservationService) fail(action string, err error) error {
	metrics.IncActionFailed(action, failureReason(err))
	s.log.Warn().Err(err).Str("action", action).Msg("action failed")
	return err
}

func validateNumGuests(n, maxCapacity int) error {
	if n < 1 || n > maxCapacity {
		return &ValidationError{Msg: fmt.Sprintf("Number of guests must be between 1 and %d", maxCapacity)}
	}
	return nil
}

// truncate keeps the first maxObservations characters of the free-text field.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxObservations {
		return s
	}
	return string(runes[:maxObservations])
}
