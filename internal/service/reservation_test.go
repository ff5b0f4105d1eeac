package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
	"github.com/ssssstella/the-wild-oasis-customer/internal/repository"
)

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookings) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *mockBookings) ListByGuest(ctx context.Context, guestID int64) ([]model.Booking, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *mockBookings) UpdateStay(ctx context.Context, id int64, numGuests int, observations string) error {
	return m.Called(ctx, id, numGuests, observations).Error(0)
}

func (m *mockBookings) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockGuests struct {
	mock.Mock
}

func (m *mockGuests) UpdateProfile(ctx context.Context, id int64, nationality, countryFlag, nationalID string) error {
	return m.Called(ctx, id, nationality, countryFlag, nationalID).Error(0)
}

type mockCabins struct {
	mock.Mock
}

func (m *mockCabins) GetByID(ctx context.Context, id int64) (*model.Cabin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cabin), args.Error(1)
}

type fakeSessions struct {
	sess *model.Session
}

func (f fakeSessions) Authenticate(ctx context.Context) (*model.Session, error) {
	return f.sess, nil
}

type invalidationRecorder struct {
	paths []string
}

func (r *invalidationRecorder) Invalidate(ctx context.Context, path string) {
	r.paths = append(r.paths, path)
}

type fixture struct {
	bookings *mockBookings
	guests   *mockGuests
	cabins   *mockCabins
	views    *invalidationRecorder
	svc      *ReservationService
}

func newFixture(sess *model.Session) *fixture {
	f := &fixture{
		bookings: new(mockBookings),
		guests:   new(mockGuests),
		cabins:   new(mockCabins),
		views:    &invalidationRecorder{},
	}
	logger := zerolog.New(io.Discard)
	f.svc = NewReservationService(fakeSessions{sess: sess}, f.bookings, f.guests, f.cabins, f.views, &logger)
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testCabin = &model.Cabin{ID: 42, Name: "007", MaxCapacity: 4, RegularPrice: 100, Discount: 10}

func threeNights() model.DateRange {
	return model.DateRange{StartDate: date(2026, 9, 1), EndDate: date(2026, 9, 4)}
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated fails before any store call", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.svc.CreateReservation(ctx, threeNights(), 42, model.CreateReservationRequest{NumGuests: 2})

		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Equal(t, "You must be logged in", err.Error())
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing dates", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})

		_, err := f.svc.CreateReservation(ctx, model.DateRange{}, 42, model.CreateReservationRequest{NumGuests: 2})

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Start by selecting dates", ve.Msg)
	})

	t.Run("zero-night and inverted ranges are rejected", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		sameDay := model.DateRange{StartDate: date(2026, 9, 1), EndDate: date(2026, 9, 1)}
		inverted := model.DateRange{StartDate: date(2026, 9, 4), EndDate: date(2026, 9, 1)}

		for _, stay := range []model.DateRange{sameDay, inverted} {
			_, err := f.svc.CreateReservation(ctx, stay, 42, model.CreateReservationRequest{NumGuests: 2})
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		}
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("price is recomputed from the cabin rate", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.cabins.On("GetByID", ctx, int64(42)).Return(testCabin, nil).Once()

		var created *model.Booking
		f.bookings.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Booking)
		}).Return(nil).Once()

		booking, err := f.svc.CreateReservation(ctx, threeNights(), 42, model.CreateReservationRequest{
			NumGuests:    2,
			Observations: "no pets",
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, 3, booking.NumNights)
		assert.Equal(t, 270.0, booking.CabinPrice) // 3 × (100 − 10)
		assert.Equal(t, 270.0, booking.TotalPrice)
		assert.Equal(t, 0.0, booking.ExtrasPrice)
		assert.Equal(t, model.StatusUnconfirmed, booking.Status)
		assert.False(t, booking.IsPaid)
		assert.False(t, booking.HasBreakfast)
		assert.Equal(t, int64(7), booking.GuestID)
		assert.Equal(t, int64(42), booking.CabinID)
		assert.Equal(t, "no pets", booking.Observations)

		assert.Equal(t, []string{"/cabins/42"}, f.views.paths)
	})

	t.Run("observations are truncated to 1000 characters", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.cabins.On("GetByID", ctx, int64(42)).Return(testCabin, nil).Once()

		var created *model.Booking
		f.bookings.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Booking)
		}).Return(nil).Once()

		_, err := f.svc.CreateReservation(ctx, threeNights(), 42, model.CreateReservationRequest{
			NumGuests:    2,
			Observations: strings.Repeat("x", 1200),
		})

		require.NoError(t, err)
		assert.Len(t, created.Observations, 1000)
	})

	t.Run("num guests outside cabin capacity", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.cabins.On("GetByID", ctx, int64(42)).Return(testCabin, nil).Twice()

		for _, n := range []int{0, 5} {
			_, err := f.svc.CreateReservation(ctx, threeNights(), 42, model.CreateReservationRequest{NumGuests: n})
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		}
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown cabin", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.cabins.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrNotFound).Once()

		_, err := f.svc.CreateReservation(ctx, threeNights(), 99, model.CreateReservationRequest{NumGuests: 2})

		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("store failure surfaces the creation message", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.cabins.On("GetByID", ctx, int64(42)).Return(testCabin, nil).Once()
		f.bookings.On("Create", ctx, mock.Anything).Return(errors.New("boom")).Once()

		_, err := f.svc.CreateReservation(ctx, threeNights(), 42, model.CreateReservationRequest{NumGuests: 2})

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Reservation could not be created", pe.Msg)
		assert.Empty(t, f.views.paths, "no invalidation after a failed insert")
	})
}

func TestUpdateReservation(t *testing.T) {
	ctx := context.Background()
	owned := &model.Booking{ID: 11, CabinID: 42, GuestID: 7, NumGuests: 2}

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(nil)

		err := f.svc.UpdateReservation(ctx, model.UpdateReservationRequest{ReservationID: 11, NumGuests: 2})

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("foreign booking is forbidden without mutation", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		foreign := &model.Booking{ID: 11, CabinID: 42, GuestID: 8}
		f.bookings.On("GetByID", ctx, int64(11)).Return(foreign, nil).Once()

		err := f.svc.UpdateReservation(ctx, model.UpdateReservationRequest{ReservationID: 11, NumGuests: 2})

		var fe *ForbiddenError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "You are not allowed to update this reservation", fe.Msg)
		f.bookings.AssertNotCalled(t, "UpdateStay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing booking gets the same forbidden message", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.bookings.On("GetByID", ctx, int64(999)).Return(nil, repository.ErrNotFound).Once()

		err := f.svc.UpdateReservation(ctx, model.UpdateReservationRequest{ReservationID: 999, NumGuests: 2})

		var fe *ForbiddenError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "You are not allowed to update this reservation", fe.Msg)
	})

	t.Run("success invalidates the list and edit views", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.bookings.On("GetByID", ctx, int64(11)).Return(owned, nil).Once()
		f.cabins.On("GetByID", ctx, int64(42)).Return(testCabin, nil).Once()
		f.bookings.On("UpdateStay", ctx, int64(11), 3, "late arrival").Return(nil).Once()

		err := f.svc.UpdateReservation(ctx, model.UpdateReservationRequest{
			ReservationID: 11,
			NumGuests:     3,
			Observations:  "late arrival",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"/account/reservations", "/account/reservations/edit/11"}, f.views.paths)
		f.bookings.AssertExpectations(t)
	})

	t.Run("store failure surfaces the update message", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.bookings.On("GetByID", ctx, int64(11)).Return(owned, nil).Once()
		f.cabins.On("GetByID", ctx, int64(42)).Return(testCabin, nil).Once()
		f.bookings.On("UpdateStay", ctx, int64(11), 3, "").Return(errors.New("boom")).Once()

		err := f.svc.UpdateReservation(ctx, model.UpdateReservationRequest{ReservationID: 11, NumGuests: 3})

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "The reservation could not be updated", pe.Msg)
		assert.Empty(t, f.views.paths)
	})
}

func TestDeleteReservation(t *testing.T) {
	ctx := context.Background()
	owned := &model.Booking{ID: 11, CabinID: 42, GuestID: 7}

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(nil)

		err := f.svc.DeleteReservation(ctx, 11)

		assert.ErrorIs(t, err, ErrUnauthenticated)
		f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("foreign booking is forbidden without mutation", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		foreign := &model.Booking{ID: 11, CabinID: 42, GuestID: 8}
		f.bookings.On("GetByID", ctx, int64(11)).Return(foreign, nil).Once()

		err := f.svc.DeleteReservation(ctx, 11)

		var fe *ForbiddenError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "You are not allowed to delete this booking", fe.Msg)
		f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("success invalidates the reservations list", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.bookings.On("GetByID", ctx, int64(11)).Return(owned, nil).Once()
		f.bookings.On("Delete", ctx, int64(11)).Return(nil).Once()

		err := f.svc.DeleteReservation(ctx, 11)

		require.NoError(t, err)
		assert.Equal(t, []string{"/account/reservations"}, f.views.paths)
	})

	t.Run("store failure surfaces the deletion message", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.bookings.On("GetByID", ctx, int64(11)).Return(owned, nil).Once()
		f.bookings.On("Delete", ctx, int64(11)).Return(errors.New("boom")).Once()

		err := f.svc.DeleteReservation(ctx, 11)

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Booking could not be deleted", pe.Msg)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(nil)

		err := f.svc.UpdateProfile(ctx, model.UpdateProfileRequest{NationalID: "ABC123", Nationality: "Portugal%🇵🇹"})

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("national ID format", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})

		for _, id := range []string{"ab", "with space", "toolongtoolong", "dash-123", ""} {
			err := f.svc.UpdateProfile(ctx, model.UpdateProfileRequest{NationalID: id, Nationality: "Portugal%🇵🇹"})
			var ve *ValidationError
			require.ErrorAs(t, err, &ve, "nationalID %q should be rejected", id)
			assert.Equal(t, "Please provide a valid national ID", ve.Msg)
		}
		f.guests.AssertNotCalled(t, "UpdateProfile",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("twelve alphanumeric characters pass", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.guests.On("UpdateProfile", ctx, int64(7), "Portugal", "🇵🇹", "ABC123xyz987").Return(nil).Once()

		err := f.svc.UpdateProfile(ctx, model.UpdateProfileRequest{
			NationalID:  "ABC123xyz987",
			Nationality: "Portugal%🇵🇹",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"/account/profile"}, f.views.paths)
		f.guests.AssertExpectations(t)
	})

	t.Run("nationality without separator is rejected", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})

		err := f.svc.UpdateProfile(ctx, model.UpdateProfileRequest{NationalID: "ABC123", Nationality: "Portugal"})

		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("store failure surfaces the profile message", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.guests.On("UpdateProfile", ctx, int64(7), "Portugal", "🇵🇹", "ABC123").
			Return(errors.New("boom")).Once()

		err := f.svc.UpdateProfile(ctx, model.UpdateProfileRequest{NationalID: "ABC123", Nationality: "Portugal%🇵🇹"})

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Guest profile could not be updated", pe.Msg)
	})
}

func TestListReservations(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.svc.ListReservations(ctx)

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("returns the guest's bookings", func(t *testing.T) {
		f := newFixture(&model.Session{GuestID: 7})
		f.bookings.On("ListByGuest", ctx, int64(7)).Return([]model.Booking{{ID: 1}, {ID: 2}}, nil).Once()

		bookings, err := f.svc.ListReservations(ctx)

		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	assert.Equal(t, strings.Repeat("a", 1000), truncate(strings.Repeat("a", 1000)))
	assert.Equal(t, strings.Repeat("a", 1000), truncate(strings.Repeat("a", 1001)))

	// Multi-byte input counts characters, not bytes.
	long := strings.Repeat("é", 1500)
	assert.Equal(t, 1000, len([]rune(truncate(long))))
}
