// Package handler contains chi HTTP handlers that translate form submissions
// and responses to and from the action pipelines.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ssssstella/the-wild-oasis-customer/internal/form"
	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
	"github.com/ssssstella/the-wild-oasis-customer/internal/repository"
	"github.com/ssssstella/the-wild-oasis-customer/internal/service"
)

// Post-action destinations, fixed by the application flow.
const (
	thankYouPath     = "/cabins/thankyou"
	reservationsPath = "/account/reservations"
)

// ReservationHandler holds all HTTP handlers for the reservation API.
type ReservationHandler struct {
	svc    ReservationActions
	cabins CabinReader
	views  ViewCache
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc ReservationActions, cabins CabinReader, views ViewCache) *ReservationHandler {
	return &ReservationHandler{svc: svc, cabins: cabins, views: views}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// writeActionError maps a pipeline failure onto an HTTP status, surfacing the
// user-facing message unchanged.
func writeActionError(w http.ResponseWriter, err error) {
	var (
		fieldErr    *form.FieldError
		validation  *service.ValidationError
		forbidden   *service.ForbiddenError
		persistence *service.PersistenceError
	)
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	case errors.As(err, &forbidden):
		writeError(w, http.StatusForbidden, forbidden.Msg)
	case errors.As(err, &validation):
		writeError(w, http.StatusUnprocessableEntity, validation.Msg)
	case errors.As(err, &fieldErr):
		writeError(w, http.StatusUnprocessableEntity, fieldErr.Error())
	case errors.As(err, &persistence):
		writeError(w, http.StatusBadGateway, persistence.Msg)
	default:
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &form.FieldError{Field: name, Reason: "must be a whole number"}
	}
	return id, nil
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateReservation handles POST /cabins/{cabinID}/reservations.
// On success it redirects to the thank-you page (303), so a refresh cannot
// resubmit the form.
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	cabinID, err := pathID(r, "cabinID")
	if err != nil {
		writeActionError(w, err)
		return
	}

	f, err := form.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := f.Date("startDate")
	if err != nil {
		writeActionError(w, err)
		return
	}
	endDate, err := f.Date("endDate")
	if err != nil {
		writeActionError(w, err)
		return
	}
	numGuests, err := f.Int("numGuests")
	if err != nil {
		writeActionError(w, err)
		return
	}

	stay := model.DateRange{StartDate: startDate, EndDate: endDate}
	req := model.CreateReservationRequest{
		NumGuests:    numGuests,
		Observations: f.Optional("observations"),
	}
	if _, err := h.svc.CreateReservation(r.Context(), stay, cabinID, req); err != nil {
		writeActionError(w, err)
		return
	}

	http.Redirect(w, r, thankYouPath, http.StatusSeeOther)
}

// UpdateReservation handles POST /account/reservations.
// The target booking ID travels as a form field; on success it redirects
// back to the reservations list (303).
func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	f, err := form.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reservationID, err := f.Int64("reservationId")
	if err != nil {
		writeActionError(w, err)
		return
	}
	numGuests, err := f.Int("numGuests")
	if err != nil {
		writeActionError(w, err)
		return
	}

	req := model.UpdateReservationRequest{
		ReservationID: reservationID,
		NumGuests:     numGuests,
		Observations:  f.Optional("observations"),
	}
	if err := h.svc.UpdateReservation(r.Context(), req); err != nil {
		writeActionError(w, err)
		return
	}

	http.Redirect(w, r, reservationsPath, http.StatusSeeOther)
}

// DeleteReservation handles DELETE /account/reservations/{id}.
// No redirect; the caller re-renders in place.
func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeActionError(w, err)
		return
	}
	if err := h.svc.DeleteReservation(r.Context(), id); err != nil {
		writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile handles POST /account/profile.
func (h *ReservationHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	f, err := form.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	nationalID, err := f.String("nationalID")
	if err != nil {
		writeActionError(w, err)
		return
	}
	nationality, err := f.String("nationality")
	if err != nil {
		writeActionError(w, err)
		return
	}

	req := model.UpdateProfileRequest{NationalID: nationalID, Nationality: nationality}
	if err := h.svc.UpdateProfile(r.Context(), req); err != nil {
		writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListReservations handles GET /account/reservations.
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListReservations(r.Context())
	if err != nil {
		writeActionError(w, err)
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetCabin handles GET /cabins/{id}. The response body is served from the
// view cache until a reservation against the cabin invalidates it.
func (h *ReservationHandler) GetCabin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeActionError(w, err)
		return
	}

	path := fmt.Sprintf("/cabins/%d", id)
	if body, ok := h.views.Get(r.Context(), path); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
		return
	}

	cabin, err := h.cabins.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "cabin not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get cabin")
		return
	}

	body, err := json.Marshal(cabin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get cabin")
		return
	}
	h.views.Set(r.Context(), path, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
