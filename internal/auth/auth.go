// Package auth implements the redirect-based sign-in and sign-out flow
// against Google OAuth. On first sign-in a guest profile is created for the
// account's email; subsequent sign-ins reuse it.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ssssstella/the-wild-oasis-customer/internal/config"
	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
	"github.com/ssssstella/the-wild-oasis-customer/internal/repository"
	"github.com/ssssstella/the-wild-oasis-customer/internal/session"
)

const (
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	stateCookie = "wild_oasis_oauth_state"
	stateTTL    = 10 * time.Minute

	// Post-auth destinations, fixed by the application flow.
	signedInPath  = "/account"
	signedOutPath = "/"
)

// GuestDirectory is the slice of the guest store sign-in needs.
type GuestDirectory interface {
	GetByEmail(ctx context.Context, email string) (*model.Guest, error)
	Create(ctx context.Context, g *model.Guest) error
}

// Handler serves the sign-in, callback, and sign-out endpoints.
type Handler struct {
	oauth    *oauth2.Config
	guests   GuestDirectory
	sessions *session.RedisStore
	log      *zerolog.Logger
}

// New constructs an auth Handler from the Google OAuth settings.
func New(cfg config.Google, guests GuestDirectory, sessions *session.RedisStore, log *zerolog.Logger) *Handler {
	return &Handler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		guests:   guests,
		sessions: sessions,
		log:      log,
	}
}

// SignIn handles GET /auth/signin: redirect to the identity provider.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/callback: exchange the code, find-or-create the
// guest, mint a session, and land on the account page.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	token, err := h.oauth.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		h.log.Error().Err(err).Msg("oauth code exchange failed")
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	info, err := h.fetchUserinfo(ctx, token)
	if err != nil {
		h.log.Error().Err(err).Msg("userinfo fetch failed")
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	guest, err := h.findOrCreateGuest(ctx, info)
	if err != nil {
		h.log.Error().Err(err).Str("email", info.Email).Msg("guest lookup failed")
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	sessionToken, err := h.sessions.Create(ctx, guest.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("session creation failed")
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}
	session.SetCookie(w, sessionToken, h.sessions.TTL())
	http.Redirect(w, r, signedInPath, http.StatusFound)
}

// SignOut handles POST /auth/signout: destroy the session and land on the
// home page.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), session.TokenFromContext(r.Context())); err != nil {
		h.log.Warn().Err(err).Msg("session destroy failed")
	}
	session.ClearCookie(w)
	http.Redirect(w, r, signedOutPath, http.StatusFound)
}

type userinfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) fetchUserinfo(ctx context.Context, token *oauth2.Token) (*userinfo, error) {
	resp, err := h.oauth.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: unexpected status %d", resp.StatusCode)
	}
	var info userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo: no email in response")
	}
	return &info, nil
}

func (h *Handler) findOrCreateGuest(ctx context.Context, info *userinfo) (*model.Guest, error) {
	guest, err := h.guests.GetByEmail(ctx, info.Email)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	guest = &model.Guest{FullName: info.Name, Email: info.Email}
	if err := h.guests.Create(ctx, guest); err != nil {
		return nil, err
	}
	h.log.Info().Int64("guest_id", guest.ID).Msg("guest created on first sign-in")
	return guest, nil
}
