// Package session owns the signed-in user.  A Manager is created once by
// the program and handed to every screen that needs to know who is logged
// in; there is no package-level state.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/apiclient"
	"github.com/iliyamo/bus-booking-client/internal/credstore"
	"github.com/iliyamo/bus-booking-client/internal/logging"
	"github.com/iliyamo/bus-booking-client/internal/model"
)

var (
	// ErrLoginRequired gates screens that need a signed-in user.
	ErrLoginRequired = errors.New("Please login to continue")
	// ErrCredentialsRequired is returned before any call when the login
	// form is incomplete.
	ErrCredentialsRequired = errors.New("Please enter email and password")
	// ErrRegistrationIncomplete is the register-form equivalent.
	ErrRegistrationIncomplete = errors.New("Please fill in all fields")
)

// Manager holds at most one user plus a loading flag.  It is mutated only
// by Init, Login, Register, RefreshUser, Logout and the client's
// session-expired hook.
type Manager struct {
	api *apiclient.Client
	log *zap.Logger

	mu      sync.RWMutex
	user    *model.User
	loading bool
}

// NewManager wires a manager to api.  An unrecoverable 401 anywhere in the
// program drops the user.
func NewManager(api *apiclient.Client, log *zap.Logger) *Manager {
	m := &Manager{api: api, log: logging.OrNop(log)}
	api.OnSessionExpired(m.drop)
	return m
}

// Init restores the session from a stored access token.  Every failure
// (no token, expired token, network down) leaves the manager signed out
// without reporting an error.
func (m *Manager) Init(ctx context.Context) {
	m.setLoading(true)
	defer m.setLoading(false)

	token, err := credstore.AccessToken(ctx, m.api.Store())
	if err != nil || token == "" {
		m.log.Debug("no stored session", zap.Error(err))
		return
	}
	u, err := m.fetchMe(ctx)
	if err != nil {
		m.log.Debug("restore session failed", zap.Error(err))
		m.drop()
		return
	}
	m.set(&u)
}

// Login signs in and stores the returned token pair.  Server errors are
// returned untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, ErrCredentialsRequired
	}
	return m.authenticate(ctx, "/auth/login", model.LoginRequest{Email: email, Password: password})
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Phone == "" || req.FullName == "" || req.Password == "" {
		return model.User{}, ErrRegistrationIncomplete
	}
	return m.authenticate(ctx, "/auth/register", req)
}

func (m *Manager) authenticate(ctx context.Context, path string, body any) (model.User, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	var tokens model.AuthTokens
	err := m.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: path, Body: body, Anonymous: true}, &tokens)
	if err != nil {
		return model.User{}, err
	}
	if tokens.AccessToken == "" {
		return model.User{}, fmt.Errorf("%s: response carried no access token", path)
	}
	if err := m.api.SaveTokens(ctx, tokens); err != nil {
		return model.User{}, err
	}
	u := tokens.User
	if u.ID == 0 {
		if u, err = m.fetchMe(ctx); err != nil {
			return model.User{}, err
		}
	}
	m.set(&u)
	m.log.Info("signed in", zap.Uint64("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

// RefreshUser reloads the profile of the signed-in user.
func (m *Manager) RefreshUser(ctx context.Context) (model.User, error) {
	u, err := m.fetchMe(ctx)
	if err != nil {
		return model.User{}, err
	}
	m.set(&u)
	return u, nil
}

// Logout tells the server to revoke the refresh token, then clears the
// tokens and the user whatever the server said.
func (m *Manager) Logout(ctx context.Context) error {
	refresh, err := credstore.RefreshToken(ctx, m.api.Store())
	if err == nil && refresh != "" {
		err := m.api.Do(ctx, apiclient.Request{
			Method:    http.MethodPost,
			Path:      "/auth/logout",
			Body:      model.RefreshRequest{RefreshToken: refresh},
			Anonymous: true,
		}, nil)
		if err != nil {
			m.log.Debug("server logout failed", zap.Error(err))
		}
	}
	m.set(nil)
	return m.api.ClearTokens(ctx)
}

// User returns the signed-in user.
func (m *Manager) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated is derived from the presence of a loaded profile, not
// from the stored tokens.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.User()
	return ok
}

// RequireUser returns ErrLoginRequired when nobody is signed in.
func (m *Manager) RequireUser() (model.User, error) {
	u, ok := m.User()
	if !ok {
		return model.User{}, ErrLoginRequired
	}
	return u, nil
}

// Loading reports whether a sign-in or restore is in progress.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// AccessExpiry decodes the exp claim of the stored access token.  The
// signature is not checked; the server remains the judge of validity.
func (m *Manager) AccessExpiry(ctx context.Context) (time.Time, error) {
	token, err := credstore.AccessToken(ctx, m.api.Store())
	if err != nil {
		return time.Time{}, err
	}
	if token == "" {
		return time.Time{}, ErrLoginRequired
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("decode access token: %w", err)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("access token has no expiry")
	}
	return exp.Time, nil
}

func (m *Manager) fetchMe(ctx context.Context) (model.User, error) {
	var u model.User
	if err := m.api.Get(ctx, "/auth/me", nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (m *Manager) set(u *model.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

func (m *Manager) drop() { m.set(nil) }

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
