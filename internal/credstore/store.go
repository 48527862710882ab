// Package credstore persists the access and refresh tokens.  They are the
// only state the client keeps between runs, stored under two fixed key
// names.
package credstore

import (
	"context"
	"errors"
	"fmt"
)

// Fixed key names of the device storage contract.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("credstore: key not found")

// Store is a small key-value persistence contract.  Implementations must be
// safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Pair is the access/refresh token pair.
type Pair struct {
	Access  string
	Refresh string
}

// Empty reports whether neither token is present.
func (p Pair) Empty() bool { return p.Access == "" && p.Refresh == "" }

// LoadPair reads both tokens.  Missing keys yield empty strings rather than
// an error so callers can treat "never logged in" as a normal state.
func LoadPair(ctx context.Context, s Store) (Pair, error) {
	access, err := getOptional(ctx, s, KeyAccessToken)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := getOptional(ctx, s, KeyRefreshToken)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// SavePair writes both tokens.
func SavePair(ctx context.Context, s Store, p Pair) error {
	if err := s.Set(ctx, KeyAccessToken, p.Access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := s.Set(ctx, KeyRefreshToken, p.Refresh); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Clear removes both tokens.
func Clear(ctx context.Context, s Store) error {
	return s.Delete(ctx, KeyAccessToken, KeyRefreshToken)
}

// AccessToken returns the stored access token or "" when absent.
func AccessToken(ctx context.Context, s Store) (string, error) {
	return getOptional(ctx, s, KeyAccessToken)
}

// RefreshToken returns the stored refresh token or "" when absent.
func RefreshToken(ctx context.Context, s Store) (string, error) {
	return getOptional(ctx, s, KeyRefreshToken)
}

func getOptional(ctx context.Context, s Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}
