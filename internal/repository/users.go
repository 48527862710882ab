package repository

import (
	"strings"
	"time"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/utils"
)

// User is a stored account.
type User struct {
	model.User
	PasswordHash string
}

type refreshRow struct {
	UserID    uint64
	ExpiresAt time.Time
	Revoked   bool
}

// CreateUser registers an account with an empty wallet.
func (s *Store) CreateUser(email, phone, fullName, password, role string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserLocked(email, phone, fullName, hash, role, 0)
}

func (s *Store) createUserLocked(email, phone, fullName, hash, role string, balance model.Money) (model.User, error) {
	if _, ok := s.byEmail[email]; ok {
		return model.User{}, ErrEmailExists
	}
	if role == "" {
		role = "user"
	}
	u := &User{
		User: model.User{
			ID:        s.nextID(),
			Email:     email,
			Phone:     strings.TrimSpace(phone),
			FullName:  strings.TrimSpace(fullName),
			Role:      role,
			IsActive:  true,
			CreatedAt: s.timestamp(),
		},
		PasswordHash: hash,
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	s.walletLocked(u.ID)
	if balance > 0 {
		s.postLocked(u.ID, model.TxCredit, balance, "Welcome credit", nil)
	}
	return u.User, nil
}

// UserByEmail looks up an account for login.
func (s *Store) UserByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return User{}, notFound("User not found")
	}
	return *s.users[id], nil
}

func (s *Store) UserByID(id uint64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, notFound("User not found")
	}
	return *u, nil
}

// StoreRefresh records a refresh token hash.
func (s *Store) StoreRefresh(userID uint64, tokenHash string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[tokenHash] = &refreshRow{UserID: userID, ExpiresAt: exp}
}

// ValidateRefresh returns the owner of a live, unrevoked token.
func (s *Store) ValidateRefresh(tokenHash string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.refresh[tokenHash]
	if !ok || row.Revoked || s.now().After(row.ExpiresAt) {
		return 0, ErrInvalidRefresh
	}
	return row.UserID, nil
}

// RotateRefresh atomically revokes oldHash and stores newHash for the same
// user.  A token can be rotated once; replaying it fails.
func (s *Store) RotateRefresh(oldHash, newHash string, exp time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.refresh[oldHash]
	if !ok || row.Revoked || s.now().After(row.ExpiresAt) {
		return 0, ErrInvalidRefresh
	}
	row.Revoked = true
	s.refresh[newHash] = &refreshRow{UserID: row.UserID, ExpiresAt: exp}
	return row.UserID, nil
}

// RevokeByHash marks one token revoked.
func (s *Store) RevokeByHash(tokenHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.refresh[tokenHash]; ok {
		row.Revoked = true
	}
}

// RevokeAllForUser logs userID out everywhere.
func (s *Store) RevokeAllForUser(userID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.refresh {
		if row.UserID == userID {
			row.Revoked = true
		}
	}
}
