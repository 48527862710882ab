package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// Options configures a Store.
type Options struct {
	BcryptCost  int
	SeedBalance model.Money
	// Now is the clock; seeded schedules start on Now's date.
	Now  func() time.Time
	Seed bool
}

// Store holds the whole data set.
type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	cost int
	seq  uint64

	users   map[uint64]*User
	byEmail map[string]uint64
	refresh map[string]*refreshRow

	cities    map[uint64]*model.City
	operators map[uint64]*model.Operator
	buses     map[uint64]*Bus
	routes    map[uint64]*Route
	schedules map[uint64]*Schedule
	seats     map[uint64][]model.Seat

	bookings []*bookingRow
	wallets  map[uint64]*model.Wallet
	txs      map[uint64][]model.Transaction
}

// New builds an empty store, seeded with demo data when opts.Seed is set.
func New(opts Options) (*Store, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		now:       opts.Now,
		cost:      opts.BcryptCost,
		users:     make(map[uint64]*User),
		byEmail:   make(map[string]uint64),
		refresh:   make(map[string]*refreshRow),
		cities:    make(map[uint64]*model.City),
		operators: make(map[uint64]*model.Operator),
		buses:     make(map[uint64]*Bus),
		routes:    make(map[uint64]*Route),
		schedules: make(map[uint64]*Schedule),
		seats:     make(map[uint64][]model.Seat),
		wallets:   make(map[uint64]*model.Wallet),
		txs:       make(map[uint64][]model.Transaction),
	}
	if opts.Seed {
		if err := s.seed(opts.SeedBalance); err != nil {
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}
	return s, nil
}

// nextID hands out ids from one sequence shared by all entities.
// Callers hold s.mu.
func (s *Store) nextID() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) timestamp() string { return s.now().UTC().Format(time.RFC3339) }

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
