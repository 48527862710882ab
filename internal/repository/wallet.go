package repository

import (
	"github.com/iliyamo/bus-booking-client/internal/model"
)

// MaxTopUp caps a single wallet top-up.
var MaxTopUp = model.Rupees(50000)

// Wallet returns userID's wallet, opening an empty one on first use.
func (s *Store) Wallet(userID uint64) model.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.walletLocked(userID)
}

func (s *Store) walletLocked(userID uint64) *model.Wallet {
	w, ok := s.wallets[userID]
	if !ok {
		w = &model.Wallet{ID: s.nextID(), UpdatedAt: s.timestamp()}
		s.wallets[userID] = w
	}
	return w
}

// Transactions lists userID's ledger, newest first.
func (s *Store) Transactions(userID uint64) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := s.txs[userID]
	out := make([]model.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		out = append(out, txs[i])
	}
	return out
}

// AddMoney credits amount to userID's wallet.
func (s *Store) AddMoney(userID uint64, amount model.Money) (model.Wallet, error) {
	if amount <= 0 {
		return model.Wallet{}, invalid("Amount must be greater than 0")
	}
	if amount > MaxTopUp {
		return model.Wallet{}, invalid("Maximum top-up amount is ₹%s", MaxTopUp.Format(0))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postLocked(userID, model.TxCredit, amount, "Wallet top-up", nil)
	return *s.walletLocked(userID), nil
}

// postLocked applies one ledger entry to the balance.
func (s *Store) postLocked(userID uint64, typ string, amount model.Money, desc string, ref *uint64) {
	w := s.walletLocked(userID)
	if typ == model.TxDebit {
		w.Balance -= amount
	} else {
		w.Balance += amount
	}
	w.UpdatedAt = s.timestamp()
	s.txs[userID] = append(s.txs[userID], model.Transaction{
		ID:          s.nextID(),
		Type:        typ,
		Amount:      amount,
		Description: desc,
		ReferenceID: ref,
		CreatedAt:   w.UpdatedAt,
	})
}
