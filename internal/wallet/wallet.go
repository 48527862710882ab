// Package wallet reads the stored-value balance and its ledger and builds
// top-up requests.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// ErrInvalidAmount rejects top-ups that are not a positive number.
var ErrInvalidAmount = errors.New("Please enter a valid amount")

// QuickAmounts are the one-tap top-up buttons.
var QuickAmounts = []model.Money{model.Rupees(500), model.Rupees(1000), model.Rupees(2000), model.Rupees(5000)}

// API is the slice of the api client the wallet needs.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Service struct {
	api API
}

func New(api API) *Service { return &Service{api: api} }

// Get loads the balance.
func (s *Service) Get(ctx context.Context) (model.Wallet, error) {
	var w model.Wallet
	if err := s.api.Get(ctx, "/wallet", nil, &w); err != nil {
		return model.Wallet{}, err
	}
	return w, nil
}

// Transactions loads the ledger.
func (s *Service) Transactions(ctx context.Context) ([]model.Transaction, error) {
	var list model.TransactionList
	if err := s.api.Get(ctx, "/wallet/transactions", nil, &list); err != nil {
		return nil, err
	}
	return list.Transactions, nil
}

// ParseTopUp builds a top-up request from form text.
func ParseTopUp(text string) (model.TopUpRequest, error) {
	amount, err := model.ParseMoney(text)
	if err != nil || amount <= 0 {
		return model.TopUpRequest{}, ErrInvalidAmount
	}
	return model.TopUpRequest{Amount: amount}, nil
}

// TopUp adds amount to the wallet and returns the updated wallet.  The
// balance is never adjusted locally.
func (s *Service) TopUp(ctx context.Context, amount model.Money) (model.Wallet, error) {
	if amount <= 0 {
		return model.Wallet{}, ErrInvalidAmount
	}
	var w model.Wallet
	if err := s.api.Post(ctx, "/wallet/add", model.TopUpRequest{Amount: amount}, &w); err != nil {
		return model.Wallet{}, err
	}
	if w.ID == 0 && w.Balance == 0 {
		// Some deployments answer with a message only.
		return s.Get(ctx)
	}
	return w, nil
}

// Overview is the wallet screen: balance and ledger.
type Overview struct {
	Wallet       model.Wallet
	Transactions []model.Transaction
}

// Overview loads the balance and the ledger in parallel.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var ov Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.Get(gctx)
		ov.Wallet = w
		return err
	})
	g.Go(func() error {
		txs, err := s.Transactions(gctx)
		ov.Transactions = txs
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("load wallet: %w", err)
	}
	return ov, nil
}
