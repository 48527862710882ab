package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/bus-booking-client/internal/wallet"
)

func (a *App) walletCmd() *Command {
	return &Command{
		Name:    "wallet",
		Summary: "Show the wallet balance and transactions",
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.user(ctx); err != nil {
				return err
			}
			ov, err := a.wallet.Overview(ctx)
			if err != nil {
				return err
			}
			printWallet(a.Out, ov)
			return nil
		},
	}
}

func (a *App) topupCmd() *Command {
	return &Command{
		Name:    "topup",
		Summary: "Add money to the wallet",
		Usage:   "busctl topup <amount>",
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.user(ctx); err != nil {
				return err
			}
			if len(args) != 1 {
				return errors.New("amount required; quick amounts: " + quickAmounts())
			}
			req, err := wallet.ParseTopUp(args[0])
			if err != nil {
				return err
			}
			w, err := a.wallet.TopUp(ctx, req.Amount)
			if err != nil {
				return err
			}
			a.printf("Added ₹%s. Balance: ₹%s\n", req.Amount, w.Balance.Format(2))
			return nil
		},
	}
}

func quickAmounts() string {
	parts := make([]string, 0, len(wallet.QuickAmounts))
	for _, m := range wallet.QuickAmounts {
		parts = append(parts, "₹"+m.String())
	}
	return strings.Join(parts, ", ")
}
