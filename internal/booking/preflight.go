package booking

import (
	"errors"
	"fmt"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// ErrWalletUnavailable is returned when paying by wallet but no wallet
// snapshot could be loaded.
var ErrWalletUnavailable = errors.New("Wallet information not available")

// InsufficientBalanceError blocks a wallet payment locally.
type InsufficientBalanceError struct {
	Balance   model.Money
	Amount    model.Money
	Shortfall model.Money
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient wallet balance. Please add ₹%s to continue", e.Shortfall)
}

// CheckWallet is the advisory affordability check run before submitting.
// Only wallet payments are checked; the server makes the final decision.
func CheckWallet(method model.PaymentMethod, wallet *model.Wallet, total model.Money) error {
	if method != model.PayWallet {
		return nil
	}
	if wallet == nil {
		return ErrWalletUnavailable
	}
	if wallet.Balance < total {
		return &InsufficientBalanceError{Balance: wallet.Balance, Amount: total, Shortfall: total - wallet.Balance}
	}
	return nil
}
