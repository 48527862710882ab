package model

// Transaction types.
const (
	TxCredit = "credit"
	TxDebit  = "debit"
)

// Wallet is the stored-value balance of the signed-in user.  The client
// never adjusts it locally; it is re-read after every operation that could
// change it.
type Wallet struct {
	ID        uint64 `json:"id"`
	Balance   Money  `json:"balance"`
	UpdatedAt string `json:"updated_at"`
}

// Transaction is one wallet ledger entry.
type Transaction struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Amount      Money   `json:"amount"`
	Description string  `json:"description"`
	ReferenceID *uint64 `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}

// Signed renders the amount with a leading + for credits and - for debits.
func (t Transaction) Signed() string {
	if t.Type == TxCredit {
		return "+" + t.Amount.Format(0)
	}
	return "-" + t.Amount.Format(0)
}

// TransactionList is the envelope of GET /wallet/transactions.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
}

// TopUpRequest is the body of POST /wallet/add.
type TopUpRequest struct {
	Amount Money `json:"amount"`
}
