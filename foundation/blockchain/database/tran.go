package database

import "fmt"

// Tx is the transactional information between two parties. The field order
// is part of the canonical block hash and must not change.
type Tx struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Recipient, tx.Amount)
}
