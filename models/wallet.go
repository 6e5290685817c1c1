package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

// Transaction is a single append-only ledger entry. Amounts are always
// positive; the type decides the sign.
type Transaction struct {
	ID        string          `bson:"id" json:"id"`
	Type      TransactionType `bson:"type" json:"type"`
	Amount    Money           `bson:"amount" json:"amount"`
	Reference string          `bson:"reference" json:"reference"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
}

// Wallet holds a user's balance together with its backing ledger. The balance
// is derived: every change to it is written in the same document update that
// appends the matching transaction.
type Wallet struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Balance      Money              `bson:"balance" json:"balance"`
	Transactions []Transaction      `bson:"transactions" json:"transactions"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// LedgerBalance recomputes the balance from the ledger entries.
func (w *Wallet) LedgerBalance() Money {
	total := MoneyFromInt(0)
	for _, txn := range w.Transactions {
		if txn.Type == TransactionCredit {
			total = total.Add(txn.Amount)
		} else {
			total = total.Sub(txn.Amount)
		}
	}
	return total
}
