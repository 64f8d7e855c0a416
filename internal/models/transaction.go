package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount        = errors.New("transaction amount must not be negative")
	ErrNegativeDuration      = errors.New("transaction duration must not be negative")
	ErrNegativeLoginAttempts = errors.New("login attempts must not be negative")
)

func init() {
	// Amounts leave the service as JSON numbers, the same shape they arrive in.
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionRecord struct {
	ID            string          `json:"TransactionID"`
	AccountID     string          `json:"AccountID,omitempty"`
	Amount        decimal.Decimal `json:"TransactionAmount"`
	Duration      decimal.Decimal `json:"TransactionDuration"`
	LoginAttempts int             `json:"LoginAttempts"`
	Balance       decimal.Decimal `json:"AccountBalance"`
	Age           int             `json:"CustomerAge"`
}

func NewTransactionRecord(id, accountID string, amount, duration decimal.Decimal, loginAttempts int, balance decimal.Decimal, age int) (TransactionRecord, error) {
	record := TransactionRecord{
		ID:            id,
		AccountID:     accountID,
		Amount:        amount,
		Duration:      duration,
		LoginAttempts: loginAttempts,
		Balance:       balance,
		Age:           age,
	}

	if err := record.Validate(); err != nil {
		return TransactionRecord{}, err
	}

	return record, nil
}

func (t TransactionRecord) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("%s: %w", t.ID, ErrNegativeAmount)
	}

	if t.Duration.IsNegative() {
		return fmt.Errorf("%s: %w", t.ID, ErrNegativeDuration)
	}

	if t.LoginAttempts < 0 {
		return fmt.Errorf("%s: %w", t.ID, ErrNegativeLoginAttempts)
	}

	return nil
}

// DefaultTransactionID names the record at a zero-based index when the input carries no ID.
func DefaultTransactionID(index int) string {
	return fmt.Sprintf("TXN%04d", index+1)
}
