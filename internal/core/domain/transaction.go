package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of operational money movement.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Outgoing TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Outgoing, Transfer:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of an operational transaction.
type TransactionStatus string

const (
	Pending TransactionStatus = "PENDING"
	Posted  TransactionStatus = "POSTED"
	Voided  TransactionStatus = "VOIDED"
)

// OperationalTransaction is a single movement of money against operational accounts.
// Income only has a target, expense only a source, transfer has both.
type OperationalTransaction struct {
	TransactionID     string            `json:"transactionID"`
	TransactionNumber string            `json:"transactionNumber"` // TRN-YYYYMMDD-NNNN
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	SourceAccountID   *string           `json:"sourceAccountID,omitempty"`
	TargetAccountID   *string           `json:"targetAccountID,omitempty"`
	Amount            decimal.Decimal   `json:"amount"`
	CurrencyCode      string            `json:"currencyCode"`
	CategoryID        *string           `json:"categoryID,omitempty"`
	TransactionDate   time.Time         `json:"transactionDate"`
	Description       string            `json:"description"`
	EntryID           *string           `json:"entryID,omitempty"`     // accounting entry produced on record
	VoidEntryID       *string           `json:"voidEntryID,omitempty"` // reversing entry produced on void
	AuditFields
}

// Validate checks the shape invariants that do not need any stored state.
func (t *OperationalTransaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if !t.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if err := CheckScale(t.Amount); err != nil {
		return err
	}
	if t.CurrencyCode == "" {
		return errors.New("currency code is required")
	}
	if t.TransactionDate.IsZero() {
		return errors.New("transaction date is required")
	}
	hasSource := t.SourceAccountID != nil && *t.SourceAccountID != ""
	hasTarget := t.TargetAccountID != nil && *t.TargetAccountID != ""
	switch t.Type {
	case Income:
		if !hasTarget || hasSource {
			return errors.New("income requires a target account and no source account")
		}
	case Outgoing:
		if !hasSource || hasTarget {
			return errors.New("expense requires a source account and no target account")
		}
	case Transfer:
		if !hasSource || !hasTarget {
			return errors.New("transfer requires both source and target accounts")
		}
		if *t.SourceAccountID == *t.TargetAccountID {
			return errors.New("transfer source and target accounts must be different")
		}
	}
	return nil
}

// AccountIDs returns the operational accounts touched by the transaction.
func (t *OperationalTransaction) AccountIDs() []string {
	ids := make([]string, 0, 2)
	if t.SourceAccountID != nil {
		ids = append(ids, *t.SourceAccountID)
	}
	if t.TargetAccountID != nil {
		ids = append(ids, *t.TargetAccountID)
	}
	return ids
}

// EffectOn returns the signed change this transaction makes to an operational
// account's balance while it is posted.
func (t *OperationalTransaction) EffectOn(accountID string) decimal.Decimal {
	effect := decimal.Zero
	if t.SourceAccountID != nil && *t.SourceAccountID == accountID {
		effect = effect.Sub(t.Amount)
	}
	if t.TargetAccountID != nil && *t.TargetAccountID == accountID {
		effect = effect.Add(t.Amount)
	}
	return effect
}

// Counts reports whether the transaction contributes to balances.
func (t *OperationalTransaction) Counts() bool {
	return t.Status == Posted
}
