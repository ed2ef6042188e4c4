package accounting

import (
	"fmt"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a posting amount based on account type and side.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(p domain.Posting, accountType domain.AccountType) (decimal.Decimal, error) {
	normal, err := accountType.NormalSide()
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %s: %w", p.AccountID, err)
	}
	if p.Side == normal {
		return p.Amount, nil
	}
	return p.Amount.Neg(), nil
}

// SignedBalance sums the signed effect of postings on a single account of the given type.
func SignedBalance(postings []domain.Posting, accountType domain.AccountType) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range postings {
		signed, err := CalculateSignedAmount(p, accountType)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}

// ValidatePostings checks the structural rules of an entry: at least two lines,
// strictly positive amounts within the stored scale and known sides.
func ValidatePostings(postings []domain.Posting) error {
	if len(postings) < 2 {
		return fmt.Errorf("entry must have at least two postings, got %d", len(postings))
	}
	for i, p := range postings {
		if p.AccountID == "" {
			return fmt.Errorf("posting %d has no account", i+1)
		}
		if !p.Side.Valid() {
			return fmt.Errorf("posting %d has unknown side %q", i+1, p.Side)
		}
		if !p.Amount.IsPositive() {
			return fmt.Errorf("posting %d amount must be positive, got %s", i+1, p.Amount.String())
		}
		if err := domain.CheckScale(p.Amount); err != nil {
			return fmt.Errorf("posting %d: %w", i+1, err)
		}
	}
	return nil
}
