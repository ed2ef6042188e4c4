package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOperationalTransaction_Validate(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		txn     domain.OperationalTransaction
		wantErr bool
	}{
		{
			name: "valid income",
			txn: domain.OperationalTransaction{
				Type: domain.Income, TargetAccountID: stringPtr("a"),
				Amount: decimal.NewFromInt(10), CurrencyCode: "USD", TransactionDate: day,
			},
		},
		{
			name: "income with source",
			txn: domain.OperationalTransaction{
				Type: domain.Income, SourceAccountID: stringPtr("b"), TargetAccountID: stringPtr("a"),
				Amount: decimal.NewFromInt(10), CurrencyCode: "USD", TransactionDate: day,
			},
			wantErr: true,
		},
		{
			name: "valid expense",
			txn: domain.OperationalTransaction{
				Type: domain.Outgoing, SourceAccountID: stringPtr("a"),
				Amount: decimal.NewFromInt(10), CurrencyCode: "USD", TransactionDate: day,
			},
		},
		{
			name: "expense without source",
			txn: domain.OperationalTransaction{
				Type: domain.Outgoing, TargetAccountID: stringPtr("a"),
				Amount: decimal.NewFromInt(10), CurrencyCode: "USD", TransactionDate: day,
			},
			wantErr: true,
		},
		{
			name: "transfer to itself",
			txn: domain.OperationalTransaction{
				Type: domain.Transfer, SourceAccountID: stringPtr("a"), TargetAccountID: stringPtr("a"),
				Amount: decimal.NewFromInt(10), CurrencyCode: "USD", TransactionDate: day,
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			txn: domain.OperationalTransaction{
				Type: domain.Income, TargetAccountID: stringPtr("a"),
				Amount: decimal.Zero, CurrencyCode: "USD", TransactionDate: day,
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			txn: domain.OperationalTransaction{
				Type: domain.Transfer, SourceAccountID: stringPtr("a"), TargetAccountID: stringPtr("b"),
				Amount: decimal.NewFromInt(-5), CurrencyCode: "USD", TransactionDate: day,
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			txn: domain.OperationalTransaction{
				Type: "REFUND", TargetAccountID: stringPtr("a"),
				Amount: decimal.NewFromInt(1), CurrencyCode: "USD", TransactionDate: day,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationalTransaction_EffectOn(t *testing.T) {
	txn := domain.OperationalTransaction{
		Type:            domain.Transfer,
		SourceAccountID: stringPtr("a"),
		TargetAccountID: stringPtr("b"),
		Amount:          decimal.NewFromInt(200),
	}

	assert.True(t, decimal.NewFromInt(-200).Equal(txn.EffectOn("a")))
	assert.True(t, decimal.NewFromInt(200).Equal(txn.EffectOn("b")))
	assert.True(t, decimal.Zero.Equal(txn.EffectOn("c")))
	assert.Equal(t, []string{"a", "b"}, txn.AccountIDs())
}

func TestAccountMapping_PostingsFor(t *testing.T) {
	mapping := domain.AccountMapping{
		OperationalAccounts: map[string]string{"cash": "1000", "bank": "1100"},
		IncomeAccountID:     "4000",
		ExpenseAccountID:    "5000",
		CategoryAccounts:    map[string]string{"groceries": "5100"},
	}
	amount := decimal.NewFromInt(50)

	tests := []struct {
		name       string
		txn        domain.OperationalTransaction
		wantDebit  string
		wantCredit string
		wantErr    bool
	}{
		{
			name:       "income debits mapped target",
			txn:        domain.OperationalTransaction{Type: domain.Income, TargetAccountID: stringPtr("cash"), Amount: amount},
			wantDebit:  "1000",
			wantCredit: "4000",
		},
		{
			name:       "expense uses category override",
			txn:        domain.OperationalTransaction{Type: domain.Outgoing, SourceAccountID: stringPtr("bank"), CategoryID: stringPtr("groceries"), Amount: amount},
			wantDebit:  "5100",
			wantCredit: "1100",
		},
		{
			name:       "expense falls back to default",
			txn:        domain.OperationalTransaction{Type: domain.Outgoing, SourceAccountID: stringPtr("bank"), CategoryID: stringPtr("rent"), Amount: amount},
			wantDebit:  "5000",
			wantCredit: "1100",
		},
		{
			name:       "transfer",
			txn:        domain.OperationalTransaction{Type: domain.Transfer, SourceAccountID: stringPtr("cash"), TargetAccountID: stringPtr("bank"), Amount: amount},
			wantDebit:  "1100",
			wantCredit: "1000",
		},
		{
			name:    "unmapped account",
			txn:     domain.OperationalTransaction{Type: domain.Income, TargetAccountID: stringPtr("wallet"), Amount: amount},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postings, err := mapping.PostingsFor(&tt.txn)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMappingMissing)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, postings, 2)
			assert.Equal(t, tt.wantDebit, postings[0].AccountID)
			assert.Equal(t, domain.Debit, postings[0].Side)
			assert.Equal(t, tt.wantCredit, postings[1].AccountID)
			assert.Equal(t, domain.Credit, postings[1].Side)
			assert.True(t, amount.Equal(postings[0].Amount))
		})
	}
}

func TestAccountingEntry_ReversalPostings(t *testing.T) {
	entry := domain.AccountingEntry{Postings: []domain.Posting{
		{LineNo: 1, AccountID: "1000", Side: domain.Debit, Amount: decimal.NewFromInt(100)},
		{LineNo: 2, AccountID: "4000", Side: domain.Credit, Amount: decimal.NewFromInt(100)},
	}}
	assert.True(t, entry.IsBalanced())

	rev := entry.ReversalPostings()
	assert.Equal(t, domain.Credit, rev[0].Side)
	assert.Equal(t, domain.Debit, rev[1].Side)

	unbalanced := domain.AccountingEntry{Postings: []domain.Posting{
		{AccountID: "1000", Side: domain.Debit, Amount: decimal.NewFromInt(100)},
		{AccountID: "4000", Side: domain.Credit, Amount: decimal.NewFromInt(90)},
	}}
	assert.False(t, unbalanced.IsBalanced())
}

func TestAccountingPeriod_Overlaps(t *testing.T) {
	p := domain.AccountingPeriod{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Overlaps(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Overlaps(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Overlaps(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
}

func TestAccountType_NormalSide(t *testing.T) {
	for typ, want := range map[domain.AccountType]domain.Side{
		domain.Asset:     domain.Debit,
		domain.Expense:   domain.Debit,
		domain.Liability: domain.Credit,
		domain.Equity:    domain.Credit,
		domain.Revenue:   domain.Credit,
	} {
		got, err := typ.NormalSide()
		assert.NoError(t, err)
		assert.Equal(t, want, got, string(typ))
	}

	_, err := domain.AccountType("BOGUS").NormalSide()
	assert.Error(t, err)
}

func stringPtr(s string) *string {
	return &s
}

func TestOperationalTransaction_Counts(t *testing.T) {
	for status, want := range map[domain.TransactionStatus]bool{
		domain.Pending: false,
		domain.Posted:  true,
		domain.Voided:  false,
	} {
		txn := domain.OperationalTransaction{Status: status}
		assert.Equal(t, want, txn.Counts(), status)
	}
}
