package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
)

// accountMappingFile is the on-disk layout of the account mapping:
//
//	operational_accounts:
//	  <operational account id>: <accounting account id>
//	income_account: <revenue account id>
//	expense_account: <expense account id>
//	category_accounts:
//	  <category id>: <revenue or expense account id>
type accountMappingFile struct {
	OperationalAccounts map[string]string `yaml:"operational_accounts"`
	IncomeAccount       string            `yaml:"income_account"`
	ExpenseAccount      string            `yaml:"expense_account"`
	CategoryAccounts    map[string]string `yaml:"category_accounts"`
}

// ParseAccountMapping decodes a YAML account mapping.
func ParseAccountMapping(data []byte) (domain.AccountMapping, error) {
	var f accountMappingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.AccountMapping{}, fmt.Errorf("failed to parse account mapping: %w", err)
	}
	for op, acc := range f.OperationalAccounts {
		if acc == "" {
			return domain.AccountMapping{}, fmt.Errorf("account mapping: operational account %s maps to nothing", op)
		}
	}
	if f.OperationalAccounts == nil {
		f.OperationalAccounts = map[string]string{}
	}
	if f.CategoryAccounts == nil {
		f.CategoryAccounts = map[string]string{}
	}
	return domain.AccountMapping{
		OperationalAccounts: f.OperationalAccounts,
		IncomeAccountID:     f.IncomeAccount,
		ExpenseAccountID:    f.ExpenseAccount,
		CategoryAccounts:    f.CategoryAccounts,
	}, nil
}

// LoadAccountMapping reads the mapping file. A missing file yields an empty mapping,
// in which case every record call fails until one is provided.
func LoadAccountMapping(path string) (domain.AccountMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ParseAccountMapping(nil)
		}
		return domain.AccountMapping{}, fmt.Errorf("failed to read account mapping %s: %w", path, err)
	}
	return ParseAccountMapping(data)
}
