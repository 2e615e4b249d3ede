package config

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Currency    string `yaml:"currency"`
	TaxBrackets []struct {
		From decimal.Decimal  `yaml:"from"`
		To   *decimal.Decimal `yaml:"to"`
		Rate decimal.Decimal  `yaml:"rate"`
	} `yaml:"tax_brackets"`
	ConsolidatedRelief struct {
		Fixed          decimal.Decimal `yaml:"fixed"`
		PercentOfGross decimal.Decimal `yaml:"percent_of_gross"`
	} `yaml:"consolidated_relief"`
	PensionRate decimal.Decimal `yaml:"pension_rate"`
	NHFRate     decimal.Decimal `yaml:"nhf_rate"`
}

// LoadRules reads and validates the statutory deduction rules file.
func LoadRules(path string) (payroll.StatutoryRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return payroll.StatutoryRules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return ParseRules(raw)
}

func ParseRules(raw []byte) (payroll.StatutoryRules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return payroll.StatutoryRules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := payroll.StatutoryRules{
		Currency: f.Currency,
		ConsolidatedRelief: payroll.Relief{
			Fixed:          f.ConsolidatedRelief.Fixed,
			PercentOfGross: f.ConsolidatedRelief.PercentOfGross,
		},
		PensionRate: f.PensionRate,
		NHFRate:     f.NHFRate,
	}
	if rules.Currency == "" {
		rules.Currency = "NGN"
	}
	for _, b := range f.TaxBrackets {
		rules.TaxBrackets = append(rules.TaxBrackets, payroll.TaxBracket{From: b.From, To: b.To, Rate: b.Rate})
	}

	if err := rules.Validate(); err != nil {
		return payroll.StatutoryRules{}, err
	}
	return rules, nil
}
