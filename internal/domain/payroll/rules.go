package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxBracket applies Rate percent to income from From (inclusive) up to the
// next bracket's From (exclusive). The last bracket is unbounded.
type TaxBracket struct {
	From decimal.Decimal
	To   *decimal.Decimal
	Rate decimal.Decimal
}

// Relief is deducted from gross before tax: Fixed + PercentOfGross% of gross.
type Relief struct {
	Fixed          decimal.Decimal
	PercentOfGross decimal.Decimal
}

// StatutoryRules is the deduction rule set for one payroll run.
type StatutoryRules struct {
	Currency           string
	TaxBrackets        []TaxBracket
	ConsolidatedRelief Relief
	PensionRate        decimal.Decimal
	NHFRate            decimal.Decimal
}

func (r StatutoryRules) Validate() error {
	if len(r.TaxBrackets) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidTaxBrackets)
	}
	if !r.TaxBrackets[0].From.IsZero() {
		return fmt.Errorf("%w: first bracket must start at 0", ErrInvalidTaxBrackets)
	}
	for i, b := range r.TaxBrackets {
		if !validPercent(b.Rate) {
			return fmt.Errorf("%w: bracket %d rate %s", ErrInvalidTaxBrackets, i, b.Rate)
		}
		last := i == len(r.TaxBrackets)-1
		if last {
			if b.To != nil {
				return fmt.Errorf("%w: last bracket must be unbounded", ErrInvalidTaxBrackets)
			}
			continue
		}
		next := r.TaxBrackets[i+1]
		if !next.From.GreaterThan(b.From) {
			return fmt.Errorf("%w: bracket %d is not ascending", ErrInvalidTaxBrackets, i+1)
		}
		if b.To != nil && !b.To.Equal(next.From) {
			return fmt.Errorf("%w: bracket %d ends at %s but next starts at %s", ErrInvalidTaxBrackets, i, b.To, next.From)
		}
	}

	if !validPercent(r.PensionRate) {
		return fmt.Errorf("%w: pension rate %s", ErrInvalidRate, r.PensionRate)
	}
	if !validPercent(r.NHFRate) {
		return fmt.Errorf("%w: nhf rate %s", ErrInvalidRate, r.NHFRate)
	}
	if r.ConsolidatedRelief.Fixed.IsNegative() || !validPercent(r.ConsolidatedRelief.PercentOfGross) {
		return fmt.Errorf("%w: consolidated relief", ErrInvalidRate)
	}
	return nil
}

// Tax computes marginal tax on taxable income. Rules must be valid.
func (r StatutoryRules) Tax(taxable decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	if !taxable.IsPositive() {
		return tax
	}
	for i, b := range r.TaxBrackets {
		if taxable.LessThanOrEqual(b.From) {
			break
		}
		upper := taxable
		if i+1 < len(r.TaxBrackets) && r.TaxBrackets[i+1].From.LessThan(taxable) {
			upper = r.TaxBrackets[i+1].From
		}
		tax = tax.Add(upper.Sub(b.From).Mul(b.Rate).Div(hundred))
	}
	return tax
}

func validPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
