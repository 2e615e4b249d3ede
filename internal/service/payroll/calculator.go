package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeInput is everything needed to price one employee for one period.
type ComputeInput struct {
	Employee             employee.Employee
	Grade                *payroll.SalaryGrade
	Period               payroll.Period
	Frequency            payroll.Frequency
	AdditionalAllowances []payroll.PayrollComponent
	Bonuses              []payroll.Bonus
	Deductions           []payroll.EmployeeDeduction
	Rules                payroll.StatutoryRules
}

// round is the single rounding rule: 2 places, half away from zero. Every
// line is rounded before it is summed so totals reconcile exactly.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compute prices a payroll record. It has no side effects; the returned
// record has no ID and starts as DRAFT.
func Compute(in ComputeInput) (payroll.PayrollRecord, error) {
	emp := in.Employee
	if in.Grade == nil {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: %s", payroll.ErrGradeRequired, emp.EmployeeCode)
	}
	if !in.Grade.BasicSalary.IsPositive() {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: grade %s", payroll.ErrInvalidBasicSalary, in.Grade.Level)
	}
	if err := in.Rules.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	frequency := in.Frequency
	if frequency == "" {
		frequency = payroll.FrequencyMonthly
	}

	record := payroll.PayrollRecord{
		EmployeeID:   emp.ID,
		DepartmentID: emp.DepartmentID,
		GradeID:      in.Grade.ID,
		Period:       in.Period,
		Frequency:    frequency,
		Status:       payroll.StatusDraft,
	}

	t := &record.Totals
	t.BasicSalary = round(in.Grade.BasicSalary)

	taxable := t.BasicSalary
	pensionable := t.BasicSalary
	otherDeductions := decimal.Zero

	components := make([]payroll.PayrollComponent, 0, len(in.Grade.Components)+len(in.AdditionalAllowances))
	components = append(components, in.Grade.Components...)
	components = append(components, in.AdditionalAllowances...)

	for _, c := range components {
		if !c.IsActive {
			continue
		}
		amount, err := componentAmount(c, t.BasicSalary)
		if err != nil {
			return payroll.PayrollRecord{}, err
		}

		switch c.Type {
		case payroll.ComponentTypeAllowance:
			record.Allowances = append(record.Allowances, payroll.Line{
				Name:    c.Name,
				Kind:    payroll.LineAllowance,
				Amount:  amount,
				Taxable: c.IsTaxable,
			})
			t.TotalAllowances = t.TotalAllowances.Add(amount)
			if c.IsTaxable {
				taxable = taxable.Add(amount)
			}
			if c.IsPensionable {
				pensionable = pensionable.Add(amount)
			}
		case payroll.ComponentTypeDeduction:
			record.Deductions = append(record.Deductions, payroll.Line{
				Name:   c.Name,
				Kind:   payroll.LineOther,
				Amount: amount,
			})
			otherDeductions = otherDeductions.Add(amount)
		default:
			return payroll.PayrollRecord{}, fmt.Errorf("%w: %s has type %q", payroll.ErrInvalidComponent, c.Name, c.Type)
		}
	}

	for _, b := range in.Bonuses {
		if b.EmployeeID != "" && b.EmployeeID != emp.ID {
			continue
		}
		if !b.PayableIn(in.Period) {
			continue
		}
		if b.Amount.IsNegative() {
			return payroll.PayrollRecord{}, fmt.Errorf("%w: bonus %s", payroll.ErrInvalidAmount, b.ID)
		}
		amount := round(b.Amount)
		record.Bonuses = append(record.Bonuses, payroll.Line{
			Name:    string(b.Type),
			Kind:    payroll.LineBonus,
			Amount:  amount,
			Taxable: b.IsTaxable,
		})
		t.TotalBonuses = t.TotalBonuses.Add(amount)
		if b.IsTaxable {
			taxable = taxable.Add(amount)
		}
	}

	if emp.Overtime.HoursWorked.IsNegative() || emp.Overtime.Rate.IsNegative() {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: overtime", payroll.ErrInvalidAmount)
	}
	t.OvertimeAmount = round(emp.Overtime.Amount())
	taxable = taxable.Add(t.OvertimeAmount)

	t.GrossEarnings = t.BasicSalary.Add(t.TotalAllowances).Add(t.TotalBonuses).Add(t.OvertimeAmount)

	relief := in.Rules.ConsolidatedRelief
	t.ConsolidatedRelief = round(relief.Fixed.Add(t.GrossEarnings.Mul(relief.PercentOfGross).Div(hundred)))
	t.TaxableIncome = taxable.Sub(t.ConsolidatedRelief)
	if t.TaxableIncome.IsNegative() {
		t.TaxableIncome = decimal.Zero
	}

	t.Tax = round(in.Rules.Tax(t.TaxableIncome))
	record.Deductions = append(record.Deductions, payroll.Line{Name: "PAYE Tax", Kind: payroll.LineTax, Amount: t.Tax})

	t.Pension = round(pensionable.Mul(in.Rules.PensionRate).Div(hundred))
	record.Deductions = append(record.Deductions, payroll.Line{Name: "Pension", Kind: payroll.LinePension, Amount: t.Pension})

	t.NHF = decimal.Zero
	if emp.HasNHF() {
		t.NHF = round(pensionable.Mul(in.Rules.NHFRate).Div(hundred))
		record.Deductions = append(record.Deductions, payroll.Line{Name: "NHF", Kind: payroll.LineNHF, Amount: t.NHF})
	}

	for _, d := range in.Deductions {
		if d.EmployeeID != "" && d.EmployeeID != emp.ID {
			continue
		}
		if !d.AppliesTo(in.Period) {
			continue
		}
		if d.Amount.IsNegative() {
			return payroll.PayrollRecord{}, fmt.Errorf("%w: deduction %s", payroll.ErrInvalidAmount, d.ID)
		}
		amount := round(d.Amount)
		if d.Kind == payroll.DeductionKindLoan {
			record.Deductions = append(record.Deductions, payroll.Line{Name: d.Description, Kind: payroll.LineLoan, Amount: amount})
			t.TotalLoans = t.TotalLoans.Add(amount)
			continue
		}
		record.Deductions = append(record.Deductions, payroll.Line{Name: d.Description, Kind: payroll.LineOther, Amount: amount})
		otherDeductions = otherDeductions.Add(amount)
	}
	t.OtherDeductions = otherDeductions

	t.TotalDeductions = t.Tax.Add(t.Pension).Add(t.NHF).Add(t.TotalLoans).Add(t.OtherDeductions)
	if t.TotalDeductions.GreaterThan(t.GrossEarnings) {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: %s deductions %s > gross %s",
			payroll.ErrNegativeNetPay, emp.EmployeeCode, t.TotalDeductions.StringFixed(2), t.GrossEarnings.StringFixed(2))
	}
	t.NetPay = t.GrossEarnings.Sub(t.TotalDeductions)

	return record, nil
}

func componentAmount(c payroll.PayrollComponent, basic decimal.Decimal) (decimal.Decimal, error) {
	if c.Value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s value %s", payroll.ErrInvalidComponent, c.Name, c.Value)
	}
	switch c.Method {
	case payroll.CalculationFixed:
		return round(c.Value), nil
	case payroll.CalculationPercentage:
		return round(basic.Mul(c.Value).Div(hundred)), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s method %q", payroll.ErrInvalidComponent, c.Name, c.Method)
}
