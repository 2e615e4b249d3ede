package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testRules() payroll.StatutoryRules {
	return payroll.StatutoryRules{
		Currency: "NGN",
		TaxBrackets: []payroll.TaxBracket{
			{From: d("0"), Rate: d("7")},
			{From: d("50000"), Rate: d("11")},
			{From: d("150000"), Rate: d("15")},
			{From: d("300000"), Rate: d("19")},
		},
		ConsolidatedRelief: payroll.Relief{Fixed: d("20000"), PercentOfGross: d("20")},
		PensionRate:        d("8"),
		NHFRate:            d("2.5"),
	}
}

func testGrade() *payroll.SalaryGrade {
	return &payroll.SalaryGrade{
		ID:          "grade-1",
		Level:       "GL-08",
		BasicSalary: d("250000"),
		Components: []payroll.PayrollComponent{
			{Name: "Housing", Type: payroll.ComponentTypeAllowance, Method: payroll.CalculationFixed, Value: d("50000"), IsTaxable: true, IsActive: true},
			{Name: "Transport", Type: payroll.ComponentTypeAllowance, Method: payroll.CalculationPercentage, Value: d("10"), IsTaxable: true, IsActive: true},
		},
	}
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:               "emp-1",
		EmployeeCode:     "EMP-001",
		FullName:         "Ada Obi",
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

var march2024 = payroll.Period{Month: 3, Year: 2024}

func TestCompute_ReferenceScenario(t *testing.T) {
	rec, err := Compute(ComputeInput{
		Employee: testEmployee(),
		Grade:    testGrade(),
		Period:   march2024,
		Rules:    testRules(),
	})
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusDraft, rec.Status)
	assert.Equal(t, payroll.FrequencyMonthly, rec.Frequency)
	assert.True(t, d("75000").Equal(rec.TotalAllowances), rec.TotalAllowances.String())
	assert.True(t, d("20000").Equal(rec.Pension), rec.Pension.String())
	assert.True(t, rec.NHF.IsZero())
	assert.True(t, d("325000").Equal(rec.GrossEarnings))

	// relief 20000 + 20% of 325000 = 85000; taxable 240000
	// tax = 50000*7% + 100000*11% + 90000*15% = 3500 + 11000 + 13500
	assert.True(t, d("240000").Equal(rec.TaxableIncome), rec.TaxableIncome.String())
	assert.True(t, d("28000").Equal(rec.Tax), rec.Tax.String())
	assert.True(t, d("48000").Equal(rec.TotalDeductions))
	assert.True(t, d("277000").Equal(rec.NetPay), rec.NetPay.String())
	assert.True(t, rec.Reconciles())

	require.Len(t, rec.Allowances, 2)
	assert.True(t, d("25000").Equal(rec.Allowances[1].Amount))
	for _, line := range rec.Deductions {
		assert.NotEqual(t, payroll.LineNHF, line.Kind)
	}
}

func TestCompute_NHFOnlyWithNumber(t *testing.T) {
	emp := testEmployee()
	nhf := "NHF123456"
	emp.NHFNumber = &nhf

	rec, err := Compute(ComputeInput{Employee: emp, Grade: testGrade(), Period: march2024, Rules: testRules()})
	require.NoError(t, err)

	// 2.5% of pensionable (basic only here)
	assert.True(t, d("6250").Equal(rec.NHF), rec.NHF.String())
	assert.True(t, rec.Reconciles())
}

func TestCompute_PensionableAllowances(t *testing.T) {
	grade := testGrade()
	grade.Components[0].IsPensionable = true
	grade.Components[1].IsPensionable = true

	rec, err := Compute(ComputeInput{Employee: testEmployee(), Grade: grade, Period: march2024, Rules: testRules()})
	require.NoError(t, err)
	assert.True(t, d("26000").Equal(rec.Pension), rec.Pension.String())
}

func TestCompute_Bonuses(t *testing.T) {
	inMarch := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inApril := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	march31 := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)

	bonuses := []payroll.Bonus{
		{ID: "b1", Type: payroll.BonusTypePerformance, Amount: d("30000"), EffectiveDate: inMarch, ApprovalStatus: payroll.ApprovalApproved, IsTaxable: true},
		{ID: "b2", Type: payroll.BonusTypeSpecial, Amount: d("10000"), EffectiveDate: inMarch, ApprovalStatus: payroll.ApprovalApproved, IsTaxable: false},
		{ID: "b3", Type: payroll.BonusTypeSpecial, Amount: d("99999"), EffectiveDate: inMarch, ApprovalStatus: payroll.ApprovalPending, IsTaxable: true},
		{ID: "b4", Type: payroll.BonusTypeOther, Amount: d("99999"), EffectiveDate: inMarch, PaymentDate: &inApril, ApprovalStatus: payroll.ApprovalApproved},
		{ID: "b5", Type: payroll.BonusTypeThirteenthMonth, Amount: d("5000"), EffectiveDate: inApril, PaymentDate: &march31, ApprovalStatus: payroll.ApprovalApproved},
	}

	rec, err := Compute(ComputeInput{Employee: testEmployee(), Grade: testGrade(), Period: march2024, Bonuses: bonuses, Rules: testRules()})
	require.NoError(t, err)

	assert.Len(t, rec.Bonuses, 3)
	assert.True(t, d("45000").Equal(rec.TotalBonuses), rec.TotalBonuses.String())
	assert.True(t, d("370000").Equal(rec.GrossEarnings))

	// taxable = 325000 + 30000 (b1), b2 and b5 not taxable; relief = 20000 + 74000
	assert.True(t, d("261000").Equal(rec.TaxableIncome), rec.TaxableIncome.String())
	assert.True(t, rec.Reconciles())
}

func TestCompute_OvertimeAddedToEarnings(t *testing.T) {
	emp := testEmployee()
	emp.Overtime = employee.Overtime{HoursWorked: d("10.5"), Rate: d("1500")}

	rec, err := Compute(ComputeInput{Employee: emp, Grade: testGrade(), Period: march2024, Rules: testRules()})
	require.NoError(t, err)

	assert.True(t, d("15750").Equal(rec.OvertimeAmount))
	assert.True(t, d("75000").Equal(rec.TotalAllowances), "overtime is not an allowance")
	assert.True(t, d("340750").Equal(rec.GrossEarnings))
	assert.True(t, rec.Reconciles())
}

func TestCompute_LoansAndOtherDeductions(t *testing.T) {
	end := payroll.Period{Month: 2, Year: 2024}
	deductions := []payroll.EmployeeDeduction{
		{ID: "d1", Kind: payroll.DeductionKindLoan, Description: "Car loan", Amount: d("15000"), StartPeriod: payroll.Period{Month: 1, Year: 2024}, IsActive: true},
		{ID: "d2", Kind: payroll.DeductionKindUnionDues, Description: "Union dues", Amount: d("1200.555"), StartPeriod: payroll.Period{Month: 1, Year: 2024}, IsActive: true},
		{ID: "d3", Kind: payroll.DeductionKindLoan, Description: "Ended", Amount: d("5000"), StartPeriod: payroll.Period{Month: 1, Year: 2024}, EndPeriod: &end, IsActive: true},
		{ID: "d4", Kind: payroll.DeductionKindOther, Description: "Inactive", Amount: d("5000"), StartPeriod: payroll.Period{Month: 1, Year: 2024}, IsActive: false},
		{ID: "d5", Kind: payroll.DeductionKindOther, Description: "Future", Amount: d("5000"), StartPeriod: payroll.Period{Month: 4, Year: 2024}, IsActive: true},
	}

	rec, err := Compute(ComputeInput{Employee: testEmployee(), Grade: testGrade(), Period: march2024, Deductions: deductions, Rules: testRules()})
	require.NoError(t, err)

	assert.True(t, d("15000").Equal(rec.TotalLoans))
	assert.True(t, d("1200.56").Equal(rec.OtherDeductions), rec.OtherDeductions.String())
	assert.True(t, d("64200.56").Equal(rec.TotalDeductions), rec.TotalDeductions.String())
	assert.True(t, d("260799.44").Equal(rec.NetPay), rec.NetPay.String())
	assert.True(t, rec.Reconciles())
}

func TestCompute_PercentageRounding(t *testing.T) {
	grade := &payroll.SalaryGrade{
		ID:          "grade-2",
		Level:       "GL-01",
		BasicSalary: d("123456.78"),
		Components: []payroll.PayrollComponent{
			{Name: "Utility", Type: payroll.ComponentTypeAllowance, Method: payroll.CalculationPercentage, Value: d("7.5"), IsActive: true},
			{Name: "Meal", Type: payroll.ComponentTypeAllowance, Method: payroll.CalculationPercentage, Value: d("3.33"), IsActive: true, IsTaxable: true},
		},
	}

	rec, err := Compute(ComputeInput{Employee: testEmployee(), Grade: grade, Period: march2024, Rules: testRules()})
	require.NoError(t, err)

	// 123456.78 * 7.5% = 9259.2585 -> 9259.26 ; * 3.33% = 4111.110774 -> 4111.11
	assert.Equal(t, "9259.26", rec.Allowances[0].Amount.StringFixed(2))
	assert.Equal(t, "4111.11", rec.Allowances[1].Amount.StringFixed(2))
	for _, line := range append(append([]payroll.Line{}, rec.Allowances...), rec.Deductions...) {
		assert.True(t, line.Amount.Equal(line.Amount.Round(2)), line.Name)
	}
	assert.True(t, rec.Reconciles())
}

func TestCompute_InactiveComponentIgnored(t *testing.T) {
	grade := testGrade()
	grade.Components[1].IsActive = false

	rec, err := Compute(ComputeInput{Employee: testEmployee(), Grade: grade, Period: march2024, Rules: testRules()})
	require.NoError(t, err)
	assert.True(t, d("50000").Equal(rec.TotalAllowances))
}

func TestCompute_GradeDeductionComponent(t *testing.T) {
	grade := testGrade()
	grade.Components = append(grade.Components, payroll.PayrollComponent{
		Name: "Welfare", Type: payroll.ComponentTypeDeduction, Method: payroll.CalculationPercentage, Value: d("1"), IsActive: true,
	})

	rec, err := Compute(ComputeInput{Employee: testEmployee(), Grade: grade, Period: march2024, Rules: testRules()})
	require.NoError(t, err)
	assert.True(t, d("2500").Equal(rec.OtherDeductions))
	assert.True(t, d("50500").Equal(rec.TotalDeductions))
}

func TestCompute_DeductionsExceedingGrossAreRejected(t *testing.T) {
	deductions := []payroll.EmployeeDeduction{
		{ID: "d1", Kind: payroll.DeductionKindLoan, Description: "Salary advance", Amount: d("400000"), StartPeriod: march2024, IsActive: true},
	}

	_, err := Compute(ComputeInput{Employee: testEmployee(), Grade: testGrade(), Period: march2024, Deductions: deductions, Rules: testRules()})
	assert.ErrorIs(t, err, payroll.ErrNegativeNetPay)
}

func TestCompute_ValidationFailures(t *testing.T) {
	badBrackets := testRules()
	badBrackets.TaxBrackets = []payroll.TaxBracket{{From: d("0"), Rate: d("7")}, {From: d("0"), Rate: d("10")}}

	noBrackets := testRules()
	noBrackets.TaxBrackets = nil

	badRate := testRules()
	badRate.PensionRate = d("-1")

	zeroBasic := testGrade()
	zeroBasic.BasicSalary = decimal.Zero

	badMethod := testGrade()
	badMethod.Components[0].Method = "ratio"

	negative := testGrade()
	negative.Components[0].Value = d("-10")

	cases := []struct {
		name  string
		grade *payroll.SalaryGrade
		rules payroll.StatutoryRules
		want  error
	}{
		{"missing grade", nil, testRules(), payroll.ErrGradeRequired},
		{"zero basic", zeroBasic, testRules(), payroll.ErrInvalidBasicSalary},
		{"unordered brackets", testGrade(), badBrackets, payroll.ErrInvalidTaxBrackets},
		{"no brackets", testGrade(), noBrackets, payroll.ErrInvalidTaxBrackets},
		{"negative pension rate", testGrade(), badRate, payroll.ErrInvalidRate},
		{"unknown method", badMethod, testRules(), payroll.ErrInvalidComponent},
		{"negative value", negative, testRules(), payroll.ErrInvalidComponent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Compute(ComputeInput{Employee: testEmployee(), Grade: c.grade, Period: march2024, Rules: c.rules})
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestStatutoryRules_Tax(t *testing.T) {
	rules := testRules()
	cases := []struct {
		taxable string
		want    string
	}{
		{"0", "0"},
		{"-100", "0"},
		{"50000", "3500"},     // exactly at the next bracket's from
		{"50001", "3500.11"},  // first unit of bracket 2
		{"150000", "14500"},   // 3500 + 11000
		{"400000", "56000"},   // 14500 + 22500 + 19000
		{"1000000", "170000"}, // unbounded last bracket
	}
	for _, c := range cases {
		got := rules.Tax(d(c.taxable)).Round(2)
		assert.True(t, d(c.want).Equal(got), "taxable %s: got %s want %s", c.taxable, got, c.want)
	}
}
