package pdf

import (
	"bytes"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"1234567.891", "1,234,567.89"},
		{"-45000.1", "-45,000.10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRender(t *testing.T) {
	date := "2025-01-31"
	slip := payroll.PayslipResponse{
		RecordID:     "rec-1",
		EmployeeName: "Ada Obi",
		EmployeeCode: "EMP-001",
		Period:       "2025-01",
		Currency:     "NGN",
		BasicSalary:  decimal.NewFromInt(300000),
		Earnings: []payroll.Line{
			{Name: "Housing", Kind: payroll.LineAllowance, Amount: decimal.NewFromInt(60000)},
		},
		Deductions: []payroll.Line{
			{Name: "PAYE", Kind: payroll.LineTax, Amount: decimal.RequireFromString("25413.33")},
		},
		GrossEarnings:   decimal.NewFromInt(360000),
		TotalDeductions: decimal.RequireFromString("25413.33"),
		NetPay:          decimal.RequireFromString("334586.67"),
		Status:          "PAID",
		PaymentDate:     &date,
	}

	out, err := NewPayslipRenderer("Acme Ltd").Render(slip)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
