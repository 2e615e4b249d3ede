package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	labelWidth  = 120.0
	amountWidth = 60.0
	rowHeight   = 7.0
)

// PayslipRenderer turns a payslip projection into a PDF document.
type PayslipRenderer interface {
	Render(slip payroll.PayslipResponse) ([]byte, error)
}

type GofpdfRenderer struct {
	company string
}

func NewPayslipRenderer(company string) *GofpdfRenderer {
	return &GofpdfRenderer{company: company}
}

func (g *GofpdfRenderer) Render(slip payroll.PayslipResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+slip.Period, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, g.company)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, "Payslip for "+slip.Period)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s (%s)", slip.EmployeeName, slip.EmployeeCode))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Status: "+slip.Status)
	pdf.Ln(6)
	if slip.PaymentDate != nil {
		pdf.Cell(0, 6, "Payment date: "+*slip.PaymentDate)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Earnings", slip.Currency)
	row(pdf, "Basic salary", slip.BasicSalary)
	for _, l := range slip.Earnings {
		row(pdf, l.Name, l.Amount)
	}
	total(pdf, "Gross earnings", slip.GrossEarnings)
	pdf.Ln(4)

	section(pdf, "Deductions", slip.Currency)
	for _, l := range slip.Deductions {
		row(pdf, l.Name, l.Amount)
	}
	total(pdf, "Total deductions", slip.TotalDeductions)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 236, 245)
	pdf.CellFormat(labelWidth, 10, "Net pay", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountWidth, 10, slip.Currency+" "+FormatAmount(slip.NetPay), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title, currency string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(labelWidth, rowHeight+1, title, "B", 0, "L", true, 0, "")
	pdf.CellFormat(amountWidth, rowHeight+1, currency, "B", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func row(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(labelWidth, rowHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, FormatAmount(amount), "", 1, "R", false, 0, "")
}

func total(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, rowHeight, label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, FormatAmount(amount), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

// FormatAmount renders d with two decimals and thousands separators.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + frac
}
