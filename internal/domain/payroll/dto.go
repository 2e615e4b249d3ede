package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"`   // "allowance" or "deduction"
	Method        string          `json:"method"` // "fixed" or "percentage"
	Value         decimal.Decimal `json:"value"`
	Description   *string         `json:"description,omitempty"`
	IsTaxable     *bool           `json:"is_taxable,omitempty"`
	IsPensionable *bool           `json:"is_pensionable,omitempty"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Type != string(ComponentTypeAllowance) && r.Type != string(ComponentTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'allowance' or 'deduction'"})
	}
	errs = append(errs, validateMethodValue(r.Method, r.Value)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID            string           `json:"-"`
	Name          *string          `json:"name,omitempty"`
	Method        *string          `json:"method,omitempty"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	Description   *string          `json:"description,omitempty"`
	IsTaxable     *bool            `json:"is_taxable,omitempty"`
	IsPensionable *bool            `json:"is_pensionable,omitempty"`
}

func (r *UpdateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.Method != nil && *r.Method != string(CalculationFixed) && *r.Method != string(CalculationPercentage) {
		errs = append(errs, validator.ValidationError{Field: "method", Message: "must be 'fixed' or 'percentage'"})
	}
	if r.Value != nil && r.Value.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the request onto an existing component.
func (r *UpdateComponentRequest) Apply(c PayrollComponent) (PayrollComponent, error) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Method != nil {
		c.Method = CalculationMethod(*r.Method)
	}
	if r.Value != nil {
		c.Value = *r.Value
	}
	if r.Description != nil {
		c.Description = r.Description
	}
	if r.IsTaxable != nil {
		c.IsTaxable = *r.IsTaxable
	}
	if r.IsPensionable != nil {
		c.IsPensionable = *r.IsPensionable
	}
	if errs := validateMethodValue(string(c.Method), c.Value); len(errs) > 0 {
		return c, errs
	}
	return c, nil
}

type SetComponentActiveRequest struct {
	ID       string `json:"-"`
	IsActive bool   `json:"is_active"`
}

func validateMethodValue(method string, value decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	switch CalculationMethod(method) {
	case CalculationFixed:
	case CalculationPercentage:
		if value.GreaterThan(hundred) {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "percentage must not exceed 100"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "method", Message: "must be 'fixed' or 'percentage'"})
	}
	if value.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "must be non-negative"})
	}
	return errs
}

type ComponentResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Method        string          `json:"method"`
	Value         decimal.Decimal `json:"value"`
	Description   *string         `json:"description,omitempty"`
	IsTaxable     bool            `json:"is_taxable"`
	IsPensionable bool            `json:"is_pensionable"`
	IsActive      bool            `json:"is_active"`
}

func ToComponentResponse(c PayrollComponent) ComponentResponse {
	return ComponentResponse{
		ID:            c.ID,
		Name:          c.Name,
		Type:          string(c.Type),
		Method:        string(c.Method),
		Value:         c.Value,
		Description:   c.Description,
		IsTaxable:     c.IsTaxable,
		IsPensionable: c.IsPensionable,
		IsActive:      c.IsActive,
	}
}

// ========== SALARY GRADE DTOs ==========

type CreateGradeRequest struct {
	Level        string          `json:"level"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	Description  *string         `json:"description,omitempty"`
	ComponentIDs []string        `json:"component_ids"`
}

func (r *CreateGradeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Level) {
		errs = append(errs, validator.ValidationError{Field: "level", Message: "is required"})
	}
	if !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be greater than zero"})
	}
	errs = append(errs, validateIDList("component_ids", r.ComponentIDs)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateGradeRequest replaces the component list only when ComponentIDs is non-nil.
type UpdateGradeRequest struct {
	ID           string           `json:"-"`
	Level        *string          `json:"level,omitempty"`
	BasicSalary  *decimal.Decimal `json:"basic_salary,omitempty"`
	Description  *string          `json:"description,omitempty"`
	ComponentIDs []string         `json:"component_ids,omitempty"`
}

func (r *UpdateGradeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Level != nil && validator.IsEmpty(*r.Level) {
		errs = append(errs, validator.ValidationError{Field: "level", Message: "must not be empty"})
	}
	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be greater than zero"})
	}
	errs = append(errs, validateIDList("component_ids", r.ComponentIDs)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GradeResponse struct {
	ID          string              `json:"id"`
	Level       string              `json:"level"`
	BasicSalary decimal.Decimal     `json:"basic_salary"`
	Description *string             `json:"description,omitempty"`
	Components  []ComponentResponse `json:"components"`
}

func ToGradeResponse(g SalaryGrade) GradeResponse {
	components := make([]ComponentResponse, 0, len(g.Components))
	for _, c := range g.Components {
		components = append(components, ToComponentResponse(c))
	}
	return GradeResponse{
		ID:          g.ID,
		Level:       g.Level,
		BasicSalary: g.BasicSalary,
		Description: g.Description,
		Components:  components,
	}
}

// ========== BONUS DTOs ==========

type CreateBonusRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   *string         `json:"payment_date,omitempty"`
	EffectiveDate string          `json:"effective_date"`
	ExpiryDate    *string         `json:"expiry_date,omitempty"`
	IsTaxable     *bool           `json:"is_taxable,omitempty"`
	Description   *string         `json:"description,omitempty"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid id"})
	}
	if !BonusType(r.Type).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of performance, thirteenth_month, special, other"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	effective, ok := validator.IsValidDate(r.EffectiveDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be YYYY-MM-DD"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.ExpiryDate != nil {
		expiry, valid := validator.IsValidDate(*r.ExpiryDate)
		if !valid {
			errs = append(errs, validator.ValidationError{Field: "expiry_date", Message: "must be YYYY-MM-DD"})
		} else if ok && expiry.Before(effective) {
			errs = append(errs, validator.ValidationError{Field: "expiry_date", Message: "must not be before effective_date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToBonus builds a pending bonus. Call Validate first.
func (r *CreateBonusRequest) ToBonus() Bonus {
	effective, _ := validator.IsValidDate(r.EffectiveDate)
	b := Bonus{
		EmployeeID:     r.EmployeeID,
		Type:           BonusType(r.Type),
		Amount:         r.Amount,
		EffectiveDate:  effective,
		ApprovalStatus: ApprovalPending,
		IsTaxable:      true,
		Description:    r.Description,
	}
	if r.IsTaxable != nil {
		b.IsTaxable = *r.IsTaxable
	}
	if r.PaymentDate != nil {
		d, _ := validator.IsValidDate(*r.PaymentDate)
		b.PaymentDate = &d
	}
	if r.ExpiryDate != nil {
		d, _ := validator.IsValidDate(*r.ExpiryDate)
		b.ExpiryDate = &d
	}
	return b
}

type BonusResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    *string         `json:"payment_date,omitempty"`
	EffectiveDate  string          `json:"effective_date"`
	ExpiryDate     *string         `json:"expiry_date,omitempty"`
	ApprovalStatus string          `json:"approval_status"`
	IsTaxable      bool            `json:"is_taxable"`
	Description    *string         `json:"description,omitempty"`
	ReviewedBy     *string         `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty"`
}

func ToBonusResponse(b Bonus) BonusResponse {
	return BonusResponse{
		ID:             b.ID,
		EmployeeID:     b.EmployeeID,
		Type:           string(b.Type),
		Amount:         b.Amount,
		PaymentDate:    formatDate(b.PaymentDate),
		EffectiveDate:  b.EffectiveDate.Format(time.DateOnly),
		ExpiryDate:     formatDate(b.ExpiryDate),
		ApprovalStatus: string(b.ApprovalStatus),
		IsTaxable:      b.IsTaxable,
		Description:    b.Description,
		ReviewedBy:     b.ReviewedBy,
		ReviewedAt:     b.ReviewedAt,
	}
}

// ========== EMPLOYEE DEDUCTION DTOs ==========

type CreateDeductionRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	StartMonth  int             `json:"start_month"`
	StartYear   int             `json:"start_year"`
	EndMonth    *int            `json:"end_month,omitempty"`
	EndYear     *int            `json:"end_year,omitempty"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid id"})
	}
	if !DeductionKind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of loan, union_dues, other"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if !validator.IsValidPeriod(r.StartMonth, r.StartYear) {
		errs = append(errs, validator.ValidationError{Field: "start_month", Message: "start period is invalid"})
	}
	if (r.EndMonth == nil) != (r.EndYear == nil) {
		errs = append(errs, validator.ValidationError{Field: "end_month", Message: "end_month and end_year go together"})
	} else if r.EndMonth != nil {
		end := Period{Month: *r.EndMonth, Year: *r.EndYear}
		if !validator.IsValidPeriod(end.Month, end.Year) {
			errs = append(errs, validator.ValidationError{Field: "end_month", Message: "end period is invalid"})
		} else if end.Before(Period{Month: r.StartMonth, Year: r.StartYear}) {
			errs = append(errs, validator.ValidationError{Field: "end_month", Message: "end period must not precede start period"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateDeductionRequest) ToDeduction() EmployeeDeduction {
	d := EmployeeDeduction{
		EmployeeID:  r.EmployeeID,
		Kind:        DeductionKind(r.Kind),
		Description: r.Description,
		Amount:      r.Amount,
		StartPeriod: Period{Month: r.StartMonth, Year: r.StartYear},
		IsActive:    true,
	}
	if r.EndMonth != nil && r.EndYear != nil {
		d.EndPeriod = &Period{Month: *r.EndMonth, Year: *r.EndYear}
	}
	return d
}

type DeductionResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	StartPeriod string          `json:"start_period"`
	EndPeriod   *string         `json:"end_period,omitempty"`
	IsActive    bool            `json:"is_active"`
}

func ToDeductionResponse(d EmployeeDeduction) DeductionResponse {
	resp := DeductionResponse{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		Kind:        string(d.Kind),
		Description: d.Description,
		Amount:      d.Amount,
		StartPeriod: d.StartPeriod.String(),
		IsActive:    d.IsActive,
	}
	if d.EndPeriod != nil {
		end := d.EndPeriod.String()
		resp.EndPeriod = &end
	}
	return resp
}

// ========== PAYROLL RUN DTOs ==========

type RunPayrollRequest struct {
	PeriodMonth  int      `json:"period_month"`
	PeriodYear   int      `json:"period_year"`
	Frequency    string   `json:"frequency,omitempty"`
	DepartmentID *string  `json:"department_id,omitempty"`
	EmployeeIDs  []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPeriod(1, r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 9999"})
	}
	if r.Frequency != "" && r.Frequency != string(FrequencyMonthly) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be 'monthly'"})
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "must be a valid id"})
	}
	errs = append(errs, validateIDList("employee_ids", r.EmployeeIDs)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *RunPayrollRequest) Period() Period {
	return Period{Month: r.PeriodMonth, Year: r.PeriodYear}
}

type ItemStatus string

const (
	ItemProcessed ItemStatus = "processed"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

// BatchItem is the outcome for one id in a batch operation.
type BatchItem struct {
	ID     string     `json:"id"`
	Status ItemStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// BatchResult counts per-item outcomes. Items are independent: one
// failure never rolls back another item.
type BatchResult struct {
	Processed int         `json:"processed"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

func (b *BatchResult) Add(id string, status ItemStatus, reason string) {
	switch status {
	case ItemProcessed:
		b.Processed++
	case ItemSkipped:
		b.Skipped++
	case ItemFailed:
		b.Failed++
	}
	b.Items = append(b.Items, BatchItem{ID: id, Status: status, Reason: reason})
}

type RunPayrollResult struct {
	Period    string      `json:"period"`
	RecordIDs []string    `json:"record_ids"`
	Result    BatchResult `json:"result"`
}

// ========== TRANSITION DTOs ==========

type TransitionRequest struct {
	ID      string  `json:"-"`
	Action  string  `json:"action"`
	Remarks *string `json:"remarks,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid id"})
	}
	if _, ok := Action(r.Action).Target(); !ok {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "unknown action"})
	}
	if Action(r.Action) == ActionReject && (r.Remarks == nil || validator.IsEmpty(*r.Remarks)) {
		errs = append(errs, validator.ValidationError{Field: "remarks", Message: "is required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkAsPaidRequest struct {
	RecordIDs   []string `json:"record_ids"`
	PaymentDate *string  `json:"payment_date,omitempty"`
	Remarks     *string  `json:"remarks,omitempty"`
}

func (r *MarkAsPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "record_ids", Message: "at least one record is required"})
	}
	errs = append(errs, validateIDList("record_ids", r.RecordIDs)...)
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== PAYROLL RECORD DTOs ==========

type PayrollFilter struct {
	PeriodMonth  *int    `json:"period_month,omitempty"`
	PeriodYear   *int    `json:"period_year,omitempty"`
	Status       *string `json:"status,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	SortBy       string  `json:"sort_by"`
	SortOrder    string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if f.Status != nil && !PayrollStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f *PayrollFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}

type TotalsResponse struct {
	BasicSalary        decimal.Decimal `json:"basic_salary"`
	TotalAllowances    decimal.Decimal `json:"total_allowances"`
	TotalBonuses       decimal.Decimal `json:"total_bonuses"`
	OvertimeAmount     decimal.Decimal `json:"overtime_amount"`
	GrossEarnings      decimal.Decimal `json:"gross_earnings"`
	ConsolidatedRelief decimal.Decimal `json:"consolidated_relief"`
	TaxableIncome      decimal.Decimal `json:"taxable_income"`
	Tax                decimal.Decimal `json:"tax"`
	Pension            decimal.Decimal `json:"pension"`
	NHF                decimal.Decimal `json:"nhf"`
	TotalLoans         decimal.Decimal `json:"total_loans"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	NetPay             decimal.Decimal `json:"net_pay"`
}

type ApprovalEntryResponse struct {
	Level      int       `json:"level"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	UserID     string    `json:"user_id"`
	Remarks    *string   `json:"remarks,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToApprovalEntryResponse(e ApprovalEntry) ApprovalEntryResponse {
	return ApprovalEntryResponse{
		Level:      e.Level,
		Action:     string(e.Action),
		FromStatus: string(e.FromStatus),
		ToStatus:   string(e.ToStatus),
		UserID:     e.UserID,
		Remarks:    e.Remarks,
		CreatedAt:  e.CreatedAt,
	}
}

type PayrollRecordResponse struct {
	ID           string                  `json:"id"`
	EmployeeID   string                  `json:"employee_id"`
	EmployeeName *string                 `json:"employee_name,omitempty"`
	EmployeeCode *string                 `json:"employee_code,omitempty"`
	DepartmentID *string                 `json:"department_id,omitempty"`
	GradeID      string                  `json:"grade_id"`
	Period       string                  `json:"period"`
	PeriodMonth  int                     `json:"period_month"`
	PeriodYear   int                     `json:"period_year"`
	Frequency    string                  `json:"frequency"`
	Allowances   []Line                  `json:"allowances"`
	Bonuses      []Line                  `json:"bonuses"`
	Deductions   []Line                  `json:"deductions"`
	Totals       TotalsResponse          `json:"totals"`
	Status       string                  `json:"status"`
	PaymentDate  *string                 `json:"payment_date,omitempty"`
	PaidBy       *string                 `json:"paid_by,omitempty"`
	Notes        *string                 `json:"notes,omitempty"`
	History      []ApprovalEntryResponse `json:"history,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func ToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		EmployeeCode: r.EmployeeCode,
		DepartmentID: r.DepartmentID,
		GradeID:      r.GradeID,
		Period:       r.Period.String(),
		PeriodMonth:  r.Period.Month,
		PeriodYear:   r.Period.Year,
		Frequency:    string(r.Frequency),
		Allowances:   nonNilLines(r.Allowances),
		Bonuses:      nonNilLines(r.Bonuses),
		Deductions:   nonNilLines(r.Deductions),
		Totals: TotalsResponse{
			BasicSalary:        r.BasicSalary,
			TotalAllowances:    r.TotalAllowances,
			TotalBonuses:       r.TotalBonuses,
			OvertimeAmount:     r.OvertimeAmount,
			GrossEarnings:      r.GrossEarnings,
			ConsolidatedRelief: r.ConsolidatedRelief,
			TaxableIncome:      r.TaxableIncome,
			Tax:                r.Tax,
			Pension:            r.Pension,
			NHF:                r.NHF,
			TotalLoans:         r.TotalLoans,
			OtherDeductions:    r.OtherDeductions,
			TotalDeductions:    r.TotalDeductions,
			NetPay:             r.NetPay,
		},
		Status:      string(r.Status),
		PaymentDate: formatDate(r.PaymentDate),
		PaidBy:      r.PaidBy,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, h := range r.History {
		resp.History = append(resp.History, ToApprovalEntryResponse(h))
	}
	return resp
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	RecordID        string          `json:"record_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	EmployeeCode    string          `json:"employee_code"`
	Period          string          `json:"period"`
	Currency        string          `json:"currency"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	Earnings        []Line          `json:"earnings"`
	Deductions      []Line          `json:"deductions"`
	GrossEarnings   decimal.Decimal `json:"gross_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	Status          string          `json:"status"`
	PaymentDate     *string         `json:"payment_date,omitempty"`
}

// ToPayslip flattens a record into earnings and deduction lines.
func ToPayslip(r PayrollRecord, currency string) PayslipResponse {
	earnings := make([]Line, 0, len(r.Allowances)+len(r.Bonuses)+1)
	earnings = append(earnings, r.Allowances...)
	earnings = append(earnings, r.Bonuses...)
	if r.OvertimeAmount.IsPositive() {
		earnings = append(earnings, Line{Name: "Overtime", Kind: LineOvertime, Amount: r.OvertimeAmount, Taxable: true})
	}

	slip := PayslipResponse{
		RecordID:        r.ID,
		EmployeeID:      r.EmployeeID,
		Period:          r.Period.String(),
		Currency:        currency,
		BasicSalary:     r.BasicSalary,
		Earnings:        earnings,
		Deductions:      nonNilLines(r.Deductions),
		GrossEarnings:   r.GrossEarnings,
		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,
		Status:          string(r.Status),
		PaymentDate:     formatDate(r.PaymentDate),
	}
	if r.EmployeeName != nil {
		slip.EmployeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		slip.EmployeeCode = *r.EmployeeCode
	}
	return slip
}

// ========== PERIOD DTOs ==========

type PayrollPeriodResponse struct {
	Period         string          `json:"period"`
	PeriodMonth    int             `json:"period_month"`
	PeriodYear     int             `json:"period_year"`
	EmployeeCount  int             `json:"employee_count"`
	TotalNetSalary decimal.Decimal `json:"total_net_salary"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func ToPeriodResponse(p PayrollPeriod) PayrollPeriodResponse {
	return PayrollPeriodResponse{
		Period:         p.Period.String(),
		PeriodMonth:    p.Month,
		PeriodYear:     p.Year,
		EmployeeCount:  p.EmployeeCount,
		TotalNetSalary: p.TotalNetSalary,
		UpdatedAt:      p.UpdatedAt,
	}
}

func validateIDList(field string, ids []string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "contains an invalid id: " + id})
			continue
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, validator.ValidationError{Field: field, Message: "contains a duplicate id: " + id})
			continue
		}
		seen[id] = struct{}{}
	}
	return errs
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func nonNilLines(lines []Line) []Line {
	if lines == nil {
		return []Line{}
	}
	return lines
}
