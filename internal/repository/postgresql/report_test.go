package postgresql

import (
	"context"
	"regexp"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/report"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_ListRecords(t *testing.T) {
	month := 3
	dept := "dep-1"

	tests := []struct {
		name  string
		scope report.Scope
		where string
		args  []interface{}
	}{
		{
			name:  "whole year",
			scope: report.Scope{Year: 2024},
			where: `WHERE pr.period_year = $1 ORDER BY pr.period_month, e.employee_code`,
			args:  []interface{}{2024},
		},
		{
			name:  "month and department",
			scope: report.Scope{Year: 2024, Month: &month, DepartmentID: &dept},
			where: `WHERE pr.period_year = $1 AND pr.period_month = $2 AND pr.department_id = $3 ORDER BY`,
			args:  []interface{}{2024, 3, "dep-1"},
		},
		{
			name:  "department only",
			scope: report.Scope{Year: 2024, DepartmentID: &dept},
			where: `WHERE pr.period_year = $1 AND pr.department_id = $2 ORDER BY`,
			args:  []interface{}{2024, "dep-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewReportRepository(db)

			rows := pgxmock.NewRows(payrollRecordColumnNames)
			addRecordRow(rows, "rec-1", &dept, payroll.StatusPaid, "100000", "20000", "7500")
			addRecordRow(rows, "rec-2", nil, payroll.StatusCancelled, "80000", "0", "0")
			mock.ExpectQuery(regexp.QuoteMeta(tt.where)).
				WithArgs(tt.args...).
				WillReturnRows(rows)

			records, err := repo.ListRecords(context.Background(), tt.scope)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, payroll.StatusCancelled, records[1].Status)
		})
	}
}
