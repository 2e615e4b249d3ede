package postgresql

import (
	"context"
	"regexp"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_Update_BuildsSetClause(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	name := "Ada Obi"
	cleared := ""
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE employees SET updated_at = NOW(), full_name = $2, nhf_number = $3 WHERE id = $1`)).
		WithArgs("emp-1", "Ada Obi", nil).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "emp-1", employee.UpdateEmployeeRequest{
		FullName:  &name,
		NHFNumber: &cleared,
	})
	require.NoError(t, err)
}

func TestEmployeeRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE employees SET employment_status = $2`)).
		WithArgs("emp-404", "inactive").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "emp-404", employee.EmploymentStatusInactive)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE e.id = $1`)).
		WithArgs("emp-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "emp-404")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_List_SearchAndPaging(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeRepository(db)

	search := "  obi "
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM employees e WHERE 1 = 1 AND (e.full_name ILIKE $1 OR e.employee_code ILIKE $1)`)).
		WithArgs("%obi%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY e.employee_code LIMIT $2 OFFSET $3`)).
		WithArgs("%obi%", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	employees, total, err := repo.List(context.Background(), employee.EmployeeFilter{Search: &search})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, employees)
}
