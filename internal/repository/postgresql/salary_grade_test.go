package postgresql

import (
	"context"
	"regexp"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeRepository_GetByID_ComponentsInPositionOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM salary_grades WHERE id = $1`)).
		WithArgs("grade-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "level", "basic_salary", "description", "created_at", "updated_at"}).
			AddRow("grade-1", "L3", "250000.00", (*string)(nil), testTime, testTime))

	components := pgxmock.NewRows(append([]string{"grade_id"}, componentColumnNames...)).
		AddRow("grade-1", "c-2", "Transport", payroll.ComponentTypeAllowance, payroll.CalculationFixed, "15000",
			(*string)(nil), true, false, true, testTime, testTime).
		AddRow("grade-1", "c-1", "Housing", payroll.ComponentTypeAllowance, payroll.CalculationPercentage, "20",
			(*string)(nil), true, true, true, testTime, testTime)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE gc.grade_id = $1 ORDER BY gc.position`)).
		WithArgs("grade-1").
		WillReturnRows(components)

	g, err := repo.GetByID(context.Background(), "grade-1")
	require.NoError(t, err)
	assert.Equal(t, "250000", g.BasicSalary.String())
	require.Len(t, g.Components, 2)
	assert.Equal(t, "Transport", g.Components[0].Name)
	assert.Equal(t, "Housing", g.Components[1].Name)
}

func TestGradeRepository_ReplaceComponents(t *testing.T) {
	t.Run("positions follow input order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGradeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM grade_components WHERE grade_id = $1`)).
			WithArgs("grade-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec(regexp.QuoteMeta(`FROM UNNEST($2::uuid[], $3::int[])`)).
			WithArgs("grade-1", []string{"c-2", "c-1"}, []int32{0, 1}).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))

		require.NoError(t, repo.ReplaceComponents(context.Background(), "grade-1", []string{"c-2", "c-1"}))
	})

	t.Run("empty list only clears", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGradeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM grade_components WHERE grade_id = $1`)).
			WithArgs("grade-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.ReplaceComponents(context.Background(), "grade-1", nil))
	})

	t.Run("unknown component", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGradeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM grade_components WHERE grade_id = $1`)).
			WithArgs("grade-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO grade_components`)).
			WithArgs("grade-1", []string{"c-404"}, []int32{0}).
			WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

		err := repo.ReplaceComponents(context.Background(), "grade-1", []string{"c-404"})
		assert.ErrorIs(t, err, payroll.ErrPayrollComponentNotFound)
	})
}
