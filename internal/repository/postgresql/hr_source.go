package postgresql

import (
	"context"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/validator"
)

type hrSourceRepository struct {
	db *database.DB
}

// NewHRSourceRepository gives event consolidation read access to the raw
// time clock, benefit, absence and allowance tables.
func NewHRSourceRepository(db *database.DB) employee.HRSourceRepository {
	return &hrSourceRepository{db: db}
}

func (r *hrSourceRepository) GetTimeRecords(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	start, end, ok := validator.PeriodBounds(period)
	if !ok {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	query := `
		SELECT id, company_id, employee_id, date, check_in, check_out,
			break_start, break_end, tipo, justificativa
		FROM time_records
		WHERE company_id = $1 AND date >= $2 AND date <= $3`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += " AND employee_id = ANY($4)"
		args = append(args, employeeIDs)
	}
	query += " ORDER BY employee_id, date"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get time records: %w", err)
	}
	defer rows.Close()

	var records []employee.TimeRecord
	for rows.Next() {
		var tr employee.TimeRecord
		err := rows.Scan(
			&tr.ID, &tr.CompanyID, &tr.EmployeeID, &tr.Date, &tr.CheckIn, &tr.CheckOut,
			&tr.BreakStart, &tr.BreakEnd, &tr.Tipo, &tr.Justificativa,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time record: %w", err)
		}
		records = append(records, tr)
	}

	return records, nil
}

func (r *hrSourceRepository) GetActiveBenefits(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.EmployeeBenefit, error) {
	q := GetQuerier(ctx, r.db)

	start, end, ok := validator.PeriodBounds(period)
	if !ok {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	// A benefit counts for the period when its validity window overlaps it.
	query := `
		SELECT eb.id, eb.company_id, eb.employee_id, eb.benefit_id,
			b.nome, b.tipo, b.valor, b.percentual,
			e.salario_base, eb.data_inicio, eb.data_fim, eb.is_active
		FROM employee_benefits eb
		JOIN benefits b ON b.id = eb.benefit_id
		JOIN employees e ON e.id = eb.employee_id
		WHERE eb.company_id = $1
			AND eb.is_active = true
			AND eb.data_inicio <= $3
			AND (eb.data_fim IS NULL OR eb.data_fim >= $2)`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += " AND eb.employee_id = ANY($4)"
		args = append(args, employeeIDs)
	}
	query += " ORDER BY eb.employee_id, b.nome"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get active benefits: %w", err)
	}
	defer rows.Close()

	var benefits []employee.EmployeeBenefit
	for rows.Next() {
		var eb employee.EmployeeBenefit
		err := rows.Scan(
			&eb.ID, &eb.CompanyID, &eb.EmployeeID, &eb.BenefitID,
			&eb.BenefitNome, &eb.BenefitTipo, &eb.Valor, &eb.Percentual,
			&eb.SalarioBase, &eb.DataInicio, &eb.DataFim, &eb.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee benefit: %w", err)
		}
		benefits = append(benefits, eb)
	}

	return benefits, nil
}

func (r *hrSourceRepository) GetAbsences(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.Absence, error) {
	q := GetQuerier(ctx, r.db)

	start, end, ok := validator.PeriodBounds(period)
	if !ok {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	query := `
		SELECT ea.id, ea.company_id, ea.employee_id, ea.absence_type_id,
			at.nome, ea.data_inicio, ea.data_fim, ea.motivo, ea.atestado_medico
		FROM employee_absences ea
		JOIN absence_types at ON at.id = ea.absence_type_id
		WHERE ea.company_id = $1
			AND ea.data_inicio <= $3
			AND ea.data_fim >= $2`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += " AND ea.employee_id = ANY($4)"
		args = append(args, employeeIDs)
	}
	query += " ORDER BY ea.employee_id, ea.data_inicio"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get absences: %w", err)
	}
	defer rows.Close()

	var absences []employee.Absence
	for rows.Next() {
		var a employee.Absence
		err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.AbsenceTypeID,
			&a.AbsenceTypeName, &a.DataInicio, &a.DataFim, &a.Motivo, &a.AtestadoMedico,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}

	return absences, nil
}

func (r *hrSourceRepository) GetActiveAllowances(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	start, end, ok := validator.PeriodBounds(period)
	if !ok {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	query := `
		SELECT ea.id, ea.company_id, ea.employee_id, ea.allowance_type_id,
			at.nome, ea.valor, ea.percentual, ea.data_inicio, ea.data_fim,
			ea.observacoes, ea.is_active
		FROM employee_allowances ea
		JOIN allowance_types at ON at.id = ea.allowance_type_id
		WHERE ea.company_id = $1
			AND ea.is_active = true
			AND ea.data_inicio <= $3
			AND (ea.data_fim IS NULL OR ea.data_fim >= $2)`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += " AND ea.employee_id = ANY($4)"
		args = append(args, employeeIDs)
	}
	query += " ORDER BY ea.employee_id, at.nome"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get active allowances: %w", err)
	}
	defer rows.Close()

	var allowances []employee.Allowance
	for rows.Next() {
		var a employee.Allowance
		err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.AllowanceTypeID,
			&a.AllowanceTypeName, &a.Valor, &a.Percentual, &a.DataInicio, &a.DataFim,
			&a.Observacoes, &a.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}

	return allowances, nil
}
