package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calculationRepository struct {
	db *database.DB
}

func NewCalculationRepository(db *database.DB) payroll.CalculationRepository {
	return &calculationRepository{db: db}
}

const calculationColumns = `
	id, company_id, employee_id, period, calculation_type, calculation_data,
	total_proventos, total_descontos, salario_bruto, salario_liquido, status,
	calculated_at, approved_by, approved_at, processed_at, notes,
	created_at, updated_at
`

func scanCalculation(row pgx.Row) (payroll.Calculation, error) {
	var c payroll.Calculation
	var calcData []byte
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.EmployeeID, &c.Period, &c.CalculationType, &calcData,
		&c.TotalProventos, &c.TotalDescontos, &c.SalarioBruto, &c.SalarioLiquido, &c.Status,
		&c.CalculatedAt, &c.ApprovedBy, &c.ApprovedAt, &c.ProcessedAt, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return payroll.Calculation{}, err
	}
	if len(calcData) > 0 {
		if err := json.Unmarshal(calcData, &c.CalculationData); err != nil {
			return payroll.Calculation{}, fmt.Errorf("failed to decode calculation_data: %w", err)
		}
	}
	return c, nil
}

const calculationItemColumns = `
	id, calculation_id, rubrica_id, codigo, nome, tipo, valor_base, percentual,
	valor_calculado, quantidade, unidade, formula_aplicada, ordem_calculo,
	is_manual, created_at, updated_at
`

func scanCalculationItem(row pgx.Row) (payroll.CalculationItem, error) {
	var it payroll.CalculationItem
	err := row.Scan(
		&it.ID, &it.CalculationID, &it.RubricaID, &it.Codigo, &it.Nome, &it.Tipo,
		&it.ValorBase, &it.Percentual, &it.ValorCalculado, &it.Quantidade, &it.Unidade,
		&it.FormulaAplicada, &it.OrdemCalculo, &it.IsManual, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

func (r *calculationRepository) Replace(ctx context.Context, calc payroll.Calculation, items []payroll.CalculationItem) (payroll.Calculation, []payroll.CalculationItem, error) {
	calcData, err := json.Marshal(calc.CalculationData)
	if err != nil {
		return payroll.Calculation{}, nil, fmt.Errorf("failed to encode calculation_data: %w", err)
	}

	var created payroll.Calculation
	var createdItems []payroll.CalculationItem

	err = WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		// Items go with their calculation via ON DELETE CASCADE.
		deleteQuery := `
			DELETE FROM payroll_calculations
			WHERE company_id = $1 AND employee_id = $2 AND period = $3`
		if _, err := q.Exec(txCtx, deleteQuery, calc.CompanyID, calc.EmployeeID, calc.Period); err != nil {
			return fmt.Errorf("failed to delete prior calculation: %w", err)
		}

		insertQuery := `
			INSERT INTO payroll_calculations (
				company_id, employee_id, period, calculation_type, calculation_data,
				total_proventos, total_descontos, salario_bruto, salario_liquido,
				status, calculated_at, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING ` + calculationColumns

		created, err = scanCalculation(q.QueryRow(txCtx, insertQuery,
			calc.CompanyID, calc.EmployeeID, calc.Period, calc.CalculationType, calcData,
			calc.TotalProventos, calc.TotalDescontos, calc.SalarioBruto, calc.SalarioLiquido,
			calc.Status, calc.CalculatedAt, calc.Notes,
		))
		if err != nil {
			return fmt.Errorf("failed to insert calculation: %w", err)
		}

		itemQuery := `
			INSERT INTO payroll_calculation_items (
				calculation_id, rubrica_id, codigo, nome, tipo, valor_base, percentual,
				valor_calculado, quantidade, unidade, formula_aplicada, ordem_calculo, is_manual
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING ` + calculationItemColumns

		for _, item := range items {
			inserted, err := scanCalculationItem(q.QueryRow(txCtx, itemQuery,
				created.ID, item.RubricaID, item.Codigo, item.Nome, item.Tipo,
				item.ValorBase, item.Percentual, item.ValorCalculado, item.Quantidade,
				item.Unidade, item.FormulaAplicada, item.OrdemCalculo, item.IsManual,
			))
			if err != nil {
				return fmt.Errorf("failed to insert calculation item %s: %w", item.Codigo, err)
			}
			createdItems = append(createdItems, inserted)
		}

		return nil
	})
	if err != nil {
		return payroll.Calculation{}, nil, err
	}

	return created, createdItems, nil
}

func (r *calculationRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Calculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + calculationColumns + `
		FROM payroll_calculations
		WHERE id = $1 AND company_id = $2`

	calc, err := scanCalculation(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Calculation{}, payroll.ErrCalculationNotFound
		}
		return payroll.Calculation{}, fmt.Errorf("failed to get calculation: %w", err)
	}

	return calc, nil
}

func (r *calculationRepository) GetItems(ctx context.Context, calculationID string) ([]payroll.CalculationItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + calculationItemColumns + `
		FROM payroll_calculation_items
		WHERE calculation_id = $1
		ORDER BY ordem_calculo, codigo`

	rows, err := q.Query(ctx, query, calculationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation items: %w", err)
	}
	defer rows.Close()

	var items []payroll.CalculationItem
	for rows.Next() {
		item, err := scanCalculationItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *calculationRepository) GetByEmployeePeriod(ctx context.Context, companyID, employeeID, period string) (payroll.Calculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + calculationColumns + `
		FROM payroll_calculations
		WHERE company_id = $1 AND employee_id = $2 AND period = $3`

	calc, err := scanCalculation(q.QueryRow(ctx, query, companyID, employeeID, period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Calculation{}, payroll.ErrCalculationNotFound
		}
		return payroll.Calculation{}, fmt.Errorf("failed to get calculation: %w", err)
	}

	return calc, nil
}

func (r *calculationRepository) List(ctx context.Context, companyID string, filter payroll.CalculationFilter) ([]payroll.Calculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + calculationColumns + `
		FROM payroll_calculations
		WHERE company_id = $1`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Period != nil {
		query += fmt.Sprintf(" AND period = $%d", argIdx)
		args = append(args, *filter.Period)
		argIdx++
	}
	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	query += " ORDER BY period DESC, created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var calcs []payroll.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		calcs = append(calcs, calc)
	}

	return calcs, nil
}

func (r *calculationRepository) UpdateStatus(ctx context.Context, id string, companyID string, status payroll.CalculationStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_calculations
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3`

	tag, err := q.Exec(ctx, query, status, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update calculation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCalculationNotFound
	}

	return nil
}

func (r *calculationRepository) Approve(ctx context.Context, id string, companyID string, approvedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_calculations
		SET status = 'approved', approved_by = $1, approved_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = 'calculated'`

	tag, err := q.Exec(ctx, query, approvedBy, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to approve calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCalculationNotCalculated
	}

	return nil
}
