package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taxRepository struct {
	db *database.DB
}

func NewTaxRepository(db *database.DB) payroll.TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) GetINSSBrackets(ctx context.Context, companyID string) ([]payroll.INSSBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, salario_inicio, salario_fim, aliquota
		FROM inss_brackets
		WHERE company_id = $1
		ORDER BY salario_inicio`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inss brackets: %w", err)
	}
	defer rows.Close()

	var brackets []payroll.INSSBracket
	for rows.Next() {
		var b payroll.INSSBracket
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.SalarioInicio, &b.SalarioFim, &b.Aliquota); err != nil {
			return nil, fmt.Errorf("failed to scan inss bracket: %w", err)
		}
		brackets = append(brackets, b)
	}

	return brackets, nil
}

func (r *taxRepository) GetIRRFBrackets(ctx context.Context, companyID string) ([]payroll.IRRFBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, salario_inicio, salario_fim, aliquota, parcela_dedutivel
		FROM irrf_brackets
		WHERE company_id = $1
		ORDER BY salario_inicio`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get irrf brackets: %w", err)
	}
	defer rows.Close()

	var brackets []payroll.IRRFBracket
	for rows.Next() {
		var b payroll.IRRFBracket
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.SalarioInicio, &b.SalarioFim, &b.Aliquota, &b.ParcelaDedutivel); err != nil {
			return nil, fmt.Errorf("failed to scan irrf bracket: %w", err)
		}
		brackets = append(brackets, b)
	}

	return brackets, nil
}

func (r *taxRepository) GetFGTSConfig(ctx context.Context, companyID string) (payroll.FGTSConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, aliquota
		FROM fgts_config
		WHERE company_id = $1`

	var cfg payroll.FGTSConfig
	err := q.QueryRow(ctx, query, companyID).Scan(&cfg.ID, &cfg.CompanyID, &cfg.Aliquota)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.FGTSConfig{}, payroll.ErrFGTSConfigNotFound
		}
		return payroll.FGTSConfig{}, fmt.Errorf("failed to get fgts config: %w", err)
	}

	return cfg, nil
}
