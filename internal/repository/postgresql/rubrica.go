package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type rubricaRepository struct {
	db *database.DB
}

func NewRubricaRepository(db *database.DB) payroll.RubricaRepository {
	return &rubricaRepository{db: db}
}

const rubricaColumns = `
	id, company_id, codigo, nome, tipo, categoria, valor_fixo, percentual,
	base_calculo, ordem_calculo, is_obrigatorio, is_visivel, is_ativo,
	created_at, updated_at
`

func scanRubrica(row pgx.Row) (payroll.Rubrica, error) {
	var ru payroll.Rubrica
	err := row.Scan(
		&ru.ID, &ru.CompanyID, &ru.Codigo, &ru.Nome, &ru.Tipo, &ru.Categoria, &ru.ValorFixo, &ru.Percentual,
		&ru.BaseCalculo, &ru.OrdemCalculo, &ru.IsObrigatorio, &ru.IsVisivel, &ru.IsAtivo,
		&ru.CreatedAt, &ru.UpdatedAt,
	)
	return ru, err
}

func (r *rubricaRepository) Create(ctx context.Context, rubrica payroll.Rubrica) (payroll.Rubrica, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_rubricas (
			company_id, codigo, nome, tipo, categoria, valor_fixo, percentual,
			base_calculo, ordem_calculo, is_obrigatorio, is_visivel, is_ativo
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + rubricaColumns

	created, err := scanRubrica(q.QueryRow(ctx, query,
		rubrica.CompanyID, rubrica.Codigo, rubrica.Nome, rubrica.Tipo, rubrica.Categoria,
		rubrica.ValorFixo, rubrica.Percentual, rubrica.BaseCalculo, rubrica.OrdemCalculo,
		rubrica.IsObrigatorio, rubrica.IsVisivel, rubrica.IsAtivo,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Rubrica{}, payroll.ErrRubricaCodigoExists
		}
		return payroll.Rubrica{}, fmt.Errorf("failed to create rubrica: %w", err)
	}

	return created, nil
}

func (r *rubricaRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Rubrica, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubricaColumns + `
		FROM payroll_rubricas
		WHERE id = $1 AND company_id = $2`

	rubrica, err := scanRubrica(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Rubrica{}, payroll.ErrRubricaNotFound
		}
		return payroll.Rubrica{}, fmt.Errorf("failed to get rubrica: %w", err)
	}

	return rubrica, nil
}

func (r *rubricaRepository) GetActiveByCompanyID(ctx context.Context, companyID string) ([]payroll.Rubrica, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubricaColumns + `
		FROM payroll_rubricas
		WHERE company_id = $1 AND is_ativo = true
		ORDER BY ordem_calculo, codigo`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rubricas: %w", err)
	}
	defer rows.Close()

	var rubricas []payroll.Rubrica
	for rows.Next() {
		rubrica, err := scanRubrica(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rubrica: %w", err)
		}
		rubricas = append(rubricas, rubrica)
	}

	return rubricas, nil
}

func (r *rubricaRepository) Update(ctx context.Context, companyID string, req payroll.UpdateRubricaRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_rubricas
		SET nome = COALESCE($1, nome),
			valor_fixo = COALESCE($2, valor_fixo),
			percentual = COALESCE($3, percentual),
			ordem_calculo = COALESCE($4, ordem_calculo),
			is_obrigatorio = COALESCE($5, is_obrigatorio),
			is_visivel = COALESCE($6, is_visivel),
			is_ativo = COALESCE($7, is_ativo),
			updated_at = NOW()
		WHERE id = $8 AND company_id = $9`

	tag, err := q.Exec(ctx, query,
		req.Nome, req.ValorFixo, req.Percentual, req.OrdemCalculo,
		req.IsObrigatorio, req.IsVisivel, req.IsAtivo, req.ID, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rubrica: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRubricaNotFound
	}

	return nil
}

func (r *rubricaRepository) Deactivate(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_rubricas
		SET is_ativo = false, updated_at = NOW()
		WHERE id = $1 AND company_id = $2`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to deactivate rubrica: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRubricaNotFound
	}

	return nil
}
