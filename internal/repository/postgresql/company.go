package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/company"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, cnpj, razao_social, created_at, updated_at
		FROM companies
		WHERE id = $1`

	var c company.Company
	err := q.QueryRow(ctx, query, id).Scan(&c.ID, &c.CNPJ, &c.RazaoSocial, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}

	return c, nil
}
