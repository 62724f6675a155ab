package payroll

import "context"

// RubricaRepository defines data access for pay code definitions.
type RubricaRepository interface {
	Create(ctx context.Context, rubrica Rubrica) (Rubrica, error)
	GetByID(ctx context.Context, id string, companyID string) (Rubrica, error)
	// GetActiveByCompanyID returns active rubricas sorted by ordem_calculo.
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Rubrica, error)
	Update(ctx context.Context, companyID string, req UpdateRubricaRequest) error
	Deactivate(ctx context.Context, id string, companyID string) error
}

// CalculationRepository defines data access for calculations and their items.
type CalculationRepository interface {
	// Replace persists a calculation and its items in one transaction,
	// deleting any prior calculation for the same (employee, period) first
	// so recalculation never accumulates items.
	Replace(ctx context.Context, calc Calculation, items []CalculationItem) (Calculation, []CalculationItem, error)
	GetByID(ctx context.Context, id string, companyID string) (Calculation, error)
	GetItems(ctx context.Context, calculationID string) ([]CalculationItem, error)
	GetByEmployeePeriod(ctx context.Context, companyID, employeeID, period string) (Calculation, error)
	List(ctx context.Context, companyID string, filter CalculationFilter) ([]Calculation, error)
	UpdateStatus(ctx context.Context, id string, companyID string, status CalculationStatus) error
	Approve(ctx context.Context, id string, companyID string, approvedBy string) error
}

// TaxRepository reads the bracket tables and FGTS config supplied by the
// external tax rules store. Missing tables are reported as not-found, which
// the engine treats as a zero tax, never an error.
type TaxRepository interface {
	GetINSSBrackets(ctx context.Context, companyID string) ([]INSSBracket, error)
	GetIRRFBrackets(ctx context.Context, companyID string) ([]IRRFBracket, error)
	GetFGTSConfig(ctx context.Context, companyID string) (FGTSConfig, error)
}
