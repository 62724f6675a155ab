package payroll

import "context"

// CalculationService turns a company+employee+period's approved events into
// a finalized, itemized paycheck.
type CalculationService interface {
	// CalculatePayroll runs the ordered rubrica pipeline. Business-rule
	// violations are collected into the result's validations and revert the
	// calculation to pending; infrastructure failures return an error.
	CalculatePayroll(ctx context.Context, req CalculateRequest) (CalculationResult, error)

	GetCalculation(ctx context.Context, id string) (CalculationResult, error)
	ListCalculations(ctx context.Context, filter CalculationFilter) ([]CalculationResponse, error)

	// ApproveCalculation moves calculated → approved and marks the consumed
	// events processed.
	ApproveCalculation(ctx context.Context, id string) error
}

// RubricaService manages per-company pay code definitions.
type RubricaService interface {
	CreateRubrica(ctx context.Context, req CreateRubricaRequest) (RubricaResponse, error)
	GetRubrica(ctx context.Context, id string) (RubricaResponse, error)
	ListRubricas(ctx context.Context) ([]RubricaResponse, error)
	UpdateRubrica(ctx context.Context, req UpdateRubricaRequest) error
	DeactivateRubrica(ctx context.Context, id string) error
	// SeedDefaultRubricas creates the standard pay code set for the caller's
	// company, skipping codes that already exist.
	SeedDefaultRubricas(ctx context.Context) ([]RubricaResponse, error)

	GetTaxTables(ctx context.Context) (TaxTablesResponse, error)
}
