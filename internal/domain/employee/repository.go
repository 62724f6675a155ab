package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}

// HRSourceRepository exposes the raw HR facts consumed by event
// consolidation. All queries are scoped to company + period, with an
// optional employee allow-list (nil or empty means all employees).
type HRSourceRepository interface {
	GetTimeRecords(ctx context.Context, companyID, period string, employeeIDs []string) ([]TimeRecord, error)
	GetActiveBenefits(ctx context.Context, companyID, period string, employeeIDs []string) ([]EmployeeBenefit, error)
	GetAbsences(ctx context.Context, companyID, period string, employeeIDs []string) ([]Absence, error)
	GetActiveAllowances(ctx context.Context, companyID, period string, employeeIDs []string) ([]Allowance, error)
}
