package payrollevent

import "context"

// EventRepository defines data access for payroll events.
// All methods include companyID to prevent cross-company data access.
type EventRepository interface {
	Create(ctx context.Context, event PayrollEvent) (PayrollEvent, error)
	List(ctx context.Context, companyID string, filter EventFilter) ([]PayrollEvent, error)
	GetApprovedByEmployeePeriod(ctx context.Context, companyID, employeeID, period string) ([]PayrollEvent, error)

	// DeletePendingBySource drops the still-pending events a previous
	// consolidation run produced for the same period and source, so a re-run
	// replaces instead of accumulating. Approved, rejected and processed
	// events are never touched.
	DeletePendingBySource(ctx context.Context, companyID, period string, source EventSource, employeeIDs []string) error

	// Approve and Reject only transition pending events; ids already
	// approved, rejected or processed are left untouched.
	Approve(ctx context.Context, companyID string, eventIDs []string, approvedBy string) error
	Reject(ctx context.Context, companyID string, eventIDs []string, rejectedBy, reason string) error

	// MarkProcessed stamps processed_at on approved events consumed by a
	// finalized calculation.
	MarkProcessed(ctx context.Context, companyID string, eventIDs []string) error
}
