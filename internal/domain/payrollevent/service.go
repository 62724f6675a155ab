package payrollevent

import "context"

// ConsolidationService gathers raw HR facts for a period, emits the
// canonical payroll event stream and manages the approval state machine.
type ConsolidationService interface {
	// ConsolidatePayrollEvents runs the four consolidation passes (time
	// records, benefits, absences, allowances) for a period. Validation
	// problems are collected into the result, never raised; only
	// infrastructure failures return an error.
	ConsolidatePayrollEvents(ctx context.Context, req ConsolidateRequest) (ConsolidationResult, error)

	// GetConsolidatedEvents lists events for a period, newest first.
	GetConsolidatedEvents(ctx context.Context, filter EventFilter) ([]EventResponse, error)

	// ApproveEvents transitions pending events to approved.
	ApproveEvents(ctx context.Context, req ApproveEventsRequest) error

	// RejectEvents transitions pending events to rejected, storing the
	// reason in notes.
	RejectEvents(ctx context.Context, req RejectEventsRequest) error

	// GetApprovedEvents returns the approved events the calculation engine
	// consumes for one employee and period.
	GetApprovedEvents(ctx context.Context, employeeID, period string) ([]PayrollEvent, error)

	// MarkEventsProcessed is invoked by the calculation engine once a
	// calculation is finalized.
	MarkEventsProcessed(ctx context.Context, eventIDs []string) error
}
