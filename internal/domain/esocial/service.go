package esocial

import (
	"context"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/company"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
)

// BuildInput carries everything a builder may need to assemble one
// government event. Calculation and Items are nil when no finalized
// calculation exists for the employee and period.
type BuildInput struct {
	Period      string
	Company     company.Company
	Employee    employee.Employee
	Calculation *payroll.Calculation
	Items       []payroll.CalculationItem
}

// Builder assembles the event_data payload for one S-series event type.
// A builder returning (nil, nil) means the event does not apply to this
// employee/period (e.g. no calculation yet) and no row is created.
type Builder func(ctx context.Context, in BuildInput) (map[string]any, error)

// IntegrationService builds and transmits S-series events for a period.
// Only a handful of event types have real builders; requesting an
// unregistered type surfaces ErrBuilderNotImplemented rather than silently
// succeeding.
type IntegrationService interface {
	ProcessPeriod(ctx context.Context, req ProcessRequest) (ProcessResult, error)
	// RetryPending re-transmits pending and errored events that still have
	// retries left.
	RetryPending(ctx context.Context) (RetryResult, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]EventResponse, error)
	ListBatches(ctx context.Context, period string) ([]BatchResponse, error)
}

// Transmitter sends pending events to the government endpoint. The real
// integration is out of scope; implementations decide per event whether it
// was accepted or rejected.
type Transmitter interface {
	Transmit(ctx context.Context, event Event) (status EventStatus, responseData map[string]any, err error)
}
