package payrollevent

import (
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ConsolidateRequest struct {
	Period      string   `json:"period"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *ConsolidateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ConsolidationResult summarizes one consolidation run. TotalEvents is
// always len(Events); ErrorEvents counts validation failures, which are
// collected as strings rather than raised.
type ConsolidationResult struct {
	Period          string          `json:"period"`
	TotalEvents     int             `json:"total_events"`
	ProcessedEvents int             `json:"processed_events"`
	ErrorEvents     int             `json:"error_events"`
	Events          []EventResponse `json:"events"`
	Errors          []string        `json:"errors"`
}

type EventFilter struct {
	Period     string  `json:"period"`
	EmployeeID *string `json:"employee_id,omitempty"`
	EventType  *string `json:"event_type,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (f *EventFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(f.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveEventsRequest struct {
	EventIDs []string `json:"event_ids"`
}

func (r *ApproveEventsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EventIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "event_ids", Message: "at least one event is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectEventsRequest struct {
	EventIDs []string `json:"event_ids"`
	Reason   string   `json:"reason"`
}

func (r *RejectEventsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EventIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "event_ids", Message: "at least one event is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	EmployeeID      string          `json:"employee_id"`
	Period          string          `json:"period"`
	EventType       string          `json:"event_type"`
	EventSource     string          `json:"event_source"`
	EventData       map[string]any  `json:"event_data,omitempty"`
	CalculatedValue decimal.Decimal `json:"calculated_value"`
	BaseValue       decimal.Decimal `json:"base_value"`
	Multiplier      decimal.Decimal `json:"multiplier"`
	Status          string          `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	ProcessedAt     *string         `json:"processed_at,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       string          `json:"created_at"`
}
