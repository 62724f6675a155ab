package payrollevent

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType tags what kind of contribution an event represents.
type EventType string

const (
	EventTypeTimeRecord  EventType = "time_record"
	EventTypeBenefit     EventType = "benefit"
	EventTypeAbsence     EventType = "absence"
	EventTypeAllowance   EventType = "allowance"
	EventTypeOvertime    EventType = "overtime"
	EventTypeManual      EventType = "manual"
	EventTypeCalculation EventType = "calculation"
)

// EventSource tags which raw collaborator produced the event. Not 1:1 with
// EventType: overtime events also originate from time_records.
type EventSource string

const (
	EventSourceTimeRecords EventSource = "time_records"
	EventSourceBenefits    EventSource = "benefits"
	EventSourceAbsences    EventSource = "absences"
	EventSourceAllowances  EventSource = "allowances"
	EventSourceManual      EventSource = "manual"
	EventSourceCalculation EventSource = "calculation"
)

type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusApproved  EventStatus = "approved"
	EventStatusRejected  EventStatus = "rejected"
	EventStatusProcessed EventStatus = "processed"
)

// PayrollEvent is a normalized, atomic contribution to a paycheck.
// CalculatedValue is in the event's own unit (hours, currency or day count);
// absence events carry a negative value.
type PayrollEvent struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	Period          string
	EventType       EventType
	EventSource     EventSource
	EventData       map[string]any
	CalculatedValue decimal.Decimal
	BaseValue       decimal.Decimal
	Multiplier      decimal.Decimal
	Status          EventStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	ProcessedAt     *time.Time
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       *string
	UpdatedBy       *string
}
