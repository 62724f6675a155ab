package esocial

import (
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/validator"
)

type ProcessRequest struct {
	Period      string   `json:"period"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *ProcessRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessResult struct {
	Success         bool     `json:"success"`
	EventsProcessed int      `json:"events_processed"`
	EventsSent      int      `json:"events_sent"`
	EventsAccepted  int      `json:"events_accepted"`
	EventsRejected  int      `json:"events_rejected"`
	EventsError     int      `json:"events_error"`
	BatchID         *string  `json:"batch_id,omitempty"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
}

type RetryResult struct {
	EventsRetried  int      `json:"events_retried"`
	EventsAccepted int      `json:"events_accepted"`
	EventsRejected int      `json:"events_rejected"`
	EventsError    int      `json:"events_error"`
	Errors         []string `json:"errors"`
}

type EventFilter struct {
	Period     string  `json:"period"`
	EmployeeID *string `json:"employee_id,omitempty"`
	EventType  *string `json:"event_type,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type EventResponse struct {
	ID           string         `json:"id"`
	CompanyID    string         `json:"company_id"`
	EmployeeID   string         `json:"employee_id"`
	EventType    string         `json:"event_type"`
	Period       string         `json:"period"`
	EventData    map[string]any `json:"event_data,omitempty"`
	Status       string         `json:"status"`
	SentAt       *string        `json:"sent_at,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	RetryCount   int            `json:"retry_count"`
	MaxRetries   int            `json:"max_retries"`
}

type BatchResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	BatchNumber    string  `json:"batch_number"`
	Period         string  `json:"period"`
	TotalEvents    int     `json:"total_events"`
	SentEvents     int     `json:"sent_events"`
	AcceptedEvents int     `json:"accepted_events"`
	RejectedEvents int     `json:"rejected_events"`
	ErrorEvents    int     `json:"error_events"`
	Status         string  `json:"status"`
	SentAt         *string `json:"sent_at,omitempty"`
}
