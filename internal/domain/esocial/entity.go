package esocial

import "time"

type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusSent     EventStatus = "sent"
	EventStatusAccepted EventStatus = "accepted"
	EventStatusRejected EventStatus = "rejected"
	EventStatusError    EventStatus = "error"
)

// Event is one government-format S-series event built from payroll data.
type Event struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	EventType    string
	Period       string
	EventData    map[string]any
	Status       EventStatus
	SentAt       *time.Time
	ResponseData map[string]any
	ErrorMessage *string
	RetryCount   int
	MaxRetries   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "pending"
	BatchStatusSending  BatchStatus = "sending"
	BatchStatusSent     BatchStatus = "sent"
	BatchStatusAccepted BatchStatus = "accepted"
	BatchStatusRejected BatchStatus = "rejected"
	BatchStatusError    BatchStatus = "error"
)

// Batch aggregates the events of one transmission run per status.
type Batch struct {
	ID             string
	CompanyID      string
	BatchNumber    string
	Period         string
	TotalEvents    int
	SentEvents     int
	AcceptedEvents int
	RejectedEvents int
	ErrorEvents    int
	Status         BatchStatus
	SentAt         *time.Time
	ErrorMessage   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
