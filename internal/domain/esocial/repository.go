package esocial

import "context"

type EventRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	List(ctx context.Context, companyID string, filter EventFilter) ([]Event, error)
	// GetPendingByCompany returns the retry queue: pending and errored
	// events that have not exhausted their retries, oldest first.
	GetPendingByCompany(ctx context.Context, companyID string) ([]Event, error)
	MarkSent(ctx context.Context, id string, status EventStatus, responseData map[string]any) error
	MarkError(ctx context.Context, id string, errorMessage string) error
}

type BatchRepository interface {
	Create(ctx context.Context, batch Batch) (Batch, error)
	List(ctx context.Context, companyID string, period string) ([]Batch, error)
	UpdateCounters(ctx context.Context, id string, status BatchStatus, sent, accepted, rejected, errored int) error
}
