package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type esocialEventRepository struct {
	db *database.DB
}

func NewESocialEventRepository(db *database.DB) esocial.EventRepository {
	return &esocialEventRepository{db: db}
}

const esocialEventColumns = `
	id, company_id, employee_id, event_type, period, event_data, status,
	sent_at, response_data, error_message, retry_count, max_retries,
	created_at, updated_at
`

func scanESocialEvent(row pgx.Row) (esocial.Event, error) {
	var e esocial.Event
	var eventData, responseData []byte
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.EventType, &e.Period, &eventData, &e.Status,
		&e.SentAt, &responseData, &e.ErrorMessage, &e.RetryCount, &e.MaxRetries,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return esocial.Event{}, err
	}
	if len(eventData) > 0 {
		if err := json.Unmarshal(eventData, &e.EventData); err != nil {
			return esocial.Event{}, fmt.Errorf("failed to decode event_data: %w", err)
		}
	}
	if len(responseData) > 0 {
		if err := json.Unmarshal(responseData, &e.ResponseData); err != nil {
			return esocial.Event{}, fmt.Errorf("failed to decode response_data: %w", err)
		}
	}
	return e, nil
}

func (r *esocialEventRepository) Create(ctx context.Context, event esocial.Event) (esocial.Event, error) {
	q := GetQuerier(ctx, r.db)

	eventData, err := json.Marshal(event.EventData)
	if err != nil {
		return esocial.Event{}, fmt.Errorf("failed to encode event_data: %w", err)
	}

	query := `
		INSERT INTO esocial_processed_events (
			company_id, employee_id, event_type, period, event_data,
			status, retry_count, max_retries
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + esocialEventColumns

	created, err := scanESocialEvent(q.QueryRow(ctx, query,
		event.CompanyID, event.EmployeeID, event.EventType, event.Period, eventData,
		event.Status, event.RetryCount, event.MaxRetries,
	))
	if err != nil {
		return esocial.Event{}, fmt.Errorf("failed to create esocial event: %w", err)
	}

	return created, nil
}

func (r *esocialEventRepository) List(ctx context.Context, companyID string, filter esocial.EventFilter) ([]esocial.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + esocialEventColumns + `
		FROM esocial_processed_events
		WHERE company_id = $1 AND period = $2`
	args := []interface{}{companyID, filter.Period}
	argIdx := 3

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.EventType != nil {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, *filter.EventType)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list esocial events: %w", err)
	}
	defer rows.Close()

	var events []esocial.Event
	for rows.Next() {
		e, err := scanESocialEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan esocial event: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

func (r *esocialEventRepository) GetPendingByCompany(ctx context.Context, companyID string) ([]esocial.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + esocialEventColumns + `
		FROM esocial_processed_events
		WHERE company_id = $1 AND status IN ('pending', 'error') AND retry_count < max_retries
		ORDER BY created_at`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending esocial events: %w", err)
	}
	defer rows.Close()

	var events []esocial.Event
	for rows.Next() {
		e, err := scanESocialEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan esocial event: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

func (r *esocialEventRepository) MarkSent(ctx context.Context, id string, status esocial.EventStatus, responseData map[string]any) error {
	q := GetQuerier(ctx, r.db)

	response, err := json.Marshal(responseData)
	if err != nil {
		return fmt.Errorf("failed to encode response_data: %w", err)
	}

	query := `
		UPDATE esocial_processed_events
		SET status = $1, response_data = $2, sent_at = NOW(), updated_at = NOW()
		WHERE id = $3`

	tag, err := q.Exec(ctx, query, status, response, id)
	if err != nil {
		return fmt.Errorf("failed to mark esocial event sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return esocial.ErrEventNotFound
	}

	return nil
}

func (r *esocialEventRepository) MarkError(ctx context.Context, id string, errorMessage string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE esocial_processed_events
		SET status = 'error', error_message = $1, retry_count = retry_count + 1, updated_at = NOW()
		WHERE id = $2`

	tag, err := q.Exec(ctx, query, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark esocial event error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return esocial.ErrEventNotFound
	}

	return nil
}

type esocialBatchRepository struct {
	db *database.DB
}

func NewESocialBatchRepository(db *database.DB) esocial.BatchRepository {
	return &esocialBatchRepository{db: db}
}

const esocialBatchColumns = `
	id, company_id, batch_number, period, total_events, sent_events,
	accepted_events, rejected_events, error_events, status, sent_at,
	error_message, created_at, updated_at
`

func scanESocialBatch(row pgx.Row) (esocial.Batch, error) {
	var b esocial.Batch
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.BatchNumber, &b.Period, &b.TotalEvents, &b.SentEvents,
		&b.AcceptedEvents, &b.RejectedEvents, &b.ErrorEvents, &b.Status, &b.SentAt,
		&b.ErrorMessage, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *esocialBatchRepository) Create(ctx context.Context, batch esocial.Batch) (esocial.Batch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO esocial_batches (
			company_id, batch_number, period, total_events, status
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + esocialBatchColumns

	created, err := scanESocialBatch(q.QueryRow(ctx, query,
		batch.CompanyID, batch.BatchNumber, batch.Period, batch.TotalEvents, batch.Status,
	))
	if err != nil {
		return esocial.Batch{}, fmt.Errorf("failed to create esocial batch: %w", err)
	}

	return created, nil
}

func (r *esocialBatchRepository) List(ctx context.Context, companyID string, period string) ([]esocial.Batch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + esocialBatchColumns + `
		FROM esocial_batches
		WHERE company_id = $1`
	args := []interface{}{companyID}

	if period != "" {
		query += " AND period = $2"
		args = append(args, period)
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list esocial batches: %w", err)
	}
	defer rows.Close()

	var batches []esocial.Batch
	for rows.Next() {
		b, err := scanESocialBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan esocial batch: %w", err)
		}
		batches = append(batches, b)
	}

	return batches, nil
}

func (r *esocialBatchRepository) UpdateCounters(ctx context.Context, id string, status esocial.BatchStatus, sent, accepted, rejected, errored int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE esocial_batches
		SET status = $1, sent_events = $2, accepted_events = $3,
			rejected_events = $4, error_events = $5, sent_at = NOW(), updated_at = NOW()
		WHERE id = $6`

	tag, err := q.Exec(ctx, query, status, sent, accepted, rejected, errored, id)
	if err != nil {
		return fmt.Errorf("failed to update esocial batch counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return esocial.ErrBatchNotFound
	}

	return nil
}
