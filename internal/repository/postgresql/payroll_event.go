package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollEventRepository struct {
	db *database.DB
}

func NewPayrollEventRepository(db *database.DB) payrollevent.EventRepository {
	return &payrollEventRepository{db: db}
}

const payrollEventColumns = `
	id, company_id, employee_id, period, event_type, event_source, event_data,
	calculated_value, base_value, multiplier, status,
	approved_by, approved_at, processed_at, notes,
	created_at, updated_at, created_by, updated_by
`

func scanPayrollEvent(row pgx.Row) (payrollevent.PayrollEvent, error) {
	var e payrollevent.PayrollEvent
	var eventData []byte
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.Period, &e.EventType, &e.EventSource, &eventData,
		&e.CalculatedValue, &e.BaseValue, &e.Multiplier, &e.Status,
		&e.ApprovedBy, &e.ApprovedAt, &e.ProcessedAt, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt, &e.CreatedBy, &e.UpdatedBy,
	)
	if err != nil {
		return payrollevent.PayrollEvent{}, err
	}
	if len(eventData) > 0 {
		if err := json.Unmarshal(eventData, &e.EventData); err != nil {
			return payrollevent.PayrollEvent{}, fmt.Errorf("failed to decode event_data: %w", err)
		}
	}
	return e, nil
}

func (r *payrollEventRepository) Create(ctx context.Context, event payrollevent.PayrollEvent) (payrollevent.PayrollEvent, error) {
	q := GetQuerier(ctx, r.db)

	eventData, err := json.Marshal(event.EventData)
	if err != nil {
		return payrollevent.PayrollEvent{}, fmt.Errorf("failed to encode event_data: %w", err)
	}

	query := `
		INSERT INTO payroll_events (
			company_id, employee_id, period, event_type, event_source, event_data,
			calculated_value, base_value, multiplier, status, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + payrollEventColumns

	created, err := scanPayrollEvent(q.QueryRow(ctx, query,
		event.CompanyID, event.EmployeeID, event.Period, event.EventType, event.EventSource, eventData,
		event.CalculatedValue, event.BaseValue, event.Multiplier, event.Status, event.CreatedBy,
	))
	if err != nil {
		return payrollevent.PayrollEvent{}, fmt.Errorf("failed to create payroll event: %w", err)
	}

	return created, nil
}

func (r *payrollEventRepository) List(ctx context.Context, companyID string, filter payrollevent.EventFilter) ([]payrollevent.PayrollEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollEventColumns + `
		FROM payroll_events
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
		return nil, fmt.Errorf("failed to list payroll events: %w", err)
	}
	defer rows.Close()

	var events []payrollevent.PayrollEvent
	for rows.Next() {
		e, err := scanPayrollEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll event: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

func (r *payrollEventRepository) GetApprovedByEmployeePeriod(ctx context.Context, companyID, employeeID, period string) ([]payrollevent.PayrollEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollEventColumns + `
		FROM payroll_events
		WHERE company_id = $1 AND employee_id = $2 AND period = $3 AND status = 'approved'
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, companyID, employeeID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved payroll events: %w", err)
	}
	defer rows.Close()

	var events []payrollevent.PayrollEvent
	for rows.Next() {
		e, err := scanPayrollEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll event: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

func (r *payrollEventRepository) DeletePendingBySource(ctx context.Context, companyID, period string, source payrollevent.EventSource, employeeIDs []string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payroll_events
		WHERE company_id = $1 AND period = $2 AND event_source = $3 AND status = 'pending'`
	args := []interface{}{companyID, period, source}

	if len(employeeIDs) > 0 {
		query += " AND employee_id = ANY($4)"
		args = append(args, employeeIDs)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete pending payroll events: %w", err)
	}

	return nil
}

func (r *payrollEventRepository) Approve(ctx context.Context, companyID string, eventIDs []string, approvedBy string) error {
	q := GetQuerier(ctx, r.db)

	// Only pending events transition; processed rows are immutable.
	query := `
		UPDATE payroll_events
		SET status = 'approved', approved_by = $1, approved_at = NOW(), updated_at = NOW()
		WHERE company_id = $2 AND id = ANY($3) AND status = 'pending'`

	if _, err := q.Exec(ctx, query, approvedBy, companyID, eventIDs); err != nil {
		return fmt.Errorf("failed to approve payroll events: %w", err)
	}

	return nil
}

func (r *payrollEventRepository) Reject(ctx context.Context, companyID string, eventIDs []string, rejectedBy, reason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_events
		SET status = 'rejected', approved_by = $1, approved_at = NOW(), notes = $2, updated_at = NOW()
		WHERE company_id = $3 AND id = ANY($4) AND status = 'pending'`

	if _, err := q.Exec(ctx, query, rejectedBy, reason, companyID, eventIDs); err != nil {
		return fmt.Errorf("failed to reject payroll events: %w", err)
	}

	return nil
}

func (r *payrollEventRepository) MarkProcessed(ctx context.Context, companyID string, eventIDs []string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_events
		SET status = 'processed', processed_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND id = ANY($2) AND status = 'approved'`

	if _, err := q.Exec(ctx, query, companyID, eventIDs); err != nil {
		return fmt.Errorf("failed to mark payroll events processed: %w", err)
	}

	return nil
}
