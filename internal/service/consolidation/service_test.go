package consolidation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "11111111-1111-1111-1111-111111111111"
	testUserID     = "22222222-2222-2222-2222-222222222222"
	testEmployeeID = "33333333-3333-3333-3333-333333333333"
	testPeriod     = "2024-03"
)

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"company_id": testCompanyID,
		"user_id":    testUserID,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ===== FAKES =====

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEventRepo struct {
	events []payrollevent.PayrollEvent
	nextID int
}

func (r *fakeEventRepo) Create(ctx context.Context, event payrollevent.PayrollEvent) (payrollevent.PayrollEvent, error) {
	r.nextID++
	event.ID = fmt.Sprintf("event-%d", r.nextID)
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeEventRepo) List(ctx context.Context, companyID string, filter payrollevent.EventFilter) ([]payrollevent.PayrollEvent, error) {
	var out []payrollevent.PayrollEvent
	for _, ev := range r.events {
		if ev.CompanyID != companyID || ev.Period != filter.Period {
			continue
		}
		if filter.EmployeeID != nil && ev.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.EventType != nil && string(ev.EventType) != *filter.EventType {
			continue
		}
		if filter.Status != nil && string(ev.Status) != *filter.Status {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *fakeEventRepo) GetApprovedByEmployeePeriod(ctx context.Context, companyID, employeeID, period string) ([]payrollevent.PayrollEvent, error) {
	var out []payrollevent.PayrollEvent
	for _, ev := range r.events {
		if ev.CompanyID == companyID && ev.EmployeeID == employeeID && ev.Period == period && ev.Status == payrollevent.EventStatusApproved {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) DeletePendingBySource(ctx context.Context, companyID, period string, source payrollevent.EventSource, employeeIDs []string) error {
	inScope := func(id string) bool {
		if len(employeeIDs) == 0 {
			return true
		}
		for _, eid := range employeeIDs {
			if eid == id {
				return true
			}
		}
		return false
	}

	kept := r.events[:0]
	for _, ev := range r.events {
		drop := ev.CompanyID == companyID && ev.Period == period &&
			ev.EventSource == source && ev.Status == payrollevent.EventStatusPending &&
			inScope(ev.EmployeeID)
		if !drop {
			kept = append(kept, ev)
		}
	}
	r.events = kept
	return nil
}

func (r *fakeEventRepo) Approve(ctx context.Context, companyID string, eventIDs []string, approvedBy string) error {
	now := time.Now()
	for i := range r.events {
		if r.events[i].CompanyID != companyID || r.events[i].Status != payrollevent.EventStatusPending {
			continue
		}
		for _, id := range eventIDs {
			if r.events[i].ID == id {
				r.events[i].Status = payrollevent.EventStatusApproved
				r.events[i].ApprovedBy = &approvedBy
				r.events[i].ApprovedAt = &now
			}
		}
	}
	return nil
}

func (r *fakeEventRepo) Reject(ctx context.Context, companyID string, eventIDs []string, rejectedBy, reason string) error {
	now := time.Now()
	for i := range r.events {
		if r.events[i].CompanyID != companyID || r.events[i].Status != payrollevent.EventStatusPending {
			continue
		}
		for _, id := range eventIDs {
			if r.events[i].ID == id {
				r.events[i].Status = payrollevent.EventStatusRejected
				r.events[i].ApprovedBy = &rejectedBy
				r.events[i].ApprovedAt = &now
				r.events[i].Notes = &reason
			}
		}
	}
	return nil
}

func (r *fakeEventRepo) MarkProcessed(ctx context.Context, companyID string, eventIDs []string) error {
	now := time.Now()
	for i := range r.events {
		if r.events[i].CompanyID != companyID || r.events[i].Status != payrollevent.EventStatusApproved {
			continue
		}
		for _, id := range eventIDs {
			if r.events[i].ID == id {
				r.events[i].Status = payrollevent.EventStatusProcessed
				r.events[i].ProcessedAt = &now
			}
		}
	}
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeHRSourceRepo struct {
	timeRecords []employee.TimeRecord
	benefits    []employee.EmployeeBenefit
	absences    []employee.Absence
	allowances  []employee.Allowance
}

func (r *fakeHRSourceRepo) GetTimeRecords(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.TimeRecord, error) {
	return r.timeRecords, nil
}

func (r *fakeHRSourceRepo) GetActiveBenefits(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.EmployeeBenefit, error) {
	return r.benefits, nil
}

func (r *fakeHRSourceRepo) GetAbsences(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.Absence, error) {
	return r.absences, nil
}

func (r *fakeHRSourceRepo) GetActiveAllowances(ctx context.Context, companyID, period string, employeeIDs []string) ([]employee.Allowance, error) {
	return r.allowances, nil
}

func newTestService(hr *fakeHRSourceRepo, events *fakeEventRepo) payrollevent.ConsolidationService {
	return NewConsolidationService(
		&fakeTxManager{},
		events,
		&fakeEmployeeRepo{employees: []employee.Employee{{
			ID:          testEmployeeID,
			CompanyID:   testCompanyID,
			Nome:        "Maria Souza",
			SalarioBase: decimal.NewFromInt(3000),
			IsActive:    true,
		}}},
		hr,
	)
}

func timeRecord(day int, checkIn, checkOut string, withBreak bool) employee.TimeRecord {
	date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	parse := func(v string) *time.Time {
		t, _ := time.Parse("2006-01-02 15:04", fmt.Sprintf("2024-03-%02d %s", day, v))
		return &t
	}
	rec := employee.TimeRecord{
		ID:         fmt.Sprintf("tr-%d", day),
		CompanyID:  testCompanyID,
		EmployeeID: testEmployeeID,
		Date:       date,
		CheckIn:    parse(checkIn),
		CheckOut:   parse(checkOut),
		Tipo:       "normal",
	}
	if withBreak {
		rec.BreakStart = parse("12:00")
		rec.BreakEnd = parse("13:00")
	}
	return rec
}

// ===== CONSOLIDATION TESTS =====

func TestConsolidate_TimeRecordWithinWorkday(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "17:00", true), // 9h minus 1h break = 8h
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalEvents)
	assert.Empty(t, result.Errors)

	ev := result.Events[0]
	assert.Equal(t, "time_record", ev.EventType)
	assert.True(t, decimal.NewFromInt(8).Equal(ev.CalculatedValue), "worked hours = %s", ev.CalculatedValue)
	assert.True(t, decimal.NewFromInt(1).Equal(ev.Multiplier))
	assert.Equal(t, "pending", ev.Status)
}

func TestConsolidate_OvertimeSplit(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "19:00", true), // 11h minus 1h break = 10h worked
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalEvents)

	base := result.Events[0]
	assert.Equal(t, "time_record", base.EventType)
	assert.True(t, decimal.NewFromInt(10).Equal(base.CalculatedValue))

	overtime := result.Events[1]
	assert.Equal(t, "overtime", overtime.EventType)
	assert.True(t, decimal.NewFromInt(2).Equal(overtime.CalculatedValue), "overtime hours = %s", overtime.CalculatedValue)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(overtime.Multiplier))
}

func TestConsolidate_IncompleteTimeRecordSkipped(t *testing.T) {
	t.Parallel()
	rec := timeRecord(1, "08:00", "17:00", false)
	rec.CheckOut = nil
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{rec}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	assert.Zero(t, result.TotalEvents)
}

func TestConsolidate_BreakSwallowsShift(t *testing.T) {
	t.Parallel()
	// 12:30-13:00 worked, 12:00-13:00 break: net minutes go negative and
	// floor at zero, so no event is produced.
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "12:30", "13:00", true),
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	assert.Zero(t, result.TotalEvents)
	assert.Empty(t, events.events)
}

func TestConsolidate_FixedAndPercentageBenefits(t *testing.T) {
	t.Parallel()
	valor := decimal.NewFromInt(200)
	pct := decimal.NewFromInt(10)
	hr := &fakeHRSourceRepo{benefits: []employee.EmployeeBenefit{
		{
			ID: "eb-1", CompanyID: testCompanyID, EmployeeID: testEmployeeID,
			BenefitID: "b-1", BenefitNome: "Vale Refeição",
			BenefitTipo: employee.BenefitTypeFixed, Valor: &valor,
			SalarioBase: decimal.NewFromInt(3000),
		},
		{
			ID: "eb-2", CompanyID: testCompanyID, EmployeeID: testEmployeeID,
			BenefitID: "b-2", BenefitNome: "Plano de Saúde",
			BenefitTipo: employee.BenefitTypePercentage, Percentual: &pct,
			SalarioBase: decimal.NewFromInt(3000),
		},
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalEvents)
	assert.Empty(t, result.Errors)

	assert.True(t, decimal.NewFromInt(200).Equal(result.Events[0].CalculatedValue))
	// 10% of 3000
	assert.True(t, decimal.NewFromInt(300).Equal(result.Events[1].CalculatedValue), "got %s", result.Events[1].CalculatedValue)
}

func TestConsolidate_BenefitMissingValueCollected(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{benefits: []employee.EmployeeBenefit{
		{
			ID: "eb-1", CompanyID: testCompanyID, EmployeeID: testEmployeeID,
			BenefitID: "b-1", BenefitNome: "Vale Transporte",
			BenefitTipo: employee.BenefitTypeFixed, // Valor nil
			SalarioBase: decimal.NewFromInt(3000),
		},
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	assert.Zero(t, result.TotalEvents)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.ErrorEvents)
}

func TestConsolidate_ProcessedCountsInsertedEvents(t *testing.T) {
	t.Parallel()
	// One insertable time record plus one broken benefit: the error is
	// collected but must not be subtracted from the inserted count.
	hr := &fakeHRSourceRepo{
		timeRecords: []employee.TimeRecord{timeRecord(1, "08:00", "17:00", true)},
		benefits: []employee.EmployeeBenefit{
			{
				ID: "eb-1", CompanyID: testCompanyID, EmployeeID: testEmployeeID,
				BenefitID: "b-1", BenefitNome: "Vale Transporte",
				BenefitTipo: employee.BenefitTypeFixed, // Valor nil
				SalarioBase: decimal.NewFromInt(3000),
			},
		},
	}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalEvents)
	assert.Equal(t, 1, result.ErrorEvents)
	assert.Equal(t, 1, result.ProcessedEvents)
	assert.Len(t, events.events, 1)
}

func TestConsolidate_AbsenceInclusiveDays(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{absences: []employee.Absence{
		{
			ID: "ab-1", CompanyID: testCompanyID, EmployeeID: testEmployeeID,
			AbsenceTypeID: "at-1", AbsenceTypeName: "Falta",
			DataInicio: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			DataFim:    time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalEvents)
	assert.Empty(t, result.Errors)

	ev := result.Events[0]
	assert.Equal(t, "absence", ev.EventType)
	// 10th through 11th inclusive = 2 days, as a negative contribution
	assert.True(t, decimal.NewFromInt(-2).Equal(ev.CalculatedValue), "got %s", ev.CalculatedValue)
	assert.True(t, decimal.NewFromInt(-1).Equal(ev.Multiplier))
}

func TestConsolidate_AllowancePercentualMultiplier(t *testing.T) {
	t.Parallel()
	pct := decimal.NewFromInt(30)
	hr := &fakeHRSourceRepo{allowances: []employee.Allowance{
		{
			ID: "al-1", CompanyID: testCompanyID, EmployeeID: testEmployeeID,
			AllowanceTypeID: "alt-1", AllowanceTypeName: "Periculosidade",
			Valor: decimal.NewFromInt(3000), Percentual: &pct,
		},
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)

	result, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalEvents)

	ev := result.Events[0]
	assert.Equal(t, "allowance", ev.EventType)
	assert.True(t, decimal.NewFromFloat(0.3).Equal(ev.Multiplier), "got %s", ev.Multiplier)
}

func TestConsolidate_RerunReplacesPendingEvents(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "17:00", true),
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)
	ctx := authedContext(t)

	_, err := svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	_, err = svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)

	assert.Len(t, events.events, 1, "re-running consolidation must not duplicate pending events")
}

func TestConsolidate_RerunKeepsApprovedEvents(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "17:00", true),
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)
	ctx := authedContext(t)

	first, err := svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	require.NoError(t, svc.ApproveEvents(ctx, payrollevent.ApproveEventsRequest{EventIDs: []string{first.Events[0].ID}}))

	_, err = svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)

	// The approved event survives, the re-run adds a fresh pending one.
	approved, err := svc.GetApprovedEvents(ctx, testEmployeeID, testPeriod)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
	assert.Len(t, events.events, 2)
}

func TestConsolidate_InvalidPeriodRejected(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeHRSourceRepo{}, &fakeEventRepo{})

	_, err := svc.ConsolidatePayrollEvents(authedContext(t), payrollevent.ConsolidateRequest{Period: "03/2024"})
	assert.Error(t, err)
}

func TestConsolidate_MissingClaimsRejected(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeHRSourceRepo{}, &fakeEventRepo{})

	_, err := svc.ConsolidatePayrollEvents(context.Background(), payrollevent.ConsolidateRequest{Period: testPeriod})
	assert.Error(t, err)
}

// ===== STATE MACHINE TESTS =====

func TestApproveThenProcess(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "17:00", true),
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)
	ctx := authedContext(t)

	result, err := svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	id := result.Events[0].ID

	require.NoError(t, svc.ApproveEvents(ctx, payrollevent.ApproveEventsRequest{EventIDs: []string{id}}))
	require.NoError(t, svc.MarkEventsProcessed(ctx, []string{id}))

	assert.Equal(t, payrollevent.EventStatusProcessed, events.events[0].Status)
	assert.NotNil(t, events.events[0].ProcessedAt)
}

func TestRejectRecordsReason(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "17:00", true),
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)
	ctx := authedContext(t)

	result, err := svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	id := result.Events[0].ID

	require.NoError(t, svc.RejectEvents(ctx, payrollevent.RejectEventsRequest{EventIDs: []string{id}, Reason: "registro duplicado"}))

	assert.Equal(t, payrollevent.EventStatusRejected, events.events[0].Status)
	require.NotNil(t, events.events[0].Notes)
	assert.Equal(t, "registro duplicado", *events.events[0].Notes)
}

func TestProcessedEventsAreImmutable(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{timeRecords: []employee.TimeRecord{
		timeRecord(1, "08:00", "17:00", true),
	}}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)
	ctx := authedContext(t)

	result, err := svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)
	id := result.Events[0].ID

	require.NoError(t, svc.ApproveEvents(ctx, payrollevent.ApproveEventsRequest{EventIDs: []string{id}}))
	require.NoError(t, svc.MarkEventsProcessed(ctx, []string{id}))

	// Further transitions are no-ops on a processed event.
	require.NoError(t, svc.RejectEvents(ctx, payrollevent.RejectEventsRequest{EventIDs: []string{id}, Reason: "late"}))
	assert.Equal(t, payrollevent.EventStatusProcessed, events.events[0].Status)
}

func TestGetConsolidatedEventsFilters(t *testing.T) {
	t.Parallel()
	hr := &fakeHRSourceRepo{
		timeRecords: []employee.TimeRecord{timeRecord(1, "08:00", "19:00", true)},
	}
	events := &fakeEventRepo{}
	svc := newTestService(hr, events)
	ctx := authedContext(t)

	_, err := svc.ConsolidatePayrollEvents(ctx, payrollevent.ConsolidateRequest{Period: testPeriod})
	require.NoError(t, err)

	overtimeType := "overtime"
	filtered, err := svc.GetConsolidatedEvents(ctx, payrollevent.EventFilter{Period: testPeriod, EventType: &overtimeType})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "overtime", filtered[0].EventType)
}
