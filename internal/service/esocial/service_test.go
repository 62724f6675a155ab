package esocial

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/company"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
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

type fakeCompanyRepo struct{}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	if id != testCompanyID {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return company.Company{
		ID:          testCompanyID,
		CNPJ:        "12345678000190",
		RazaoSocial: "Acme Serviços Ltda",
	}, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return r.employees, nil
}

type fakeCalcRepo struct {
	calc  *payroll.Calculation
	items []payroll.CalculationItem
}

func (r *fakeCalcRepo) Replace(ctx context.Context, calc payroll.Calculation, items []payroll.CalculationItem) (payroll.Calculation, []payroll.CalculationItem, error) {
	return calc, items, nil
}

func (r *fakeCalcRepo) GetByID(ctx context.Context, id string, companyID string) (payroll.Calculation, error) {
	return payroll.Calculation{}, payroll.ErrCalculationNotFound
}

func (r *fakeCalcRepo) GetItems(ctx context.Context, calculationID string) ([]payroll.CalculationItem, error) {
	return r.items, nil
}

func (r *fakeCalcRepo) GetByEmployeePeriod(ctx context.Context, companyID, employeeID, period string) (payroll.Calculation, error) {
	if r.calc == nil {
		return payroll.Calculation{}, payroll.ErrCalculationNotFound
	}
	return *r.calc, nil
}

func (r *fakeCalcRepo) List(ctx context.Context, companyID string, filter payroll.CalculationFilter) ([]payroll.Calculation, error) {
	return nil, nil
}

func (r *fakeCalcRepo) UpdateStatus(ctx context.Context, id string, companyID string, status payroll.CalculationStatus) error {
	return nil
}

func (r *fakeCalcRepo) Approve(ctx context.Context, id string, companyID string, approvedBy string) error {
	return nil
}

type fakeESocialEventRepo struct {
	events []esocial.Event
	nextID int
}

func (r *fakeESocialEventRepo) Create(ctx context.Context, event esocial.Event) (esocial.Event, error) {
	r.nextID++
	event.ID = fmt.Sprintf("es-%d", r.nextID)
	event.CreatedAt = time.Now()
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeESocialEventRepo) List(ctx context.Context, companyID string, filter esocial.EventFilter) ([]esocial.Event, error) {
	var out []esocial.Event
	for _, ev := range r.events {
		if ev.CompanyID != companyID || ev.Period != filter.Period {
			continue
		}
		if filter.EventType != nil && ev.EventType != *filter.EventType {
			continue
		}
		if filter.Status != nil && string(ev.Status) != *filter.Status {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *fakeESocialEventRepo) GetPendingByCompany(ctx context.Context, companyID string) ([]esocial.Event, error) {
	var out []esocial.Event
	for _, ev := range r.events {
		retriable := ev.Status == esocial.EventStatusPending || ev.Status == esocial.EventStatusError
		if ev.CompanyID == companyID && retriable && ev.RetryCount < ev.MaxRetries {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeESocialEventRepo) MarkSent(ctx context.Context, id string, status esocial.EventStatus, responseData map[string]any) error {
	now := time.Now()
	for i := range r.events {
		if r.events[i].ID == id {
			r.events[i].Status = status
			r.events[i].SentAt = &now
			r.events[i].ResponseData = responseData
			return nil
		}
	}
	return esocial.ErrEventNotFound
}

func (r *fakeESocialEventRepo) MarkError(ctx context.Context, id string, errorMessage string) error {
	for i := range r.events {
		if r.events[i].ID == id {
			r.events[i].Status = esocial.EventStatusError
			r.events[i].ErrorMessage = &errorMessage
			r.events[i].RetryCount++
			return nil
		}
	}
	return esocial.ErrEventNotFound
}

type fakeBatchRepo struct {
	batches []esocial.Batch
	nextID  int
}

func (r *fakeBatchRepo) Create(ctx context.Context, batch esocial.Batch) (esocial.Batch, error) {
	r.nextID++
	batch.ID = fmt.Sprintf("batch-%d", r.nextID)
	batch.CreatedAt = time.Now()
	r.batches = append(r.batches, batch)
	return batch, nil
}

func (r *fakeBatchRepo) List(ctx context.Context, companyID string, period string) ([]esocial.Batch, error) {
	var out []esocial.Batch
	for _, b := range r.batches {
		if b.CompanyID == companyID && (period == "" || b.Period == period) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) UpdateCounters(ctx context.Context, id string, status esocial.BatchStatus, sent, accepted, rejected, errored int) error {
	for i := range r.batches {
		if r.batches[i].ID == id {
			r.batches[i].Status = status
			r.batches[i].SentEvents = sent
			r.batches[i].AcceptedEvents = accepted
			r.batches[i].RejectedEvents = rejected
			r.batches[i].ErrorEvents = errored
			return nil
		}
	}
	return esocial.ErrBatchNotFound
}

type failingTransmitter struct{}

func (t *failingTransmitter) Transmit(ctx context.Context, event esocial.Event) (esocial.EventStatus, map[string]any, error) {
	return esocial.EventStatusError, nil, errors.New("webservice unavailable")
}

// ===== FIXTURES =====

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func calculatedPayroll() (*payroll.Calculation, []payroll.CalculationItem) {
	calc := &payroll.Calculation{
		ID:             "calc-1",
		CompanyID:      testCompanyID,
		EmployeeID:     testEmployeeID,
		Period:         testPeriod,
		SalarioBruto:   dec("3200"),
		SalarioLiquido: dec("2517.44"),
		Status:         payroll.CalculationStatusApproved,
	}
	items := []payroll.CalculationItem{
		{Codigo: "SALARIO", Nome: "Salário Base", Tipo: payroll.RubricaTipoProvento, ValorCalculado: dec("3000"), Quantidade: dec("176")},
		{Codigo: "INSS", Nome: "INSS", Tipo: payroll.RubricaTipoDesconto, ValorCalculado: dec("384"), Quantidade: dec("1")},
	}
	return calc, items
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:          testEmployeeID,
		CompanyID:   testCompanyID,
		Nome:        "Maria Souza",
		CPF:         "12345678901",
		SalarioBase: dec("3000"),
		IsActive:    true,
	}
}

func newTestService(calcRepo *fakeCalcRepo, eventRepo *fakeESocialEventRepo, batchRepo *fakeBatchRepo, transmitter esocial.Transmitter) esocial.IntegrationService {
	return NewIntegrationService(
		NewRegistry(),
		transmitter,
		eventRepo,
		batchRepo,
		&fakeCompanyRepo{},
		&fakeEmployeeRepo{employees: []employee.Employee{testEmployee()}},
		calcRepo,
	)
}

// ===== REGISTRY TESTS =====

func TestRegistry_UnimplementedTypeIsVisible(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	_, err := registry.Build(context.Background(), "S-2200", esocial.BuildInput{})
	assert.ErrorIs(t, err, esocial.ErrBuilderNotImplemented)
}

func TestRegistry_UnknownTypeRejected(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	_, err := registry.Build(context.Background(), "S-9999", esocial.BuildInput{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, esocial.ErrBuilderNotImplemented)
}

func TestRegistry_S1200SkipsWithoutCalculation(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	data, err := registry.Build(context.Background(), "S-1200", esocial.BuildInput{
		Period:   testPeriod,
		Employee: testEmployee(),
	})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRegistry_S5001CarriesINSSValue(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	calc, items := calculatedPayroll()

	data, err := registry.Build(context.Background(), "S-5001", esocial.BuildInput{
		Period:      testPeriod,
		Company:     company.Company{ID: testCompanyID, CNPJ: "12345678000190"},
		Employee:    testEmployee(),
		Calculation: calc,
		Items:       items,
	})
	require.NoError(t, err)
	require.NotNil(t, data)

	evt := data["evtBasesTrab"].(map[string]any)
	cp := evt["infoCpCalc"].(map[string]any)
	assert.Equal(t, "3200", cp["vrCpSeg"])
	assert.Equal(t, "384", cp["vrDescSeg"])
}

// ===== PROCESS TESTS =====

func TestProcessPeriod_FullRun(t *testing.T) {
	t.Parallel()
	calc, items := calculatedPayroll()
	calcRepo := &fakeCalcRepo{calc: calc, items: items}
	eventRepo := &fakeESocialEventRepo{}
	batchRepo := &fakeBatchRepo{}
	svc := newTestService(calcRepo, eventRepo, batchRepo, NewSimulatedTransmitter())

	result, err := svc.ProcessPeriod(authedContext(t), esocial.ProcessRequest{Period: testPeriod})
	require.NoError(t, err)

	// S-1000 for the company, S-1200 and S-5001 for the employee.
	assert.Equal(t, 3, result.EventsProcessed)
	assert.Equal(t, 3, result.EventsSent)
	assert.Equal(t, 3, result.EventsAccepted)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)

	require.NotNil(t, result.BatchID)
	batch := batchRepo.batches[0]
	assert.Equal(t, esocial.BatchStatusAccepted, batch.Status)
	assert.Equal(t, 3, batch.TotalEvents)
	assert.Equal(t, 3, batch.AcceptedEvents)
	assert.Contains(t, batch.BatchNumber, "BATCH-"+testPeriod)

	for _, ev := range eventRepo.events {
		assert.Equal(t, esocial.EventStatusAccepted, ev.Status)
		assert.Equal(t, 3, ev.MaxRetries)
		assert.NotNil(t, ev.SentAt)
	}
}

func TestProcessPeriod_NoCalculationWarns(t *testing.T) {
	t.Parallel()
	calcRepo := &fakeCalcRepo{} // no calculation on file
	eventRepo := &fakeESocialEventRepo{}
	batchRepo := &fakeBatchRepo{}
	svc := newTestService(calcRepo, eventRepo, batchRepo, NewSimulatedTransmitter())

	result, err := svc.ProcessPeriod(authedContext(t), esocial.ProcessRequest{Period: testPeriod})
	require.NoError(t, err)

	// Only the company-level S-1000 goes out.
	assert.Equal(t, 1, result.EventsProcessed)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], testEmployeeID)
}

func TestProcessPeriod_TransmissionFailureTracked(t *testing.T) {
	t.Parallel()
	calc, items := calculatedPayroll()
	calcRepo := &fakeCalcRepo{calc: calc, items: items}
	eventRepo := &fakeESocialEventRepo{}
	batchRepo := &fakeBatchRepo{}
	svc := newTestService(calcRepo, eventRepo, batchRepo, &failingTransmitter{})

	result, err := svc.ProcessPeriod(authedContext(t), esocial.ProcessRequest{Period: testPeriod})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.EventsError)
	assert.Zero(t, result.EventsAccepted)
	assert.Equal(t, esocial.BatchStatusError, batchRepo.batches[0].Status)

	for _, ev := range eventRepo.events {
		assert.Equal(t, esocial.EventStatusError, ev.Status)
		assert.Equal(t, 1, ev.RetryCount)
		require.NotNil(t, ev.ErrorMessage)
	}
}

func TestRetryPending_RecoversErroredEvents(t *testing.T) {
	t.Parallel()
	calc, items := calculatedPayroll()
	calcRepo := &fakeCalcRepo{calc: calc, items: items}
	eventRepo := &fakeESocialEventRepo{}
	batchRepo := &fakeBatchRepo{}

	failing := newTestService(calcRepo, eventRepo, batchRepo, &failingTransmitter{})
	_, err := failing.ProcessPeriod(authedContext(t), esocial.ProcessRequest{Period: testPeriod})
	require.NoError(t, err)

	// Endpoint back up: the retry queue drains into accepted.
	svc := newTestService(calcRepo, eventRepo, batchRepo, NewSimulatedTransmitter())
	result, err := svc.RetryPending(authedContext(t))
	require.NoError(t, err)

	assert.Equal(t, 3, result.EventsRetried)
	assert.Equal(t, 3, result.EventsAccepted)
	assert.Zero(t, result.EventsError)
	assert.Empty(t, result.Errors)
	for _, ev := range eventRepo.events {
		assert.Equal(t, esocial.EventStatusAccepted, ev.Status)
	}
}

func TestRetryPending_SkipsExhaustedEvents(t *testing.T) {
	t.Parallel()
	eventRepo := &fakeESocialEventRepo{events: []esocial.Event{{
		ID:         "es-stuck",
		CompanyID:  testCompanyID,
		EmployeeID: testEmployeeID,
		EventType:  "S-1200",
		Period:     testPeriod,
		Status:     esocial.EventStatusError,
		RetryCount: 3,
		MaxRetries: 3,
	}}}
	svc := newTestService(&fakeCalcRepo{}, eventRepo, &fakeBatchRepo{}, NewSimulatedTransmitter())

	result, err := svc.RetryPending(authedContext(t))
	require.NoError(t, err)

	assert.Zero(t, result.EventsRetried)
	assert.Equal(t, esocial.EventStatusError, eventRepo.events[0].Status)
}

func TestProcessPeriod_InvalidPeriod(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeCalcRepo{}, &fakeESocialEventRepo{}, &fakeBatchRepo{}, NewSimulatedTransmitter())

	_, err := svc.ProcessPeriod(authedContext(t), esocial.ProcessRequest{Period: "2024/03"})
	assert.Error(t, err)
}

func TestProcessPeriod_NoEmployees(t *testing.T) {
	t.Parallel()
	svc := NewIntegrationService(
		NewRegistry(),
		NewSimulatedTransmitter(),
		&fakeESocialEventRepo{},
		&fakeBatchRepo{},
		&fakeCompanyRepo{},
		&fakeEmployeeRepo{},
		&fakeCalcRepo{},
	)

	_, err := svc.ProcessPeriod(authedContext(t), esocial.ProcessRequest{Period: testPeriod})
	assert.ErrorIs(t, err, esocial.ErrNoEmployees)
}

func TestListEventsAndBatches(t *testing.T) {
	t.Parallel()
	calc, items := calculatedPayroll()
	calcRepo := &fakeCalcRepo{calc: calc, items: items}
	eventRepo := &fakeESocialEventRepo{}
	batchRepo := &fakeBatchRepo{}
	svc := newTestService(calcRepo, eventRepo, batchRepo, NewSimulatedTransmitter())
	ctx := authedContext(t)

	_, err := svc.ProcessPeriod(ctx, esocial.ProcessRequest{Period: testPeriod})
	require.NoError(t, err)

	s1200 := "S-1200"
	events, err := svc.ListEvents(ctx, esocial.EventFilter{Period: testPeriod, EventType: &s1200})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "accepted", events[0].Status)

	batches, err := svc.ListBatches(ctx, testPeriod)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 3, batches[0].TotalEvents)
}
