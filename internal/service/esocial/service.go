package esocial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/company"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
)

type IntegrationServiceImpl struct {
	registry     *Registry
	transmitter  esocial.Transmitter
	eventRepo    esocial.EventRepository
	batchRepo    esocial.BatchRepository
	companyRepo  company.CompanyRepository
	employeeRepo employee.EmployeeRepository
	calcRepo     payroll.CalculationRepository
}

func NewIntegrationService(
	registry *Registry,
	transmitter esocial.Transmitter,
	eventRepo esocial.EventRepository,
	batchRepo esocial.BatchRepository,
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	calcRepo payroll.CalculationRepository,
) esocial.IntegrationService {
	return &IntegrationServiceImpl{
		registry:     registry,
		transmitter:  transmitter,
		eventRepo:    eventRepo,
		batchRepo:    batchRepo,
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		calcRepo:     calcRepo,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *IntegrationServiceImpl) ProcessPeriod(ctx context.Context, req esocial.ProcessRequest) (esocial.ProcessResult, error) {
	if err := req.Validate(); err != nil {
		return esocial.ProcessResult{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return esocial.ProcessResult{}, err
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return esocial.ProcessResult{}, err
	}

	employees, err := s.resolveEmployees(ctx, companyID, req.EmployeeIDs)
	if err != nil {
		return esocial.ProcessResult{}, err
	}
	if len(employees) == 0 {
		return esocial.ProcessResult{}, esocial.ErrNoEmployees
	}

	result := esocial.ProcessResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	events, err := s.buildEvents(ctx, comp, employees, req.Period, &result)
	if err != nil {
		return esocial.ProcessResult{}, err
	}

	batch, err := s.batchRepo.Create(ctx, esocial.Batch{
		CompanyID:   companyID,
		BatchNumber: fmt.Sprintf("BATCH-%s-%d", req.Period, time.Now().Unix()),
		Period:      req.Period,
		TotalEvents: len(events),
		Status:      esocial.BatchStatusPending,
	})
	if err != nil {
		return esocial.ProcessResult{}, err
	}
	result.BatchID = &batch.ID

	created := make([]esocial.Event, 0, len(events))
	for _, ev := range events {
		row, err := s.eventRepo.Create(ctx, ev)
		if err != nil {
			return esocial.ProcessResult{}, err
		}
		created = append(created, row)
	}
	result.EventsProcessed = len(created)

	sent, accepted, rejected, errored := s.transmit(ctx, created, &result)

	batchStatus := esocial.BatchStatusSent
	switch {
	case errored == len(created) && len(created) > 0:
		batchStatus = esocial.BatchStatusError
	case rejected > 0 || errored > 0:
		batchStatus = esocial.BatchStatusRejected
	case accepted == len(created):
		batchStatus = esocial.BatchStatusAccepted
	}

	if err := s.batchRepo.UpdateCounters(ctx, batch.ID, batchStatus, sent, accepted, rejected, errored); err != nil {
		return esocial.ProcessResult{}, err
	}

	result.EventsSent = sent
	result.EventsAccepted = accepted
	result.EventsRejected = rejected
	result.EventsError = errored
	result.Success = errored == 0 && rejected == 0

	return result, nil
}

func (s *IntegrationServiceImpl) resolveEmployees(ctx context.Context, companyID string, employeeIDs []string) ([]employee.Employee, error) {
	if len(employeeIDs) == 0 {
		return s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	}

	employees := make([]employee.Employee, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// buildEvents assembles one S-1000 for the company and the per-employee
// events for every implemented type. Employees without a finalized
// calculation get a warning instead of remuneration events.
func (s *IntegrationServiceImpl) buildEvents(ctx context.Context, comp company.Company, employees []employee.Employee, period string, result *esocial.ProcessResult) ([]esocial.Event, error) {
	var events []esocial.Event

	newEvent := func(employeeID, eventType string, data map[string]any) esocial.Event {
		return esocial.Event{
			CompanyID:  comp.ID,
			EmployeeID: employeeID,
			EventType:  eventType,
			Period:     period,
			EventData:  data,
			Status:     esocial.EventStatusPending,
			RetryCount: 0,
			MaxRetries: 3,
		}
	}

	companyInput := esocial.BuildInput{Period: period, Company: comp}
	s1000, err := s.registry.Build(ctx, "S-1000", companyInput)
	if err != nil {
		return nil, err
	}
	if s1000 != nil {
		events = append(events, newEvent("", "S-1000", s1000))
	}

	for _, emp := range employees {
		in := esocial.BuildInput{Period: period, Company: comp, Employee: emp}

		calc, err := s.calcRepo.GetByEmployeePeriod(ctx, comp.ID, emp.ID, period)
		switch {
		case err == nil:
			items, err := s.calcRepo.GetItems(ctx, calc.ID)
			if err != nil {
				return nil, err
			}
			in.Calculation = &calc
			in.Items = items
		case errors.Is(err, payroll.ErrCalculationNotFound):
			result.Warnings = append(result.Warnings, fmt.Sprintf("employee %s has no calculation for %s", emp.ID, period))
		default:
			return nil, err
		}

		for _, eventType := range s.registry.ImplementedTypes() {
			if eventType == "S-1000" {
				continue
			}
			data, err := s.registry.Build(ctx, eventType, in)
			if err != nil {
				return nil, err
			}
			if data == nil {
				continue
			}
			events = append(events, newEvent(emp.ID, eventType, data))
		}
	}

	return events, nil
}

func (s *IntegrationServiceImpl) transmit(ctx context.Context, events []esocial.Event, result *esocial.ProcessResult) (sent, accepted, rejected, errored int) {
	for _, ev := range events {
		status, responseData, err := s.transmitter.Transmit(ctx, ev)
		if err != nil {
			errored++
			result.Errors = append(result.Errors, fmt.Sprintf("event %s (%s): %v", ev.ID, ev.EventType, err))
			if markErr := s.eventRepo.MarkError(ctx, ev.ID, err.Error()); markErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("event %s: %v", ev.ID, markErr))
			}
			continue
		}

		if markErr := s.eventRepo.MarkSent(ctx, ev.ID, status, responseData); markErr != nil {
			errored++
			result.Errors = append(result.Errors, fmt.Sprintf("event %s: %v", ev.ID, markErr))
			continue
		}

		sent++
		switch status {
		case esocial.EventStatusAccepted:
			accepted++
		case esocial.EventStatusRejected:
			rejected++
			result.Errors = append(result.Errors, fmt.Sprintf("event %s (%s) rejected", ev.ID, ev.EventType))
		}
	}
	return sent, accepted, rejected, errored
}

func (s *IntegrationServiceImpl) RetryPending(ctx context.Context) (esocial.RetryResult, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return esocial.RetryResult{}, err
	}

	events, err := s.eventRepo.GetPendingByCompany(ctx, companyID)
	if err != nil {
		return esocial.RetryResult{}, err
	}

	scratch := esocial.ProcessResult{Errors: []string{}}
	_, accepted, rejected, errored := s.transmit(ctx, events, &scratch)

	return esocial.RetryResult{
		EventsRetried:  len(events),
		EventsAccepted: accepted,
		EventsRejected: rejected,
		EventsError:    errored,
		Errors:         scratch.Errors,
	}, nil
}

func (s *IntegrationServiceImpl) ListEvents(ctx context.Context, filter esocial.EventFilter) ([]esocial.EventResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]esocial.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, toEventResponse(ev))
	}

	return responses, nil
}

func (s *IntegrationServiceImpl) ListBatches(ctx context.Context, period string) ([]esocial.BatchResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.List(ctx, companyID, period)
	if err != nil {
		return nil, err
	}

	responses := make([]esocial.BatchResponse, 0, len(batches))
	for _, b := range batches {
		responses = append(responses, toBatchResponse(b))
	}

	return responses, nil
}

func toEventResponse(ev esocial.Event) esocial.EventResponse {
	resp := esocial.EventResponse{
		ID:           ev.ID,
		CompanyID:    ev.CompanyID,
		EmployeeID:   ev.EmployeeID,
		EventType:    ev.EventType,
		Period:       ev.Period,
		EventData:    ev.EventData,
		Status:       string(ev.Status),
		ErrorMessage: ev.ErrorMessage,
		RetryCount:   ev.RetryCount,
		MaxRetries:   ev.MaxRetries,
	}
	if ev.SentAt != nil {
		t := ev.SentAt.Format("2006-01-02T15:04:05Z07:00")
		resp.SentAt = &t
	}
	return resp
}

func toBatchResponse(b esocial.Batch) esocial.BatchResponse {
	resp := esocial.BatchResponse{
		ID:             b.ID,
		CompanyID:      b.CompanyID,
		BatchNumber:    b.BatchNumber,
		Period:         b.Period,
		TotalEvents:    b.TotalEvents,
		SentEvents:     b.SentEvents,
		AcceptedEvents: b.AcceptedEvents,
		RejectedEvents: b.RejectedEvents,
		ErrorEvents:    b.ErrorEvents,
		Status:         string(b.Status),
	}
	if b.SentAt != nil {
		t := b.SentAt.Format("2006-01-02T15:04:05Z07:00")
		resp.SentAt = &t
	}
	return resp
}
