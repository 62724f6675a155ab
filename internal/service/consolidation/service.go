package consolidation

import (
	"context"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

var (
	standardWorkday = decimal.NewFromInt(8)
	overtimeRate    = decimal.NewFromFloat(1.5)
	hundred         = decimal.NewFromInt(100)
)

type ConsolidationServiceImpl struct {
	tx           database.TxManager
	eventRepo    payrollevent.EventRepository
	employeeRepo employee.EmployeeRepository
	hrRepo       employee.HRSourceRepository
}

func NewConsolidationService(
	tx database.TxManager,
	eventRepo payrollevent.EventRepository,
	employeeRepo employee.EmployeeRepository,
	hrRepo employee.HRSourceRepository,
) payrollevent.ConsolidationService {
	return &ConsolidationServiceImpl{
		tx:           tx,
		eventRepo:    eventRepo,
		employeeRepo: employeeRepo,
		hrRepo:       hrRepo,
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

func (s *ConsolidationServiceImpl) ConsolidatePayrollEvents(ctx context.Context, req payrollevent.ConsolidateRequest) (payrollevent.ConsolidationResult, error) {
	if err := req.Validate(); err != nil {
		return payrollevent.ConsolidationResult{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payrollevent.ConsolidationResult{}, err
	}

	result := payrollevent.ConsolidationResult{
		Period: req.Period,
		Events: []payrollevent.EventResponse{},
		Errors: []string{},
	}

	// An empty request scope means every active employee; inactive ones
	// never receive consolidated events.
	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			return payrollevent.ConsolidationResult{}, err
		}
		for _, emp := range employees {
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}

	passes := []struct {
		source  payrollevent.EventSource
		collect func(ctx context.Context) ([]payrollevent.PayrollEvent, []string, error)
	}{
		{payrollevent.EventSourceTimeRecords, func(ctx context.Context) ([]payrollevent.PayrollEvent, []string, error) {
			return s.consolidateTimeRecords(ctx, companyID, req.Period, employeeIDs)
		}},
		{payrollevent.EventSourceBenefits, func(ctx context.Context) ([]payrollevent.PayrollEvent, []string, error) {
			return s.consolidateBenefits(ctx, companyID, req.Period, employeeIDs)
		}},
		{payrollevent.EventSourceAbsences, func(ctx context.Context) ([]payrollevent.PayrollEvent, []string, error) {
			return s.consolidateAbsences(ctx, companyID, req.Period, employeeIDs)
		}},
		{payrollevent.EventSourceAllowances, func(ctx context.Context) ([]payrollevent.PayrollEvent, []string, error) {
			return s.consolidateAllowances(ctx, companyID, req.Period, employeeIDs)
		}},
	}

	inserted := 0
	for _, pass := range passes {
		events, errs, err := pass.collect(ctx)
		if err != nil {
			return payrollevent.ConsolidationResult{}, err
		}
		result.Errors = append(result.Errors, errs...)

		// Each pass replaces its own still-pending output so a re-run is
		// idempotent for untouched sources.
		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := s.eventRepo.DeletePendingBySource(txCtx, companyID, req.Period, pass.source, employeeIDs); err != nil {
				return err
			}
			for i, ev := range events {
				ev.Status = payrollevent.EventStatusPending
				ev.CreatedBy = &userID
				created, err := s.eventRepo.Create(txCtx, ev)
				if err != nil {
					return err
				}
				events[i] = created
				inserted++
			}
			return nil
		})
		if err != nil {
			return payrollevent.ConsolidationResult{}, err
		}

		for _, ev := range events {
			result.Events = append(result.Events, toEventResponse(ev))
		}
	}

	result.TotalEvents = len(result.Events)
	result.ErrorEvents = len(result.Errors)
	// Validation findings are reported alongside the events, which are
	// persisted regardless, so the processed count tracks actual inserts.
	result.ProcessedEvents = inserted

	return result, nil
}

func (s *ConsolidationServiceImpl) consolidateTimeRecords(ctx context.Context, companyID, period string, employeeIDs []string) ([]payrollevent.PayrollEvent, []string, error) {
	records, err := s.hrRepo.GetTimeRecords(ctx, companyID, period, employeeIDs)
	if err != nil {
		return nil, nil, err
	}

	var events []payrollevent.PayrollEvent
	var errs []string

	for _, rec := range records {
		worked := workedHours(rec)
		if !worked.IsPositive() {
			continue
		}

		event := payrollevent.PayrollEvent{
			CompanyID:   companyID,
			EmployeeID:  rec.EmployeeID,
			Period:      period,
			EventType:   payrollevent.EventTypeTimeRecord,
			EventSource: payrollevent.EventSourceTimeRecords,
			EventData: map[string]any{
				"time_record_id": rec.ID,
				"date":           rec.Date.Format("2006-01-02"),
				"worked_hours":   worked.String(),
				"tipo":           rec.Tipo,
			},
			CalculatedValue: worked,
			BaseValue:       standardWorkday,
			Multiplier:      decimal.NewFromInt(1),
		}
		errs = append(errs, validateEvent(event)...)
		events = append(events, event)

		if worked.GreaterThan(standardWorkday) {
			overtime := payrollevent.PayrollEvent{
				CompanyID:   companyID,
				EmployeeID:  rec.EmployeeID,
				Period:      period,
				EventType:   payrollevent.EventTypeOvertime,
				EventSource: payrollevent.EventSourceTimeRecords,
				EventData: map[string]any{
					"time_record_id": rec.ID,
					"date":           rec.Date.Format("2006-01-02"),
					"worked_hours":   worked.String(),
					"overtime_hours": worked.Sub(standardWorkday).String(),
				},
				CalculatedValue: worked.Sub(standardWorkday),
				BaseValue:       standardWorkday,
				Multiplier:      overtimeRate,
			}
			errs = append(errs, validateEvent(overtime)...)
			events = append(events, overtime)
		}
	}

	return events, errs, nil
}

// workedHours is checkout minus checkin, minus the break when both break
// marks exist, floored at zero. Incomplete records contribute nothing.
func workedHours(rec employee.TimeRecord) decimal.Decimal {
	if rec.CheckIn == nil || rec.CheckOut == nil {
		return decimal.Zero
	}

	minutes := rec.CheckOut.Sub(*rec.CheckIn).Minutes()
	if rec.BreakStart != nil && rec.BreakEnd != nil {
		minutes -= rec.BreakEnd.Sub(*rec.BreakStart).Minutes()
	}
	if minutes <= 0 {
		return decimal.Zero
	}

	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

func (s *ConsolidationServiceImpl) consolidateBenefits(ctx context.Context, companyID, period string, employeeIDs []string) ([]payrollevent.PayrollEvent, []string, error) {
	benefits, err := s.hrRepo.GetActiveBenefits(ctx, companyID, period, employeeIDs)
	if err != nil {
		return nil, nil, err
	}

	var events []payrollevent.PayrollEvent
	var errs []string

	for _, b := range benefits {
		var value, base decimal.Decimal

		switch b.BenefitTipo {
		case employee.BenefitTypeFixed:
			if b.Valor == nil {
				errs = append(errs, fmt.Sprintf("benefit %s for employee %s has no fixed value configured", b.BenefitNome, b.EmployeeID))
				continue
			}
			value = *b.Valor
			base = *b.Valor
		case employee.BenefitTypePercentage:
			if b.Percentual == nil {
				errs = append(errs, fmt.Sprintf("benefit %s for employee %s has no percentage configured", b.BenefitNome, b.EmployeeID))
				continue
			}
			value = b.SalarioBase.Mul(*b.Percentual).Div(hundred).Round(2)
			base = b.SalarioBase
		default:
			errs = append(errs, fmt.Sprintf("benefit %s for employee %s has unknown tipo %q", b.BenefitNome, b.EmployeeID, b.BenefitTipo))
			continue
		}

		event := payrollevent.PayrollEvent{
			CompanyID:   companyID,
			EmployeeID:  b.EmployeeID,
			Period:      period,
			EventType:   payrollevent.EventTypeBenefit,
			EventSource: payrollevent.EventSourceBenefits,
			EventData: map[string]any{
				"benefit_id":   b.BenefitID,
				"benefit_nome": b.BenefitNome,
				"benefit_tipo": string(b.BenefitTipo),
			},
			CalculatedValue: value,
			BaseValue:       base,
			Multiplier:      decimal.NewFromInt(1),
		}
		errs = append(errs, validateEvent(event)...)
		events = append(events, event)
	}

	return events, errs, nil
}

func (s *ConsolidationServiceImpl) consolidateAbsences(ctx context.Context, companyID, period string, employeeIDs []string) ([]payrollevent.PayrollEvent, []string, error) {
	absences, err := s.hrRepo.GetAbsences(ctx, companyID, period, employeeIDs)
	if err != nil {
		return nil, nil, err
	}

	var events []payrollevent.PayrollEvent
	var errs []string

	for _, a := range absences {
		// Inclusive day count: a one-day absence has inicio == fim.
		days := int(a.DataFim.Sub(a.DataInicio).Hours()/24) + 1
		if days < 1 {
			errs = append(errs, fmt.Sprintf("absence %s for employee %s ends before it starts", a.ID, a.EmployeeID))
			continue
		}

		daysDec := decimal.NewFromInt(int64(days))
		event := payrollevent.PayrollEvent{
			CompanyID:   companyID,
			EmployeeID:  a.EmployeeID,
			Period:      period,
			EventType:   payrollevent.EventTypeAbsence,
			EventSource: payrollevent.EventSourceAbsences,
			EventData: map[string]any{
				"absence_id":      a.ID,
				"absence_type":    a.AbsenceTypeName,
				"data_inicio":     a.DataInicio.Format("2006-01-02"),
				"data_fim":        a.DataFim.Format("2006-01-02"),
				"days":            days,
				"atestado_medico": a.AtestadoMedico,
			},
			CalculatedValue: daysDec.Neg(),
			BaseValue:       daysDec,
			Multiplier:      decimal.NewFromInt(-1),
		}
		errs = append(errs, validateEvent(event)...)
		events = append(events, event)
	}

	return events, errs, nil
}

func (s *ConsolidationServiceImpl) consolidateAllowances(ctx context.Context, companyID, period string, employeeIDs []string) ([]payrollevent.PayrollEvent, []string, error) {
	allowances, err := s.hrRepo.GetActiveAllowances(ctx, companyID, period, employeeIDs)
	if err != nil {
		return nil, nil, err
	}

	var events []payrollevent.PayrollEvent
	var errs []string

	for _, a := range allowances {
		multiplier := decimal.NewFromInt(1)
		if a.Percentual != nil {
			multiplier = a.Percentual.Div(hundred)
		}

		event := payrollevent.PayrollEvent{
			CompanyID:   companyID,
			EmployeeID:  a.EmployeeID,
			Period:      period,
			EventType:   payrollevent.EventTypeAllowance,
			EventSource: payrollevent.EventSourceAllowances,
			EventData: map[string]any{
				"allowance_id":   a.ID,
				"allowance_type": a.AllowanceTypeName,
			},
			CalculatedValue: a.Valor,
			BaseValue:       a.Valor,
			Multiplier:      multiplier,
		}
		errs = append(errs, validateEvent(event)...)
		events = append(events, event)
	}

	return events, errs, nil
}

// validateEvent collects the business-rule problems of one event. Absence
// events legitimately carry negative values; everything else must be
// non-negative.
func validateEvent(ev payrollevent.PayrollEvent) []string {
	if ev.EventType == payrollevent.EventTypeAbsence {
		return nil
	}

	var errs []string
	if ev.CalculatedValue.IsNegative() {
		errs = append(errs, fmt.Sprintf("event %s for employee %s has negative value %s", ev.EventType, ev.EmployeeID, ev.CalculatedValue))
	}
	if ev.Multiplier.IsNegative() {
		errs = append(errs, fmt.Sprintf("event %s for employee %s has negative multiplier %s", ev.EventType, ev.EmployeeID, ev.Multiplier))
	}
	return errs
}

func (s *ConsolidationServiceImpl) GetConsolidatedEvents(ctx context.Context, filter payrollevent.EventFilter) ([]payrollevent.EventResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payrollevent.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, toEventResponse(ev))
	}

	return responses, nil
}

func (s *ConsolidationServiceImpl) ApproveEvents(ctx context.Context, req payrollevent.ApproveEventsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.eventRepo.Approve(ctx, companyID, req.EventIDs, userID)
}

func (s *ConsolidationServiceImpl) RejectEvents(ctx context.Context, req payrollevent.RejectEventsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.eventRepo.Reject(ctx, companyID, req.EventIDs, userID, req.Reason)
}

func (s *ConsolidationServiceImpl) GetApprovedEvents(ctx context.Context, employeeID, period string) ([]payrollevent.PayrollEvent, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return s.eventRepo.GetApprovedByEmployeePeriod(ctx, companyID, employeeID, period)
}

func (s *ConsolidationServiceImpl) MarkEventsProcessed(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.eventRepo.MarkProcessed(ctx, companyID, eventIDs)
}

func toEventResponse(ev payrollevent.PayrollEvent) payrollevent.EventResponse {
	resp := payrollevent.EventResponse{
		ID:              ev.ID,
		CompanyID:       ev.CompanyID,
		EmployeeID:      ev.EmployeeID,
		Period:          ev.Period,
		EventType:       string(ev.EventType),
		EventSource:     string(ev.EventSource),
		EventData:       ev.EventData,
		CalculatedValue: ev.CalculatedValue,
		BaseValue:       ev.BaseValue,
		Multiplier:      ev.Multiplier,
		Status:          string(ev.Status),
		ApprovedBy:      ev.ApprovedBy,
		Notes:           ev.Notes,
		CreatedAt:       ev.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if ev.ApprovedAt != nil {
		t := ev.ApprovedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ApprovedAt = &t
	}
	if ev.ProcessedAt != nil {
		t := ev.ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ProcessedAt = &t
	}
	return resp
}
