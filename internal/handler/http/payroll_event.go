package http

import (
	"encoding/json"
	"net/http"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/handler/http/response"
)

type PayrollEventHandler interface {
	Consolidate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type payrollEventHandlerImpl struct {
	consolidationService payrollevent.ConsolidationService
}

func NewPayrollEventHandler(consolidationService payrollevent.ConsolidationService) PayrollEventHandler {
	return &payrollEventHandlerImpl{consolidationService: consolidationService}
}

func (h *payrollEventHandlerImpl) Consolidate(w http.ResponseWriter, r *http.Request) {
	var req payrollevent.ConsolidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.consolidationService.ConsolidatePayrollEvents(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll events consolidated", result)
}

func (h *payrollEventHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payrollevent.EventFilter{
		Period: r.URL.Query().Get("period"),
	}
	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("event_type"); v != "" {
		filter.EventType = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	events, err := h.consolidationService.GetConsolidatedEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

func (h *payrollEventHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req payrollevent.ApproveEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.consolidationService.ApproveEvents(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll events approved", nil)
}

func (h *payrollEventHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req payrollevent.RejectEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.consolidationService.RejectEvents(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll events rejected", nil)
}
