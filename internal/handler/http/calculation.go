package http

import (
	"encoding/json"
	"net/http"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CalculationHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type calculationHandlerImpl struct {
	calculationService payroll.CalculationService
}

func NewCalculationHandler(calculationService payroll.CalculationService) CalculationHandler {
	return &calculationHandlerImpl{calculationService: calculationService}
}

func (h *calculationHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.calculationService.CalculatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll calculated", result)
}

func (h *calculationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.calculationService.GetCalculation(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *calculationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter payroll.CalculationFilter
	if v := r.URL.Query().Get("period"); v != "" {
		filter.Period = &v
	}
	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	calculations, err := h.calculationService.ListCalculations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calculations)
}

func (h *calculationHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.calculationService.ApproveCalculation(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calculation approved", nil)
}
