package http

import (
	"encoding/json"
	"net/http"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/handler/http/response"
)

type ESocialHandler interface {
	Process(w http.ResponseWriter, r *http.Request)
	Retry(w http.ResponseWriter, r *http.Request)
	ListEvents(w http.ResponseWriter, r *http.Request)
	ListBatches(w http.ResponseWriter, r *http.Request)
}

type esocialHandlerImpl struct {
	integrationService esocial.IntegrationService
}

func NewESocialHandler(integrationService esocial.IntegrationService) ESocialHandler {
	return &esocialHandlerImpl{integrationService: integrationService}
}

func (h *esocialHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	var req esocial.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.integrationService.ProcessPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "eSocial events processed", result)
}

func (h *esocialHandlerImpl) Retry(w http.ResponseWriter, r *http.Request) {
	result, err := h.integrationService.RetryPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "eSocial retry completed", result)
}

func (h *esocialHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := esocial.EventFilter{
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

	events, err := h.integrationService.ListEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

func (h *esocialHandlerImpl) ListBatches(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	batches, err := h.integrationService.ListBatches(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, batches)
}
