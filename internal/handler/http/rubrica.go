package http

import (
	"encoding/json"
	"net/http"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RubricaHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Seed(w http.ResponseWriter, r *http.Request)
	GetTaxTables(w http.ResponseWriter, r *http.Request)
}

type rubricaHandlerImpl struct {
	rubricaService payroll.RubricaService
}

func NewRubricaHandler(rubricaService payroll.RubricaService) RubricaHandler {
	return &rubricaHandlerImpl{rubricaService: rubricaService}
}

func (h *rubricaHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateRubricaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.rubricaService.CreateRubrica(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Rubrica created", result)
}

func (h *rubricaHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.rubricaService.GetRubrica(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *rubricaHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	rubricas, err := h.rubricaService.ListRubricas(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rubricas)
}

func (h *rubricaHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateRubricaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := h.rubricaService.UpdateRubrica(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rubrica updated", nil)
}

func (h *rubricaHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.rubricaService.DeactivateRubrica(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rubrica deactivated", nil)
}

func (h *rubricaHandlerImpl) Seed(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.rubricaService.SeedDefaultRubricas(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Default rubricas seeded", seeded)
}

func (h *rubricaHandlerImpl) GetTaxTables(w http.ResponseWriter, r *http.Request) {
	result, err := h.rubricaService.GetTaxTables(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
