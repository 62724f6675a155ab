package response

import (
	"errors"
	"net/http"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/company"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Company / employee domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll event domain errors
	case errors.Is(err, payrollevent.ErrEventNotFound):
		NotFound(w, "Payroll event not found")
	case errors.Is(err, payrollevent.ErrEventAlreadyDecided):
		Conflict(w, "Payroll event already approved or rejected")
	case errors.Is(err, payrollevent.ErrEventAlreadyProcessed):
		Conflict(w, "Payroll event already processed")
	case errors.Is(err, payrollevent.ErrInvalidPeriod):
		BadRequest(w, "Invalid period", nil)

	// Calculation domain errors
	case errors.Is(err, payroll.ErrRubricaNotFound):
		NotFound(w, "Rubrica not found")
	case errors.Is(err, payroll.ErrRubricaCodigoExists):
		Conflict(w, "Rubrica codigo already exists")
	case errors.Is(err, payroll.ErrCalculationNotFound):
		NotFound(w, "Payroll calculation not found")
	case errors.Is(err, payroll.ErrCalculationNotCalculated):
		Conflict(w, "Calculation must be in calculated status")

	// eSocial domain errors
	case errors.Is(err, esocial.ErrBuilderNotImplemented):
		BadRequest(w, "eSocial event type not implemented", nil)
	case errors.Is(err, esocial.ErrEventNotFound):
		NotFound(w, "eSocial event not found")
	case errors.Is(err, esocial.ErrBatchNotFound):
		NotFound(w, "eSocial batch not found")
	case errors.Is(err, esocial.ErrNoEmployees):
		BadRequest(w, "No employees found for the period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
