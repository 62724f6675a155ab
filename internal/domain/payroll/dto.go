package payroll

import (
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateRequest struct {
	EmployeeID      string `json:"employee_id"`
	Period          string `json:"period"`
	CalculationType string `json:"calculation_type,omitempty"` // defaults to "full"
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidPeriod(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be in YYYY-MM format"})
	}
	switch r.CalculationType {
	case "", string(CalculationTypeFull), string(CalculationTypeIncremental), string(CalculationTypeRecalculation):
	default:
		errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "must be 'full', 'incremental' or 'recalculation'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ValidationOutcome string

const (
	ValidationPassed  ValidationOutcome = "passed"
	ValidationFailed  ValidationOutcome = "failed"
	ValidationWarning ValidationOutcome = "warning"
)

type ValidationResult struct {
	ValidationName string            `json:"validation_name"`
	ValidationType string            `json:"validation_type"`
	Result         ValidationOutcome `json:"result"`
	Message        string            `json:"message"`
}

type CalculationResult struct {
	Calculation    CalculationResponse `json:"calculation"`
	Items          []ItemResponse      `json:"items"`
	TotalProventos decimal.Decimal     `json:"total_proventos"`
	TotalDescontos decimal.Decimal     `json:"total_descontos"`
	SalarioBruto   decimal.Decimal     `json:"salario_bruto"`
	SalarioLiquido decimal.Decimal     `json:"salario_liquido"`
	Validations    []ValidationResult  `json:"validations"`
}

type CalculationResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	EmployeeID      string          `json:"employee_id"`
	Period          string          `json:"period"`
	CalculationType string          `json:"calculation_type"`
	TotalProventos  decimal.Decimal `json:"total_proventos"`
	TotalDescontos  decimal.Decimal `json:"total_descontos"`
	SalarioBruto    decimal.Decimal `json:"salario_bruto"`
	SalarioLiquido  decimal.Decimal `json:"salario_liquido"`
	Status          string          `json:"status"`
	CalculatedAt    *string         `json:"calculated_at,omitempty"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

type ItemResponse struct {
	ID              string          `json:"id"`
	CalculationID   string          `json:"calculation_id"`
	RubricaID       string          `json:"rubrica_id"`
	Codigo          string          `json:"codigo"`
	Nome            string          `json:"nome"`
	Tipo            string          `json:"tipo"`
	ValorBase       decimal.Decimal `json:"valor_base"`
	Percentual      decimal.Decimal `json:"percentual"`
	ValorCalculado  decimal.Decimal `json:"valor_calculado"`
	Quantidade      decimal.Decimal `json:"quantidade"`
	Unidade         string          `json:"unidade"`
	FormulaAplicada string          `json:"formula_aplicada,omitempty"`
	OrdemCalculo    int             `json:"ordem_calculo"`
	IsManual        bool            `json:"is_manual"`
}

type CalculationFilter struct {
	Period     *string `json:"period,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// ========== RUBRICA DTOs ==========

type CreateRubricaRequest struct {
	Codigo        string           `json:"codigo"`
	Nome          string           `json:"nome"`
	Tipo          string           `json:"tipo"`
	Categoria     string           `json:"categoria"`
	ValorFixo     *decimal.Decimal `json:"valor_fixo,omitempty"`
	Percentual    *decimal.Decimal `json:"percentual,omitempty"`
	BaseCalculo   *string          `json:"base_calculo,omitempty"`
	OrdemCalculo  int              `json:"ordem_calculo"`
	IsObrigatorio bool             `json:"is_obrigatorio"`
	IsVisivel     *bool            `json:"is_visivel,omitempty"`
}

func (r *CreateRubricaRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Codigo) {
		errs = append(errs, validator.ValidationError{Field: "codigo", Message: "is required"})
	}
	if validator.IsEmpty(r.Nome) {
		errs = append(errs, validator.ValidationError{Field: "nome", Message: "is required"})
	}
	switch RubricaTipo(r.Tipo) {
	case RubricaTipoProvento, RubricaTipoDesconto, RubricaTipoBaseCalculo:
	default:
		errs = append(errs, validator.ValidationError{Field: "tipo", Message: "must be 'provento', 'desconto' or 'base_calculo'"})
	}
	switch RubricaCategoria(r.Categoria) {
	case CategoriaSalario, CategoriaHoraExtra, CategoriaBeneficio, CategoriaImposto, CategoriaDesconto, CategoriaAdicional:
	default:
		errs = append(errs, validator.ValidationError{Field: "categoria", Message: "invalid categoria"})
	}
	if r.Percentual != nil && r.Percentual.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "percentual", Message: "must be non-negative"})
	}
	if r.ValorFixo != nil && r.ValorFixo.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "valor_fixo", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRubricaRequest struct {
	ID            string
	Nome          *string          `json:"nome,omitempty"`
	ValorFixo     *decimal.Decimal `json:"valor_fixo,omitempty"`
	Percentual    *decimal.Decimal `json:"percentual,omitempty"`
	OrdemCalculo  *int             `json:"ordem_calculo,omitempty"`
	IsObrigatorio *bool            `json:"is_obrigatorio,omitempty"`
	IsVisivel     *bool            `json:"is_visivel,omitempty"`
	IsAtivo       *bool            `json:"is_ativo,omitempty"`
}

type RubricaResponse struct {
	ID            string           `json:"id"`
	CompanyID     string           `json:"company_id"`
	Codigo        string           `json:"codigo"`
	Nome          string           `json:"nome"`
	Tipo          string           `json:"tipo"`
	Categoria     string           `json:"categoria"`
	ValorFixo     *decimal.Decimal `json:"valor_fixo,omitempty"`
	Percentual    *decimal.Decimal `json:"percentual,omitempty"`
	BaseCalculo   *string          `json:"base_calculo,omitempty"`
	OrdemCalculo  int              `json:"ordem_calculo"`
	IsObrigatorio bool             `json:"is_obrigatorio"`
	IsVisivel     bool             `json:"is_visivel"`
	IsAtivo       bool             `json:"is_ativo"`
}

// ========== TAX TABLE DTOs ==========

type TaxTablesResponse struct {
	INSSBrackets []INSSBracketResponse `json:"inss_brackets"`
	IRRFBrackets []IRRFBracketResponse `json:"irrf_brackets"`
	FGTSAliquota *decimal.Decimal      `json:"fgts_aliquota,omitempty"`
}

type INSSBracketResponse struct {
	SalarioInicio decimal.Decimal `json:"salario_inicio"`
	SalarioFim    decimal.Decimal `json:"salario_fim"`
	Aliquota      decimal.Decimal `json:"aliquota"`
}

type IRRFBracketResponse struct {
	SalarioInicio    decimal.Decimal `json:"salario_inicio"`
	SalarioFim       decimal.Decimal `json:"salario_fim"`
	Aliquota         decimal.Decimal `json:"aliquota"`
	ParcelaDedutivel decimal.Decimal `json:"parcela_dedutivel"`
}
