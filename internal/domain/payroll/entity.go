package payroll

import (
	"time"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/shopspring/decimal"
)

// RubricaTipo classifies a pay code as earning, deduction or a pure
// calculation base. base_calculo items are excluded from both totals.
type RubricaTipo string

const (
	RubricaTipoProvento    RubricaTipo = "provento"
	RubricaTipoDesconto    RubricaTipo = "desconto"
	RubricaTipoBaseCalculo RubricaTipo = "base_calculo"
)

// RubricaCategoria drives which branch of the calculation applies.
type RubricaCategoria string

const (
	CategoriaSalario   RubricaCategoria = "salario"
	CategoriaHoraExtra RubricaCategoria = "hora_extra"
	CategoriaBeneficio RubricaCategoria = "beneficio"
	CategoriaImposto   RubricaCategoria = "imposto"
	CategoriaDesconto  RubricaCategoria = "desconto"
	CategoriaAdicional RubricaCategoria = "adicional"
)

// BaseCalculo names the prior total a percentage rubrica applies against.
type BaseCalculo string

const (
	BaseSalarioBase  BaseCalculo = "salario_base"
	BaseSalarioBruto BaseCalculo = "salario_bruto"
)

// CategoriaForEventType is the fixed event_type → categoria lookup used
// when matching consolidated events to rubricas. Event types without a
// mapping (manual, calculation) contribute no item of their own.
var CategoriaForEventType = map[payrollevent.EventType]RubricaCategoria{
	payrollevent.EventTypeTimeRecord: CategoriaSalario,
	payrollevent.EventTypeOvertime:   CategoriaHoraExtra,
	payrollevent.EventTypeBenefit:    CategoriaBeneficio,
	payrollevent.EventTypeAbsence:    CategoriaDesconto,
	payrollevent.EventTypeAllowance:  CategoriaAdicional,
}

// Rubrica is a per-company pay code definition. OrdemCalculo defines the
// strict evaluation and display order; later rubricas may depend on totals
// of earlier ones.
type Rubrica struct {
	ID            string
	CompanyID     string
	Codigo        string
	Nome          string
	Tipo          RubricaTipo
	Categoria     RubricaCategoria
	ValorFixo     *decimal.Decimal
	Percentual    *decimal.Decimal
	BaseCalculo   *BaseCalculo
	OrdemCalculo  int
	IsObrigatorio bool
	IsVisivel     bool
	IsAtivo       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CalculationType string

const (
	CalculationTypeFull          CalculationType = "full"
	CalculationTypeIncremental   CalculationType = "incremental"
	CalculationTypeRecalculation CalculationType = "recalculation"
)

type CalculationStatus string

const (
	CalculationStatusPending    CalculationStatus = "pending"
	CalculationStatusCalculated CalculationStatus = "calculated"
	CalculationStatusApproved   CalculationStatus = "approved"
	CalculationStatusProcessed  CalculationStatus = "processed"
)

// Calculation is one snapshot of a payroll run for (employee, period).
// SalarioLiquido = SalarioBruto - TotalDescontos always holds.
type Calculation struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	Period          string
	CalculationType CalculationType
	CalculationData map[string]any
	TotalProventos  decimal.Decimal
	TotalDescontos  decimal.Decimal
	SalarioBruto    decimal.Decimal
	SalarioLiquido  decimal.Decimal
	Status          CalculationStatus
	CalculatedAt    *time.Time
	ApprovedBy      *string
	ApprovedAt      *time.Time
	ProcessedAt     *time.Time
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CalculationItem is one payslip line. Codigo, Nome and Tipo are copied
// from the rubrica at calculation time so historical payslips stay stable
// when the rubrica definition changes later.
type CalculationItem struct {
	ID              string
	CalculationID   string
	RubricaID       string
	Codigo          string
	Nome            string
	Tipo            RubricaTipo
	ValorBase       decimal.Decimal
	Percentual      decimal.Decimal
	ValorCalculado  decimal.Decimal
	Quantidade      decimal.Decimal
	Unidade         string
	FormulaAplicada string
	OrdemCalculo    int
	IsManual        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// INSSBracket and IRRFBracket rows come ordered by SalarioInicio; a salary
// matches the bracket whose [SalarioInicio, SalarioFim] range contains it.
type INSSBracket struct {
	ID            string
	CompanyID     string
	SalarioInicio decimal.Decimal
	SalarioFim    decimal.Decimal
	Aliquota      decimal.Decimal
}

type IRRFBracket struct {
	ID               string
	CompanyID        string
	SalarioInicio    decimal.Decimal
	SalarioFim       decimal.Decimal
	Aliquota         decimal.Decimal
	ParcelaDedutivel decimal.Decimal
}

type FGTSConfig struct {
	ID        string
	CompanyID string
	Aliquota  decimal.Decimal
}
