package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	CompanyID      string
	Matricula      string
	Nome           string
	CPF            string
	DataNascimento *time.Time
	Sexo           *string
	SalarioBase    decimal.Decimal
	Dependentes    int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TimeRecord is one raw attendance day as registered by the time clock.
type TimeRecord struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	BreakStart    *time.Time
	BreakEnd      *time.Time
	Tipo          string
	Justificativa *string
}

type BenefitType string

const (
	BenefitTypeFixed      BenefitType = "valor_fixo"
	BenefitTypePercentage BenefitType = "percentual"
)

// EmployeeBenefit is an active benefit assignment with its resolved
// benefit definition joined in.
type EmployeeBenefit struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	BenefitID   string
	BenefitNome string
	BenefitTipo BenefitType
	Valor       *decimal.Decimal
	Percentual  *decimal.Decimal
	SalarioBase decimal.Decimal
	DataInicio  time.Time
	DataFim     *time.Time
	IsActive    bool
}

type Absence struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	AbsenceTypeID   string
	AbsenceTypeName string
	DataInicio      time.Time
	DataFim         time.Time
	Motivo          *string
	AtestadoMedico  bool
}

type Allowance struct {
	ID                string
	CompanyID         string
	EmployeeID        string
	AllowanceTypeID   string
	AllowanceTypeName string
	Valor             decimal.Decimal
	Percentual        *decimal.Decimal
	DataInicio        time.Time
	DataFim           *time.Time
	Observacoes       *string
	IsActive          bool
}
