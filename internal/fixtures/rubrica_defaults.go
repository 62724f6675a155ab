package fixtures

import (
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func basePtr(b payroll.BaseCalculo) *payroll.BaseCalculo { return &b }

// ==========================================
// DEFAULT RUBRICAS
// ==========================================

// GetDefaultRubricas returns the standard Brazilian pay code set for a new
// company: base salary, 50% overtime, benefit and allowance earnings, absence
// discount and the statutory tax codes (INSS, IRRF, FGTS). Companies can add
// their own codes on top or deactivate the optional ones.
func GetDefaultRubricas(companyID string) []payroll.Rubrica {
	return []payroll.Rubrica{
		{
			CompanyID:     companyID,
			Codigo:        "SALARIO",
			Nome:          "Salário Base",
			Tipo:          payroll.RubricaTipoProvento,
			Categoria:     payroll.CategoriaSalario,
			OrdemCalculo:  1,
			IsObrigatorio: true,
			IsVisivel:     true,
			IsAtivo:       true,
		},
		{
			CompanyID:    companyID,
			Codigo:       "HE50",
			Nome:         "Hora Extra 50%",
			Tipo:         payroll.RubricaTipoProvento,
			Categoria:    payroll.CategoriaHoraExtra,
			OrdemCalculo: 2,
			IsVisivel:    true,
			IsAtivo:      true,
		},
		{
			CompanyID:    companyID,
			Codigo:       "BENEFICIO",
			Nome:         "Benefícios",
			Tipo:         payroll.RubricaTipoProvento,
			Categoria:    payroll.CategoriaBeneficio,
			OrdemCalculo: 3,
			IsVisivel:    true,
			IsAtivo:      true,
		},
		{
			CompanyID:    companyID,
			Codigo:       "ADICIONAL",
			Nome:         "Adicionais",
			Tipo:         payroll.RubricaTipoProvento,
			Categoria:    payroll.CategoriaAdicional,
			OrdemCalculo: 4,
			IsVisivel:    true,
			IsAtivo:      true,
		},
		{
			CompanyID:    companyID,
			Codigo:       "FALTAS",
			Nome:         "Faltas e Atrasos",
			Tipo:         payroll.RubricaTipoDesconto,
			Categoria:    payroll.CategoriaDesconto,
			OrdemCalculo: 5,
			IsVisivel:    true,
			IsAtivo:      true,
		},
		{
			CompanyID:     companyID,
			Codigo:        "INSS",
			Nome:          "INSS",
			Tipo:          payroll.RubricaTipoDesconto,
			Categoria:     payroll.CategoriaImposto,
			BaseCalculo:   basePtr(payroll.BaseSalarioBruto),
			OrdemCalculo:  10,
			IsObrigatorio: true,
			IsVisivel:     true,
			IsAtivo:       true,
		},
		{
			CompanyID:     companyID,
			Codigo:        "IRRF",
			Nome:          "Imposto de Renda Retido na Fonte",
			Tipo:          payroll.RubricaTipoDesconto,
			Categoria:     payroll.CategoriaImposto,
			BaseCalculo:   basePtr(payroll.BaseSalarioBruto),
			OrdemCalculo:  11,
			IsObrigatorio: true,
			IsVisivel:     true,
			IsAtivo:       true,
		},
		{
			CompanyID:     companyID,
			Codigo:        "FGTS",
			Nome:          "FGTS",
			Tipo:          payroll.RubricaTipoBaseCalculo,
			Categoria:     payroll.CategoriaImposto,
			Percentual:    decPtr("8"),
			BaseCalculo:   basePtr(payroll.BaseSalarioBruto),
			OrdemCalculo:  12,
			IsObrigatorio: true,
			IsVisivel:     false,
			IsAtivo:       true,
		},
	}
}
