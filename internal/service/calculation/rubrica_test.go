package calculation

import (
	"testing"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultRubricas_CreatesStandardSet(t *testing.T) {
	ctx := authedContext(t)
	rubricaRepo := &fakeRubricaRepo{}
	svc := NewRubricaService(rubricaRepo, &fakeTaxRepo{})

	seeded, err := svc.SeedDefaultRubricas(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 8)

	byCodigo := make(map[string]payroll.RubricaResponse, len(seeded))
	for _, r := range seeded {
		byCodigo[r.Codigo] = r
	}

	assert.Equal(t, 1, byCodigo["SALARIO"].OrdemCalculo)
	assert.True(t, byCodigo["SALARIO"].IsObrigatorio)
	assert.Equal(t, string(payroll.RubricaTipoDesconto), byCodigo["INSS"].Tipo)
	assert.True(t, byCodigo["INSS"].IsObrigatorio)
	assert.True(t, byCodigo["IRRF"].IsObrigatorio)
	assert.Equal(t, string(payroll.RubricaTipoBaseCalculo), byCodigo["FGTS"].Tipo)
	assert.False(t, byCodigo["FGTS"].IsVisivel)
}

func TestSeedDefaultRubricas_SkipsExistingCodes(t *testing.T) {
	ctx := authedContext(t)
	rubricaRepo := &fakeRubricaRepo{rubricas: []payroll.Rubrica{
		{
			ID:        "custom-salario",
			CompanyID: testCompanyID,
			Codigo:    "SALARIO",
			Nome:      "Salário Personalizado",
			Tipo:      payroll.RubricaTipoProvento,
			Categoria: payroll.CategoriaSalario,
			IsAtivo:   true,
		},
	}}
	svc := NewRubricaService(rubricaRepo, &fakeTaxRepo{})

	seeded, err := svc.SeedDefaultRubricas(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, 7)

	for _, r := range seeded {
		assert.NotEqual(t, "SALARIO", r.Codigo)
	}

	// Running the seed again is a no-op.
	again, err := svc.SeedDefaultRubricas(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, rubricaRepo.rubricas, 8)
}

func TestCreateRubrica_DefaultsToVisible(t *testing.T) {
	ctx := authedContext(t)
	rubricaRepo := &fakeRubricaRepo{}
	svc := NewRubricaService(rubricaRepo, &fakeTaxRepo{})

	created, err := svc.CreateRubrica(ctx, payroll.CreateRubricaRequest{
		Codigo:       "GRATIFICACAO",
		Nome:         "Gratificação",
		Tipo:         string(payroll.RubricaTipoProvento),
		Categoria:    string(payroll.CategoriaAdicional),
		OrdemCalculo: 6,
	})
	require.NoError(t, err)
	assert.True(t, created.IsVisivel)
	assert.True(t, created.IsAtivo)
	assert.Equal(t, testCompanyID, rubricaRepo.rubricas[0].CompanyID)
}
