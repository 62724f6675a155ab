package calculation

import (
	"context"
	"errors"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/fixtures"
)

type RubricaServiceImpl struct {
	rubricaRepo payroll.RubricaRepository
	taxRepo     payroll.TaxRepository
}

func NewRubricaService(
	rubricaRepo payroll.RubricaRepository,
	taxRepo payroll.TaxRepository,
) payroll.RubricaService {
	return &RubricaServiceImpl{
		rubricaRepo: rubricaRepo,
		taxRepo:     taxRepo,
	}
}

func (s *RubricaServiceImpl) CreateRubrica(ctx context.Context, req payroll.CreateRubricaRequest) (payroll.RubricaResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RubricaResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RubricaResponse{}, err
	}

	isVisivel := true
	if req.IsVisivel != nil {
		isVisivel = *req.IsVisivel
	}

	rubrica := payroll.Rubrica{
		CompanyID:     companyID,
		Codigo:        req.Codigo,
		Nome:          req.Nome,
		Tipo:          payroll.RubricaTipo(req.Tipo),
		Categoria:     payroll.RubricaCategoria(req.Categoria),
		ValorFixo:     req.ValorFixo,
		Percentual:    req.Percentual,
		OrdemCalculo:  req.OrdemCalculo,
		IsObrigatorio: req.IsObrigatorio,
		IsVisivel:     isVisivel,
		IsAtivo:       true,
	}
	if req.BaseCalculo != nil {
		base := payroll.BaseCalculo(*req.BaseCalculo)
		rubrica.BaseCalculo = &base
	}

	created, err := s.rubricaRepo.Create(ctx, rubrica)
	if err != nil {
		return payroll.RubricaResponse{}, err
	}

	return toRubricaResponse(created), nil
}

func (s *RubricaServiceImpl) GetRubrica(ctx context.Context, id string) (payroll.RubricaResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RubricaResponse{}, err
	}

	rubrica, err := s.rubricaRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.RubricaResponse{}, err
	}

	return toRubricaResponse(rubrica), nil
}

func (s *RubricaServiceImpl) ListRubricas(ctx context.Context) ([]payroll.RubricaResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rubricas, err := s.rubricaRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.RubricaResponse, 0, len(rubricas))
	for _, rubrica := range rubricas {
		responses = append(responses, toRubricaResponse(rubrica))
	}

	return responses, nil
}

func (s *RubricaServiceImpl) UpdateRubrica(ctx context.Context, req payroll.UpdateRubricaRequest) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.rubricaRepo.Update(ctx, companyID, req)
}

func (s *RubricaServiceImpl) DeactivateRubrica(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.rubricaRepo.Deactivate(ctx, id, companyID)
}

func (s *RubricaServiceImpl) SeedDefaultRubricas(ctx context.Context) ([]payroll.RubricaResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	seeded := make([]payroll.RubricaResponse, 0)
	for _, rubrica := range fixtures.GetDefaultRubricas(companyID) {
		created, err := s.rubricaRepo.Create(ctx, rubrica)
		if err != nil {
			// Seeding is idempotent: codes the company already defined stay as-is.
			if errors.Is(err, payroll.ErrRubricaCodigoExists) {
				continue
			}
			return nil, err
		}
		seeded = append(seeded, toRubricaResponse(created))
	}

	return seeded, nil
}

func (s *RubricaServiceImpl) GetTaxTables(ctx context.Context) (payroll.TaxTablesResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.TaxTablesResponse{}, err
	}

	inss, err := s.taxRepo.GetINSSBrackets(ctx, companyID)
	if err != nil {
		return payroll.TaxTablesResponse{}, err
	}
	irrf, err := s.taxRepo.GetIRRFBrackets(ctx, companyID)
	if err != nil {
		return payroll.TaxTablesResponse{}, err
	}

	resp := payroll.TaxTablesResponse{
		INSSBrackets: make([]payroll.INSSBracketResponse, 0, len(inss)),
		IRRFBrackets: make([]payroll.IRRFBracketResponse, 0, len(irrf)),
	}
	for _, b := range inss {
		resp.INSSBrackets = append(resp.INSSBrackets, payroll.INSSBracketResponse{
			SalarioInicio: b.SalarioInicio,
			SalarioFim:    b.SalarioFim,
			Aliquota:      b.Aliquota,
		})
	}
	for _, b := range irrf {
		resp.IRRFBrackets = append(resp.IRRFBrackets, payroll.IRRFBracketResponse{
			SalarioInicio:    b.SalarioInicio,
			SalarioFim:       b.SalarioFim,
			Aliquota:         b.Aliquota,
			ParcelaDedutivel: b.ParcelaDedutivel,
		})
	}

	fgts, err := s.taxRepo.GetFGTSConfig(ctx, companyID)
	if err != nil {
		if !errors.Is(err, payroll.ErrFGTSConfigNotFound) {
			return payroll.TaxTablesResponse{}, err
		}
	} else {
		resp.FGTSAliquota = &fgts.Aliquota
	}

	return resp, nil
}

func toRubricaResponse(rubrica payroll.Rubrica) payroll.RubricaResponse {
	resp := payroll.RubricaResponse{
		ID:            rubrica.ID,
		CompanyID:     rubrica.CompanyID,
		Codigo:        rubrica.Codigo,
		Nome:          rubrica.Nome,
		Tipo:          string(rubrica.Tipo),
		Categoria:     string(rubrica.Categoria),
		ValorFixo:     rubrica.ValorFixo,
		Percentual:    rubrica.Percentual,
		OrdemCalculo:  rubrica.OrdemCalculo,
		IsObrigatorio: rubrica.IsObrigatorio,
		IsVisivel:     rubrica.IsVisivel,
		IsAtivo:       rubrica.IsAtivo,
	}
	if rubrica.BaseCalculo != nil {
		base := string(*rubrica.BaseCalculo)
		resp.BaseCalculo = &base
	}
	return resp
}
