package calculation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/employee"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payroll"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/payrollevent"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

// CLT monthly hour divisor and the per-dependent IRRF deduction.
var (
	monthlyHourDivisor = decimal.NewFromInt(220)
	dependentDeduction = decimal.NewFromFloat(189.59)
	daysPerMonth       = decimal.NewFromInt(30)
	hundred            = decimal.NewFromInt(100)
)

type CalculationServiceImpl struct {
	tx           database.TxManager
	calcRepo     payroll.CalculationRepository
	rubricaRepo  payroll.RubricaRepository
	taxRepo      payroll.TaxRepository
	employeeRepo employee.EmployeeRepository
	events       payrollevent.ConsolidationService
}

func NewCalculationService(
	tx database.TxManager,
	calcRepo payroll.CalculationRepository,
	rubricaRepo payroll.RubricaRepository,
	taxRepo payroll.TaxRepository,
	employeeRepo employee.EmployeeRepository,
	events payrollevent.ConsolidationService,
) payroll.CalculationService {
	return &CalculationServiceImpl{
		tx:           tx,
		calcRepo:     calcRepo,
		rubricaRepo:  rubricaRepo,
		taxRepo:      taxRepo,
		employeeRepo: employeeRepo,
		events:       events,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *CalculationServiceImpl) CalculatePayroll(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResult{}, err
	}
	if req.CalculationType == "" {
		req.CalculationType = string(payroll.CalculationTypeFull)
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	events, err := s.events.GetApprovedEvents(ctx, req.EmployeeID, req.Period)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	rubricas, err := s.rubricaRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	taxes, err := s.loadTaxTables(ctx, companyID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	items := s.buildItems(emp, rubricas, events, taxes)

	totalProventos := decimal.Zero
	totalDescontos := decimal.Zero
	for _, item := range items {
		switch item.Tipo {
		case payroll.RubricaTipoProvento:
			totalProventos = totalProventos.Add(item.ValorCalculado)
		case payroll.RubricaTipoDesconto:
			totalDescontos = totalDescontos.Add(item.ValorCalculado)
		}
	}

	salarioBruto := totalProventos
	salarioLiquido := salarioBruto.Sub(totalDescontos)

	validations := runValidations(salarioLiquido, items)

	status := payroll.CalculationStatusCalculated
	for _, v := range validations {
		if v.Result == payroll.ValidationFailed {
			status = payroll.CalculationStatusPending
			break
		}
	}

	eventIDs := make([]string, 0, len(events))
	for _, ev := range events {
		eventIDs = append(eventIDs, ev.ID)
	}

	now := time.Now()
	calc := payroll.Calculation{
		CompanyID:       companyID,
		EmployeeID:      req.EmployeeID,
		Period:          req.Period,
		CalculationType: payroll.CalculationType(req.CalculationType),
		CalculationData: map[string]any{
			"event_ids":   eventIDs,
			"validations": validations,
		},
		TotalProventos: totalProventos,
		TotalDescontos: totalDescontos,
		SalarioBruto:   salarioBruto,
		SalarioLiquido: salarioLiquido,
		Status:         status,
		CalculatedAt:   &now,
	}

	created, createdItems, err := s.calcRepo.Replace(ctx, calc, items)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	return buildResult(created, createdItems, validations), nil
}

type taxTables struct {
	inss []payroll.INSSBracket
	irrf []payroll.IRRFBracket
	fgts *payroll.FGTSConfig
}

// loadTaxTables treats a missing FGTS config as an absent table, not an
// error; the corresponding rubrica then resolves to zero.
func (s *CalculationServiceImpl) loadTaxTables(ctx context.Context, companyID string) (taxTables, error) {
	inss, err := s.taxRepo.GetINSSBrackets(ctx, companyID)
	if err != nil {
		return taxTables{}, err
	}
	irrf, err := s.taxRepo.GetIRRFBrackets(ctx, companyID)
	if err != nil {
		return taxTables{}, err
	}

	tables := taxTables{inss: inss, irrf: irrf}

	fgts, err := s.taxRepo.GetFGTSConfig(ctx, companyID)
	if err != nil {
		if !errors.Is(err, payroll.ErrFGTSConfigNotFound) {
			return taxTables{}, err
		}
	} else {
		tables.fgts = &fgts
	}

	return tables, nil
}

// buildItems walks the rubricas in calculation order. Earnings accumulate
// into a running gross that later tax rubricas use as their base.
func (s *CalculationServiceImpl) buildItems(emp employee.Employee, rubricas []payroll.Rubrica, events []payrollevent.PayrollEvent, taxes taxTables) []payroll.CalculationItem {
	byType := map[payrollevent.EventType][]payrollevent.PayrollEvent{}
	for _, ev := range events {
		byType[ev.EventType] = append(byType[ev.EventType], ev)
	}

	var items []payroll.CalculationItem
	runningBruto := decimal.Zero

	for _, rubrica := range rubricas {
		item, ok := s.buildItem(emp, rubrica, byType, taxes, runningBruto)
		if !ok {
			continue
		}
		items = append(items, item)
		if item.Tipo == payroll.RubricaTipoProvento {
			runningBruto = runningBruto.Add(item.ValorCalculado)
		}
	}

	return items
}

func (s *CalculationServiceImpl) buildItem(emp employee.Employee, rubrica payroll.Rubrica, byType map[payrollevent.EventType][]payrollevent.PayrollEvent, taxes taxTables, runningBruto decimal.Decimal) (payroll.CalculationItem, bool) {
	item := payroll.CalculationItem{
		RubricaID:    rubrica.ID,
		Codigo:       rubrica.Codigo,
		Nome:         rubrica.Nome,
		Tipo:         rubrica.Tipo,
		OrdemCalculo: rubrica.OrdemCalculo,
		Quantidade:   decimal.NewFromInt(1),
		Unidade:      "valor",
	}

	switch rubrica.Categoria {
	case payroll.CategoriaSalario:
		evs := byType[payrollevent.EventTypeTimeRecord]
		if len(evs) == 0 && !rubrica.IsObrigatorio {
			return payroll.CalculationItem{}, false
		}
		hours := sumValues(evs)
		item.ValorBase = emp.SalarioBase
		item.ValorCalculado = emp.SalarioBase
		item.Quantidade = hours
		item.Unidade = "horas"
		item.FormulaAplicada = "salario_base"
		return item, true

	case payroll.CategoriaHoraExtra:
		evs := byType[payrollevent.EventTypeOvertime]
		if len(evs) == 0 {
			if rubrica.IsObrigatorio {
				return applyRubricaFormula(emp, rubrica, item, runningBruto), true
			}
			return payroll.CalculationItem{}, false
		}
		hourlyRate := emp.SalarioBase.Div(monthlyHourDivisor)
		total := decimal.Zero
		hours := decimal.Zero
		for _, ev := range evs {
			total = total.Add(ev.CalculatedValue.Mul(hourlyRate).Mul(ev.Multiplier))
			hours = hours.Add(ev.CalculatedValue)
		}
		item.ValorBase = hourlyRate.Round(2)
		item.ValorCalculado = total.Round(2)
		item.Quantidade = hours
		item.Unidade = "horas"
		item.FormulaAplicada = "horas x (salario_base / 220) x multiplicador"
		return item, true

	case payroll.CategoriaBeneficio:
		evs := byType[payrollevent.EventTypeBenefit]
		if len(evs) == 0 {
			if rubrica.IsObrigatorio {
				return applyRubricaFormula(emp, rubrica, item, runningBruto), true
			}
			return payroll.CalculationItem{}, false
		}
		total := sumValues(evs)
		item.ValorBase = total
		item.ValorCalculado = total.Round(2)
		item.Quantidade = decimal.NewFromInt(int64(len(evs)))
		item.FormulaAplicada = "soma dos beneficios aprovados"
		return item, true

	case payroll.CategoriaAdicional:
		evs := byType[payrollevent.EventTypeAllowance]
		if len(evs) == 0 {
			if rubrica.IsObrigatorio {
				return applyRubricaFormula(emp, rubrica, item, runningBruto), true
			}
			return payroll.CalculationItem{}, false
		}
		total := decimal.Zero
		for _, ev := range evs {
			total = total.Add(ev.CalculatedValue.Mul(ev.Multiplier))
		}
		item.ValorBase = sumValues(evs)
		item.ValorCalculado = total.Round(2)
		item.Quantidade = decimal.NewFromInt(int64(len(evs)))
		item.FormulaAplicada = "valor x multiplicador por adicional"
		return item, true

	case payroll.CategoriaDesconto:
		evs := byType[payrollevent.EventTypeAbsence]
		if len(evs) == 0 {
			if rubrica.IsObrigatorio {
				return applyRubricaFormula(emp, rubrica, item, runningBruto), true
			}
			return payroll.CalculationItem{}, false
		}
		// Absence events carry negative day counts; the payslip line is a
		// positive deduction in currency at one thirtieth of base pay per day.
		days := sumValues(evs).Abs()
		dailyRate := emp.SalarioBase.Div(daysPerMonth)
		item.ValorBase = dailyRate.Round(2)
		item.ValorCalculado = days.Mul(dailyRate).Round(2)
		item.Quantidade = days
		item.Unidade = "dias"
		item.FormulaAplicada = "dias x (salario_base / 30)"
		return item, true

	case payroll.CategoriaImposto:
		return s.buildTaxItem(emp, rubrica, item, taxes, runningBruto)
	}

	// Unknown categoria: an obligatory rubrica still resolves through its
	// fixed value or percentage.
	if rubrica.IsObrigatorio {
		return applyRubricaFormula(emp, rubrica, item, runningBruto), true
	}
	return payroll.CalculationItem{}, false
}

func (s *CalculationServiceImpl) buildTaxItem(emp employee.Employee, rubrica payroll.Rubrica, item payroll.CalculationItem, taxes taxTables, runningBruto decimal.Decimal) (payroll.CalculationItem, bool) {
	switch strings.ToUpper(rubrica.Codigo) {
	case "INSS":
		item.ValorBase = runningBruto
		item.ValorCalculado = decimal.Zero
		item.FormulaAplicada = "tabela INSS indisponivel"
		if bracket := findINSSBracket(taxes.inss, runningBruto); bracket != nil {
			item.Percentual = bracket.Aliquota
			item.ValorCalculado = runningBruto.Mul(bracket.Aliquota).Div(hundred).Round(2)
			item.FormulaAplicada = "salario_bruto x aliquota INSS"
		}
		return item, true

	case "IRRF":
		base := runningBruto.Sub(dependentDeduction.Mul(decimal.NewFromInt(int64(emp.Dependentes))))
		item.ValorBase = base
		item.ValorCalculado = decimal.Zero
		item.FormulaAplicada = "tabela IRRF indisponivel"
		if bracket := findIRRFBracket(taxes.irrf, base); bracket != nil {
			value := base.Mul(bracket.Aliquota).Div(hundred).Sub(bracket.ParcelaDedutivel)
			if value.IsNegative() {
				value = decimal.Zero
			}
			item.Percentual = bracket.Aliquota
			item.ValorCalculado = value.Round(2)
			item.FormulaAplicada = "base IRRF x aliquota - parcela dedutivel"
		}
		return item, true

	case "FGTS":
		item.ValorBase = runningBruto
		item.ValorCalculado = decimal.Zero
		item.FormulaAplicada = "configuracao FGTS indisponivel"
		if taxes.fgts != nil {
			item.Percentual = taxes.fgts.Aliquota
			item.ValorCalculado = runningBruto.Mul(taxes.fgts.Aliquota).Div(hundred).Round(2)
			item.FormulaAplicada = "salario_bruto x aliquota FGTS"
		}
		return item, true
	}

	if rubrica.IsObrigatorio {
		return applyRubricaFormula(emp, rubrica, item, runningBruto), true
	}
	return payroll.CalculationItem{}, false
}

// applyRubricaFormula resolves an obligatory rubrica with no events behind
// it from its own configuration.
func applyRubricaFormula(emp employee.Employee, rubrica payroll.Rubrica, item payroll.CalculationItem, runningBruto decimal.Decimal) payroll.CalculationItem {
	switch {
	case rubrica.ValorFixo != nil:
		item.ValorBase = *rubrica.ValorFixo
		item.ValorCalculado = *rubrica.ValorFixo
		item.FormulaAplicada = "valor fixo"
	case rubrica.Percentual != nil:
		base := emp.SalarioBase
		if rubrica.BaseCalculo != nil && *rubrica.BaseCalculo == payroll.BaseSalarioBruto {
			base = runningBruto
		}
		item.ValorBase = base
		item.Percentual = *rubrica.Percentual
		item.ValorCalculado = base.Mul(*rubrica.Percentual).Div(hundred).Round(2)
		item.FormulaAplicada = "base x percentual"
	default:
		item.ValorCalculado = decimal.Zero
		item.FormulaAplicada = "sem valor configurado"
	}
	return item
}

func sumValues(events []payrollevent.PayrollEvent) decimal.Decimal {
	total := decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.CalculatedValue)
	}
	return total
}

func findINSSBracket(brackets []payroll.INSSBracket, salary decimal.Decimal) *payroll.INSSBracket {
	for i := range brackets {
		if salary.GreaterThanOrEqual(brackets[i].SalarioInicio) && salary.LessThanOrEqual(brackets[i].SalarioFim) {
			return &brackets[i]
		}
	}
	return nil
}

func findIRRFBracket(brackets []payroll.IRRFBracket, base decimal.Decimal) *payroll.IRRFBracket {
	for i := range brackets {
		if base.GreaterThanOrEqual(brackets[i].SalarioInicio) && base.LessThanOrEqual(brackets[i].SalarioFim) {
			return &brackets[i]
		}
	}
	return nil
}

func runValidations(salarioLiquido decimal.Decimal, items []payroll.CalculationItem) []payroll.ValidationResult {
	validations := []payroll.ValidationResult{}

	liquido := payroll.ValidationResult{
		ValidationName: "salario_liquido_nao_negativo",
		ValidationType: "business_rule",
		Result:         payroll.ValidationPassed,
		Message:        "Salário líquido válido",
	}
	if salarioLiquido.IsNegative() {
		liquido.Result = payroll.ValidationFailed
		liquido.Message = "Salário líquido não pode ser negativo"
	}
	validations = append(validations, liquido)

	hasItem := func(codigo string) bool {
		for _, item := range items {
			if strings.EqualFold(item.Codigo, codigo) {
				return true
			}
		}
		return false
	}

	inss := payroll.ValidationResult{
		ValidationName: "inss_presente",
		ValidationType: "compliance",
		Result:         payroll.ValidationPassed,
		Message:        "INSS calculado",
	}
	if !hasItem("INSS") {
		inss.Result = payroll.ValidationFailed
		inss.Message = "INSS é obrigatório para todos os funcionários"
	}
	validations = append(validations, inss)

	fgts := payroll.ValidationResult{
		ValidationName: "fgts_presente",
		ValidationType: "compliance",
		Result:         payroll.ValidationPassed,
		Message:        "FGTS calculado",
	}
	if !hasItem("FGTS") {
		fgts.Result = payroll.ValidationFailed
		fgts.Message = "FGTS é obrigatório para todos os funcionários"
	}
	validations = append(validations, fgts)

	return validations
}

func (s *CalculationServiceImpl) GetCalculation(ctx context.Context, id string) (payroll.CalculationResult, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	calc, err := s.calcRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	items, err := s.calcRepo.GetItems(ctx, calc.ID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	return buildResult(calc, items, decodeValidations(calc.CalculationData)), nil
}

func (s *CalculationServiceImpl) ListCalculations(ctx context.Context, filter payroll.CalculationFilter) ([]payroll.CalculationResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	calcs, err := s.calcRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.CalculationResponse, 0, len(calcs))
	for _, calc := range calcs {
		responses = append(responses, toCalculationResponse(calc))
	}

	return responses, nil
}

func (s *CalculationServiceImpl) ApproveCalculation(ctx context.Context, id string) error {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	calc, err := s.calcRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if calc.Status != payroll.CalculationStatusCalculated {
		return payroll.ErrCalculationNotCalculated
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.calcRepo.Approve(txCtx, id, companyID, userID); err != nil {
			return err
		}
		return s.events.MarkEventsProcessed(txCtx, decodeEventIDs(calc.CalculationData))
	})
}

func decodeEventIDs(data map[string]any) []string {
	raw, ok := data["event_ids"]
	if !ok {
		return nil
	}

	var ids []string
	switch v := raw.(type) {
	case []string:
		ids = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				ids = append(ids, s)
			}
		}
	}
	return ids
}

func decodeValidations(data map[string]any) []payroll.ValidationResult {
	raw, ok := data["validations"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []payroll.ValidationResult:
		return v
	case []any:
		var out []payroll.ValidationResult
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			vr := payroll.ValidationResult{}
			vr.ValidationName, _ = m["validation_name"].(string)
			vr.ValidationType, _ = m["validation_type"].(string)
			if res, ok := m["result"].(string); ok {
				vr.Result = payroll.ValidationOutcome(res)
			}
			vr.Message, _ = m["message"].(string)
			out = append(out, vr)
		}
		return out
	}
	return nil
}

func buildResult(calc payroll.Calculation, items []payroll.CalculationItem, validations []payroll.ValidationResult) payroll.CalculationResult {
	itemResponses := make([]payroll.ItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, payroll.ItemResponse{
			ID:              item.ID,
			CalculationID:   item.CalculationID,
			RubricaID:       item.RubricaID,
			Codigo:          item.Codigo,
			Nome:            item.Nome,
			Tipo:            string(item.Tipo),
			ValorBase:       item.ValorBase,
			Percentual:      item.Percentual,
			ValorCalculado:  item.ValorCalculado,
			Quantidade:      item.Quantidade,
			Unidade:         item.Unidade,
			FormulaAplicada: item.FormulaAplicada,
			OrdemCalculo:    item.OrdemCalculo,
			IsManual:        item.IsManual,
		})
	}

	return payroll.CalculationResult{
		Calculation:    toCalculationResponse(calc),
		Items:          itemResponses,
		TotalProventos: calc.TotalProventos,
		TotalDescontos: calc.TotalDescontos,
		SalarioBruto:   calc.SalarioBruto,
		SalarioLiquido: calc.SalarioLiquido,
		Validations:    validations,
	}
}

func toCalculationResponse(calc payroll.Calculation) payroll.CalculationResponse {
	resp := payroll.CalculationResponse{
		ID:              calc.ID,
		CompanyID:       calc.CompanyID,
		EmployeeID:      calc.EmployeeID,
		Period:          calc.Period,
		CalculationType: string(calc.CalculationType),
		TotalProventos:  calc.TotalProventos,
		TotalDescontos:  calc.TotalDescontos,
		SalarioBruto:    calc.SalarioBruto,
		SalarioLiquido:  calc.SalarioLiquido,
		Status:          string(calc.Status),
		ApprovedBy:      calc.ApprovedBy,
		Notes:           calc.Notes,
	}
	if calc.CalculatedAt != nil {
		t := calc.CalculatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CalculatedAt = &t
	}
	return resp
}
