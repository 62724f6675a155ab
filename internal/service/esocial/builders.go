package esocial

import (
	"context"
	"fmt"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/shopspring/decimal"
)

// knownEventTypes is the full S-series catalog the registry is aware of.
// Only the types present in builders below are currently generated; the
// rest resolve to ErrBuilderNotImplemented so callers can tell "not built
// yet" apart from "does not exist".
var knownEventTypes = []string{
	"S-1000", "S-1005", "S-1010", "S-1020", "S-1030", "S-1035", "S-1040",
	"S-1050", "S-1060", "S-1070", "S-1080", "S-1200", "S-1202", "S-1207",
	"S-1210", "S-1250", "S-1260", "S-1270", "S-1280", "S-1295", "S-1298",
	"S-1299", "S-1300", "S-2190", "S-2200", "S-2205", "S-2206", "S-2210",
	"S-2220", "S-2230", "S-2240", "S-2241", "S-2250", "S-2260", "S-2298",
	"S-2299", "S-2300", "S-2306", "S-2399", "S-2400", "S-3000", "S-5001",
	"S-5002", "S-5011", "S-5012",
}

// Registry maps S-series event types to their payload builders.
type Registry struct {
	builders map[string]esocial.Builder
	known    map[string]bool
}

func NewRegistry() *Registry {
	r := &Registry{
		builders: map[string]esocial.Builder{
			"S-1000": buildS1000,
			"S-1200": buildS1200,
			"S-5001": buildS5001,
		},
		known: map[string]bool{},
	}
	for _, et := range knownEventTypes {
		r.known[et] = true
	}
	return r
}

// ImplementedTypes returns the event types ProcessPeriod generates, in a
// stable order.
func (r *Registry) ImplementedTypes() []string {
	return []string{"S-1000", "S-1200", "S-5001"}
}

// Build assembles the payload for one event type. (nil, nil) means the
// event does not apply to the given input.
func (r *Registry) Build(ctx context.Context, eventType string, in esocial.BuildInput) (map[string]any, error) {
	builder, ok := r.builders[eventType]
	if !ok {
		if r.known[eventType] {
			return nil, fmt.Errorf("%s: %w", eventType, esocial.ErrBuilderNotImplemented)
		}
		return nil, fmt.Errorf("unknown esocial event type %q", eventType)
	}
	return builder(ctx, in)
}

// buildS1000 carries the employer registration. It is company-level and
// ignores the employee in the input.
func buildS1000(ctx context.Context, in esocial.BuildInput) (map[string]any, error) {
	return map[string]any{
		"evtInfoEmpregador": map[string]any{
			"ideEvento": map[string]any{
				"tpAmb":   2,
				"procEmi": 1,
				"verProc": "1.0",
			},
			"ideEmpregador": map[string]any{
				"tpInsc": 1,
				"nrInsc": in.Company.CNPJ,
			},
			"infoEmpregador": map[string]any{
				"inclusao": map[string]any{
					"idePeriodo": map[string]any{
						"iniValid": in.Period,
					},
					"infoCadastro": map[string]any{
						"nmRazao":   in.Company.RazaoSocial,
						"classTrib": "99",
					},
				},
			},
		},
	}, nil
}

// buildS1200 is the monthly remuneration event. Without a finalized
// calculation there is nothing to report.
func buildS1200(ctx context.Context, in esocial.BuildInput) (map[string]any, error) {
	if in.Calculation == nil {
		return nil, nil
	}

	itens := make([]map[string]any, 0, len(in.Items))
	for _, item := range in.Items {
		itens = append(itens, map[string]any{
			"codRubr":   item.Codigo,
			"qtdRubr":   item.Quantidade.String(),
			"vrRubr":    item.ValorCalculado.String(),
			"indApurIR": 0,
		})
	}

	return map[string]any{
		"evtRemun": map[string]any{
			"ideEvento": map[string]any{
				"indRetif": 1,
				"perApur":  in.Period,
				"tpAmb":    2,
				"procEmi":  1,
				"verProc":  "1.0",
			},
			"ideEmpregador": map[string]any{
				"tpInsc": 1,
				"nrInsc": in.Company.CNPJ,
			},
			"ideTrabalhador": map[string]any{
				"cpfTrab": in.Employee.CPF,
			},
			"dmDev": map[string]any{
				"ideDmDev": "1",
				"codCateg": 101,
				"infoPerApur": map[string]any{
					"remunPerApur": map[string]any{
						"vrSalFx":    in.Calculation.SalarioBruto.String(),
						"itensRemun": itens,
					},
				},
			},
		},
	}, nil
}

// buildS5001 reports the social security contribution figures derived from
// the calculation.
func buildS5001(ctx context.Context, in esocial.BuildInput) (map[string]any, error) {
	if in.Calculation == nil {
		return nil, nil
	}

	descSeg := decimal.Zero
	for _, item := range in.Items {
		if item.Codigo == "INSS" {
			descSeg = item.ValorCalculado
			break
		}
	}

	return map[string]any{
		"evtBasesTrab": map[string]any{
			"ideEvento": map[string]any{
				"perApur": in.Period,
			},
			"ideEmpregador": map[string]any{
				"tpInsc": 1,
				"nrInsc": in.Company.CNPJ,
			},
			"ideTrabalhador": map[string]any{
				"cpfTrab": in.Employee.CPF,
			},
			"infoCpCalc": map[string]any{
				"tpCR":      "1082-01",
				"vrCpSeg":   in.Calculation.SalarioBruto.String(),
				"vrDescSeg": descSeg.String(),
			},
		},
	}, nil
}
