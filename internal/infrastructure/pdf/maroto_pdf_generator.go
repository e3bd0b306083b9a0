// Package pdf genera el extracto (statement) de un contrato de hospedagem.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hospedagem + dirección  │  Contrato + estado       │
//	│  TUTOR + período (entrada / salida / diárias)               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Pet | Servicio | Cant | P.Unit | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Hospedagem / Serviços / TOTAL                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	appcontract "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/application/dto"
)

var _ appcontract.StatementRenderer = (*StatementGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	"pending_approval": "Aguardando aprovação",
	"approved":         "Aprovado",
	"in_progress":      "Em andamento",
	"completed":        "Concluído",
	"denied":           "Negado",
	"cancelled":        "Cancelado",
}

// StatementGenerator implementa contract.StatementRenderer usando Maroto v2.
type StatementGenerator struct {
	printer  *message.Printer
	currency string
}

// NewStatementGenerator construye el generador. lang define separadores de miles/decimales.
func NewStatementGenerator(lang language.Tag, currency string) *StatementGenerator {
	if currency == "" {
		currency = "R$"
	}
	return &StatementGenerator{printer: message.NewPrinter(lang), currency: currency}
}

// RenderStatement genera el PDF del agregado (que debe traer el desglose de precio).
func (g *StatementGenerator) RenderStatement(_ context.Context, agg *dto.ContractAggregate) ([]byte, error) {
	if agg == nil || agg.Pricing == nil {
		return nil, fmt.Errorf("pdf: el contrato no tiene desglose de precio")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extrato do contrato "+agg.ID, true).
		WithAuthor(agg.Facility.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(agg))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(ownerRow(agg))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.linesRows(agg)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(agg.Pricing))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(agg *dto.ContractAggregate) core.Row {
	address := "—"
	if a := agg.Facility.Address; a != nil {
		address = fmt.Sprintf("%s, %s - %s, %s/%s", a.Street, a.Number, a.Neighborhood, a.City, a.State)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(agg.Facility.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(address, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("EXTRATO DO CONTRATO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(agg.ID, props.Text{Size: 7, Align: align.Right, Top: 7}),
			text.New(nonEmpty(statusLabels[agg.Status], agg.Status), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func ownerRow(agg *dto.ContractAggregate) core.Row {
	end := "sem data de saída"
	if agg.EndDate != nil {
		end = *agg.EndDate
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TUTOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(agg.Owner.Name, agg.Owner.ID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Entrada: %s   |   Saída: %s   |   Diárias: %d   |   Pets: %d",
				agg.StartDate, end, agg.DurationNights, len(agg.Pets),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Pet", 3, align.Left),
		h("Serviço", 4, align.Left),
		h("Qtd.", 1, align.Center),
		h("Preço unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// linesRows una fila de hospedagem por pet y una por línea de servicio.
func (g *StatementGenerator) linesRows(agg *dto.ContractAggregate) []core.Row {
	p := agg.Pricing
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	perPetHousing := p.NightlyRate.Mul(decimal.NewFromInt(int64(p.DurationNights)))

	rows := make([]core.Row, 0, len(agg.Pets)*2)
	for _, pet := range agg.Pets {
		name := nonEmpty(pet.Name, pet.ID)
		rows = append(rows, row.New(6).Add(
			cell(name, 3, align.Left),
			cell("Hospedagem", 4, align.Left),
			cell(fmt.Sprintf("%d", p.DurationNights), 1, align.Center),
			cell(g.money(p.NightlyRate), 2, align.Right),
			cell(g.money(perPetHousing), 2, align.Right),
		))
		for _, l := range pet.Services {
			rows = append(rows, row.New(6).Add(
				cell("", 3, align.Left),
				cell(nonEmpty(l.Name, l.ServiceID), 4, align.Left),
				cell(fmt.Sprintf("%d", l.Quantity), 1, align.Center),
				cell(g.money(l.UnitPrice), 2, align.Right),
				cell(g.money(l.Total), 2, align.Right),
			))
		}
	}
	return rows
}

func (g *StatementGenerator) totalsRow(p *dto.PricingBreakdown) core.Row {
	label := func(s string, top float64, grand bool) core.Component {
		t := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}
		if grand {
			t.Size, t.Color = 10, colorPrimary
		}
		return text.New(s, t)
	}
	value := func(s string, top float64, grand bool) core.Component {
		t := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if grand {
			t.Style, t.Size, t.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(s, t)
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Hospedagem:", 1, false),
			label("Serviços:", 7, false),
			label("TOTAL:", 13, true),
		),
		col.New(3).Add(
			value(g.money(p.HousingSubtotal), 1, false),
			value(g.money(p.ServiceSubtotal), 7, false),
			value(g.money(p.Total), 13, true),
		),
	)
}

// money formatea con la moneda y los separadores del idioma configurado (2 decimales).
func (g *StatementGenerator) money(d decimal.Decimal) string {
	return g.currency + " " + g.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
