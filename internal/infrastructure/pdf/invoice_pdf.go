// Package pdf genera la representación PDF de una factura con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Marca del workspace  │  N° Factura + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + email       │  EQUIPO + periodo           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Horario | Horas | Notas                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Horas / Tarifa por hora / TOTAL                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
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

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

var _ ports.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	defaultPrimary = &props.Color{Red: 31, Green: 111, Blue: 235}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// DefaultBrandName se usa cuando el workspace no configuró marca.
const DefaultBrandName = "Kinetic"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(_ context.Context, doc dto.InvoiceDocument) ([]byte, error) {
	brand := strings.TrimSpace(doc.BrandName)
	if brand == "" {
		brand = DefaultBrandName
	}
	primary := ParseHexColor(doc.BrandColor)
	inv := doc.Invoice

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.Number(), true).
		WithAuthor(brand, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(brand, inv, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(primary))
	m.AddRows(tableDetailRows(doc.Updates)...)

	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, primary))
	if notes := strings.TrimSpace(inv.Notes); notes != "" {
		m.AddRows(notesRow(notes))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(brand string, inv entity.InvoiceDetails, primary *props.Color) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(brand, props.Text{Style: fontstyle.Bold, Size: 14, Color: primary, Top: 1}),
			text.New("Issued "+inv.CreatedAt, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: primary, Top: 1}),
			text.New(inv.Number(), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Status: "+inv.Status, props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func partiesRow(inv entity.InvoiceDetails, primary *props.Color) core.Row {
	return row.New(18).Add(
		col.New(6).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1}),
			text.New(inv.ClientName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(inv.ClientEmail, "-"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("CREW", props.Text{Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1, Align: align.Right}),
			text.New(inv.CrewName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6, Align: align.Right}),
			text.New(inv.StartAt+" to "+inv.EndAt, props.Text{Size: 8, Top: 12, Color: colorGray, Align: align.Right}),
		),
	)
}

func tableHeaderRow(primary *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: primary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Date", 2, align.Left),
		h("Time", 2, align.Left),
		h("Hours", 2, align.Right),
		h("Notes", 6, align.Left),
	)
}

// tableDetailRows una fila por jornada registrada.
func tableDetailRows(updates []*entity.DeploymentUpdate) []core.Row {
	if len(updates) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("No work updates recorded.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(updates))
	for _, u := range updates {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(u.WorkDate, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(u.StartTime+" - "+u.EndTime, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(u.HoursWorked.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(6).Add(text.New(u.Notes, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

func totalsRow(inv entity.InvoiceDetails, primary *props.Color) core.Row {
	label := func(s string, grand bool) core.Component {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		if grand {
			p.Size, p.Color = 10, primary
		}
		return text.New(s, p)
	}
	value := func(s string, grand bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, primary
		}
		return text.New(s, p)
	}
	currency := inv.ClientCurrency
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Total hours:", false),
			label("Fee per hour:", false),
			label("TOTAL:", true),
		),
		col.New(3).Add(
			value(inv.TotalHours.StringFixed(2), false),
			value(Money(currency, inv.FeePerHour.StringFixed(2)), false),
			value(Money(currency, inv.TotalAmount.StringFixed(2)), true),
		),
	)
}

func notesRow(notes string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("Notes", props.Text{Style: fontstyle.Bold, Size: 8, Top: 3}),
		text.New(notes, props.Text{Size: 8, Top: 8, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// Money antepone la moneda del cliente al importe.
// Ej: ("EUR", "400.00") → "EUR 400.00"
func Money(currency, amount string) string {
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

// ParseHexColor interpreta "#RRGGBB" o "RRGGBB"; cualquier otro valor
// devuelve el color por defecto.
func ParseHexColor(s string) *props.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return defaultPrimary
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return defaultPrimary
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}
}
