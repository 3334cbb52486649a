// Package pdf implementa la generación de la Hoja de Despacho del repartidor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Repartidor + Fecha  │  Clima de la sede            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Pedido | Dirección | Monto | Estado              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: rutas del día / monto a recaudar                   │
//	│  FOOTER: QR del repartidor + espacio de firma                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
)

var _ report.SheetGenerator = (*MarotoSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSheetGenerator implementa report.SheetGenerator usando Maroto v2.
type MarotoSheetGenerator struct{}

// NewMarotoSheetGenerator construye el generador.
func NewMarotoSheetGenerator() *MarotoSheetGenerator { return &MarotoSheetGenerator{} }

// GenerateDispatchSheet genera el PDF y devuelve sus bytes.
func (g *MarotoSheetGenerator) GenerateDispatchSheet(
	_ context.Context,
	worker *entity.Person,
	date string,
	routes []*entity.DeliveryRoute,
	orders map[string]*entity.Order,
	weather dto.WeatherDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de Despacho", true).
		WithAuthor(worker.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(worker, date, weather))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRouteRows(routes, orders) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(routes, orders))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(worker, date))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: repartidor + fecha (izq) y clima de la sede (der).
func headerRow(worker *entity.Person, date string, weather dto.WeatherDTO) core.Row {
	clima := "Clima: no disponible"
	if weather.Condition != "" {
		clima = fmt.Sprintf("Clima: %s, %.0f°C", weather.Condition, weather.TempC)
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New("HOJA DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Repartidor: "+worker.Name, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+date, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(clima, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de rutas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Pedido", 2, align.Left),
		h("Dirección de entrega", 5, align.Left),
		h("Monto", 2, align.Right),
		h("Estado", 2, align.Center),
	)
}

// tableRouteRows: una fila por ruta del día.
func tableRouteRows(routes []*entity.DeliveryRoute, orders map[string]*entity.Order) []core.Row {
	result := make([]core.Row, 0, len(routes))
	for i, r := range routes {
		address, amount := "—", "—"
		if o := orders[r.OrderID]; o != nil {
			address = nonEmpty(o.Address, "—")
			amount = "$" + formatMoney(o.Amount.StringFixed(0))
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				shortID(r.OrderID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				address,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				amount,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				string(r.Status),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// totalsRow: rutas del día y monto total a recaudar.
func totalsRow(routes []*entity.DeliveryRoute, orders map[string]*entity.Order) core.Row {
	total := decimal.Zero
	for _, r := range routes {
		if o := orders[r.OrderID]; o != nil {
			total = total.Add(o.Amount)
		}
	}

	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Rutas del día:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			}),
			text.New("TOTAL A RECAUDAR:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 6, Right: 2,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", len(routes)), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			}),
			text.New("$"+formatMoney(total.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 6, Right: 1,
			}),
		),
	)
}

// footerRow: QR del repartidor (para el control en bodega) + espacio de firma.
func footerRow(worker *entity.Person, date string) core.Row {
	qrData := fmt.Sprintf("dispatch:%s:%s", worker.ID, date)

	return row.New(40).Add(
		col.New(4).Add(code.NewQr(qrData, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Escanea el código QR en bodega para\nregistrar la salida de la ruta.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Firma del repartidor: ______________________", props.Text{
				Size: 9, Top: 26, Left: 3,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID devuelve el primer segmento de un UUID, suficiente para la hoja impresa.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
