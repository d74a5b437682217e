// Package pdf genera el registro imprimible (A4) de los movimientos de un recurso.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Laporan <recurso>      │  Página N de M + fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: No | <campos del esquema> | Qty                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL Qty de la página + total de registros                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/Gudang-api/internal/application/dto"
	"github.com/jhoicas/Gudang-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// gridSize columnas de la rejilla de maroto.
const gridSize = 12

// ── Generator ─────────────────────────────────────────────────────────────────

// RegisterGenerator implementa usecase.ReportGenerator usando Maroto v2.
type RegisterGenerator struct {
	author string
	now    func() time.Time
}

// NewRegisterGenerator construye el generador; author aparece en los metadatos del PDF.
func NewRegisterGenerator(author string) *RegisterGenerator {
	return &RegisterGenerator{author: author, now: time.Now}
}

// GenerateRegister genera el PDF de una página del listado y devuelve sus bytes.
func (g *RegisterGenerator) GenerateRegister(_ context.Context, schema entity.Schema, list *dto.RecordListResponse) ([]byte, error) {
	title := "Laporan " + schema.ListName
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, list.Pagination, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	widths := columnWidths(len(schema.Fields))
	m.AddRows(tableHeaderRow(schema, widths))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range tableRows(schema, widths, list) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(schema, list))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, page dto.PageResponse, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Página %d de %d", page.Page, maxInt64(page.TotalPages, 1)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New("Fecha: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(schema entity.Schema, widths []int) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{h("No", 1, align.Center)}
	for i, f := range schema.Fields {
		cols = append(cols, h(f.Label, widths[i], align.Left))
	}
	cols = append(cols, h(schema.QtyLabel, 1, align.Right))
	return row.New(8).Add(cols...)
}

// tableRows: una fila por registro; la numeración continúa entre páginas.
func tableRows(schema entity.Schema, widths []int, list *dto.RecordListResponse) []core.Row {
	first := (list.Pagination.Page-1)*list.Pagination.Limit + 1
	result := make([]core.Row, 0, len(list.Data))
	for i, rec := range list.Data {
		cols := []core.Col{col.New(1).Add(text.New(
			strconv.FormatInt(first+int64(i), 10),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		))}
		for j, f := range schema.Fields {
			cols = append(cols, col.New(widths[j]).Add(text.New(
				rec.Get(f.Key),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)))
		}
		cols = append(cols, col.New(1).Add(text.New(
			formatQty(rec.Qty),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)))
		result = append(result, row.New(7).Add(cols...))
	}
	if len(result) == 0 {
		result = append(result, row.New(10).Add(col.New(gridSize).Add(
			text.New("Sin registros", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	return result
}

func totalsRow(schema entity.Schema, list *dto.RecordListResponse) core.Row {
	var sum int64
	for _, rec := range list.Data {
		sum += rec.Qty
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("Registros en la colección: %d", list.Pagination.TotalCount), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Total "+schema.QtyLabel+": "+formatQty(sum), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnWidths reparte las columnas libres (sin No ni Qty) entre n campos;
// el resto va a los primeros.
func columnWidths(n int) []int {
	free := gridSize - 2
	widths := make([]int, n)
	if n == 0 {
		return widths
	}
	for i := range widths {
		widths[i] = free / n
		if i < free%n {
			widths[i]++
		}
	}
	return widths
}

// formatQty inserta puntos de miles. Ej: 25000 → "25.000".
func formatQty(q int64) string {
	s := strconv.FormatInt(q, 10)
	neg := false
	if q < 0 {
		neg, s = true, s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
