// Package pdf renders the trip schedule and cost dashboard into a printable
// A4 document.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/jeongminsang/travelnote-jp/internal/core"
)

const (
	pageMargin  = 15.0
	lineHeight  = 7.0
	sectionGray = 235
)

// Exporter renders schedule snapshots to PDF. Korean text needs a UTF-8
// font file; when FontPath is empty the exporter falls back to Helvetica,
// which only covers Latin glyphs.
type Exporter struct {
	fontName string
	fontPath string
	title    string
}

// NewExporter creates an exporter. fontPath may be empty.
func NewExporter(title, fontPath string) *Exporter {
	name := "Helvetica"
	if fontPath != "" {
		name = "trip"
	}
	return &Exporter{
		fontName: name,
		fontPath: fontPath,
		title:    title,
	}
}

// Export renders the full document: one section per day, the cost breakdown
// by category, and the JPY/KRW summary. All amounts arrive pre-computed in
// stats; the exporter never aggregates on its own.
func (e *Exporter) Export(schedule map[int][]core.ScheduleItem, days []int, stats core.TripStats) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin+5)
	doc.AliasNbPages("")

	if e.fontPath != "" {
		doc.AddUTF8Font(e.fontName, "", e.fontPath)
		doc.AddUTF8Font(e.fontName, "B", e.fontPath)
	}

	doc.SetFooterFunc(func() {
		doc.SetY(-12)
		doc.SetFont(e.fontName, "", 8)
		doc.SetTextColor(120, 120, 120)
		doc.CellFormat(0, 6, fmt.Sprintf("%d / {nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	doc.AddPage()

	doc.SetFont(e.fontName, "B", 18)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 12, e.title, "", 1, "C", false, 0, "")
	doc.Ln(2)

	for _, day := range days {
		e.daySection(doc, day, schedule[day])
	}

	e.costSection(doc, days, stats)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) daySection(doc *fpdf.Fpdf, day int, items []core.ScheduleItem) {
	e.sectionHeader(doc, fmt.Sprintf("Day %d", day))

	if len(items) == 0 {
		doc.SetFont(e.fontName, "", 10)
		doc.SetTextColor(120, 120, 120)
		doc.CellFormat(0, lineHeight, "-", "", 1, "L", false, 0, "")
		doc.Ln(2)
		return
	}

	usable, _ := doc.GetPageSize()
	usable -= 2 * pageMargin
	timeW := 32.0
	typeW := 22.0
	costW := 28.0
	titleW := usable - timeW - typeW - costW

	for _, it := range items {
		doc.SetFont(e.fontName, "", 10)
		doc.SetTextColor(60, 60, 60)
		doc.CellFormat(timeW, lineHeight, it.TimeLabel(), "", 0, "L", false, 0, "")
		doc.CellFormat(typeW, lineHeight, it.Type.Label(), "", 0, "L", false, 0, "")

		doc.SetTextColor(0, 0, 0)
		title := it.Title
		if it.Location != "" {
			title += " @ " + it.Location
		}
		doc.CellFormat(titleW, lineHeight, title, "", 0, "L", false, 0, "")

		doc.SetTextColor(60, 60, 60)
		cost := ""
		if total := it.Costs.Total(); total > 0 {
			cost = core.FormatJPY(total)
		}
		doc.CellFormat(costW, lineHeight, cost, "", 1, "R", false, 0, "")

		if it.Note != "" {
			doc.SetFont(e.fontName, "", 8)
			doc.SetTextColor(120, 120, 120)
			doc.CellFormat(timeW+typeW, lineHeight-2, "", "", 0, "L", false, 0, "")
			doc.CellFormat(titleW+costW, lineHeight-2, it.Note, "", 1, "L", false, 0, "")
		}

		e.itemCosts(doc, it.Costs, timeW+typeW, titleW, costW)
	}
	doc.Ln(3)
}

// itemCosts renders one labeled row per non-zero cost category under the
// item, followed by a subtotal line.
func (e *Exporter) itemCosts(doc *fpdf.Fpdf, costs core.Costs, indentW, labelW, amountW float64) {
	rows := breakdownRows(costs)
	if len(rows) == 0 {
		return
	}

	doc.SetFont(e.fontName, "", 8)
	for _, row := range rows {
		doc.SetTextColor(120, 120, 120)
		doc.CellFormat(indentW, lineHeight-2, "", "", 0, "L", false, 0, "")
		doc.CellFormat(labelW, lineHeight-2, row.Label, "", 0, "L", false, 0, "")
		doc.CellFormat(amountW, lineHeight-2, core.FormatJPY(row.Amount), "", 1, "R", false, 0, "")
	}

	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(indentW, lineHeight-2, "", "", 0, "L", false, 0, "")
	doc.CellFormat(labelW, lineHeight-2, "Subtotal", "", 0, "L", false, 0, "")
	doc.CellFormat(amountW, lineHeight-2, core.FormatJPY(costs.Total()), "", 1, "R", false, 0, "")
}

// costLine is one labeled amount in an item's cost breakdown.
type costLine struct {
	Label  string
	Amount int
}

// breakdownRows lists the non-zero cost categories of one item in display
// order. An all-zero record yields no rows.
func breakdownRows(costs core.Costs) []costLine {
	var rows []costLine
	for _, c := range core.CostCategories {
		if amount := costs.Get(c.Key); amount > 0 {
			rows = append(rows, costLine{Label: c.Label, Amount: amount})
		}
	}
	return rows
}

// amountPair renders a JPY amount with its fixed-rate KRW counterpart,
// "1,500 / 14,175".
func amountPair(jpy int) string {
	return core.FormatJPY(jpy) + " / " + core.FormatKRW(jpy)
}

func (e *Exporter) costSection(doc *fpdf.Fpdf, days []int, stats core.TripStats) {
	e.sectionHeader(doc, "Cost")

	usable, _ := doc.GetPageSize()
	usable -= 2 * pageMargin
	labelW := usable - 60

	// Per-day totals, JPY with the fixed-rate KRW figure.
	doc.SetFont(e.fontName, "", 10)
	for _, day := range days {
		doc.SetTextColor(60, 60, 60)
		doc.CellFormat(labelW, lineHeight, fmt.Sprintf("Day %d", day), "", 0, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
		doc.CellFormat(60, lineHeight, amountPair(stats.PerDay[day]), "", 1, "R", false, 0, "")
	}
	doc.Ln(2)

	for _, datum := range stats.Chart {
		doc.SetTextColor(60, 60, 60)
		doc.CellFormat(labelW, lineHeight, fmt.Sprintf("%s (%.1f%%)", datum.Label, datum.Percentage), "", 0, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
		doc.CellFormat(60, lineHeight, core.FormatJPY(datum.Value), "", 1, "R", false, 0, "")
	}

	doc.Ln(2)
	doc.SetDrawColor(200, 200, 200)
	x := doc.GetX()
	y := doc.GetY()
	doc.Line(x, y, x+usable, y)
	doc.Ln(2)

	doc.SetFont(e.fontName, "B", 11)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(labelW, lineHeight, "Total (JPY)", "", 0, "L", false, 0, "")
	doc.CellFormat(60, lineHeight, core.FormatJPY(stats.TotalJPY), "", 1, "R", false, 0, "")

	doc.SetFont(e.fontName, "", 10)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(labelW, lineHeight, "Total (KRW)", "", 0, "L", false, 0, "")
	doc.CellFormat(60, lineHeight, core.FormatKRW(stats.TotalJPY), "", 1, "R", false, 0, "")
}

func (e *Exporter) sectionHeader(doc *fpdf.Fpdf, label string) {
	doc.SetFont(e.fontName, "B", 13)
	doc.SetFillColor(sectionGray, sectionGray, sectionGray)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 9, " "+label, "", 1, "L", true, 0, "")
	doc.Ln(2)
}
