// Package report renders a calculation as a printable PDF
package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"finplan/internal/models"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight

	// rows that fit below the header before a page break is forced
	pageBreakY = 265.0
)

// Request is everything a report shows
type Request struct {
	Title       string
	Params      models.Params
	Advanced    bool
	Result      *models.CalculationResult
	ShareQuery  string
	GeneratedAt time.Time
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	req Request
}

// Generate renders the report and returns the PDF bytes
func Generate(req Request) ([]byte, error) {
	if req.Result == nil {
		return nil, fmt.Errorf("report needs a calculation result")
	}

	r := &pdfReport{pdf: fpdf.New("P", "mm", "A4", ""), req: req}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(req.Title, true)
	r.pdf.AliasNbPages("")
	r.pdf.SetFooterFunc(r.footer)

	r.pdf.AddPage()
	r.addHeader()
	r.addInputs()
	r.addFigures()
	r.addSeries()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) addHeader() {
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 71, 171)
	r.pdf.CellFormat(contentWidth, 12, r.req.Title, "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(100, 100, 100)
	sub := "Generated " + r.req.GeneratedAt.Format("2 Jan 2006 15:04")
	if r.req.Result.Label != "" {
		sub += "  |  " + r.req.Result.Label
	}
	if r.req.Advanced {
		sub += "  |  advanced mode"
	}
	r.pdf.CellFormat(contentWidth, 6, sub, "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
}

func (r *pdfReport) sectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetFillColor(0, 71, 171)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.CellFormat(contentWidth, 8, title, "", 1, "L", true, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(1)
}

func (r *pdfReport) addInputs() {
	r.sectionHeader("Inputs")
	r.pdf.SetFont("Arial", "", 10)

	for i, key := range r.req.Params.Keys() {
		r.stripe(i)
		r.pdf.CellFormat(contentWidth/2, 6, key, "", 0, "L", true, 0, "")
		r.pdf.CellFormat(contentWidth/2, 6, formatParam(r.req.Params[key]), "", 1, "R", true, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) addFigures() {
	r.sectionHeader("Results")

	for i, f := range r.req.Result.Figures {
		r.stripe(i)
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(contentWidth*0.6, 7, f.Label, "", 0, "L", true, 0, "")
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(contentWidth*0.4, 7, FormatFigure(f), "", 1, "R", true, 0, "")
	}

	if r.req.Result.Capped {
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.SetTextColor(220, 38, 38)
		r.pdf.MultiCell(contentWidth, 5, "The projection reached its time limit before the balance settled; figures cover the limit only.", "", "L", false)
		r.pdf.SetTextColor(0, 0, 0)
	}
	r.pdf.Ln(4)
}

type column struct {
	title string
	value func(models.YearlyDataPoint) float64
}

var seriesColumns = []column{
	{"Invested", func(p models.YearlyDataPoint) float64 { return p.Invested }},
	{"Value", func(p models.YearlyDataPoint) float64 { return p.Value }},
	{"Balance", func(p models.YearlyDataPoint) float64 { return p.Balance }},
	{"Withdrawal", func(p models.YearlyDataPoint) float64 { return p.Withdrawal }},
	{"Principal", func(p models.YearlyDataPoint) float64 { return p.Principal }},
	{"Interest", func(p models.YearlyDataPoint) float64 { return p.Interest }},
}

// usedColumns keeps the columns with at least one non-zero value
func usedColumns(series []models.YearlyDataPoint) []column {
	var used []column
	for _, c := range seriesColumns {
		for _, p := range series {
			if c.value(p) != 0 {
				used = append(used, c)
				break
			}
		}
	}
	return used
}

func (r *pdfReport) addSeries() {
	series := r.req.Result.Series
	cols := usedColumns(series)
	if len(series) == 0 || len(cols) == 0 {
		return
	}

	r.sectionHeader("Year by year")
	yearWidth := 18.0
	colWidth := (contentWidth - yearWidth) / float64(len(cols))

	header := func() {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(70, 90, 110)
		r.pdf.SetTextColor(255, 255, 255)
		r.pdf.CellFormat(yearWidth, 6, "Year", "1", 0, "C", true, 0, "")
		for _, c := range cols {
			r.pdf.CellFormat(colWidth, 6, c.title, "1", 0, "C", true, 0, "")
		}
		r.pdf.Ln(-1)
		r.pdf.SetTextColor(0, 0, 0)
		r.pdf.SetFont("Arial", "", 9)
	}
	header()

	for i, p := range series {
		if r.pdf.GetY() > pageBreakY {
			r.pdf.AddPage()
			header()
		}
		r.stripe(i)
		year := strconv.Itoa(p.Year)
		if p.Phase == models.PhaseDepleted {
			year += "*"
		}
		r.pdf.CellFormat(yearWidth, 5, year, "1", 0, "C", true, 0, "")
		for _, c := range cols {
			r.pdf.CellFormat(colWidth, 5, FormatAmount(c.value(p)), "1", 0, "R", true, 0, "")
		}
		r.pdf.Ln(-1)
	}

	if n := len(series); series[n-1].Phase == models.PhaseDepleted {
		r.pdf.SetFont("Arial", "I", 8)
		r.pdf.CellFormat(contentWidth, 5, "* balance ran out during this year", "", 1, "L", false, 0, "")
	}
}

func (r *pdfReport) stripe(row int) {
	if row%2 == 0 {
		r.pdf.SetFillColor(245, 247, 250)
	} else {
		r.pdf.SetFillColor(255, 255, 255)
	}
}

func (r *pdfReport) footer() {
	r.pdf.SetY(-15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	left := "Illustrative projection, not financial advice."
	if r.req.ShareQuery != "" {
		left = "?" + r.req.ShareQuery
	}
	r.pdf.CellFormat(contentWidth*0.8, 10, truncate(left, 110), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth*0.2, 10, fmt.Sprintf("Page %d/{nb}", r.pdf.PageNo()), "", 0, "R", false, 0, "")
}

// FormatAmount renders a number rounded to whole units with thousands separators
func FormatAmount(v float64) string {
	v = math.Round(v)
	neg := v < 0
	digits := strconv.FormatFloat(math.Abs(v), 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// FormatFigure renders a headline figure according to its unit
func FormatFigure(f models.Figure) string {
	switch f.Unit {
	case models.UnitPercent:
		return strconv.FormatFloat(f.Value, 'f', 2, 64) + "%"
	case models.UnitYears:
		return strconv.FormatFloat(f.Value, 'f', -1, 64) + " yrs"
	case models.UnitMonths:
		return strconv.FormatFloat(f.Value, 'f', -1, 64) + " months"
	case models.UnitScore:
		return strconv.FormatFloat(f.Value, 'f', -1, 64)
	default:
		return FormatAmount(f.Value)
	}
}

func formatParam(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(x)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
