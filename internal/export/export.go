// Package export renders extraction records as downloadable CSV or XLSX
// tables. Both formats share one column schema so a spreadsheet import
// and the dashboard grid line up.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/magellan-group/report-triage/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format query value. Empty defaults to CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("export: unknown format %q", s)
	}
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename builds a date-stamped download name.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("report-triage-%s.%s", now.UTC().Format("2006-01-02"), f)
}

// header is the fixed column order shared by both encodings.
var header = []string{
	"Effective Date",
	"Project",
	"Issuer",
	"Primary Commodity",
	"Country",
	"Stage",
	"Ind/Inf Ratio",
	"Priority",
	"Status",
	"Score",
	"Resource Confidence",
	"After-Tax NPV (M USD)",
	"After-Tax IRR (%)",
	"Capex (M USD)",
	"Mine Life (years)",
	"Payback (years)",
	"Red Flags",
	"Next Catalyst",
	"Filename",
	"Created At",
}

// row flattens one record into header order.
func row(rec *model.ExtractionRecord) []string {
	return []string{
		strVal(rec.EffectiveDate),
		strVal(rec.Project),
		strVal(rec.Issuer),
		strVal(rec.PrimaryCommodity),
		strVal(rec.Country),
		stageVal(rec.Stage),
		floatVal(rec.IndInfRatio),
		priorityVal(rec.Priority),
		string(rec.Status),
		floatVal(rec.MagellanScore),
		string(rec.ResourceConfidence),
		floatVal(rec.AfterTaxNPV),
		floatVal(rec.AfterTaxIRR),
		floatVal(rec.Capex),
		floatVal(rec.MineLifeYears),
		floatVal(rec.PaybackYears),
		strings.Join(rec.RedFlags, "; "),
		strVal(rec.NextCatalyst),
		rec.Filename,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV streams records as CSV, header first.
func WriteCSV(w io.Writer, recs []model.ExtractionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for i := range recs {
		if err := cw.Write(row(&recs[i])); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes records as a single-sheet workbook.
func WriteXLSX(w io.Writer, recs []model.ExtractionRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Reports")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}
	for i := range recs {
		xr := sheet.AddRow()
		for _, v := range row(&recs[i]) {
			xr.AddCell().Value = v
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

// Write dispatches on format.
func Write(w io.Writer, format Format, recs []model.ExtractionRecord) error {
	if format == FormatXLSX {
		return WriteXLSX(w, recs)
	}
	return WriteCSV(w, recs)
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatVal(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func stageVal(p *model.ReportStage) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func priorityVal(p *model.Priority) string {
	if p == nil {
		return ""
	}
	return string(*p)
}
