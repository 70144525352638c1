package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/younsl/gadvisor/internal/models"
	"gopkg.in/yaml.v3"
)

// Report formats, keyed by output file extension
const (
	FormatCSV      = ".csv"
	FormatMarkdown = ".md"
	FormatHTML     = ".html"
	FormatJSON     = ".json"
	FormatYAML     = ".yaml"
	FormatYML      = ".yml"
	FormatText     = ".txt"
)

// Table titles used in every tabular format
const (
	instancesTitle = "Instances"
	groupTitle     = "Group"
)

var instanceColumns = table.Row{
	"InstanceName", "InstanceType", "Region", "OriginalPrice", "Status",
	"Graviton2", "Graviton2Price", "Savings2Pct",
	"Graviton3", "Graviton3Price", "Savings3Pct",
	"Graviton4", "Graviton4Price", "Savings4Pct",
}

var groupColumns = table.Row{
	"InstanceType", "Region", "Count", "OriginalPrice",
	"Graviton2", "Graviton2Price", "Savings2Pct",
	"Graviton3", "Graviton3Price", "Savings3Pct",
	"Graviton4", "Graviton4Price", "Savings4Pct",
}

// Report is the document written for the json and yaml formats
type Report struct {
	Instances []models.AnalysisResult `json:"instances" yaml:"instances"`
	Groups    []models.SummaryRow     `json:"groups" yaml:"groups"`
}

// WriteReport renders results and summary rows in the given format.
// The Group table is left out of tabular formats when rows is empty.
func WriteReport(w io.Writer, format string, results []models.AnalysisResult, rows []models.SummaryRow) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newReport(results, rows)); err != nil {
			return fmt.Errorf("error encoding json report: %w", err)
		}
		return nil

	case FormatYAML, FormatYML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(results, rows)); err != nil {
			return fmt.Errorf("error encoding yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("error encoding yaml report: %w", err)
		}
		return nil

	case FormatCSV:
		return writeCSV(w, results, rows)

	case FormatMarkdown, FormatHTML, FormatText:
		return writeTables(w, strings.ToLower(format), results, rows)

	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func newReport(results []models.AnalysisResult, rows []models.SummaryRow) Report {
	report := Report{Instances: results, Groups: rows}
	if report.Instances == nil {
		report.Instances = []models.AnalysisResult{}
	}
	if report.Groups == nil {
		report.Groups = []models.SummaryRow{}
	}
	return report
}

type titledTable struct {
	title string
	t     table.Writer
}

func writeTables(w io.Writer, format string, results []models.AnalysisResult, rows []models.SummaryRow) error {
	tables := []titledTable{{title: instancesTitle, t: instancesTable(results)}}
	if len(rows) > 0 {
		tables = append(tables, titledTable{title: groupTitle, t: groupTable(rows)})
	}

	var b strings.Builder
	for i, tt := range tables {
		if i > 0 {
			b.WriteString("\n")
		}

		switch format {
		case FormatMarkdown:
			b.WriteString("## " + tt.title + "\n\n")
			b.WriteString(tt.t.RenderMarkdown())
		case FormatHTML:
			b.WriteString("<h2>" + tt.title + "</h2>\n")
			b.WriteString(tt.t.RenderHTML())
		case FormatText:
			tt.t.SetTitle(tt.title)
			tt.t.SetStyle(table.StyleLight)
			b.WriteString(tt.t.Render())
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

func instancesTable(results []models.AnalysisResult) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(instanceColumns)

	for _, r := range results {
		t.AppendRow(instanceRow(r))
	}
	return t
}

func instanceRow(r models.AnalysisResult) table.Row {
	row := table.Row{r.InstanceName, r.InstanceType, r.Region, rawFloat(r.OriginalPrice), string(r.Status)}
	return append(row, candidateCells(r.Candidates())...)
}

func groupTable(rows []models.SummaryRow) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(groupColumns)

	for _, s := range rows {
		t.AppendRow(groupRow(s))
	}
	return t
}

func groupRow(s models.SummaryRow) table.Row {
	row := table.Row{s.InstanceType, s.Region, s.Count, rawFloat(s.OriginalPrice)}
	return append(row, candidateCells([3]models.Candidate{s.Graviton2, s.Graviton3, s.Graviton4})...)
}

func candidateCells(candidates [3]models.Candidate) table.Row {
	cells := make(table.Row, 0, 9)
	for _, c := range candidates {
		cells = append(cells, rawString(c.InstanceType), rawFloat(c.Price), rawFloat(c.SavingsPct))
	}
	return cells
}

// writeCSV writes the Instances rows, then a blank line, a "Group" title
// line and the Group rows when there are any. Fields are quoted per RFC 4180.
func writeCSV(w io.Writer, results []models.AnalysisResult, rows []models.SummaryRow) error {
	cw := csv.NewWriter(w)

	records := [][]string{rowStrings(instanceColumns)}
	for _, r := range results {
		records = append(records, rowStrings(instanceRow(r)))
	}

	if len(rows) > 0 {
		records = append(records, nil, []string{groupTitle}, rowStrings(groupColumns))
		for _, s := range rows {
			records = append(records, rowStrings(groupRow(s)))
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("error writing csv report: %w", err)
	}
	return nil
}

func rowStrings(row table.Row) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}
