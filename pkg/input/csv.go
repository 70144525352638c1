// Package input turns instance inventories into InstanceRecords, either from
// an exported CSV file or live from EC2.
package input

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/utils"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoRecords is returned when an input yields no instance records
var ErrNoRecords = errors.New("no instance records found")

// Canonical column names
const (
	ColumnInstanceName      = "InstanceName"
	ColumnInstanceType      = "InstanceType"
	ColumnRegion            = "Region"
	ColumnAZ                = "AZ"
	ColumnPlatformDetails   = "PlatformDetails"
	ColumnInstanceLifecycle = "InstanceLifecycle"
)

// columnAliases maps alternative header spellings to canonical names
var columnAliases = map[string]string{
	"instanceName":      ColumnInstanceName,
	"instanceType":      ColumnInstanceType,
	"region":            ColumnRegion,
	"az":                ColumnAZ,
	"platformDetails":   ColumnPlatformDetails,
	"instanceLifecycle": ColumnInstanceLifecycle,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads instance records from a CSV file
func ReadCSV(path string) ([]models.InstanceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseCSV reads instance records from CSV data with a header row.
// Input is decoded as UTF-8 when valid, otherwise as Latin-1.
func ParseCSV(r io.Reader) ([]models.InstanceRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	columns := indexColumns(header)
	if _, ok := columns[ColumnInstanceType]; !ok {
		return nil, fmt.Errorf("missing %s column", ColumnInstanceType)
	}

	// Region comes from the AZ column only when the file has no Region column
	_, hasRegion := columns[ColumnRegion]

	var records []models.InstanceRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row: %w", err)
		}
		if isBlank(row) {
			continue
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		region := field(ColumnRegion)
		if !hasRegion {
			region = utils.RegionFromAZ(field(ColumnAZ))
		}

		records = append(records, models.InstanceRecord{
			Name:         field(ColumnInstanceName),
			InstanceType: field(ColumnInstanceType),
			Region:       region,
			Platform:     field(ColumnPlatformDetails),
			Lifecycle:    field(ColumnInstanceLifecycle),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("error decoding input as latin-1: %w", err)
	}
	return string(decoded), nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		// First occurrence wins on duplicate headers
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	return columns
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
