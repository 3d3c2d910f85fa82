// Package csvfile reads desired regional prices from the three-column input
// file. Parsing is lenient: defective rows are dropped with a warning and
// never abort the read.
package csvfile

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"play-price/core/money"
	"play-price/core/types"
	"play-price/internal/errors"
)

// Required header columns.
const (
	ColumnRegion   = "Countries or Regions"
	ColumnCurrency = "Currency Code"
	ColumnPrice    = "Price"
)

// RowWarning records one skipped input row.
type RowWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the parsed entries alongside any row warnings.
type Result struct {
	Entries  []types.RawPriceEntry
	Warnings []RowWarning
}

// ReadFile parses the file at path.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("cannot open CSV file %s", path), err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV content. The header row is required and must contain the
// three pricing columns; extra columns are ignored. Row numbers in warnings
// are 1-based with the header as row 1.
func Read(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.Parsing("empty file: no header row found", nil)
		}
		return nil, errors.Parsing("failed to read header row", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, required := range []string{ColumnRegion, ColumnCurrency, ColumnPrice} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Parsing(
			fmt.Sprintf("CSV is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	result := &Result{}
	rowNum := 1 // Header is row 1.
	for {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.warn(rowNum, fmt.Sprintf("parse error: %v", err))
			continue
		}

		entry, skip := parseRow(row, columns, rowNum, result)
		if skip {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	if len(result.Entries) == 0 {
		return nil, errors.Parsing("no valid data rows found in CSV file", nil)
	}
	return result, nil
}

func parseRow(row []string, columns map[string]int, rowNum int, result *Result) (types.RawPriceEntry, bool) {
	regionCode := field(row, columns[ColumnRegion])
	priceStr := field(row, columns[ColumnPrice])
	currencyCode := strings.ToUpper(field(row, columns[ColumnCurrency]))

	// Blank region or price rows are padding, not defects.
	if regionCode == "" || priceStr == "" {
		return types.RawPriceEntry{}, true
	}

	if len(currencyCode) != 3 {
		result.warn(rowNum, fmt.Sprintf("invalid currency code %q: should be 3 letters", currencyCode))
		return types.RawPriceEntry{}, true
	}

	amount, err := money.Parse(priceStr, currencyCode)
	if err != nil {
		result.warn(rowNum, fmt.Sprintf("invalid price %q %s: %v", priceStr, currencyCode, err))
		return types.RawPriceEntry{}, true
	}
	if !amount.IsPositive() {
		result.warn(rowNum, fmt.Sprintf("price must be greater than zero, got %q", priceStr))
		return types.RawPriceEntry{}, true
	}

	return types.RawPriceEntry{
		Region:   regionCode,
		Currency: currencyCode,
		Amount:   amount,
		Row:      rowNum,
	}, false
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (r *Result) warn(row int, message string) {
	r.Warnings = append(r.Warnings, RowWarning{Row: row, Message: message})
}
