// backend/src/parsers/spreadsheet/parser.go
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/corpinsights/backend/src/models"
	"github.com/username/corpinsights/backend/src/processors"
)

// Source column names, matched against the header row. Cells are read by
// semantic column name so reordering the workbook columns upstream cannot
// silently swap amount and currency.
const (
	colCorporateActionID   = "corporateactionid"
	colDeclaredDate        = "declareddate"
	colInfoSource          = "infosource"
	colDealAttributes      = "dealattributes"
	colTransactionAmount   = "transactionamount"
	colTransactionCurrency = "transactioncurrency"
)

var requiredColumns = []string{
	colCorporateActionID,
	colDeclaredDate,
	colInfoSource,
	colDealAttributes,
	colTransactionAmount,
	colTransactionCurrency,
}

// Parser reads an uploaded corporate-actions workbook into raw records.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// normalizeHeader maps a header cell to its canonical column name. Source
// exports prefix the id column with "key_" and vary in casing.
func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.TrimPrefix(h, "key_")
}

// Parse reads the first sheet of an xlsx workbook. The first row is the
// header; every later row is mapped to a RawRecord by header name. Missing
// required columns fail with a MalformedInputError listing them.
func (p *Parser) Parse(file io.Reader) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet parser: failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &processors.MalformedInputError{Detail: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet parser: failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &processors.MalformedInputError{Missing: requiredColumns}
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[normalizeHeader(header)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &processors.MalformedInputError{Missing: missing}
	}

	cell := func(row []string, name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.RawRecord{
			CorporateActionID:   cell(row, colCorporateActionID),
			DeclaredDate:        cell(row, colDeclaredDate),
			InfoSource:          cell(row, colInfoSource),
			DealAttributes:      cell(row, colDealAttributes),
			TransactionAmount:   cell(row, colTransactionAmount),
			TransactionCurrency: cell(row, colTransactionCurrency),
		})
	}
	return records, nil
}
