// backend/src/parsers/spreadsheet/parser_test.go
package spreadsheet

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/username/corpinsights/backend/src/models"
	"github.com/username/corpinsights/backend/src/processors"
)

// buildWorkbook writes a single-sheet workbook with the given header and data
// rows and returns its bytes.
func buildWorkbook(t *testing.T, header []interface{}, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf
}

var sourceHeader = []interface{}{
	"key_corporateActionId", "declaredDate", "infoSource",
	"dealAttributes", "transactionAmount", "transactionCurrency",
}

func TestParseReadsRowsByHeaderName(t *testing.T) {
	buf := buildWorkbook(t, sourceHeader,
		[]interface{}{"CA-1", "2023-01-15", "BLOOMBERG", `["MERGER"]`, 100.5, "CAD"},
		[]interface{}{"CA-2", "2023-02-20", "REUTERS", `["TAKEOVER","MERGER"]`, 42, "GBP"},
	)

	records, err := NewParser().Parse(buf)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.RawRecord{
		CorporateActionID:   "CA-1",
		DeclaredDate:        "2023-01-15",
		InfoSource:          "BLOOMBERG",
		DealAttributes:      `["MERGER"]`,
		TransactionAmount:   "100.5",
		TransactionCurrency: "CAD",
	}, records[0])
	assert.Equal(t, "42", records[1].TransactionAmount)
}

func TestParseIgnoresColumnOrder(t *testing.T) {
	// Currency and amount swapped relative to the usual export layout.
	header := []interface{}{
		"transactionCurrency", "transactionAmount", "dealAttributes",
		"infoSource", "declaredDate", "key_corporateActionId",
	}
	buf := buildWorkbook(t, header,
		[]interface{}{"USD", 10, `["MERGER"]`, "BLOOMBERG", "2023-03-01", "CA-1"},
	)

	records, err := NewParser().Parse(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "USD", records[0].TransactionCurrency)
	assert.Equal(t, "10", records[0].TransactionAmount)
	assert.Equal(t, "CA-1", records[0].CorporateActionID)
}

func TestParseShortRowsReadAsEmptyCells(t *testing.T) {
	buf := buildWorkbook(t, sourceHeader,
		[]interface{}{"CA-1", "2023-01-15"}, // trailing cells absent
	)

	records, err := NewParser().Parse(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].TransactionAmount)
	assert.Empty(t, records[0].TransactionCurrency)
}

func TestParseMissingColumns(t *testing.T) {
	header := []interface{}{"key_corporateActionId", "declaredDate", "infoSource"}
	buf := buildWorkbook(t, header)

	_, err := NewParser().Parse(buf)
	require.Error(t, err)

	var malformedErr *processors.MalformedInputError
	require.True(t, errors.As(err, &malformedErr))
	assert.ElementsMatch(t, []string{colDealAttributes, colTransactionAmount, colTransactionCurrency}, malformedErr.Missing)
}

func TestParseRejectsNonWorkbook(t *testing.T) {
	_, err := NewParser().Parse(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}

func TestWriteNormalizedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")

	records := []models.NormalizedRecord{
		{
			CorpActionID:        "CA-1",
			DeclaredDate:        "2023-01-15",
			InfoSource:          "BLOOMBERG",
			DealAttributes:      `["MERGER"]`,
			TransactionAmount:   57,
			TransactionCurrency: "CAD",
			GeographicalRegion:  "Canada",
		},
	}
	require.NoError(t, WriteNormalized(records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"corpActionID", "declaredDate", "infoSource", "dealAttributes",
		"transactionAmount", "transactionCurrency", "geographicalRegion",
	}, rows[0])
	assert.Equal(t, "CA-1", rows[1][0])
	assert.Equal(t, "57", rows[1][4])
	assert.Equal(t, "Canada", rows[1][6])
}
