// backend/src/parsers/spreadsheet/writer.go
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/username/corpinsights/backend/src/models"
)

// artifactHeaders are the canonical-schema column names of the normalized
// artifact, in order.
var artifactHeaders = []interface{}{
	"corpActionID",
	"declaredDate",
	"infoSource",
	"dealAttributes",
	"transactionAmount",
	"transactionCurrency",
	"geographicalRegion",
}

// WriteNormalized writes the normalized table to an xlsx artifact at path so
// a later download can serve it back.
func WriteNormalized(records []models.NormalizedRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &artifactHeaders); err != nil {
		return fmt.Errorf("spreadsheet writer: failed to write header row: %w", err)
	}

	for i, rec := range records {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("spreadsheet writer: bad row coordinate %d: %w", i+2, err)
		}
		row := []interface{}{
			rec.CorpActionID,
			rec.DeclaredDate,
			rec.InfoSource,
			rec.DealAttributes,
			rec.TransactionAmount,
			rec.TransactionCurrency,
			rec.GeographicalRegion,
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("spreadsheet writer: failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("spreadsheet writer: failed to save artifact: %w", err)
	}
	return nil
}
