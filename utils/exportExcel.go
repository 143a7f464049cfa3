package utils

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

const XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXlsx writes one sheet with a header row followed by rows.
func WriteXlsx(w io.Writer, sheet string, headers []string, rows [][]any) error {
	if sheet == "" {
		return errors.New("sheet name is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1".
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
