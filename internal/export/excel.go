package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/ricemill/internal/service/populate"
)

const ledgerSheet = "Lots"

// ExcelLedger writes every lot with its settlement columns and a totals row.
func ExcelLedger(lots []populate.LotView, generatedAt time.Time) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	set := func(col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(ledgerSheet, cell, value)
	}

	set(1, 1, "Lot ledger")
	set(2, 1, generatedAt.Format("2006-01-02 15:04"))

	headerRow := 3
	for i, header := range LedgerHeader {
		set(i+1, headerRow, header)
	}

	rows := LedgerRows(lots)
	for r, row := range rows {
		for c, value := range row {
			set(c+1, headerRow+1+r, value)
		}
	}

	totalsRow := headerRow + 1 + len(rows)
	for c, value := range LedgerTotals(rows) {
		set(c+1, totalsRow, value)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(LedgerHeader), headerRow)
		_ = file.SetCellStyle(ledgerSheet, "A3", last, bold)
		first, _ := excelize.CoordinatesToCellName(1, totalsRow)
		last, _ = excelize.CoordinatesToCellName(len(LedgerHeader), totalsRow)
		_ = file.SetCellStyle(ledgerSheet, first, last, bold)
	}

	_ = file.SetColWidth(ledgerSheet, "A", "C", 16)
	_ = file.SetColWidth(ledgerSheet, "D", "E", 14)
	_ = file.SetColWidth(ledgerSheet, "F", "N", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
