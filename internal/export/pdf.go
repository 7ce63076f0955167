package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/ricemill/internal/domain/settlement"
	"github.com/mamadbah2/ricemill/internal/service/populate"
)

const slipFont = "Helvetica"

// SettlementSlip renders a one page settlement slip for a lot. breakdown is
// nil when the lot has no net amount yet.
func SettlementSlip(lot populate.LotView, breakdown *settlement.Breakdown) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(slipFont, "B", 14)
	pdf.CellFormat(0, 10, "Lot Settlement Slip", "", 1, "C", false, 0, "")
	pdf.SetFont(slipFont, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Lot No %s", lot.LotNo), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	saudaCode, rate := "-", "-"
	if lot.Sauda != nil {
		saudaCode = lot.Sauda.SaudaCode
		if lot.Sauda.RatePerQtl != nil {
			rate = formatAmount(*lot.Sauda.RatePerQtl)
		}
	}
	agreementNo := "-"
	if lot.Agreement != nil {
		agreementNo = lot.Agreement.AgreementNo
	}
	vehicleNo := "-"
	if lot.Vehicle != nil {
		vehicleNo = lot.Vehicle.VehicleNo
	}

	section(pdf, "References")
	line(pdf, "Sauda", saudaCode)
	line(pdf, "Rate per qtl", rate)
	line(pdf, "Agreement", agreementNo)
	line(pdf, "Vehicle", vehicleNo)
	line(pdf, "Rice pass date", safeValue(date(lot.RicePassDate)))
	line(pdf, "Deposit centre", safeValue(lot.DepositCentre))
	pdf.Ln(2)

	section(pdf, "Quantities")
	line(pdf, "Qtl", optional(lot.Qtl))
	bags := "-"
	if lot.Bags != nil {
		bags = fmt.Sprintf("%d", *lot.Bags)
	}
	line(pdf, "Bags", bags)
	line(pdf, "Moisture cut", optional(lot.MoistureCut))
	line(pdf, "Net rice qtl", optional(lot.NetRiceQtl))
	pdf.Ln(2)

	section(pdf, "Settlement")
	if breakdown == nil {
		pdf.SetFont(slipFont, "", 10)
		pdf.MultiCell(0, 6, "Net amount not recorded yet. No settlement available.", "", "L", false)
	} else {
		widths := []float64{110, 60}
		rows := [][]string{
			{"Net amount", formatAmount(breakdown.NetAmount)},
			{"Less: QI expense", formatAmount(breakdown.QiExp)},
			{"Less: Lot dalali", formatAmount(breakdown.LotDalali)},
			{"Less: Other costs", formatAmount(breakdown.OtherCosts)},
			{"Less: Brokerage", formatAmount(breakdown.Brokerage)},
			{"Total deductions", formatAmount(breakdown.TotalDeductions)},
		}
		for _, r := range rows {
			tableRow(pdf, r, widths, false)
		}
		tableRow(pdf, []string{"Nett amount final", formatAmount(breakdown.NettAmountFinal)}, widths, true)
	}

	if strings.TrimSpace(lot.Notes) != "" {
		pdf.Ln(4)
		section(pdf, "Notes")
		pdf.SetFont(slipFont, "", 10)
		pdf.MultiCell(0, 5, lot.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render slip for lot %s: %w", lot.LotNo, err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(slipFont, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont(slipFont, "", 10)
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func tableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(slipFont, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(v float64) string {
	return "Rs. " + decimal.NewFromFloat(v).StringFixed(2)
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).String()
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
