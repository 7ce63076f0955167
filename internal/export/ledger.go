// Package export renders lots as spreadsheet ledgers and PDF settlement slips.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/ricemill/internal/service/populate"
)

const dateLayout = "2006-01-02"

// LedgerHeader names the ledger columns, shared by the Excel export and the Sheets sync.
var LedgerHeader = []string{
	"Lot No",
	"Sauda",
	"Vehicle",
	"Gate Pass Date",
	"Rice Pass Date",
	"Qtl",
	"Bags",
	"Net Rice Qtl",
	"Net Amount",
	"QI Exp",
	"Lot Dalali",
	"Other Costs",
	"Brokerage",
	"Nett Amount Final",
}

// amountColumns are the zero-based ledger columns summed in the totals row.
var amountColumns = []int{5, 6, 7, 8, 9, 10, 11, 12, 13}

// LedgerRows flattens lots into ledger rows. Missing values are empty strings.
func LedgerRows(lots []populate.LotView) [][]any {
	rows := make([][]any, 0, len(lots))
	for _, v := range lots {
		saudaCode := ""
		if v.Sauda != nil {
			saudaCode = v.Sauda.SaudaCode
		}
		vehicleNo := ""
		if v.Vehicle != nil {
			vehicleNo = v.Vehicle.VehicleNo
		}
		var gatePassDate *time.Time
		if v.GatePass != nil {
			gatePassDate = v.GatePass.Date
		}

		var bags any = ""
		if v.Bags != nil {
			bags = *v.Bags
		}

		rows = append(rows, []any{
			v.LotNo,
			saudaCode,
			vehicleNo,
			date(gatePassDate),
			date(v.RicePassDate),
			number(v.Qtl),
			bags,
			number(v.NetRiceQtl),
			number(v.NetAmount),
			number(v.QiExp),
			number(v.LotDalali),
			number(v.OtherCosts),
			number(v.Brokerage),
			number(v.NettAmountFinal),
		})
	}
	return rows
}

// LedgerTotals sums the numeric ledger columns of rows.
func LedgerTotals(rows [][]any) []any {
	sums := make(map[int]decimal.Decimal, len(amountColumns))
	for _, row := range rows {
		for _, col := range amountColumns {
			switch v := row[col].(type) {
			case float64:
				sums[col] = sums[col].Add(decimal.NewFromFloat(v))
			case int:
				sums[col] = sums[col].Add(decimal.NewFromInt(int64(v)))
			}
		}
	}

	totals := make([]any, len(LedgerHeader))
	for i := range totals {
		totals[i] = ""
	}
	totals[0] = "Total"
	for _, col := range amountColumns {
		totals[col] = sums[col].InexactFloat64()
	}
	return totals
}

func number(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
