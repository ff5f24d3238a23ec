// Package report renders ingested clearing files as spreadsheets for
// back-office distribution.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clearport/mepsfeed/internal/domain"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"
)

// BuildFileWorkbook produces an xlsx workbook for one ingested file: a
// summary sheet with the header identity and trailer totals, and one row per
// transaction. The caller owns closing the returned file.
func BuildFileWorkbook(file *domain.IngestedFile, txns []domain.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	summary := [][]any{
		{"File ID", file.FileID},
		{"Previous file ID", file.PrevFileID},
		{"File name", file.FileName},
		{"Entity", file.Entity},
		{"Currency", file.Currency},
		{"VAT rate", file.VATRate.String()},
		{"Status", string(file.Status)},
		{"Transactions", file.RecordCount},
		{"Total amount", file.TotalAmount.StringFixed(2)},
		{"Total fees", file.TotalFees.StringFixed(2)},
		{"Total VAT", file.TotalVAT.StringFixed(2)},
		{"Ingested at", file.IngestedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	header := []any{
		"Seq", "Timestamp", "Amount", "Fee", "Terminal", "Terminal type",
		"Location", "Payment ref", "Response", "Log", "Version",
	}
	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write transactions header: %w", err)
	}

	for i, t := range txns {
		row := []any{
			t.Seq,
			t.DtHora.Format("2006-01-02 15:04:05"),
			t.MontPgPS.StringFixed(2),
			t.TarifaPS.StringFixed(2),
			t.IDTerminal,
			t.TipoTerm,
			t.LocMorTer,
			t.RefPag,
			t.CodResp,
			t.NrLog,
			t.Version,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write transaction row %d: %w", i+1, err)
		}
	}

	return f, nil
}
