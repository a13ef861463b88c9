package export

import (
	"fmt"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	MonthlySheet    = "Monthly"
	PropertiesSheet = "Properties"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// numFmtMoney is the built-in "#,##0.00" format.
const numFmtMoney = 4

// CertificateWorkbook writes the certificate as a two sheet workbook: the
// twelve month rows with a total, and one row per property with a total.
func CertificateWorkbook(certificate *domain.AnnualCertificate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MonthlySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(PropertiesSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	// Monthly
	rows := [][]any{{"Month", "Gross", "Fee", "VAT", "Net"}}
	for _, m := range certificate.Months {
		rows = append(rows, splitRow(m.Name, m.Totals))
	}
	rows = append(rows, splitRow("Total", certificate.Totals))
	if err := writeSheet(f, MonthlySheet, rows, 2, headerStyle, moneyStyle, totalStyle); err != nil {
		return nil, err
	}

	// Properties
	rows = [][]any{{"Property", "Contracts", "Gross", "Fee", "VAT", "Net"}}
	contracts := 0
	for _, p := range certificate.Properties {
		rows = append(rows, append([]any{p.Address, p.Contracts}, splitRow("", p.Totals)[1:]...))
		contracts += p.Contracts
	}
	rows = append(rows, append([]any{"Total", contracts}, splitRow("", certificate.Totals)[1:]...))
	if err := writeSheet(f, PropertiesSheet, rows, 3, headerStyle, moneyStyle, totalStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the download name of an owner's certificate workbook.
func FileName(certificate *domain.AnnualCertificate) string {
	taxID := "owner"
	if certificate.Owner != nil && certificate.Owner.TaxID != "" {
		taxID = certificate.Owner.TaxID
	}
	return fmt.Sprintf("certificate-%s-%d.xlsx", taxID, certificate.Year)
}

func splitRow(label string, s domain.MonthlySplit) []any {
	return []any{
		label,
		s.Gross.InexactFloat64(),
		s.Fee.InexactFloat64(),
		s.VAT.InexactFloat64(),
		s.Net.InexactFloat64(),
	}
}

// writeSheet writes rows from A1. The first row is the header, the last one
// the total; money columns start at firstMoneyCol (1-based).
func writeSheet(f *excelize.File, sheet string, rows [][]any, firstMoneyCol, headerStyle, moneyStyle, totalStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	width := len(rows[0])
	last := len(rows)

	if err := setStyle(f, sheet, 1, 1, width, 1, headerStyle); err != nil {
		return err
	}
	if last > 2 {
		if err := setStyle(f, sheet, firstMoneyCol, 2, width, last-1, moneyStyle); err != nil {
			return err
		}
	}
	if err := setStyle(f, sheet, firstMoneyCol, last, width, last, totalStyle); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", "A", 32)
}

func setStyle(f *excelize.File, sheet string, fromCol, fromRow, toCol, toRow, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
