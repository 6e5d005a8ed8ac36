package utils

import (
	"fmt"

	"bitbucket.org/voltride/fieldops_backend/models"
	"github.com/xuri/excelize/v2"
)

var invoiceExportHeaders = []string{
	"Invoice ID", "Booking ID", "Rider ID", "Amount", "Currency",
	"Payment Status", "Card Brand", "Card Last4", "Gateway Charge ID",
	"Invoice Date",
}

// BuildInvoiceExport renders the invoice register as an XLSX workbook.
func BuildInvoiceExport(invoices []models.BookingInvoice) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Invoices"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range invoiceExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, inv := range invoices {
		row := i + 2
		values := []interface{}{
			inv.InvoiceId,
			inv.BookingId,
			inv.RiderId,
			inv.Amount.StringFixed(2),
			inv.Currency,
			string(inv.PaymentStatus),
			strOrEmpty(inv.CardBrand),
			strOrEmpty(inv.CardLast4),
			strOrEmpty(inv.GatewayChargeId),
			inv.InvoiceDate.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// InvoiceExportFilename returns the attachment name for one export run.
func InvoiceExportFilename(date string) string {
	return fmt.Sprintf("invoice-register-%s.xlsx", date)
}
