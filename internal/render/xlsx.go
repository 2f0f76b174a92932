package render

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"procurement/models"
)

// Строка, с которой начинается таблица позиций
const itemsHeaderRow = 8

func renderXLSX(doc models.Document) (_ []byte, err error) {
	f := excelize.NewFile()
	defer func() { err = multierr.Append(err, f.Close()) }()

	sheet := string(doc.Kind)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	header := [][2]any{
		{title(doc) + " ID", doc.ID},
		{"PO ID", doc.POID},
		{"Subject", doc.Title},
		{"Manufacturer", partyLine(doc.Manufacturer)},
		{"Supplier", partyLine(doc.Supplier)},
		{"Date", doc.IssuedAt.Format("2006-01-02")},
	}
	if doc.Kind == models.DocumentInvoice {
		header = append(header, [2]any{"Status", doc.Status})
	}
	for i, kv := range header {
		row := i + 1
		if err := setRow(f, sheet, row, kv[0], kv[1]); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), bold); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, sheet, itemsHeaderRow, "Description", "Qty", "Unit price", "Line total"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, cell(1, itemsHeaderRow), cell(4, itemsHeaderRow), bold); err != nil {
		return nil, err
	}

	row := itemsHeaderRow + 1
	for _, item := range doc.Items {
		if err := setRow(f, sheet, row,
			item.Description,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.Amount().StringFixed(2),
		); err != nil {
			return nil, err
		}
		row++
	}
	if err := setRow(f, sheet, row, "Grand total", nil, nil, doc.TotalAmount.StringFixed(2)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, cell(1, row), cell(4, row), bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "D", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// setRow nil пропускает ячейку
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return err
		}
	}
	return nil
}
