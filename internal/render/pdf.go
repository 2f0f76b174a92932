package render

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"

	"procurement/models"
)

var pdfColumns = []struct {
	header string
	width  float64
	align  string
}{
	{"Description", 90, "L"},
	{"Qty", 20, "R"},
	{"Unit price", 35, "R"},
	{"Line total", 35, "R"},
}

func renderPDF(doc models.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title(doc)+" "+doc.ID, true)
	pdf.SetCreationDate(doc.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(title(doc)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
	}
	field(title(doc)+" ID:", doc.ID)
	if doc.Kind == models.DocumentInvoice {
		field("PO ID:", doc.POID)
	}
	if doc.Title != "" {
		field("Subject:", doc.Title)
	}
	field("Manufacturer:", partyLine(doc.Manufacturer))
	field("Supplier:", partyLine(doc.Supplier))
	field("Date:", doc.IssuedAt.Format("2006-01-02"))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.header, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range doc.Items {
		values := []string{
			tr(item.Description),
			strconv.Itoa(item.Quantity),
			item.UnitPrice.StringFixed(2),
			item.Amount().StringFixed(2),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, values[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	totalWidth := pdfColumns[0].width + pdfColumns[1].width + pdfColumns[2].width
	pdf.CellFormat(totalWidth, 8, "Grand total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColumns[3].width, 8, doc.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")

	if doc.Kind == models.DocumentInvoice {
		pdf.Ln(4)
		field("Status:", doc.Status)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
