package render_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"procurement/internal/render"
	"procurement/models"
)

func sampleDocument(kind models.DocumentKind) models.Document {
	return models.Document{
		Kind:         kind,
		ID:           "doc-1",
		POID:         "po-1",
		Title:        "Steel rods",
		Manufacturer: models.Party{ID: "m", Name: "Acme", Email: "acme@example.com"},
		Supplier:     models.Party{ID: "s", Name: "Bolt Supply", Email: "bolt@example.com"},
		IssuedAt:     time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC),
		Items: []models.LineItem{
			{Description: "Steel rods", Quantity: 10, UnitPrice: decimal.RequireFromString("5")},
		},
		TotalAmount: decimal.RequireFromString("50"),
		Status:      "pending",
	}
}

func TestParseFormat(t *testing.T) {
	f, err := render.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, render.FormatPDF, f)

	f, err = render.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, render.FormatXLSX, f)

	_, err = render.ParseFormat("docx")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRenderPDF(t *testing.T) {
	r := render.NewRenderer(2, time.Second, zap.NewNop())

	out, err := r.Render(context.Background(), sampleDocument(models.DocumentPO), render.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "PO_doc-1.pdf", out.Filename)
}

func TestRenderXLSX(t *testing.T) {
	r := render.NewRenderer(1, time.Second, zap.NewNop())

	out, err := r.Render(context.Background(), sampleDocument(models.DocumentInvoice), render.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "Invoice_doc-1.xlsx", out.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Invoice", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "doc-1", get("B1"))
	assert.Equal(t, "po-1", get("B2"))
	assert.Equal(t, "Steel rods", get("B3"))
	assert.Equal(t, "pending", get("B7"))
	assert.Equal(t, "Description", get("A8"))
	assert.Equal(t, "Steel rods", get("A9"))
	assert.Equal(t, "10", get("B9"))
	assert.Equal(t, "5.00", get("C9"))
	assert.Equal(t, "50.00", get("D9"))
	assert.Equal(t, "Grand total", get("A10"))
	assert.Equal(t, "50.00", get("D10"))
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	r := render.NewRenderer(1, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, sampleDocument(models.DocumentPO), render.FormatPDF)
	assert.ErrorIs(t, err, context.Canceled)
}
