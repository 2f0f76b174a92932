package db

import (
	"context"

	"github.com/google/uuid"

	"procurement/models"
)

const invoiceColumns = `id, po_id, supplier_id, manufacturer_id, items, total_amount, status, created_at, updated_at`

func (s *Storage) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	inv.ID = uuid.NewString()
	query := `
        INSERT INTO invoices (id, po_id, supplier_id, manufacturer_id, items, total_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`
	args := []any{inv.ID, inv.POID, inv.SupplierID, inv.ManufacturerID, inv.Items, inv.TotalAmount, inv.Status}
	return s.insert(ctx, query, args, &inv.CreatedAt, &inv.UpdatedAt)
}

func (s *Storage) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return getOne[models.Invoice](ctx, s, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (s *Storage) ListInvoicesByManufacturer(ctx context.Context, manufacturerID string) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE manufacturer_id = $1 ORDER BY created_at DESC, id`
	return selectAll[models.Invoice](ctx, s, query, manufacturerID)
}

func (s *Storage) ListInvoicesBySupplier(ctx context.Context, supplierID string) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE supplier_id = $1 ORDER BY created_at DESC, id`
	return selectAll[models.Invoice](ctx, s, query, supplierID)
}

func (s *Storage) UpdateInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) error {
	return s.exec(ctx, `UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}
