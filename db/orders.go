package db

import (
	"context"

	"github.com/google/uuid"

	"procurement/models"
)

const poColumns = `id, manufacturer_id, supplier_id, rfq_id, bid_id, items, total_amount, status, invoice_id, created_at, updated_at`

func (s *Storage) CreatePO(ctx context.Context, po *models.PurchaseOrder) error {
	po.ID = uuid.NewString()
	query := `
        INSERT INTO purchase_orders (id, manufacturer_id, supplier_id, rfq_id, bid_id, items, total_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	args := []any{po.ID, po.ManufacturerID, po.SupplierID, po.RFQID, po.BidID, po.Items, po.TotalAmount, po.Status}
	return s.insert(ctx, query, args, &po.CreatedAt, &po.UpdatedAt)
}

func (s *Storage) GetPO(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return getOne[models.PurchaseOrder](ctx, s, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id)
}

func (s *Storage) GetPOForUpdate(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return getOne[models.PurchaseOrder](ctx, s, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (s *Storage) ListPOsByParty(ctx context.Context, userID string) ([]models.PurchaseOrder, error) {
	query := `
        SELECT ` + poColumns + ` FROM purchase_orders
        WHERE manufacturer_id = $1 OR supplier_id = $1
        ORDER BY created_at DESC, id`
	return selectAll[models.PurchaseOrder](ctx, s, query, userID)
}

func (s *Storage) UpdatePOStatus(ctx context.Context, id string, status models.POStatus) error {
	return s.exec(ctx, `UPDATE purchase_orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

func (s *Storage) SetPOInvoice(ctx context.Context, poID, invoiceID string) error {
	return s.exec(ctx, `UPDATE purchase_orders SET invoice_id = $1, updated_at = NOW() WHERE id = $2`, invoiceID, poID)
}
