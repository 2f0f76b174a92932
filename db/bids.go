package db

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"procurement/models"
)

const bidColumns = `b.id, b.rfq_id, b.supplier_id, b.unit_price, b.delivery_days, b.total, b.status, b.po_id, b.created_at, b.updated_at`

func (s *Storage) CreateBid(ctx context.Context, bid *models.Bid) error {
	bid.ID = uuid.NewString()
	query := `
        INSERT INTO bids (id, rfq_id, supplier_id, unit_price, delivery_days, total, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`
	args := []any{bid.ID, bid.RFQID, bid.SupplierID, bid.UnitPrice, bid.DeliveryDays, bid.Total, bid.Status}
	return s.insert(ctx, query, args, &bid.CreatedAt, &bid.UpdatedAt)
}

func (s *Storage) GetBid(ctx context.Context, id string) (*models.Bid, error) {
	return getOne[models.Bid](ctx, s, `SELECT `+bidColumns+` FROM bids b WHERE b.id = $1`, id)
}

// ListBidsByRFQ упорядочен по seq, то есть по порядку подачи
func (s *Storage) ListBidsByRFQ(ctx context.Context, rfqID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids b WHERE b.rfq_id = $1 ORDER BY b.seq`
	return selectAll[models.Bid](ctx, s, query, rfqID)
}

func (s *Storage) ListBidsBySupplier(ctx context.Context, supplierID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids b WHERE b.supplier_id = $1 ORDER BY b.seq DESC`
	return selectAll[models.Bid](ctx, s, query, supplierID)
}

func (s *Storage) ListSelectedBidsByManufacturer(ctx context.Context, manufacturerID string) ([]models.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids b
        JOIN purchase_orders p ON p.bid_id = b.id
        WHERE b.status = $1 AND p.manufacturer_id = $2
        ORDER BY b.seq DESC`
	return selectAll[models.Bid](ctx, s, query, models.BidSelected, manufacturerID)
}

func (s *Storage) ListSelectedBidsBySupplier(ctx context.Context, supplierID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids b WHERE b.status = $1 AND b.supplier_id = $2 ORDER BY b.seq DESC`
	return selectAll[models.Bid](ctx, s, query, models.BidSelected, supplierID)
}

func (s *Storage) UpdateBidStatus(ctx context.Context, id string, status models.BidStatus) error {
	return s.exec(ctx, `UPDATE bids SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

// RejectOtherBids отклоняет все предложения по RFQ, кроме keepBidID
func (s *Storage) RejectOtherBids(ctx context.Context, rfqID, keepBidID string) error {
	query := `UPDATE bids SET status = $1, updated_at = NOW() WHERE rfq_id = $2 AND id <> $3`
	err := s.exec(ctx, query, models.BidRejected, rfqID, keepBidID)
	if errors.Is(err, models.ErrRecordNotFound) {
		// других предложений нет
		return nil
	}
	return err
}

func (s *Storage) SetBidPO(ctx context.Context, bidID, poID string) error {
	return s.exec(ctx, `UPDATE bids SET po_id = $1, updated_at = NOW() WHERE id = $2`, poID, bidID)
}
