package db

import (
	"context"

	"github.com/google/uuid"

	"procurement/models"
)

const rfqColumns = `id, manufacturer_id, title, description, quantity, deadline, status, created_at, updated_at`

func (s *Storage) CreateRFQ(ctx context.Context, rfq *models.RFQ) error {
	rfq.ID = uuid.NewString()
	query := `
        INSERT INTO rfqs (id, manufacturer_id, title, description, quantity, deadline, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`
	args := []any{rfq.ID, rfq.ManufacturerID, rfq.Title, rfq.Description, rfq.Quantity, rfq.Deadline, rfq.Status}
	return s.insert(ctx, query, args, &rfq.CreatedAt, &rfq.UpdatedAt)
}

func (s *Storage) GetRFQ(ctx context.Context, id string) (*models.RFQ, error) {
	return getOne[models.RFQ](ctx, s, `SELECT `+rfqColumns+` FROM rfqs WHERE id = $1`, id)
}

func (s *Storage) GetRFQForUpdate(ctx context.Context, id string) (*models.RFQ, error) {
	return getOne[models.RFQ](ctx, s, `SELECT `+rfqColumns+` FROM rfqs WHERE id = $1 FOR UPDATE`, id)
}

func (s *Storage) ListRFQsByStatus(ctx context.Context, status models.RFQStatus) ([]models.RFQ, error) {
	query := `SELECT ` + rfqColumns + ` FROM rfqs WHERE status = $1 ORDER BY created_at DESC, id`
	return selectAll[models.RFQ](ctx, s, query, status)
}

func (s *Storage) ListRFQsByManufacturer(ctx context.Context, manufacturerID string) ([]models.RFQ, error) {
	query := `SELECT ` + rfqColumns + ` FROM rfqs WHERE manufacturer_id = $1 ORDER BY created_at DESC, id`
	return selectAll[models.RFQ](ctx, s, query, manufacturerID)
}

func (s *Storage) UpdateRFQStatus(ctx context.Context, id string, status models.RFQStatus) error {
	return s.exec(ctx, `UPDATE rfqs SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

func (s *Storage) DeleteRFQ(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM rfqs WHERE id = $1`, id)
}
