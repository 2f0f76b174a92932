package workflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"procurement/models"
)

func (e *Engine) CreateRFQ(ctx context.Context, actor models.User, req models.CreateRFQRequest) (*models.RFQ, error) {
	if err := authorize(actor, OpCreateRFQ); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := e.validate.Struct(req); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, models.Validation("deadline must be RFC3339 or YYYY-MM-DD")
	}
	if !deadline.After(e.now()) {
		return nil, models.Validation("deadline must be in the future")
	}

	rfq := &models.RFQ{
		ManufacturerID: actor.ID,
		Title:          req.Title,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Deadline:       deadline,
		Status:         models.RFQOpen,
	}
	if err := e.store.CreateRFQ(ctx, rfq); err != nil {
		return nil, storeErr(err, "rfq", "")
	}
	e.logger.Info("rfq created", zap.String("rfq_id", rfq.ID), zap.String("manufacturer_id", actor.ID))
	return rfq, nil
}

// ListOpenRFQs открытые RFQ с ещё не наступившим сроком, новые первыми
func (e *Engine) ListOpenRFQs(ctx context.Context, actor models.User) ([]models.RFQView, error) {
	if err := authorize(actor, OpListOpenRFQs); err != nil {
		return nil, err
	}
	rfqs, err := e.store.ListRFQsByStatus(ctx, models.RFQOpen)
	if err != nil {
		return nil, storeErr(err, "rfq", "")
	}

	now := e.now()
	parties := map[string]*models.Party{}
	out := []models.RFQView{}
	for i := range rfqs {
		if !isOpenAt(&rfqs[i], now) {
			continue
		}
		owner, err := e.lookupParty(ctx, e.store, parties, rfqs[i].ManufacturerID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.RFQView{RFQ: rfqs[i], Manufacturer: owner})
	}
	return out, nil
}

func (e *Engine) ListOwnedRFQs(ctx context.Context, actor models.User) ([]models.RFQ, error) {
	if err := authorize(actor, OpListOwnedRFQs); err != nil {
		return nil, err
	}
	rfqs, err := e.store.ListRFQsByManufacturer(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err, "rfq", "")
	}
	return rfqs, nil
}

func (e *Engine) GetRFQ(ctx context.Context, actor models.User, id string) (*models.RFQView, error) {
	if err := authorize(actor, OpGetRFQ); err != nil {
		return nil, err
	}
	rfq, err := e.store.GetRFQ(ctx, id)
	if err != nil {
		return nil, storeErr(err, "rfq", id)
	}
	owner, err := e.lookupParty(ctx, e.store, map[string]*models.Party{}, rfq.ManufacturerID)
	if err != nil {
		return nil, err
	}
	return &models.RFQView{RFQ: *rfq, Manufacturer: owner}, nil
}

// CloseRFQ идемпотентен: закрытый RFQ возвращается как есть
func (e *Engine) CloseRFQ(ctx context.Context, actor models.User, id string) (*models.RFQ, error) {
	if err := authorize(actor, OpCloseRFQ); err != nil {
		return nil, err
	}

	var closed *models.RFQ
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		rfq, err := repo.GetRFQForUpdate(ctx, id)
		if err != nil {
			return storeErr(err, "rfq", id)
		}
		if rfq.ManufacturerID != actor.ID {
			return models.Forbidden("only the owner can close rfq %s", id)
		}
		if rfq.Status != models.RFQClosed {
			if err := repo.UpdateRFQStatus(ctx, id, models.RFQClosed); err != nil {
				return storeErr(err, "rfq", id)
			}
			rfq.Status = models.RFQClosed
		}
		closed = rfq
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "rfq", id)
	}
	e.logger.Info("rfq closed", zap.String("rfq_id", id))
	return closed, nil
}

// DeleteRFQ запрещён при наличии выбранного предложения. Предложения не удаляются.
func (e *Engine) DeleteRFQ(ctx context.Context, actor models.User, id string) error {
	if err := authorize(actor, OpDeleteRFQ); err != nil {
		return err
	}

	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		rfq, err := repo.GetRFQForUpdate(ctx, id)
		if err != nil {
			return storeErr(err, "rfq", id)
		}
		if rfq.ManufacturerID != actor.ID {
			return models.Forbidden("only the owner can delete rfq %s", id)
		}
		bids, err := repo.ListBidsByRFQ(ctx, id)
		if err != nil {
			return storeErr(err, "bid", "")
		}
		if _, ok := selectedBid(bids); ok {
			return models.Conflict("rfq %s has a selected bid and cannot be deleted", id)
		}
		return storeErr(repo.DeleteRFQ(ctx, id), "rfq", id)
	})
	if err != nil {
		return storeErr(err, "rfq", id)
	}
	e.logger.Info("rfq deleted", zap.String("rfq_id", id))
	return nil
}
