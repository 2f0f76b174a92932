package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"procurement/models"
)

// SubmitBid итог = unitPrice * rfq.quantity. RFQ блокируется, чтобы не пересечься с выбором.
func (e *Engine) SubmitBid(ctx context.Context, actor models.User, rfqID string, req models.SubmitBidRequest) (*models.Bid, error) {
	if err := authorize(actor, OpSubmitBid); err != nil {
		return nil, err
	}
	if err := e.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.UnitPrice.IsNegative() {
		return nil, models.Validation("unitPrice must not be negative")
	}

	var bid *models.Bid
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		rfq, err := repo.GetRFQForUpdate(ctx, rfqID)
		if err != nil {
			return storeErr(err, "rfq", rfqID)
		}
		if !isOpenAt(rfq, e.now()) {
			return models.Conflict("rfq %s is not accepting bids", rfqID)
		}

		bid = &models.Bid{
			RFQID:        rfq.ID,
			SupplierID:   actor.ID,
			UnitPrice:    *req.UnitPrice,
			DeliveryDays: req.DeliveryDays,
			Total:        bidTotal(*req.UnitPrice, rfq.Quantity),
			Status:       models.BidPending,
		}
		return storeErr(repo.CreateBid(ctx, bid), "bid", "")
	})
	if err != nil {
		return nil, storeErr(err, "rfq", rfqID)
	}
	e.logger.Info("bid submitted",
		zap.String("bid_id", bid.ID),
		zap.String("rfq_id", rfqID),
		zap.String("supplier_id", actor.ID),
		zap.Stringer("total", bid.Total))
	return bid, nil
}

// ownedRFQ загружает RFQ и проверяет, что он принадлежит actor
func ownedRFQ(ctx context.Context, repo Repository, actor models.User, rfqID string) (*models.RFQ, error) {
	rfq, err := repo.GetRFQ(ctx, rfqID)
	if err != nil {
		return nil, storeErr(err, "rfq", rfqID)
	}
	if rfq.ManufacturerID != actor.ID {
		return nil, models.Forbidden("rfq %s belongs to another manufacturer", rfqID)
	}
	return rfq, nil
}

func (e *Engine) ListBidsForRFQ(ctx context.Context, actor models.User, rfqID string) ([]models.BidView, error) {
	if err := authorize(actor, OpListBidsForRFQ); err != nil {
		return nil, err
	}
	if _, err := ownedRFQ(ctx, e.store, actor, rfqID); err != nil {
		return nil, err
	}
	bids, err := e.store.ListBidsByRFQ(ctx, rfqID)
	if err != nil {
		return nil, storeErr(err, "bid", "")
	}

	parties := map[string]*models.Party{}
	out := make([]models.BidView, 0, len(bids))
	for _, b := range bids {
		supplier, err := e.lookupParty(ctx, e.store, parties, b.SupplierID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BidView{Bid: b, Supplier: supplier})
	}
	return out, nil
}

// ListMyBids предложения поставщика вместе с RFQ и его заказчиком, новые первыми
func (e *Engine) ListMyBids(ctx context.Context, actor models.User) ([]models.BidView, error) {
	if err := authorize(actor, OpListMyBids); err != nil {
		return nil, err
	}
	bids, err := e.store.ListBidsBySupplier(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err, "bid", "")
	}

	parties := map[string]*models.Party{}
	out := make([]models.BidView, 0, len(bids))
	for _, b := range bids {
		rfq, err := e.rfqView(ctx, parties, b.RFQID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BidView{Bid: b, RFQ: rfq})
	}
	return out, nil
}

// RecommendBestBid только подсказка, статусы не меняются
func (e *Engine) RecommendBestBid(ctx context.Context, actor models.User, rfqID string) (*models.BidView, error) {
	if err := authorize(actor, OpRecommendBestBid); err != nil {
		return nil, err
	}
	if _, err := ownedRFQ(ctx, e.store, actor, rfqID); err != nil {
		return nil, err
	}
	bids, err := e.store.ListBidsByRFQ(ctx, rfqID)
	if err != nil {
		return nil, storeErr(err, "bid", "")
	}
	best, ok := bestBid(bids)
	if !ok {
		return nil, models.NotFound("no bids for rfq %s", rfqID)
	}
	supplier, err := e.lookupParty(ctx, e.store, map[string]*models.Party{}, best.SupplierID)
	if err != nil {
		return nil, err
	}
	return &models.BidView{Bid: best, Supplier: supplier}, nil
}

// SelectBid выбирает победителя одной транзакцией: статус SELECTED, отклонение остальных,
// создание PO, ссылка на PO и закрытие RFQ. Повторный выбор того же предложения
// возвращает существующий PO.
func (e *Engine) SelectBid(ctx context.Context, actor models.User, bidID string) (*models.PurchaseOrder, error) {
	if err := authorize(actor, OpSelectBid); err != nil {
		return nil, err
	}

	var (
		po     *models.PurchaseOrder
		reused bool
	)
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		reused = false
		bid, err := repo.GetBid(ctx, bidID)
		if err != nil {
			return storeErr(err, "bid", bidID)
		}
		// блокировка RFQ упорядочивает конкурирующие выборы
		rfq, err := repo.GetRFQForUpdate(ctx, bid.RFQID)
		if err != nil {
			return storeErr(err, "rfq", bid.RFQID)
		}
		if rfq.ManufacturerID != actor.ID {
			return models.Forbidden("rfq %s belongs to another manufacturer", rfq.ID)
		}
		// перечитываем после блокировки
		if bid, err = repo.GetBid(ctx, bidID); err != nil {
			return storeErr(err, "bid", bidID)
		}
		if bid.Status == models.BidSelected && bid.POID != nil {
			po, err = repo.GetPO(ctx, *bid.POID)
			reused = err == nil
			return storeErr(err, "purchase order", *bid.POID)
		}

		bids, err := repo.ListBidsByRFQ(ctx, rfq.ID)
		if err != nil {
			return storeErr(err, "bid", "")
		}
		if winner, ok := selectedBid(bids); ok && winner.ID != bid.ID {
			return models.Conflict("rfq %s already has selected bid %s", rfq.ID, winner.ID)
		}

		if err := repo.UpdateBidStatus(ctx, bid.ID, models.BidSelected); err != nil {
			return selectConflict(err, rfq.ID)
		}
		if err := repo.RejectOtherBids(ctx, rfq.ID, bid.ID); err != nil {
			return storeErr(err, "bid", "")
		}
		po = newPurchaseOrder(rfq, bid)
		if err := repo.CreatePO(ctx, po); err != nil {
			return selectConflict(err, rfq.ID)
		}
		if err := repo.SetBidPO(ctx, bid.ID, po.ID); err != nil {
			return storeErr(err, "bid", bid.ID)
		}
		if rfq.Status != models.RFQClosed {
			if err := repo.UpdateRFQStatus(ctx, rfq.ID, models.RFQClosed); err != nil {
				return storeErr(err, "rfq", rfq.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "bid", bidID)
	}

	if reused {
		e.logger.Info("bid already selected", zap.String("bid_id", bidID), zap.String("po_id", po.ID))
		return po, nil
	}
	e.logger.Info("bid selected",
		zap.String("bid_id", bidID),
		zap.String("rfq_id", po.RFQID),
		zap.String("po_id", po.ID))
	e.logger.Info("purchase order created", zap.String("po_id", po.ID), zap.Stringer("total", po.TotalAmount))
	return po, nil
}

// selectConflict нарушение уникальности при выборе означает, что победитель уже есть
func selectConflict(err error, rfqID string) error {
	if errors.Is(err, models.ErrDuplicate) {
		return models.Conflict("rfq %s already has a selected bid", rfqID)
	}
	return storeErr(err, "bid", "")
}

// RejectBid идемпотентен, выбранное предложение отклонить нельзя
func (e *Engine) RejectBid(ctx context.Context, actor models.User, bidID string) (*models.Bid, error) {
	if err := authorize(actor, OpRejectBid); err != nil {
		return nil, err
	}

	var rejected *models.Bid
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		bid, err := repo.GetBid(ctx, bidID)
		if err != nil {
			return storeErr(err, "bid", bidID)
		}
		rfq, err := repo.GetRFQForUpdate(ctx, bid.RFQID)
		if err != nil {
			return storeErr(err, "rfq", bid.RFQID)
		}
		if rfq.ManufacturerID != actor.ID {
			return models.Forbidden("rfq %s belongs to another manufacturer", rfq.ID)
		}
		if bid, err = repo.GetBid(ctx, bidID); err != nil {
			return storeErr(err, "bid", bidID)
		}
		switch bid.Status {
		case models.BidSelected:
			return models.Conflict("bid %s is selected and cannot be rejected", bidID)
		case models.BidRejected:
		default:
			if err := repo.UpdateBidStatus(ctx, bidID, models.BidRejected); err != nil {
				return storeErr(err, "bid", bidID)
			}
			bid.Status = models.BidRejected
		}
		rejected = bid
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "bid", bidID)
	}
	e.logger.Info("bid rejected", zap.String("bid_id", bidID))
	return rejected, nil
}

// ListAcceptedBids выбранные предложения по RFQ заказчика вместе с PO и счётом.
// Ошибка чтения счёта не прерывает список: она пишется в лог, счёт пропускается.
func (e *Engine) ListAcceptedBids(ctx context.Context, actor models.User) ([]models.BidView, error) {
	if err := authorize(actor, OpListAcceptedBids); err != nil {
		return nil, err
	}
	bids, err := e.store.ListSelectedBidsByManufacturer(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err, "bid", "")
	}

	parties := map[string]*models.Party{}
	out := make([]models.BidView, 0, len(bids))
	for _, b := range bids {
		supplier, err := e.lookupParty(ctx, e.store, parties, b.SupplierID)
		if err != nil {
			return nil, err
		}
		view := models.BidView{Bid: b, Supplier: supplier}
		if view.PO, err = e.poSummary(ctx, b.POID, true); err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (e *Engine) ListSelectedBidsForSupplier(ctx context.Context, actor models.User) ([]models.BidView, error) {
	if err := authorize(actor, OpListSelectedBids); err != nil {
		return nil, err
	}
	bids, err := e.store.ListSelectedBidsBySupplier(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err, "bid", "")
	}

	parties := map[string]*models.Party{}
	out := make([]models.BidView, 0, len(bids))
	for _, b := range bids {
		view := models.BidView{Bid: b}
		if view.RFQ, err = e.rfqView(ctx, parties, b.RFQID); err != nil {
			return nil, err
		}
		if view.PO, err = e.poSummary(ctx, b.POID, false); err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// rfqView возвращает nil для удалённого RFQ
func (e *Engine) rfqView(ctx context.Context, parties map[string]*models.Party, rfqID string) (*models.RFQView, error) {
	rfq, err := e.store.GetRFQ(ctx, rfqID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "rfq", rfqID)
	}
	owner, err := e.lookupParty(ctx, e.store, parties, rfq.ManufacturerID)
	if err != nil {
		return nil, err
	}
	return &models.RFQView{RFQ: *rfq, Manufacturer: owner}, nil
}

func (e *Engine) poSummary(ctx context.Context, poID *string, withInvoice bool) (*models.POSummary, error) {
	if poID == nil {
		return nil, nil
	}
	po, err := e.store.GetPO(ctx, *poID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "purchase order", *poID)
	}
	summary := &models.POSummary{ID: po.ID, TotalAmount: po.TotalAmount, Status: po.Status}
	if !withInvoice || po.InvoiceID == nil {
		return summary, nil
	}
	inv, err := e.store.GetInvoice(ctx, *po.InvoiceID)
	if err != nil {
		e.logger.Warn("invoice lookup failed",
			zap.String("po_id", po.ID),
			zap.String("invoice_id", *po.InvoiceID),
			zap.Error(err))
		return summary, nil
	}
	summary.Invoice = &models.InvoiceSummary{ID: inv.ID, TotalAmount: inv.TotalAmount, Status: inv.Status}
	return summary, nil
}
