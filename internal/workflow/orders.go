package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"procurement/models"
)

// participantPO загружает PO и проверяет, что actor одна из его сторон
func participantPO(ctx context.Context, repo Repository, actor models.User, id string) (*models.PurchaseOrder, error) {
	po, err := repo.GetPO(ctx, id)
	if err != nil {
		return nil, storeErr(err, "purchase order", id)
	}
	if !po.HasParticipant(actor.ID) {
		return nil, models.Forbidden("purchase order %s is not yours", id)
	}
	return po, nil
}

func (e *Engine) GetPO(ctx context.Context, actor models.User, id string) (*models.POView, error) {
	if err := authorize(actor, OpGetPO); err != nil {
		return nil, err
	}
	po, err := participantPO(ctx, e.store, actor, id)
	if err != nil {
		return nil, err
	}
	return e.poView(ctx, map[string]*models.Party{}, *po)
}

func (e *Engine) ListPOsForUser(ctx context.Context, actor models.User) ([]models.POView, error) {
	if err := authorize(actor, OpListPOs); err != nil {
		return nil, err
	}
	pos, err := e.store.ListPOsByParty(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err, "purchase order", "")
	}

	parties := map[string]*models.Party{}
	out := make([]models.POView, 0, len(pos))
	for _, po := range pos {
		view, err := e.poView(ctx, parties, po)
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, nil
}

func (e *Engine) poView(ctx context.Context, parties map[string]*models.Party, po models.PurchaseOrder) (*models.POView, error) {
	view := &models.POView{PurchaseOrder: po}
	var err error
	if view.Manufacturer, err = e.lookupParty(ctx, e.store, parties, po.ManufacturerID); err != nil {
		return nil, err
	}
	if view.Supplier, err = e.lookupParty(ctx, e.store, parties, po.SupplierID); err != nil {
		return nil, err
	}

	bid, err := e.store.GetBid(ctx, po.BidID)
	switch {
	case err == nil:
		view.Bid = bid
	case !errors.Is(err, models.ErrRecordNotFound):
		return nil, storeErr(err, "bid", po.BidID)
	}
	rfq, err := e.store.GetRFQ(ctx, po.RFQID)
	switch {
	case err == nil:
		view.RFQ = rfq
	case !errors.Is(err, models.ErrRecordNotFound):
		return nil, storeErr(err, "rfq", po.RFQID)
	}
	return view, nil
}

// MarkDelivered доступен поставщику по заказу. Закрытый заказ не меняется.
func (e *Engine) MarkDelivered(ctx context.Context, actor models.User, id string) (*models.PurchaseOrder, error) {
	if err := authorize(actor, OpMarkDelivered); err != nil {
		return nil, err
	}

	var delivered *models.PurchaseOrder
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		po, err := repo.GetPOForUpdate(ctx, id)
		if err != nil {
			return storeErr(err, "purchase order", id)
		}
		if po.SupplierID != actor.ID {
			return models.Forbidden("only the supplier can mark purchase order %s delivered", id)
		}
		if po.Status == models.POClosed {
			return models.Conflict("purchase order %s is closed", id)
		}
		if err := repo.UpdatePOStatus(ctx, id, models.PODelivered); err != nil {
			return storeErr(err, "purchase order", id)
		}
		po.Status = models.PODelivered
		delivered = po
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "purchase order", id)
	}
	e.logger.Info("purchase order delivered", zap.String("po_id", id))
	return delivered, nil
}

// PODocument проекция заказа для рендера, только для сторон заказа
func (e *Engine) PODocument(ctx context.Context, actor models.User, id string) (*models.Document, error) {
	if err := authorize(actor, OpRenderPO); err != nil {
		return nil, err
	}
	po, err := participantPO(ctx, e.store, actor, id)
	if err != nil {
		return nil, err
	}
	doc := &models.Document{
		Kind:        models.DocumentPO,
		ID:          po.ID,
		POID:        po.ID,
		IssuedAt:    po.CreatedAt,
		Items:       po.Items,
		TotalAmount: po.TotalAmount,
		Status:      string(po.Status),
	}
	if err := e.fillDocument(ctx, doc, po); err != nil {
		return nil, err
	}
	return doc, nil
}

func (e *Engine) fillDocument(ctx context.Context, doc *models.Document, po *models.PurchaseOrder) error {
	parties := map[string]*models.Party{}
	for _, side := range []struct {
		id   string
		dest *models.Party
	}{
		{po.ManufacturerID, &doc.Manufacturer},
		{po.SupplierID, &doc.Supplier},
	} {
		p, err := e.lookupParty(ctx, e.store, parties, side.id)
		if err != nil {
			return err
		}
		if p == nil {
			p = &models.Party{ID: side.id}
		}
		*side.dest = *p
	}

	rfq, err := e.store.GetRFQ(ctx, po.RFQID)
	switch {
	case err == nil:
		doc.Title = rfq.Title
	case errors.Is(err, models.ErrRecordNotFound):
		if len(po.Items) > 0 {
			doc.Title = po.Items[0].Description
		}
	default:
		return storeErr(err, "rfq", po.RFQID)
	}
	return nil
}
