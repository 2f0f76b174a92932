package workflow

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"procurement/models"
)

// SubmitInvoice один счёт на заказ, выставляет только поставщик заказа
func (e *Engine) SubmitInvoice(ctx context.Context, actor models.User, req models.SubmitInvoiceRequest) (*models.Invoice, error) {
	if err := authorize(actor, OpSubmitInvoice); err != nil {
		return nil, err
	}
	if len(req.Items) > 0 {
		items := make([]models.LineItem, len(req.Items))
		for i, item := range req.Items {
			item.Description = strings.TrimSpace(item.Description)
			items[i] = item
		}
		req.Items = items
	}
	if err := e.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.TotalAmount.IsNegative() {
		return nil, models.Validation("totalAmount must not be negative")
	}
	for i, item := range req.Items {
		if item.UnitPrice.IsNegative() {
			return nil, models.Validation("items[%d].unitPrice must not be negative", i)
		}
	}

	var inv *models.Invoice
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		po, err := repo.GetPOForUpdate(ctx, req.POID)
		if err != nil {
			return storeErr(err, "purchase order", req.POID)
		}
		if po.SupplierID != actor.ID {
			return models.Forbidden("only the supplier of purchase order %s can invoice it", po.ID)
		}
		if po.InvoiceID != nil {
			return models.Conflict("purchase order %s already has invoice %s", po.ID, *po.InvoiceID)
		}

		inv = &models.Invoice{
			POID:           po.ID,
			SupplierID:     po.SupplierID,
			ManufacturerID: po.ManufacturerID,
			Items:          models.LineItems(req.Items),
			TotalAmount:    *req.TotalAmount,
			Status:         models.InvoicePending,
		}
		if err := repo.CreateInvoice(ctx, inv); err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				return models.Conflict("purchase order %s already has an invoice", po.ID)
			}
			return storeErr(err, "invoice", "")
		}
		return storeErr(repo.SetPOInvoice(ctx, po.ID, inv.ID), "purchase order", po.ID)
	})
	if err != nil {
		return nil, storeErr(err, "purchase order", req.POID)
	}
	e.logger.Info("invoice submitted",
		zap.String("invoice_id", inv.ID),
		zap.String("po_id", inv.POID),
		zap.Stringer("total", inv.TotalAmount))
	return inv, nil
}

// manufacturerInvoice загружает счёт и заблокированный PO, проверяет заказчика
func manufacturerInvoice(ctx context.Context, repo Repository, actor models.User, id string) (*models.Invoice, *models.PurchaseOrder, error) {
	inv, err := repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, nil, storeErr(err, "invoice", id)
	}
	po, err := repo.GetPOForUpdate(ctx, inv.POID)
	if err != nil {
		return nil, nil, storeErr(err, "purchase order", inv.POID)
	}
	if po.ManufacturerID != actor.ID {
		return nil, nil, models.Forbidden("invoice %s is addressed to another manufacturer", id)
	}
	return inv, po, nil
}

// VerifyInvoice approved только при точном совпадении суммы с суммой PO.
// Одобренный счёт закрывает заказ.
func (e *Engine) VerifyInvoice(ctx context.Context, actor models.User, id string) (*models.Invoice, error) {
	if err := authorize(actor, OpVerifyInvoice); err != nil {
		return nil, err
	}

	var verified *models.Invoice
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		inv, po, err := manufacturerInvoice(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		status := reconcile(inv.TotalAmount, po.TotalAmount)
		if err := repo.UpdateInvoiceStatus(ctx, id, status); err != nil {
			return storeErr(err, "invoice", id)
		}
		if status == models.InvoiceApproved && po.Status != models.POClosed {
			if err := repo.UpdatePOStatus(ctx, po.ID, models.POClosed); err != nil {
				return storeErr(err, "purchase order", po.ID)
			}
		}
		inv.Status = status
		verified = inv
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "invoice", id)
	}
	e.logger.Info("invoice verified",
		zap.String("invoice_id", id),
		zap.String("po_id", verified.POID),
		zap.String("status", string(verified.Status)))
	return verified, nil
}

// DisputeInvoice одобренный счёт оспорить нельзя
func (e *Engine) DisputeInvoice(ctx context.Context, actor models.User, id string) (*models.Invoice, error) {
	if err := authorize(actor, OpDisputeInvoice); err != nil {
		return nil, err
	}

	var disputed *models.Invoice
	err := e.store.InTx(ctx, func(ctx context.Context, repo Repository) error {
		inv, _, err := manufacturerInvoice(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if inv.Status == models.InvoiceApproved {
			return models.Conflict("invoice %s is approved and cannot be disputed", id)
		}
		if err := repo.UpdateInvoiceStatus(ctx, id, models.InvoiceDisputed); err != nil {
			return storeErr(err, "invoice", id)
		}
		inv.Status = models.InvoiceDisputed
		disputed = inv
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "invoice", id)
	}
	e.logger.Info("invoice disputed", zap.String("invoice_id", id))
	return disputed, nil
}

// ListInvoicesForUser зависит от роли. Счета без существующего PO со стороной actor отбрасываются.
func (e *Engine) ListInvoicesForUser(ctx context.Context, actor models.User) ([]models.InvoiceView, error) {
	if err := authorize(actor, OpListInvoices); err != nil {
		return nil, err
	}

	var (
		invoices []models.Invoice
		err      error
		owns     func(po *models.PurchaseOrder) bool
	)
	switch actor.Role {
	case models.RoleManufacturer:
		invoices, err = e.store.ListInvoicesByManufacturer(ctx, actor.ID)
		owns = func(po *models.PurchaseOrder) bool { return po.ManufacturerID == actor.ID }
	case models.RoleSupplier:
		invoices, err = e.store.ListInvoicesBySupplier(ctx, actor.ID)
		owns = func(po *models.PurchaseOrder) bool { return po.SupplierID == actor.ID }
	default:
		return nil, models.Forbidden("role %q cannot list invoices", actor.Role)
	}
	if err != nil {
		return nil, storeErr(err, "invoice", "")
	}

	parties := map[string]*models.Party{}
	out := make([]models.InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		po, err := e.store.GetPO(ctx, inv.POID)
		if errors.Is(err, models.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, storeErr(err, "purchase order", inv.POID)
		}
		if !owns(po) {
			continue
		}
		view := models.InvoiceView{
			Invoice: inv,
			PO:      &models.POSummary{ID: po.ID, TotalAmount: po.TotalAmount, Status: po.Status},
		}
		if view.Manufacturer, err = e.lookupParty(ctx, e.store, parties, inv.ManufacturerID); err != nil {
			return nil, err
		}
		if view.Supplier, err = e.lookupParty(ctx, e.store, parties, inv.SupplierID); err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// InvoiceDocument проекция счёта для рендера, только для поставщика и заказчика счёта
func (e *Engine) InvoiceDocument(ctx context.Context, actor models.User, id string) (*models.Document, error) {
	if err := authorize(actor, OpRenderInvoice); err != nil {
		return nil, err
	}
	inv, err := e.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, storeErr(err, "invoice", id)
	}
	if inv.SupplierID != actor.ID && inv.ManufacturerID != actor.ID {
		return nil, models.Forbidden("invoice %s is not yours", id)
	}
	po, err := e.store.GetPO(ctx, inv.POID)
	if err != nil {
		return nil, storeErr(err, "purchase order", inv.POID)
	}

	doc := &models.Document{
		Kind:        models.DocumentInvoice,
		ID:          inv.ID,
		POID:        inv.POID,
		IssuedAt:    inv.CreatedAt,
		Items:       inv.Items,
		TotalAmount: inv.TotalAmount,
		Status:      string(inv.Status),
	}
	if err := e.fillDocument(ctx, doc, po); err != nil {
		return nil, err
	}
	return doc, nil
}
