// Package memstore хранит данные процесса закупки в памяти.
// Используется для локального запуска и в тестах.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement/internal/workflow"
	"procurement/models"
)

// Store один мьютекс на всё состояние, транзакции через снимок и откат
type Store struct {
	mu sync.Mutex
	st *state
}

var (
	_ workflow.Store      = (*Store)(nil)
	_ workflow.Repository = (*state)(nil)
)

func New() *Store {
	return &Store{st: &state{now: func() time.Time { return time.Now().UTC() }}}
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repo workflow.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(ctx, s.st); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func locked[T any](s *Store, fn func(st *state) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func lockedErr(s *Store, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// state порядок в срезах совпадает с порядком вставки
type state struct {
	now      func() time.Time
	users    []models.User
	rfqs     []models.RFQ
	bids     []models.Bid
	orders   []models.PurchaseOrder
	invoices []models.Invoice
}

func (st *state) clone() *state {
	return &state{
		now:      st.now,
		users:    slices.Clone(st.users),
		rfqs:     slices.Clone(st.rfqs),
		bids:     slices.Clone(st.bids),
		orders:   slices.Clone(st.orders),
		invoices: slices.Clone(st.invoices),
	}
}

func find[T any](items []T, match func(*T) bool) (int, bool) {
	for i := range items {
		if match(&items[i]) {
			return i, true
		}
	}
	return -1, false
}

func filter[T any](items []T, match func(*T) bool, newestFirst bool) []T {
	out := []T{}
	for i := range items {
		if match(&items[i]) {
			out = append(out, items[i])
		}
	}
	if newestFirst {
		slices.Reverse(out)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// Пользователи

func (st *state) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := find(st.users, func(x *models.User) bool { return x.Email == u.Email }); ok {
		return fmt.Errorf("%w: users_email_key", models.ErrDuplicate)
	}
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = st.now(), st.now()
	st.users = append(st.users, *u)
	return nil
}

func (st *state) GetUser(_ context.Context, id string) (*models.User, error) {
	i, ok := find(st.users, func(x *models.User) bool { return x.ID == id })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return ptr(st.users[i]), nil
}

func (st *state) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	i, ok := find(st.users, func(x *models.User) bool { return x.Email == email })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return ptr(st.users[i]), nil
}

// RFQ

func (st *state) CreateRFQ(_ context.Context, rfq *models.RFQ) error {
	rfq.ID = uuid.NewString()
	rfq.CreatedAt, rfq.UpdatedAt = st.now(), st.now()
	st.rfqs = append(st.rfqs, *rfq)
	return nil
}

func (st *state) GetRFQ(_ context.Context, id string) (*models.RFQ, error) {
	i, ok := find(st.rfqs, func(x *models.RFQ) bool { return x.ID == id })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return ptr(st.rfqs[i]), nil
}

func (st *state) GetRFQForUpdate(ctx context.Context, id string) (*models.RFQ, error) {
	return st.GetRFQ(ctx, id)
}

func (st *state) ListRFQsByStatus(_ context.Context, status models.RFQStatus) ([]models.RFQ, error) {
	return filter(st.rfqs, func(x *models.RFQ) bool { return x.Status == status }, true), nil
}

func (st *state) ListRFQsByManufacturer(_ context.Context, manufacturerID string) ([]models.RFQ, error) {
	return filter(st.rfqs, func(x *models.RFQ) bool { return x.ManufacturerID == manufacturerID }, true), nil
}

func (st *state) UpdateRFQStatus(_ context.Context, id string, status models.RFQStatus) error {
	i, ok := find(st.rfqs, func(x *models.RFQ) bool { return x.ID == id })
	if !ok {
		return models.ErrRecordNotFound
	}
	st.rfqs[i].Status = status
	st.rfqs[i].UpdatedAt = st.now()
	return nil
}

func (st *state) DeleteRFQ(_ context.Context, id string) error {
	i, ok := find(st.rfqs, func(x *models.RFQ) bool { return x.ID == id })
	if !ok {
		return models.ErrRecordNotFound
	}
	st.rfqs = slices.Delete(st.rfqs, i, i+1)
	return nil
}

// Предложения

func (st *state) CreateBid(_ context.Context, bid *models.Bid) error {
	bid.ID = uuid.NewString()
	bid.CreatedAt, bid.UpdatedAt = st.now(), st.now()
	st.bids = append(st.bids, *bid)
	return nil
}

func (st *state) GetBid(_ context.Context, id string) (*models.Bid, error) {
	i, ok := find(st.bids, func(x *models.Bid) bool { return x.ID == id })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return ptr(st.bids[i]), nil
}

func (st *state) ListBidsByRFQ(_ context.Context, rfqID string) ([]models.Bid, error) {
	return filter(st.bids, func(x *models.Bid) bool { return x.RFQID == rfqID }, false), nil
}

func (st *state) ListBidsBySupplier(_ context.Context, supplierID string) ([]models.Bid, error) {
	return filter(st.bids, func(x *models.Bid) bool { return x.SupplierID == supplierID }, true), nil
}

func (st *state) ListSelectedBidsByManufacturer(_ context.Context, manufacturerID string) ([]models.Bid, error) {
	return filter(st.bids, func(x *models.Bid) bool {
		if x.Status != models.BidSelected {
			return false
		}
		_, ok := find(st.orders, func(po *models.PurchaseOrder) bool {
			return po.BidID == x.ID && po.ManufacturerID == manufacturerID
		})
		return ok
	}, true), nil
}

func (st *state) ListSelectedBidsBySupplier(_ context.Context, supplierID string) ([]models.Bid, error) {
	return filter(st.bids, func(x *models.Bid) bool {
		return x.Status == models.BidSelected && x.SupplierID == supplierID
	}, true), nil
}

func (st *state) UpdateBidStatus(_ context.Context, id string, status models.BidStatus) error {
	i, ok := find(st.bids, func(x *models.Bid) bool { return x.ID == id })
	if !ok {
		return models.ErrRecordNotFound
	}
	if status == models.BidSelected {
		rfqID := st.bids[i].RFQID
		if _, dup := find(st.bids, func(x *models.Bid) bool {
			return x.RFQID == rfqID && x.ID != id && x.Status == models.BidSelected
		}); dup {
			return fmt.Errorf("%w: bids_one_selected_per_rfq", models.ErrDuplicate)
		}
	}
	st.bids[i].Status = status
	st.bids[i].UpdatedAt = st.now()
	return nil
}

func (st *state) RejectOtherBids(_ context.Context, rfqID, keepBidID string) error {
	for i := range st.bids {
		if st.bids[i].RFQID == rfqID && st.bids[i].ID != keepBidID {
			st.bids[i].Status = models.BidRejected
			st.bids[i].UpdatedAt = st.now()
		}
	}
	return nil
}

func (st *state) SetBidPO(_ context.Context, bidID, poID string) error {
	i, ok := find(st.bids, func(x *models.Bid) bool { return x.ID == bidID })
	if !ok {
		return models.ErrRecordNotFound
	}
	st.bids[i].POID = ptr(poID)
	st.bids[i].UpdatedAt = st.now()
	return nil
}

// Заказы

func (st *state) CreatePO(_ context.Context, po *models.PurchaseOrder) error {
	if _, dup := find(st.orders, func(x *models.PurchaseOrder) bool { return x.BidID == po.BidID }); dup {
		return fmt.Errorf("%w: purchase_orders_bid_id_key", models.ErrDuplicate)
	}
	po.ID = uuid.NewString()
	po.CreatedAt, po.UpdatedAt = st.now(), st.now()
	st.orders = append(st.orders, *po)
	return nil
}

func (st *state) GetPO(_ context.Context, id string) (*models.PurchaseOrder, error) {
	i, ok := find(st.orders, func(x *models.PurchaseOrder) bool { return x.ID == id })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return ptr(st.orders[i]), nil
}

func (st *state) GetPOForUpdate(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return st.GetPO(ctx, id)
}

func (st *state) ListPOsByParty(_ context.Context, userID string) ([]models.PurchaseOrder, error) {
	return filter(st.orders, func(x *models.PurchaseOrder) bool { return x.HasParticipant(userID) }, true), nil
}

func (st *state) UpdatePOStatus(_ context.Context, id string, status models.POStatus) error {
	i, ok := find(st.orders, func(x *models.PurchaseOrder) bool { return x.ID == id })
	if !ok {
		return models.ErrRecordNotFound
	}
	st.orders[i].Status = status
	st.orders[i].UpdatedAt = st.now()
	return nil
}

func (st *state) SetPOInvoice(_ context.Context, poID, invoiceID string) error {
	i, ok := find(st.orders, func(x *models.PurchaseOrder) bool { return x.ID == poID })
	if !ok {
		return models.ErrRecordNotFound
	}
	st.orders[i].InvoiceID = ptr(invoiceID)
	st.orders[i].UpdatedAt = st.now()
	return nil
}

// Счета

func (st *state) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	if _, dup := find(st.invoices, func(x *models.Invoice) bool { return x.POID == inv.POID }); dup {
		return fmt.Errorf("%w: invoices_po_id_key", models.ErrDuplicate)
	}
	inv.ID = uuid.NewString()
	inv.CreatedAt, inv.UpdatedAt = st.now(), st.now()
	st.invoices = append(st.invoices, *inv)
	return nil
}

func (st *state) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	i, ok := find(st.invoices, func(x *models.Invoice) bool { return x.ID == id })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return ptr(st.invoices[i]), nil
}

func (st *state) ListInvoicesByManufacturer(_ context.Context, manufacturerID string) ([]models.Invoice, error) {
	return filter(st.invoices, func(x *models.Invoice) bool { return x.ManufacturerID == manufacturerID }, true), nil
}

func (st *state) ListInvoicesBySupplier(_ context.Context, supplierID string) ([]models.Invoice, error) {
	return filter(st.invoices, func(x *models.Invoice) bool { return x.SupplierID == supplierID }, true), nil
}

func (st *state) UpdateInvoiceStatus(_ context.Context, id string, status models.InvoiceStatus) error {
	i, ok := find(st.invoices, func(x *models.Invoice) bool { return x.ID == id })
	if !ok {
		return models.ErrRecordNotFound
	}
	st.invoices[i].Status = status
	st.invoices[i].UpdatedAt = st.now()
	return nil
}
