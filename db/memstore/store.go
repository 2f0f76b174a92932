package memstore

import (
	"context"

	"procurement/models"
)

// Методы Store вне транзакции: каждый вызов под мьютексом

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return lockedErr(s, func(st *state) error { return st.CreateUser(ctx, u) })
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return locked(s, func(st *state) (*models.User, error) { return st.GetUser(ctx, id) })
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return locked(s, func(st *state) (*models.User, error) { return st.GetUserByEmail(ctx, email) })
}

func (s *Store) CreateRFQ(ctx context.Context, rfq *models.RFQ) error {
	return lockedErr(s, func(st *state) error { return st.CreateRFQ(ctx, rfq) })
}

func (s *Store) GetRFQ(ctx context.Context, id string) (*models.RFQ, error) {
	return locked(s, func(st *state) (*models.RFQ, error) { return st.GetRFQ(ctx, id) })
}

func (s *Store) GetRFQForUpdate(ctx context.Context, id string) (*models.RFQ, error) {
	return locked(s, func(st *state) (*models.RFQ, error) { return st.GetRFQForUpdate(ctx, id) })
}

func (s *Store) ListRFQsByStatus(ctx context.Context, status models.RFQStatus) ([]models.RFQ, error) {
	return locked(s, func(st *state) ([]models.RFQ, error) { return st.ListRFQsByStatus(ctx, status) })
}

func (s *Store) ListRFQsByManufacturer(ctx context.Context, manufacturerID string) ([]models.RFQ, error) {
	return locked(s, func(st *state) ([]models.RFQ, error) { return st.ListRFQsByManufacturer(ctx, manufacturerID) })
}

func (s *Store) UpdateRFQStatus(ctx context.Context, id string, status models.RFQStatus) error {
	return lockedErr(s, func(st *state) error { return st.UpdateRFQStatus(ctx, id, status) })
}

func (s *Store) DeleteRFQ(ctx context.Context, id string) error {
	return lockedErr(s, func(st *state) error { return st.DeleteRFQ(ctx, id) })
}

func (s *Store) CreateBid(ctx context.Context, bid *models.Bid) error {
	return lockedErr(s, func(st *state) error { return st.CreateBid(ctx, bid) })
}

func (s *Store) GetBid(ctx context.Context, id string) (*models.Bid, error) {
	return locked(s, func(st *state) (*models.Bid, error) { return st.GetBid(ctx, id) })
}

func (s *Store) ListBidsByRFQ(ctx context.Context, rfqID string) ([]models.Bid, error) {
	return locked(s, func(st *state) ([]models.Bid, error) { return st.ListBidsByRFQ(ctx, rfqID) })
}

func (s *Store) ListBidsBySupplier(ctx context.Context, supplierID string) ([]models.Bid, error) {
	return locked(s, func(st *state) ([]models.Bid, error) { return st.ListBidsBySupplier(ctx, supplierID) })
}

func (s *Store) ListSelectedBidsByManufacturer(ctx context.Context, manufacturerID string) ([]models.Bid, error) {
	return locked(s, func(st *state) ([]models.Bid, error) { return st.ListSelectedBidsByManufacturer(ctx, manufacturerID) })
}

func (s *Store) ListSelectedBidsBySupplier(ctx context.Context, supplierID string) ([]models.Bid, error) {
	return locked(s, func(st *state) ([]models.Bid, error) { return st.ListSelectedBidsBySupplier(ctx, supplierID) })
}

func (s *Store) UpdateBidStatus(ctx context.Context, id string, status models.BidStatus) error {
	return lockedErr(s, func(st *state) error { return st.UpdateBidStatus(ctx, id, status) })
}

func (s *Store) RejectOtherBids(ctx context.Context, rfqID, keepBidID string) error {
	return lockedErr(s, func(st *state) error { return st.RejectOtherBids(ctx, rfqID, keepBidID) })
}

func (s *Store) SetBidPO(ctx context.Context, bidID, poID string) error {
	return lockedErr(s, func(st *state) error { return st.SetBidPO(ctx, bidID, poID) })
}

func (s *Store) CreatePO(ctx context.Context, po *models.PurchaseOrder) error {
	return lockedErr(s, func(st *state) error { return st.CreatePO(ctx, po) })
}

func (s *Store) GetPO(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return locked(s, func(st *state) (*models.PurchaseOrder, error) { return st.GetPO(ctx, id) })
}

func (s *Store) GetPOForUpdate(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return locked(s, func(st *state) (*models.PurchaseOrder, error) { return st.GetPOForUpdate(ctx, id) })
}

func (s *Store) ListPOsByParty(ctx context.Context, userID string) ([]models.PurchaseOrder, error) {
	return locked(s, func(st *state) ([]models.PurchaseOrder, error) { return st.ListPOsByParty(ctx, userID) })
}

func (s *Store) UpdatePOStatus(ctx context.Context, id string, status models.POStatus) error {
	return lockedErr(s, func(st *state) error { return st.UpdatePOStatus(ctx, id, status) })
}

func (s *Store) SetPOInvoice(ctx context.Context, poID, invoiceID string) error {
	return lockedErr(s, func(st *state) error { return st.SetPOInvoice(ctx, poID, invoiceID) })
}

func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	return lockedErr(s, func(st *state) error { return st.CreateInvoice(ctx, inv) })
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return locked(s, func(st *state) (*models.Invoice, error) { return st.GetInvoice(ctx, id) })
}

func (s *Store) ListInvoicesByManufacturer(ctx context.Context, manufacturerID string) ([]models.Invoice, error) {
	return locked(s, func(st *state) ([]models.Invoice, error) { return st.ListInvoicesByManufacturer(ctx, manufacturerID) })
}

func (s *Store) ListInvoicesBySupplier(ctx context.Context, supplierID string) ([]models.Invoice, error) {
	return locked(s, func(st *state) ([]models.Invoice, error) { return st.ListInvoicesBySupplier(ctx, supplierID) })
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) error {
	return lockedErr(s, func(st *state) error { return st.UpdateInvoiceStatus(ctx, id, status) })
}
