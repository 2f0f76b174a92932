package workflow

import (
	"context"

	"procurement/models"
)

// Repository операции хранилища над сущностями процесса закупки.
// Идентификаторы и метки времени проставляет хранилище.
type Repository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateRFQ(ctx context.Context, rfq *models.RFQ) error
	GetRFQ(ctx context.Context, id string) (*models.RFQ, error)
	// GetRFQForUpdate блокирует строку RFQ до конца транзакции
	GetRFQForUpdate(ctx context.Context, id string) (*models.RFQ, error)
	ListRFQsByStatus(ctx context.Context, status models.RFQStatus) ([]models.RFQ, error)
	ListRFQsByManufacturer(ctx context.Context, manufacturerID string) ([]models.RFQ, error)
	UpdateRFQStatus(ctx context.Context, id string, status models.RFQStatus) error
	DeleteRFQ(ctx context.Context, id string) error

	CreateBid(ctx context.Context, bid *models.Bid) error
	GetBid(ctx context.Context, id string) (*models.Bid, error)
	// ListBidsByRFQ возвращает предложения в порядке подачи
	ListBidsByRFQ(ctx context.Context, rfqID string) ([]models.Bid, error)
	ListBidsBySupplier(ctx context.Context, supplierID string) ([]models.Bid, error)
	ListSelectedBidsByManufacturer(ctx context.Context, manufacturerID string) ([]models.Bid, error)
	ListSelectedBidsBySupplier(ctx context.Context, supplierID string) ([]models.Bid, error)
	UpdateBidStatus(ctx context.Context, id string, status models.BidStatus) error
	RejectOtherBids(ctx context.Context, rfqID, keepBidID string) error
	SetBidPO(ctx context.Context, bidID, poID string) error

	CreatePO(ctx context.Context, po *models.PurchaseOrder) error
	GetPO(ctx context.Context, id string) (*models.PurchaseOrder, error)
	GetPOForUpdate(ctx context.Context, id string) (*models.PurchaseOrder, error)
	ListPOsByParty(ctx context.Context, userID string) ([]models.PurchaseOrder, error)
	UpdatePOStatus(ctx context.Context, id string, status models.POStatus) error
	SetPOInvoice(ctx context.Context, poID, invoiceID string) error

	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	ListInvoicesByManufacturer(ctx context.Context, manufacturerID string) ([]models.Invoice, error)
	ListInvoicesBySupplier(ctx context.Context, supplierID string) ([]models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) error
}

// Store хранилище с поддержкой транзакций.
// InTx фиксирует изменения fn, если она вернула nil, иначе откатывает их.
type Store interface {
	Repository
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
