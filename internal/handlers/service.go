package handlers

import (
	"context"

	"procurement/internal/render"
	"procurement/models"
)

// Workflow операции процесса закупки, их реализует workflow.Engine
type Workflow interface {
	CreateRFQ(ctx context.Context, actor models.User, req models.CreateRFQRequest) (*models.RFQ, error)
	ListOpenRFQs(ctx context.Context, actor models.User) ([]models.RFQView, error)
	ListOwnedRFQs(ctx context.Context, actor models.User) ([]models.RFQ, error)
	GetRFQ(ctx context.Context, actor models.User, id string) (*models.RFQView, error)
	CloseRFQ(ctx context.Context, actor models.User, id string) (*models.RFQ, error)
	DeleteRFQ(ctx context.Context, actor models.User, id string) error

	SubmitBid(ctx context.Context, actor models.User, rfqID string, req models.SubmitBidRequest) (*models.Bid, error)
	ListBidsForRFQ(ctx context.Context, actor models.User, rfqID string) ([]models.BidView, error)
	ListMyBids(ctx context.Context, actor models.User) ([]models.BidView, error)
	RecommendBestBid(ctx context.Context, actor models.User, rfqID string) (*models.BidView, error)
	SelectBid(ctx context.Context, actor models.User, bidID string) (*models.PurchaseOrder, error)
	RejectBid(ctx context.Context, actor models.User, bidID string) (*models.Bid, error)
	ListAcceptedBids(ctx context.Context, actor models.User) ([]models.BidView, error)
	ListSelectedBidsForSupplier(ctx context.Context, actor models.User) ([]models.BidView, error)

	GetPO(ctx context.Context, actor models.User, id string) (*models.POView, error)
	ListPOsForUser(ctx context.Context, actor models.User) ([]models.POView, error)
	MarkDelivered(ctx context.Context, actor models.User, id string) (*models.PurchaseOrder, error)
	PODocument(ctx context.Context, actor models.User, id string) (*models.Document, error)

	SubmitInvoice(ctx context.Context, actor models.User, req models.SubmitInvoiceRequest) (*models.Invoice, error)
	VerifyInvoice(ctx context.Context, actor models.User, id string) (*models.Invoice, error)
	DisputeInvoice(ctx context.Context, actor models.User, id string) (*models.Invoice, error)
	ListInvoicesForUser(ctx context.Context, actor models.User) ([]models.InvoiceView, error)
	InvoiceDocument(ctx context.Context, actor models.User, id string) (*models.Document, error)
}

// Authenticator регистрация, вход и разбор bearer токена
type Authenticator interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type DocumentRenderer interface {
	Render(ctx context.Context, doc models.Document, format render.Format) (*render.Output, error)
}
