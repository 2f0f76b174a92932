package models

import "github.com/shopspring/decimal"

type CreateRFQRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Quantity    int    `json:"quantity" validate:"gt=0,lte=1000000000"`
	// RFC3339 или 2006-01-02
	Deadline string `json:"deadline" validate:"required"`
}

// SubmitBidRequest: итог считается на сервере, поле total от клиента игнорируется
type SubmitBidRequest struct {
	UnitPrice    *decimal.Decimal `json:"unitPrice" validate:"required"`
	DeliveryDays int              `json:"deliveryDays" validate:"gt=0,lte=3650"`
}

type SubmitInvoiceRequest struct {
	POID        string           `json:"poId" validate:"required"`
	Items       []LineItem       `json:"items" validate:"required,min=1,dive"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=manufacturer supplier"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
