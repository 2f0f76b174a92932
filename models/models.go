package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type (
	Role          string
	RFQStatus     string
	BidStatus     string
	POStatus      string
	InvoiceStatus string
)

const (
	RoleManufacturer Role = "manufacturer"
	RoleSupplier     Role = "supplier"

	RFQOpen   RFQStatus = "open"
	RFQClosed RFQStatus = "closed"

	BidPending     BidStatus = "PENDING"
	BidRecommended BidStatus = "RECOMMENDED"
	BidSelected    BidStatus = "SELECTED" // выигравшее предложение, не более одного на RFQ
	BidRejected    BidStatus = "REJECTED"

	POIssued    POStatus = "issued"
	PODelivered POStatus = "delivered"
	POClosed    POStatus = "closed"

	InvoicePending  InvoiceStatus = "pending"
	InvoiceApproved InvoiceStatus = "approved"
	InvoiceDisputed InvoiceStatus = "disputed"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManufacturer, RoleSupplier:
		return true
	default:
		return false
	}
}

// Сущность Пользователя
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Party минимальная проекция пользователя для связанных сущностей
type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Party() *Party {
	return &Party{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Сущность Запроса цен (RFQ)
type RFQ struct {
	ID             string    `db:"id" json:"id"`
	ManufacturerID string    `db:"manufacturer_id" json:"manufacturerId"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Deadline       time.Time `db:"deadline" json:"deadline"`
	Status         RFQStatus `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Сущность Предложения поставщика
type Bid struct {
	ID           string          `db:"id" json:"id"`
	RFQID        string          `db:"rfq_id" json:"rfqId"`
	SupplierID   string          `db:"supplier_id" json:"supplierId"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unitPrice"`
	DeliveryDays int             `db:"delivery_days" json:"deliveryDays"`
	Total        decimal.Decimal `db:"total" json:"total"`
	Status       BidStatus       `db:"status" json:"status"`
	POID         *string         `db:"po_id" json:"poId,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

// LineItem строка заказа или счёта
type LineItem struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    int             `json:"quantity" validate:"gt=0,lte=1000000000"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// LineItems хранится в JSONB колонке
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *LineItems) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("line items: unsupported source type %T", src)
	}
	return json.Unmarshal(raw, l)
}

// Сущность Заказа на поставку (PO)
type PurchaseOrder struct {
	ID             string          `db:"id" json:"id"`
	ManufacturerID string          `db:"manufacturer_id" json:"manufacturerId"`
	SupplierID     string          `db:"supplier_id" json:"supplierId"`
	RFQID          string          `db:"rfq_id" json:"rfqId"`
	BidID          string          `db:"bid_id" json:"bidId"`
	Items          LineItems       `db:"items" json:"items"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status         POStatus        `db:"status" json:"status"`
	InvoiceID      *string         `db:"invoice_id" json:"invoiceId,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

func (po PurchaseOrder) HasParticipant(userID string) bool {
	return po.ManufacturerID == userID || po.SupplierID == userID
}

// Сущность Счёта
type Invoice struct {
	ID             string          `db:"id" json:"id"`
	POID           string          `db:"po_id" json:"poId"`
	SupplierID     string          `db:"supplier_id" json:"supplierId"`
	ManufacturerID string          `db:"manufacturer_id" json:"manufacturerId"`
	Items          LineItems       `db:"items" json:"items"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}
