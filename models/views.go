package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Проекции для чтения: связанные сущности подставляются по идентификатору

type RFQView struct {
	RFQ
	Manufacturer *Party `json:"manufacturer,omitempty"`
}

type InvoiceSummary struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      InvoiceStatus   `json:"status"`
}

type POSummary struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      POStatus        `json:"status"`
	Invoice     *InvoiceSummary `json:"invoice,omitempty"`
}

type BidView struct {
	Bid
	Supplier *Party     `json:"supplier,omitempty"`
	RFQ      *RFQView   `json:"rfq,omitempty"`
	PO       *POSummary `json:"purchaseOrder,omitempty"`
}

type POView struct {
	PurchaseOrder
	Manufacturer *Party `json:"manufacturer,omitempty"`
	Supplier     *Party `json:"supplier,omitempty"`
	Bid          *Bid   `json:"bid,omitempty"`
	RFQ          *RFQ   `json:"rfq,omitempty"`
}

type InvoiceView struct {
	Invoice
	PO           *POSummary `json:"purchaseOrder,omitempty"`
	Manufacturer *Party     `json:"manufacturer,omitempty"`
	Supplier     *Party     `json:"supplier,omitempty"`
}

type DocumentKind string

const (
	DocumentPO      DocumentKind = "PO"
	DocumentInvoice DocumentKind = "Invoice"
)

// Document неизменяемая проекция PO или счёта для рендера
type Document struct {
	Kind         DocumentKind
	ID           string
	POID         string
	Title        string
	Manufacturer Party
	Supplier     Party
	IssuedAt     time.Time
	Items        []LineItem
	TotalAmount  decimal.Decimal
	Status       string
}
