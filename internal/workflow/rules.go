package workflow

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"procurement/models"
)

// bidTotal итог предложения всегда считается на сервере
func bidTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// bestBid первое предложение с минимальным итогом, статус не важен
func bestBid(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	best := bids[0]
	for _, b := range bids[1:] {
		if b.Total.LessThan(best.Total) {
			best = b
		}
	}
	return best, true
}

// newPurchaseOrder строит заказ из выбранного предложения и его RFQ
func newPurchaseOrder(rfq *models.RFQ, bid *models.Bid) *models.PurchaseOrder {
	return &models.PurchaseOrder{
		ManufacturerID: rfq.ManufacturerID,
		SupplierID:     bid.SupplierID,
		RFQID:          rfq.ID,
		BidID:          bid.ID,
		Items: models.LineItems{{
			Description: rfq.Title,
			Quantity:    rfq.Quantity,
			UnitPrice:   bid.UnitPrice,
		}},
		TotalAmount: bid.Total,
		Status:      models.POIssued,
	}
}

// reconcile точное сравнение сумм, без допусков и округления
func reconcile(invoiceTotal, poTotal decimal.Decimal) models.InvoiceStatus {
	if invoiceTotal.Equal(poTotal) {
		return models.InvoiceApproved
	}
	return models.InvoiceDisputed
}

func selectedBid(bids []models.Bid) (models.Bid, bool) {
	for _, b := range bids {
		if b.Status == models.BidSelected {
			return b, true
		}
	}
	return models.Bid{}, false
}

// isOpenAt RFQ принимает предложения, пока открыт и срок не наступил
func isOpenAt(rfq *models.RFQ, now time.Time) bool {
	return rfq.Status == models.RFQOpen && rfq.Deadline.After(now)
}

var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
