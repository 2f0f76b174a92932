package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurement/internal/handlers"
	"procurement/internal/handlers/testutils"
	"procurement/internal/render"
	"procurement/models"
)

// MockWorkflow реализует Workflow, неописанные методы паникуют
type MockWorkflow struct {
	handlers.Workflow

	CreateRFQFunc    func(ctx context.Context, actor models.User, req models.CreateRFQRequest) (*models.RFQ, error)
	ListOpenRFQsFunc func(ctx context.Context, actor models.User) ([]models.RFQView, error)
	DeleteRFQFunc    func(ctx context.Context, actor models.User, id string) error
	SubmitBidFunc    func(ctx context.Context, actor models.User, rfqID string, req models.SubmitBidRequest) (*models.Bid, error)
	SelectBidFunc    func(ctx context.Context, actor models.User, bidID string) (*models.PurchaseOrder, error)
	PODocumentFunc   func(ctx context.Context, actor models.User, id string) (*models.Document, error)
}

func (m *MockWorkflow) CreateRFQ(ctx context.Context, actor models.User, req models.CreateRFQRequest) (*models.RFQ, error) {
	return m.CreateRFQFunc(ctx, actor, req)
}

func (m *MockWorkflow) ListOpenRFQs(ctx context.Context, actor models.User) ([]models.RFQView, error) {
	return m.ListOpenRFQsFunc(ctx, actor)
}

func (m *MockWorkflow) DeleteRFQ(ctx context.Context, actor models.User, id string) error {
	return m.DeleteRFQFunc(ctx, actor, id)
}

func (m *MockWorkflow) SubmitBid(ctx context.Context, actor models.User, rfqID string, req models.SubmitBidRequest) (*models.Bid, error) {
	return m.SubmitBidFunc(ctx, actor, rfqID, req)
}

func (m *MockWorkflow) SelectBid(ctx context.Context, actor models.User, bidID string) (*models.PurchaseOrder, error) {
	return m.SelectBidFunc(ctx, actor, bidID)
}

func (m *MockWorkflow) PODocument(ctx context.Context, actor models.User, id string) (*models.Document, error) {
	return m.PODocumentFunc(ctx, actor, id)
}

type MockRenderer struct {
	format render.Format
	doc    models.Document
}

func (m *MockRenderer) Render(_ context.Context, doc models.Document, format render.Format) (*render.Output, error) {
	m.doc, m.format = doc, format
	return &render.Output{Data: []byte("%PDF-mock"), ContentType: "application/pdf", Filename: "PO_" + doc.ID + ".pdf"}, nil
}

var (
	maker    = models.User{ID: "u-maker", Name: "Maker", Email: "maker@example.com", Role: models.RoleManufacturer}
	supplier = models.User{ID: "u-supplier", Name: "Supplier", Email: "supplier@example.com", Role: models.RoleSupplier}
)

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPingHandler(t *testing.T) {
	handler := handlers.NewHandler(&MockWorkflow{}, nil, nil, zap.NewNop())

	w := httptest.NewRecorder()
	handler.PingHandler(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	res := w.Result()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", readBody(t, res))
}

func TestCreateRFQHandler(t *testing.T) {
	var got models.CreateRFQRequest
	mock := &MockWorkflow{
		CreateRFQFunc: func(_ context.Context, actor models.User, req models.CreateRFQRequest) (*models.RFQ, error) {
			require.Equal(t, maker.ID, actor.ID)
			got = req
			return &models.RFQ{ID: "rfq-1", Title: req.Title, Quantity: req.Quantity, Status: models.RFQOpen}, nil
		},
	}
	handler := handlers.NewHandler(mock, nil, nil, zap.NewNop())

	reqBody := `{"title":"Steel rods","description":"Grade A","quantity":10,"deadline":"2099-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rfq", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = testutils.WithUser(req, maker)
	w := httptest.NewRecorder()

	handler.CreateRFQHandler(w, req)

	res := w.Result()
	body := readBody(t, res)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, body, "Steel rods")
	require.Equal(t, "2099-01-01", got.Deadline)
	require.Equal(t, 10, got.Quantity)
}

func TestCreateRFQHandlerBadJSON(t *testing.T) {
	handler := handlers.NewHandler(&MockWorkflow{}, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/rfq", strings.NewReader(`{"title":`))
	req = testutils.WithUser(req, maker)
	w := httptest.NewRecorder()

	handler.CreateRFQHandler(w, req)

	res := w.Result()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, readBody(t, res), "invalid JSON format")
}

func TestHandlerRequiresUser(t *testing.T) {
	handler := handlers.NewHandler(&MockWorkflow{}, nil, nil, zap.NewNop())

	w := httptest.NewRecorder()
	handler.ListOpenRFQsHandler(w, httptest.NewRequest(http.MethodGet, "/api/rfq", nil))

	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", models.Validation("quantity must be greater than 0"), http.StatusBadRequest, "quantity must be greater than 0"},
		{"unauthorized", models.Unauthorized("invalid token"), http.StatusUnauthorized, "invalid token"},
		{"forbidden", models.Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{"not found", models.NotFound("rfq rfq-9 not found"), http.StatusNotFound, "rfq rfq-9 not found"},
		{"conflict", models.Conflict("rfq is closed"), http.StatusConflict, "rfq is closed"},
		{"unavailable", &models.Error{Kind: models.ErrUnavailable, Message: "storage is temporarily unavailable"}, http.StatusServiceUnavailable, "temporarily unavailable"},
		{"internal", errors.New("pq: connection reset with secret details"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockWorkflow{
				ListOpenRFQsFunc: func(context.Context, models.User) ([]models.RFQView, error) {
					return nil, tt.err
				},
			}
			handler := handlers.NewHandler(mock, nil, nil, zap.NewNop())

			req := testutils.WithUser(httptest.NewRequest(http.MethodGet, "/api/rfq", nil), supplier)
			w := httptest.NewRecorder()
			handler.ListOpenRFQsHandler(w, req)

			res := w.Result()
			body := readBody(t, res)
			require.Equal(t, tt.status, res.StatusCode)
			require.Contains(t, body, tt.body)
			require.NotContains(t, body, "secret details")
		})
	}
}

func TestDeleteRFQHandler(t *testing.T) {
	var deleted string
	mock := &MockWorkflow{
		DeleteRFQFunc: func(_ context.Context, _ models.User, id string) error {
			deleted = id
			return nil
		},
	}
	handler := handlers.NewHandler(mock, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/api/rfq/rfq-1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "rfq-1"})
	req = testutils.WithUser(req, maker)
	w := httptest.NewRecorder()

	handler.DeleteRFQHandler(w, req)

	res := w.Result()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, readBody(t, res), "deleted")
	require.Equal(t, "rfq-1", deleted)
}

func TestSubmitBidHandlerIgnoresClientTotal(t *testing.T) {
	var got models.SubmitBidRequest
	mock := &MockWorkflow{
		SubmitBidFunc: func(_ context.Context, _ models.User, rfqID string, req models.SubmitBidRequest) (*models.Bid, error) {
			require.Equal(t, "rfq-1", rfqID)
			got = req
			return &models.Bid{ID: "bid-1", RFQID: rfqID, UnitPrice: *req.UnitPrice, Total: req.UnitPrice.Mul(decimal.NewFromInt(10))}, nil
		},
	}
	handler := handlers.NewHandler(mock, nil, nil, zap.NewNop())

	reqBody := `{"unitPrice":"5.50","deliveryDays":7,"total":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/bid/rfq-1", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"id": "rfq-1"})
	req = testutils.WithUser(req, supplier)
	w := httptest.NewRecorder()

	handler.SubmitBidHandler(w, req)

	res := w.Result()
	body := readBody(t, res)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.True(t, got.UnitPrice.Equal(decimal.RequireFromString("5.5")))
	require.Equal(t, 7, got.DeliveryDays)

	var bid models.Bid
	require.NoError(t, json.Unmarshal([]byte(body), &bid))
	require.True(t, bid.Total.Equal(decimal.RequireFromString("55")))
}

func TestSelectBidHandler(t *testing.T) {
	mock := &MockWorkflow{
		SelectBidFunc: func(_ context.Context, _ models.User, bidID string) (*models.PurchaseOrder, error) {
			if bidID != "bid-1" {
				return nil, models.NotFound("bid %s not found", bidID)
			}
			return &models.PurchaseOrder{ID: "po-1", BidID: bidID, Status: models.POIssued}, nil
		},
	}
	handler := handlers.NewHandler(mock, nil, nil, zap.NewNop())

	for id, status := range map[string]int{"bid-1": http.StatusOK, "bid-2": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodPut, "/api/bid/"+id+"/select", nil)
		req = testutils.WithChiURLParams(req, map[string]string{"id": id})
		req = testutils.WithUser(req, maker)
		w := httptest.NewRecorder()

		handler.SelectBidHandler(w, req)

		require.Equal(t, status, w.Result().StatusCode, id)
	}
}

func TestDownloadPOHandler(t *testing.T) {
	mock := &MockWorkflow{
		PODocumentFunc: func(_ context.Context, _ models.User, id string) (*models.Document, error) {
			return &models.Document{Kind: models.DocumentPO, ID: id, POID: id}, nil
		},
	}
	docs := &MockRenderer{}
	handler := handlers.NewHandler(mock, nil, docs, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/po/po-1/download", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "po-1"})
	req = testutils.WithUser(req, supplier)
	w := httptest.NewRecorder()

	handler.DownloadPOHandler(w, req)

	res := w.Result()
	body := readBody(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	require.Equal(t, "attachment; filename=PO_po-1.pdf", res.Header.Get("Content-Disposition"))
	require.Equal(t, "%PDF-mock", body)
	require.Equal(t, render.FormatPDF, docs.format)
	require.Equal(t, "po-1", docs.doc.ID)
}

func TestDownloadPOHandlerUnknownFormat(t *testing.T) {
	handler := handlers.NewHandler(&MockWorkflow{}, nil, &MockRenderer{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/po/po-1/download?format=docx", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"id": "po-1"})
	req = testutils.WithUser(req, supplier)
	w := httptest.NewRecorder()

	handler.DownloadPOHandler(w, req)

	res := w.Result()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, readBody(t, res), "unsupported document format")
}
