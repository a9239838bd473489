package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the error middleware plus a stub identity the way the
// real router does, so handlers see a session and a staff user.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, "sess-1")
		c.Set(middleware.UserIDKey, "staff-1")
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeCartOps struct {
	bill     *types.Bill
	err      error
	cleared  bool
	addedQty float64
}

func (f *fakeCartOps) Bill(context.Context, string) (*types.Bill, error) { return f.bill, f.err }
func (f *fakeCartOps) Add(_ context.Context, _, _ string, _ types.Unit, _ float64, qty float64) (*types.Bill, error) {
	f.addedQty = qty
	return f.bill, f.err
}
func (f *fakeCartOps) SetQuantity(context.Context, string, types.CartEntry, float64) (*types.Bill, error) {
	return f.bill, f.err
}
func (f *fakeCartOps) Remove(context.Context, string, types.CartEntry) (*types.Bill, error) {
	return f.bill, f.err
}
func (f *fakeCartOps) Clear(context.Context, string) error {
	f.cleared = true
	return f.err
}

func sampleBill() *types.Bill {
	return &types.Bill{
		Lines: []types.BillLine{
			{ItemName: "Sand (yd)", Unit: types.UnitYard, Quantity: 1.5, UnitPrice: 310, LineTotal: 465},
		},
		Subtotal: 465,
	}
}

func TestCartHandler_GetBill(t *testing.T) {
	h := NewCartHandler(&fakeCartOps{bill: sampleBill()})
	r := newTestRouter()
	r.GET("/api/staff/cart", h.GetBill)

	w := doJSON(t, r, http.MethodGet, "/api/staff/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp BillResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Bill.Lines, 1)
	assert.Equal(t, "Sand (yd)", resp.Bill.Lines[0].ItemName)
	assert.InDelta(t, 465, resp.Bill.Subtotal, 0.001)
}

func TestCartHandler_AddItem_BindError(t *testing.T) {
	h := NewCartHandler(&fakeCartOps{bill: sampleBill()})
	r := newTestRouter()
	r.POST("/api/staff/cart/add", h.AddItem)

	w := doJSON(t, r, http.MethodPost, "/api/staff/cart/add", gin.H{"unit": "yd3"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestCartHandler_AddItem(t *testing.T) {
	ops := &fakeCartOps{bill: sampleBill()}
	h := NewCartHandler(ops)
	r := newTestRouter()
	r.POST("/api/staff/cart/add", h.AddItem)

	w := doJSON(t, r, http.MethodPost, "/api/staff/cart/add", gin.H{
		"product_name": "Sand", "unit": "yd3", "price": 310, "quantity": 1.5,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.InDelta(t, 1.5, ops.addedQty, 1e-9)
}

type fakeReceiptOps struct {
	receipt *types.Receipt
	wa      *types.WADispatchStatus
	err     error
}

func (f *fakeReceiptOps) Create(context.Context, string, *types.ReceiptPayload, string) (*types.Receipt, *types.WADispatchStatus, error) {
	return f.receipt, f.wa, f.err
}
func (f *fakeReceiptOps) Get(context.Context, int64) (*types.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}
func (f *fakeReceiptOps) List(context.Context, int, int) ([]*types.Receipt, int, error) {
	return []*types.Receipt{f.receipt}, 1, f.err
}

func sampleReceipt() *types.Receipt {
	name := "Marcus"
	return &types.Receipt{
		ID:           42,
		CustomerName: &name,
		Lines: []types.ReceiptLine{
			{ItemName: "Sand (yd)", Unit: types.UnitYard, Quantity: 1.5, UnitPrice: 310},
		},
		Subtotal:  465,
		CreatedBy: "staff-1",
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestReceiptHandler_CreateReceipt(t *testing.T) {
	f := &fakeReceiptOps{receipt: sampleReceipt(), wa: &types.WADispatchStatus{SentText: true}}
	h := NewReceiptHandler(f, "TTD")
	r := newTestRouter()
	r.POST("/api/staff/receipts", h.CreateReceipt)

	w := doJSON(t, r, http.MethodPost, "/api/staff/receipts", types.ReceiptPayload{
		Lines: []types.ReceiptLine{{ItemName: "Sand (yd)", Quantity: 1.5, UnitPrice: 310}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp types.CreateReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, int64(42), resp.ID)
	require.NotNil(t, resp.WA)
	assert.True(t, resp.WA.SentText)
}

func TestReceiptHandler_CreateReceipt_EmptyCart(t *testing.T) {
	f := &fakeReceiptOps{err: errors.EmptyCart()}
	h := NewReceiptHandler(f, "TTD")
	r := newTestRouter()
	r.POST("/api/staff/receipts", h.CreateReceipt)

	w := doJSON(t, r, http.MethodPost, "/api/staff/receipts", types.ReceiptPayload{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
	assert.Contains(t, w.Body.String(), "Cart is empty")
}

func TestReceiptHandler_PrintReceipt(t *testing.T) {
	f := &fakeReceiptOps{receipt: sampleReceipt()}
	h := NewReceiptHandler(f, "TTD")
	r := newTestRouter()
	r.GET("/staff/receipts/:id/print", h.PrintReceipt)

	req := httptest.NewRequest(http.MethodGet, "/staff/receipts/42/print", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Receipt #42")
	assert.Contains(t, body, "Sand (yd)")
	assert.Contains(t, body, "465.00")
	assert.Contains(t, body, "size: 80mm auto")
	assert.Contains(t, body, "TOTAL (TTD)")
}

func TestReceiptHandler_GetReceipt_NotFound(t *testing.T) {
	f := &fakeReceiptOps{err: errors.ReceiptNotFound(99)}
	h := NewReceiptHandler(f, "TTD")
	r := newTestRouter()
	r.GET("/api/staff/receipts/:id", h.GetReceipt)

	req := httptest.NewRequest(http.MethodGet, "/api/staff/receipts/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

type fakeEstimatorOps struct {
	resp *types.ChatResponse
	err  error
}

func (f *fakeEstimatorOps) Chat(context.Context, *types.ChatRequest) (*types.ChatResponse, error) {
	return f.resp, f.err
}
func (f *fakeEstimatorOps) ExtractBOM(context.Context, *types.BOMExtractRequest) (*types.ChatResponse, error) {
	return f.resp, f.err
}

func TestEstimatorHandler_Chat(t *testing.T) {
	f := &fakeEstimatorOps{resp: &types.ChatResponse{
		OK:        true,
		Assistant: "Here's the plan.",
		Estimate:  &types.Estimate{Total: 1200},
	}}
	h := NewEstimatorHandler(f)
	r := newTestRouter()
	r.POST("/api/chat", h.Chat)

	w := doJSON(t, r, http.MethodPost, "/api/chat", types.ChatRequest{Message: "small shed"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "Here's the plan.", resp.Assistant)
	assert.InDelta(t, 1200, resp.Estimate.Total, 0.001)
}

func TestEstimatorHandler_Chat_ServiceError(t *testing.T) {
	f := &fakeEstimatorOps{err: errors.ValidationFailed("Message is required", "")}
	h := NewEstimatorHandler(f)
	r := newTestRouter()
	r.POST("/api/chat", h.Chat)

	w := doJSON(t, r, http.MethodPost, "/api/chat", types.ChatRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

type fakeDeliveryOps struct {
	quote *types.DeliveryQuote
	err   error
}

func (f *fakeDeliveryOps) Quote(float64, float64) (*types.DeliveryQuote, error) {
	return f.quote, f.err
}

func TestDeliveryHandler_Quote(t *testing.T) {
	f := &fakeDeliveryOps{quote: &types.DeliveryQuote{OK: true, DistanceKm: 12.4, Fee: 87.2}}
	h := NewDeliveryHandler(f)
	r := newTestRouter()
	r.POST("/api/delivery-quote", h.Quote)

	w := doJSON(t, r, http.MethodPost, "/api/delivery-quote", types.DeliveryQuoteRequest{Lat: 10.52, Lng: -61.41})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp types.DeliveryQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.InDelta(t, 12.4, resp.DistanceKm, 0.001)
}

type fakeUploadOps struct {
	err error
}

func (f *fakeUploadOps) Save(_ context.Context, filename string, _ []byte) (*types.UploadedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.UploadedFile{ID: "1700000000000_" + filename, Filename: filename, Ext: "png", URL: "/uploads/" + filename}, nil
}

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUploadHandler_Upload(t *testing.T) {
	h := NewUploadHandler(&fakeUploadOps{})
	r := newTestRouter()
	r.POST("/api/uploads", h.Upload)

	body, contentType := multipartBody(t, "file", map[string][]byte{"site.png": {0x89, 'P', 'N', 'G'}})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp types.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Files, 1)
	assert.True(t, strings.HasSuffix(resp.Files[0].ID, "_site.png"))
}

func TestUploadHandler_Upload_NoFiles(t *testing.T) {
	h := NewUploadHandler(&fakeUploadOps{})
	r := newTestRouter()
	r.POST("/api/uploads", h.Upload)

	body, contentType := multipartBody(t, "other", map[string][]byte{"site.png": {1}})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestUploadHandler_Upload_BadFileFailsBatch(t *testing.T) {
	h := NewUploadHandler(&fakeUploadOps{err: errors.ValidationFailed("Unsupported file type", "virus.exe")})
	r := newTestRouter()
	r.POST("/api/uploads", h.Upload)

	body, contentType := multipartBody(t, "file", map[string][]byte{"virus.exe": {1, 2, 3}})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported file type")
}

type fakePurchaseOps struct {
	extracted *types.ExtractedInvoice
	saved     *types.PurchaseInvoice
	err       error
}

func (f *fakePurchaseOps) ExtractFromFiles(context.Context, []string) (*types.ExtractedInvoice, error) {
	return f.extracted, f.err
}
func (f *fakePurchaseOps) ParseText(context.Context, string) (*types.ExtractedInvoice, error) {
	return f.extracted, f.err
}
func (f *fakePurchaseOps) Save(_ context.Context, inv *types.PurchaseInvoice, _ string) (*types.PurchaseInvoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.saved, nil
}
func (f *fakePurchaseOps) Get(context.Context, int64) (*types.PurchaseInvoice, error) {
	return f.saved, f.err
}
func (f *fakePurchaseOps) List(context.Context, int, int) ([]*types.PurchaseInvoice, int, error) {
	return []*types.PurchaseInvoice{f.saved}, 1, f.err
}

func TestPurchaseHandler_Extract(t *testing.T) {
	f := &fakePurchaseOps{extracted: &types.ExtractedInvoice{
		SupplierName: "TT Hardware Ltd",
		Lines:        []types.PurchaseLine{{Description: "Cement", Unit: "bag", Qty: 10, LineTotal: 550}},
	}}
	h := NewPurchaseHandler(f)
	r := newTestRouter()
	r.POST("/api/staff/purchases/extract", h.Extract)

	w := doJSON(t, r, http.MethodPost, "/api/staff/purchases/extract", types.ExtractFilesRequest{
		FileIDs: []string{"1700000000000_invoice.pdf"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TT Hardware Ltd")
}

func TestPurchaseHandler_Extract_MissingFileIDs(t *testing.T) {
	h := NewPurchaseHandler(&fakePurchaseOps{})
	r := newTestRouter()
	r.POST("/api/staff/purchases/extract", h.Extract)

	w := doJSON(t, r, http.MethodPost, "/api/staff/purchases/extract", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestPurchaseHandler_Save(t *testing.T) {
	f := &fakePurchaseOps{saved: &types.PurchaseInvoice{
		ID: 7, SupplierName: "TT Hardware Ltd", Status: types.PurchaseStatusDraft, Total: 550,
	}}
	h := NewPurchaseHandler(f)
	r := newTestRouter()
	r.POST("/api/staff/purchases", h.Save)

	w := doJSON(t, r, http.MethodPost, "/api/staff/purchases", types.PurchaseInvoice{
		SupplierName: "TT Hardware Ltd",
		Lines:        []types.PurchaseLine{{Description: "Cement", Unit: "bag", Qty: 10, LineTotal: 550}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.Contains(t, w.Body.String(), `"status":"draft"`)
}

type fakeExpenseOps struct {
	extracted *types.ExtractedExpenses
	saved     []types.ExpenseEntry
	err       error
}

func (f *fakeExpenseOps) ExtractFromFiles(context.Context, []string) (*types.ExtractedExpenses, error) {
	return f.extracted, f.err
}
func (f *fakeExpenseOps) ParseText(context.Context, string) (*types.ExtractedExpenses, error) {
	return f.extracted, f.err
}
func (f *fakeExpenseOps) SaveBatch(context.Context, *types.ExpenseBatch, string) ([]types.ExpenseEntry, error) {
	return f.saved, f.err
}
func (f *fakeExpenseOps) List(context.Context, int, int) ([]types.ExpenseEntry, int, error) {
	return f.saved, len(f.saved), f.err
}

func TestExpenseHandler_ParseText(t *testing.T) {
	f := &fakeExpenseOps{extracted: &types.ExtractedExpenses{
		Date: "2025-03-14",
		Expenses: []types.ExpenseEntry{
			{Category: types.ExpenseCategoryFuel, Description: "Diesel for truck", Amount: 450},
		},
	}}
	h := NewExpenseHandler(f)
	r := newTestRouter()
	r.POST("/api/staff/expenses/ai-parse-text", h.ParseText)

	w := doJSON(t, r, http.MethodPost, "/api/staff/expenses/ai-parse-text", types.ParseTextRequest{
		Text: "diesel for truck 450",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Diesel for truck")
}

func TestExpenseHandler_SaveBatch(t *testing.T) {
	f := &fakeExpenseOps{saved: []types.ExpenseEntry{
		{ID: 3, Category: types.ExpenseCategoryFuel, Description: "Diesel", Amount: 450},
	}}
	h := NewExpenseHandler(f)
	r := newTestRouter()
	r.POST("/api/staff/expenses", h.SaveBatch)

	w := doJSON(t, r, http.MethodPost, "/api/staff/expenses", types.ExpenseBatch{
		Expenses: []types.ExpenseEntry{{Category: "fuel", Description: "Diesel", Amount: 450}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}
