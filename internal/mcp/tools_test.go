package mcp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/eddmcp/eddmcp/internal/edd"
)

// newTestServer builds a Server backed by a fake EDD API that serves
// fixed bodies per endpoint path.
func newTestServer(t *testing.T, routes map[string]string) *Server {
	t.Helper()

	mux := http.NewServeMux()
	for path, body := range routes {
		b := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(b))
		})
	}
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := edd.NewClient(backend.URL, "pk", "tk",
		edd.WithLogger(logger),
		edd.WithSleep(func(time.Duration) {}),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewServer(client, logger, "test")
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestHandleGetProduct(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/products/": `{"products":[{"info":{"id":7,"title":"Alpha Theme","status":"publish"}}]}`,
	})

	res, err := s.handleGetProduct(context.Background(), callReq(map[string]any{"product_id": 7}))
	if err != nil {
		t.Fatalf("handleGetProduct: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "Alpha Theme") {
		t.Errorf("text = %q, want product detail", text)
	}
}

func TestHandleGetProductNotFound(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/products/": `{"products":[]}`,
	})

	res, err := s.handleGetProduct(context.Background(), callReq(map[string]any{"product_id": 999}))
	if err != nil {
		t.Fatalf("handleGetProduct: %v", err)
	}
	if res.IsError {
		t.Fatal("not-found must be a message, not an error")
	}
	if text := resultText(t, res); text != "No product found with ID 999." {
		t.Errorf("text = %q", text)
	}
}

func TestHandleGetProductMissingParam(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	res, err := s.handleGetProduct(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleGetProduct: %v", err)
	}
	if !res.IsError {
		t.Fatal("missing required parameter should yield a tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "product_id") {
		t.Errorf("text = %q, want mention of product_id", text)
	}
}

func TestHandleGetSaleRequiresIdentifier(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	res, err := s.handleGetSale(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleGetSale: %v", err)
	}
	if !res.IsError {
		t.Fatal("missing identifiers should yield a tool error")
	}
	want := "Provide either sale_id or purchase_key to look up a sale."
	if text := resultText(t, res); text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestHandleGetSaleByKey(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/sales/": `{"sales":[{"ID":42,"key":"9f8e","email":"buyer@example.com","total":"19.99"}]}`,
	})

	res, err := s.handleGetSale(context.Background(), callReq(map[string]any{"purchase_key": "9f8e"}))
	if err != nil {
		t.Fatalf("handleGetSale: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "buyer@example.com") {
		t.Errorf("text = %q, want sale detail", text)
	}
}

func TestHandleGetSaleNotFound(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/sales/": `{"sales":[]}`,
	})

	res, err := s.handleGetSale(context.Background(), callReq(map[string]any{"sale_id": 42}))
	if err != nil {
		t.Fatalf("handleGetSale: %v", err)
	}
	if res.IsError {
		t.Fatal("not-found must be a message, not an error")
	}
	if text := resultText(t, res); text != "No sale found with ID 42." {
		t.Errorf("text = %q", text)
	}
}

func TestHandleGetCustomerRequiresIdentifier(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	res, err := s.handleGetCustomer(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleGetCustomer: %v", err)
	}
	if !res.IsError {
		t.Fatal("missing identifiers should yield a tool error")
	}
	want := "Provide either customer_id or email to look up a customer."
	if text := resultText(t, res); text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestHandleGetCustomerByEmail(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/customers/": `{"customers":[{"info":{"customer_id":3,"email":"a@b.c","display_name":"Ada"},"stats":{"total_purchases":2,"total_spent":"50.00"}}]}`,
	})

	res, err := s.handleGetCustomer(context.Background(), callReq(map[string]any{"email": "a@b.c"}))
	if err != nil {
		t.Fatalf("handleGetCustomer: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "Ada") {
		t.Errorf("text = %q, want customer detail", text)
	}
}

func TestHandleListSalesRejectsBadDate(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	res, err := s.handleListSales(context.Background(), callReq(map[string]any{"start_date": "2025-01-01"}))
	if err != nil {
		t.Fatalf("handleListSales: %v", err)
	}
	if !res.IsError {
		t.Fatal("malformed date should yield a tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "YYYYMMDD") {
		t.Errorf("text = %q, want format hint", text)
	}
}

func TestHandleListProductsSummaries(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/products/": `{"products":[
			{"info":{"id":7,"title":"Alpha Theme","status":"publish","category":"themes"},"pricing":{"single":"19.99"}},
			{"info":{"id":8,"title":"Beta Addon","status":"draft","category":false}}
		]}`,
	})

	res, err := s.handleListProducts(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleListProducts: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	for _, want := range []string{"Alpha Theme", "Beta Addon", "19.99"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	// Full product content is a detail-view concern, not a list concern.
	if strings.Contains(text, `"files"`) {
		t.Errorf("list output should be summaries, got:\n%s", text)
	}
}

func TestHandleGetStatsRejectsUnknownType(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	res, err := s.handleGetStats(context.Background(), callReq(map[string]any{"type": "refunds"}))
	if err != nil {
		t.Fatalf("handleGetStats: %v", err)
	}
	if !res.IsError {
		t.Fatal("unknown stat type should yield a tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "refunds") {
		t.Errorf("text = %q, want rejected value named", text)
	}
}

func TestHandleGetStatsByDate(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"/stats/": `{"2025-01-01":100,"2025-01-02":150,"request_speed":0.01,"totals":250}`,
	})

	res, err := s.handleGetStatsByDate(context.Background(), callReq(map[string]any{
		"type":       "earnings",
		"start_date": "20250101",
		"end_date":   "20250102",
	}))
	if err != nil {
		t.Fatalf("handleGetStatsByDate: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	if !strings.Contains(text, "2025-01-01") {
		t.Errorf("text missing date keys:\n%s", text)
	}
	for _, excluded := range []string{"request_speed", "totals"} {
		if strings.Contains(text, excluded) {
			t.Errorf("text should exclude %q:\n%s", excluded, text)
		}
	}
}

func TestHandleGetStatsByDateRequiresDates(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	res, err := s.handleGetStatsByDate(context.Background(), callReq(map[string]any{"type": "sales"}))
	if err != nil {
		t.Fatalf("handleGetStatsByDate: %v", err)
	}
	if !res.IsError {
		t.Fatal("missing dates should yield a tool error")
	}
}

func TestHandleGetStatsByProductDefaultsToAll(t *testing.T) {
	var gotProduct string
	mux := http.NewServeMux()
	mux.HandleFunc("/stats/", func(w http.ResponseWriter, r *http.Request) {
		gotProduct = r.URL.Query().Get("product")
		w.Write([]byte(`{"Alpha Theme":120.5,"request_speed":0.01}`))
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := edd.NewClient(backend.URL, "pk", "tk", edd.WithLogger(logger))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	s := NewServer(client, logger, "test")

	res, err := s.handleGetStatsByProduct(context.Background(), callReq(map[string]any{"type": "earnings"}))
	if err != nil {
		t.Fatalf("handleGetStatsByProduct: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if gotProduct != "all" {
		t.Errorf("product = %q, want %q", gotProduct, "all")
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Alpha Theme") || strings.Contains(text, "request_speed") {
		t.Errorf("text = %q, want product stats without diagnostics", text)
	}
}

func TestHandleGetStatsByProductSpecificID(t *testing.T) {
	var gotProduct string
	mux := http.NewServeMux()
	mux.HandleFunc("/stats/", func(w http.ResponseWriter, r *http.Request) {
		gotProduct = r.URL.Query().Get("product")
		w.Write([]byte(`{"Alpha Theme":120.5,"request_speed":0.01}`))
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := edd.NewClient(backend.URL, "pk", "tk", edd.WithLogger(logger))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	s := NewServer(client, logger, "test")

	res, err := s.handleGetStatsByProduct(context.Background(), callReq(map[string]any{
		"type":       "sales",
		"product_id": 7,
	}))
	if err != nil {
		t.Fatalf("handleGetStatsByProduct: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if gotProduct != "7" {
		t.Errorf("product = %q, want %q", gotProduct, "7")
	}
}

func TestHandleErrorsSurfaceAfterRetries(t *testing.T) {
	// The tool layer performs no retries of its own; it reports the
	// client's exhausted-retry error as a tool error.
	s := newTestServer(t, map[string]string{
		"/discounts/": `{"error":"Invalid API key"}`,
	})

	res, err := s.handleGetDiscount(context.Background(), callReq(map[string]any{"discount_id": 11}))
	if err != nil {
		t.Fatalf("handleGetDiscount: %v", err)
	}
	if !res.IsError {
		t.Fatal("upstream failure should yield a tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "Invalid API key") {
		t.Errorf("text = %q, want upstream message", text)
	}
}
