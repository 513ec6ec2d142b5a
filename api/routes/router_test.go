package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	catalogsvc "github.com/tillpointhq/tillpoint-backend/internal/catalog"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	salessvc "github.com/tillpointhq/tillpoint-backend/internal/sales"
	pkgAuth "github.com/tillpointhq/tillpoint-backend/pkg/auth"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sales", func(w http.ResponseWriter, r *http.Request) {
		var req shopapi.SubmitSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"message":"bad payload"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "sale-1",
			"admin_name":  req.Sale.AdminName,
			"total_price": req.Sale.TotalPrice,
		})
	})
	mux.HandleFunc("GET /sales", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"sale-0","admin_name":"Sara","total_price":100,"profit":30}]`))
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"Cola","brand_id":"b1","sell_price":10,"net_price":8,"availability":3}]`))
	})
	mux.HandleFunc("GET /brands", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"b1","name":"FizzCo"}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	upstream := newUpstream(t)
	client, err := shopapi.NewClient(config.ShopAPIConfig{BaseURL: upstream.URL, Token: "upstream-token"})
	if err != nil {
		t.Fatalf("shopapi client: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-secret", Issuer: "tillpoint-test", ExpirationMinutes: 30}

	cartStore := cart.NewStore()
	trackers := lifecycle.NewRegistry()

	repo, err := salessvc.NewRepo(nil)
	if err != nil {
		t.Fatalf("sales repo: %v", err)
	}
	salesService, err := salessvc.NewService(client, repo, trackers, nil)
	if err != nil {
		t.Fatalf("sales service: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(cartStore, client, trackers, checkoutsvc.NewMemoryGuard(), salesService, nil, nil, config.CheckoutConfig{ProfitPolicy: "legacy"})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	catalogService, err := catalogsvc.NewService(client, trackers, nil)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}

	return NewRouter(cfg, nil, nil, cartStore, trackers, checkoutService, catalogService, salesService)
}

func mintToken(t *testing.T) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(
		config.JWTConfig{Secret: "router-secret", Issuer: "tillpoint-test", ExpirationMinutes: 30},
		time.Now(),
		pkgAuth.AccessTokenPayload{
			AdminID:   uuid.New(),
			FirstName: "Sara",
			LastName:  "Haile",
			Phone:     "0911000000",
			ShopID:    "shop-1",
			Branch:    1,
		},
	)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func do(t *testing.T, router http.Handler, token, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Register-Id", "reg-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRouterRejectsUnauthenticated(t *testing.T) {
	router := newTestRouter(t)
	resp := do(t, router, "", http.MethodGet, "/api/v1/cart", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Tillpoint-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Tillpoint-Env"))
	}
}

func TestRouterCartToCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t)

	resp := do(t, router, token, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1","name":"Cola","sell_price":10,"net_price":8}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, router, token, http.MethodPut, "/api/v1/cart/paid-amount", `{"amount":"10"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("paid amount: expected 200 got %d", resp.Code)
	}

	resp = do(t, router, token, http.MethodPost, "/api/v1/checkout", `{"payment_method":"cash"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data shopapi.SaleRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode checkout response: %v", err)
	}
	if envelope.Data.AdminName != "Sara Haile" {
		t.Fatalf("expected resolved admin name, got %q", envelope.Data.AdminName)
	}

	// Cart is reset after a fulfilled checkout.
	resp = do(t, router, token, http.MethodGet, "/api/v1/cart", "")
	var view struct {
		Data struct {
			Lines []any `json:"lines"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	if len(view.Data.Lines) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d lines", len(view.Data.Lines))
	}

	resp = do(t, router, token, http.MethodGet, "/api/v1/checkout/last-sale", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("last sale: expected 200 got %d", resp.Code)
	}

	resp = do(t, router, token, http.MethodGet, "/api/v1/status", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status: expected 200 got %d", resp.Code)
	}
	var status struct {
		Data map[string]struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Data["checkout"].Status != "fulfilled" {
		t.Fatalf("expected fulfilled checkout cell, got %+v", status.Data)
	}
}

func TestRouterCatalogAndSales(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t)

	resp := do(t, router, token, http.MethodGet, "/api/v1/catalog/products", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("products: expected 200 got %d", resp.Code)
	}
	var products struct {
		Data []struct {
			BrandName string `json:"brand_name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products.Data) != 1 || products.Data[0].BrandName != "FizzCo" {
		t.Fatalf("unexpected products payload: %+v", products.Data)
	}

	resp = do(t, router, token, http.MethodGet, "/api/v1/sales", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("sales: expected 200 got %d", resp.Code)
	}

	resp = do(t, router, token, http.MethodGet, "/api/v1/sales/stats", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("stats: expected 200 got %d", resp.Code)
	}
}

func TestRouterMissingRegisterHeader(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
