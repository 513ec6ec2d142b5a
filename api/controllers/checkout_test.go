package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	"github.com/tillpointhq/tillpoint-backend/pkg/auth"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

type stubCheckoutService struct {
	record   *shopapi.SaleRecord
	lastSale *shopapi.SaleRecord
	err      error
	gotInput checkoutsvc.SubmitInput
}

func (s *stubCheckoutService) Submit(_ context.Context, _ string, _ *auth.AccessTokenClaims, input checkoutsvc.SubmitInput) (*shopapi.SaleRecord, error) {
	s.gotInput = input
	return s.record, s.err
}

func (s *stubCheckoutService) LastSale(string) *shopapi.SaleRecord {
	return s.lastSale
}

func checkoutRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	ctx := middleware.WithRegisterID(req.Context(), "reg-1")
	ctx = middleware.WithClaims(ctx, &auth.AccessTokenClaims{AdminID: uuid.New(), ShopID: "shop-1"})
	return req.WithContext(ctx)
}

func TestCheckoutConfirmCreated(t *testing.T) {
	svc := &stubCheckoutService{record: &shopapi.SaleRecord{ID: "sale-1"}}
	handler := CheckoutConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(`{"payment_method":"other","custom_method":"bank transfer"}`))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotInput.PaymentMethod != "other" || svc.gotInput.CustomMethod != "bank transfer" {
		t.Fatalf("unexpected input forwarded: %+v", svc.gotInput)
	}

	var envelope struct {
		Data shopapi.SaleRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != "sale-1" {
		t.Fatalf("unexpected sale id: %s", envelope.Data.ID)
	}
}

func TestCheckoutConfirmValidationFailure(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := CheckoutConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(`{"payment_method":"cash"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("unexpected error message: %q", envelope.Error.Message)
	}
}

func TestCheckoutConfirmConflict(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "checkout already in flight")}
	handler := CheckoutConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(`{"payment_method":"cash"}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCheckoutLastSaleNotFound(t *testing.T) {
	handler := CheckoutLastSale(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/last-sale", nil)
	req = req.WithContext(middleware.WithRegisterID(req.Context(), "reg-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCheckoutLastSaleFound(t *testing.T) {
	handler := CheckoutLastSale(&stubCheckoutService{lastSale: &shopapi.SaleRecord{ID: "sale-9"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/last-sale", nil)
	req = req.WithContext(middleware.WithRegisterID(req.Context(), "reg-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
