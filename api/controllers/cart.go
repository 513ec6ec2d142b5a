package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	"github.com/tillpointhq/tillpoint-backend/internal/totals"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

type cartLineResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	NetPrice  float64 `json:"net_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type cartTotalsResponse struct {
	Total      float64 `json:"total"`
	Discount   float64 `json:"discount"`
	FinalTotal float64 `json:"final_total"`
	Paid       float64 `json:"paid"`
	Remaining  float64 `json:"remaining"`
}

type cartViewResponse struct {
	Lines        []cartLineResponse `json:"lines"`
	PaidAmount   string             `json:"paid_amount"`
	NameOverride string             `json:"name_override,omitempty"`
	Totals       cartTotalsResponse `json:"totals"`
}

func newCartViewResponse(session cart.Session) cartViewResponse {
	computed := totals.Compute(session.Lines, session.PaidAmount)

	lines := make([]cartLineResponse, 0, len(session.Lines))
	for _, line := range session.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		lines = append(lines, cartLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price.InexactFloat64(),
			NetPrice:  line.NetPrice.InexactFloat64(),
			Quantity:  line.Quantity,
			LineTotal: line.Price.Mul(qty).InexactFloat64(),
		})
	}

	return cartViewResponse{
		Lines:        lines,
		PaidAmount:   session.PaidAmount,
		NameOverride: session.NameOverride,
		Totals: cartTotalsResponse{
			Total:      computed.Total.InexactFloat64(),
			Discount:   computed.Discount.InexactFloat64(),
			FinalTotal: computed.FinalTotal.InexactFloat64(),
			Paid:       computed.Paid.InexactFloat64(),
			Remaining:  computed.Remaining.InexactFloat64(),
		},
	}
}

// CartView serves the register's current transaction with live totals.
func CartView(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.Snapshot(registerID)))
	}
}

type addItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	SellPrice float64 `json:"sell_price" validate:"min=0"`
	NetPrice  float64 `json:"net_price" validate:"min=0"`
}

// CartAddItem adds a product line, or bumps the quantity when the product
// is already in the cart.
func CartAddItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		session := store.AddItem(registerID, cart.Product{
			ID:        payload.ProductID,
			Name:      payload.Name,
			SellPrice: decimal.NewFromFloat(payload.SellPrice),
			NetPrice:  decimal.NewFromFloat(payload.NetPrice),
		})
		responses.WriteSuccess(w, newCartViewResponse(session))
	}
}

// CartRemoveItem removes a product line. Removing an absent product is a
// no-op and still returns the current view.
func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.RemoveItem(registerID, productID)))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSetQuantity sets the absolute quantity for a line, floored at one.
func CartSetQuantity(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.SetQuantity(registerID, productID, payload.Quantity)))
	}
}

type changeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// CartChangeQuantity applies a +/- delta to a line's quantity, floored at
// one.
func CartChangeQuantity(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var payload changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.ChangeQuantity(registerID, productID, payload.Delta)))
	}
}

type setPriceRequest struct {
	Price float64 `json:"price" validate:"min=0"`
}

// CartSetPrice overrides the unit sell price for a line.
func CartSetPrice(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var payload setPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Price < 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.SetPrice(registerID, productID, decimal.NewFromFloat(payload.Price))))
	}
}

// CartClear empties the cart, keeping the paid amount and name override.
func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.Clear(registerID)))
	}
}

type setPaidAmountRequest struct {
	Amount string `json:"amount"`
}

// CartSetPaidAmount stores the raw paid-amount input. The value is kept
// verbatim; totals treat unparseable input as zero.
func CartSetPaidAmount(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setPaidAmountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.SetPaidAmount(registerID, payload.Amount)))
	}
}

type setNameOverrideRequest struct {
	Name string `json:"name"`
}

// CartSetNameOverride stores the operator-entered seller name that beats
// the token-derived name at checkout.
func CartSetNameOverride(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setNameOverrideRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartViewResponse(store.SetNameOverride(registerID, payload.Name)))
	}
}
