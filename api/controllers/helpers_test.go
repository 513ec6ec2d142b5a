package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
)

// newTestCartRouter mounts the cart handlers behind chi so URL params
// resolve the same way they do in the real router.
func newTestCartRouter(store *cart.Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", CartView(store, nil))
		r.Delete("/", CartClear(store, nil))
		r.Post("/items", CartAddItem(store, nil))
		r.Delete("/items/{productId}", CartRemoveItem(store, nil))
		r.Put("/items/{productId}/quantity", CartSetQuantity(store, nil))
		r.Post("/items/{productId}/quantity", CartChangeQuantity(store, nil))
		r.Put("/items/{productId}/price", CartSetPrice(store, nil))
		r.Put("/paid-amount", CartSetPaidAmount(store, nil))
		r.Put("/name-override", CartSetNameOverride(store, nil))
	})
	return r
}
