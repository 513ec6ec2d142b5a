package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	"github.com/tillpointhq/tillpoint-backend/internal/totals"
	"github.com/tillpointhq/tillpoint-backend/pkg/auth"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/metrics"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

type saleSubmitter interface {
	SubmitSale(ctx context.Context, req shopapi.SubmitSaleRequest) (*shopapi.SaleRecord, error)
}

type saleRecorder interface {
	RecordCheckout(ctx context.Context, record *shopapi.SaleRecord)
}

// SubmitInput captures the payment form state sent with a confirm.
type SubmitInput struct {
	PaymentMethod string
	CustomMethod  string
	NameOverride  string
}

// Service runs the checkout submission pipeline: precondition gates,
// payload normalization, submission, and reconciliation of the result back
// into the register's state.
type Service interface {
	Submit(ctx context.Context, registerID string, claims *auth.AccessTokenClaims, input SubmitInput) (*shopapi.SaleRecord, error)
	LastSale(registerID string) *shopapi.SaleRecord
}

type service struct {
	carts    *cart.Store
	client   saleSubmitter
	trackers *lifecycle.Registry
	guard    InFlightGuard
	recorder saleRecorder
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	cfg      config.CheckoutConfig

	now func() time.Time

	mu        sync.Mutex
	lastSales map[string]*shopapi.SaleRecord
}

// NewService builds the checkout service.
func NewService(
	carts *cart.Store,
	client saleSubmitter,
	trackers *lifecycle.Registry,
	guard InFlightGuard,
	recorder saleRecorder,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	cfg config.CheckoutConfig,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if client == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	if trackers == nil {
		return nil, fmt.Errorf("lifecycle registry required")
	}
	if guard == nil {
		guard = NewMemoryGuard()
	}
	return &service{
		carts:     carts,
		client:    client,
		trackers:  trackers,
		guard:     guard,
		recorder:  recorder,
		metrics:   checkoutMetrics,
		logg:      logg,
		cfg:       cfg,
		now:       time.Now,
		lastSales: map[string]*shopapi.SaleRecord{},
	}, nil
}

// Submit validates the preconditions, posts the normalized sale, and
// reconciles the outcome. Every gate fails fast before any network call;
// a failed submission leaves the cart and payment inputs untouched so the
// operator can retry.
func (s *service) Submit(ctx context.Context, registerID string, claims *auth.AccessTokenClaims, input SubmitInput) (*shopapi.SaleRecord, error) {
	if registerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "register id required")
	}
	shopID := ""
	branch := 0
	if claims != nil {
		shopID = claims.ShopID
		branch = claims.Branch
	}

	session := s.carts.Snapshot(registerID)

	if len(session.Lines) == 0 {
		s.metrics.IncRejected(shopID, "empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	override := input.NameOverride
	if override == "" {
		override = session.NameOverride
	}
	adminName := ResolveAdminName(override, claims)
	if adminName == "" {
		s.metrics.IncRejected(shopID, "admin_name")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin name could not be resolved")
	}

	adminPhone := ResolveAdminPhone(claims)
	if adminPhone == "" {
		s.metrics.IncRejected(shopID, "admin_phone")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin phone could not be resolved")
	}

	method := ResolvePaymentMethod(input.PaymentMethod, input.CustomMethod)
	if method == "" {
		method = s.cfg.FallbackMethod
	}
	if method == "" {
		s.metrics.IncRejected(shopID, "payment_method")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	tracker := s.trackers.ForRegister(registerID)
	if err := tracker.Begin(lifecycle.KindCheckout); err != nil {
		s.metrics.IncRejected(shopID, "in_flight")
		return nil, err
	}

	acquired, err := s.guard.Acquire(ctx, registerID)
	if err != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
		tracker.Resolve(lifecycle.KindCheckout, err)
		return nil, err
	}
	if !acquired {
		err = pkgerrors.New(pkgerrors.CodeConflict, "checkout already in flight")
		tracker.Resolve(lifecycle.KindCheckout, err)
		s.metrics.IncRejected(shopID, "in_flight")
		return nil, err
	}
	defer s.guard.Release(ctx, registerID)

	req := buildSubmitRequest(payloadInput{
		Lines:         session.Lines,
		AdminName:     adminName,
		AdminPhone:    adminPhone,
		PaymentMethod: method,
		Paid:          totals.ParsePaid(session.PaidAmount),
		ShopID:        shopID,
		Branch:        branch,
		Policy:        s.cfg.Policy(),
		Now:           s.now(),
	})

	started := s.now()
	record, err := s.client.SubmitSale(ctx, req)
	s.metrics.ObserveDuration(shopID, s.now().Sub(started))

	if err != nil {
		tracker.Resolve(lifecycle.KindCheckout, err)
		s.metrics.IncFailure(shopID)
		if s.logg != nil {
			s.logg.Error(ctx, "checkout submission failed", err)
		}
		return nil, err
	}

	s.carts.ResetAfterSale(registerID)
	s.setLastSale(registerID, record)
	if s.recorder != nil {
		s.recorder.RecordCheckout(ctx, record)
	}
	tracker.Resolve(lifecycle.KindCheckout, nil)
	s.metrics.IncSuccess(shopID)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"register_id": registerID,
			"sale_id":     record.ID,
		})
		s.logg.Info(ctx, "checkout fulfilled")
	}
	return record, nil
}

// LastSale returns the most recently fulfilled sale for the register.
func (s *service) LastSale(registerID string) *shopapi.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSales[registerID]
}

func (s *service) setLastSale(registerID string, record *shopapi.SaleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSales[registerID] = record
}
