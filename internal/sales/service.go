package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	"github.com/tillpointhq/tillpoint-backend/internal/totals"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

type historySource interface {
	ListSales(ctx context.Context) ([]shopapi.SaleRecord, error)
	GetSale(ctx context.Context, id string) (*shopapi.SaleRecord, error)
}

// Service serves sale history and aggregate stats. The upstream shop API
// is the source of truth; fetched records are written through to the
// local store so history and stats survive upstream outages.
type Service interface {
	List(ctx context.Context, registerID string) ([]shopapi.SaleRecord, error)
	Get(ctx context.Context, registerID, id string) (*shopapi.SaleRecord, error)
	Stats(ctx context.Context, registerID string) (totals.Stats, error)
	History(ctx context.Context, limit int) ([]shopapi.SaleRecord, error)
	RecordCheckout(ctx context.Context, record *shopapi.SaleRecord)
}

type service struct {
	client   historySource
	repo     *Repo
	trackers *lifecycle.Registry
	logg     *logger.Logger
}

// NewService builds the sales service. The repo may be backed by a nil db
// client, in which case write-through and offline fallback are disabled.
func NewService(client historySource, repo *Repo, trackers *lifecycle.Registry, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	if trackers == nil {
		return nil, fmt.Errorf("lifecycle registry required")
	}
	if repo == nil {
		repo = &Repo{}
	}
	return &service{
		client:   client,
		repo:     repo,
		trackers: trackers,
		logg:     logg,
	}, nil
}

// List fetches the sale history from upstream, tracking the fetch on the
// register's sales cell and syncing the result into the local store.
func (s *service) List(ctx context.Context, registerID string) ([]shopapi.SaleRecord, error) {
	tracker := s.trackers.ForRegister(registerID)
	if err := tracker.Begin(lifecycle.KindSales); err != nil {
		return nil, err
	}

	records, err := s.client.ListSales(ctx)
	if err != nil {
		tracker.Resolve(lifecycle.KindSales, err)
		if s.logg != nil {
			s.logg.Error(ctx, "sales fetch failed", err)
		}
		return nil, err
	}

	if serr := s.repo.SaveAll(ctx, records); serr != nil && s.logg != nil {
		s.logg.Warn(ctx, "sale history sync failed")
	}

	tracker.Resolve(lifecycle.KindSales, nil)
	return records, nil
}

// Get fetches one sale, falling back to the local copy when upstream
// cannot serve it. Detail fetches share the register's sales cell with
// List.
func (s *service) Get(ctx context.Context, registerID, id string) (*shopapi.SaleRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}

	tracker := s.trackers.ForRegister(registerID)
	if err := tracker.Begin(lifecycle.KindSales); err != nil {
		return nil, err
	}

	record, err := s.client.GetSale(ctx, id)
	if err == nil {
		if serr := s.repo.Save(ctx, record); serr != nil && s.logg != nil {
			s.logg.Warn(ctx, "sale history sync failed")
		}
		tracker.Resolve(lifecycle.KindSales, nil)
		return record, nil
	}

	cached, cerr := s.repo.ByID(ctx, id)
	if cerr == nil && cached != nil {
		tracker.Resolve(lifecycle.KindSales, nil)
		return cached, nil
	}

	tracker.Resolve(lifecycle.KindSales, err)
	if s.logg != nil {
		s.logg.Error(ctx, "sale fetch failed", err)
	}
	return nil, err
}

// Stats aggregates the upstream history; when upstream is down it falls
// back to the locally synced rows so the dashboard keeps working.
func (s *service) Stats(ctx context.Context, registerID string) (totals.Stats, error) {
	records, err := s.List(ctx, registerID)
	if err != nil {
		cached, cerr := s.repo.Recent(ctx, 0)
		if cerr != nil || len(cached) == 0 {
			return totals.Stats{}, err
		}
		return totals.Aggregate(cached), nil
	}
	return totals.Aggregate(records), nil
}

// History lists the locally synced rows without touching upstream.
func (s *service) History(ctx context.Context, limit int) ([]shopapi.SaleRecord, error) {
	return s.repo.Recent(ctx, limit)
}

// RecordCheckout syncs a freshly fulfilled sale into the local history.
// Best effort; checkout has already succeeded upstream.
func (s *service) RecordCheckout(ctx context.Context, record *shopapi.SaleRecord) {
	if err := s.repo.Save(ctx, record); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "sale history sync failed")
	}
}
