package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

// unknownBrand is the display name used when a product references a brand
// the brand list does not contain.
const unknownBrand = "Unknown"

type catalogLoader interface {
	ListProducts(ctx context.Context) ([]shopapi.Product, error)
	ListBrands(ctx context.Context) ([]shopapi.Brand, error)
}

// ProductView is a catalog entry with the brand id resolved to a name,
// shaped for the cashier browse screen.
type ProductView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	BrandName    string  `json:"brand_name"`
	SellPrice    float64 `json:"sell_price"`
	NetPrice     float64 `json:"net_price"`
	Availability int     `json:"availability"`
	ExpireDate   string  `json:"expire_date,omitempty"`
}

// Filter narrows the product listing.
type Filter struct {
	Query       string
	InStockOnly bool
}

// Service serves the product catalog and brand list to the register,
// tracking each fetch on the register's lifecycle cells.
type Service interface {
	Products(ctx context.Context, registerID string, filter Filter) ([]ProductView, error)
	Brands(ctx context.Context, registerID string) ([]shopapi.Brand, error)
}

type service struct {
	client   catalogLoader
	trackers *lifecycle.Registry
	logg     *logger.Logger

	mu     sync.Mutex
	brands map[string]string
}

// NewService builds the catalog service.
func NewService(client catalogLoader, trackers *lifecycle.Registry, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	if trackers == nil {
		return nil, fmt.Errorf("lifecycle registry required")
	}
	return &service{
		client:   client,
		trackers: trackers,
		logg:     logg,
		brands:   map[string]string{},
	}, nil
}

// Products fetches the catalog, resolves brand names, and applies the
// filter. A failed fetch leaves the register's previous listing alone on
// the client side; only the lifecycle cell records the rejection.
func (s *service) Products(ctx context.Context, registerID string, filter Filter) ([]ProductView, error) {
	tracker := s.trackers.ForRegister(registerID)
	if err := tracker.Begin(lifecycle.KindProducts); err != nil {
		return nil, err
	}

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		tracker.Resolve(lifecycle.KindProducts, err)
		if s.logg != nil {
			s.logg.Error(ctx, "product fetch failed", err)
		}
		return nil, err
	}

	// Refresh the brand index opportunistically; brand resolution falls
	// back to the last known names when the brand endpoint is down.
	if brands, berr := s.client.ListBrands(ctx); berr == nil {
		s.storeBrands(brands)
	}

	views := s.buildViews(products, filter)
	tracker.Resolve(lifecycle.KindProducts, nil)
	return views, nil
}

// Brands fetches the brand list and refreshes the resolution index.
func (s *service) Brands(ctx context.Context, registerID string) ([]shopapi.Brand, error) {
	tracker := s.trackers.ForRegister(registerID)
	if err := tracker.Begin(lifecycle.KindBrands); err != nil {
		return nil, err
	}

	brands, err := s.client.ListBrands(ctx)
	if err != nil {
		tracker.Resolve(lifecycle.KindBrands, err)
		if s.logg != nil {
			s.logg.Error(ctx, "brand fetch failed", err)
		}
		return nil, err
	}

	s.storeBrands(brands)
	sort.SliceStable(brands, func(i, j int) bool {
		return strings.ToLower(brands[i].Name) < strings.ToLower(brands[j].Name)
	})
	tracker.Resolve(lifecycle.KindBrands, nil)
	return brands, nil
}

func (s *service) storeBrands(brands []shopapi.Brand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range brands {
		if b.ID == "" {
			continue
		}
		s.brands[b.ID] = b.Name
	}
}

func (s *service) brandName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name, ok := s.brands[id]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return unknownBrand
}

func (s *service) buildViews(products []shopapi.Product, filter Filter) []ProductView {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		if filter.InStockOnly && p.Availability <= 0 {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		views = append(views, ProductView{
			ID:           p.ID,
			Name:         p.Name,
			BrandName:    s.brandName(p.BrandID),
			SellPrice:    p.SellPrice.Float(),
			NetPrice:     p.NetPrice.Float(),
			Availability: p.Availability,
			ExpireDate:   p.ExpireDate,
		})
	}
	return views
}
