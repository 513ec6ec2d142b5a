package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Line is one product line in the active transaction. Price is the unit
// sell price and stays editable until checkout; NetPrice is the cost basis
// used only for discount reporting.
type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	NetPrice  decimal.Decimal
	Quantity  int
}

// Product carries the catalog fields needed to open a cart line.
type Product struct {
	ID        string
	Name      string
	SellPrice decimal.Decimal
	NetPrice  decimal.Decimal
}

// Session is a point-in-time copy of one register's transaction state.
type Session struct {
	Lines        []Line
	PaidAmount   string
	NameOverride string
}

type state struct {
	lines        []Line
	paidAmount   string
	nameOverride string
}

// Store holds the in-progress cart for every register. All mutations go
// through the store lock; readers get defensive copies so a snapshot never
// aliases live state.
type Store struct {
	mu    sync.Mutex
	carts map[string]*state
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{carts: map[string]*state{}}
}

func (s *Store) register(registerID string) *state {
	st, ok := s.carts[registerID]
	if !ok {
		st = &state{}
		s.carts[registerID] = st
	}
	return st
}

// AddItem appends a new line with quantity 1, or increments the quantity
// when the product is already in the cart. An increment does not refresh
// price or net price from the incoming product; the cashier may already
// have edited them.
func (s *Store) AddItem(registerID string, product Product) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	for i := range st.lines {
		if st.lines[i].ProductID == product.ID {
			st.lines[i].Quantity++
			return st.snapshot()
		}
	}
	st.lines = append(st.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.SellPrice,
		NetPrice:  product.NetPrice,
		Quantity:  1,
	})
	return st.snapshot()
}

// RemoveItem deletes the matching line. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(registerID, productID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	for i := range st.lines {
		if st.lines[i].ProductID == productID {
			st.lines = append(st.lines[:i], st.lines[i+1:]...)
			break
		}
	}
	return st.snapshot()
}

// SetQuantity sets the absolute quantity for a line, flooring at 1.
func (s *Store) SetQuantity(registerID, productID string, qty int) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	for i := range st.lines {
		if st.lines[i].ProductID == productID {
			st.lines[i].Quantity = floorQuantity(qty)
			break
		}
	}
	return st.snapshot()
}

// ChangeQuantity applies a delta to a line's quantity. The result never
// drops below 1 and the line is never removed, however large the negative
// delta.
func (s *Store) ChangeQuantity(registerID, productID string, delta int) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	for i := range st.lines {
		if st.lines[i].ProductID == productID {
			st.lines[i].Quantity = floorQuantity(st.lines[i].Quantity + delta)
			break
		}
	}
	return st.snapshot()
}

// SetPrice overwrites the unit sell price for a line. Callers validate that
// the price is a non-negative number before calling.
func (s *Store) SetPrice(registerID, productID string, price decimal.Decimal) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	for i := range st.lines {
		if st.lines[i].ProductID == productID {
			st.lines[i].Price = price
			break
		}
	}
	return st.snapshot()
}

// Clear empties the register's cart unconditionally, keeping the paid
// amount and name override.
func (s *Store) Clear(registerID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	st.lines = nil
	return st.snapshot()
}

// SetPaidAmount stores the raw paid-amount input for the register.
func (s *Store) SetPaidAmount(registerID, raw string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	st.paidAmount = raw
	return st.snapshot()
}

// SetNameOverride stores the operator-entered admin name override.
func (s *Store) SetNameOverride(registerID, name string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	st.nameOverride = name
	return st.snapshot()
}

// Snapshot returns a copy of the register's session.
func (s *Store) Snapshot(registerID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.register(registerID).snapshot()
}

// ResetAfterSale clears the cart, paid amount, and name override once a
// checkout has been accepted upstream.
func (s *Store) ResetAfterSale(registerID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.register(registerID)
	st.lines = nil
	st.paidAmount = ""
	st.nameOverride = ""
	return st.snapshot()
}

func (st *state) snapshot() Session {
	lines := make([]Line, len(st.lines))
	copy(lines, st.lines)
	return Session{
		Lines:        lines,
		PaidAmount:   st.paidAmount,
		NameOverride: st.nameOverride,
	}
}

func floorQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
