package lifecycle

import (
	"sync"

	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
)

// Status is the lifecycle of one async operation kind.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Kind names the async operations tracked per register.
type Kind string

const (
	KindCheckout Kind = "checkout"
	KindProducts Kind = "products"
	KindBrands   Kind = "brands"
	KindSales    Kind = "sales"
)

// CellView is the read model served to the cashier UI.
type CellView struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type cell struct {
	status Status
	err    string
}

// Tracker holds one independent status cell per operation kind.
// Transitions are linear for a given kind: idle to pending on dispatch,
// pending to fulfilled or rejected on completion. Rejected keeps the error
// until the next dispatch; prior data is never discarded here.
type Tracker struct {
	mu    sync.Mutex
	cells map[Kind]*cell
}

// NewTracker builds a tracker with every cell idle.
func NewTracker() *Tracker {
	return &Tracker{cells: map[Kind]*cell{}}
}

func (t *Tracker) cell(kind Kind) *cell {
	c, ok := t.cells[kind]
	if !ok {
		c = &cell{status: StatusIdle}
		t.cells[kind] = c
	}
	return c
}

// Begin moves the cell to pending. A cell already pending rejects the
// dispatch; this is the double-submission gate.
func (t *Tracker) Begin(kind Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.cell(kind)
	if c.status == StatusPending {
		return pkgerrors.New(pkgerrors.CodeConflict, string(kind)+" already in flight")
	}
	c.status = StatusPending
	c.err = ""
	return nil
}

// Resolve completes the pending operation. A nil error fulfills the cell
// and clears any prior error; a non-nil error rejects it and records the
// message for the UI.
func (t *Tracker) Resolve(kind Kind, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.cell(kind)
	if err == nil {
		c.status = StatusFulfilled
		c.err = ""
		return
	}
	c.status = StatusRejected
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		c.err = typed.Message()
	} else {
		c.err = err.Error()
	}
}

// Status reads one cell.
func (t *Tracker) Status(kind Kind) CellView {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.cell(kind)
	return CellView{Status: c.status, Error: c.err}
}

// Snapshot reads every tracked cell, materializing idle cells for the
// known kinds so the UI always sees the full set.
func (t *Tracker) Snapshot() map[Kind]CellView {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := map[Kind]CellView{}
	for _, kind := range []Kind{KindCheckout, KindProducts, KindBrands, KindSales} {
		c := t.cell(kind)
		view[kind] = CellView{Status: c.status, Error: c.err}
	}
	return view
}

// Registry hands out one tracker per register.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewRegistry builds an empty tracker registry.
func NewRegistry() *Registry {
	return &Registry{trackers: map[string]*Tracker{}}
}

// ForRegister returns the register's tracker, creating it on first use.
func (r *Registry) ForRegister(registerID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[registerID]
	if !ok {
		t = NewTracker()
		r.trackers[registerID] = t
	}
	return t
}
