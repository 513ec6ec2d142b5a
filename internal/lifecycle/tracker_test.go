package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
)

func TestBeginResolveFulfilled(t *testing.T) {
	tracker := NewTracker()

	require.Equal(t, StatusIdle, tracker.Status(KindCheckout).Status)

	require.NoError(t, tracker.Begin(KindCheckout))
	require.Equal(t, StatusPending, tracker.Status(KindCheckout).Status)

	tracker.Resolve(KindCheckout, nil)
	view := tracker.Status(KindCheckout)
	require.Equal(t, StatusFulfilled, view.Status)
	require.Empty(t, view.Error)
}

func TestRejectedKeepsErrorUntilRetry(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Begin(KindSales))
	tracker.Resolve(KindSales, pkgerrors.New(pkgerrors.CodeDependency, "upstream unavailable"))

	view := tracker.Status(KindSales)
	require.Equal(t, StatusRejected, view.Status)
	require.Equal(t, "upstream unavailable", view.Error)

	// Rejected is retryable: a new dispatch re-enters pending and clears
	// the stored error.
	require.NoError(t, tracker.Begin(KindSales))
	view = tracker.Status(KindSales)
	require.Equal(t, StatusPending, view.Status)
	require.Empty(t, view.Error)
}

func TestRejectedUsesPlainErrorMessage(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Begin(KindBrands))
	tracker.Resolve(KindBrands, errors.New("connection reset"))

	require.Equal(t, "connection reset", tracker.Status(KindBrands).Error)
}

func TestPendingRejectsSecondDispatch(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Begin(KindCheckout))
	err := tracker.Begin(KindCheckout)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCellsAreIndependent(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Begin(KindCheckout))
	require.NoError(t, tracker.Begin(KindProducts))
	tracker.Resolve(KindProducts, errors.New("nope"))

	require.Equal(t, StatusPending, tracker.Status(KindCheckout).Status)
	require.Equal(t, StatusRejected, tracker.Status(KindProducts).Status)
	require.Equal(t, StatusIdle, tracker.Status(KindSales).Status)
}

func TestSnapshotListsAllKinds(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Begin(KindCheckout))

	view := tracker.Snapshot()
	require.Len(t, view, 4)
	require.Equal(t, StatusPending, view[KindCheckout].Status)
	require.Equal(t, StatusIdle, view[KindBrands].Status)
}

func TestRegistryIsolatesRegisters(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.ForRegister("reg-a").Begin(KindCheckout))

	require.Equal(t, StatusIdle, registry.ForRegister("reg-b").Status(KindCheckout).Status)
	require.Same(t, registry.ForRegister("reg-a"), registry.ForRegister("reg-a"))
}
