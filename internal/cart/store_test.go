package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const register = "reg-1"

func cola() Product {
	return Product{
		ID:        "p-cola",
		Name:      "Cola",
		SellPrice: decimal.NewFromInt(10),
		NetPrice:  decimal.NewFromInt(8),
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	store := NewStore()

	store.AddItem(register, cola())
	session := store.AddItem(register, cola())

	require.Len(t, session.Lines, 1)
	require.Equal(t, 2, session.Lines[0].Quantity)
}

func TestAddItemDoesNotRefreshEditedPrice(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())
	store.SetPrice(register, "p-cola", decimal.NewFromInt(12))

	session := store.AddItem(register, cola())

	require.Equal(t, 2, session.Lines[0].Quantity)
	require.True(t, session.Lines[0].Price.Equal(decimal.NewFromInt(12)),
		"increment must not reset the edited price, got %s", session.Lines[0].Price)
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())
	store.AddItem(register, Product{ID: "p-bread", Name: "Bread", SellPrice: decimal.NewFromInt(5), NetPrice: decimal.NewFromInt(5)})
	session := store.AddItem(register, cola())

	require.Len(t, session.Lines, 2)
	require.Equal(t, "p-cola", session.Lines[0].ProductID)
	require.Equal(t, "p-bread", session.Lines[1].ProductID)
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())

	session := store.RemoveItem(register, "nope")
	require.Len(t, session.Lines, 1)

	session = store.RemoveItem(register, "p-cola")
	require.Empty(t, session.Lines)
}

func TestChangeQuantityFloorsAtOne(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())

	session := store.ChangeQuantity(register, "p-cola", 4)
	require.Equal(t, 5, session.Lines[0].Quantity)

	session = store.ChangeQuantity(register, "p-cola", -1000)
	require.Len(t, session.Lines, 1, "line must survive a large negative delta")
	require.Equal(t, 1, session.Lines[0].Quantity)
}

func TestSetQuantityFloorsAtOne(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())

	session := store.SetQuantity(register, "p-cola", 7)
	require.Equal(t, 7, session.Lines[0].Quantity)

	session = store.SetQuantity(register, "p-cola", 0)
	require.Equal(t, 1, session.Lines[0].Quantity)

	session = store.SetQuantity(register, "p-cola", -3)
	require.Equal(t, 1, session.Lines[0].Quantity)
}

func TestClearKeepsPaidAmountResetAfterSaleClearsAll(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())
	store.SetPaidAmount(register, "15")
	store.SetNameOverride(register, "Sara")

	session := store.Clear(register)
	require.Empty(t, session.Lines)
	require.Equal(t, "15", session.PaidAmount)
	require.Equal(t, "Sara", session.NameOverride)

	store.AddItem(register, cola())
	session = store.ResetAfterSale(register)
	require.Empty(t, session.Lines)
	require.Empty(t, session.PaidAmount)
	require.Empty(t, session.NameOverride)
}

func TestRegistersAreIsolated(t *testing.T) {
	store := NewStore()
	store.AddItem("reg-a", cola())

	session := store.Snapshot("reg-b")
	require.Empty(t, session.Lines)
}

func TestSnapshotDoesNotAliasLiveState(t *testing.T) {
	store := NewStore()
	store.AddItem(register, cola())

	session := store.Snapshot(register)
	session.Lines[0].Quantity = 99

	require.Equal(t, 1, store.Snapshot(register).Lines[0].Quantity)
}
