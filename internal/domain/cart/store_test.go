package cart

import (
	"math"
	"reflect"
	"testing"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
)

var (
	productA = product.Product{ID: 1, Name: "Product A", PriceCents: 500, PriceUSD: 5.00, Stock: 10}
	productB = product.Product{ID: 2, Name: "Product B", PriceCents: 350, PriceUSD: 3.50, Stock: 3}
	soldOut  = product.Product{ID: 3, Name: "Sold Out", PriceCents: 100, PriceUSD: 1.00, Stock: 0}
)

func assertTotalsConsistent(t *testing.T, s *Store) {
	t.Helper()

	var wantItems uint32
	var wantPrice float64
	for _, item := range s.Items() {
		wantItems += item.Quantity
		wantPrice += item.Product.PriceUSD * float64(item.Quantity)
	}

	totals := s.Totals()
	if totals.TotalItems != wantItems {
		t.Errorf("TotalItems = %d, want %d", totals.TotalItems, wantItems)
	}
	if math.Abs(totals.TotalPriceUSD-wantPrice) > 1e-9 {
		t.Errorf("TotalPriceUSD = %v, want %v", totals.TotalPriceUSD, wantPrice)
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	s := NewStore()

	s.AddItem(productA)
	s.AddItem(productA)
	s.AddItem(productB)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("got %d lines, want 2", len(items))
	}
	if items[0].Quantity != 2 {
		t.Errorf("product A quantity = %d, want 2", items[0].Quantity)
	}

	totals := s.Totals()
	if totals.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", totals.TotalItems)
	}
	if math.Abs(totals.TotalPriceUSD-13.50) > 1e-9 {
		t.Errorf("TotalPriceUSD = %v, want 13.50", totals.TotalPriceUSD)
	}
	assertTotalsConsistent(t, s)
}

func TestAddItemOutOfStockIsNoOp(t *testing.T) {
	s := NewStore()
	s.AddItem(productA)

	before := s.Items()
	if s.AddItem(soldOut) {
		t.Error("adding a zero-stock product reported success")
	}

	if !reflect.DeepEqual(before, s.Items()) {
		t.Error("cart state changed after adding a zero-stock product")
	}
	assertTotalsConsistent(t, s)
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	viaSet := NewStore()
	viaSet.AddItem(productA)
	viaSet.AddItem(productB)
	viaSet.SetQuantity(productA.ID, 0)

	viaRemove := NewStore()
	viaRemove.AddItem(productA)
	viaRemove.AddItem(productB)
	viaRemove.RemoveItem(productA.ID)

	if !reflect.DeepEqual(viaSet.Items(), viaRemove.Items()) {
		t.Errorf("SetQuantity(id, 0) and RemoveItem diverge: %+v vs %+v", viaSet.Items(), viaRemove.Items())
	}
	if viaSet.Totals() != viaRemove.Totals() {
		t.Errorf("totals diverge: %+v vs %+v", viaSet.Totals(), viaRemove.Totals())
	}
}

func TestRemoveItemDeletesWholeLine(t *testing.T) {
	s := NewStore()
	s.AddItem(productA)
	s.AddItem(productA)
	s.AddItem(productA)

	s.RemoveItem(productA.ID)

	if !s.IsEmpty() {
		t.Errorf("cart not empty after removing its only line: %+v", s.Items())
	}
	assertTotalsConsistent(t, s)
}

func TestSetQuantityOverwrites(t *testing.T) {
	s := NewStore()
	s.AddItem(productB)

	s.SetQuantity(productB.ID, 7)

	items := s.Items()
	if items[0].Quantity != 7 {
		t.Errorf("quantity = %d, want 7", items[0].Quantity)
	}
	assertTotalsConsistent(t, s)
}

func TestClearResetsTotals(t *testing.T) {
	s := NewStore()
	s.AddItem(productA)
	s.AddItem(productB)

	s.Clear()

	if !s.IsEmpty() {
		t.Error("cart not empty after Clear")
	}
	totals := s.Totals()
	if totals.TotalItems != 0 || totals.TotalPriceUSD != 0 {
		t.Errorf("totals not zero after Clear: %+v", totals)
	}
}

func TestTotalsHoldAcrossMutationSequences(t *testing.T) {
	s := NewStore()

	mutations := []func(){
		func() { s.AddItem(productA) },
		func() { s.AddItem(productB) },
		func() { s.AddItem(productA) },
		func() { s.SetQuantity(productB.ID, 5) },
		func() { s.AddItem(soldOut) },
		func() { s.RemoveItem(productA.ID) },
		func() { s.SetQuantity(productB.ID, 0) },
		func() { s.AddItem(productB) },
	}

	for _, mutate := range mutations {
		mutate()
		assertTotalsConsistent(t, s)
	}
}

func TestRestoreDropsZeroQuantityLines(t *testing.T) {
	s := Restore([]LineItem{
		{Product: productA, Quantity: 2},
		{Product: productB, Quantity: 0},
	})

	if len(s.Items()) != 1 {
		t.Fatalf("got %d lines, want 1", len(s.Items()))
	}
	if s.Totals().TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", s.Totals().TotalItems)
	}
}
