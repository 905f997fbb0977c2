package vending

import (
	"testing"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

func recordPurchases(t *testing.T, f *fleet, productID, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		_, err := f.transactions.Create(models.Transaction{
			MachineID:  f.machineID,
			CustomerID: f.customerID,
			ProductID:  productID,
		})
		if err != nil {
			t.Fatalf("recording transaction: %v", err)
		}
	}
}

func TestFrequentlyPurchased_OrdersByCount(t *testing.T) {
	f := newTestFleet(t, 200)

	// Stock soda so it counts; it starts sold out in the fixture.
	machine, _ := f.machines.GetByID(f.machineID)
	machine.Current.At(models.Position{Row: 0, Col: 1}).Quantity = 4
	if _, err := f.machines.Update(machine); err != nil {
		t.Fatalf("updating machine: %v", err)
	}

	recordPurchases(t, f, chips.ID, 2)
	recordPurchases(t, f, soda.ID, 5)

	favorites, err := f.svc.FrequentlyPurchased(f.machineID, f.customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(favorites) != 2 {
		t.Fatalf("expected 2 products, got %d", len(favorites))
	}
	if favorites[0].ID != soda.ID || favorites[1].ID != chips.ID {
		t.Errorf("expected [Soda Chips], got [%s %s]", favorites[0].Name, favorites[1].Name)
	}
}

func TestFrequentlyPurchased_TiesBreakOnProductID(t *testing.T) {
	f := newTestFleet(t, 200)

	machine, _ := f.machines.GetByID(f.machineID)
	machine.Current.At(models.Position{Row: 0, Col: 1}).Quantity = 4
	if _, err := f.machines.Update(machine); err != nil {
		t.Fatalf("updating machine: %v", err)
	}

	recordPurchases(t, f, soda.ID, 3)
	recordPurchases(t, f, chips.ID, 3)

	favorites, err := f.svc.FrequentlyPurchased(f.machineID, f.customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal counts: the lower product ID wins.
	if len(favorites) != 2 || favorites[0].ID != chips.ID {
		t.Fatalf("expected Chips first on the tie, got %+v", favorites)
	}
}

func TestFrequentlyPurchased_ExcludesUnstocked(t *testing.T) {
	f := newTestFleet(t, 200)

	// Soda stays sold out and gum is discontinued, but both have
	// purchase history.
	recordPurchases(t, f, chips.ID, 1)
	recordPurchases(t, f, soda.ID, 10)
	recordPurchases(t, f, gum.ID, 7)
	recordPurchases(t, f, 42, 4) // product no longer in any slot

	favorites, err := f.svc.FrequentlyPurchased(f.machineID, f.customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(favorites) != 1 || favorites[0].ID != chips.ID {
		t.Fatalf("expected only Chips, got %+v", favorites)
	}
}

func TestFrequentlyPurchased_NoHistory(t *testing.T) {
	f := newTestFleet(t, 200)

	favorites, err := f.svc.FrequentlyPurchased(f.machineID, f.customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("expected no favorites, got %+v", favorites)
	}
}
