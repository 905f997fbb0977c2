package vending

import (
	"fmt"
	"sort"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// FrequentlyPurchased returns the products the customer has bought most
// often that are still stocked somewhere in the machine's current layout,
// ordered by purchase count descending. Discontinued products are
// excluded even if historically popular. Ties break on ascending product
// ID so the order is deterministic.
func (s *PurchaseService) FrequentlyPurchased(machineID, customerID int) ([]models.Product, error) {
	machine, err := s.machines.GetByID(machineID)
	if err != nil {
		return nil, fmt.Errorf("fetching machine %d: %w", machineID, err)
	}
	transactions, err := s.transactions.GetByCustomerID(customerID)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions for customer %d: %w", customerID, err)
	}

	stocked := make(map[int]models.Product)
	for _, row := range machine.Current.Slots {
		for _, slot := range row {
			if slot.Product != nil && slot.Quantity > 0 && slot.Product.Active {
				stocked[slot.Product.ID] = *slot.Product
			}
		}
	}

	counts := make(map[int]int)
	for _, t := range transactions {
		if _, ok := stocked[t.ProductID]; ok {
			counts[t.ProductID]++
		}
	}

	favorites := make([]models.Product, 0, len(counts))
	for id := range counts {
		favorites = append(favorites, stocked[id])
	}
	sort.Slice(favorites, func(i, j int) bool {
		ci, cj := counts[favorites[i].ID], counts[favorites[j].ID]
		if ci != cj {
			return ci > cj
		}
		return favorites[i].ID < favorites[j].ID
	})
	return favorites, nil
}
