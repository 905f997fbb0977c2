package models

// Product represents an item sold by the vending machines. Price is in
// minor currency units and never fractional. Instances are immutable once
// created; price or active changes replace the stored row.
type Product struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Active bool   `json:"active"`
}
