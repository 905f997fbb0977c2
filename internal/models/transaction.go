package models

import "time"

// Transaction records one completed purchase. Rows are append-only and
// never mutated after creation.
type Transaction struct {
	ID         int       `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	MachineID  int       `json:"machine_id"`
	CustomerID int       `json:"customer_id"`
	ProductID  int       `json:"product_id"`
	Row        int       `json:"row"`
	Col        int       `json:"col"`
}
