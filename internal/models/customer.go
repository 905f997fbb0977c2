package models

import "math"

// CashCustomerID is the sentinel identity shared by all anonymous cash
// customers.
const CashCustomerID = math.MaxInt32

// CashCustomerName is the name by which cash customers are known.
const CashCustomerName = "Anonymous"

// Customer represents an account-backed purchaser. Balance is in minor
// currency units and must never go negative.
type Customer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

// NewCashCustomer returns the anonymous cash customer. Its balance starts
// at zero and is topped up with whatever cash is inserted at the machine.
func NewCashCustomer() Customer {
	return Customer{ID: CashCustomerID, Name: CashCustomerName}
}

// IsCash reports whether the customer is an anonymous cash customer.
func (c Customer) IsCash() bool {
	return c.ID == CashCustomerID
}
