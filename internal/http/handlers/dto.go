package handlers

import "github.com/rogerio-castellano/vending-fleet/internal/vending"

type ProductResponse struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Active bool   `json:"active"`
}

type MachineResponse struct {
	Id      int    `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Active  bool   `json:"active"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Depth   int    `json:"depth"`
}

// LayoutResponse is the customer-facing grid; empty, sold-out, and
// inactive slots come back as nulls.
type LayoutResponse struct {
	Items [][]*ProductResponse `json:"items"`
}

type PurchaseRequest struct {
	CustomerID int `json:"customer_id,omitempty"` // omit for cash customers
	Row        int `json:"row"`
	Col        int `json:"col"`
}

type PurchaseByProductRequest struct {
	CustomerID int `json:"customer_id,omitempty"`
	ProductID  int `json:"product_id"`
}

type PurchaseResponse struct {
	TransactionID int    `json:"transaction_id"`
	ProductID     int    `json:"product_id"`
	ProductName   string `json:"product_name"`
	PricePaid     int    `json:"price_paid"`
	Balance       int    `json:"balance"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
}

type BalanceResponse struct {
	CustomerID int `json:"customer_id"`
	Balance    int `json:"balance"`
}

type StageChangeRequest struct {
	Row       int  `json:"row"`
	Col       int  `json:"col"`
	ProductID *int `json:"product_id"` // null clears the slot
}

type SessionResponse struct {
	SessionID    string                `json:"session_id"`
	MachineID    int                   `json:"machine_id"`
	State        string                `json:"state"`
	Instructions []vending.Instruction `json:"instructions"`
}

type CommitResponse struct {
	Committed bool   `json:"committed"`
	State     string `json:"state"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
