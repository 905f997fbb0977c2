package repo

type MostPurchasedProduct struct {
	Name          string `json:"name"`
	PurchaseCount int    `json:"purchase_count"`
}

type Metrics struct {
	TotalMachines        int                  `json:"total_machines"`
	TotalProducts        int                  `json:"total_products"`
	TotalTransactions    int                  `json:"total_transactions"`
	SoldOutSlotCount     int                  `json:"sold_out_slot_count"`
	MostPurchasedProduct MostPurchasedProduct `json:"most_purchased_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
