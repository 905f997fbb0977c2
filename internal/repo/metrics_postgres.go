package repo

import (
	"context"
	"database/sql"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m Metrics

	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM machines`).Scan(&m.TotalMachines)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&m.TotalProducts)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&m.TotalTransactions)

	_ = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM machines,
			jsonb_array_elements(current_layout->'slots') AS grid_row,
			jsonb_array_elements(grid_row) AS slot
		WHERE slot ? 'product' AND (slot->>'quantity')::int = 0
	`).Scan(&m.SoldOutSlotCount)

	_ = r.db.QueryRowContext(ctx, `
		SELECT p.name, COUNT(*) as cnt
		FROM transactions t
		JOIN products p ON t.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY cnt DESC, p.id
		LIMIT 1
	`).Scan(&m.MostPurchasedProduct.Name, &m.MostPurchasedProduct.PurchaseCount)

	return m, nil
}
