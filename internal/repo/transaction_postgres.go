package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) Create(t models.Transaction) (models.Transaction, error) {
	query := `INSERT INTO transactions (timestamp, machine_id, customer_id, product_id, slot_row, slot_col)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query,
		t.Timestamp, t.MachineID, t.CustomerID, t.ProductID, t.Row, t.Col).Scan(&t.ID)
	return t, err
}

func (r *PostgresTransactionRepository) GetByCustomerID(customerID int) ([]models.Transaction, error) {
	query := `SELECT id, timestamp, machine_id, customer_id, product_id, slot_row, slot_col
		FROM transactions WHERE customer_id = $1 ORDER BY timestamp`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.MachineID, &t.CustomerID, &t.ProductID, &t.Row, &t.Col); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *PostgresTransactionRepository) CountByProduct() (map[int]int, error) {
	query := `SELECT product_id, COUNT(*) FROM transactions GROUP BY product_id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var productID, count int
		if err := rows.Scan(&productID, &count); err != nil {
			return nil, err
		}
		counts[productID] = count
	}
	return counts, rows.Err()
}
