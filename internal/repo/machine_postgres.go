package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// PostgresMachineRepository stores layouts as JSONB so the whole machine
// lands in a single write.
type PostgresMachineRepository struct {
	db *sql.DB
}

func NewPostgresMachineRepository(db *sql.DB) *PostgresMachineRepository {
	return &PostgresMachineRepository{db: db}
}

func (r *PostgresMachineRepository) Create(m models.Machine) (models.Machine, error) {
	current, staging, err := marshalLayouts(m)
	if err != nil {
		return models.Machine{}, err
	}

	query := `INSERT INTO machines (street, city, state, zip_code, active, current_layout, staging_layout)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = r.db.QueryRowContext(ctx, query,
		m.Location.Street, m.Location.City, m.Location.State, m.Location.ZipCode,
		m.Active, current, staging).Scan(&m.ID)
	return m, err
}

func (r *PostgresMachineRepository) GetAll() ([]models.Machine, error) {
	query := `SELECT id, street, city, state, zip_code, active, current_layout, staging_layout FROM machines ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var machines []models.Machine
	for rows.Next() {
		m, err := scanMachine(rows.Scan)
		if err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

func (r *PostgresMachineRepository) GetByID(id int) (models.Machine, error) {
	query := `SELECT id, street, city, state, zip_code, active, current_layout, staging_layout FROM machines WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	m, err := scanMachine(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Machine{}, ErrMachineNotFound
	}
	return m, err
}

func (r *PostgresMachineRepository) Update(m models.Machine) (models.Machine, error) {
	current, staging, err := marshalLayouts(m)
	if err != nil {
		return models.Machine{}, err
	}

	query := `UPDATE machines SET street = $1, city = $2, state = $3, zip_code = $4, active = $5,
		current_layout = $6, staging_layout = $7 WHERE id = $8`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query,
		m.Location.Street, m.Location.City, m.Location.State, m.Location.ZipCode,
		m.Active, current, staging, m.ID)
	if err != nil {
		return models.Machine{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Machine{}, ErrMachineNotFound
	}
	return m, nil
}

func marshalLayouts(m models.Machine) ([]byte, []byte, error) {
	current, err := json.Marshal(m.Current)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling current layout: %w", err)
	}
	staging, err := json.Marshal(m.Staging)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling staging layout: %w", err)
	}
	return current, staging, nil
}

func scanMachine(scan func(...any) error) (models.Machine, error) {
	var m models.Machine
	var current, staging []byte
	err := scan(&m.ID, &m.Location.Street, &m.Location.City, &m.Location.State,
		&m.Location.ZipCode, &m.Active, &current, &staging)
	if err != nil {
		return models.Machine{}, err
	}
	if err := json.Unmarshal(current, &m.Current); err != nil {
		return models.Machine{}, fmt.Errorf("unmarshaling current layout: %w", err)
	}
	if err := json.Unmarshal(staging, &m.Staging); err != nil {
		return models.Machine{}, fmt.Errorf("unmarshaling staging layout: %w", err)
	}
	return m, nil
}
