package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const vehicleColumns = `id, make, model, year, fuel_type, horsepower, door_count, body_style,
	created_at, updated_at`

func (s *PostgresStore) CreateVehicle(ctx context.Context, v *Vehicle) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO vehicles (make, model, year, fuel_type, horsepower, door_count, body_style)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		v.Make, v.Model, v.Year, v.FuelType, v.Horsepower, v.DoorCount, v.BodyStyle,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (s *PostgresStore) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	v := &Vehicle{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles WHERE id = $1`, id,
	).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.FuelType, &v.Horsepower, &v.DoorCount, &v.BodyStyle,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVehicles returns catalog entries in insertion order. With a zero-value
// filter it returns the whole catalog: the scoring pipeline depends on seeing
// every vehicle in a stable order, so no implicit limit is applied.
func (s *PostgresStore) ListVehicles(ctx context.Context, filter VehicleFilter) ([]*Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.FuelType != "" {
		n++
		query += fmt.Sprintf(" AND fuel_type = $%d", n)
		args = append(args, filter.FuelType)
	}
	if filter.BodyStyle != "" {
		n++
		query += fmt.Sprintf(" AND body_style = $%d", n)
		args = append(args, filter.BodyStyle)
	}
	if filter.MinHorsepower != nil {
		n++
		query += fmt.Sprintf(" AND horsepower >= $%d", n)
		args = append(args, *filter.MinHorsepower)
	}
	if filter.MaxHorsepower != nil {
		n++
		query += fmt.Sprintf(" AND horsepower <= $%d", n)
		args = append(args, *filter.MaxHorsepower)
	}
	if filter.DoorCount != nil {
		n++
		query += fmt.Sprintf(" AND door_count = $%d", n)
		args = append(args, *filter.DoorCount)
	}
	if filter.Year != nil {
		n++
		query += fmt.Sprintf(" AND year = $%d", n)
		args = append(args, *filter.Year)
	}

	query += " ORDER BY created_at ASC, id ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func (s *PostgresStore) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	return err
}

// ReplaceVehicles swaps the entire catalog in one transaction and returns the
// number of vehicles inserted. Used by catalog sync; a failed sync leaves the
// previous catalog intact.
func (s *PostgresStore) ReplaceVehicles(ctx context.Context, vehicles []*Vehicle) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin catalog swap: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM vehicles`); err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}

	for _, v := range vehicles {
		if err := tx.QueryRow(ctx, `
			INSERT INTO vehicles (make, model, year, fuel_type, horsepower, door_count, body_style)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			v.Make, v.Model, v.Year, v.FuelType, v.Horsepower, v.DoorCount, v.BodyStyle,
		).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return 0, fmt.Errorf("insert vehicle %s: %w", v.Label(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit catalog swap: %w", err)
	}
	return len(vehicles), nil
}

func (s *PostgresStore) CountVehicles(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count)
	return count, err
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM vehicles),
			(SELECT COUNT(*) FROM recommendations),
			(SELECT COALESCE(SUM(CASE WHEN NOT consistent THEN 1 ELSE 0 END), 0) FROM recommendations),
			(SELECT COALESCE(AVG(duration_ms), 0) FROM recommendations)`,
	).Scan(&stats.TotalVehicles, &stats.TotalRecommendations, &stats.InconsistentRecommendations, &stats.AvgDurationMs)
	return stats, err
}

func scanVehicles(rows pgx.Rows) ([]*Vehicle, error) {
	var vehicles []*Vehicle
	for rows.Next() {
		v := &Vehicle{}
		if err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.FuelType, &v.Horsepower, &v.DoorCount, &v.BodyStyle,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
