package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recommendationColumns = `id, client_id,
	preferences, pairwise_matrix, fuel_scores, body_style_scores,
	weights, lambda_max, consistency_index, consistency_ratio, consistent,
	vehicle_count, results, reason, duration_ms, created_at`

func (s *PostgresStore) CreateRecommendation(ctx context.Context, rec *Recommendation) error {
	preferencesJSON, _ := json.Marshal(rec.Preferences)
	matrixJSON, _ := json.Marshal(rec.PairwiseMatrix)
	fuelJSON, _ := json.Marshal(rec.FuelScores)
	bodyJSON, _ := json.Marshal(rec.BodyStyleScores)
	weightsJSON, _ := json.Marshal(rec.Weights)
	resultsJSON, _ := json.Marshal(rec.Results)

	return s.pool.QueryRow(ctx, `
		INSERT INTO recommendations (client_id,
			preferences, pairwise_matrix, fuel_scores, body_style_scores,
			weights, lambda_max, consistency_index, consistency_ratio, consistent,
			vehicle_count, results, reason, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`,
		nullString(rec.ClientID),
		preferencesJSON, matrixJSON, fuelJSON, bodyJSON,
		weightsJSON, rec.LambdaMax, rec.ConsistencyIndex, rec.ConsistencyRatio, rec.Consistent,
		rec.VehicleCount, resultsJSON, nullString(rec.Reason), rec.DurationMs,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *PostgresStore) GetRecommendation(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+recommendationColumns+`
		FROM recommendations WHERE id = $1`, id)
	rec, err := scanRecommendation(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) ListRecommendations(ctx context.Context, filter RecommendationFilter) ([]*Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.ClientID != "" {
		n++
		query += fmt.Sprintf(" AND client_id = $%d", n)
		args = append(args, filter.ClientID)
	}
	if filter.Consistent != nil {
		n++
		query += fmt.Sprintf(" AND consistent = $%d", n)
		args = append(args, *filter.Consistent)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

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

	var recs []*Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanRecommendation(row pgx.Row) (*Recommendation, error) {
	rec := &Recommendation{}
	var clientID, reason *string
	var preferencesJSON, matrixJSON, fuelJSON, bodyJSON, weightsJSON, resultsJSON []byte

	err := row.Scan(
		&rec.ID, &clientID,
		&preferencesJSON, &matrixJSON, &fuelJSON, &bodyJSON,
		&weightsJSON, &rec.LambdaMax, &rec.ConsistencyIndex, &rec.ConsistencyRatio, &rec.Consistent,
		&rec.VehicleCount, &resultsJSON, &reason, &rec.DurationMs, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientID != nil {
		rec.ClientID = *clientID
	}
	if reason != nil {
		rec.Reason = *reason
	}
	if preferencesJSON != nil {
		_ = json.Unmarshal(preferencesJSON, &rec.Preferences)
	}
	if matrixJSON != nil {
		_ = json.Unmarshal(matrixJSON, &rec.PairwiseMatrix)
	}
	if fuelJSON != nil {
		_ = json.Unmarshal(fuelJSON, &rec.FuelScores)
	}
	if bodyJSON != nil {
		_ = json.Unmarshal(bodyJSON, &rec.BodyStyleScores)
	}
	if weightsJSON != nil {
		_ = json.Unmarshal(weightsJSON, &rec.Weights)
	}
	if resultsJSON != nil {
		_ = json.Unmarshal(resultsJSON, &rec.Results)
	}
	return rec, nil
}
