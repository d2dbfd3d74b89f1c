package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/jackc/pgx/v5"
)

// RecordRun stores a finished run and its strike points in one transaction.
func (r *Repository) RecordRun(ctx context.Context, record models.RunRecord) error {
	query := `
		INSERT INTO runs (
			run_id, status, error,
			launch_lat, launch_lon, aim_lat, aim_lon, sim_aim_lat, sim_aim_lon,
			strike_count, cep_m, started_at, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(ctx, query,
		record.RunID, string(record.Status), record.Error,
		record.Launchpoint.LatPtr(), record.Launchpoint.LonPtr(),
		record.Aimpoint.LatPtr(), record.Aimpoint.LonPtr(),
		record.SimAimpoint.LatPtr(), record.SimAimpoint.LonPtr(),
		record.StrikeCount, record.CEPMeters, record.StartedAt, record.Duration.Milliseconds(),
	)
	if err != nil {
		r.rollback(ctx, tx)
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(record.Strikepoints) > 0 {
		rows := make([][]any, len(record.Strikepoints))
		for i, p := range record.Strikepoints {
			rows[i] = []any{record.RunID, i, p.Latitude, p.Longitude}
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"strike_points"},
			[]string{"run_id", "idx", "latitude", "longitude"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			r.rollback(ctx, tx)
			return fmt.Errorf("failed to insert strike points: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	r.log.DebugContext(ctx, "Run recorded", "run", record.RunID, "status", record.Status,
		"strikepoints", len(record.Strikepoints))

	return nil
}

func (r *Repository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to roll back transaction", "error", err)
	}
}

// ListRuns returns the newest runs first, without their strike points.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	query := `
		SELECT
			run_id::text, status, error,
			launch_lat, launch_lon, aim_lat, aim_lon, sim_aim_lat, sim_aim_lon,
			strike_count, cep_m, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var (
			rec                  models.RunRecord
			status               string
			launchLat, launchLon *float64
			aimLat, aimLon       *float64
			simAimLat, simAimLon *float64
			durationMS           int64
		)
		errScan := rows.Scan(
			&rec.RunID, &status, &rec.Error,
			&launchLat, &launchLon, &aimLat, &aimLon, &simAimLat, &simAimLon,
			&rec.StrikeCount, &rec.CEPMeters, &rec.StartedAt, &durationMS,
		)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan run: %w", errScan)
		}

		rec.Status = models.RunStatus(status)
		rec.Launchpoint = models.GeoPointFromPtrs(launchLat, launchLon)
		rec.Aimpoint = models.GeoPointFromPtrs(aimLat, aimLon)
		rec.SimAimpoint = models.GeoPointFromPtrs(simAimLat, simAimLon)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return records, nil
}
