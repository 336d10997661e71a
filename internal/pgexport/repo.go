package pgexport

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AUCSRepo persists composed per-cell scores to the aucs table.
type AUCSRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewAUCSRepo builds a repository bound to db, applying timeout per batch
// of rows (scaled the way premove_repo.go scales its batch timeout).
func NewAUCSRepo(db *sqlx.DB, timeout time.Duration) *AUCSRepo {
	return &AUCSRepo{db: db, timeout: timeout}
}

// UpsertBatch writes rows atomically, replacing any existing row for the
// same cell_id.
func (r *AUCSRepo) UpsertBatch(ctx context.Context, rows []AUCSRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(rows)/50+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO aucs (cell_id, aucs, ea, lca, muhaa, jea, morr, cte, sou, metro, param_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (cell_id) DO UPDATE SET
			aucs = EXCLUDED.aucs, ea = EXCLUDED.ea, lca = EXCLUDED.lca,
			muhaa = EXCLUDED.muhaa, jea = EXCLUDED.jea, morr = EXCLUDED.morr,
			cte = EXCLUDED.cte, sou = EXCLUDED.sou, metro = EXCLUDED.metro,
			param_hash = EXCLUDED.param_hash`)
	if err != nil {
		return fmt.Errorf("prepare aucs upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.CellID, row.AUCS, row.EA, row.LCA,
			row.MUHAA, row.JEA, row.MORR, row.CTE, row.SOU, row.Metro, row.ParamHash); err != nil {
			return fmt.Errorf("upsert aucs row %s: %w", row.CellID, err)
		}
	}
	return tx.Commit()
}

// SubscoresRawRepo persists pre-composition subscore values to the
// subscores_raw table.
type SubscoresRawRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewSubscoresRawRepo(db *sqlx.DB, timeout time.Duration) *SubscoresRawRepo {
	return &SubscoresRawRepo{db: db, timeout: timeout}
}

func (r *SubscoresRawRepo) UpsertBatch(ctx context.Context, rows []SubscoresRawRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(rows)/50+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscores_raw (cell_id, ea, lca, muhaa, jea, morr, cte, sou, metro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cell_id) DO UPDATE SET
			ea = EXCLUDED.ea, lca = EXCLUDED.lca, muhaa = EXCLUDED.muhaa,
			jea = EXCLUDED.jea, morr = EXCLUDED.morr, cte = EXCLUDED.cte,
			sou = EXCLUDED.sou, metro = EXCLUDED.metro`)
	if err != nil {
		return fmt.Errorf("prepare subscores_raw upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.CellID, row.EA, row.LCA, row.MUHAA,
			row.JEA, row.MORR, row.CTE, row.SOU, row.Metro); err != nil {
			return fmt.Errorf("upsert subscores_raw row %s: %w", row.CellID, err)
		}
	}
	return tx.Commit()
}

// ExplainabilityRepo persists ranked contributor rows to the
// explainability table. Rows are append-only: InsertBatch never deletes or
// updates, and nothing in this repo removes rows from an earlier export, so
// exporting the same cell/subscore pair again adds a second set of rows.
type ExplainabilityRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewExplainabilityRepo(db *sqlx.DB, timeout time.Duration) *ExplainabilityRepo {
	return &ExplainabilityRepo{db: db, timeout: timeout}
}

func (r *ExplainabilityRepo) InsertBatch(ctx context.Context, rows []ExplainabilityRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(rows)/50+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO explainability (cell_id, subscore, rank, amenity_id, category, mode, time_slice, contribution)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("prepare explainability insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.CellID, row.Subscore, row.Rank,
			row.AmenityID, row.Category, row.Mode, row.TimeSlice, row.Contribution); err != nil {
			return fmt.Errorf("insert explainability row %s/%s#%d: %w", row.CellID, row.Subscore, row.Rank, err)
		}
	}
	return tx.Commit()
}
