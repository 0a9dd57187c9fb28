package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// ImportLogRepository handles database operations for import logs
type ImportLogRepository struct {
	db *sql.DB
}

// NewImportLogRepository creates a new import log repository
func NewImportLogRepository(db *sql.DB) *ImportLogRepository {
	return &ImportLogRepository{db: db}
}

// Insert stores one import event and sets its ID
func (r *ImportLogRepository) Insert(l *models.ImportLog) error {
	result, err := r.db.Exec(
		`INSERT INTO import_logs (method, count, total_miles, created_at) VALUES (?, ?, ?, ?)`,
		l.Method, l.Count, l.TotalMiles, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get import log id: %w", err)
	}
	l.ID = id
	return nil
}

// Summary aggregates imports per method
func (r *ImportLogRepository) Summary() ([]models.ImportSummary, error) {
	rows, err := r.db.Query(`
		SELECT method, COUNT(*), COALESCE(SUM(count), 0), COALESCE(SUM(total_miles), 0)
		FROM import_logs
		GROUP BY method
		ORDER BY method`)
	if err != nil {
		return nil, fmt.Errorf("failed to query import summary: %w", err)
	}
	defer rows.Close()

	var out []models.ImportSummary
	for rows.Next() {
		var s models.ImportSummary
		if err := rows.Scan(&s.Method, &s.Imports, &s.Activities, &s.TotalMiles); err != nil {
			return nil, fmt.Errorf("failed to scan import summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import summary: %w", err)
	}
	return out, nil
}
