package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jengzang/runmap-backend-go/internal/database"
	"github.com/jengzang/runmap-backend-go/internal/models"
)

// ErrGroupIDTaken is returned by Create when the ID is already in use
var ErrGroupIDTaken = errors.New("group id already taken")

// GroupRepository handles database operations for saved activity groups
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a group. Activities are stored as their JSON wire shape.
// The ID check and insert run in one transaction.
func (r *GroupRepository) Create(g *models.Group) error {
	activities, err := json.Marshal(g.Activities)
	if err != nil {
		return fmt.Errorf("failed to encode activities: %w", err)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM activity_groups WHERE id = ?`, g.ID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check group id: %w", err)
		}
		if n > 0 {
			return ErrGroupIDTaken
		}

		_, err := tx.Exec(
			`INSERT INTO activity_groups (id, name, activities, created_at) VALUES (?, ?, ?, ?)`,
			g.ID, g.Name, string(activities), g.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return nil
	})
}

// GetByID returns the group, or nil when it does not exist
func (r *GroupRepository) GetByID(id string) (*models.Group, error) {
	var g models.Group
	var activities string
	err := r.db.QueryRow(
		`SELECT id, name, activities, created_at FROM activity_groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name, &activities, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := json.Unmarshal([]byte(activities), &g.Activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities of group %s: %w", id, err)
	}
	return &g, nil
}
