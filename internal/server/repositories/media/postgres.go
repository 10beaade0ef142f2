// Package media stores uploaded-object records in PostgreSQL.
package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/memoirapp/mediakit/internal/dbx"
	"github.com/memoirapp/mediakit/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Media) (*models.Media, error) {

	query :=
		`INSERT INTO media (user_id, media_type, title, media_url, thumbnail_url, description, owning_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		m.UserID, m.MediaType, m.Title, m.MediaURL, m.ThumbnailURL, m.Description, m.OwningID).
		Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

// whereClause builds the filter predicate shared by List's count and page
// queries. Placeholders start at $1 for user_id.
func whereClause(filter models.MediaFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{}

	n := 2
	if filter.OwningID != "" {
		conds = append(conds, "owning_id = $"+strconv.Itoa(n))
		args = append(args, filter.OwningID)
		n++
	}
	if filter.MediaType != "" {
		conds = append(conds, "media_type = $"+strconv.Itoa(n))
		args = append(args, filter.MediaType)
		n++
	}

	return strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.MediaFilter, page, pageSize int) ([]models.Media, int, error) {

	where, filterArgs := whereClause(filter)
	args := append([]any{userID}, filterArgs...)

	var total int
	countQuery := `SELECT COUNT(*) FROM media WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	offset := (page - 1) * pageSize
	pageQuery := fmt.Sprintf(
		`SELECT id, user_id, media_type, title, media_url, thumbnail_url, description, owning_id, created_at
		 FROM media WHERE %s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Media
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.UserID, &m.MediaType, &m.Title, &m.MediaURL,
			&m.ThumbnailURL, &m.Description, &m.OwningID, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM media WHERE user_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
