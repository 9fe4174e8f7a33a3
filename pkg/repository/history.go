package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dskvich/ai-assistant/pkg/database"
	"github.com/dskvich/ai-assistant/pkg/domain"
)

type historyRepository struct {
	db      *sql.DB
	dialect database.Dialect
	now     func() time.Time
}

func NewHistoryRepository(db *sql.DB, dialect database.Dialect) *historyRepository {
	return &historyRepository{
		db:      db,
		dialect: dialect,
		now:     time.Now,
	}
}

func (h *historyRepository) Save(ctx context.Context, r domain.SavedResponse) (int64, error) {
	query := h.rebind(`
		INSERT INTO saved_responses (kind, image_name, prompt, result, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = h.now().UTC()
	}

	var id int64
	if err := h.db.QueryRowContext(ctx, query, string(r.Kind), r.ImageName, r.Prompt, r.Result, createdAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("saving response: %w", err)
	}

	return id, nil
}

func (h *historyRepository) List(ctx context.Context) ([]domain.SavedResponse, error) {
	const query = `
		SELECT id, kind, image_name, prompt, result, created_at
		FROM saved_responses
		ORDER BY id
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	defer rows.Close()

	var responses []domain.SavedResponse
	for rows.Next() {
		var (
			r    domain.SavedResponse
			kind string
		)
		if err := rows.Scan(&r.ID, &kind, &r.ImageName, &r.Prompt, &r.Result, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning response: %w", err)
		}
		r.Kind = domain.ResponseKind(kind)
		responses = append(responses, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating responses: %w", err)
	}

	return responses, nil
}

func (h *historyRepository) GetByID(ctx context.Context, id int64) (*domain.SavedResponse, error) {
	query := h.rebind(`
		SELECT id, kind, image_name, prompt, result, created_at
		FROM saved_responses
		WHERE id = ?
	`)

	var (
		r    domain.SavedResponse
		kind string
	)
	err := h.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &kind, &r.ImageName, &r.Prompt, &r.Result, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching response by id: %w", err)
	}
	r.Kind = domain.ResponseKind(kind)

	return &r, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (h *historyRepository) rebind(query string) string {
	if h.dialect != database.Postgres {
		return query
	}

	var (
		sb strings.Builder
		n  int
	)
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
