package idea

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists ideas.
type Repository interface {
	Create(ctx context.Context, idea Idea) error
	List(ctx context.Context) ([]Idea, error)
}

// PostgresRepository stores ideas in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an idea record.
func (r *PostgresRepository) Create(ctx context.Context, idea Idea) error {
	ideaID, err := uuid.Parse(idea.ID)
	if err != nil {
		return err
	}
	authorID, err := uuid.Parse(idea.AuthorID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO ideas (id, title, content, tags, author_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		ideaID, idea.Title, idea.Content, idea.Tags, authorID, idea.CreatedAt.UTC())
	return err
}

// List returns all ideas, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Idea, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, content, tags, author_id, created_at
        FROM ideas ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []Idea
	for rows.Next() {
		var (
			id        uuid.UUID
			authorID  uuid.UUID
			createdAt time.Time
			i         Idea
		)
		if err := rows.Scan(&id, &i.Title, &i.Content, &i.Tags, &authorID, &createdAt); err != nil {
			return nil, err
		}
		i.ID = id.String()
		i.AuthorID = authorID.String()
		i.CreatedAt = createdAt.UTC()
		ideas = append(ideas, i)
	}
	return ideas, rows.Err()
}
