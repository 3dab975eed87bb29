package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	_ "modernc.org/sqlite"
)

// Store persists likes and comments keyed by article URL. The feed pipeline
// only reads aggregates from it; writes arrive through the interactions
// endpoint.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the sqlite database at dbPath and ensures
// the schema exists.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT,
			article_url TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_interactions_article_url
			ON interactions(article_url);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Add inserts a like or comment.
func (s *Store) Add(ctx context.Context, interaction models.Interaction) error {
	if interaction.Type != models.InteractionLike && interaction.Type != models.InteractionComment {
		return fmt.Errorf("unknown interaction type %q", interaction.Type)
	}

	createdAt := interaction.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interactions (user_id, article_url, type, content, created_at) VALUES (?, ?, ?, ?, ?)",
		interaction.UserID, interaction.ArticleURL, interaction.Type, interaction.Content, createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}

	return nil
}

// FindByURL returns all interactions for an article URL in creation order.
func (s *Store) FindByURL(ctx context.Context, articleURL string) ([]models.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, article_url, type, content, created_at FROM interactions WHERE article_url = ? ORDER BY created_at, id",
		articleURL,
	)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var interactions []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var userID, content sql.NullString
		if err := rows.Scan(&in.ID, &userID, &in.ArticleURL, &in.Type, &content, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in.UserID = userID.String
		in.Content = content.String
		interactions = append(interactions, in)
	}

	return interactions, rows.Err()
}

// Ping reports whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
