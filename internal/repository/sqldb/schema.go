package sqldb

import (
	"context"
	"fmt"
	"strings"

	"libraryapi/internal/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id {{pk}},
		names VARCHAR(150) NOT NULL,
		last_names VARCHAR(150) NOT NULL,
		identification VARCHAR(200),
		photo VARCHAR(500)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id {{pk}},
		title VARCHAR(150) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS author_books (
		author_id BIGINT NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
		book_id BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (author_id, book_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_author_books_book ON author_books (book_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		id {{pk}},
		email VARCHAR(256) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		birth_date TIMESTAMP NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS user_claims (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		claim_type VARCHAR(100) NOT NULL,
		claim_value VARCHAR(256) NOT NULL,
		PRIMARY KEY (user_id, claim_type)
	)`,
}

func (d Dialect) primaryKey() string {
	if d == Postgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Migrate creates the catalog tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	c := d.conn()
	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{pk}}", d.dialect.primaryKey())
		if _, err := c.exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	d.logger.Info("catalog schema ready", logger.Int("statements", len(schema)))
	return nil
}
