// Package credstore keeps the broker client id and access token in a local sqlite file.
package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id           INTEGER PRIMARY KEY,
	client_id    TEXT NOT NULL,
	access_token TEXT NOT NULL
);`

// Credentials are opaque to this package.
type Credentials struct {
	ClientID    string
	AccessToken string
}

// Masked shows only the last four characters of the token.
func (c Credentials) Masked() string {
	tok := c.AccessToken
	if len(tok) > 4 {
		tok = "****" + tok[len(tok)-4:]
	}
	return fmt.Sprintf("client_id=%s access_token=%s", c.ClientID, tok)
}

type Store struct {
	db *sql.DB
}

// Open creates the file and table if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init credentials schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the single stored credential row.
func (s *Store) Save(ctx context.Context, c Credentials) error {
	if c.ClientID == "" || c.AccessToken == "" {
		return errors.New("client id and access token are required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO credentials (id, client_id, access_token) VALUES (1, ?, ?)`,
		c.ClientID, c.AccessToken)
	return err
}

// Get returns ok=false when nothing has been saved.
func (s *Store) Get(ctx context.Context) (Credentials, bool, error) {
	var c Credentials
	err := s.db.QueryRowContext(ctx,
		`SELECT client_id, access_token FROM credentials WHERE id = 1`).Scan(&c.ClientID, &c.AccessToken)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, err
	}
	return c, true, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads saved credentials without creating the database file.
func Load(ctx context.Context, path string) (Credentials, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Credentials{}, false, nil
	}
	s, err := Open(path)
	if err != nil {
		return Credentials{}, false, err
	}
	defer s.Close()
	return s.Get(ctx)
}
