package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/stencilworks/stencil/internal/bank"
	"github.com/stencilworks/stencil/internal/extract"
)

// Store is the SQLite-backed registry of categories, banks and saved
// templates. It is the persistence layer behind the extraction core: the
// core only emits bank-write instructions, the store applies them.
type Store struct {
	db   *sql.DB
	path string
}

// Template is a saved compilation artifact.
type Template struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id        TEXT PRIMARY KEY,
	label     TEXT NOT NULL,
	color_tag TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS banks (
	id          TEXT PRIMARY KEY,
	label       TEXT NOT NULL,
	category_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bank_options (
	bank_id     TEXT    NOT NULL,
	position    INTEGER NOT NULL,
	option_text TEXT    NOT NULL,
	PRIMARY KEY (bank_id, option_text)
);

CREATE TABLE IF NOT EXISTS templates (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// defaultCategories seed the taxonomy on first run so a fresh install can
// accept selections immediately.
var defaultCategories = []bank.Category{
	{ID: "character", Label: "Character", ColorTag: "violet"},
	{ID: "setting", Label: "Setting", ColorTag: "emerald"},
	{ID: "style", Label: "Style", ColorTag: "amber"},
	{ID: "item", Label: "Item", ColorTag: "sky"},
	{ID: extract.CategoryOther, Label: "Other", ColorTag: "slate"},
}

// Open creates or opens the registry database under dataDir.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "stencil.db")

	// WAL mode for better concurrency.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.seedCategories(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) seedCategories() error {
	for _, c := range defaultCategories {
		_, err := s.db.Exec(
			"INSERT INTO categories (id, label, color_tag) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING",
			c.ID, c.Label, c.ColorTag,
		)
		if err != nil {
			return fmt.Errorf("seeding category %s: %w", c.ID, err)
		}
	}
	return nil
}

// Categories returns all categories ordered by id.
func (s *Store) Categories(ctx context.Context) ([]bank.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, label, color_tag FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []bank.Category
	for rows.Next() {
		var c bank.Category
		if err := rows.Scan(&c.ID, &c.Label, &c.ColorTag); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryIDs returns the set of known category ids, used to validate
// selections at add time.
func (s *Store) CategoryIDs(ctx context.Context) (map[string]bool, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(cats))
	for _, c := range cats {
		ids[c.ID] = true
	}
	return ids, nil
}

// CreateCategory inserts a category. Creating an existing id is an error.
func (s *Store) CreateCategory(ctx context.Context, c bank.Category) error {
	if c.ID == "" {
		return fmt.Errorf("category id is required")
	}
	if c.Label == "" {
		c.Label = c.ID
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, label, color_tag) VALUES (?, ?, ?)",
		c.ID, c.Label, c.ColorTag,
	)
	if err != nil {
		return fmt.Errorf("creating category %s: %w", c.ID, err)
	}
	return nil
}

// Banks returns all banks with their options, ordered by bank id and option
// position.
func (s *Store) Banks(ctx context.Context) ([]bank.Bank, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, label, category_id FROM banks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying banks: %w", err)
	}
	defer rows.Close()

	var out []bank.Bank
	for rows.Next() {
		var b bank.Bank
		if err := rows.Scan(&b.ID, &b.Label, &b.CategoryID); err != nil {
			return nil, fmt.Errorf("scanning bank: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		opts, err := s.bankOptions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Options = opts
	}
	return out, nil
}

// Bank returns one bank with its options, or nil if absent.
func (s *Store) Bank(ctx context.Context, id string) (*bank.Bank, error) {
	var b bank.Bank
	err := s.db.QueryRowContext(ctx,
		"SELECT id, label, category_id FROM banks WHERE id = ?", id,
	).Scan(&b.ID, &b.Label, &b.CategoryID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying bank %s: %w", id, err)
	}
	opts, err := s.bankOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Options = opts
	return &b, nil
}

func (s *Store) bankOptions(ctx context.Context, bankID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT option_text FROM bank_options WHERE bank_id = ? ORDER BY position", bankID)
	if err != nil {
		return nil, fmt.Errorf("querying options for %s: %w", bankID, err)
	}
	defer rows.Close()

	opts := []string{}
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

// CommitCompile applies a compilation result in one transaction: for each
// bank write, create the bank if proposed and absent, then append the option
// only if not already present (idempotent merge); finally persist the
// compiled content as a saved template.
func (s *Store) CommitCompile(ctx context.Context, tmpl Template, writes []extract.BankWrite) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning commit: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		if w.BankID == "" {
			continue
		}
		if w.IsNewBank {
			label := w.BankName
			if label == "" {
				label = w.BankID
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO banks (id, label, category_id) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING",
				w.BankID, label, w.CategoryID,
			)
			if err != nil {
				return fmt.Errorf("creating bank %s: %w", w.BankID, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bank_options (bank_id, position, option_text)
			 VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM bank_options WHERE bank_id = ?), ?)
			 ON CONFLICT (bank_id, option_text) DO NOTHING`,
			w.BankID, w.BankID, w.OptionText,
		)
		if err != nil {
			return fmt.Errorf("appending option to %s: %w", w.BankID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO templates (id, title, content, created_at) VALUES (?, ?, ?, ?)",
		tmpl.ID, tmpl.Title, tmpl.Content, tmpl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving template %s: %w", tmpl.ID, err)
	}

	return tx.Commit()
}

// Templates returns saved templates, newest first.
func (s *Store) Templates(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, content, created_at FROM templates ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Template returns one saved template, or nil if absent.
func (s *Store) Template(ctx context.Context, id string) (*Template, error) {
	var t Template
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, created_at FROM templates WHERE id = ?", id,
	).Scan(&t.ID, &t.Title, &t.Content, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying template %s: %w", id, err)
	}
	return &t, nil
}
