package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/lyst/internal/app"
	"github.com/hylla/lyst/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS lists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			list_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			checked INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(list_id) REFERENCES lists(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_list_order ON items(list_id, sort_order);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateList creates list.
func (r *Repository) CreateList(ctx context.Context, l domain.List) (domain.List, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO lists(title, created_at, updated_at)
		VALUES (?, ?, ?)
	`, l.Title, ts(l.CreatedAt), ts(l.UpdatedAt))
	if err != nil {
		return domain.List{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.List{}, err
	}
	l.ID = id
	return l, nil
}

// UpdateList updates state for the requested operation.
func (r *Repository) UpdateList(ctx context.Context, l domain.List) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lists
		SET title = ?, updated_at = ?
		WHERE id = ?
	`, l.Title, ts(l.UpdatedAt), l.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// UpsertList writes a list under its explicit id, updating the row when it already exists.
func (r *Repository) UpsertList(ctx context.Context, l domain.List) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lists(id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, l.ID, l.Title, ts(l.CreatedAt), ts(l.UpdatedAt))
	return err
}

// GetList returns list.
func (r *Repository) GetList(ctx context.Context, id int64) (domain.List, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM lists
		WHERE id = ?
	`, id)
	return scanList(row)
}

// FindListByTitle returns the oldest list carrying the exact title.
func (r *Repository) FindListByTitle(ctx context.Context, title string) (domain.List, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM lists
		WHERE title = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, title)
	return scanList(row)
}

// ListLists lists lists.
func (r *Repository) ListLists(ctx context.Context) ([]domain.List, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM lists
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.List{}
	for rows.Next() {
		var (
			l          domain.List
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&l.ID, &l.Title, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		l.CreatedAt = parseTS(createdRaw)
		l.UpdatedAt = parseTS(updatedRaw)
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteList deletes list.
func (r *Repository) DeleteList(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Items are removed explicitly so the delete does not depend on the connection's
	// foreign_keys pragma state.
	if _, err = tx.ExecContext(ctx, `DELETE FROM items WHERE list_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err = translateNoRows(res); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// CreateItem creates item, bumping the parent list's updated_at in the same transaction.
func (r *Repository) CreateItem(ctx context.Context, it domain.Item) (domain.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Item{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, ts(it.UpdatedAt), it.ListID)
	if err != nil {
		return domain.Item{}, err
	}
	if err = translateNoRows(res); err != nil {
		return domain.Item{}, err
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO items(list_id, text, checked, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, it.ListID, it.Text, it.Checked, it.SortOrder, ts(it.CreatedAt), ts(it.UpdatedAt))
	if err != nil {
		return domain.Item{}, err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return domain.Item{}, err
	}
	it.ID = id

	err = tx.Commit()
	if err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

// UpdateItem updates state for the requested operation.
func (r *Repository) UpdateItem(ctx context.Context, it domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		UPDATE items
		SET text = ?, checked = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`, it.Text, it.Checked, it.SortOrder, ts(it.UpdatedAt), it.ID)
	if err != nil {
		return err
	}
	if err = translateNoRows(res); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, ts(it.UpdatedAt), it.ListID); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// GetItem returns item.
func (r *Repository) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	return getItemByID(ctx, r.db, id)
}

// ListItems lists items in list position order.
func (r *Repository) ListItems(ctx context.Context, listID int64) ([]domain.Item, error) {
	if _, err := r.GetList(ctx, listID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, list_id, text, checked, sort_order, created_at, updated_at
		FROM items
		WHERE list_id = ?
		ORDER BY sort_order ASC, id ASC
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Item{}
	for rows.Next() {
		var (
			it         domain.Item
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&it.ID, &it.ListID, &it.Text, &it.Checked, &it.SortOrder, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		it.CreatedAt = parseTS(createdRaw)
		it.UpdatedAt = parseTS(updatedRaw)
		out = append(out, it)
	}
	return out, rows.Err()
}

// DeleteItem deletes item and closes the position gap it leaves behind.
func (r *Repository) DeleteItem(ctx context.Context, id int64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var item domain.Item
	item, err = getItemByID(ctx, tx, id)
	if err != nil {
		return err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err = translateNoRows(res); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE items
		SET sort_order = sort_order - 1
		WHERE list_id = ? AND sort_order > ?
	`, item.ListID, item.SortOrder); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, ts(now), item.ListID); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// SwapItems persists two items whose list positions were exchanged.
func (r *Repository) SwapItems(ctx context.Context, a, b domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, it := range []domain.Item{a, b} {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE items
			SET sort_order = ?, updated_at = ?
			WHERE id = ?
		`, it.SortOrder, ts(it.UpdatedAt), it.ID)
		if err != nil {
			return err
		}
		if err = translateNoRows(res); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, ts(a.UpdatedAt), a.ListID); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// ReplaceItems swaps in the given rows for every current item of the list.
func (r *Repository) ReplaceItems(ctx context.Context, listID int64, items []domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM items WHERE list_id = ?`, listID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO items(id, list_id, text, checked, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, it.ID, it.ListID, it.Text, it.Checked, it.SortOrder, ts(it.CreatedAt), ts(it.UpdatedAt)); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// queryRower represents a query-only DB contract used by DB and Tx implementations.
type queryRower interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// getItemByID returns an item row regardless of transaction scope.
func getItemByID(ctx context.Context, q queryRower, id int64) (domain.Item, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, list_id, text, checked, sort_order, created_at, updated_at
		FROM items
		WHERE id = ?
	`, id)
	return scanItem(row)
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanList handles scan list.
func scanList(s scanner) (domain.List, error) {
	var (
		l          domain.List
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(&l.ID, &l.Title, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.List{}, app.ErrNotFound
		}
		return domain.List{}, err
	}
	l.CreatedAt = parseTS(createdRaw)
	l.UpdatedAt = parseTS(updatedRaw)
	return l, nil
}

// scanItem handles scan item.
func scanItem(s scanner) (domain.Item, error) {
	var (
		it         domain.Item
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(&it.ID, &it.ListID, &it.Text, &it.Checked, &it.SortOrder, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, app.ErrNotFound
		}
		return domain.Item{}, err
	}
	it.CreatedAt = parseTS(createdRaw)
	it.UpdatedAt = parseTS(updatedRaw)
	return it, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
