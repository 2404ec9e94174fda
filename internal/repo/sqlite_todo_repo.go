package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dom "TodoRPC/internal/domain"
)

// SQLiteTodoRepo stores todos in SQLite. Timestamps are kept as unix
// microseconds so ordering and round-trips are exact.
type SQLiteTodoRepo struct {
	db *sql.DB
}

func NewSQLiteTodoRepo(db *sql.DB) *SQLiteTodoRepo {
	return &SQLiteTodoRepo{db: db}
}

func (r *SQLiteTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (text, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING ` + todoColumns
	out, err := scanSQLiteTodo(r.db.QueryRowContext(ctx, query,
		t.Text, t.Completed, t.CreatedAt.UnixMicro(), t.UpdatedAt.UnixMicro()))
	if err != nil {
		return dom.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return out, nil
}

func (r *SQLiteTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	t, err := scanSQLiteTodo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return dom.Todo{}, ErrNoRows
	}
	return t, err
}

func (r *SQLiteTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]dom.Todo, 0)
	for rows.Next() {
		t, err := scanSQLiteTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *SQLiteTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos SET text = ?, completed = ?, updated_at = ?
		WHERE id = ?
		RETURNING ` + todoColumns
	out, err := scanSQLiteTodo(r.db.QueryRowContext(ctx, query,
		t.Text, t.Completed, t.UpdatedAt.UnixMicro(), t.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return dom.Todo{}, ErrNoRows
	}
	return out, err
}

func (r *SQLiteTodoRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *SQLiteTodoRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanSQLiteTodo(row scanner) (dom.Todo, error) {
	var (
		t                dom.Todo
		created, updated int64
	)
	if err := row.Scan(&t.ID, &t.Text, &t.Completed, &created, &updated); err != nil {
		return dom.Todo{}, err
	}
	t.CreatedAt = time.UnixMicro(created).UTC()
	t.UpdatedAt = time.UnixMicro(updated).UTC()
	return t, nil
}
