package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUpSQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	results, err := Up(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM todos`).Scan(&n))
	assert.Zero(t, n)

	// second run is a no-op
	results, err = Up(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpSQLiteRejectsEmptyText(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Up(context.Background(), db, "sqlite")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO todos (text, completed, created_at, updated_at) VALUES ('', 0, 1, 1)`)
	assert.Error(t, err)
}

func TestUpUnknownDialect(t *testing.T) {
	_, err := Up(context.Background(), nil, "oracle")
	assert.ErrorContains(t, err, "unsupported migration dialect")
}
