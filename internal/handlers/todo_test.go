package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"TodoRPC/internal/dto"
	"TodoRPC/internal/migrations"
	"TodoRPC/internal/repo"
	"TodoRPC/internal/rpc"
	"TodoRPC/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestHandler(t *testing.T) *TodoHandler {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = migrations.Up(context.Background(), db, "sqlite")
	require.NoError(t, err)

	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return NewTodoHandler(service.NewTodoService(repo.NewSQLiteTodoRepo(db), nil, service.WithClock(clock)))
}

func TestHandlerOperations(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler(t)

	list, err := h.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	created, err := h.Create(ctx, dto.CreateTodoInput{Text: "walk the dog"})
	require.NoError(t, err)
	assert.Equal(t, "walk the dog", created.Text)

	text := "walk the cat"
	updated, err := h.Update(ctx, dto.UpdateTodoInput{ID: &created.ID, Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "walk the cat", updated.Text)
	assert.False(t, updated.Completed)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.UpdatedAt.Add(time.Second), updated.UpdatedAt)

	got, err := h.Get(ctx, dto.TodoIDInput{ID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	res, err := h.Delete(ctx, dto.TodoIDInput{ID: &created.ID})
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = h.Delete(ctx, dto.TodoIDInput{ID: &created.ID})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMapError(t *testing.T) {
	v := MapError(&service.ValidationError{Field: "text", Reason: "must not be empty"})
	require.NotNil(t, v)
	assert.Equal(t, rpc.CodeValidation, v.Code)
	assert.Equal(t, http.StatusBadRequest, v.Status)
	assert.Equal(t, "text: must not be empty", v.Message)

	nf := MapError(fmt.Errorf("wrapped: %w", &service.NotFoundError{ID: 4}))
	require.NotNil(t, nf)
	assert.Equal(t, rpc.CodeNotFound, nf.Code)
	assert.Equal(t, http.StatusNotFound, nf.Status)

	assert.Nil(t, MapError(sql.ErrConnDone))
}

func TestProceduresAndAliases(t *testing.T) {
	h := newTestHandler(t)
	kinds := map[string]rpc.Kind{}
	for _, p := range h.Procedures() {
		kinds[p.Name] = p.Kind
	}
	assert.Equal(t, map[string]rpc.Kind{
		"list":   rpc.KindQuery,
		"get":    rpc.KindQuery,
		"create": rpc.KindMutation,
		"update": rpc.KindMutation,
		"delete": rpc.KindMutation,
	}, kinds)

	for alias, name := range Aliases() {
		_, ok := kinds[name]
		assert.True(t, ok, "alias %s points at unknown procedure %s", alias, name)
	}
}
