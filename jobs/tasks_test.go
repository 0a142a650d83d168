package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	removed int64
	err     error
	calls   int
}

func (f *fakeSweeper) SweepExpired(ctx context.Context) (int64, error) {
	f.calls++
	return f.removed, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionsSweepTaskType(t *testing.T) {
	task := NewSessionsSweepTask()
	assert.Equal(t, TaskSessionsSweep, task.Type())
}

func TestSessionsSweepHandler(t *testing.T) {
	sweeper := &fakeSweeper{removed: 3}
	handler := NewSessionsSweepHandler(sweeper, discardLogger())

	require.NoError(t, handler(context.Background(), NewSessionsSweepTask()))
	assert.Equal(t, 1, sweeper.calls)
}

func TestSessionsSweepHandlerPropagatesError(t *testing.T) {
	boom := errors.New("db locked")
	sweeper := &fakeSweeper{err: boom}
	handler := NewSessionsSweepHandler(sweeper, discardLogger())

	err := handler(context.Background(), NewSessionsSweepTask())
	assert.ErrorIs(t, err, boom)
}

func TestHealthWithoutInspector(t *testing.T) {
	handler := NewHandler(nil, discardLogger())

	r := chi.NewRouter()
	r.Route("/api/jobs", handler.MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/jobs/health", nil))

	require.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}
