package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenevalidator/internal/validator"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func resultAt(name string, ts time.Time, findings ...validator.Finding) *validator.Result {
	return &validator.Result{
		SceneName:   name,
		SceneNumber: "1A",
		Findings:    findings,
		Timestamp:   ts,
	}
}

func TestRecordAndRecent(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	id, err := h.Record(ctx, resultAt("Café", base), "scenes/cafe.json")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	failing := resultAt("Street", base.Add(time.Minute), validator.Finding{
		Severity: validator.SeverityError,
		Category: validator.CategoryRequired,
		Field:    "location",
		Message:  "missing required field: location",
	})
	_, err = h.Record(ctx, failing, "scenes/street.json")
	require.NoError(t, err)

	runs, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "Street", runs[0].SceneName)
	assert.False(t, runs[0].Valid)
	assert.Equal(t, 1, runs[0].Errors)
	assert.Equal(t, "Café", runs[1].SceneName)
	assert.True(t, runs[1].Valid)
}

func TestLastForScene(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	_, err := h.Record(ctx, resultAt("Café", base, validator.Finding{
		Severity: validator.SeverityError,
		Category: validator.CategoryRequired,
		Field:    "props",
		Message:  "missing required field: props",
	}), "v1.json")
	require.NoError(t, err)
	_, err = h.Record(ctx, resultAt("Café", base.Add(time.Minute)), "v2.json")
	require.NoError(t, err)

	last, err := h.LastForScene(ctx, "Café")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Valid, "latest run should win")
	assert.Equal(t, "v2.json", last.Source)

	missing, err := h.LastForScene(ctx, "Nonexistent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecentLimit(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		_, err := h.Record(ctx, resultAt("Scene", base.Add(time.Duration(i)*time.Second)), "s.json")
		require.NoError(t, err)
	}

	runs, err := h.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
