package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFormula(t *testing.T, repo FormulaRepository, id, name string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &Formula{
		ID: id, Name: name, Expression: "price < 120", CreatedAt: at(0), UpdatedAt: at(0),
	}))
}

func TestResultRepository(t *testing.T) {
	ctx := context.Background()
	repos := New(newTestData(t))
	seedFormula(t, repos.Formula, "f1", "first")
	seedFormula(t, repos.Formula, "f2", "second")

	results := []*ScreeningResult{
		{ID: "r1", FormulaID: "f1", Expression: "price < 120", ResultCount: 1, TotalCount: 3,
			Data: json.RawMessage(`[{"code":"110001"}]`), ExecutedAt: at(1)},
		{ID: "r2", FormulaID: "f2", Expression: "price < 120", ResultCount: 0, TotalCount: 3, ExecutedAt: at(2)},
		{ID: "r3", FormulaID: "f1", Expression: "price < 120", ResultCount: 2, TotalCount: 3,
			Data: json.RawMessage(`[{"code":"110001"},{"code":"110002"}]`), ExecutedAt: at(3)},
	}
	for _, r := range results {
		require.NoError(t, repos.Result.Create(ctx, r))
	}

	got, err := repos.Result.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "f1", got.FormulaID)
	assert.JSONEq(t, `[{"code":"110001"}]`, string(got.Data))
	assert.Equal(t, at(1), got.ExecutedAt)

	empty, err := repos.Result.Get(ctx, "r2")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty.Data))

	byFormula, err := repos.Result.List(ctx, "f1", 0, 0)
	require.NoError(t, err)
	require.Len(t, byFormula, 2)
	assert.Equal(t, "r3", byFormula[0].ID)

	n, err := repos.Result.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = repos.Result.Count(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	history, err := repos.Result.History(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "r3", history[0].ID)
	assert.Equal(t, "first", history[0].FormulaName)
	assert.Equal(t, "second", history[1].FormulaName)

	_, err = repos.Result.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResultsCascadeWithFormula(t *testing.T) {
	ctx := context.Background()
	repos := New(newTestData(t))
	seedFormula(t, repos.Formula, "f1", "first")

	require.NoError(t, repos.Result.Create(ctx, &ScreeningResult{
		ID: "r1", FormulaID: "f1", Expression: "price < 120", ExecutedAt: at(1),
	}))
	require.NoError(t, repos.Formula.Delete(ctx, "f1"))

	_, err := repos.Result.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}
