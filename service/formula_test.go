package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ncobase/screener/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFormulaCreateNormalizes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Formula.Create(ctx, &CreateFormulaRequest{
		Name:       " low price ",
		Expression: "price<110 and premium_rate<20",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "low price", created.Name)
	assert.Equal(t, "price < 110.0 AND premium_rate < 20.0", created.Expression)

	got, err := f.svc.Formula.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Expression, got.Expression)
}

func TestFormulaCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name       string
		expression string
		position   bool
	}{
		{"syntax", "price >", true},
		{"unknown field", "foo > 1", false},
		{"type mismatch", "price == 'x'", false},
		{"too long", strings.Repeat("price > 1 AND ", 20) + "price > 1", false},
		{"empty", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Formula.Create(ctx, &CreateFormulaRequest{Name: "x", Expression: tt.expression})
			var fe *FormulaError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.position, fe.IsSyntax())
		})
	}

	n, err := f.repos.Formula.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected formulas must not be stored")
}

func TestFormulaCreateRejectsTooDeep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.Formula.config.MaxFormulaLength = 0

	expr := strings.Repeat("NOT ", 70) + "price > 1"
	require.True(t, f.svc.Formula.Validate(expr).Valid)

	_, err := f.svc.Formula.Create(ctx, &CreateFormulaRequest{Name: "deep", Expression: expr})
	var fe *FormulaError
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.IsSyntax())
	assert.Contains(t, fe.Message, "depth 71 exceeds maximum 64")

	created, err := f.svc.Formula.Create(ctx, &CreateFormulaRequest{Name: "ok", Expression: "price > 1"})
	require.NoError(t, err)
	_, err = f.svc.Formula.Update(ctx, created.ID, &UpdateFormulaRequest{Expression: strPtr(expr)})
	require.ErrorAs(t, err, &fe)

	n, err := f.repos.Formula.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFormulaValidationErrorsListed(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Formula.Create(context.Background(), &CreateFormulaRequest{
		Name:       "x",
		Expression: "foo > 1 AND code > 5",
	})
	var fe *FormulaError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{
		"Unknown field: foo",
		"Field 'code' requires string value, got number",
		"String field 'code' only supports == and != operators",
	}, fe.Errors)
}

func TestFormulaUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Formula.Create(ctx, &CreateFormulaRequest{Name: "a", Description: "d", Expression: "price < 110"})
	require.NoError(t, err)

	updated, err := f.svc.Formula.Update(ctx, created.ID, &UpdateFormulaRequest{Name: strPtr("b")})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Name)
	assert.Equal(t, "d", updated.Description)
	assert.Equal(t, created.Expression, updated.Expression)

	_, err = f.svc.Formula.Update(ctx, created.ID, &UpdateFormulaRequest{Expression: strPtr("price <")})
	var fe *FormulaError
	require.ErrorAs(t, err, &fe)

	got, err := f.svc.Formula.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "price < 110.0", got.Expression)

	updated, err = f.svc.Formula.Update(ctx, created.ID, &UpdateFormulaRequest{Expression: strPtr("(ytm > 1)")})
	require.NoError(t, err)
	assert.Equal(t, "ytm > 1.0", updated.Expression)

	_, err = f.svc.Formula.Update(ctx, "missing", &UpdateFormulaRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrFormulaNotFound)
}

func TestFormulaListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := f.svc.Formula.Create(ctx, &CreateFormulaRequest{Name: name, Expression: "price > 1"})
		require.NoError(t, err)
	}

	page, err := f.svc.Formula.List(ctx, paging.Params{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNextPage)

	id := page.Items[0].ID
	require.NoError(t, f.svc.Formula.Delete(ctx, id))
	assert.ErrorIs(t, f.svc.Formula.Delete(ctx, id), ErrFormulaNotFound)

	_, err = f.svc.Formula.Get(ctx, id)
	assert.True(t, errors.Is(err, ErrFormulaNotFound))
}

func TestFormulaValidateAndNormalize(t *testing.T) {
	f := newFixture(t)

	v := f.svc.Formula.Validate("price > 100 AND")
	assert.False(t, v.Valid)
	require.NotNil(t, v.Position)
	assert.Equal(t, 15, *v.Position)

	canonical, err := f.svc.Formula.Normalize("NOT (price > 1 OR ytm < 2)")
	require.NoError(t, err)
	assert.Equal(t, "NOT (price > 1.0 OR ytm < 2.0)", canonical)

	_, err = f.svc.Formula.Normalize("bogus == 1")
	var fe *FormulaError
	assert.ErrorAs(t, err, &fe)
}
