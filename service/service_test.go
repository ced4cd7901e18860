package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data"
	"github.com/ncobase/screener/data/messaging"
	"github.com/ncobase/screener/data/migrations"
	"github.com/ncobase/screener/data/repository"
	"github.com/ncobase/screener/market"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type staticProvider struct {
	bonds []*market.Bond
}

func (p *staticProvider) Name() string { return "static" }

func (p *staticProvider) Fetch(ctx context.Context) ([]*market.Bond, error) {
	return p.bonds, nil
}

func testBonds() []*market.Bond {
	return []*market.Bond{
		{Code: "110001", Name: "Alpha", Price: 105, PremiumRate: 10, DoubleLow: 115, CreditRating: "AA+"},
		{Code: "110002", Name: "Beta", Price: 98, PremiumRate: 30, DoubleLow: 128, CreditRating: "AA"},
		{Code: "110003", Name: "Gamma", Price: 140, PremiumRate: 2, DoubleLow: 142, CreditRating: "AAA"},
		{Code: "110004", Name: "Delta", Price: 101, PremiumRate: 5, DoubleLow: 106, CreditRating: "A"},
	}
}

type fixture struct {
	svc       *Service
	repos     *repository.Repositories
	provider  *staticProvider
	publisher *messaging.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	stmts, err := migrations.UpStatements("sqlite")
	require.NoError(t, err)
	for _, stmt := range stmts {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}

	repos := repository.New(data.NewWithDB(db, "sqlite"))
	provider := &staticProvider{bonds: testBonds()}
	publisher := messaging.NewMemory()

	svc := New(&Dependencies{
		Repositories: repos,
		Market:       market.NewService(provider, market.Options{}),
		Publisher:    publisher,
		Config: &config.Screening{
			NormalizeOnSave:  true,
			DefaultPageSize:  2,
			MaxPageSize:      10,
			MaxFormulaLength: 200,
		},
	})
	return &fixture{svc: svc, repos: repos, provider: provider, publisher: publisher}
}
