//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	"github.com/Apurer/pawhaven-api/internal/platform/postgres/pgtest"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
)

func TestPostgresRepository_SaveAndList(t *testing.T) {
	repo := NewRepository(pgtest.Container(t, Migrate))
	ctx := context.Background()

	_, err := repo.Save(ctx, newPet(t, "5b1f6a2e-0000-4000-8000-000000000001", "Bruno", domain.CategoryDog, 3))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newPet(t, "5b1f6a2e-0000-4000-8000-000000000002", "Mitti", domain.CategoryCat, 1))
	require.NoError(t, err)

	cat := domain.CategoryCat
	items, total, err := repo.List(ctx, ports.ListFilter{Category: &cat}, pagination.Params{Page: 1, Limit: 10, SortField: "created_at", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Mitti", items[0].Entity.Name)
}

func TestPostgresRepository_SetAdoptedBulk(t *testing.T) {
	repo := NewRepository(pgtest.Container(t, Migrate))
	ctx := context.Background()

	ids := []string{
		"5b1f6a2e-0000-4000-8000-000000000011",
		"5b1f6a2e-0000-4000-8000-000000000012",
		"5b1f6a2e-0000-4000-8000-000000000013",
	}
	for i, id := range ids {
		_, err := repo.Save(ctx, newPet(t, id, "Pet", domain.CategoryDog, i))
		require.NoError(t, err)
	}
	require.NoError(t, repo.SetAdopted(ctx, ids[0], true))

	changed, err := repo.SetAdoptedBulk(ctx, ids[:2], true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	adopted, err := repo.AdoptedIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids[:2], adopted)

	changed, err = repo.SetAdoptedBulk(ctx, ids, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)
}
