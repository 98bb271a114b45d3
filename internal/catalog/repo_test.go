package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	workItems := `
CREATE TABLE IF NOT EXISTS work_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  cost NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(workItems).Error)
	return db
}

func TestRepositoryCRUD(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := &models.WorkItem{Name: "Alignment", Cost: decimal.RequireFromString("75.50")}
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alignment", found.Name)
	assert.True(t, found.Cost.Equal(decimal.RequireFromString("75.5")))

	rows, err := repo.Update(ctx, &models.WorkItem{ID: item.ID, Name: "Wheel alignment", Cost: decimal.NewFromInt(80)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.Update(ctx, &models.WorkItem{ID: 999, Name: "Ghost", Cost: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Wheel alignment", list[0].Name)
}

func TestRepositorySoftDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := &models.WorkItem{Name: "Battery", Cost: decimal.NewFromInt(120)}
	require.NoError(t, repo.Create(ctx, item))

	rows, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var retired models.WorkItem
	require.NoError(t, db.Unscoped().First(&retired, item.ID).Error)
	assert.True(t, retired.Retired())
	assert.Equal(t, "Battery", retired.Name)

	rows, err = repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}
