package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/scanpos/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.CatalogProduct{}))
	return conn
}

func TestSeedAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	require.NoError(t, Seed(ctx, repo))

	c, err := Load(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())

	bread, ok := c.Lookup("9782123456803")
	require.True(t, ok)
	assert.Equal(t, "Bread", bread.Name)
	assert.Equal(t, "35.00", bread.UnitPrice.StringFixed(2))
}

func TestLoadSkipsInactiveProducts(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewRepository(conn)

	require.NoError(t, repo.Upsert(ctx, models.CatalogProduct{Code: "A", Name: "Active", UnitPrice: decimal.RequireFromString("1.50"), IsActive: true}))
	require.NoError(t, repo.Upsert(ctx, models.CatalogProduct{Code: "B", Name: "Retired", UnitPrice: decimal.RequireFromString("2.00"), IsActive: true}))
	require.NoError(t, conn.Model(&models.CatalogProduct{}).Where("code = ?", "B").Update("is_active", false).Error)

	c, err := Load(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, c.Codes())
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	require.NoError(t, Seed(ctx, repo))
	require.NoError(t, Seed(ctx, repo))

	rows, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

type failingRepo struct{}

func (failingRepo) ListActive(context.Context) ([]models.CatalogProduct, error) {
	return nil, fmt.Errorf("connection refused")
}

func (failingRepo) Upsert(context.Context, models.CatalogProduct) error {
	return fmt.Errorf("connection refused")
}

func TestLoadPropagatesErrors(t *testing.T) {
	_, err := Load(context.Background(), failingRepo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
