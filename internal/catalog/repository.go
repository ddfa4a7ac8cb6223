package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/scanpos/pkg/db/models"
)

// Repository reads catalog rows from the database.
type Repository interface {
	ListActive(ctx context.Context) ([]models.CatalogProduct, error)
	Upsert(ctx context.Context, product models.CatalogProduct) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the catalog repository to a GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]models.CatalogProduct, error) {
	var rows []models.CatalogProduct
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Upsert(ctx context.Context, product models.CatalogProduct) error {
	return r.db.WithContext(ctx).Save(&product).Error
}

// Load snapshots every active row into a Static catalog. The catalog is
// immutable afterwards; later database changes need a restart.
func Load(ctx context.Context, repo Repository) (*Static, error) {
	rows, err := repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog products: %w", err)
	}
	entries := make(map[string]Entry, len(rows))
	for _, row := range rows {
		entries[row.Code] = Entry{Name: row.Name, UnitPrice: row.UnitPrice}
	}
	return NewStatic(entries)
}

// Seed writes DefaultSeed into the repository.
func Seed(ctx context.Context, repo Repository) error {
	for code, entry := range DefaultSeed() {
		if err := repo.Upsert(ctx, models.CatalogProduct{
			Code:      code,
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			IsActive:  true,
		}); err != nil {
			return fmt.Errorf("seed product %s: %w", code, err)
		}
	}
	return nil
}
