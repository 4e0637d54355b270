package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tournevent/orders/internal/booking"
	"gorm.io/gorm"
)

// GormWarehouseDirectory implements booking.WarehouseDirectory over the
// warehouses table. Lookups run outside the booking transaction; warehouse
// data is reference data maintained elsewhere.
type GormWarehouseDirectory struct {
	db *gorm.DB
}

// NewGormWarehouseDirectory creates the warehouse directory.
func NewGormWarehouseDirectory(db *gorm.DB) *GormWarehouseDirectory {
	return &GormWarehouseDirectory{db: db}
}

// Get resolves a warehouse by ID.
func (d *GormWarehouseDirectory) Get(ctx context.Context, id uuid.UUID) (*booking.Warehouse, error) {
	var dto warehouseDTO
	err := d.db.WithContext(ctx).First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", booking.ErrWarehouseNotFound, id)
		}
		return nil, err
	}
	return warehouseToDomain(dto), nil
}

// Upsert creates or replaces a warehouse row. Used by seeding and tests.
func (d *GormWarehouseDirectory) Upsert(ctx context.Context, w *booking.Warehouse) error {
	dto := warehouseDTO{
		ID:           w.ID,
		Name:         w.Name,
		Line1:        w.Address.Line1,
		Line2:        w.Address.Line2,
		City:         w.Address.City,
		ProvinceCode: w.Address.ProvinceCode,
		PostalCode:   w.Address.PostalCode,
		CountryCode:  w.Address.CountryCode,
		Latitude:     w.Address.Latitude,
		Longitude:    w.Address.Longitude,
	}
	return d.db.WithContext(ctx).Save(&dto).Error
}
