package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tournevent/orders/internal/booking"
	"gorm.io/gorm"
)

// GormOrderRepository implements booking.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// Add saves a new order with all its items.
func (r *GormOrderRepository) Add(ctx context.Context, order *booking.Order) error {
	dto := orderFromDomain(order)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update saves carrier assignment fields on an existing order. Items are
// fixed at creation and never updated.
func (r *GormOrderRepository) Update(ctx context.Context, order *booking.Order) error {
	dto := orderFromDomain(order)
	result := r.db.WithContext(ctx).Model(&orderDTO{}).
		Where("id = ?", dto.ID).
		Select("Status", "CarrierID", "ShippingCostAmount", "ShippingCostCurrency",
			"TransitDays", "EstimatedDelivery", "UpdatedAt").
		Updates(&dto)
	if result.Error != nil {
		return fmt.Errorf("update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.ErrOrderNotFound
	}
	return nil
}

// Get retrieves an order with its items.
func (r *GormOrderRepository) Get(ctx context.Context, id uuid.UUID) (*booking.Order, error) {
	var dto orderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", booking.ErrOrderNotFound, id)
		}
		return nil, err
	}
	return orderToDomain(dto), nil
}

// GormSelectionRepository implements booking.SelectionRepository using GORM.
type GormSelectionRepository struct {
	db *gorm.DB
}

// Add writes one selection audit record.
func (r *GormSelectionRepository) Add(ctx context.Context, rec *booking.SelectionRecord) error {
	dto := selectionFromDomain(rec)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert selected quote: %w", err)
	}
	return nil
}

// GormAssignmentRepository implements booking.AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// Add writes one carrier assignment record.
func (r *GormAssignmentRepository) Add(ctx context.Context, a *booking.CarrierAssignment) error {
	dto := assignmentFromDomain(a)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert carrier assignment: %w", err)
	}
	return nil
}
