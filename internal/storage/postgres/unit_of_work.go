package postgres

import (
	"context"

	"github.com/tournevent/orders/internal/booking"
	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one shared GORM
// connection pool. Each booking attempt gets its own instance so concurrent
// bookings never share transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory bound to the given database.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh UnitOfWork.
func (f *GormUnitOfWorkFactory) Create() booking.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork implements the atomic booking boundary on a GORM
// transaction. Repositories returned while a transaction is active run inside
// it; commit and rollback close the transaction and it cannot be reused.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling Begin on an already-begun unit of
// work is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit finalizes all writes made within the transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all writes made within the transaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// Orders returns an order repository bound to the current transaction.
func (uow *GormUnitOfWork) Orders() booking.OrderRepository {
	return &GormOrderRepository{db: uow.conn()}
}

// Selections returns a selection repository bound to the current transaction.
func (uow *GormUnitOfWork) Selections() booking.SelectionRepository {
	return &GormSelectionRepository{db: uow.conn()}
}

// Assignments returns an assignment repository bound to the current transaction.
func (uow *GormUnitOfWork) Assignments() booking.AssignmentRepository {
	return &GormAssignmentRepository{db: uow.conn()}
}
