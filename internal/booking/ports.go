package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/tournevent/orders/pkg/carrier"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per booking attempt so
// concurrent bookings never share transaction state.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the atomic boundary around one booking. Every write between
// Begin and Commit lands together or not at all; callers must pair Begin with
// exactly one Commit or Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Orders returns an OrderRepository bound to the current transaction.
	Orders() OrderRepository

	// Selections returns a SelectionRepository bound to the current transaction.
	Selections() SelectionRepository

	// Assignments returns an AssignmentRepository bound to the current transaction.
	Assignments() AssignmentRepository
}

// OrderRepository persists the order aggregate including its items.
type OrderRepository interface {
	Add(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
}

// SelectionRepository persists selection audit records.
type SelectionRepository interface {
	Add(ctx context.Context, record *SelectionRecord) error
}

// AssignmentRepository persists carrier assignment records.
type AssignmentRepository interface {
	Add(ctx context.Context, assignment *CarrierAssignment) error
}

// WarehouseDirectory resolves shipping origins. Read-only collaborator.
type WarehouseDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*Warehouse, error)
}

// ReliabilitySource supplies per-carrier reliability figures for selection,
// for example the historical on-time rate. Read-only collaborator.
type ReliabilitySource interface {
	Ratings(ctx context.Context) (map[string]float64, error)
}

// RateSource aggregates quotes across carriers. Satisfied by
// *carrier.Registry.
type RateSource interface {
	CollectQuotes(ctx context.Context, req *carrier.ShipmentRequest) ([]carrier.Quote, error)
}
