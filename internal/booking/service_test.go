package booking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/orders/internal/booking"
	"github.com/tournevent/orders/internal/telemetry"
	"github.com/tournevent/orders/pkg/carrier"
	"github.com/tournevent/orders/pkg/carrier/mock"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Prometheus collectors register globally, so the test package shares one set.
var testMetrics = telemetry.NewMetrics()

// ============================================================================
// In-memory unit of work
// ============================================================================

type memStore struct {
	orders      map[uuid.UUID]*booking.Order
	selections  []*booking.SelectionRecord
	assignments []*booking.CarrierAssignment
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[uuid.UUID]*booking.Order)}
}

type memUoWFactory struct {
	store *memStore

	failOrderAdd      error
	failSelectionAdd  error
	failAssignmentAdd error
	failCommit        error
}

func (f *memUoWFactory) Create() booking.UnitOfWork {
	return &memUoW{factory: f}
}

// memUoW buffers writes and applies them to the shared store only on Commit,
// mirroring the all-or-nothing contract of the real transaction.
type memUoW struct {
	factory   *memUoWFactory
	began     bool
	committed bool

	pendingOrders      []*booking.Order
	pendingSelections  []*booking.SelectionRecord
	pendingAssignments []*booking.CarrierAssignment
}

func (u *memUoW) Begin(ctx context.Context) error {
	u.began = true
	return nil
}

func (u *memUoW) Commit(ctx context.Context) error {
	if !u.began {
		return errors.New("commit without begin")
	}
	if u.factory.failCommit != nil {
		return u.factory.failCommit
	}
	store := u.factory.store
	for _, o := range u.pendingOrders {
		store.orders[o.ID] = o
	}
	store.selections = append(store.selections, u.pendingSelections...)
	store.assignments = append(store.assignments, u.pendingAssignments...)
	u.committed = true
	return nil
}

func (u *memUoW) Rollback(ctx context.Context) error {
	if u.committed {
		return nil
	}
	u.pendingOrders = nil
	u.pendingSelections = nil
	u.pendingAssignments = nil
	return nil
}

func (u *memUoW) Orders() booking.OrderRepository           { return &memOrderRepo{uow: u} }
func (u *memUoW) Selections() booking.SelectionRepository   { return &memSelectionRepo{uow: u} }
func (u *memUoW) Assignments() booking.AssignmentRepository { return &memAssignmentRepo{uow: u} }

type memOrderRepo struct{ uow *memUoW }

func (r *memOrderRepo) Add(ctx context.Context, order *booking.Order) error {
	if err := r.uow.factory.failOrderAdd; err != nil {
		return err
	}
	r.uow.pendingOrders = append(r.uow.pendingOrders, order)
	return nil
}

func (r *memOrderRepo) Update(ctx context.Context, order *booking.Order) error {
	for i, o := range r.uow.pendingOrders {
		if o.ID == order.ID {
			r.uow.pendingOrders[i] = order
			return nil
		}
	}
	if _, ok := r.uow.factory.store.orders[order.ID]; ok {
		r.uow.pendingOrders = append(r.uow.pendingOrders, order)
		return nil
	}
	return booking.ErrOrderNotFound
}

func (r *memOrderRepo) Get(ctx context.Context, id uuid.UUID) (*booking.Order, error) {
	if o, ok := r.uow.factory.store.orders[id]; ok {
		return o, nil
	}
	return nil, booking.ErrOrderNotFound
}

type memSelectionRepo struct{ uow *memUoW }

func (r *memSelectionRepo) Add(ctx context.Context, rec *booking.SelectionRecord) error {
	if err := r.uow.factory.failSelectionAdd; err != nil {
		return err
	}
	r.uow.pendingSelections = append(r.uow.pendingSelections, rec)
	return nil
}

type memAssignmentRepo struct{ uow *memUoW }

func (r *memAssignmentRepo) Add(ctx context.Context, a *booking.CarrierAssignment) error {
	if err := r.uow.factory.failAssignmentAdd; err != nil {
		return err
	}
	r.uow.pendingAssignments = append(r.uow.pendingAssignments, a)
	return nil
}

// ============================================================================
// Read-only collaborators
// ============================================================================

type memWarehouses struct {
	byID map[uuid.UUID]*booking.Warehouse
}

func (w *memWarehouses) Get(ctx context.Context, id uuid.UUID) (*booking.Warehouse, error) {
	if wh, ok := w.byID[id]; ok {
		return wh, nil
	}
	return nil, fmt.Errorf("%w: %s", booking.ErrWarehouseNotFound, id)
}

type memReliability struct {
	ratings map[string]float64
	err     error
}

func (r *memReliability) Ratings(ctx context.Context) (map[string]float64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.ratings, nil
}

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	service    *booking.Service
	store      *memStore
	uowFactory *memUoWFactory
	warehouse  *booking.Warehouse
}

func namedQuote(quoteID, carrierID string, price float64, days int) carrier.Quote {
	return carrier.Quote{
		QuoteID:     quoteID,
		Carrier:     carrierID,
		CarrierName: carrierID,
		ServiceCode: "STANDARD",
		ServiceName: carrierID + " Standard",
		ServiceType: carrier.ServiceStandard,
		Price:       carrier.Money{Amount: price, Currency: "CAD"},
		TransitDays: days,
	}
}

// newFixture wires a service over three carriers quoting $50/3d, $40/5d, and
// $45/4d with reliability 0.9 / 0.7 / 0.8.
func newFixture(t *testing.T, uowFactory *memUoWFactory) *fixture {
	t.Helper()

	logger := otelzap.New(zap.NewNop())

	registry := carrier.NewRegistry(0, logger)
	for _, p := range []struct {
		name  string
		price float64
		days  int
	}{
		{"carrier-a", 50.00, 3},
		{"carrier-b", 40.00, 5},
		{"carrier-c", 45.00, 4},
	} {
		m := mock.New(p.name)
		m.Quotes = []carrier.Quote{namedQuote("q-"+p.name, p.name, p.price, p.days)}
		registry.Register(m)
	}

	warehouse := &booking.Warehouse{
		ID:   uuid.New(),
		Name: "Warehouse YYZ",
		Address: carrier.Address{
			Name:         "Warehouse YYZ",
			Line1:        "123 Main St",
			City:         "Toronto",
			ProvinceCode: "ON",
			PostalCode:   "M5V 1A1",
			CountryCode:  "CA",
		},
	}

	store := newMemStore()
	if uowFactory == nil {
		uowFactory = &memUoWFactory{}
	}
	uowFactory.store = store

	service := booking.NewService(
		uowFactory,
		registry,
		&memWarehouses{byID: map[uuid.UUID]*booking.Warehouse{warehouse.ID: warehouse}},
		&memReliability{ratings: map[string]float64{
			"carrier-a": 0.9,
			"carrier-b": 0.7,
			"carrier-c": 0.8,
		}},
		booking.CriteriaPolicy{
			Standard: carrier.SelectionCriteria{PriceWeight: 0.6, SpeedWeight: 0.2, ReliabilityWeight: 0.2},
			Express:  carrier.SelectionCriteria{PriceWeight: 0.2, SpeedWeight: 0.6, ReliabilityWeight: 0.2},
		},
		logger,
		testMetrics,
	)

	return &fixture{service: service, store: store, uowFactory: uowFactory, warehouse: warehouse}
}

func orderInput(warehouseID uuid.UUID) booking.OrderInput {
	return booking.OrderInput{
		CustomerName: "Jane Smith",
		WarehouseID:  warehouseID,
		Destination: carrier.Address{
			Name:         "Jane Smith",
			Line1:        "456 Oak Ave",
			City:         "Vancouver",
			ProvinceCode: "BC",
			PostalCode:   "V6B 2W2",
			CountryCode:  "CA",
		},
		ServiceLevel: booking.ServiceLevelStandard,
		Items: []booking.ItemInput{
			{SKU: "SKU-1", Description: "Gear box", Quantity: 1, WeightKg: 5},
			{SKU: "SKU-2", Description: "Bearings", Quantity: 4, WeightKg: 0.5},
		},
	}
}

// ============================================================================
// BookOrder
// ============================================================================

func TestService_BookOrder_SelectsByCompositeScore(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.service.BookOrder(context.Background(), orderInput(f.warehouse.ID))

	require.NoError(t, err)
	// With weights {0.6, 0.2, 0.2} the cheapest carrier wins: composites are
	// 0.4 (carrier-a), 0.6 (carrier-b), 0.5 (carrier-c).
	assert.Equal(t, "carrier-b", result.SelectedCarrier)
	assert.Equal(t, "q-carrier-b", result.SelectedQuoteID)
	assert.Equal(t, 40.00, result.ShippingCost.Amount)
	assert.Equal(t, 5, result.TransitDays)
	assert.Len(t, result.AllQuotes, 3)
}

func TestService_BookOrder_ExpressWeightsSpeed(t *testing.T) {
	f := newFixture(t, nil)

	input := orderInput(f.warehouse.ID)
	input.ServiceLevel = booking.ServiceLevelExpress

	result, err := f.service.BookOrder(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "carrier-a", result.SelectedCarrier, "speed-weighted criteria should pick the fastest carrier")
}

func TestService_BookOrder_PersistsEverythingTogether(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.service.BookOrder(context.Background(), orderInput(f.warehouse.ID))
	require.NoError(t, err)

	order, ok := f.store.orders[result.OrderID]
	require.True(t, ok, "order must be committed")
	assert.Equal(t, booking.StatusCarrierAssigned, order.Status)
	assert.Equal(t, "carrier-b", order.CarrierID)
	require.NotNil(t, order.ShippingCost)
	assert.Equal(t, 40.00, order.ShippingCost.Amount)
	assert.Len(t, order.Items, 2)

	require.Len(t, f.store.selections, 1)
	sel := f.store.selections[0]
	assert.Equal(t, result.OrderID, sel.OrderID)
	assert.Equal(t, "q-carrier-b", sel.QuoteID, "selection audit keys on the quote id")

	require.Len(t, f.store.assignments, 1)
	asg := f.store.assignments[0]
	assert.Equal(t, result.OrderID, asg.OrderID)
	assert.Equal(t, "carrier-b", asg.Carrier)
	assert.Equal(t, booking.AssignmentPending, asg.Status)
	assert.NotEmpty(t, asg.DecisionContext)
	assert.Contains(t, string(asg.DecisionContext), "q-carrier-b")
}

func TestService_BookOrder_NoQuotesAborts(t *testing.T) {
	f := newFixture(t, nil)

	logger := otelzap.New(zap.NewNop())
	registry := carrier.NewRegistry(0, logger)
	broken := mock.New("broken")
	broken.Err = errors.New("unreachable")
	registry.Register(broken)

	service := booking.NewService(
		f.uowFactory,
		registry,
		&memWarehouses{byID: map[uuid.UUID]*booking.Warehouse{f.warehouse.ID: f.warehouse}},
		&memReliability{},
		booking.CriteriaPolicy{Standard: carrier.SelectionCriteria{PriceWeight: 1}},
		logger,
		testMetrics,
	)

	_, err := service.BookOrder(context.Background(), orderInput(f.warehouse.ID))

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrNoQuotesAvailable))
	assert.Empty(t, f.store.orders, "no order may survive an aborted booking")
	assert.Empty(t, f.store.selections)
	assert.Empty(t, f.store.assignments)
}

func TestService_BookOrder_AssignmentFailureRollsBack(t *testing.T) {
	f := newFixture(t, &memUoWFactory{failAssignmentAdd: errors.New("unique constraint violated")})

	_, err := f.service.BookOrder(context.Background(), orderInput(f.warehouse.ID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier assignment")
	assert.Empty(t, f.store.orders, "order insert must be rolled back with the failed assignment")
	assert.Empty(t, f.store.selections)
	assert.Empty(t, f.store.assignments)
}

func TestService_BookOrder_SelectionFailureRollsBack(t *testing.T) {
	f := newFixture(t, &memUoWFactory{failSelectionAdd: errors.New("disk full")})

	_, err := f.service.BookOrder(context.Background(), orderInput(f.warehouse.ID))

	require.Error(t, err)
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.assignments)
}

func TestService_BookOrder_CommitFailure(t *testing.T) {
	f := newFixture(t, &memUoWFactory{failCommit: errors.New("connection reset")})

	_, err := f.service.BookOrder(context.Background(), orderInput(f.warehouse.ID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit booking")
	assert.Empty(t, f.store.orders)
}

func TestService_BookOrder_WarehouseNotFound(t *testing.T) {
	f := newFixture(t, nil)

	input := orderInput(uuid.New()) // unknown warehouse

	_, err := f.service.BookOrder(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, booking.ErrWarehouseNotFound))
	assert.Empty(t, f.store.orders)
}

func TestService_BookOrder_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		mutate func(*booking.OrderInput)
	}{
		{"missing customer", func(in *booking.OrderInput) { in.CustomerName = "" }},
		{"no items", func(in *booking.OrderInput) { in.Items = nil }},
		{"zero quantity", func(in *booking.OrderInput) { in.Items[0].Quantity = 0 }},
		{"zero weight", func(in *booking.OrderInput) { in.Items[0].WeightKg = 0 }},
		{"bad service level", func(in *booking.OrderInput) { in.ServiceLevel = "same-day-teleport" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := orderInput(f.warehouse.ID)
			tt.mutate(&input)

			_, err := f.service.BookOrder(context.Background(), input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, carrier.ErrInvalidInput))
			assert.Empty(t, f.store.orders)
		})
	}
}

func TestService_BookOrder_DefaultsToStandardLevel(t *testing.T) {
	f := newFixture(t, nil)

	input := orderInput(f.warehouse.ID)
	input.ServiceLevel = ""

	result, err := f.service.BookOrder(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "carrier-b", result.SelectedCarrier)
	assert.Equal(t, booking.ServiceLevelStandard, f.store.orders[result.OrderID].ServiceLevel)
}

func TestService_BookOrder_DeterministicAcrossRuns(t *testing.T) {
	f := newFixture(t, nil)

	var carriers []string
	for i := 0; i < 5; i++ {
		result, err := f.service.BookOrder(context.Background(), orderInput(f.warehouse.ID))
		require.NoError(t, err)
		carriers = append(carriers, result.SelectedCarrier)
	}

	for _, c := range carriers {
		assert.Equal(t, "carrier-b", c, "identical inputs must select identically")
	}
}
