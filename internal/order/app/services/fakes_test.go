package services

import (
	"context"
	"sync"
	"time"

	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"

	"github.com/shopspring/decimal"
)

type invKey struct {
	mealID int64
	date   string
}

type orderKey struct {
	employeeID int64
	mealID     int64
	date       string
}

// fakeStore is an in-memory stand-in for the Postgres adapters. Repository
// methods do no locking of their own; fakeTxManager serializes transactions
// and restores a snapshot on failure, mirroring the database's all-or-nothing
// commit.
type fakeStore struct {
	mu          sync.Mutex
	employees   map[int64]models.Employee
	meals       map[int64]models.Meal
	orders      map[int64]models.MealOrder
	inventory   map[invKey]models.DailyMealInventory
	nextOrderID int64
	nextInvID   int64

	// lockTrace records which row kinds were taken for update, in order.
	lockTrace []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: make(map[int64]models.Employee),
		meals:     make(map[int64]models.Meal),
		orders:    make(map[int64]models.MealOrder),
		inventory: make(map[invKey]models.DailyMealInventory),
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	for k, v := range s.employees {
		snap.employees[k] = v
	}
	for k, v := range s.meals {
		snap.meals[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.inventory {
		snap.inventory[k] = v
	}
	snap.nextOrderID = s.nextOrderID
	snap.nextInvID = s.nextInvID
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.employees = snap.employees
	s.meals = snap.meals
	s.orders = snap.orders
	s.inventory = snap.inventory
	s.nextOrderID = snap.nextOrderID
	s.nextInvID = snap.nextInvID
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

// IEmployeeRepo

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, &core.NotFoundError{Entity: "Employee", ID: id}
	}
	return &e, nil
}

func (s *fakeStore) GetByIDForUpdate(ctx context.Context, id int64) (*models.Employee, error) {
	s.lockTrace = append(s.lockTrace, "employee")
	return s.GetByID(ctx, id)
}

func (s *fakeStore) AddToMonthSpent(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	e, ok := s.employees[id]
	if !ok {
		return decimal.Zero, &core.NotFoundError{Entity: "Employee", ID: id}
	}
	e.CurrentMonthSpent = e.CurrentMonthSpent.Add(delta)
	s.employees[id] = e
	return e.CurrentMonthSpent, nil
}

// IMealRepo

type fakeMealRepo struct{ store *fakeStore }

func (r *fakeMealRepo) GetByID(ctx context.Context, id int64) (*models.Meal, error) {
	m, ok := r.store.meals[id]
	if !ok {
		return nil, &core.NotFoundError{Entity: "Meal", ID: id}
	}
	return &m, nil
}

// IOrderRepo

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Insert(ctx context.Context, order *models.MealOrder) error {
	key := orderKey{order.EmployeeID, order.MealID, dateKey(order.OrderDate)}
	for _, o := range r.store.orders {
		if (orderKey{o.EmployeeID, o.MealID, dateKey(o.OrderDate)}) == key {
			return core.ErrDuplicateOrder
		}
	}
	r.store.nextOrderID++
	order.ID = r.store.nextOrderID
	order.CreatedAt = time.Now()
	r.store.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*models.MealOrder, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, &core.NotFoundError{Entity: "MealOrder", ID: id}
	}
	return &o, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.MealOrder, error) {
	r.store.lockTrace = append(r.store.lockTrace, "order")
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) Exists(ctx context.Context, employeeID, mealID int64, orderDate time.Time) (bool, error) {
	for _, o := range r.store.orders {
		if o.EmployeeID == employeeID && o.MealID == mealID && dateKey(o.OrderDate) == dateKey(orderDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) CountForMonth(ctx context.Context, employeeID int64, orderDate time.Time) (int, error) {
	count := 0
	for _, o := range r.store.orders {
		if o.EmployeeID == employeeID &&
			o.Status != models.StatusCancelled &&
			o.OrderDate.Year() == orderDate.Year() &&
			o.OrderDate.Month() == orderDate.Month() {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	o, ok := r.store.orders[id]
	if !ok {
		return &core.NotFoundError{Entity: "MealOrder", ID: id}
	}
	o.Status = status
	r.store.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]models.MealOrder, error) {
	var out []models.MealOrder
	for _, o := range r.store.orders {
		if o.EmployeeID == employeeID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByDate(ctx context.Context, date time.Time) ([]models.MealOrder, error) {
	var out []models.MealOrder
	for _, o := range r.store.orders {
		if dateKey(o.OrderDate) == dateKey(date) {
			out = append(out, o)
		}
	}
	return out, nil
}

// IInventoryRepo

type fakeInventoryRepo struct{ store *fakeStore }

func (r *fakeInventoryRepo) Reserve(ctx context.Context, mealID int64, date time.Time, quantity, dailyCapacity int) error {
	r.store.lockTrace = append(r.store.lockTrace, "inventory")
	key := invKey{mealID, dateKey(date)}
	inv, ok := r.store.inventory[key]
	if !ok {
		r.store.nextInvID++
		inv = models.DailyMealInventory{
			ID:                r.store.nextInvID,
			MealID:            mealID,
			Date:              models.DateOf(date),
			AvailableQuantity: dailyCapacity,
		}
	}
	if inv.AvailableQuantity < quantity {
		return &core.InsufficientCapacityError{Available: inv.AvailableQuantity}
	}
	inv.AvailableQuantity -= quantity
	inv.ReservedQuantity += quantity
	r.store.inventory[key] = inv
	return nil
}

func (r *fakeInventoryRepo) Release(ctx context.Context, mealID int64, date time.Time, quantity int) error {
	r.store.lockTrace = append(r.store.lockTrace, "inventory")
	key := invKey{mealID, dateKey(date)}
	inv, ok := r.store.inventory[key]
	if !ok {
		return core.ErrInventoryNotFound
	}
	inv.AvailableQuantity += quantity
	inv.ReservedQuantity -= quantity
	r.store.inventory[key] = inv
	return nil
}

// fakeTxManager serializes units of work with the store mutex and rolls the
// store back to a snapshot when fn fails.
type fakeTxManager struct{ store *fakeStore }

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type auditCall struct {
	action     string
	entityType string
	entityID   int64
}

type fakeAuditSink struct {
	mu    sync.Mutex
	calls []auditCall
}

func (f *fakeAuditSink) Close() error { return nil }

func (f *fakeAuditSink) LogCreate(ctx context.Context, entityType string, entityID int64, newValue any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{"CREATE", entityType, entityID})
}

func (f *fakeAuditSink) LogUpdate(ctx context.Context, entityType string, entityID int64, oldValue, newValue any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{"UPDATE", entityType, entityID})
}
