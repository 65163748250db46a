package services

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/storage"
)

// OrderRepository owns the order collection. It mirrors the stored
// collection in memory, writes the whole collection through on every
// mutation and reloads it when another writer changed the stored revision.
// Orders are kept most recent first.
type OrderRepository struct {
	mu     sync.Mutex
	store  storage.Store
	ids    *snowflake.Node
	now    func() time.Time
	orders []models.Order
	rev    int64
}

// NewOrderRepository loads the stored collection. A nil node uses node 1.
func NewOrderRepository(store storage.Store, node *snowflake.Node) (*OrderRepository, error) {
	if node == nil {
		n, err := snowflake.NewNode(1)
		if err != nil {
			return nil, err
		}
		node = n
	}
	r := &OrderRepository{store: store, ids: node, now: time.Now}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loadLocked(); err != nil {
		return nil, err
	}
	return r, nil
}

// SetClock replaces the time source used for creation stamps and default dates.
func (r *OrderRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Create stores a new order in first position and returns its id.
// The id, creation time and derived totals are always assigned here; the
// date defaults to today and the status to pending.
func (r *OrderRepository) Create(o models.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return 0, err
	}
	o = o.Clone()
	now := r.now()
	o.ID = r.ids.Generate().Int64()
	o.CreatedAt = now
	o.UpdatedAt = nil
	if strings.TrimSpace(o.Date) == "" {
		o.Date = now.Format(models.DateLayout)
	}
	if strings.TrimSpace(o.Status) == "" {
		o.Status = models.StatusPending
	}
	ApplyTotals(&o)

	next := make([]models.Order, 0, len(r.orders)+1)
	next = append(next, o)
	next = append(next, r.orders...)
	if err := r.persistLocked(next); err != nil {
		return 0, err
	}
	return o.ID, nil
}

// List returns copies of all orders, most recent first.
func (r *OrderRepository) List() ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return nil, err
	}
	out := make([]models.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

// FindByID returns a copy of the order or ErrNotFound.
func (r *OrderRepository) FindByID(id int64) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return models.Order{}, err
	}
	i := r.indexLocked(id)
	if i < 0 {
		return models.Order{}, ErrNotFound
	}
	return r.orders[i].Clone(), nil
}

// Delete removes the order and reports whether it existed. A missing id
// leaves the stored collection untouched.
func (r *OrderRepository) Delete(id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return false, err
	}
	i := r.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	next := make([]models.Order, 0, len(r.orders)-1)
	next = append(next, r.orders[:i]...)
	next = append(next, r.orders[i+1:]...)
	if err := r.persistLocked(next); err != nil {
		return false, err
	}
	return true, nil
}

// Update replaces the order in place, keeping its id, creation time and
// position. Empty date and status keep their previous values.
func (r *OrderRepository) Update(id int64, o models.Order) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return models.Order{}, err
	}
	i := r.indexLocked(id)
	if i < 0 {
		return models.Order{}, ErrNotFound
	}
	return r.replaceLocked(i, o.Clone())
}

// SetStatus changes only the status of an order.
func (r *OrderRepository) SetStatus(id int64, status string) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.syncLocked(); err != nil {
		return models.Order{}, err
	}
	i := r.indexLocked(id)
	if i < 0 {
		return models.Order{}, ErrNotFound
	}
	o := r.orders[i].Clone()
	o.Status = status
	return r.replaceLocked(i, o)
}

func (r *OrderRepository) replaceLocked(i int, o models.Order) (models.Order, error) {
	prev := r.orders[i]
	o.ID = prev.ID
	o.CreatedAt = prev.CreatedAt
	if strings.TrimSpace(o.Date) == "" {
		o.Date = prev.Date
	}
	if strings.TrimSpace(o.Status) == "" {
		o.Status = prev.Status
	}
	now := r.now()
	o.UpdatedAt = &now
	ApplyTotals(&o)

	next := make([]models.Order, len(r.orders))
	copy(next, r.orders)
	next[i] = o
	if err := r.persistLocked(next); err != nil {
		return models.Order{}, err
	}
	return o.Clone(), nil
}

// Refresh reloads the collection from the store.
func (r *OrderRepository) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *OrderRepository) indexLocked(id int64) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *OrderRepository) syncLocked() error {
	rev, err := r.store.Revision(models.KeyOrders)
	if err != nil {
		return &PersistenceError{Op: "revision", Key: models.KeyOrders, Err: err}
	}
	if rev == r.rev {
		return nil
	}
	return r.loadLocked()
}

func (r *OrderRepository) loadLocked() error {
	e, err := r.store.Get(models.KeyOrders)
	if errors.Is(err, storage.ErrNotFound) {
		r.orders = nil
		r.rev = 0
		return nil
	}
	if err != nil {
		return &PersistenceError{Op: "load", Key: models.KeyOrders, Err: err}
	}
	var orders []models.Order
	if err := json.Unmarshal([]byte(e.Value), &orders); err != nil {
		return &PersistenceError{Op: "decode", Key: models.KeyOrders, Err: err}
	}
	r.orders = orders
	r.rev = e.Revision
	return nil
}

// persistLocked writes next and only then makes it the in-memory state.
func (r *OrderRepository) persistLocked(next []models.Order) error {
	if next == nil {
		next = []models.Order{}
	}
	b, err := json.Marshal(next)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: models.KeyOrders, Err: err}
	}
	rev, err := r.store.Put(models.KeyOrders, string(b))
	if err != nil {
		return &PersistenceError{Op: "save", Key: models.KeyOrders, Err: err}
	}
	r.orders = next
	r.rev = rev
	return nil
}
