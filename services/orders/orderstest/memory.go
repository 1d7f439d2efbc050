// Package orderstest provides in-memory collaborators for exercising the
// orders service without MongoDB, Kafka or Razorpay.
package orderstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/events"
	"marketplace-api/models"
	"marketplace-api/payments"
	"marketplace-api/repository"
)

// Orders mirrors the conditional item write of repository.OrderRepository.
type Orders struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
}

func NewOrders(seed ...models.Order) *Orders {
	o := &Orders{orders: make(map[primitive.ObjectID]models.Order)}
	for _, order := range seed {
		order.SellerIDs = models.CollectSellerIDs(order.Items)
		o.orders[order.ID] = clone(order)
	}
	return o
}

func clone(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.SellerIDs = append([]primitive.ObjectID(nil), o.SellerIDs...)
	return o
}

func (m *Orders) Insert(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = clone(*order)
	return nil
}

func (m *Orders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := clone(o)
	return &c, nil
}

func (m *Orders) ListByBuyer(_ context.Context, buyerID primitive.ObjectID, f repository.OrderFilter) ([]models.Order, int64, error) {
	return m.list(func(o models.Order) bool {
		return o.BuyerID == buyerID && hasStatus(o.Items, primitive.NilObjectID, f.Status)
	}, f.Page)
}

func (m *Orders) ListBySeller(_ context.Context, sellerID primitive.ObjectID, f repository.OrderFilter) ([]models.Order, int64, error) {
	return m.list(func(o models.Order) bool {
		return hasStatus(o.Items, sellerID, f.Status)
	}, f.Page)
}

func hasStatus(items []models.OrderItem, sellerID primitive.ObjectID, status models.ItemStatus) bool {
	for _, it := range items {
		if !sellerID.IsZero() && it.SellerID != sellerID {
			continue
		}
		if status == "" || it.Status == status {
			return true
		}
	}
	return false
}

func (m *Orders) list(match func(models.Order) bool, page repository.Page) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []models.Order
	for _, o := range m.orders {
		if match(o) {
			all = append(all, clone(o))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if page.Limit == 0 {
		return all, total, nil
	}
	start := (page.Page - 1) * page.Limit
	if start >= total {
		return []models.Order{}, total, nil
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *Orders) UpdateItem(_ context.Context, orderID primitive.ObjectID, expectedVersion int64, item models.OrderItem, payment models.PaymentStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = clone(o)
	for i := range o.Items {
		if o.Items[i].ID != item.ID {
			continue
		}
		if o.Items[i].Version != expectedVersion {
			return nil, repository.ErrConflict
		}
		o.Items[i] = item
		if payment != "" {
			o.PaymentStatus = payment
		}
		o.UpdatedAt = time.Now().UTC()
		m.orders[orderID] = o
		c := clone(o)
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (m *Orders) MarkPaid(_ context.Context, orderID, buyerID primitive.ObjectID, razorpayOrderID, paymentID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok || o.BuyerID != buyerID || o.RazorpayOrderID != razorpayOrderID {
		return nil, repository.ErrNotFound
	}
	o.PaymentStatus = models.PaymentPaid
	o.PaymentID = paymentID
	m.orders[orderID] = o
	c := clone(o)
	return &c, nil
}

// Carts holds users keyed by id.
type Carts struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewCarts(users ...models.User) *Carts {
	c := &Carts{users: make(map[primitive.ObjectID]models.User)}
	for _, u := range users {
		c.users[u.Id] = u
	}
	return c
}

func (c *Carts) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (c *Carts) ClearCart(_ context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Cart = nil
	c.users[id] = u
	return nil
}

type Addresses []models.Address

func (a Addresses) FindOwned(_ context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	for _, addr := range a {
		if addr.Id == id && addr.UserId == userID {
			return &addr, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Catalog records ratings per product.
type Catalog struct {
	mu       sync.Mutex
	Products map[primitive.ObjectID]models.Product
}

func NewCatalog(products ...models.Product) *Catalog {
	c := &Catalog{Products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	return c
}

func (c *Catalog) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Product)
	for _, id := range ids {
		if p, ok := c.Products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *Catalog) AddRating(_ context.Context, id primitive.ObjectID, rating int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.Products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.RatingTotal += rating
	p.RatingCount++
	c.Products[id] = p
	return nil
}

// Gateway signs with a fixed secret and derives order ids from the receipt.
type Gateway struct {
	Secret string
	Err    error
}

func (g Gateway) CreateOrder(_ context.Context, receipt string, amount float64) (*payments.GatewayOrder, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	return &payments.GatewayOrder{
		ID:       "order_" + receipt,
		Amount:   payments.ToPaise(amount),
		Currency: "INR",
		KeyID:    "rzp_test",
	}, nil
}

func (g Gateway) VerifySignature(razorpayOrderID, paymentID, signature string) bool {
	return payments.VerifySignature(g.Secret, razorpayOrderID, paymentID, signature)
}

// Publisher remembers every event.
type Publisher struct {
	mu     sync.Mutex
	Events []events.OrderEvent
}

func (p *Publisher) Publish(_ context.Context, _ string, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, ev)
	return nil
}

func (p *Publisher) Close() error { return nil }

func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.Events))
	for _, ev := range p.Events {
		types = append(types, ev.Type)
	}
	return types
}

// Cache mirrors repository.RedisOrderCache: Set keeps the higher revision.
type Cache struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
	Hits   int
}

func NewCache() *Cache {
	return &Cache{orders: make(map[primitive.ObjectID]models.Order)}
}

func (c *Cache) Get(_ context.Context, id primitive.ObjectID) (*models.Order, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[id]
	if !ok {
		return nil, false, nil
	}
	c.Hits++
	cp := clone(o)
	return &cp, true, nil
}

func (c *Cache) Set(_ context.Context, order *models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.orders[order.ID]; ok && cur.Revision() > order.Revision() {
		return nil
	}
	c.orders[order.ID] = clone(*order)
	return nil
}

func (c *Cache) Invalidate(_ context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.orders, id)
	return nil
}
