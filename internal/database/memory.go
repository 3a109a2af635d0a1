package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloudscale_back_end/internal/models"
)

// MemoryStore garde toutes les entités en mémoire, chaque collection avec son compteur auto-incrémenté.
// Un seul verrou sérialise les écritures : chaque méthode est atomique vis-à-vis des autres.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[int64]models.User
	addresses  map[int64]models.Address
	products   map[int64]models.Product
	cartItems  map[int64]models.CartItem
	orders     map[int64]models.Order
	orderItems map[int64]models.OrderItem
	sessions   map[string]models.Session
	snapshots  map[int64]models.MetricSnapshot

	nextUserID      int64
	nextAddressID   int64
	nextProductID   int64
	nextCartItemID  int64
	nextOrderID     int64
	nextOrderItemID int64
	nextSessionID   int64
	nextSnapshotID  int64

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]models.User),
		addresses:  make(map[int64]models.Address),
		products:   make(map[int64]models.Product),
		cartItems:  make(map[int64]models.CartItem),
		orders:     make(map[int64]models.Order),
		orderItems: make(map[int64]models.OrderItem),
		sessions:   make(map[string]models.Session),
		snapshots:  make(map[int64]models.MetricSnapshot),
		now:        time.Now,
	}
}

// SetClock remplace l'horloge utilisée pour les horodatages (tests)
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// =============================================
// USERS
// =============================================

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("utilisateur %d: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("utilisateur %q: %w", email, ErrNotFound)
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("utilisateur %q: %w", username, ErrNotFound)
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("utilisateur %q: %w", user.Email, ErrDuplicate)
		}
	}

	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.LastActive.IsZero() {
		user.LastActive = now
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("utilisateur %d: %w", user.ID, ErrNotFound)
	}
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

// =============================================
// ADDRESSES
// =============================================

func (s *MemoryStore) ListAddresses(_ context.Context, userID int64) ([]models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Address{}
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetAddress(_ context.Context, id int64) (*models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.addresses[id]
	if !ok {
		return nil, fmt.Errorf("adresse %d: %w", id, ErrNotFound)
	}
	return &a, nil
}

func (s *MemoryStore) CreateAddress(_ context.Context, address *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAddressID++
	address.ID = s.nextAddressID
	s.addresses[address.ID] = *address
	return nil
}

func (s *MemoryStore) UpdateAddress(_ context.Context, address *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.addresses[address.ID]; !ok {
		return fmt.Errorf("adresse %d: %w", address.ID, ErrNotFound)
	}
	s.addresses[address.ID] = *address
	return nil
}

func (s *MemoryStore) DeleteAddress(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.addresses[id]; !ok {
		return fmt.Errorf("adresse %d: %w", id, ErrNotFound)
	}
	delete(s.addresses, id)
	return nil
}

// =============================================
// PRODUCTS
// =============================================

func (s *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Product{}
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("produit %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	product.ID = s.nextProductID
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) UpdateProductStock(_ context.Context, id int64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("produit %d: %w", id, ErrNotFound)
	}
	p.StockCount = count
	p.InStock = count > 0
	s.products[id] = p
	return nil
}

// =============================================
// CART
// =============================================

func (s *MemoryStore) ListCartItems(_ context.Context, userID int64) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CartItem{}
	for _, item := range s.cartItems {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCartItem(_ context.Context, id int64) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, fmt.Errorf("ligne panier %d: %w", id, ErrNotFound)
	}
	return &item, nil
}

func (s *MemoryStore) AddToCart(_ context.Context, item *models.CartItem) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	for id, existing := range s.cartItems {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			existing.Quantity += quantity
			s.cartItems[id] = existing
			return &existing, nil
		}
	}

	s.nextCartItemID++
	created := models.CartItem{
		ID:        s.nextCartItemID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  quantity,
		AddedAt:   s.now(),
	}
	s.cartItems[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UpdateCartItemQuantity(_ context.Context, id int64, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, fmt.Errorf("ligne panier %d: %w", id, ErrNotFound)
	}
	item.Quantity = quantity
	s.cartItems[id] = item
	return &item, nil
}

func (s *MemoryStore) RemoveCartItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartItems[id]; !ok {
		return fmt.Errorf("ligne panier %d: %w", id, ErrNotFound)
	}
	delete(s.cartItems, id)
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.cartItems {
		if item.UserID == userID {
			delete(s.cartItems, id)
		}
	}
	return nil
}

// =============================================
// ORDERS
// =============================================

func (s *MemoryStore) ListOrders(_ context.Context, userID int64) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("commande %d: %w", id, ErrNotFound)
	}
	return &o, nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	now := s.now()
	order.ID = s.nextOrderID
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id int64, status string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("commande %d: %w", id, ErrNotFound)
	}
	o.Status = status
	o.UpdatedAt = s.now()
	s.orders[id] = o
	return &o, nil
}

func (s *MemoryStore) ListOrderItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.OrderItem{}
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateOrderItem(_ context.Context, item *models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderItemID++
	item.ID = s.nextOrderItemID
	s.orderItems[item.ID] = *item
	return nil
}

// =============================================
// SESSIONS
// =============================================

func (s *MemoryStore) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.SessionID]; ok {
		return fmt.Errorf("session %q: %w", session.SessionID, ErrDuplicate)
	}

	s.nextSessionID++
	now := s.now()
	session.ID = s.nextSessionID
	session.CreatedAt = now
	if session.LastActivity.IsZero() {
		session.LastActivity = now
	}
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	return &sess, nil
}

func (s *MemoryStore) TouchSession(_ context.Context, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	sess.LastActivity = at
	s.sessions[sessionID] = sess
	return nil
}

func (s *MemoryStore) DeactivateSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	sess.IsActive = false
	s.sessions[sessionID] = sess
	return nil
}

func (s *MemoryStore) ListActiveSessions(_ context.Context, since time.Time) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Session{}
	for _, sess := range s.sessions {
		if sess.IsActive && sess.LastActivity.After(since) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CountActiveSessions(ctx context.Context, since time.Time) (int, error) {
	active, err := s.ListActiveSessions(ctx, since)
	if err != nil {
		return 0, err
	}
	return len(active), nil
}

// =============================================
// METRICS
// =============================================

func (s *MemoryStore) CreateSnapshot(_ context.Context, snapshot *models.MetricSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSnapshotID++
	snapshot.ID = s.nextSnapshotID
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = s.now()
	}
	if snapshot.ScalingStatus == "" {
		snapshot.ScalingStatus = models.ScalingHealthy
	}
	if snapshot.Region == "" {
		snapshot.Region = models.DefaultRegion
	}
	s.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (s *MemoryStore) LatestSnapshot(_ context.Context) (*models.MetricSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[s.nextSnapshotID]
	if !ok {
		return nil, fmt.Errorf("aucun relevé: %w", ErrNotFound)
	}
	return &snap, nil
}

func (s *MemoryStore) SnapshotHistory(_ context.Context, limit int) ([]models.MetricSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.MetricSnapshot{}
	if limit <= 0 {
		return out, nil
	}
	// Les ids sont contigus : on remonte depuis le dernier relevé
	first := s.nextSnapshotID - int64(limit) + 1
	if first < 1 {
		first = 1
	}
	for id := first; id <= s.nextSnapshotID; id++ {
		if snap, ok := s.snapshots[id]; ok {
			out = append(out, snap)
		}
	}
	return out, nil
}
