package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"cloudscale_back_end/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implémente Store au-dessus d'une base relationnelle via GORM
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenPostgres ouvre la base Postgres décrite par dsn et migre le schéma
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connexion Postgres: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore migre le schéma sur db et renvoie le store
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Session{},
		&models.MetricSnapshot{},
	)
	if err != nil {
		return nil, fmt.Errorf("migration du schéma: %w", err)
	}
	log.Println("✅ Schéma SQL migré")

	return &GormStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func newGormLogger() logger.Interface {
	return logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate ramène les erreurs GORM aux erreurs du package
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// =============================================
// USERS
// =============================================

func (s *GormStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("utilisateur %d", id))
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("utilisateur %q", email))
	}
	return &u, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("utilisateur %q", username))
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	now := s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.LastActive.IsZero() {
		user.LastActive = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? OR username = ?", user.Email, user.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, ErrDuplicate) {
		return fmt.Errorf("utilisateur %q: %w", user.Email, ErrDuplicate)
	}
	return translate(err, "création utilisateur")
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = s.now()
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Select("*").Updates(user)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("utilisateur %d", user.ID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("utilisateur %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

// =============================================
// ADDRESSES
// =============================================

func (s *GormStore) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	out := []models.Address{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, translate(err, "liste adresses")
}

func (s *GormStore) GetAddress(ctx context.Context, id int64) (*models.Address, error) {
	var a models.Address
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("adresse %d", id))
	}
	return &a, nil
}

func (s *GormStore) CreateAddress(ctx context.Context, address *models.Address) error {
	return translate(s.db.WithContext(ctx).Create(address).Error, "création adresse")
}

func (s *GormStore) UpdateAddress(ctx context.Context, address *models.Address) error {
	res := s.db.WithContext(ctx).Model(&models.Address{}).Where("id = ?", address.ID).Select("*").Updates(address)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("adresse %d", address.ID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("adresse %d: %w", address.ID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) DeleteAddress(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Address{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("adresse %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("adresse %d: %w", id, ErrNotFound)
	}
	return nil
}

// =============================================
// PRODUCTS
// =============================================

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, translate(err, "liste produits")
}

func (s *GormStore) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	out := []models.Product{}
	err := s.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&out).Error
	return out, translate(err, "liste produits par catégorie")
}

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("produit %d", id))
	}
	return &p, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(product).Error, "création produit")
}

func (s *GormStore) UpdateProductStock(ctx context.Context, id int64, count int) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"stock_count": count, "in_stock": count > 0})
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("produit %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("produit %d: %w", id, ErrNotFound)
	}
	return nil
}

// =============================================
// CART
// =============================================

func (s *GormStore) ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	out := []models.CartItem{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, translate(err, "liste panier")
}

func (s *GormStore) GetCartItem(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("ligne panier %d", id))
	}
	return &item, nil
}

func (s *GormStore) AddToCart(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var result models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(&result).Error
		switch {
		case err == nil:
			if err := tx.Model(&result).UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return err
			}
			return tx.First(&result, result.ID).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = models.CartItem{
				UserID:    item.UserID,
				ProductID: item.ProductID,
				Quantity:  quantity,
				AddedAt:   s.now(),
			}
			return tx.Create(&result).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, translate(err, "ajout panier")
	}
	return &result, nil
}

func (s *GormStore) UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) (*models.CartItem, error) {
	res := s.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("ligne panier %d", id))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("ligne panier %d: %w", id, ErrNotFound)
	}
	return s.GetCartItem(ctx, id)
}

func (s *GormStore) RemoveCartItem(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.CartItem{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("ligne panier %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ligne panier %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) ClearCart(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	return translate(err, "vidage panier")
}

// =============================================
// ORDERS
// =============================================

func (s *GormStore) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	out := []models.Order{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&out).Error
	return out, translate(err, "liste commandes")
}

func (s *GormStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("commande %d", id))
	}
	return &o, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	return translate(s.db.WithContext(ctx).Create(order).Error, "création commande")
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": s.now()})
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("commande %d", id))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("commande %d: %w", id, ErrNotFound)
	}
	return s.GetOrder(ctx, id)
}

func (s *GormStore) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	out := []models.OrderItem{}
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&out).Error
	return out, translate(err, "liste articles commande")
}

func (s *GormStore) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	return translate(s.db.WithContext(ctx).Create(item).Error, "création article commande")
}

// =============================================
// SESSIONS
// =============================================

func (s *GormStore) CreateSession(ctx context.Context, session *models.Session) error {
	now := s.now()
	session.CreatedAt = now
	if session.LastActivity.IsZero() {
		session.LastActivity = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Session{}).Where("session_id = ?", session.SessionID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(session).Error
	})
	if errors.Is(err, ErrDuplicate) {
		return fmt.Errorf("session %q: %w", session.SessionID, ErrDuplicate)
	}
	return translate(err, "création session")
}

func (s *GormStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&sess).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("session %q", sessionID))
	}
	return &sess, nil
}

func (s *GormStore) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).Where("session_id = ?", sessionID).
		Update("last_activity", at.UTC())
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("session %q", sessionID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) DeactivateSession(ctx context.Context, sessionID string) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).Where("session_id = ?", sessionID).
		Update("is_active", false)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("session %q", sessionID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) activeSessions(ctx context.Context, since time.Time) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("is_active = ? AND last_activity > ?", true, since.UTC())
}

func (s *GormStore) ListActiveSessions(ctx context.Context, since time.Time) ([]models.Session, error) {
	out := []models.Session{}
	err := s.activeSessions(ctx, since).Order("id").Find(&out).Error
	return out, translate(err, "liste sessions actives")
}

func (s *GormStore) CountActiveSessions(ctx context.Context, since time.Time) (int, error) {
	var count int64
	if err := s.activeSessions(ctx, since).Count(&count).Error; err != nil {
		return 0, translate(err, "comptage sessions actives")
	}
	return int(count), nil
}

// =============================================
// METRICS
// =============================================

func (s *GormStore) CreateSnapshot(ctx context.Context, snapshot *models.MetricSnapshot) error {
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = s.now()
	}
	if snapshot.ScalingStatus == "" {
		snapshot.ScalingStatus = models.ScalingHealthy
	}
	if snapshot.Region == "" {
		snapshot.Region = models.DefaultRegion
	}
	return translate(s.db.WithContext(ctx).Create(snapshot).Error, "création relevé")
}

func (s *GormStore) LatestSnapshot(ctx context.Context) (*models.MetricSnapshot, error) {
	var snap models.MetricSnapshot
	if err := s.db.WithContext(ctx).Order("id desc").First(&snap).Error; err != nil {
		return nil, translate(err, "dernier relevé")
	}
	return &snap, nil
}

func (s *GormStore) SnapshotHistory(ctx context.Context, limit int) ([]models.MetricSnapshot, error) {
	out := []models.MetricSnapshot{}
	if limit <= 0 {
		return out, nil
	}
	if err := s.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, translate(err, "historique relevés")
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
