package database

import (
	"context"
	"errors"
	"time"

	"cloudscale_back_end/internal/models"
)

var (
	ErrNotFound  = errors.New("enregistrement introuvable")
	ErrDuplicate = errors.New("enregistrement déjà existant")
)

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
}

type AddressStore interface {
	ListAddresses(ctx context.Context, userID int64) ([]models.Address, error)
	GetAddress(ctx context.Context, id int64) (*models.Address, error)
	CreateAddress(ctx context.Context, address *models.Address) error
	UpdateAddress(ctx context.Context, address *models.Address) error
	DeleteAddress(ctx context.Context, id int64) error
}

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProductStock(ctx context.Context, id int64, count int) error
}

type CartStore interface {
	ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, id int64) (*models.CartItem, error)
	// AddToCart fusionne sur (UserID, ProductID) : la quantité est ajoutée à la ligne existante
	AddToCart(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, id int64) error
	ClearCart(ctx context.Context, userID int64) error
}

type OrderStore interface {
	ListOrders(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	TouchSession(ctx context.Context, sessionID string, at time.Time) error
	DeactivateSession(ctx context.Context, sessionID string) error
	// ListActiveSessions renvoie les sessions actives dont la dernière activité est après since
	ListActiveSessions(ctx context.Context, since time.Time) ([]models.Session, error)
	CountActiveSessions(ctx context.Context, since time.Time) (int, error)
}

type MetricsStore interface {
	CreateSnapshot(ctx context.Context, snapshot *models.MetricSnapshot) error
	LatestSnapshot(ctx context.Context) (*models.MetricSnapshot, error)
	// SnapshotHistory renvoie les limit derniers relevés, du plus ancien au plus récent
	SnapshotHistory(ctx context.Context, limit int) ([]models.MetricSnapshot, error)
}

// Store regroupe toutes les capacités de stockage de l'application
type Store interface {
	UserStore
	AddressStore
	ProductStore
	CartStore
	OrderStore
	SessionStore
	MetricsStore

	Ping(ctx context.Context) error
	Close() error
}
