package service

import (
	"context"

	"food-order-assistant/internal/domain"
)

type CatalogRepository interface {
	SearchRestaurants(area, cuisine string) ([]domain.Restaurant, error)
	ListMenuItems(restaurantID int) ([]domain.MenuItem, error)
}

type CartRepository interface {
	EnsureCart(cartID string) error
	GetMenuItemPrice(menuItemID int) (int64, error)
	UpsertCartLine(cartID string, menuItemID, quantity int, unitPriceCents int64) (bool, error)
	SetCartLineQuantity(cartID string, menuItemID, quantity int) error
	DeleteCartLine(cartID string, menuItemID int) error
	ClearCart(cartID string) error
	ListCartItems(cartID string) ([]domain.CartViewItem, error)
}

type OrderRepository interface {
	CartSubtotalCents(cartID string) (int64, error)
	InsertOrder(order *domain.Order) error
	GetOrder(orderID string) (*domain.Order, error)
	AdvanceOrderStatus(orderID string, from, to domain.OrderStatus) (bool, error)
	SaveOrderQRCode(orderID string, qr []byte) error
	GetOrderQRCode(orderID string) ([]byte, error)
}

type ConversationRepository interface {
	CreateConversation(cartID string) (int64, error)
	InsertMessage(conversationID int64, role, content string) error
	ListMessages(conversationID int64) ([]domain.Message, error)
}

// CatalogCache is satisfied by storage.CatalogCache. A nil cache disables
// caching without changing the read path.
type CatalogCache interface {
	SearchKey(area, cuisine string) string
	MenuKey(restaurantID int) string
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type CatalogServiceInterface interface {
	Search(ctx context.Context, area, cuisine string) ([]domain.RestaurantWithMenu, error)
	ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
}

type CartServiceInterface interface {
	Ensure(cartID string) error
	AddItem(cartID string, menuItemID, quantity int) (string, *domain.CartView, error)
	UpdateItem(cartID string, menuItemID, quantity int) (string, error)
	RemoveItem(cartID string, menuItemID int) error
	Clear(cartID string) error
	View(cartID string) (*domain.CartView, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, cartID string, deliveryFeeCents *int64) (*domain.Order, error)
	Status(orderID string) (*domain.Order, int, error)
	Advance(ctx context.Context, orderID string) (*domain.Order, error)
	QRCode(orderID string) ([]byte, error)
}

type ConversationServiceInterface interface {
	Create(cartID string) (int64, error)
	SaveMessage(conversationID int64, role, content string) error
	Load(conversationID int64) ([]domain.Message, error)
}
