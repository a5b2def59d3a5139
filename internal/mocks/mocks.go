package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"food-order-assistant/internal/domain"
)

type CatalogRepository struct{ mock.Mock }

func (m *CatalogRepository) SearchRestaurants(area, cuisine string) ([]domain.Restaurant, error) {
	args := m.Called(area, cuisine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *CatalogRepository) ListMenuItems(restaurantID int) ([]domain.MenuItem, error) {
	args := m.Called(restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

type CartRepository struct{ mock.Mock }

func (m *CartRepository) EnsureCart(cartID string) error {
	return m.Called(cartID).Error(0)
}

func (m *CartRepository) GetMenuItemPrice(menuItemID int) (int64, error) {
	args := m.Called(menuItemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartRepository) UpsertCartLine(cartID string, menuItemID, quantity int, unitPriceCents int64) (bool, error) {
	args := m.Called(cartID, menuItemID, quantity, unitPriceCents)
	return args.Bool(0), args.Error(1)
}

func (m *CartRepository) SetCartLineQuantity(cartID string, menuItemID, quantity int) error {
	return m.Called(cartID, menuItemID, quantity).Error(0)
}

func (m *CartRepository) DeleteCartLine(cartID string, menuItemID int) error {
	return m.Called(cartID, menuItemID).Error(0)
}

func (m *CartRepository) ClearCart(cartID string) error {
	return m.Called(cartID).Error(0)
}

func (m *CartRepository) ListCartItems(cartID string) ([]domain.CartViewItem, error) {
	args := m.Called(cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartViewItem), args.Error(1)
}

type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) CartSubtotalCents(cartID string) (int64, error) {
	args := m.Called(cartID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) InsertOrder(order *domain.Order) error {
	return m.Called(order).Error(0)
}

func (m *OrderRepository) GetOrder(orderID string) (*domain.Order, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) AdvanceOrderStatus(orderID string, from, to domain.OrderStatus) (bool, error) {
	args := m.Called(orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) SaveOrderQRCode(orderID string, qr []byte) error {
	return m.Called(orderID, qr).Error(0)
}

func (m *OrderRepository) GetOrderQRCode(orderID string) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type ConversationRepository struct{ mock.Mock }

func (m *ConversationRepository) CreateConversation(cartID string) (int64, error) {
	args := m.Called(cartID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ConversationRepository) InsertMessage(conversationID int64, role, content string) error {
	return m.Called(conversationID, role, content).Error(0)
}

func (m *ConversationRepository) ListMessages(conversationID int64) ([]domain.Message, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

type QRGenerator struct{ mock.Mock }

func (m *QRGenerator) Generate(orderID string) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type OrderPublisher struct{ mock.Mock }

func (m *OrderPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}
