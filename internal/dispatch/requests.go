package dispatch

import (
	"errors"
	"fmt"
)

// Quantity bounds enforced at the dispatch boundary.
const (
	minAddQuantity = 1
	maxQuantity    = 20
)

type SearchRestaurantsRequest struct {
	Area    string `json:"area"`
	Cuisine string `json:"cuisine"`
}

func (r SearchRestaurantsRequest) Validate() error { return nil }

type ListMenuRequest struct {
	RestaurantID int `json:"restaurant_id"`
}

func (r ListMenuRequest) Validate() error {
	if r.RestaurantID <= 0 {
		return errors.New("restaurant_id is required")
	}
	return nil
}

type EnsureCartRequest struct {
	CartID string `json:"cart_id"`
}

func (r EnsureCartRequest) Validate() error { return requireCartID(r.CartID) }

type AddItemRequest struct {
	CartID     string `json:"cart_id"`
	MenuItemID int    `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	if err := requireCartID(r.CartID); err != nil {
		return err
	}
	if r.MenuItemID <= 0 {
		return errors.New("menu_item_id is required")
	}
	if r.Quantity < minAddQuantity || r.Quantity > maxQuantity {
		return fmt.Errorf("quantity must be between %d and %d", minAddQuantity, maxQuantity)
	}
	return nil
}

type UpdateItemRequest struct {
	CartID     string `json:"cart_id"`
	MenuItemID int    `json:"menu_item_id"`
	Quantity   *int   `json:"quantity"`
}

func (r UpdateItemRequest) Validate() error {
	if err := requireCartID(r.CartID); err != nil {
		return err
	}
	if r.MenuItemID <= 0 {
		return errors.New("menu_item_id is required")
	}
	if r.Quantity == nil {
		return errors.New("quantity is required")
	}
	if *r.Quantity < 0 || *r.Quantity > maxQuantity {
		return fmt.Errorf("quantity must be between 0 and %d", maxQuantity)
	}
	return nil
}

type RemoveItemRequest struct {
	CartID     string `json:"cart_id"`
	MenuItemID int    `json:"menu_item_id"`
}

func (r RemoveItemRequest) Validate() error {
	if err := requireCartID(r.CartID); err != nil {
		return err
	}
	if r.MenuItemID <= 0 {
		return errors.New("menu_item_id is required")
	}
	return nil
}

type ClearCartRequest struct {
	CartID string `json:"cart_id"`
}

func (r ClearCartRequest) Validate() error { return requireCartID(r.CartID) }

type ViewCartRequest struct {
	CartID string `json:"cart_id"`
}

func (r ViewCartRequest) Validate() error { return requireCartID(r.CartID) }

type CreateOrderRequest struct {
	CartID           string `json:"cart_id"`
	DeliveryFeeCents *int64 `json:"delivery_fee_cents"`
}

func (r CreateOrderRequest) Validate() error {
	if err := requireCartID(r.CartID); err != nil {
		return err
	}
	if r.DeliveryFeeCents != nil && *r.DeliveryFeeCents < 0 {
		return errors.New("delivery_fee_cents must not be negative")
	}
	return nil
}

type OrderStatusRequest struct {
	OrderID string `json:"order_id"`
}

func (r OrderStatusRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order_id is required")
	}
	return nil
}

type CreateConversationRequest struct {
	CartID string `json:"cart_id"`
}

func (r CreateConversationRequest) Validate() error { return requireCartID(r.CartID) }

type SaveMessageRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
}

func (r SaveMessageRequest) Validate() error {
	if r.ConversationID <= 0 {
		return errors.New("conversation_id is required")
	}
	if r.Role == "" {
		return errors.New("role is required")
	}
	return nil
}

type LoadConversationRequest struct {
	ConversationID int64 `json:"conversation_id"`
}

func (r LoadConversationRequest) Validate() error {
	if r.ConversationID <= 0 {
		return errors.New("conversation_id is required")
	}
	return nil
}

func requireCartID(cartID string) error {
	if cartID == "" {
		return errors.New("cart_id is required")
	}
	return nil
}
