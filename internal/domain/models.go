package domain

import "time"

type Restaurant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Area        string    `json:"area"`
	CuisineTags string    `json:"cuisine_tags"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
}

type MenuItem struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurant_id"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"price_cents"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
}

// RestaurantWithMenu is one entry of a restaurants.search result.
type RestaurantWithMenu struct {
	Restaurant Restaurant `json:"restaurant"`
	Menu       []MenuItem `json:"menu"`
}

// CartLine is the stored (cart, menu item) pairing. UnitPriceCents is a
// snapshot taken when the line was first inserted and never rewritten.
type CartLine struct {
	CartID         string `json:"cart_id"`
	MenuItemID     int    `json:"menu_item_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// CartViewItem is a cart line joined with its menu item name.
type CartViewItem struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total"`
}

type CartView struct {
	Items          []CartViewItem `json:"items"`
	SubtotalRupees float64        `json:"subtotal_rupees"`
}

type OrderStatus string

const (
	StatusPlaced         OrderStatus = "PLACED"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
)

// StatusSequence is the forward-only lifecycle of an order.
var StatusSequence = []OrderStatus{
	StatusPlaced,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

// Next returns the following status, or the same status when terminal.
func (s OrderStatus) Next() OrderStatus {
	for i, st := range StatusSequence {
		if st == s && i+1 < len(StatusSequence) {
			return StatusSequence[i+1]
		}
	}
	return s
}

type Order struct {
	ID               string      `json:"id"`
	CartID           string      `json:"cart_id"`
	Status           OrderStatus `json:"status"`
	SubtotalCents    int64       `json:"subtotal_cents"`
	DeliveryFeeCents int64       `json:"delivery_fee_cents"`
	TotalCents       int64       `json:"total_cents"`
	CreatedAt        time.Time   `json:"created_at"`
}

type Conversation struct {
	ID     int64  `json:"conversation_id"`
	CartID string `json:"cart_id"`
}

type Message struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
}

// OrderEvent is the payload published to Kafka on order lifecycle changes.
type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    string      `json:"order_id"`
	CartID     string      `json:"cart_id,omitempty"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
