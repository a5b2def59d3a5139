package service

import (
	"database/sql"
	"errors"

	"food-order-assistant/internal/domain"
)

// Cart mutation actions reported to callers.
const (
	ActionItemAdded       = "item_added"
	ActionQuantityUpdated = "quantity_updated"
	ActionItemUpdated     = "item_updated"
	ActionItemRemoved     = "item_removed"
	ActionCartCleared     = "cart_cleared"
)

type CartService struct {
	repo CartRepository
}

func NewCartService(repo CartRepository) *CartService {
	return &CartService{repo: repo}
}

// Ensure creates the cart if it does not exist yet. Calling it again with
// the same id is a no-op.
func (s *CartService) Ensure(cartID string) error {
	return s.repo.EnsureCart(cartID)
}

// AddItem puts quantity units of a menu item into the cart at the item's
// current catalog price. When a line already exists its quantity grows by
// the requested amount and the unit price stays at the original snapshot.
// Returns the action taken plus the recomputed cart view.
func (s *CartService) AddItem(cartID string, menuItemID, quantity int) (string, *domain.CartView, error) {
	price, err := s.repo.GetMenuItemPrice(menuItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrItemNotFound
		}
		return "", nil, err
	}

	inserted, err := s.repo.UpsertCartLine(cartID, menuItemID, quantity, price)
	if err != nil {
		return "", nil, err
	}

	action := ActionQuantityUpdated
	if inserted {
		action = ActionItemAdded
	}

	view, err := s.View(cartID)
	if err != nil {
		return "", nil, err
	}
	return action, view, nil
}

// UpdateItem sets a line's quantity to an absolute value. Zero deletes
// the line. Updating a line that does not exist is a silent no-op.
func (s *CartService) UpdateItem(cartID string, menuItemID, quantity int) (string, error) {
	if quantity == 0 {
		if err := s.repo.DeleteCartLine(cartID, menuItemID); err != nil {
			return "", err
		}
		return ActionItemRemoved, nil
	}
	if err := s.repo.SetCartLineQuantity(cartID, menuItemID, quantity); err != nil {
		return "", err
	}
	return ActionItemUpdated, nil
}

// RemoveItem deletes the line whether or not it existed.
func (s *CartService) RemoveItem(cartID string, menuItemID int) error {
	return s.repo.DeleteCartLine(cartID, menuItemID)
}

func (s *CartService) Clear(cartID string) error {
	return s.repo.ClearCart(cartID)
}

// View renders every cart line with its per-line total and the subtotal.
// The subtotal is the sum of the per-line totals produced by the shared
// cart query, converted to rupees by dividing by 100.
func (s *CartService) View(cartID string) (*domain.CartView, error) {
	items, err := s.repo.ListCartItems(cartID)
	if err != nil {
		return nil, err
	}
	var subtotal int64
	for _, item := range items {
		subtotal += item.TotalCents
	}
	return &domain.CartView{
		Items:          items,
		SubtotalRupees: float64(subtotal) / 100,
	}, nil
}

var _ CartServiceInterface = (*CartService)(nil)
