package tests

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"

	"food-order-assistant/internal/domain"
	"food-order-assistant/internal/service"
)

// fakeStore mirrors the cart/order repository contract in memory: unique
// (cart, item) lines, snapshot unit prices that survive catalog price
// changes, and additive upsert merges.
type fakeStore struct {
	mu          sync.Mutex
	restaurants []domain.Restaurant
	menus       map[int][]domain.MenuItem
	carts       map[string]bool
	prices      map[int]int64
	names       map[int]string
	lines       map[string]map[int]*domain.CartLine
	orders      map[string]*domain.Order
	messages    map[int64][]domain.Message
	nextConv    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		menus:    map[int][]domain.MenuItem{},
		carts:    map[string]bool{},
		prices:   map[int]int64{},
		names:    map[int]string{},
		lines:    map[string]map[int]*domain.CartLine{},
		orders:   map[string]*domain.Order{},
		messages: map[int64][]domain.Message{},
	}
}

func (f *fakeStore) addRestaurant(rest domain.Restaurant, menu ...domain.MenuItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restaurants = append(f.restaurants, rest)
	for _, item := range menu {
		item.RestaurantID = rest.ID
		f.menus[rest.ID] = append(f.menus[rest.ID], item)
		f.prices[item.ID] = item.PriceCents
		f.names[item.ID] = item.Name
	}
}

func (f *fakeStore) SearchRestaurants(area, cuisine string) ([]domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := []domain.Restaurant{}
	for _, rest := range f.restaurants {
		if !rest.IsOpen {
			continue
		}
		if area != "" && !strings.Contains(strings.ToLower(rest.Area), strings.ToLower(area)) {
			continue
		}
		if cuisine != "" && !strings.Contains(strings.ToLower(rest.CuisineTags), strings.ToLower(cuisine)) {
			continue
		}
		matches = append(matches, rest)
	}
	return matches, nil
}

func (f *fakeStore) ListMenuItems(restaurantID int) ([]domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []domain.MenuItem{}
	for _, item := range f.menus[restaurantID] {
		if item.IsAvailable {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) addMenuItem(id int, name string, priceCents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[id] = priceCents
	f.names[id] = name
}

func (f *fakeStore) cartCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.carts)
}

func (f *fakeStore) line(cartID string, menuItemID int) *domain.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lines, ok := f.lines[cartID]; ok {
		if line, ok := lines[menuItemID]; ok {
			copied := *line
			return &copied
		}
	}
	return nil
}

func (f *fakeStore) EnsureCart(cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[cartID] = true
	return nil
}

func (f *fakeStore) GetMenuItemPrice(menuItemID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	price, ok := f.prices[menuItemID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return price, nil
}

func (f *fakeStore) UpsertCartLine(cartID string, menuItemID, quantity int, unitPriceCents int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines, ok := f.lines[cartID]
	if !ok {
		lines = map[int]*domain.CartLine{}
		f.lines[cartID] = lines
	}
	if existing, ok := lines[menuItemID]; ok {
		existing.Quantity += quantity
		return false, nil
	}
	lines[menuItemID] = &domain.CartLine{
		CartID:         cartID,
		MenuItemID:     menuItemID,
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
	}
	return true, nil
}

func (f *fakeStore) SetCartLineQuantity(cartID string, menuItemID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if line, ok := f.lines[cartID][menuItemID]; ok {
		line.Quantity = quantity
	}
	return nil
}

func (f *fakeStore) DeleteCartLine(cartID string, menuItemID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines[cartID], menuItemID)
	return nil
}

func (f *fakeStore) ClearCart(cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[cartID] = map[int]*domain.CartLine{}
	return nil
}

func (f *fakeStore) ListCartItems(cartID string) ([]domain.CartViewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.lines[cartID]))
	for id := range f.lines[cartID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := []domain.CartViewItem{}
	for _, id := range ids {
		line := f.lines[cartID][id]
		items = append(items, domain.CartViewItem{
			Name:           f.names[id],
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     int64(line.Quantity) * line.UnitPriceCents,
		})
	}
	return items, nil
}

func (f *fakeStore) CartSubtotalCents(cartID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var subtotal int64
	for _, line := range f.lines[cartID] {
		subtotal += int64(line.Quantity) * line.UnitPriceCents
	}
	return subtotal, nil
}

func (f *fakeStore) InsertOrder(order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeStore) GetOrder(orderID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStore) AdvanceOrderStatus(orderID string, from, to domain.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (f *fakeStore) SaveOrderQRCode(orderID string, qr []byte) error { return nil }

func (f *fakeStore) GetOrderQRCode(orderID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[orderID]; !ok {
		return nil, sql.ErrNoRows
	}
	return []byte("qr"), nil
}

func (f *fakeStore) CreateConversation(cartID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextConv++
	f.messages[f.nextConv] = []domain.Message{}
	return f.nextConv, nil
}

func (f *fakeStore) InsertMessage(conversationID int64, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[conversationID] = append(f.messages[conversationID], domain.Message{
		ID:             int64(len(f.messages[conversationID]) + 1),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	})
	return nil
}

func (f *fakeStore) ListMessages(conversationID int64) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message{}, f.messages[conversationID]...), nil
}

func catalogRepoFromStore(f *fakeStore) service.CatalogRepository { return f }

var (
	_ service.CatalogRepository      = (*fakeStore)(nil)
	_ service.CartRepository         = (*fakeStore)(nil)
	_ service.OrderRepository        = (*fakeStore)(nil)
	_ service.ConversationRepository = (*fakeStore)(nil)
)

var errStorageDown = errors.New("storage unavailable")

// failingCartService simulates an infrastructure failure below the
// dispatch layer.
type failingCartService struct{}

func (failingCartService) Ensure(string) error { return errStorageDown }

func (failingCartService) AddItem(string, int, int) (string, *domain.CartView, error) {
	return "", nil, errStorageDown
}

func (failingCartService) UpdateItem(string, int, int) (string, error) { return "", errStorageDown }

func (failingCartService) RemoveItem(string, int) error { return errStorageDown }

func (failingCartService) Clear(string) error { return errStorageDown }

func (failingCartService) View(string) (*domain.CartView, error) { return nil, errStorageDown }

var _ service.CartServiceInterface = (*failingCartService)(nil)
