package storage

import (
	"database/sql"
	"fmt"

	"food-order-assistant/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// cartViewQuery is the single source of truth for how a cart is rendered.
// Both the view path and the add-item echo use it, so subtotal derivation
// cannot drift between reads and writes.
const cartViewQuery = `
	SELECT mi.name, ci.quantity, ci.unit_price_cents,
	       ci.quantity * ci.unit_price_cents AS total
	FROM cart_items ci
	JOIN menu_items mi ON mi.id = ci.menu_item_id
	WHERE ci.cart_id = $1
	ORDER BY ci.menu_item_id`

func (r *PostgresRepository) SearchRestaurants(area, cuisine string) ([]domain.Restaurant, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, COALESCE(area, ''), COALESCE(cuisine_tags, ''), is_open, created_at
		FROM restaurants
		WHERE is_open = TRUE
		  AND ($1 = '' OR LOWER(area) LIKE '%' || LOWER($1) || '%')
		  AND ($2 = '' OR LOWER(cuisine_tags) LIKE '%' || LOWER($2) || '%')
		ORDER BY id`, area, cuisine)
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Area, &rest.CuisineTags, &rest.IsOpen, &rest.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) ListMenuItems(restaurantID int) ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, restaurant_id, name, price_cents, is_available, created_at
		FROM menu_items
		WHERE restaurant_id = $1 AND is_available = TRUE
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.PriceCents, &item.IsAvailable, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMenuItemPrice returns the current catalog price for an item.
// sql.ErrNoRows is passed through so the service can map it.
func (r *PostgresRepository) GetMenuItemPrice(menuItemID int) (int64, error) {
	var price int64
	err := r.DB.QueryRow(
		"SELECT price_cents FROM menu_items WHERE id = $1", menuItemID,
	).Scan(&price)
	return price, err
}

func (r *PostgresRepository) EnsureCart(cartID string) error {
	if _, err := r.DB.Exec(
		"INSERT INTO carts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", cartID,
	); err != nil {
		return fmt.Errorf("ensure cart: %w", err)
	}
	return nil
}

// UpsertCartLine inserts a new line at the given snapshot price, or
// increments the quantity of the existing line in one atomic statement.
// The stored unit price is never rewritten on conflict. The returned flag
// is true when a fresh line was created.
func (r *PostgresRepository) UpsertCartLine(cartID string, menuItemID, quantity int, unitPriceCents int64) (bool, error) {
	var inserted bool
	err := r.DB.QueryRow(`
		INSERT INTO cart_items (cart_id, menu_item_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, menu_item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING (xmax = 0)`,
		cartID, menuItemID, quantity, unitPriceCents,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert cart line: %w", err)
	}
	return inserted, nil
}

func (r *PostgresRepository) SetCartLineQuantity(cartID string, menuItemID, quantity int) error {
	if _, err := r.DB.Exec(
		"UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND menu_item_id = $2",
		cartID, menuItemID, quantity,
	); err != nil {
		return fmt.Errorf("set cart line quantity: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteCartLine(cartID string, menuItemID int) error {
	if _, err := r.DB.Exec(
		"DELETE FROM cart_items WHERE cart_id = $1 AND menu_item_id = $2",
		cartID, menuItemID,
	); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ClearCart(cartID string) error {
	if _, err := r.DB.Exec("DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListCartItems(cartID string) ([]domain.CartViewItem, error) {
	rows, err := r.DB.Query(cartViewQuery, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartViewItem{}
	for rows.Next() {
		var item domain.CartViewItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.UnitPriceCents, &item.TotalCents); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) CartSubtotalCents(cartID string) (int64, error) {
	var subtotal int64
	err := r.DB.QueryRow(
		"SELECT COALESCE(SUM(quantity * unit_price_cents), 0) FROM cart_items WHERE cart_id = $1",
		cartID,
	).Scan(&subtotal)
	if err != nil {
		return 0, fmt.Errorf("cart subtotal: %w", err)
	}
	return subtotal, nil
}

func (r *PostgresRepository) InsertOrder(order *domain.Order) error {
	err := r.DB.QueryRow(`
		INSERT INTO orders (id, cart_id, status, subtotal_cents, delivery_fee_cents, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		order.ID, order.CartID, order.Status, order.SubtotalCents, order.DeliveryFeeCents, order.TotalCents,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetOrder(orderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.DB.QueryRow(`
		SELECT id, cart_id, status, subtotal_cents, delivery_fee_cents, total_cents, created_at
		FROM orders WHERE id = $1`, orderID,
	).Scan(&order.ID, &order.CartID, &order.Status, &order.SubtotalCents,
		&order.DeliveryFeeCents, &order.TotalCents, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AdvanceOrderStatus moves an order from one status to the next. The old
// status guards the UPDATE so a concurrent advance cannot move it twice
// or backward; the caller re-reads when no row matched.
func (r *PostgresRepository) AdvanceOrderStatus(orderID string, from, to domain.OrderStatus) (bool, error) {
	res, err := r.DB.Exec(
		"UPDATE orders SET status = $3 WHERE id = $1 AND status = $2",
		orderID, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("advance order status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PostgresRepository) SaveOrderQRCode(orderID string, qr []byte) error {
	if _, err := r.DB.Exec("UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID); err != nil {
		return fmt.Errorf("save order qr code: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetOrderQRCode(orderID string) ([]byte, error) {
	var qr []byte
	if err := r.DB.QueryRow("SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qr); err != nil {
		return nil, err
	}
	return qr, nil
}

func (r *PostgresRepository) CreateConversation(cartID string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(
		"INSERT INTO conversations (cart_id) VALUES ($1) RETURNING id", cartID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create conversation: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) InsertMessage(conversationID int64, role, content string) error {
	if _, err := r.DB.Exec(
		"INSERT INTO messages (conversation_id, role, content) VALUES ($1, $2, $3)",
		conversationID, role, content,
	); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListMessages(conversationID int64) ([]domain.Message, error) {
	rows, err := r.DB.Query(
		"SELECT id, conversation_id, role, content FROM messages WHERE conversation_id = $1 ORDER BY id",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			area TEXT,
			cuisine_tags TEXT,
			is_open BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
			name TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			id TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			cart_id TEXT NOT NULL REFERENCES carts(id),
			menu_item_id INTEGER NOT NULL REFERENCES menu_items(id),
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			unit_price_cents BIGINT NOT NULL,
			UNIQUE (cart_id, menu_item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			status TEXT NOT NULL,
			subtotal_cents BIGINT NOT NULL,
			delivery_fee_cents BIGINT NOT NULL,
			total_cents BIGINT NOT NULL,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			cart_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES conversations(id),
			role TEXT NOT NULL,
			content TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
