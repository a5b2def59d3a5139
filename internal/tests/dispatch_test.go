package tests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"food-order-assistant/internal/dispatch"
	"food-order-assistant/internal/service"
)

func newTestDispatcher(store *fakeStore) *dispatch.Dispatcher {
	catalogSvc := service.NewCatalogService(catalogRepoFromStore(store), nil)
	cartSvc := service.NewCartService(store)
	orderSvc := service.NewOrderService(store, defaultOrderConfig(), nil, nil)
	conversationSvc := service.NewConversationService(store)
	return dispatch.NewDispatcher(catalogSvc, cartSvc, orderSvc, conversationSvc)
}

func invoke(t *testing.T, d *dispatch.Dispatcher, tool, params string) map[string]any {
	t.Helper()
	result := d.Invoke(context.Background(), tool, json.RawMessage(params))

	// Round-trip through JSON the way the HTTP layer would.
	raw, err := json.Marshal(result)
	assert.NoError(t, err)
	decoded := map[string]any{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func errorCode(resp map[string]any) string {
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newTestDispatcher(newFakeStore())

	resp := invoke(t, d, "does.not.exist", `{}`)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "UNKNOWN_TOOL", errObj["code"])
	assert.Equal(t, "does.not.exist", errObj["message"])
}

func TestDispatch_CartLifecycle(t *testing.T) {
	store := newFakeStore()
	store.addMenuItem(7, "Chicken Biryani", 15000)
	d := newTestDispatcher(store)

	resp := invoke(t, d, "cart.ensure", `{"cart_id":"c1"}`)
	assert.Equal(t, "ready", resp["status"])
	assert.Equal(t, "c1", resp["cart_id"])

	resp = invoke(t, d, "cart.add_item", `{"cart_id":"c1","menu_item_id":7,"quantity":2}`)
	assert.Equal(t, "item_added", resp["status"])
	cart := resp["cart"].(map[string]any)
	assert.Equal(t, 300.0, cart["subtotal_rupees"])

	resp = invoke(t, d, "cart.add_item", `{"cart_id":"c1","menu_item_id":7,"quantity":3}`)
	assert.Equal(t, "quantity_updated", resp["status"])
	cart = resp["cart"].(map[string]any)
	assert.Equal(t, 750.0, cart["subtotal_rupees"])

	resp = invoke(t, d, "cart.view", `{"cart_id":"c1"}`)
	items := resp["items"].([]any)
	assert.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Chicken Biryani", item["name"])
	assert.Equal(t, 5.0, item["quantity"])
	assert.Equal(t, 15000.0, item["unit_price_cents"])
	assert.Equal(t, 75000.0, item["total"])
	assert.Equal(t, 750.0, resp["subtotal_rupees"])

	resp = invoke(t, d, "cart.update_item", `{"cart_id":"c1","menu_item_id":7,"quantity":0}`)
	assert.Equal(t, "item_removed", resp["status"])
	_, hasItemID := resp["menu_item_id"]
	assert.False(t, hasItemID)

	resp = invoke(t, d, "cart.view", `{"cart_id":"c1"}`)
	assert.Empty(t, resp["items"])
	assert.Equal(t, 0.0, resp["subtotal_rupees"])
}

func TestDispatch_AddItemNotFound(t *testing.T) {
	d := newTestDispatcher(newFakeStore())

	resp := invoke(t, d, "cart.add_item", `{"cart_id":"c1","menu_item_id":404,"quantity":1}`)
	assert.Equal(t, "ITEM_NOT_FOUND", errorCode(resp))
}

func TestDispatch_ValidationBounds(t *testing.T) {
	store := newFakeStore()
	store.addMenuItem(7, "Chicken Biryani", 15000)
	d := newTestDispatcher(store)

	tests := []struct {
		name   string
		tool   string
		params string
	}{
		{"missing cart id", "cart.add_item", `{"menu_item_id":7,"quantity":1}`},
		{"zero quantity on add", "cart.add_item", `{"cart_id":"c1","menu_item_id":7,"quantity":0}`},
		{"quantity over cap", "cart.add_item", `{"cart_id":"c1","menu_item_id":7,"quantity":21}`},
		{"negative quantity on update", "cart.update_item", `{"cart_id":"c1","menu_item_id":7,"quantity":-1}`},
		{"missing quantity on update", "cart.update_item", `{"cart_id":"c1","menu_item_id":7}`},
		{"malformed params", "cart.add_item", `{"cart_id":`},
		{"missing restaurant id", "menus.list", `{}`},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			resp := invoke(t, d, testCase.tool, testCase.params)
			assert.Equal(t, "INVALID_PARAMS", errorCode(resp))
		})
	}

	// Nothing was written along the way.
	assert.Nil(t, store.line("c1", 7))
}

func TestDispatch_RemoveAndClearAlwaysSucceed(t *testing.T) {
	d := newTestDispatcher(newFakeStore())

	resp := invoke(t, d, "cart.remove_item", `{"cart_id":"c1","menu_item_id":9}`)
	assert.Equal(t, "item_removed", resp["status"])
	assert.Equal(t, 9.0, resp["menu_item_id"])

	resp = invoke(t, d, "cart.clear", `{"cart_id":"c1"}`)
	assert.Equal(t, "cart_cleared", resp["status"])
}

func TestDispatch_OrderCreateAndTrack(t *testing.T) {
	store := newFakeStore()
	store.addMenuItem(1, "Item A", 15000)
	store.addMenuItem(2, "Item B", 9900)
	d := newTestDispatcher(store)

	invoke(t, d, "cart.add_item", `{"cart_id":"c1","menu_item_id":1,"quantity":2}`)
	invoke(t, d, "cart.add_item", `{"cart_id":"c1","menu_item_id":2,"quantity":1}`)

	resp := invoke(t, d, "orders.create_mock", `{"cart_id":"c1"}`)
	assert.Equal(t, 439.0, resp["total_rupees"])
	orderID := resp["order_id"].(string)
	assert.NotEmpty(t, orderID)

	statusResp := invoke(t, d, "orders.status.get", `{"order_id":"`+orderID+`"}`)
	assert.Equal(t, "PLACED", statusResp["status"])
	assert.Equal(t, 40.0, statusResp["eta_minutes"])

	advanceResp := invoke(t, d, "orders.status.advance_mock", `{"order_id":"`+orderID+`"}`)
	assert.Equal(t, "CONFIRMED", advanceResp["status"])
}

func TestDispatch_ConversationOrdering(t *testing.T) {
	d := newTestDispatcher(newFakeStore())

	resp := invoke(t, d, "conversation.create", `{"cart_id":"c1"}`)
	convID := resp["conversation_id"].(float64)
	assert.Equal(t, 1.0, convID)

	saved := invoke(t, d, "conversation.save_message", `{"conversation_id":1,"role":"user","content":"hi"}`)
	assert.Equal(t, "saved", saved["status"])
	saved = invoke(t, d, "conversation.save_message", `{"conversation_id":1,"role":"assistant","content":"hello"}`)
	assert.Equal(t, "saved", saved["status"])

	loaded := invoke(t, d, "conversation.load", `{"conversation_id":1}`)
	messages := loaded["messages"].([]any)
	assert.Len(t, messages, 2)
	first := messages[0].([]any)
	second := messages[1].([]any)
	assert.Equal(t, []any{"user", "hi"}, first)
	assert.Equal(t, []any{"assistant", "hello"}, second)
}

func TestDispatch_MenusListUnknownRestaurant(t *testing.T) {
	d := newTestDispatcher(newFakeStore())

	resp := invoke(t, d, "menus.list", `{"restaurant_id":42}`)
	menu, ok := resp["menu"].([]any)
	assert.True(t, ok)
	assert.Empty(t, menu)
	assert.Equal(t, "", errorCode(resp))
}

func TestDispatch_ServerErrorEnvelope(t *testing.T) {
	failing := &failingCartService{}
	d := dispatch.NewDispatcher(
		service.NewCatalogService(catalogRepoFromStore(newFakeStore()), nil),
		failing,
		service.NewOrderService(newFakeStore(), defaultOrderConfig(), nil, nil),
		service.NewConversationService(newFakeStore()),
	)

	resp := invoke(t, d, "cart.view", `{"cart_id":"c1"}`)
	assert.Equal(t, "SERVER_ERROR", errorCode(resp))
}
