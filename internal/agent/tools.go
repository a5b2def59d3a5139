package agent

import (
	"encoding/json"

	"github.com/openai/openai-go"
)

// Model-facing function names use underscores; opForTool maps them back
// to the dotted operation names the dispatch layer understands.
var opForTool = map[string]string{
	"restaurants_search":         "restaurants.search",
	"menus_list":                 "menus.list",
	"cart_ensure":                "cart.ensure",
	"cart_view":                  "cart.view",
	"cart_add_item":              "cart.add_item",
	"cart_update_item":           "cart.update_item",
	"cart_remove_item":           "cart.remove_item",
	"cart_clear":                 "cart.clear",
	"orders_create_mock":         "orders.create_mock",
	"orders_status_get":          "orders.status.get",
	"orders_status_advance_mock": "orders.status.advance_mock",
}

// cartScopedTools get the session cart_id injected so the model never has
// to track it.
var cartScopedTools = map[string]bool{
	"cart_ensure":        true,
	"cart_view":          true,
	"cart_add_item":      true,
	"cart_update_item":   true,
	"cart_remove_item":   true,
	"cart_clear":         true,
	"orders_create_mock": true,
}

func toolDefinitions() []openai.ChatCompletionToolParam {
	quantityProp := func(minimum int) map[string]any {
		return map[string]any{
			"type": "integer", "minimum": minimum, "maximum": 20,
		}
	}
	return []openai.ChatCompletionToolParam{
		functionTool("restaurants_search",
			"Search open restaurants by area and/or cuisine.",
			map[string]any{
				"area":    map[string]any{"type": "string", "description": "Area/neighborhood, e.g. 'Guindy'"},
				"cuisine": map[string]any{"type": "string", "description": "Cuisine tag, e.g. 'Biryani'"},
			}, nil),
		functionTool("menus_list",
			"List available menu items for a restaurant ID.",
			map[string]any{
				"restaurant_id": map[string]any{"type": "integer"},
			}, []string{"restaurant_id"}),
		functionTool("cart_ensure",
			"Ensure a cart exists for this session (idempotent).",
			map[string]any{}, nil),
		functionTool("cart_view",
			"View current cart items and subtotal.",
			map[string]any{}, nil),
		functionTool("cart_add_item",
			"Add a menu item to the current cart (quantity 1..20).",
			map[string]any{
				"menu_item_id": map[string]any{"type": "integer"},
				"quantity":     quantityProp(1),
			}, []string{"menu_item_id", "quantity"}),
		functionTool("cart_update_item",
			"Update quantity for a cart item; quantity=0 removes it.",
			map[string]any{
				"menu_item_id": map[string]any{"type": "integer"},
				"quantity":     quantityProp(0),
			}, []string{"menu_item_id", "quantity"}),
		functionTool("cart_remove_item",
			"Remove an item from the current cart.",
			map[string]any{
				"menu_item_id": map[string]any{"type": "integer"},
			}, []string{"menu_item_id"}),
		functionTool("cart_clear",
			"Clear the current cart.",
			map[string]any{}, nil),
		functionTool("orders_create_mock",
			"Place a mock order from the current cart.",
			map[string]any{
				"delivery_fee_cents": map[string]any{"type": "integer", "description": "Override delivery fee (paise)"},
			}, nil),
		functionTool("orders_status_get",
			"Get current status and ETA for an order.",
			map[string]any{
				"order_id": map[string]any{"type": "string"},
			}, []string{"order_id"}),
		functionTool("orders_status_advance_mock",
			"[DEV] Advance order status to the next step (PLACED -> CONFIRMED -> ...).",
			map[string]any{
				"order_id": map[string]any{"type": "string"},
			}, []string{"order_id"}),
	}
}

func functionTool(name, description string, properties map[string]any, required []string) openai.ChatCompletionToolParam {
	params := openai.FunctionParameters{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        name,
			Description: openai.String(description),
			Parameters:  params,
		},
	}
}

func decodeArguments(raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	_ = json.Unmarshal([]byte(raw), &args)
	return args
}
