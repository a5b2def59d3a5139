package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"food-order-assistant/internal/service"
)

// Error codes crossing the dispatch boundary. Anything a component
// returns that is not named here is collapsed into CodeServerError.
const (
	CodeUnknownTool   = "UNKNOWN_TOOL"
	CodeItemNotFound  = "ITEM_NOT_FOUND"
	CodeInvalidParams = "INVALID_PARAMS"
	CodeServerError   = "SERVER_ERROR"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope is the uniform failure shape for every operation.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func errorResponse(code, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorBody{Code: code, Message: message}}
}

type validator interface {
	Validate() error
}

type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Dispatcher routes named operations to the backing components and
// normalizes every failure into the error envelope. No error leaves
// Invoke unconverted.
type Dispatcher struct {
	handlers map[string]handler
}

func NewDispatcher(
	catalog service.CatalogServiceInterface,
	cart service.CartServiceInterface,
	orders service.OrderServiceInterface,
	conversations service.ConversationServiceInterface,
) *Dispatcher {
	d := &Dispatcher{}
	d.handlers = map[string]handler{
		"restaurants.search": typed(func(ctx context.Context, req SearchRestaurantsRequest) (any, error) {
			results, err := catalog.Search(ctx, req.Area, req.Cuisine)
			if err != nil {
				return nil, err
			}
			return map[string]any{"results": results}, nil
		}),
		"menus.list": typed(func(ctx context.Context, req ListMenuRequest) (any, error) {
			menu, err := catalog.ListMenu(ctx, req.RestaurantID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"menu": menu}, nil
		}),
		"cart.ensure": typed(func(_ context.Context, req EnsureCartRequest) (any, error) {
			if err := cart.Ensure(req.CartID); err != nil {
				return nil, err
			}
			return map[string]any{"cart_id": req.CartID, "status": "ready"}, nil
		}),
		"cart.add_item": typed(func(_ context.Context, req AddItemRequest) (any, error) {
			action, view, err := cart.AddItem(req.CartID, req.MenuItemID, req.Quantity)
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": action, "cart": view}, nil
		}),
		"cart.view": typed(func(_ context.Context, req ViewCartRequest) (any, error) {
			view, err := cart.View(req.CartID)
			if err != nil {
				return nil, err
			}
			return view, nil
		}),
		"cart.update_item": typed(func(_ context.Context, req UpdateItemRequest) (any, error) {
			action, err := cart.UpdateItem(req.CartID, req.MenuItemID, *req.Quantity)
			if err != nil {
				return nil, err
			}
			if action == service.ActionItemRemoved {
				return map[string]any{"status": action}, nil
			}
			return map[string]any{
				"status":       action,
				"menu_item_id": req.MenuItemID,
				"quantity":     *req.Quantity,
			}, nil
		}),
		"cart.remove_item": typed(func(_ context.Context, req RemoveItemRequest) (any, error) {
			if err := cart.RemoveItem(req.CartID, req.MenuItemID); err != nil {
				return nil, err
			}
			return map[string]any{
				"status":       service.ActionItemRemoved,
				"menu_item_id": req.MenuItemID,
			}, nil
		}),
		"cart.clear": typed(func(_ context.Context, req ClearCartRequest) (any, error) {
			if err := cart.Clear(req.CartID); err != nil {
				return nil, err
			}
			return map[string]any{"status": service.ActionCartCleared}, nil
		}),
		"orders.create_mock": typed(func(ctx context.Context, req CreateOrderRequest) (any, error) {
			order, err := orders.Create(ctx, req.CartID, req.DeliveryFeeCents)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"order_id":     order.ID,
				"total_rupees": float64(order.TotalCents) / 100,
			}, nil
		}),
		"orders.status.get": typed(func(_ context.Context, req OrderStatusRequest) (any, error) {
			order, eta, err := orders.Status(req.OrderID)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"order_id":    order.ID,
				"status":      order.Status,
				"eta_minutes": eta,
			}, nil
		}),
		"orders.status.advance_mock": typed(func(ctx context.Context, req OrderStatusRequest) (any, error) {
			order, err := orders.Advance(ctx, req.OrderID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"order_id": order.ID, "status": order.Status}, nil
		}),
		"conversation.create": typed(func(_ context.Context, req CreateConversationRequest) (any, error) {
			id, err := conversations.Create(req.CartID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"conversation_id": id}, nil
		}),
		"conversation.save_message": typed(func(_ context.Context, req SaveMessageRequest) (any, error) {
			if err := conversations.SaveMessage(req.ConversationID, req.Role, req.Content); err != nil {
				return nil, err
			}
			return map[string]any{"status": "saved"}, nil
		}),
		"conversation.load": typed(func(_ context.Context, req LoadConversationRequest) (any, error) {
			messages, err := conversations.Load(req.ConversationID)
			if err != nil {
				return nil, err
			}
			pairs := make([][2]string, 0, len(messages))
			for _, msg := range messages {
				pairs = append(pairs, [2]string{msg.Role, msg.Content})
			}
			return map[string]any{"messages": pairs}, nil
		}),
	}
	return d
}

// Tools returns the operation names this dispatcher recognizes.
func (d *Dispatcher) Tools() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

// Invoke executes a named operation. The return value is always
// JSON-serializable: either the operation's success object or the error
// envelope. Panics in components are converted like any other failure.
func (d *Dispatcher) Invoke(ctx context.Context, tool string, params json.RawMessage) (result any) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", tool).Any("panic", r).Msg("tool handler panicked")
			result = errorResponse(CodeServerError, fmt.Sprintf("%v", r))
		}
	}()

	h, ok := d.handlers[tool]
	if !ok {
		return errorResponse(CodeUnknownTool, tool)
	}

	out, err := h(ctx, params)
	if err != nil {
		return convertError(tool, err)
	}
	return out
}

func convertError(tool string, err error) ErrorEnvelope {
	var invalid *invalidParamsError
	switch {
	case errors.As(err, &invalid):
		return errorResponse(CodeInvalidParams, invalid.Error())
	case errors.Is(err, service.ErrItemNotFound):
		return errorResponse(CodeItemNotFound, err.Error())
	default:
		log.Error().Err(err).Str("tool", tool).Msg("tool call failed")
		return errorResponse(CodeServerError, err.Error())
	}
}

type invalidParamsError struct {
	cause error
}

func (e *invalidParamsError) Error() string { return e.cause.Error() }
func (e *invalidParamsError) Unwrap() error { return e.cause }

// typed adapts a strongly-typed handler to the raw-params signature,
// decoding and validating the request before the component sees it.
func typed[T validator](fn func(ctx context.Context, req T) (any, error)) handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var req T
		if len(params) > 0 {
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, &invalidParamsError{cause: err}
			}
		}
		if err := req.Validate(); err != nil {
			return nil, &invalidParamsError{cause: err}
		}
		return fn(ctx, req)
	}
}
