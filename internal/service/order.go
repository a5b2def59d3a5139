package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"food-order-assistant/internal/domain"
)

// OrderConfig controls checkout behavior. AllowEmptyCheckout preserves
// the permissive demo semantics of creating a zero-subtotal order from an
// empty cart; set it to false to reject those.
type OrderConfig struct {
	DeliveryFeeCents   int64
	AllowEmptyCheckout bool
}

type OrderService struct {
	repo      OrderRepository
	config    OrderConfig
	qrEncoder QRGenerator
	publisher OrderPublisher
}

func NewOrderService(repo OrderRepository, config OrderConfig, qr QRGenerator, publisher OrderPublisher) *OrderService {
	return &OrderService{repo: repo, config: config, qrEncoder: qr, publisher: publisher}
}

// Create materializes an order from the cart's current lines. The
// subtotal is captured at this moment and never changes afterwards; the
// cart itself is left untouched, so checking out again produces a second
// independent order.
func (s *OrderService) Create(ctx context.Context, cartID string, deliveryFeeCents *int64) (*domain.Order, error) {
	subtotal, err := s.repo.CartSubtotalCents(cartID)
	if err != nil {
		return nil, err
	}
	if subtotal == 0 && !s.config.AllowEmptyCheckout {
		return nil, ErrEmptyCart
	}

	fee := s.config.DeliveryFeeCents
	if deliveryFeeCents != nil {
		fee = *deliveryFeeCents
	}

	order := &domain.Order{
		ID:               newOrderID(),
		CartID:           cartID,
		Status:           domain.StatusPlaced,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + fee,
	}
	if err := s.repo.InsertOrder(order); err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			if err := s.repo.SaveOrderQRCode(order.ID, qr); err != nil {
				log.Warn().Err(err).Str("order_id", order.ID).Msg("failed to store order qr code")
			}
		} else {
			log.Warn().Err(err).Str("order_id", order.ID).Msg("failed to generate order qr code")
		}
	}

	s.publish(ctx, domain.OrderEvent{
		Type:       "order_placed",
		OrderID:    order.ID,
		CartID:     order.CartID,
		Status:     order.Status,
		TotalCents: order.TotalCents,
		OccurredAt: time.Now().UTC(),
	})

	return order, nil
}

// Status returns the order together with a rough ETA in minutes derived
// from how far along the lifecycle it is.
func (s *OrderService) Status(orderID string) (*domain.Order, int, error) {
	order, err := s.repo.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrOrderNotFound
		}
		return nil, 0, err
	}
	return order, etaMinutes(order.Status), nil
}

// Advance moves the order to the next status in the fixed sequence.
// DELIVERED is terminal. The transition never moves backward: the update
// is guarded by the status it was read at, and a lost race just returns
// the fresher state.
func (s *OrderService) Advance(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	next := order.Status.Next()
	if next == order.Status {
		return order, nil
	}

	moved, err := s.repo.AdvanceOrderStatus(orderID, order.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		return s.repo.GetOrder(orderID)
	}
	order.Status = next

	s.publish(ctx, domain.OrderEvent{
		Type:       "order_status_changed",
		OrderID:    order.ID,
		Status:     order.Status,
		OccurredAt: time.Now().UTC(),
	})
	return order, nil
}

func (s *OrderService) QRCode(orderID string) ([]byte, error) {
	qr, err := s.repo.GetOrderQRCode(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			if err := s.repo.SaveOrderQRCode(orderID, regenerated); err == nil {
				return regenerated, nil
			}
		}
	}
	return qr, nil
}

// publish sends an order event without affecting the outcome of the call
// that triggered it.
func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrderEvent(pctx, event); err != nil {
		log.Warn().Err(err).Str("order_id", event.OrderID).Str("type", event.Type).
			Msg("failed to publish order event")
	}
}

func etaMinutes(status domain.OrderStatus) int {
	switch status {
	case domain.StatusPlaced:
		return 40
	case domain.StatusConfirmed:
		return 35
	case domain.StatusPreparing:
		return 25
	case domain.StatusOutForDelivery:
		return 10
	default:
		return 0
	}
}

// newOrderID returns a random v4 UUID string.
func newOrderID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("ord-%d", time.Now().UnixNano())
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

var _ OrderServiceInterface = (*OrderService)(nil)
