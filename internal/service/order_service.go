package service

import (
	"context"
	"strings"
	"time"

	"order-desk/internal/model"
	"order-desk/internal/notify"
	"order-desk/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderOptions controls the optional steps of order intake.
type OrderOptions struct {
	// PersistOrders appends each accepted order to the order log before notifying.
	PersistOrders bool

	// BestEffortNotify acknowledges an order even if the notification failed.
	BestEffortNotify bool
}

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	notifier  notify.Notifier
	opts      OrderOptions
	validate  *validator.Validate
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	notifier notify.Notifier,
	opts OrderOptions,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		opts:      opts,
		validate:  newValidator(),
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// SubmitOrder validates, renders, optionally persists and then announces an order.
// A failed notification does not undo the append to the order log.
func (s *orderService) SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.InvalidOrder("order is required")
	}

	normalised := normaliseOrderRequest(req)
	if err := s.validate.Struct(normalised); err != nil {
		problems := violations(err, "")
		s.logger.Warn().Strs("violations", problems).Msg("rejected order")
		return nil, model.InvalidOrder(strings.Join(problems, "; "))
	}

	order := &model.Order{
		ID:        uuid.New(),
		Name:      normalised.Name,
		Phone:     normalised.Phone,
		Address:   normalised.Address,
		Comment:   normalised.Comment,
		Cart:      normalised.Cart,
		CreatedAt: s.now(),
	}

	text := notify.RenderOrder(order)

	if s.opts.PersistOrders && s.orderRepo != nil {
		if err := s.orderRepo.Append(ctx, order); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to persist order")
			return nil, model.StorageUnavailable(err)
		}
	}

	if err := s.notifier.Notify(ctx, text); err != nil {
		if !s.opts.BestEffortNotify {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to deliver order notification")
			return nil, model.NotifyFailed(err)
		}
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("order notification not delivered, accepting order under best-effort policy")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Cart)).
		Int("total", order.Total()).
		Msg("order accepted")

	return order, nil
}

// TodayOrders returns orders whose submission date equals today's date in the server's zone.
func (s *orderService) TodayOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.OrderHistory(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(time.DateOnly)

	filtered := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.CreatedAt.In(now.Location()).Format(time.DateOnly) == today {
			filtered = append(filtered, o)
		}
	}

	s.logger.Debug().
		Str("date", today).
		Int("count", len(filtered)).
		Msg("retrieved today's orders")

	return filtered, nil
}

// OrderHistory returns the full order log.
func (s *orderService) OrderHistory(ctx context.Context) ([]model.Order, error) {
	if s.orderRepo == nil {
		return []model.Order{}, nil
	}

	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, model.StorageUnavailable(err)
	}

	return orders, nil
}

// normaliseOrderRequest returns a copy of req with surrounding whitespace trimmed.
func normaliseOrderRequest(req *model.OrderRequest) *model.OrderRequest {
	out := &model.OrderRequest{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		Comment: strings.TrimSpace(req.Comment),
	}

	if req.Cart != nil {
		out.Cart = make([]model.CartItem, len(req.Cart))
		for i, item := range req.Cart {
			item.Title = strings.TrimSpace(item.Title)
			out.Cart[i] = item
		}
	}

	return out
}
