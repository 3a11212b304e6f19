package customernote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

// NoteSentToWSI is written to customerNotes on every WSI-tagged order.
const NoteSentToWSI = "Sent to WSI"

var (
	ErrMissingOrderNumber = errors.New("please make sure the orderNumber is in your query parameters")
	ErrTagNotFound        = errors.New("could not find the WSI tag")
	ErrNoOrders           = errors.New("there are no orders for this order number")
	ErrNoTaggedOrders     = errors.New("could not find an order with a WSI tag")
)

type TagLister interface {
	ListTags(ctx context.Context) ([]shipment.Tag, error)
}

type OrderStore interface {
	ListOrdersByNumber(ctx context.Context, orderNumber string) (*shipment.OrderList, error)
	CreateOrUpdateOrder(ctx context.Context, order shipment.Order) error
}

type Publisher interface {
	PublishCustomerNote(ctx context.Context, orderNumber string) error
}

type Service struct {
	tags      TagLister
	orders    OrderStore
	publisher Publisher
	tagName   string
	log       logger.Logger
}

func NewService(tags TagLister, orders OrderStore, publisher Publisher, tagName string, log logger.Logger) *Service {
	return &Service{
		tags:      tags,
		orders:    orders,
		publisher: publisher,
		tagName:   tagName,
		log:       log,
	}
}

// QueueNote defers AddNote for orderNumber to the worker.
func (s *Service) QueueNote(ctx context.Context, orderNumber string) error {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		s.log.WithContext(ctx).Warn("could not queue customer note: empty order number")
		return ErrMissingOrderNumber
	}
	if err := s.publisher.PublishCustomerNote(ctx, orderNumber); err != nil {
		return fmt.Errorf("publish customer note %s: %w", orderNumber, err)
	}
	s.log.WithContext(ctx).Info("customer note queued", logger.String("order_number", orderNumber))
	return nil
}

// AddNote marks every order with orderNumber that carries the WSI tag and
// returns how many were updated. It stops at the first failed update.
func (s *Service) AddNote(ctx context.Context, orderNumber string) (int, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return 0, ErrMissingOrderNumber
	}
	log := s.log.WithContext(ctx).WithFields(logger.String("order_number", orderNumber))

	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tags: %w", err)
	}
	tag, ok := shipment.FindTag(tags, s.tagName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTagNotFound, s.tagName)
	}

	list, err := s.orders.ListOrdersByNumber(ctx, orderNumber)
	if err != nil {
		return 0, fmt.Errorf("list orders: %w", err)
	}
	if list == nil || list.Total < 1 || len(list.Orders) == 0 {
		return 0, ErrNoOrders
	}

	tagged := make([]shipment.Order, 0, len(list.Orders))
	for _, o := range list.Orders {
		if o.HasTag(tag.TagID) {
			tagged = append(tagged, o)
		}
	}
	if len(tagged) == 0 {
		return 0, ErrNoTaggedOrders
	}

	for i, o := range tagged {
		updated := make(shipment.Order, len(o)+1)
		for k, v := range o {
			updated[k] = v
		}
		updated["customerNotes"] = NoteSentToWSI

		if err := s.orders.CreateOrUpdateOrder(ctx, updated); err != nil {
			log.Error("adding customer note failed", logger.Int("updated", i), logger.Error(err))
			return i, fmt.Errorf("add note to order %v: %w", o["orderId"], err)
		}
	}

	log.Info("customer note added", logger.Int("orders", len(tagged)))
	return len(tagged), nil
}

// HandleQueuedNote runs AddNote for a queued order number. Outcomes that a
// retry cannot change are logged and dropped.
func (s *Service) HandleQueuedNote(ctx context.Context, orderNumber string) error {
	_, err := s.AddNote(ctx, orderNumber)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingOrderNumber),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrNoOrders),
		errors.Is(err, ErrNoTaggedOrders):
		s.log.WithContext(ctx).Warn("customer note dropped",
			logger.String("order_number", orderNumber),
			logger.Error(err),
		)
		return nil
	default:
		return err
	}
}
