package eagle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/repository"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/sheet"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

// ShipmentSource resolves a SHIP_NOTIFY resource URL.
type ShipmentSource interface {
	GetShipments(ctx context.Context, resourceURL string) (*shipment.List, error)
}

type StoreLister interface {
	ListStores(ctx context.Context) ([]shipment.Store, error)
}

type Publisher interface {
	PublishShipNotify(ctx context.Context, resourceURL, resourceType string) error
}

// SheetEncoder renders one shipment as an ESTU order sheet.
type SheetEncoder interface {
	EncodeOrderSheet(ctx context.Context, s *shipment.Shipment) (string, error)
}

// QueueService is the webhook side: it checks a SHIP_NOTIFY resource and
// queues it for encoding. It never calls Magestack.
type QueueService struct {
	shipments  ShipmentSource
	stores     StoreLister
	publisher  Publisher
	storeNames []string
	log        logger.Logger
}

func NewQueueService(shipments ShipmentSource, stores StoreLister, publisher Publisher, storeNames []string, log logger.Logger) *QueueService {
	return &QueueService{
		shipments:  shipments,
		stores:     stores,
		publisher:  publisher,
		storeNames: storeNames,
		log:        log,
	}
}

// QueueShipNotify returns the resource URL that was queued.
func (s *QueueService) QueueShipNotify(ctx context.Context, hook shipment.Webhook) (string, error) {
	log := s.log.WithContext(ctx)

	if hook.ResourceType != shipment.ResourceShipNotify {
		log.Warn("webhook is not a SHIP_NOTIFY resource", logger.String("resource_type", hook.ResourceType))
		return "", ErrNotShipNotify
	}

	resourceURL := strings.ReplaceAll(hook.ResourceURL, "includeShipmentItems=False", "includeShipmentItems=True")

	list, err := s.shipments.GetShipments(ctx, resourceURL)
	if err != nil {
		return "", fmt.Errorf("fetch shipments: %w", err)
	}
	stores, err := s.stores.ListStores(ctx)
	if err != nil {
		return "", fmt.Errorf("list stores: %w", err)
	}

	if err := shipment.ValidateList(list, shipment.StoreIDs(stores, s.storeNames)); err != nil {
		log.Info("resource url rejected", logger.String("resource_url", resourceURL), logger.Error(err))
		return "", fmt.Errorf("%w: %w", ErrInvalidResource, err)
	}

	if err := s.publisher.PublishShipNotify(ctx, resourceURL, hook.ResourceType); err != nil {
		return "", fmt.Errorf("publish ship notify: %w", err)
	}

	log.Info("resource url queued", logger.String("resource_url", resourceURL))
	return resourceURL, nil
}

// SheetService is the queue side: it encodes the first shipment behind a
// queued resource URL and stores the sheet.
type SheetService struct {
	shipments ShipmentSource
	encoder   SheetEncoder
	repo      repository.OrderSheetRepository
	log       logger.Logger
	now       func() time.Time
}

func NewSheetService(shipments ShipmentSource, encoder SheetEncoder, repo repository.OrderSheetRepository, log logger.Logger) *SheetService {
	return &SheetService{
		shipments: shipments,
		encoder:   encoder,
		repo:      repo,
		log:       log,
		now:       time.Now,
	}
}

// HandleShipNotify returns an error for anything worth retrying, including
// a payment that Magento does not know about yet. A sheet that already
// exists is not an error.
func (s *SheetService) HandleShipNotify(ctx context.Context, resourceURL string) error {
	log := s.log.WithContext(ctx).WithFields(logger.String("resource_url", resourceURL))

	list, err := s.shipments.GetShipments(ctx, resourceURL)
	if err != nil {
		return fmt.Errorf("fetch shipments: %w", err)
	}
	if list == nil || len(list.Shipments) == 0 {
		return shipment.ErrNoShipments
	}
	first := &list.Shipments[0]

	body, err := s.encoder.EncodeOrderSheet(ctx, first)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", first.OrderNumber, err)
	}

	doc, err := sheet.NewOrderSheet(first.OrderID, first.OrderKey, body, s.now())
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		if errors.Is(err, sheet.ErrSheetExists) {
			log.Warn("order sheet already exists",
				logger.String("container", doc.Container),
				logger.String("name", doc.Name),
			)
			return nil
		}
		return fmt.Errorf("save order sheet: %w", err)
	}

	log.Info("order sheet created",
		logger.String("container", doc.Container),
		logger.String("name", doc.Name),
		logger.Int("items", len(first.ShipmentItems)),
	)
	return nil
}
