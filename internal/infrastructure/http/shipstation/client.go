package shipstation

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/connector"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

// Client talks to the ShipStation REST API with the account's basic-auth
// header.
type Client struct {
	http *connector.HTTPClient
	cfg  config.ShipStationConfig
	log  logger.Logger
}

func NewClient(cfg config.ShipStationConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log,
		http: connector.NewHTTPClient(connector.HTTPClientConfig{
			Timeout:          cfg.Timeout,
			RetryMaxAttempts: cfg.Retries,
		}),
	}
}

func (c *Client) headers() (map[string]string, error) {
	if c.cfg.AuthHeader == "" {
		return nil, fmt.Errorf("shipstation auth header is empty")
	}
	return map[string]string{
		"Authorization": c.cfg.AuthHeader,
		"Accept":        "application/json",
	}, nil
}

// GetShipments fetches the shipment list behind a SHIP_NOTIFY resource URL.
func (c *Client) GetShipments(ctx context.Context, resourceURL string) (*shipment.List, error) {
	h, err := c.headers()
	if err != nil {
		return nil, err
	}

	var list shipment.List
	if err := c.http.GetJSON(ctx, resourceURL, h, &list); err != nil {
		c.log.Error("fetch shipments failed",
			logger.String("resource_url", resourceURL),
			logger.Error(err),
		)
		return nil, fmt.Errorf("fetch shipments: %w", err)
	}

	c.log.Info("fetched shipments",
		logger.String("resource_url", resourceURL),
		logger.Int("total", list.Total),
	)
	return &list, nil
}

// ListStores returns the account's active stores.
func (c *Client) ListStores(ctx context.Context) ([]shipment.Store, error) {
	h, err := c.headers()
	if err != nil {
		return nil, err
	}

	var stores []shipment.Store
	if err := c.http.GetJSON(ctx, c.endpoint("/stores", url.Values{"showInactive": {"false"}}), h, &stores); err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// ListTags returns every order tag defined on the account.
func (c *Client) ListTags(ctx context.Context) ([]shipment.Tag, error) {
	h, err := c.headers()
	if err != nil {
		return nil, err
	}

	var tags []shipment.Tag
	if err := c.http.GetJSON(ctx, c.endpoint("/accounts/listtags", nil), h, &tags); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ListOrdersByNumber returns the orders whose order number matches.
func (c *Client) ListOrdersByNumber(ctx context.Context, orderNumber string) (*shipment.OrderList, error) {
	h, err := c.headers()
	if err != nil {
		return nil, err
	}

	var list shipment.OrderList
	if err := c.http.GetJSON(ctx, c.endpoint("/orders", url.Values{"orderNumber": {orderNumber}}), h, &list); err != nil {
		return nil, fmt.Errorf("list orders %q: %w", orderNumber, err)
	}
	return &list, nil
}

// CreateOrUpdateOrder posts order to /orders/createorder. ShipStation
// updates in place when the body carries an existing orderKey.
func (c *Client) CreateOrUpdateOrder(ctx context.Context, order shipment.Order) error {
	h, err := c.headers()
	if err != nil {
		return err
	}

	if err := c.http.PostJSON(ctx, c.endpoint("/orders/createorder", nil), h, order, nil); err != nil {
		return fmt.Errorf("create or update order %v: %w", order["orderNumber"], err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
