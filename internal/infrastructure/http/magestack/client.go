package magestack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/estu"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/connector"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

var ErrIncompletePayment = errors.New("payment response is missing entity_id or shipping")

type paymentResponse struct {
	EntityID json.RawMessage `json:"entity_id"`
	Shipping json.RawMessage `json:"shipping"`
}

// Client resolves Magento payment references through the Magestack API.
// It satisfies estu.PaymentLookup.
type Client struct {
	http    *connector.HTTPClient
	breaker *gobreaker.CircuitBreaker
	baseURL string
	log     logger.Logger
}

var _ estu.PaymentLookup = (*Client)(nil)

func NewClient(cfg config.MagestackConfig, log logger.Logger) *Client {
	failures := uint32(cfg.BreakerFailures)
	if cfg.BreakerFailures <= 0 {
		failures = 5
	}
	openFor := time.Duration(cfg.BreakerOpenSecs) * time.Second
	if openFor <= 0 {
		openFor = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     log,
		http:    connector.NewHTTPClient(connector.HTTPClientConfig{Timeout: cfg.Timeout}),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "magestack-payments",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// 4xx responses and incomplete bodies do not count against the breaker.
			var se *connector.StatusError
			return err == nil || errors.Is(err, ErrIncompletePayment) || (errors.As(err, &se) && !se.Retryable())
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return c
}

// LookupPaymentReference fetches {base}/payments/{baseOrderNumber}.
func (c *Client) LookupPaymentReference(ctx context.Context, baseOrderNumber string) (estu.PaymentReference, error) {
	if c.baseURL == "" {
		return estu.PaymentReference{}, fmt.Errorf("magestack base url is empty")
	}
	endpoint := c.baseURL + "/payments/" + url.PathEscape(baseOrderNumber)

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, endpoint)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn("payment lookup rejected by circuit breaker",
				logger.String("order_number", baseOrderNumber),
			)
		}
		return estu.PaymentReference{}, err
	}
	return out.(estu.PaymentReference), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (estu.PaymentReference, error) {
	var body paymentResponse
	if err := c.http.GetJSON(ctx, endpoint, map[string]string{"Accept": "application/json"}, &body); err != nil {
		return estu.PaymentReference{}, err
	}

	ref := estu.PaymentReference{
		EntityID: scalar(body.EntityID),
		Shipping: scalar(body.Shipping),
	}
	if ref.EntityID == "" || ref.Shipping == "" {
		return estu.PaymentReference{}, ErrIncompletePayment
	}
	return ref, nil
}

// scalar renders a JSON scalar as the legacy trigger printed it: strings
// unquoted, integers verbatim, and fractional numbers as the shortest float
// with at least one decimal, so a shipping of 5.00 becomes "5.0".
func scalar(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if !strings.ContainsAny(text, ".eE") {
		return text
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	return formatFloat(f)
}

// formatFloat switches to exponent form below 1e-4 and from 1e16 on.
func formatFloat(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
