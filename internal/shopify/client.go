package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize is the maximum allowed response size from the gateway (10MB)
const maxResponseSize = 10 * 1024 * 1024

var (
	ErrGatewayUnavailable = errors.New("shopify: gateway unavailable")
	ErrMalformedResponse  = errors.New("shopify: malformed response")
	ErrNotFound           = errors.New("shopify: not found")
)

// Client talks to the commerce platform's storefront GraphQL API.
type Client struct {
	endpoint   string
	token      string
	domain     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

type Config struct {
	ShopDomain string
	Token      string
	APIVersion string
	Timeout    time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ShopDomain == "" || cfg.Token == "" {
		return nil, fmt.Errorf("shopify: shop domain and token are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.ShopDomain, cfg.APIVersion),
		token:    cfg.Token,
		domain:   cfg.ShopDomain,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}, nil
}

// Domain returns the shop domain the client was configured with.
func (c *Client) Domain() string {
	return c.domain
}

// CreateCheckout requests a brand-new remote checkout for the given lines.
// Variant identifiers in URI form are encoded before being sent.
func (c *Client) CreateCheckout(ctx context.Context, lines []CheckoutLine) (*Checkout, error) {
	items := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		items = append(items, map[string]any{
			"variantId": EncodeID(l.VariantID),
			"quantity":  l.Quantity,
		})
	}

	var data checkoutCreateData
	err := c.query(ctx, checkoutCreateMutation, map[string]any{
		"input": map[string]any{"lineItems": items},
	}, &data)
	if err != nil {
		return nil, err
	}

	cc := data.CheckoutCreate
	if len(cc.CheckoutUserErrors) > 0 {
		return nil, fmt.Errorf("%w: checkout rejected: %s", ErrMalformedResponse, cc.CheckoutUserErrors[0].Message)
	}
	if cc.Checkout == nil || cc.Checkout.WebURL == "" {
		return nil, fmt.Errorf("%w: checkout missing from response", ErrMalformedResponse)
	}

	return &Checkout{ID: cc.Checkout.ID, WebURL: cc.Checkout.WebURL}, nil
}

// ProductByHandle fetches a single product keyed by its handle.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*ProductPayload, error) {
	var data productByHandleData
	err := c.query(ctx, productByHandleQuery, map[string]any{"handle": handle}, &data)
	if err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, handle)
	}
	p := data.Product.toPayload()
	return &p, nil
}

// CollectionByHandle fetches a collection and its products keyed by handle.
func (c *Client) CollectionByHandle(ctx context.Context, handle string) (*CollectionPayload, error) {
	var data collectionByHandleData
	err := c.query(ctx, collectionByHandleQuery, map[string]any{"handle": handle}, &data)
	if err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, fmt.Errorf("%w: collection %q", ErrNotFound, handle)
	}

	col := &CollectionPayload{
		Handle:      data.Collection.Handle,
		Title:       data.Collection.Title,
		Description: data.Collection.Description,
	}
	if data.Collection.Image != nil {
		col.Image = data.Collection.Image.URL
	}
	for _, e := range data.Collection.Products.Edges {
		col.Products = append(col.Products, e.Node.toPayload())
	}
	return col, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("shopify: marshal request: %w", err)
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", ErrGatewayUnavailable)
		}
		return err
	}

	var resp graphQLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, resp.Errors[0].Message)
	}
	if resp.Data == nil {
		return fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}

	// Re-marshal the data document into the typed response shape.
	dataRaw, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(dataRaw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("shopify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrGatewayUnavailable, err)
	}
	return raw, nil
}

const checkoutCreateMutation = `
mutation checkoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout { id webUrl }
    checkoutUserErrors { field message }
  }
}`

const productFields = `
id
handle
title
description
vendor
images(first: 10) { edges { node { url } } }
variants(first: 50) {
  edges {
    node {
      id
      title
      price { amount }
      availableForSale
    }
  }
}`

const productByHandleQuery = `
query productByHandle($handle: String!) {
  product(handle: $handle) {` + productFields + `
  }
}`

const collectionByHandleQuery = `
query collectionByHandle($handle: String!) {
  collection(handle: $handle) {
    handle
    title
    description
    image { url }
    products(first: 100) {
      edges {
        node {` + productFields + `
        }
      }
    }
  }
}`
