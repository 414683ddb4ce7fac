// Package shopify provides a catalog client for the Shopify Admin
// GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CatalogClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultAPIVersion = "2023-01"
	DefaultTimeout    = 30 * time.Second

	// DefaultRequestRate is the proactive throttle (2 req/sec, the
	// Shopify Admin API bucket leak rate).
	DefaultRequestRate = 2

	// PageSize is the GraphQL page size, the API maximum.
	PageSize = 250

	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

// Config holds configuration for the Shopify client.
type Config struct {
	// ShopName is the *.myshopify.com subdomain (required).
	ShopName string

	// AccessToken is the Admin API access token (required).
	AccessToken string

	// APIKey and Password form the legacy Basic auth pair. Optional;
	// when both are set the Authorization header is sent alongside the
	// access token.
	APIKey   string
	Password string

	// APIVersion is the Admin API version (default: 2023-01).
	APIVersion string

	// BaseURL overrides the shop URL. Useful for testing.
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client fetches products over the Shopify Admin GraphQL API. All
// requests go through a proactive rate limiter; 429 responses are
// retried after the server-indicated delay.
type Client struct {
	client      *http.Client
	endpoint    string
	accessToken string
	basicAuth   string
	limiter     *rate.Limiter
}

// graphQLRequest is the Admin GraphQL request envelope.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one entry of the GraphQL errors array.
type graphQLError struct {
	Message string `json:"message"`
}

// productNode is the product shape shared by both queries.
type productNode struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Handle string   `json:"handle"`
	Tags   []string `json:"tags"`
	Images struct {
		Edges []struct {
			Node struct {
				TransformedSrc string `json:"transformedSrc"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
}

// listProductsQuery pages through active products. Image URLs are not
// fetched here; they are filled in on demand via GetProductByHandle.
const listProductsQuery = `
query listProducts($first: Int!, $after: String) {
  products(first: $first, after: $after, query: "status:active") {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        handle
        tags
      }
    }
  }
}`

// productByHandleQuery fetches one product with its first image.
const productByHandleQuery = `
query productByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    id
    title
    handle
    tags
    images(first: 1) {
      edges {
        node {
          transformedSrc
        }
      }
    }
  }
}`

// NewClient creates a Shopify catalog client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ShopName == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("shopify: shop name is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("shopify: access token is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.myshopify.com", cfg.ShopName)
	}

	c := &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:    fmt.Sprintf("%s/admin/api/%s/graphql.json", baseURL, cfg.APIVersion),
		accessToken: cfg.AccessToken,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestRate), 1),
	}
	if cfg.APIKey != "" && cfg.Password != "" {
		c.basicAuth = "Basic " + base64.StdEncoding.EncodeToString(
			[]byte(cfg.APIKey+":"+cfg.Password))
	}
	return c, nil
}

// ListProducts returns every active product, following cursor
// pagination until the last page.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var (
		products []domain.Product
		cursor   *string
	)

	for {
		var result struct {
			Products struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		}

		variables := map[string]any{"first": PageSize}
		if cursor != nil {
			variables["after"] = *cursor
		}

		if err := c.execute(ctx, listProductsQuery, variables, &result); err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}

		for _, edge := range result.Products.Edges {
			products = append(products, toProduct(edge.Node))
		}

		if !result.Products.PageInfo.HasNextPage {
			break
		}
		end := result.Products.PageInfo.EndCursor
		cursor = &end
	}

	logger.Info("Fetched %d products from Shopify", len(products))
	return products, nil
}

// GetProductByHandle returns one product with its first image, or
// domain.ErrNotFound when the handle does not resolve.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	if handle == "" {
		return nil, domain.ErrInvalidInput
	}

	var result struct {
		ProductByHandle *productNode `json:"productByHandle"`
	}

	variables := map[string]any{"handle": handle}
	if err := c.execute(ctx, productByHandleQuery, variables, &result); err != nil {
		return nil, fmt.Errorf("product by handle: %w", err)
	}

	if result.ProductByHandle == nil {
		return nil, fmt.Errorf("product %q: %w", handle, domain.ErrNotFound)
	}

	product := toProduct(*result.ProductByHandle)
	return &product, nil
}

// execute runs one GraphQL request and decodes the data payload into
// out. Transport failures, 5xx and 429 responses are retried with
// exponential backoff; a 429's Retry-After is honoured when present.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	jsonBody, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retrying Shopify request (attempt %d): %v", attempt, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.doOnce(ctx, jsonBody, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("giving up after %d retries: %w", maxRetries, lastErr)
}

// doOnce performs a single request. The bool return reports whether the
// failure is retryable.
func (c *Client) doOnce(ctx context.Context, jsonBody []byte, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	if c.basicAuth != "" {
		req.Header.Set("Authorization", c.basicAuth)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil {
				select {
				case <-ctx.Done():
					return false, ctx.Err()
				case <-time.After(time.Duration(seconds * float64(time.Second))):
				}
			}
		}
		return true, fmt.Errorf("shopify: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode >= 500 {
		return true, fmt.Errorf("%w (status %d): %s", domain.ErrCatalogUnavailable, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w (status %d): %s", domain.ErrCatalogUnavailable, resp.StatusCode, string(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return false, fmt.Errorf("shopify graphql error: %s", envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return false, fmt.Errorf("shopify: empty data payload")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return false, fmt.Errorf("decode data: %w", err)
	}
	return false, nil
}

// toProduct maps the wire shape onto the domain type.
func toProduct(node productNode) domain.Product {
	p := domain.Product{
		ID:     node.ID,
		Handle: node.Handle,
		Title:  node.Title,
		Tags:   node.Tags,
	}
	if len(node.Images.Edges) > 0 {
		p.ImageURL = node.Images.Edges[0].Node.TransformedSrc
	}
	return p
}
