package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:     server.URL,
		AccessToken: "test-token",
		APIKey:      "test-key",
		Password:    "test-password",
	})
	require.NoError(t, err)
	return client, server
}

func productPage(handles []string, hasNext bool, endCursor string) map[string]any {
	edges := make([]map[string]any, 0, len(handles))
	for _, h := range handles {
		edges = append(edges, map[string]any{
			"node": map[string]any{
				"id":     "gid://shopify/Product/" + h,
				"title":  "Title " + h,
				"handle": h,
				"tags":   []string{"tag-" + h},
			},
		})
	}
	return map[string]any{
		"data": map[string]any{
			"products": map[string]any{
				"pageInfo": map[string]any{
					"hasNextPage": hasNext,
					"endCursor":   endCursor,
				},
				"edges": edges,
			},
		},
	}
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{AccessToken: "t"})
	assert.Error(t, err, "shop name or base URL is required")

	_, err = NewClient(Config{ShopName: "test-shop"})
	assert.Error(t, err, "access token is required")

	client, err := NewClient(Config{ShopName: "test-shop", AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://test-shop.myshopify.com/admin/api/2023-01/graphql.json", client.endpoint)
}

func TestClient_ListProducts_SinglePage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Access-Token"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Basic "))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, `query: "status:active"`)
		assert.Equal(t, float64(PageSize), req.Variables["first"])

		json.NewEncoder(w).Encode(productPage([]string{"pink-dress", "blue-dress"}, false, ""))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "pink-dress", products[0].Handle)
	assert.Equal(t, "Title pink-dress", products[0].Title)
	assert.Equal(t, []string{"tag-pink-dress"}, products[0].Tags)
}

func TestClient_ListProducts_Pagination(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch calls.Add(1) {
		case 1:
			assert.Nil(t, req.Variables["after"])
			json.NewEncoder(w).Encode(productPage([]string{"a", "b"}, true, "cursor-1"))
		default:
			assert.Equal(t, "cursor-1", req.Variables["after"])
			json.NewEncoder(w).Encode(productPage([]string{"c"}, false, ""))
		}
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "c", products[2].Handle)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ListProducts_GraphQLError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "field does not exist"}},
		})
	})

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field does not exist")
}

func TestClient_ListProducts_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(productPage([]string{"a"}, false, ""))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ListProducts_RetriesRateLimited(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(productPage([]string{"a"}, false, ""))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(2), calls.Load(), "429 is retried after the Retry-After delay")
}

func TestClient_ListProducts_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestClient_GetProductByHandle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "productByHandle")
		assert.Equal(t, "pink-dress", req.Variables["handle"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"productByHandle": map[string]any{
					"id":     "gid://shopify/Product/1",
					"title":  "Pink Dress",
					"handle": "pink-dress",
					"tags":   []string{"pink"},
					"images": map[string]any{
						"edges": []map[string]any{
							{"node": map[string]any{"transformedSrc": "https://cdn/pink.jpg"}},
						},
					},
				},
			},
		})
	})

	product, err := client.GetProductByHandle(context.Background(), "pink-dress")
	require.NoError(t, err)
	assert.Equal(t, "Pink Dress", product.Title)
	assert.Equal(t, "https://cdn/pink.jpg", product.ImageURL)
}

func TestClient_GetProductByHandle_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"productByHandle": nil},
		})
	})

	_, err := client.GetProductByHandle(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_GetProductByHandle_EmptyHandle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty handle")
	})

	_, err := client.GetProductByHandle(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
