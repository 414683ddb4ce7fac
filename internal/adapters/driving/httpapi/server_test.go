package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *httptest.Server {
	t.Helper()
	if ports.Chat == nil {
		ports.Chat = newMockChatService()
	}
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	if ports.Catalog == nil {
		ports.Catalog = &mockCatalogService{ready: true}
	}

	server, err := NewServer(ports)
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestNewServer_RequiresPorts(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingChatService)

	_, err = NewServer(&Ports{Chat: newMockChatService()})
	assert.ErrorIs(t, err, ErrMissingSearchService)

	_, err = NewServer(&Ports{Chat: newMockChatService(), Search: &mockSearchService{}})
	assert.ErrorIs(t, err, ErrMissingCatalogService)
}

func TestServer_Completions_ProxiesRawBody(t *testing.T) {
	llm := &mockLLM{rawOut: json.RawMessage(`{"choices":[{"message":{"content":"hi"}}]}`)}
	ts := newTestServer(t, &Ports{LLM: llm})

	resp := postJSON(t, ts.URL+"/api/completions", map[string]any{
		"messageHistory": []map[string]string{
			{"role": "system", "content": "be helpful"},
			{"role": "user", "content": "hello"},
		},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	assert.Contains(t, body, "choices")

	require.Len(t, llm.lastMessages, 2)
	assert.Equal(t, "user", llm.lastMessages[1].Role)
}

func TestServer_Completions_NoLLM(t *testing.T) {
	ts := newTestServer(t, &Ports{})

	resp := postJSON(t, ts.URL+"/api/completions", map[string]any{
		"messageHistory": []map[string]string{{"role": "user", "content": "hi"}},
	})

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_Completions_EmptyHistory(t *testing.T) {
	ts := newTestServer(t, &Ports{LLM: &mockLLM{}})

	resp := postJSON(t, ts.URL+"/api/completions", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Completions_UpstreamFailure(t *testing.T) {
	llm := &mockLLM{rawErr: errors.New("upstream 500")}
	ts := newTestServer(t, &Ports{LLM: llm})

	resp := postJSON(t, ts.URL+"/api/completions", map[string]any{
		"messageHistory": []map[string]string{{"role": "user", "content": "hi"}},
	})

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestServer_Chat_NewConversation(t *testing.T) {
	chat := newMockChatService()
	chat.turn = domain.Turn{
		Reply: "Here you go.",
		Query: "pink dress",
		Products: []domain.ProductCard{
			{Title: "Pink Dress", Handle: "pink-dress", ImageURL: "img"},
		},
	}
	ts := newTestServer(t, &Ports{Chat: chat})

	resp := postJSON(t, ts.URL+"/api/chat", map[string]string{"message": "show me pink"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[chatResponse](t, resp)
	assert.NotEmpty(t, body.ConversationID)
	assert.Equal(t, "Here you go.", body.Reply)
	assert.Equal(t, "pink dress", body.Query)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "pink-dress", body.Products[0].Handle)
}

func TestServer_Chat_ContinuesConversation(t *testing.T) {
	chat := newMockChatService()
	chat.turn = domain.Turn{Reply: "again"}
	ts := newTestServer(t, &Ports{Chat: chat})

	first := decodeBody[chatResponse](t, postJSON(t, ts.URL+"/api/chat",
		map[string]string{"message": "hi"}))

	resp := postJSON(t, ts.URL+"/api/chat", map[string]string{
		"conversationId": first.ConversationID,
		"message":        "more",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[chatResponse](t, resp)
	assert.Equal(t, first.ConversationID, body.ConversationID)
}

func TestServer_Chat_UnknownConversation(t *testing.T) {
	ts := newTestServer(t, &Ports{})

	resp := postJSON(t, ts.URL+"/api/chat", map[string]string{
		"conversationId": "missing",
		"message":        "hi",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ChatReset_ClearsConversation(t *testing.T) {
	chat := newMockChatService()
	chat.turn = domain.Turn{Reply: "hi"}
	ts := newTestServer(t, &Ports{Chat: chat})

	first := decodeBody[chatResponse](t, postJSON(t, ts.URL+"/api/chat",
		map[string]string{"message": "hi"}))

	resp := postJSON(t, ts.URL+"/api/chat/reset", map[string]string{
		"conversationId": first.ConversationID,
		"systemPrompt":   "You sell hats now.",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, first.ConversationID, body["conversationId"], "the id survives the reset")
	assert.Equal(t, 1, chat.resets)
	assert.Equal(t, "You sell hats now.", chat.lastSystemPrompt)
}

func TestServer_ChatReset_UnknownConversation(t *testing.T) {
	ts := newTestServer(t, &Ports{})

	resp := postJSON(t, ts.URL+"/api/chat/reset", map[string]string{
		"conversationId": "missing",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ChatReset_MissingID(t *testing.T) {
	ts := newTestServer(t, &Ports{})

	resp := postJSON(t, ts.URL+"/api/chat/reset", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Chat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		sendErr    error
		wantStatus int
	}{
		{"empty input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"no llm", domain.ErrLLMUnavailable, http.StatusServiceUnavailable},
		{"upstream failure", errors.New("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := newMockChatService()
			chat.sendErr = tt.sendErr
			ts := newTestServer(t, &Ports{Chat: chat})

			resp := postJSON(t, ts.URL+"/api/chat", map[string]string{"message": "hi"})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestServer_Products_Search(t *testing.T) {
	search := &mockSearchService{
		results: []domain.RankedProduct{
			{Product: domain.Product{Handle: "pink-dress", Title: "Pink Dress"}, Score: 2},
			{Product: domain.Product{Handle: "blue-dress", Title: "Blue Dress"}, Score: 1},
		},
	}
	ts := newTestServer(t, &Ports{Search: search})

	resp, err := http.Get(ts.URL + "/products?query=dress")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[productsResponse](t, resp)
	assert.Equal(t, "dress", body.Query)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "pink-dress", body.Products[0].Handle)
	assert.Zero(t, search.lastLimit, "no explicit limit defers to the service default")
}

func TestServer_Products_ExplicitLimit(t *testing.T) {
	search := &mockSearchService{}
	ts := newTestServer(t, &Ports{Search: search})

	resp, err := http.Get(ts.URL + "/products?query=dress&limit=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, search.lastLimit)
}

func TestServer_Products_FullCatalog(t *testing.T) {
	search := &mockSearchService{
		all: []domain.Product{
			{Handle: "a", Title: "A"},
			{Handle: "b", Title: "B"},
		},
	}
	ts := newTestServer(t, &Ports{Search: search})

	resp, err := http.Get(ts.URL + "/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[productsResponse](t, resp)
	assert.Empty(t, body.Query)
	assert.Len(t, body.Products, 2)
}

func TestServer_Products_NotReady(t *testing.T) {
	search := &mockSearchService{err: domain.ErrNotReady}
	ts := newTestServer(t, &Ports{Search: search})

	resp, err := http.Get(ts.URL + "/products?query=dress")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_ProductDetail(t *testing.T) {
	client := &mockCatalogClient{byHandle: map[string]*domain.Product{
		"pink-dress": {
			Handle:   "pink-dress",
			Title:    "Pink Dress",
			Tags:     []string{"cf-internal", "pink"},
			ImageURL: "https://cdn/pink.jpg",
		},
	}}
	ts := newTestServer(t, &Ports{CatalogClient: client})

	resp := postJSON(t, ts.URL+"/shopify-api", map[string]string{"handle": "pink-dress"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[productDetailResponse](t, resp)
	require.NotNil(t, body.Product)
	assert.Equal(t, "Pink Dress", body.Product.Title)
	assert.Equal(t, []string{"pink"}, body.Product.Tags, "reserved tags are hidden")
}

func TestServer_ProductDetail_NotFound(t *testing.T) {
	ts := newTestServer(t, &Ports{CatalogClient: &mockCatalogClient{}})

	resp := postJSON(t, ts.URL+"/shopify-api", map[string]string{"handle": "missing"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ProductDetail_MissingHandle(t *testing.T) {
	ts := newTestServer(t, &Ports{CatalogClient: &mockCatalogClient{}})

	resp := postJSON(t, ts.URL+"/shopify-api", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	catalog := &mockCatalogService{
		ready:    true,
		products: []domain.Product{{Handle: "a"}, {Handle: "b"}},
	}
	ts := newTestServer(t, &Ports{Catalog: catalog})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[healthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Ready)
	assert.Equal(t, 2, body.Products)
}

func TestServer_ServesStaticPage(t *testing.T) {
	ts := newTestServer(t, &Ports{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
