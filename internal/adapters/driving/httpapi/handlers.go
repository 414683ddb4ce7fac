package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// completionsRequest is the raw completions proxy request body.
type completionsRequest struct {
	MessageHistory []driven.ChatMessage `json:"messageHistory"`
}

// chatRequest is the typed chat request body.
type chatRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	Message        string `json:"message"`
}

// chatResponse is the typed chat response body.
type chatResponse struct {
	ConversationID string               `json:"conversationId"`
	Reply          string               `json:"reply"`
	Query          string               `json:"query,omitempty"`
	Products       []domain.ProductCard `json:"products,omitempty"`
}

// chatResetRequest is the conversation reset request body. An omitted
// systemPrompt falls back to the configured default.
type chatResetRequest struct {
	ConversationID string `json:"conversationId"`
	SystemPrompt   string `json:"systemPrompt,omitempty"`
}

// productsResponse is the catalog/search response body.
type productsResponse struct {
	Products []domain.Product `json:"products"`
	Query    string           `json:"query,omitempty"`
}

// productDetailRequest is the storefront detail request body.
type productDetailRequest struct {
	Handle string `json:"handle"`
}

// productDetailResponse is the storefront detail response body.
type productDetailResponse struct {
	Product *domain.Product `json:"product"`
}

// healthResponse is the health check response body.
type healthResponse struct {
	Status   string `json:"status"`
	Ready    bool   `json:"ready"`
	Products int    `json:"products"`
}

// handleCompletions proxies the transcript straight to the provider and
// returns the provider's response body untouched, so clients that speak
// the provider wire format keep working.
func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	if s.ports.LLM == nil {
		writeError(w, http.StatusServiceUnavailable, "no LLM provider configured")
		return
	}

	var req completionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.MessageHistory) == 0 {
		writeError(w, http.StatusBadRequest, "messageHistory is required")
		return
	}

	raw, err := s.ports.LLM.ChatRaw(r.Context(), req.MessageHistory)
	if err != nil {
		logger.Warn("Completions proxy failed: %v", err)
		writeError(w, http.StatusBadGateway, "completion request failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw) //nolint:errcheck
}

// handleChat runs one conversational turn. An omitted conversationId
// starts a fresh conversation; the returned id addresses follow-ups.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var conv *domain.Conversation
	if req.ConversationID == "" {
		conv = s.ports.Chat.NewConversation("")
	} else {
		var err error
		conv, err = s.ports.Chat.Conversation(req.ConversationID)
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown conversation")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "conversation lookup failed")
			return
		}
	}

	turn, err := s.ports.Chat.Send(r.Context(), conv, req.Message)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "message is required")
		return
	case errors.Is(err, domain.ErrLLMUnavailable):
		writeError(w, http.StatusServiceUnavailable, "no LLM provider configured")
		return
	case err != nil:
		logger.Warn("Chat turn failed: %v", err)
		writeError(w, http.StatusBadGateway, "completion request failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: turn.ConversationID,
		Reply:          turn.Reply,
		Query:          turn.Query,
		Products:       turn.Products,
	})
}

// handleChatReset clears a conversation back to a single fresh system
// message. The id stays addressable, so the client keeps its handle on
// the conversation across the reset.
func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	var req chatResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversationId is required")
		return
	}

	conv, err := s.ports.Chat.Conversation(req.ConversationID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown conversation")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "conversation lookup failed")
		return
	}

	s.ports.Chat.Reset(conv, req.SystemPrompt)
	writeJSON(w, http.StatusOK, map[string]string{"conversationId": conv.ID})
}

// handleProducts serves the catalog: the top-ranked matches when a
// query is present, the full cleaned catalog otherwise.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))

	if query == "" {
		products, err := s.ports.Search.AllProducts(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, productsResponse{Products: products})
		return
	}

	// limit 0 lets the search service apply its default.
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	ranked, err := s.ports.Search.Search(r.Context(), query, limit)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	products := make([]domain.Product, 0, len(ranked))
	for _, rp := range ranked {
		products = append(products, rp.Product)
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products, Query: query})
}

// handleProductDetail resolves one product by handle. The handle is the
// only client-controlled input; the upstream query is built server-side.
func (s *Server) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	if s.ports.CatalogClient == nil {
		writeError(w, http.StatusServiceUnavailable, "no catalog client configured")
		return
	}

	var req productDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Handle) == "" {
		writeError(w, http.StatusBadRequest, "handle is required")
		return
	}

	product, err := s.ports.CatalogClient.GetProductByHandle(r.Context(), req.Handle)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		logger.Warn("Product detail lookup failed for %q: %v", req.Handle, err)
		writeError(w, http.StatusBadGateway, "product lookup failed")
		return
	}

	cleaned := product.Cleaned(domain.DefaultReservedTagPrefix)
	writeJSON(w, http.StatusOK, productDetailResponse{Product: &cleaned})
}

// handleHealth reports process liveness and catalog readiness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Ready:    s.ports.Catalog.Ready(),
		Products: s.ports.Catalog.Count(),
	})
}

// writeCatalogError maps catalog failures to status codes.
func writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotReady) {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded yet")
		return
	}
	logger.Warn("Catalog request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "catalog request failed")
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
