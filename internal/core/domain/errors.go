package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotReady indicates the catalog has not completed its initial load.
	// Callers should retry or report the service as warming up.
	ErrNotReady = errors.New("catalog not ready")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogUnavailable indicates the commerce API could not be reached
	// or returned a failing status.
	ErrCatalogUnavailable = errors.New("catalog API unavailable")

	// ErrLLMUnavailable indicates the completion service is not configured
	// or unreachable. Conversational features are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSelectionParse indicates the model's selection reply did not match
	// the expected handle-list grammar. The selection pipeline degrades to
	// an empty result; the error exists so logs and tests can tell a parse
	// failure apart from a genuine "none matched".
	ErrSelectionParse = errors.New("selection reply parse failed")

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
