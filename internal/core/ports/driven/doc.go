// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the commerce catalog API, the chat-completion
// provider, the relevance index, and configuration stores.
package driven
