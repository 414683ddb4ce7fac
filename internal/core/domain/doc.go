// Package domain holds the core business types for the shopping assistant:
// catalog products, conversation transcripts, relevance results, and the
// sentinel errors shared across services and adapters. It has no
// dependencies on adapters or external APIs.
package domain
