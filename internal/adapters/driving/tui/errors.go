// Package tui provides an interactive terminal chat for the assistant.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")
