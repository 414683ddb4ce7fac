// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// TurnCompleted carries the result of a conversational turn back to the
// model. On error the turn is zero and the user's input stays in the
// transcript without an assistant reply.
type TurnCompleted struct {
	Turn domain.Turn
	Err  error
}

// CatalogStatus carries the catalog readiness and size for the status bar.
type CatalogStatus struct {
	Ready bool
	Count int
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
