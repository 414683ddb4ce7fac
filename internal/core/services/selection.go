package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
	"github.com/shopassist-labs/shopassist/internal/core/ports/driving"
	"github.com/shopassist-labs/shopassist/internal/logger"
)

// Ensure SelectionService implements the interfaces.
var (
	_ driving.SelectionService = (*SelectionService)(nil)
	_ driven.PromptStoreAware  = (*SelectionService)(nil)
)

// candidateSeparator joins formatted candidate lines in the prompt.
const candidateSeparator = " | "

// defaultSelectPrompt is the fallback when no PromptStore is configured.
// First %s is the user's text, second is the formatted candidate list.
const defaultSelectPrompt = `A customer said: "%s"

Below is a list of products, each as "handle - tags: tag1, tag2". Pick the
products that best match what the customer wants, weighting tag matches above
title matches. Reply with at most 5 handles as a comma-and-space separated
list, in this exact format: first-handle, second-handle
Do not add periods, numbering, or any other text.

Products: %s`

// handleToken matches a plausible product handle: a URL-safe slug.
var handleToken = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// SelectionService is the LLM re-ranking pipeline: it formats search
// candidates into a selection prompt, asks the completion model to pick
// matching handles, and maps the reply back to display cards.
type SelectionService struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewSelectionService creates a selection service. llm may be nil, in which
// case every selection is empty.
func NewSelectionService(llm driven.LLMService) *SelectionService {
	return &SelectionService{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *SelectionService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// SelectProducts returns at most domain.MaxSelectedProducts cards drawn from
// candidates, in candidate order. Failures degrade to an empty slice.
func (s *SelectionService) SelectProducts(
	ctx context.Context, userText string, candidates []domain.RankedProduct,
) []domain.ProductCard {
	if len(candidates) == 0 {
		return []domain.ProductCard{}
	}
	if s.llm == nil {
		logger.Warn("Selection skipped: no LLM service configured")
		return []domain.ProductCard{}
	}

	prompt := s.buildPrompt(userText, candidates)
	logger.Debug("Selection prompt: %d candidates", len(candidates))

	// One message, no history: the selection call is independent of the
	// conversation the user text came from.
	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   100,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("Selection completion failed: %v", err)
		return []domain.ProductCard{}
	}

	handles, err := parseHandleList(reply)
	if err != nil {
		logger.Warn("Selection reply unusable: %v (reply %q)", err, reply)
		return []domain.ProductCard{}
	}

	return matchCandidates(candidates, handles)
}

// buildPrompt formats the candidate list and fills the selection template.
func (s *SelectionService) buildPrompt(userText string, candidates []domain.RankedProduct) string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("%s - tags: %s",
			c.Product.Handle, strings.Join(c.Product.Tags, ", ")))
	}

	template := defaultSelectPrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptSelectProducts); err == nil && p != "" {
			if usableTemplate(p) {
				template = p
			} else {
				logger.Warn("Ignoring %s override: template needs exactly two %%s placeholders",
					driven.PromptSelectProducts)
			}
		}
	}
	return fmt.Sprintf(template, userText, strings.Join(lines, candidateSeparator))
}

// usableTemplate reports whether an override template will format
// cleanly with the two string arguments buildPrompt supplies. Sprintf
// with any other verb count would inject %! noise into the prompt the
// model sees.
func usableTemplate(t string) bool {
	return strings.Count(t, "%s") == 2 && strings.Count(t, "%") == 2
}

// parseHandleList parses the model's reply into normalized handle tokens.
//
// Grammar: handles separated by commas. Models ignore format instructions
// often enough that each token is trimmed of whitespace and trailing
// punctuation and case-folded before it must look like a URL-safe slug.
// Returns domain.ErrSelectionParse when nothing in the reply survives, so
// logs can tell a garbage reply apart from a genuine empty match.
func parseHandleList(reply string) ([]string, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrSelectionParse)
	}

	var handles []string
	for _, token := range strings.Split(reply, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		token = strings.TrimRight(token, ".!?;:")
		if token == "" || !handleToken.MatchString(token) {
			continue
		}
		handles = append(handles, token)
	}

	if len(handles) == 0 {
		return nil, fmt.Errorf("%w: no handle tokens in reply", domain.ErrSelectionParse)
	}
	return handles, nil
}

// matchCandidates intersects the parsed handles with the candidate set.
// Output order follows candidate rank, not the model's order, and is capped
// at domain.MaxSelectedProducts.
func matchCandidates(candidates []domain.RankedProduct, handles []string) []domain.ProductCard {
	wanted := make(map[string]bool, len(handles))
	for _, h := range handles {
		wanted[h] = true
	}

	cards := make([]domain.ProductCard, 0, domain.MaxSelectedProducts)
	for _, c := range candidates {
		if !wanted[strings.ToLower(c.Product.Handle)] {
			continue
		}
		cards = append(cards, domain.ProductCard{
			Title:    c.Product.Title,
			ImageURL: c.Product.ImageURL,
			Handle:   c.Product.Handle,
		})
		if len(cards) == domain.MaxSelectedProducts {
			break
		}
	}
	return cards
}
