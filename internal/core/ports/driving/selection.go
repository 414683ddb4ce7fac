package driving

import (
	"context"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// SelectionService filters search candidates down to the products that best
// match the user's request, using the completion model as a re-ranker.
type SelectionService interface {
	// SelectProducts returns at most domain.MaxSelectedProducts cards drawn
	// from candidates, in candidate order. It never returns an error: any
	// pipeline failure (network, malformed reply, parse failure) is logged
	// and yields an empty slice, indistinguishable from "none matched".
	SelectProducts(ctx context.Context, userText string, candidates []domain.RankedProduct) []domain.ProductCard
}
