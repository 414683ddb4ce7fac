package driven

// RelevanceIndex ranks documents against free-text queries.
//
// The index is write-once-at-startup, read-many: documents are appended with
// Add during catalog load and never updated or removed. The ordinal returned
// in IndexHit equals the position the document was added at, which by the
// catalog's positional invariant is also the product's position in the
// catalog snapshot.
type RelevanceIndex interface {
	// Add appends one document at the next ordinal.
	Add(text string)

	// Rank scores every document against the query and returns hits with a
	// score greater than zero, ordered by descending score with stable
	// tie-break on ascending ordinal. Documents sharing no term with the
	// query are excluded.
	Rank(query string) []IndexHit

	// Len returns the number of documents added so far.
	Len() int
}

// IndexHit is a single ranked document.
type IndexHit struct {
	// Ordinal is the document's insertion position.
	Ordinal int

	// Score is the TF-IDF relevance score (> 0).
	Score float64
}
