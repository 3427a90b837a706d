package driven

// TextSplitter breaks a page of text into smaller pieces before
// embedding. Splitting keeps each embedded chunk within the effective
// context of the embedding model; retrieval quality degrades when a
// single vector has to summarise too much text.
type TextSplitter interface {
	// Split returns the pieces of text in order. Must return the
	// input unchanged (as a single element) when it is short enough.
	Split(text string) []string
}
