package driven

// Normaliser converts raw file content into plain text suitable for
// chunking and embedding. Formats that carry markup strip it here so
// the embedded text matches what a reader would actually search for.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lowercase and including the leading dot.
	Extensions() []string

	// Normalise extracts plain text from raw file content.
	Normalise(content []byte) (string, error)
}
