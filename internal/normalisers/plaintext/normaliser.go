// Package plaintext normalises plain text files. Line endings are
// unified and trailing whitespace dropped; the content is otherwise
// passed through untouched.
package plaintext

import (
	"strings"

	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text content.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Normalise unifies line endings and trims surrounding whitespace.
func (n *Normaliser) Normalise(content []byte) (string, error) {
	text := string(content)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text), nil
}
