// Package normalisers selects a text normaliser for a file by its
// extension. Markdown is stripped to plain prose before embedding;
// everything else passes through the plain text normaliser.
package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/contexture-ai/contexture/internal/core/ports/driven"
	"github.com/contexture-ai/contexture/internal/normalisers/markdown"
	"github.com/contexture-ai/contexture/internal/normalisers/plaintext"
)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt    map[string]driven.Normaliser
	fallback driven.Normaliser
}

// New creates a registry with the built-in normalisers registered.
// Plain text is the fallback for unrecognised extensions.
func New() *Registry {
	r := &Registry{
		byExt:    make(map[string]driven.Normaliser),
		fallback: plaintext.New(),
	}
	r.Register(plaintext.New())
	r.Register(markdown.New())
	return r
}

// Register adds a normaliser for each extension it claims. Later
// registrations win on conflict.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// ForFile returns the normaliser for the file's extension, falling
// back to plain text.
func (r *Registry) ForFile(name string) driven.Normaliser {
	ext := strings.ToLower(filepath.Ext(name))
	if n, ok := r.byExt[ext]; ok {
		return n
	}
	return r.fallback
}

// Normalise converts the file's raw content to plain text using the
// normaliser selected for its extension.
func (r *Registry) Normalise(name string, content []byte) (string, error) {
	return r.ForFile(name).Normalise(content)
}
