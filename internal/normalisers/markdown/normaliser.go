// Package markdown normalises markdown files by stripping formatting
// down to plain prose. Headings, emphasis, links, and list markers
// carry no retrieval signal of their own and would otherwise leak
// into the embedded text.
package markdown

import (
	"regexp"
	"strings"

	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	reCodeBlock  = regexp.MustCompile("(?s)```[^`]*```")
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBlockquote = regexp.MustCompile(`(?m)^>\s*`)
	reHRule      = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	reBullet     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	reNumbered   = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles markdown content.
type Normaliser struct{}

// New creates a markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise strips markdown formatting, keeping the readable text.
// Fenced code blocks are dropped entirely; inline code and link text
// are kept without their markers.
func (n *Normaliser) Normalise(content []byte) (string, error) {
	text := string(content)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = reCodeBlock.ReplaceAllString(text, "")
	text = reImage.ReplaceAllString(text, "")
	text = reLink.ReplaceAllString(text, "$1")
	text = reInlineCode.ReplaceAllString(text, "$1")
	text = reHeading.ReplaceAllString(text, "")
	text = reBlockquote.ReplaceAllString(text, "")
	text = reHRule.ReplaceAllString(text, "")
	text = reBullet.ReplaceAllString(text, "")
	text = reNumbered.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "*", "")

	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
