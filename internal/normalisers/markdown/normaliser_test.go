package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormaliser_StripsHeadingsAndEmphasis(t *testing.T) {
	n := New()

	text, err := n.Normalise([]byte("# Title\n\nSome **bold** and *italic* prose."))

	require.NoError(t, err)
	assert.Equal(t, "Title\n\nSome bold and italic prose.", text)
}

func TestNormaliser_KeepsLinkTextDropsURL(t *testing.T) {
	n := New()

	text, err := n.Normalise([]byte("See [the docs](https://example.com/docs) for more."))

	require.NoError(t, err)
	assert.Equal(t, "See the docs for more.", text)
}

func TestNormaliser_DropsCodeBlocksKeepsInlineCode(t *testing.T) {
	n := New()

	input := "Before\n\n```go\nfunc main() {}\n```\n\nRun `make build` after."
	text, err := n.Normalise([]byte(input))

	require.NoError(t, err)
	assert.NotContains(t, text, "func main")
	assert.Contains(t, text, "make build")
}

func TestNormaliser_StripsListMarkersAndQuotes(t *testing.T) {
	n := New()

	input := "- first\n- second\n1. third\n> quoted line\n"
	text, err := n.Normalise([]byte(input))

	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird\nquoted line", text)
}

func TestNormaliser_DropsImages(t *testing.T) {
	n := New()

	text, err := n.Normalise([]byte("Intro ![diagram](diagram.png) outro"))

	require.NoError(t, err)
	assert.Equal(t, "Intro  outro", text)
}
