package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SelectsByExtension(t *testing.T) {
	r := New()

	text, err := r.Normalise("notes.md", []byte("# Heading\n\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "Heading\n\nbody", text)

	text, err = r.Normalise("notes.txt", []byte("# Heading\n\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "# Heading\n\nbody", text)
}

func TestRegistry_FallsBackToPlainText(t *testing.T) {
	r := New()

	text, err := r.Normalise("data.csv", []byte("a,b,c\r\n1,2,3"))

	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,3", text)
}

func TestRegistry_ExtensionCaseInsensitive(t *testing.T) {
	r := New()

	text, err := r.Normalise("README.MD", []byte("**bold**"))

	require.NoError(t, err)
	assert.Equal(t, "bold", text)
}
