package report

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesPDF(t *testing.T) {
	path, err := Generate("# Heading\n\nSome **bold** body text.", "")
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output should be a PDF")
	assert.NotEmpty(t, data)
}

func TestGenerateUniquePathPerCall(t *testing.T) {
	first, err := Generate("summary one", "")
	require.NoError(t, err)
	defer os.Remove(first)

	second, err := Generate("summary two", "")
	require.NoError(t, err)
	defer os.Remove(second)

	assert.NotEqual(t, first, second, "concurrent downloads must never share a file")
}

func TestGenerateIgnoresMissingImage(t *testing.T) {
	path, err := Generate("body", "/nonexistent/image.png")
	require.NoError(t, err)
	os.Remove(path)
}

func TestStripMarkdown(t *testing.T) {
	assert.Equal(t, "Heading", stripMarkdown("## Heading"))
	assert.Equal(t, "- item one", stripMarkdown("* item one"))
	assert.Equal(t, "- item two", stripMarkdown("- item two"))
	assert.Equal(t, "bold and plain", stripMarkdown("**bold** and plain"))
	assert.Equal(t, "code here", stripMarkdown("`code` here"))
	assert.Equal(t, "a link here", stripMarkdown("a [link](https://example.com) here"))
	assert.Equal(t, "", stripMarkdown("   "))
}
