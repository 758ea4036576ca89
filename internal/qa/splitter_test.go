package qa

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextEmpty(t *testing.T) {
	assert.Nil(t, SplitText("", ChunkSize, ChunkOverlap))
	assert.Nil(t, SplitText("   \n\t", ChunkSize, ChunkOverlap))
}

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("a short document", ChunkSize, ChunkOverlap)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplitTextRespectsChunkSize(t *testing.T) {
	text := strings.Repeat("x", 3500)
	chunks := SplitText(text, 1000, 200)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 1000)
	}
}

func TestSplitTextOverlapCarriesAcrossBoundaries(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := SplitText(text, 1000, 200)

	require.GreaterOrEqual(t, len(chunks), 2)
	// The tail of each chunk must reappear at the head of the next one.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-200:]
		assert.True(t, strings.HasPrefix(chunks[i], tail))
	}
}

func TestSplitTextMultiByteRuneBoundaries(t *testing.T) {
	// 700 runes fit one chunk even though their UTF-8 encoding runs past
	// 1000 bytes.
	short := strings.Repeat("世", 700)
	chunks := SplitText(short, 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, short, chunks[0])

	// A longer run must split on rune boundaries, never mid-encoding.
	long := strings.Repeat("世", 2500)
	chunks = SplitText(long, 1000, 200)
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 1000)
	}
	assert.True(t, strings.HasSuffix(long, chunks[len(chunks)-1]))
}

func TestSplitTextPrefersNewlineBoundaries(t *testing.T) {
	para := strings.Repeat("a", 600)
	text := para + "\n" + strings.Repeat("b", 600)
	chunks := SplitText(text, 1000, 200)

	require.GreaterOrEqual(t, len(chunks), 2)
	// The first cut should land on the newline at offset 600, not at the
	// hard 1000-character limit.
	assert.Equal(t, para, chunks[0])
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("paragraph one\n", 300)
	chunks := SplitText(text, 1000, 200)

	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
	assert.True(t, strings.HasPrefix(text, chunks[0]))
}
