package qa

import "strings"

const (
	// ChunkSize and ChunkOverlap bound each chunk to the generation
	// model's context window while keeping continuity across boundaries.
	ChunkSize    = 1000
	ChunkOverlap = 200
)

// SplitText cuts text into chunks of at most chunkSize characters with the
// given overlap carried between neighbours. Sizes count characters, not
// bytes, so multi-byte text never splits mid-rune. Cuts land on the last
// newline inside the window when one exists past the overlap region, so
// paragraphs stay whole where possible.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = ChunkOverlap % chunkSize
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		// Prefer a newline boundary, as long as it still makes progress
		// beyond the overlap carried from the previous chunk.
		if cut := lastNewline(runes[start:end]); cut > overlap {
			end = start + cut
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
