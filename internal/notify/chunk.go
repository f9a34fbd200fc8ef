package notify

// Chunkify splits content into consecutive rune chunks of at most size runes,
// preserving order and offsets exactly. Every chunk except possibly the last
// has exactly size runes; empty content yields no chunks.
func Chunkify(content string, size int) []string {
	if content == "" || size <= 0 {
		return nil
	}
	runes := []rune(content)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
