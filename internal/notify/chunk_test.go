package notify

import (
	"strings"
	"testing"
)

func TestChunkifyReconstructsOriginal(t *testing.T) {
	lengths := []int{1, 999, 1000, 1001, 2000, 2500, 5003}
	for _, l := range lengths {
		content := strings.Repeat("abcdefghij", l/10) + strings.Repeat("x", l%10)
		chunks := Chunkify(content, 1000)

		want := (l + 999) / 1000
		if len(chunks) != want {
			t.Fatalf("length %d: got %d chunks, want %d", l, len(chunks), want)
		}
		for i, chunk := range chunks[:len(chunks)-1] {
			if got := len([]rune(chunk)); got != 1000 {
				t.Fatalf("length %d: chunk %d has %d runes, want 1000", l, i, got)
			}
		}
		if strings.Join(chunks, "") != content {
			t.Fatalf("length %d: concatenated chunks do not reconstruct original", l)
		}
	}
}

func TestChunkifyEmpty(t *testing.T) {
	if got := Chunkify("", 1000); got != nil {
		t.Fatalf("expected no chunks for empty content, got %v", got)
	}
}

func TestChunkifyMultibyte(t *testing.T) {
	content := strings.Repeat("日本語のテキスト巨大", 150) // 1500 runes
	chunks := Chunkify(content, 1000)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len([]rune(chunks[0])) != 1000 || len([]rune(chunks[1])) != 500 {
		t.Fatalf("unexpected chunk rune lengths: %d, %d", len([]rune(chunks[0])), len([]rune(chunks[1])))
	}
	if chunks[0]+chunks[1] != content {
		t.Fatal("multibyte content not reconstructed exactly")
	}
}
