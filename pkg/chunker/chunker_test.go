package chunker

import (
	"errors"
	"strings"
	"testing"

	"ai-docqa-be/internal/entity"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int
		overlap int
		wantErr bool
	}{
		{name: "valid", maxSize: 100, overlap: 20, wantErr: false},
		{name: "zero overlap", maxSize: 100, overlap: 0, wantErr: false},
		{name: "zero size", maxSize: 0, overlap: 0, wantErr: true},
		{name: "negative size", maxSize: -5, overlap: 0, wantErr: true},
		{name: "negative overlap", maxSize: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", maxSize: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", maxSize: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.maxSize, tt.overlap)
			if tt.wantErr {
				if !errors.Is(err, entity.ErrConfig) {
					t.Errorf("expected ErrConfig, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func elementsOf(texts ...string) []entity.Element {
	elements := make([]entity.Element, len(texts))
	for i, text := range texts {
		elements[i] = entity.Element{
			Kind:     entity.ElementNarrativeText,
			Text:     text,
			Page:     1,
			Position: i,
		}
	}
	return elements
}

func TestChunkSizeBound(t *testing.T) {
	c, err := New(50, 10)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.Chunk("doc-1", elementsOf(
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
	))

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk.Text)); n > 50 {
			t.Errorf("chunk %d has %d runes, max is 50", i, n)
		}
		if chunk.SeqIndex != i {
			t.Errorf("chunk %d has SeqIndex %d", i, chunk.SeqIndex)
		}
	}
}

func TestChunkHardSplitLongElement(t *testing.T) {
	c, err := New(100, 0)
	if err != nil {
		t.Fatal(err)
	}

	long := strings.Repeat("x", 350)
	chunks := c.Chunk("doc-1", elementsOf(long))

	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks for 350 runes at size 100, got %d", len(chunks))
	}

	var total int
	for _, chunk := range chunks {
		total += len([]rune(chunk.Text))
	}
	if total != 350 {
		t.Errorf("hard split dropped text: got %d runes total, want 350", total)
	}
}

func TestChunkOverlapCarriesTail(t *testing.T) {
	c, err := New(20, 5)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.Chunk("doc-1", elementsOf(strings.Repeat("ab", 25)))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		tail := string(prev[len(prev)-5:])
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("chunk %d does not start with the previous tail %q: %q", i, tail, chunks[i].Text)
		}
	}
}

func TestChunkIDsAreDeterministic(t *testing.T) {
	c, err := New(50, 10)
	if err != nil {
		t.Fatal(err)
	}

	elements := elementsOf(strings.Repeat("hello world ", 20))
	first := c.Chunk("doc-1", elements)
	second := c.Chunk("doc-1", elements)

	if len(first) != len(second) {
		t.Fatalf("chunk count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Id != second[i].Id {
			t.Errorf("chunk %d id differs between runs", i)
		}
	}

	other := c.Chunk("doc-2", elements)
	if first[0].Id == other[0].Id {
		t.Error("different documents produced the same chunk id")
	}
}

func TestChunkSkipsEmptyElements(t *testing.T) {
	c, err := New(100, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.Chunk("doc-1", []entity.Element{
		{Kind: entity.ElementNarrativeText, Text: "   ", Page: 1},
		{Kind: entity.ElementNarrativeText, Text: "real content", Page: 1},
		{Kind: entity.ElementNarrativeText, Text: "", Page: 1},
	})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "real content" {
		t.Errorf("unexpected chunk text %q", chunks[0].Text)
	}
}

func TestChunkTracksPageRange(t *testing.T) {
	c, err := New(1000, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.Chunk("doc-1", []entity.Element{
		{Kind: entity.ElementNarrativeText, Text: "page one text", Page: 1},
		{Kind: entity.ElementNarrativeText, Text: "page two text", Page: 2},
	})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].PageStart != 1 || chunks[0].PageEnd != 2 {
		t.Errorf("page range = %d-%d, want 1-2", chunks[0].PageStart, chunks[0].PageEnd)
	}
}

func TestChunkJoinsElementsWithSeparator(t *testing.T) {
	c, err := New(100, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.Chunk("doc-1", elementsOf("first paragraph", "second paragraph"))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "first paragraph\n\nsecond paragraph" {
		t.Errorf("unexpected joined text %q", chunks[0].Text)
	}
}
