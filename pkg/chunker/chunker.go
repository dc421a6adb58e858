package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"ai-docqa-be/internal/entity"

	"github.com/google/uuid"
)

// Chunker groups parsed elements into bounded-size chunks. Sizes are measured
// in runes. This is a simple character-based splitter; ideally, use a
// tokenizer-aware splitter.
type Chunker struct {
	maxSize int
	overlap int
}

// New validates the configuration up front. Chunking never starts with an
// invalid maxSize/overlap pair.
func New(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", entity.ErrConfig, maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < %d, got %d", entity.ErrConfig, maxSize, overlap)
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}, nil
}

// NewChunkID derives a chunk id from the document id and sequence index.
// Pure function: re-ingesting the same document yields the same ids.
func NewChunkID(documentId string, seq int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(documentId+":"+strconv.Itoa(seq)))
}

// Chunk greedily accumulates element text into chunks of at most maxSize
// runes. Closing a chunk seeds the next one with the trailing overlap runes so
// context survives the boundary. An element longer than maxSize is hard-split,
// never dropped.
func (c *Chunker) Chunk(documentId string, elements []entity.Element) []entity.Chunk {
	var chunks []entity.Chunk
	var buf []rune
	seq := 0
	pageStart, pageEnd := 0, 0

	emit := func(text []rune) {
		trimmed := strings.TrimSpace(string(text))
		if trimmed == "" {
			return
		}
		chunks = append(chunks, entity.Chunk{
			Id:         NewChunkID(documentId, seq),
			DocumentId: documentId,
			Text:       trimmed,
			PageStart:  pageStart,
			PageEnd:    pageEnd,
			SeqIndex:   seq,
		})
		seq++
	}

	carryTail := func(text []rune) []rune {
		if c.overlap == 0 || len(text) == 0 {
			return nil
		}
		if len(text) <= c.overlap {
			return append([]rune(nil), text...)
		}
		return append([]rune(nil), text[len(text)-c.overlap:]...)
	}

	for _, el := range elements {
		text := strings.TrimSpace(el.Text)
		if text == "" {
			continue
		}
		r := []rune(text)

		sep := 0
		if len(buf) > 0 {
			sep = 2 // "\n\n"
		}

		// Close the running chunk if appending this element would overflow it.
		if len(buf) > 0 && len(buf)+sep+len(r) > c.maxSize {
			emit(buf)
			buf = carryTail(buf)
			pageStart = pageEnd
		}

		if len(buf) > 0 {
			buf = append(buf, '\n', '\n')
		} else if buf == nil {
			pageStart = el.Page
		}
		if el.Page > pageEnd {
			pageEnd = el.Page
		}
		if pageStart == 0 {
			pageStart = el.Page
		}
		buf = append(buf, r...)

		// Hard split: a single element can exceed maxSize on its own.
		for len(buf) > c.maxSize {
			head := buf[:c.maxSize]
			emit(head)
			rest := buf[c.maxSize:]
			buf = append(carryTail(head), rest...)
			pageStart = pageEnd
		}
	}

	emit(buf)
	return chunks
}
