package parser

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/pkg/lexical"
)

// Parser turns a raw document payload into an ordered element sequence.
// Implementations are side-effect free.
type Parser interface {
	Parse(ctx context.Context, raw []byte) ([]entity.Element, error)
}

var pdfMagic = []byte("%PDF-")

// DocumentParser sniffs the payload format and dispatches to the matching
// concrete parser. PDF, Lexical editor exports, and plain text (incl.
// markdown) are supported.
type DocumentParser struct {
	pdf  *PDFParser
	text *TextParser
}

func NewDocumentParser() *DocumentParser {
	return &DocumentParser{
		pdf:  NewPDFParser(),
		text: NewTextParser(),
	}
}

func (p *DocumentParser) Parse(ctx context.Context, raw []byte) ([]entity.Element, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", entity.ErrParse)
	}

	if bytes.HasPrefix(raw, pdfMagic) {
		return p.pdf.Parse(ctx, raw)
	}
	if utf8.Valid(raw) {
		if lexical.IsLexical(raw) {
			flat, err := lexical.Flatten(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", entity.ErrParse, err)
			}
			return p.text.Parse(ctx, []byte(flat))
		}
		return p.text.Parse(ctx, raw)
	}

	return nil, fmt.Errorf("%w: unsupported document format", entity.ErrParse)
}

// isTitleLine marks short standalone lines without terminal punctuation as
// titles so the chunker can keep headings attached to their section text.
func isTitleLine(line string) bool {
	if line == "" || len(line) > 80 {
		return false
	}
	last := line[len(line)-1]
	switch last {
	case '.', '!', '?', ',', ';', ':':
		return false
	}
	return true
}
