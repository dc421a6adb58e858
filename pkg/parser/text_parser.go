package parser

import (
	"context"
	"fmt"
	"strings"

	"ai-docqa-be/internal/entity"
)

// TextParser handles plain text and markdown payloads. The whole document is
// treated as a single page; paragraphs are split on blank lines.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) Parse(ctx context.Context, raw []byte) ([]entity.Element, error) {
	content := strings.ReplaceAll(string(raw), "\r\n", "\n")

	var elements []entity.Element
	position := 0
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		kind := entity.ElementNarrativeText
		if strings.HasPrefix(block, "#") && !strings.Contains(block, "\n") {
			block = strings.TrimSpace(strings.TrimLeft(block, "#"))
			kind = entity.ElementTitle
		}

		elements = append(elements, entity.Element{
			Kind:     kind,
			Text:     strings.Join(strings.Fields(block), " "),
			Page:     1,
			Position: position,
		})
		position++
	}

	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: no extractable text", entity.ErrParse)
	}
	return elements, nil
}
