package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"ai-docqa-be/internal/entity"

	"github.com/ledongthuc/pdf"
)

// PDFParser extracts text elements from a PDF payload in reading order
// (page by page, rows top to bottom).
type PDFParser struct{}

func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

func (p *PDFParser) Parse(ctx context.Context, raw []byte) (elements []entity.Element, err error) {
	// The underlying reader panics on some malformed files; surface those as
	// parse errors instead of crashing the ingestion worker.
	defer func() {
		if r := recover(); r != nil {
			elements = nil
			err = fmt.Errorf("%w: malformed pdf: %v", entity.ErrParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrParse, err)
	}

	position := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", entity.ErrParse, pageNum, err)
		}

		var paragraph strings.Builder
		flush := func() {
			text := strings.TrimSpace(paragraph.String())
			paragraph.Reset()
			if text == "" {
				return
			}
			elements = append(elements, entity.Element{
				Kind:     entity.ElementNarrativeText,
				Text:     text,
				Page:     pageNum,
				Position: position,
			})
			position++
		}

		for _, row := range rows {
			var sb strings.Builder
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			line := strings.TrimSpace(sb.String())
			if line == "" {
				continue
			}

			if isTitleLine(line) && paragraph.Len() == 0 {
				elements = append(elements, entity.Element{
					Kind:     entity.ElementTitle,
					Text:     line,
					Page:     pageNum,
					Position: position,
				})
				position++
				continue
			}

			if paragraph.Len() > 0 {
				paragraph.WriteString(" ")
			}
			paragraph.WriteString(line)
		}
		flush()
	}

	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: no extractable text", entity.ErrParse)
	}
	return elements, nil
}
