package lexical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var rootPrefix = []byte(`{"root":`)

// IsLexical reports whether the payload looks like a Lexical editor state
// export. Cheap prefix sniff, no full JSON parse.
func IsLexical(raw []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), rootPrefix)
}

// Flatten converts a Lexical JSON export into plain text suitable for
// chunking and retrieval. Headings become markdown-style "#" lines so the
// downstream text parser keeps them as titles, paragraphs become blank-line
// separated blocks, list items become one line each, table rows become
// one line per row. Inline styling is dropped.
func Flatten(raw []byte) (string, error) {
	var root Root
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", fmt.Errorf("failed to parse lexical json: %w", err)
	}

	var blocks []string
	walkNode(root.Root, &blocks, 0)

	var nonEmpty []string
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			nonEmpty = append(nonEmpty, strings.TrimRight(b, "\n"))
		}
	}
	return strings.Join(nonEmpty, "\n\n"), nil
}

func walkNode(node Node, blocks *[]string, depth int) {
	switch node.Type {
	case "root":
		for _, child := range node.Children {
			walkNode(child, blocks, depth)
		}

	case "heading":
		if text := strings.TrimSpace(inlineText(node)); text != "" {
			*blocks = append(*blocks, headingPrefix(node.Tag)+" "+text)
		}

	case "paragraph", "quote":
		*blocks = append(*blocks, inlineText(node))

	case "list":
		*blocks = append(*blocks, renderList(node, depth))

	case "table":
		*blocks = append(*blocks, renderTable(node))

	case "horizontalrule":
		// No textual content.

	default:
		for _, child := range node.Children {
			walkNode(child, blocks, depth)
		}
	}
}

// headingPrefix maps a Lexical heading tag (h1..h6) to its markdown marker.
func headingPrefix(tag string) string {
	level := 1
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		level = int(tag[1] - '0')
	}
	return strings.Repeat("#", level)
}

// inlineText concatenates the text of a node's inline children, following
// links and spans transparently.
func inlineText(node Node) string {
	var sb strings.Builder
	collectText(node, &sb)
	return sb.String()
}

func collectText(node Node, sb *strings.Builder) {
	if node.Type == "text" {
		sb.WriteString(node.Text)
		return
	}
	if node.Type == "linebreak" {
		sb.WriteString("\n")
		return
	}
	for _, child := range node.Children {
		collectText(child, sb)
	}
}

func renderList(node Node, depth int) string {
	index := 1
	if node.Start > 0 {
		index = node.Start
	}

	var sb strings.Builder
	for _, child := range node.Children {
		if child.Type != "listitem" {
			continue
		}

		sb.WriteString(strings.Repeat("  ", depth))
		if node.ListType == "number" {
			sb.WriteString(strconv.Itoa(index) + ". ")
			index++
		} else {
			sb.WriteString("- ")
		}

		for _, grandChild := range child.Children {
			if grandChild.Type == "list" {
				// Nested list appears as a child of the listitem.
				sb.WriteString("\n")
				sb.WriteString(renderList(grandChild, depth+1))
			} else {
				collectText(grandChild, &sb)
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTable(node Node) string {
	var sb strings.Builder
	for _, row := range node.Children {
		if row.Type != "tablerow" {
			continue
		}

		var cells []string
		for _, cell := range row.Children {
			text := strings.ReplaceAll(inlineText(cell), "\n", " ")
			cells = append(cells, strings.TrimSpace(text))
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
