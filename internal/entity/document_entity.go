package entity

import "time"

// ElementKind classifies a parsed unit of a document.
type ElementKind string

const (
	ElementNarrativeText ElementKind = "narrative_text"
	ElementTitle         ElementKind = "title"
	ElementTable         ElementKind = "table"
	ElementImageCaption  ElementKind = "image_caption"
)

// Document is a source file registered in a namespace. Immutable once ingested.
type Document struct {
	Id         string
	Namespace  string
	Filename   string
	SizeBytes  int64
	ChunkCount int
	IngestedAt time.Time
}

// Element is one parsed unit of a document, in reading order.
// Produced by the parser, consumed only by the chunker.
type Element struct {
	Kind     ElementKind
	Text     string
	Page     int
	Position int // 0-based index within the document
}
