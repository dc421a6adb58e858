package entity

import "github.com/google/uuid"

// Citation points at a chunk that was injected into the generation prompt.
// Tag matches the [S<n>] marker used inside the prompt.
type Citation struct {
	Tag        string
	ChunkId    uuid.UUID
	DocumentId string
	PageStart  int
	PageEnd    int
	SeqIndex   int
	Similarity float64
}

// Answer is the generated response plus the provenance that produced it.
// Ephemeral: the core never persists answers.
type Answer struct {
	Text      string
	Query     string
	Grounded  bool // false when the context was empty or below the similarity threshold
	Citations []Citation
}
