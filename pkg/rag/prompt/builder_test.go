package prompt

import (
	"strings"
	"testing"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/repository/contract"

	"github.com/google/uuid"
)

func sources() []*contract.ScoredChunk {
	return []*contract.ScoredChunk{
		{
			Embedding: &entity.ChunkEmbedding{
				Id:         uuid.New(),
				DocumentId: "geography.pdf",
				ChunkText:  "Paris is the capital of France.",
				PageStart:  1,
				PageEnd:    1,
				SeqIndex:   0,
			},
			Similarity: 0.91,
		},
		{
			Embedding: &entity.ChunkEmbedding{
				Id:         uuid.New(),
				DocumentId: "geography.pdf",
				ChunkText:  "Berlin is the capital of Germany.",
				PageStart:  2,
				PageEnd:    3,
				SeqIndex:   1,
			},
			Similarity: 0.72,
		},
	}
}

func TestBuildContainsTaggedSources(t *testing.T) {
	text := NewGroundedBuilder("What is the capital of France?", sources()).Build()

	if !strings.Contains(text, "[S1] (document: geography.pdf, pages 1-1)") {
		t.Errorf("missing first source header:\n%s", text)
	}
	if !strings.Contains(text, "[S2] (document: geography.pdf, pages 2-3)") {
		t.Errorf("missing second source header:\n%s", text)
	}
	if !strings.Contains(text, "Paris is the capital of France.") {
		t.Error("missing first source text")
	}
	if !strings.Contains(text, "What is the capital of France?") {
		t.Error("missing user question")
	}
}

func TestBuildContainsDeclineInstruction(t *testing.T) {
	text := NewGroundedBuilder("anything", sources()).Build()

	if !strings.Contains(text, DeclineSentence) {
		t.Error("prompt must instruct the model how to decline")
	}
	if !strings.Contains(text, "ONLY the text inside <sources>") {
		t.Error("prompt must forbid outside knowledge")
	}
}

func TestSourceTag(t *testing.T) {
	if SourceTag(0) != "S1" || SourceTag(9) != "S10" {
		t.Errorf("unexpected tags: %s, %s", SourceTag(0), SourceTag(9))
	}
}

func TestBuildSectionOrder(t *testing.T) {
	text := NewGroundedBuilder("q", sources()).Build()

	srcIdx := strings.Index(text, "<sources>")
	taskIdx := strings.Index(text, "<task>")
	questionIdx := strings.Index(text, "<user_question>")
	if srcIdx == -1 || taskIdx == -1 || questionIdx == -1 {
		t.Fatal("missing prompt sections")
	}
	if !(srcIdx < taskIdx && taskIdx < questionIdx) {
		t.Error("prompt sections out of order")
	}
}
