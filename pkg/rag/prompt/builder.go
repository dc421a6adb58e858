package prompt

import (
	"fmt"
	"strings"

	"ai-docqa-be/internal/repository/contract"
)

// DeclineSentence is what the model must answer with when the sources do not
// cover the question. The generator also matches on it to flag the answer as
// not grounded.
const DeclineSentence = "I don't know based on the provided documents."

// GroundedBuilder assembles the answer-generation prompt from retrieved
// chunks. Every chunk gets an [S<n>] tag the model cites with.
type GroundedBuilder struct {
	query   string
	sources []*contract.ScoredChunk
}

func NewGroundedBuilder(query string, sources []*contract.ScoredChunk) *GroundedBuilder {
	return &GroundedBuilder{
		query:   query,
		sources: sources,
	}
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeSources(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

// SourceTag returns the marker used for the i-th source (0-based).
func SourceTag(i int) string {
	return fmt.Sprintf("S%d", i+1)
}

func (b *GroundedBuilder) writeSources(prompt *strings.Builder) {
	prompt.WriteString("<sources>\n")
	for i, source := range b.sources {
		emb := source.Embedding
		prompt.WriteString(fmt.Sprintf("[%s] (document: %s, pages %d-%d)\n",
			SourceTag(i), emb.DocumentId, emb.PageStart, emb.PageEnd))
		prompt.WriteString(emb.ChunkText)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</sources>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are an assistant answering questions about the user's document collection.\n")
	prompt.WriteString("Answer using ONLY the text inside <sources>. Do not use outside knowledge.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundedBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Cite every factual statement with the tag of the source it came from, e.g. [S1] or [S2][S3].\n")
	prompt.WriteString("2. If the sources do not contain the answer, reply with exactly: " + DeclineSentence + "\n")
	prompt.WriteString("3. Never invent citations; only the tags listed in <sources> exist.\n")
	prompt.WriteString("4. Be concise and answer the question directly.\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *GroundedBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Answer:")
}
