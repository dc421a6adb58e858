package response

import (
	"context"
	"fmt"
	"strings"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/llm"
	"ai-docqa-be/pkg/rag/prompt"
)

// Generator turns retrieved chunks into a grounded answer. When retrieval
// comes back empty or every hit scores below the similarity threshold, it
// declines without calling the model at all.
type Generator struct {
	llmProvider llm.LLMProvider
	threshold   float64
	log         logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, threshold float64, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		threshold:   threshold,
		log:         log,
	}
}

// Generate produces the answer for a query from its retrieved sources.
// The returned Answer carries one citation per injected source, in prompt
// order, regardless of which tags the model ended up using.
func (g *Generator) Generate(ctx context.Context, query string, sources []*contract.ScoredChunk) (*entity.Answer, error) {
	if len(sources) == 0 || sources[0].Similarity < g.threshold {
		g.log.Info("generator", "declining: no usable context", map[string]interface{}{
			"query":   query,
			"sources": len(sources),
		})
		return &entity.Answer{
			Text:     prompt.DeclineSentence,
			Query:    query,
			Grounded: false,
		}, nil
	}

	promptText := prompt.NewGroundedBuilder(query, sources).Build()

	text, err := g.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGeneration, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: model returned an empty answer", entity.ErrGeneration)
	}

	answer := &entity.Answer{
		Text:      text,
		Query:     query,
		Grounded:  !isDecline(text),
		Citations: buildCitations(sources),
	}
	if !answer.Grounded {
		answer.Citations = nil
	}

	g.log.Info("generator", "answer generated", map[string]interface{}{
		"query":     query,
		"grounded":  answer.Grounded,
		"citations": len(answer.Citations),
	})
	return answer, nil
}

func isDecline(text string) bool {
	return strings.Contains(text, prompt.DeclineSentence)
}

func buildCitations(sources []*contract.ScoredChunk) []entity.Citation {
	citations := make([]entity.Citation, len(sources))
	for i, source := range sources {
		emb := source.Embedding
		citations[i] = entity.Citation{
			Tag:        prompt.SourceTag(i),
			ChunkId:    emb.Id,
			DocumentId: emb.DocumentId,
			PageStart:  emb.PageStart,
			PageEnd:    emb.PageEnd,
			SeqIndex:   emb.SeqIndex,
			Similarity: source.Similarity,
		}
	}
	return citations
}
