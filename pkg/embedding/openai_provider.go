package embedding

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements EmbeddingProvider via the OpenAI embeddings API
type OpenAIProvider struct {
	Model  string
	Client *goopenai.Client
}

func NewOpenAIProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = string(goopenai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		Model:  model,
		Client: goopenai.NewClient(apiKey),
	}
}

func (p *OpenAIProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// OpenAI embeddings are symmetric, taskType is ignored

	rsp, err := p.Client.CreateEmbeddings(context.Background(), goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: goopenai.EmbeddingModel(p.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding error: %w", err)
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding returned from openai")
	}

	values := normalizeVector(rsp.Data[0].Embedding)

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: values,
		},
	}, nil
}
