package embedding

import (
	"context"
	"fmt"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"navigator/internal/domain"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	maxBatch             = 100
)

// OpenAIEmbedder talks to any OpenAI-compatible embeddings endpoint
// (OpenAI, Ollama, DeepSeek, Jina). The client is created on first use
// and reused for the lifetime of the process.
type OpenAIEmbedder struct {
	apiKeyEnv string
	model     string
	baseURL   string
	dimension int
	batchSize int
	keyless   bool

	once    sync.Once
	client  *openai.Client
	initErr error
}

func NewOpenAIEmbedder(apiKeyEnv, model, baseURL string, dimension, batchSize int) *OpenAIEmbedder {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if dimension <= 0 {
		dimension = openAIDimension(model)
	}
	if batchSize <= 0 || batchSize > maxBatch {
		batchSize = maxBatch
	}
	return &OpenAIEmbedder{
		apiKeyEnv: apiKeyEnv,
		model:     model,
		baseURL:   baseURL,
		dimension: dimension,
		batchSize: batchSize,
	}
}

// NewOllamaEmbedder uses a local Ollama server; no API key is needed.
func NewOllamaEmbedder(model, baseURL string, dimension, batchSize int) *OpenAIEmbedder {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if dimension <= 0 {
		switch model {
		case "mxbai-embed-large":
			dimension = 1024
		case "all-minilm":
			dimension = 384
		default:
			dimension = 768
		}
	}
	e := NewOpenAIEmbedder("", model, baseURL, dimension, batchSize)
	e.keyless = true
	return e
}

func openAIDimension(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	case "jina-embeddings-v3":
		return 1024
	default:
		return 1536
	}
}

// Init creates the API client. It runs once; later calls return the
// first result.
func (e *OpenAIEmbedder) Init() error {
	e.once.Do(func() {
		apiKey := "ollama"
		if !e.keyless {
			apiKey = os.Getenv(e.apiKeyEnv)
			if apiKey == "" {
				e.initErr = fmt.Errorf("%w: API key not found in environment variable %s", domain.ErrModelUnavailable, e.apiKeyEnv)
				return
			}
		}
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = e.baseURL
		e.client = openai.NewClientWithConfig(cfg)
	})
	return e.initErr
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.Init(); err != nil {
		return nil, err
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}

	return all, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding response index %d out of range", data.Index)
		}
		if len(data.Embedding) != e.dimension {
			return nil, fmt.Errorf("model %s: %w: expected %d, got %d", e.model, domain.ErrDimensionMismatch, e.dimension, len(data.Embedding))
		}
		vectors[data.Index] = data.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}

	return vectors, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}
