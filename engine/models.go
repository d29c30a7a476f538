package engine

import (
	"errors"
	"fmt"

	"keyword-trends/embedding"
	"keyword-trends/sentiment"
)

// ErrModelUnavailable marks a failure to load a shared model. It is fatal
// for the process and surfaces once, at startup.
var ErrModelUnavailable = errors.New("model unavailable")

type ModelOptions struct {
	// LexiconPath replaces the embedded sentiment lexicon when set.
	LexiconPath        string
	EmbeddingDimension int
	EmbeddingCacheSize int
}

// Models are the read-only resources shared by every worker of a process.
type Models struct {
	Sentiment *sentiment.Analyzer
	Embedder  embedding.Embedder
}

// LoadModels loads the lexicon and builds the embedder once. The result is
// handed to New and shared across runs.
func LoadModels(opts ModelOptions) (*Models, error) {
	var (
		analyzer *sentiment.Analyzer
		err      error
	)
	if opts.LexiconPath != "" {
		analyzer, err = sentiment.LoadFile(opts.LexiconPath)
	} else {
		analyzer, err = sentiment.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment lexicon: %w", ErrModelUnavailable, err)
	}

	dim := opts.EmbeddingDimension
	if dim == 0 {
		dim = embedding.DefaultDimension
	}
	hashed, err := embedding.NewHashEmbedder(dim)
	if err != nil {
		return nil, fmt.Errorf("%w: embedder: %w", ErrModelUnavailable, err)
	}
	cached, err := embedding.NewCached(hashed, opts.EmbeddingCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding cache: %w", ErrModelUnavailable, err)
	}

	return &Models{Sentiment: analyzer, Embedder: cached}, nil
}

// Close releases cached model state.
func (m *Models) Close() error {
	if c, ok := m.Embedder.(*embedding.Cached); ok {
		c.Purge()
	}
	return nil
}
