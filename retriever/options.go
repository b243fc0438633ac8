package retriever

import (
	"context"

	"github.com/w-h-a/lectern/embedder"
	"github.com/w-h-a/lectern/store"
)

const DefaultTopK = 5

type Option func(*Options)

type Options struct {
	Embedder     embedder.Embedder
	Store        store.Store
	Index        string
	TopK         int
	LocalRanking bool
	Context      context.Context
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

func WithIndex(name string) Option {
	return func(o *Options) {
		o.Index = name
	}
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

// WithLocalRanking ranks the whole fetched corpus client-side instead of
// relying on the store's native top-K query.
func WithLocalRanking() Option {
	return func(o *Options) {
		o.LocalRanking = true
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:    DefaultTopK,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
