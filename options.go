package lectern

import (
	"context"

	"github.com/w-h-a/lectern/embedder"
	"github.com/w-h-a/lectern/retriever"
	"github.com/w-h-a/lectern/store"
)

const DefaultIndex = "custom-rag-llm"

type Option func(*Options)

type Options struct {
	Index        string
	Dimension    int
	Metric       string
	TopK         int
	LocalRanking bool
	Context      context.Context
}

func WithIndex(name string) Option {
	return func(o *Options) {
		o.Index = name
	}
}

func WithDimension(dimension int) Option {
	return func(o *Options) {
		o.Dimension = dimension
	}
}

func WithMetric(metric string) Option {
	return func(o *Options) {
		o.Metric = metric
	}
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func WithLocalRanking() Option {
	return func(o *Options) {
		o.LocalRanking = true
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Index:     DefaultIndex,
		Dimension: embedder.DefaultDimension,
		Metric:    store.MetricCosine,
		TopK:      retriever.DefaultTopK,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
