package chunker

import "context"

type Option func(*Options)

// ChunkSize and Overlap are reserved extension points for sub-slide
// windowing. The active policy is one chunk per non-empty slide; neither
// parameter changes behavior yet.
type Options struct {
	ChunkSize int
	Overlap   int
	Context   context.Context
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.Overlap = overlap
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
