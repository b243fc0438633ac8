package store

import "context"

type Option func(*Options)

type Options struct {
	Location string
	ApiKey   string
	Cloud    string
	Region   string
	ListCap  int
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithCloud(cloud string) Option {
	return func(o *Options) {
		o.Cloud = cloud
	}
}

func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

func WithListCap(cap int) Option {
	return func(o *Options) {
		o.ListCap = cap
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Cloud:   "aws",
		Region:  "us-east-1",
		ListCap: DefaultListCap,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
