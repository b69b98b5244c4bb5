package engine

import "context"

type contextKey int

const optionsKey contextKey = 0

// NewContext returns a copy of ctx carrying opts, retrievable with FromContext.
func NewContext(ctx context.Context, opts *Options) context.Context {
	return context.WithValue(ctx, optionsKey, opts)
}

// FromContext extracts the Options previously attached with NewContext.
func FromContext(ctx context.Context) (*Options, bool) {
	opts, ok := ctx.Value(optionsKey).(*Options)
	return opts, ok
}
