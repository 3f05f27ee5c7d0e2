// Package forward expands forwarded-message bundles into the flat list of texts
// they contain, following nested forwards up to a fixed depth
package forward

import (
	"context"

	"adwarden/internal/core/markup"
	"adwarden/internal/platform/logger"
)

// DefaultMaxDepth bounds nested forward expansion
const DefaultMaxDepth = 3

// Fetcher loads the messages of one forward bundle
type Fetcher interface {
	FetchBundle(ctx context.Context, id string) ([]Message, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, id string) ([]Message, error)

// FetchBundle calls f
func (f FetcherFunc) FetchBundle(ctx context.Context, id string) ([]Message, error) { return f(ctx, id) }

// Result of a resolution
type Result struct {
	Items         []string `json:"items"`
	DepthExceeded bool     `json:"depthExceeded"`
	// Nested counts bundle leaves that referenced yet another forward
	Nested int `json:"nested"`
}

// Options tune a Resolver
type Options struct {
	MaxDepth int
	// OnNested fires once per leaf that itself references a forward, before it is expanded
	OnNested func(ctx context.Context, leaf string)
	Log      *logger.Logger
}

// Resolver expands forwards through a Fetcher
type Resolver struct {
	fetch    Fetcher
	maxDepth int
	onNested func(context.Context, string)
	log      *logger.Logger
}

// New builds a Resolver; nil Fetcher makes every bundle unresolvable
func New(f Fetcher, opt Options) *Resolver {
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	if opt.Log == nil {
		opt.Log = logger.Named("forward")
	}
	return &Resolver{fetch: f, maxDepth: opt.MaxDepth, onNested: opt.OnNested, log: opt.Log}
}

// UnresolvedPlaceholder is emitted when a bundle came back empty or unparseable
func UnresolvedPlaceholder(id string) string {
	return "[检测到转发消息但无法解析内容，建议人工审核 - 转发ID: " + id + "]"
}

// FailedPlaceholder is emitted when fetching a bundle errored
func FailedPlaceholder(id string) string {
	return "[检测到转发消息但获取失败，建议人工审核 - 转发ID: " + id + "]"
}

// Resolve expands content at the given depth. Content without a forward
// reference comes back as the single item. At maxDepth the content is returned
// literally with DepthExceeded set
func (r *Resolver) Resolve(ctx context.Context, content string, depth int) Result {
	if depth >= r.maxDepth {
		r.log.Warn().Int("depth", depth).Msg("forward depth limit reached")
		return Result{Items: []string{content}, DepthExceeded: true}
	}
	if !markup.IsForwardReference(content) {
		return Result{Items: []string{content}}
	}
	ids := markup.ExtractForwardIDs(content)
	if len(ids) == 0 {
		return Result{Items: []string{content}}
	}

	var res Result
	for _, id := range ids {
		msgs, err := r.bundle(ctx, id)
		if err != nil {
			r.log.Warn().Err(err).Str("forward_id", id).Msg("fetch forward bundle failed")
			res.Items = append(res.Items, FailedPlaceholder(id))
			continue
		}
		if len(msgs) == 0 {
			res.Items = append(res.Items, UnresolvedPlaceholder(id))
			continue
		}

		for _, m := range msgs {
			text := leaf(m)
			if text == "" {
				continue
			}
			if !markup.IsForwardReference(text) {
				res.Items = append(res.Items, text)
				continue
			}

			res.Nested++
			if r.onNested != nil {
				r.onNested(ctx, text)
			}
			sub := r.Resolve(ctx, text, depth+1)
			res.Items = append(res.Items, sub.Items...)
			res.Nested += sub.Nested
			if sub.DepthExceeded {
				res.DepthExceeded = true
			}
		}
	}
	return res
}

func (r *Resolver) bundle(ctx context.Context, id string) ([]Message, error) {
	if r.fetch == nil {
		return nil, nil
	}
	return r.fetch.FetchBundle(ctx, id)
}
