package llm

import (
	"context"
	"strconv"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"adwarden/internal/core/normalize"
	"adwarden/internal/core/prompt"
	"adwarden/internal/core/share"
	"adwarden/internal/platform/logger"
)

// Classifier decides whether text is an advertisement
type Classifier struct {
	opt     Options
	prompts prompt.Builder
	c       *completer
	cache   *expirable.LRU[string, bool]
	log     *logger.Logger
}

// New builds a Classifier. Keys are validated lazily; an empty pool fails
// each call with ErrNoValidKeys
func New(opt Options) *Classifier {
	opt = opt.withDefaults()
	c := newCompleter("text", opt.Endpoint, opt.Keys, opt.Timeout, opt.RetryCount, opt.RetryDelay, rotateEachAttempt, opt.Log)
	if opt.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opt.RatePerSec), opt.Burst)
	}
	cl := &Classifier{
		opt:     opt,
		prompts: prompt.Builder{CustomPrompt: opt.CustomPrompt, TokenOptimization: opt.TokenOptimization},
		c:       c,
		log:     opt.Log,
	}
	if opt.CacheSize > 0 {
		cl.cache = expirable.NewLRU[string, bool](opt.CacheSize, nil, opt.CacheTTL)
	}
	return cl
}

// Classify asks the model whether text is an ad at the given sensitivity
func (cl *Classifier) Classify(ctx context.Context, text string, sensitivity int) (bool, error) {
	return cl.classify(ctx, text, sensitivity, false)
}

// ClassifyQZone classifies a space/album share card at maximal sensitivity
// with the share paragraph in the system prompt
func (cl *Classifier) ClassifyQZone(ctx context.Context, content string) (bool, error) {
	return cl.classify(ctx, share.ExtractQZone(content), prompt.QZoneSensitivity, true)
}

func (cl *Classifier) classify(ctx context.Context, text string, sensitivity int, qzone bool) (bool, error) {
	key := cacheKey(text, sensitivity, qzone)
	if cl.cache != nil {
		if v, ok := cl.cache.Get(key); ok {
			verdictCache.WithLabelValues("hit").Inc()
			return v, nil
		}
		verdictCache.WithLabelValues("miss").Inc()
	}

	body := chatRequest{
		Model: cl.opt.Model,
		Messages: []chatMessage{
			{Role: "system", Content: cl.prompts.System(sensitivity, qzone)},
			{Role: "user", Content: cl.prompts.User(text, sensitivity)},
		},
		MaxTokens:   prompt.MaxTokens(cl.opt.TokenOptimization),
		Temperature: prompt.Temperature(sensitivity),
	}
	reply, err := cl.c.complete(ctx, body)
	if err != nil {
		return false, err
	}

	isAd := prompt.ParseAnswer(reply, sensitivity)
	cl.log.Debug().
		Int("sensitivity", sensitivity).
		Bool("qzone", qzone).
		Str("reply", reply).
		Bool("is_ad", isAd).
		Msg("model verdict")
	if cl.cache != nil {
		cl.cache.Add(key, isAd)
	}
	return isAd, nil
}

func cacheKey(text string, sensitivity int, qzone bool) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(sensitivity))
	if qzone {
		sb.WriteString("|q|")
	} else {
		sb.WriteString("|t|")
	}
	sb.WriteString(normalize.Text(text))
	return sb.String()
}
