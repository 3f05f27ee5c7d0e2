package llm

import (
	"strings"
	"sync/atomic"

	perr "adwarden/internal/platform/errors"
)

// ErrNoValidKeys is returned when every configured key is blank
var ErrNoValidKeys = perr.New(perr.ErrorCodeUnavailable, "no valid api keys")

// KeyPool rotates over the non-blank API keys. The cursor is read and written
// without a lock so concurrent callers may share an index
type KeyPool struct {
	keys []string
	cur  atomic.Int64
}

// NewKeyPool keeps the non-blank keys in order
func NewKeyPool(keys []string) *KeyPool {
	p := &KeyPool{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			p.keys = append(p.keys, k)
		}
	}
	return p
}

// Len is the number of usable keys
func (p *KeyPool) Len() int { return len(p.keys) }

// Next returns the key under the cursor and advances it
func (p *KeyPool) Next() (string, int, error) {
	key, i, err := p.Current()
	if err != nil {
		return "", 0, err
	}
	p.cur.Store(int64((i + 1) % len(p.keys)))
	return key, i, nil
}

// Current returns the key under the cursor without moving it
func (p *KeyPool) Current() (string, int, error) {
	n := len(p.keys)
	if n == 0 {
		return "", 0, ErrNoValidKeys
	}
	i := int(p.cur.Load() % int64(n))
	return p.keys[i], i, nil
}

// Advance moves the cursor one step
func (p *KeyPool) Advance() {
	if n := len(p.keys); n > 0 {
		p.cur.Store((p.cur.Load() + 1) % int64(n))
	}
}
