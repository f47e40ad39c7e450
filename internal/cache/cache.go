package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dgallion1/clausewise/internal/analysis"
)

const keyPrefix = "clausewise:v1"

// ResultCache keeps finished reports in memory, keyed by document content
// and analysis options.
type ResultCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewResultCache creates a cache; a non-positive ttl disables caching.
func NewResultCache(ttl time.Duration) *ResultCache {
	cleanup := ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &ResultCache{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// ContentHash is the hex SHA-256 of the extracted document text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Key combines the content hash with the options that change the result.
func Key(hash string, opts analysis.Options) string {
	return fmt.Sprintf("%s:%s:t%s:n%s:c%s", keyPrefix, hash,
		flag(opts.Timeline), flag(opts.Tone), flag(opts.ContinueOnError))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (c *ResultCache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a copy of the cached report.
func (c *ResultCache) Get(key string) (*analysis.Report, bool) {
	if !c.Enabled() {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	rep := *v.(*analysis.Report)
	return &rep, true
}

func (c *ResultCache) Set(key string, rep *analysis.Report) {
	if !c.Enabled() || rep == nil {
		return
	}
	stored := *rep
	c.cache.Set(key, &stored, c.ttl)
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}

func (c *ResultCache) Clear() {
	if c != nil {
		c.cache.Flush()
	}
}
