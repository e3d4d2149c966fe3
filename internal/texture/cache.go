package texture

import (
	"context"
	"image"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
)

const (
	// DefaultMaxRetries is how many times a failed fetch of the same key
	// is retried before the fallback chain takes over.
	DefaultMaxRetries = 2

	// evictTargetFraction: eviction runs until usage falls to this share
	// of the budget, not merely below it, to avoid thrashing at the edge.
	evictTargetFraction = 0.8

	// DefaultLowResSuffix is the conventional low-variant suffix, inserted
	// before the extension: "mars.png" -> "mars_low.png".
	DefaultLowResSuffix = "_low"
)

// Options configures a Cache.
type Options struct {
	BudgetBytes        uint64
	MaxTextureSize     int
	MaxRetries         int
	FetchTimeout       time.Duration
	LowResSuffix       string
	FallbackKeys       map[Category]string
	DefaultFallbackKey string
}

func (o *Options) fill() {
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.LowResSuffix == "" {
		o.LowResSuffix = DefaultLowResSuffix
	}
}

// Stats is a snapshot of cache counters for monitoring.
type Stats struct {
	Hits         uint64
	Misses       uint64
	Fetches      uint64
	Retries      uint64
	Fallbacks    uint64
	Placeholders uint64
	Evictions    uint64
	UsageBytes   uint64
	BudgetBytes  uint64
	Entries      int
}

type entry struct {
	key           string
	res           atomic.Pointer[Resource]
	img           image.Image
	pending       *Resource // metadata for img when its upload failed mid-swap
	refs          int
	lastAccess    atomic.Int64 // unix nanos
	needsReupload bool
}

func (e *entry) touch(now time.Time) { e.lastAccess.Store(now.UnixNano()) }

// Handle is a caller's reference to a cached resource. Resource() always
// returns a usable value; it is never nil even while loads are in flight.
type Handle struct {
	c    *Cache
	e    *entry
	once sync.Once
}

// Resource returns the current snapshot for this key. Progressive upgrades
// change the snapshot between frames via atomic swap.
func (h *Handle) Resource() *Resource {
	h.e.touch(time.Now())
	return h.e.res.Load()
}

// Release drops this reference. Safe to call more than once.
func (h *Handle) Release() {
	h.once.Do(func() { h.c.release(h.e) })
}

// Cache owns every GPU texture handle in the engine. Loads are issued
// lazily and complete off the frame path; completed work is applied only
// when DrainCompletions runs at a frame boundary.
type Cache struct {
	mu      sync.Mutex
	device  gfx.Device
	fetcher Fetcher
	opts    Options

	entries     map[string]*entry
	flights     singleflight.Group
	completions chan func()
	done        chan struct{}
	disposed    bool

	usage uint64
	stats Stats
	log   *log.Logger
}

func NewCache(device gfx.Device, fetcher Fetcher, opts Options) *Cache {
	opts.fill()
	return &Cache{
		device:      device,
		fetcher:     fetcher,
		opts:        opts,
		entries:     make(map[string]*entry),
		completions: make(chan func(), 128),
		done:        make(chan struct{}),
		log:         log.New(log.Writer(), "texture: ", log.LstdFlags),
	}
}

// Load returns a handle for key immediately. A fresh key is bound to a
// synthetic placeholder and upgraded asynchronously; repeated loads for the
// same key share the entry and never issue duplicate fetch work.
func (c *Cache) Load(key string, cat Category) *Handle {
	if cat == CategoryDefault {
		cat = InferCategory(key)
	}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return c.detachedPlaceholder(key, cat)
	}
	if e, ok := c.entries[key]; ok {
		e.refs++
		e.touch(time.Now())
		c.stats.Hits++
		c.mu.Unlock()
		return &Handle{c: c, e: e}
	}

	e := &entry{key: key, refs: 1}
	e.touch(time.Now())
	img := synthesizePlaceholder(cat)
	res := &Resource{
		Key:         key,
		Category:    cat,
		Tier:        TierLow,
		SizeBytes:   imageSizeBytes(img),
		Placeholder: true,
	}
	if tex, err := c.device.Upload(img); err == nil {
		res.Texture = tex
	} else {
		e.needsReupload = true
	}
	e.img = img
	e.res.Store(res)
	c.entries[key] = e
	c.usage += res.SizeBytes
	c.stats.Misses++
	c.stats.Placeholders++
	c.mu.Unlock()

	go c.loadAsync(key, cat)
	return &Handle{c: c, e: e}
}

// detachedPlaceholder serves Load-after-Dispose without touching the map.
func (c *Cache) detachedPlaceholder(key string, cat Category) *Handle {
	e := &entry{key: key, refs: 1}
	img := synthesizePlaceholder(cat)
	e.res.Store(&Resource{
		Key:         key,
		Category:    cat,
		Tier:        TierLow,
		SizeBytes:   imageSizeBytes(img),
		Placeholder: true,
	})
	return &Handle{c: c, e: e}
}

func (c *Cache) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.refs > 0 {
		e.refs--
	}
}

// loadAsync runs off the frame path: fetch and decode happen here, but
// uploads and pointer swaps are posted as completions for the frame
// boundary to apply.
func (c *Cache) loadAsync(key string, cat Category) {
	c.flights.Do(key, func() (any, error) {
		// Low-resolution variant first so the caller has something real
		// to render while the full asset is still in flight.
		if lowKey := lowResKey(key, c.opts.LowResSuffix); lowKey != "" {
			if img, hash, err := c.fetchDecode(lowKey, 1); err == nil {
				c.post(func() { c.swap(key, img, hash, TierLow, false) })
			}
		}

		img, hash, err := c.fetchDecode(key, 1+c.opts.MaxRetries)
		if err == nil {
			c.post(func() { c.swap(key, img, hash, TierFull, false) })
			return nil, nil
		}
		c.log.Printf("load %s failed after retries: %v", key, err)

		// Fallback chain: category fallback, then generic fallback. The
		// synthetic placeholder bound at Load time is the last resort and
		// is already in place.
		c.mu.Lock()
		c.stats.Fallbacks++
		catKey := c.opts.FallbackKeys[cat]
		defKey := c.opts.DefaultFallbackKey
		c.mu.Unlock()

		for _, fk := range []string{catKey, defKey} {
			if fk == "" {
				continue
			}
			if img, hash, err := c.fetchDecode(fk, 1); err == nil {
				c.post(func() { c.swap(key, img, hash, TierLow, true) })
				return nil, nil
			}
		}
		return nil, nil
	})
}

// fetchDecode fetches with a wall-clock timeout per attempt and decodes.
// Shared fallback keys dedupe through the same flight group.
func (c *Cache) fetchDecode(key string, attempts int) (image.Image, uint64, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			c.mu.Lock()
			c.stats.Retries++
			c.mu.Unlock()
		}
		c.mu.Lock()
		c.stats.Fetches++
		timeout := c.opts.FetchTimeout
		maxEdge := c.opts.MaxTextureSize
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		data, err := c.fetcher.Fetch(ctx, key)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		img, hash, err := decode(data, maxEdge)
		if err != nil {
			lastErr = err
			continue
		}
		return img, hash, nil
	}
	return nil, 0, lastErr
}

func (c *Cache) post(fn func()) {
	select {
	case c.completions <- fn:
	case <-c.done:
	}
}

// DrainCompletions applies pending uploads, swaps, and re-uploads. The
// frame scheduler calls it exactly once per tick, before any draw, so
// consumers never observe a swap mid-frame.
func (c *Cache) DrainCompletions() {
	c.processReuploads()
	for {
		select {
		case fn := <-c.completions:
			fn()
		default:
			return
		}
	}
}

// swap replaces the entry's resource with an upgraded one and releases the
// superseded texture. Runs on the frame thread only.
func (c *Cache) swap(key string, img image.Image, hash uint64, tier ResolutionTier, fallback bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.disposed {
		return
	}
	old := e.res.Load()
	// Never downgrade: a late low-res completion must not replace a full
	// resource that already landed.
	if !old.Placeholder && old.Tier >= tier {
		return
	}

	res := &Resource{
		Key:         key,
		Category:    old.Category,
		Tier:        tier,
		SizeBytes:   imageSizeBytes(img),
		Hash:        hash,
		Placeholder: fallback,
	}

	tex, err := c.device.Upload(img)
	if err != nil {
		// Context lost mid-upgrade. Retain the pixels and the upgraded
		// metadata; the re-upload pass promotes both once the context is
		// back.
		e.img = img
		e.pending = res
		e.needsReupload = true
		return
	}

	res.Texture = tex
	e.res.Store(res)
	e.img = img
	e.pending = nil
	e.needsReupload = false
	c.usage += res.SizeBytes - old.SizeBytes
	if old.Texture != 0 {
		c.device.Release(old.Texture)
	}
	c.enforceBudgetLocked()
}

// EvictUnused removes least-recently-used zero-reference entries until
// usage is at or below targetBytes. Referenced entries and placeholder
// resources survive regardless of age.
func (c *Cache) EvictUnused(targetBytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked(targetBytes)
}

func (c *Cache) enforceBudgetLocked() {
	if c.opts.BudgetBytes == 0 || c.usage <= c.opts.BudgetBytes {
		return
	}
	c.evictLocked(uint64(float64(c.opts.BudgetBytes) * evictTargetFraction))
}

func (c *Cache) evictLocked(target uint64) {
	if c.usage <= target {
		return
	}
	type cand struct {
		e      *entry
		access int64
	}
	cands := make([]cand, 0, len(c.entries))
	for _, e := range c.entries {
		if e.refs > 0 {
			continue
		}
		if e.res.Load().Placeholder {
			continue
		}
		cands = append(cands, cand{e: e, access: e.lastAccess.Load()})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].access < cands[j].access })

	for _, cd := range cands {
		if c.usage <= target {
			break
		}
		res := cd.e.res.Load()
		if res.Texture != 0 {
			c.device.Release(res.Texture)
		}
		c.usage -= res.SizeBytes
		delete(c.entries, cd.e.key)
		c.stats.Evictions++
	}
}

// MarkAllForReupload flags every entry after a context restore. Device-side
// texture memory did not survive the loss even though cache metadata did.
func (c *Cache) MarkAllForReupload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.needsReupload = true
	}
}

func (c *Cache) processReuploads() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	for _, e := range c.entries {
		if !e.needsReupload || e.img == nil {
			continue
		}
		tex, err := c.device.Upload(e.img)
		if err != nil {
			continue // still lost, try again next drain
		}
		old := e.res.Load()
		res := *old
		if e.pending != nil {
			// An upgrade was fetched but never uploaded; promote its
			// metadata now instead of resurrecting the superseded state.
			res = *e.pending
			c.usage += res.SizeBytes - old.SizeBytes
			e.pending = nil
		}
		res.Texture = tex
		e.res.Store(&res)
		e.needsReupload = false
	}
	c.enforceBudgetLocked()
}

// SetMaxTextureSize adjusts the decode clamp for subsequent loads. The
// quality controller lowers it when the texture tier drops; already-loaded
// resources are not re-decoded.
func (c *Cache) SetMaxTextureSize(px int) {
	c.mu.Lock()
	c.opts.MaxTextureSize = px
	c.mu.Unlock()
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.UsageBytes = c.usage
	s.BudgetBytes = c.opts.BudgetBytes
	s.Entries = len(c.entries)
	return s
}

// NeedsReupload reports whether any entry awaits a re-upload. Used by
// tests and the monitor.
func (c *Cache) NeedsReupload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.needsReupload {
			return true
		}
	}
	return false
}

// Dispose abandons pending loads and releases every texture regardless of
// in-flight state. Load calls after Dispose return detached placeholders.
func (c *Cache) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	close(c.done)
	for _, e := range c.entries {
		if res := e.res.Load(); res.Texture != 0 {
			c.device.Release(res.Texture)
		}
	}
	c.entries = make(map[string]*entry)
	c.usage = 0
	c.mu.Unlock()
}

// lowResKey inserts the suffix before the extension, or returns "" when
// the key has no extension to anchor on.
func lowResKey(key, suffix string) string {
	dot := strings.LastIndex(key, ".")
	if dot <= 0 {
		return ""
	}
	return key[:dot] + suffix + key[dot:]
}
