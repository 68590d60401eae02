package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	oasoverlay "github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/oaserrors"
	"github.com/erraggy/oasoverlay/overlay"
	"github.com/erraggy/oasoverlay/parser"
)

// documentInput represents the three ways a document can be provided to a
// tool. Exactly one of File, URL, or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// checkExactlyOne returns a ConfigError unless exactly one input source is set.
func (s documentInput) checkExactlyOne(option string) error {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return &oaserrors.ConfigError{
			Option:  option,
			Message: fmt.Sprintf("exactly one of file, url, or content must be provided (got %d)", count),
		}
	}
	return nil
}

// cacheEntry holds a cached parse result with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *parser.ParseResult
	touchedAt time.Time
	expiresAt time.Time
}

// docCacheStore is a session-scoped cache for parsed specification
// documents. File inputs are keyed by (absolutePath, modTime) so edits
// invalidate naturally; content inputs by SHA-256 hash; URL inputs by URL.
// A background sweeper removes expired entries.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *parser.ParseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	// Touch entry for LRU.
	e.touchedAt = time.Now()
	return e.result
}

// put stores a result, evicting the least recently used entry if at capacity.
func (c *docCacheStore) put(key string, result *parser.ParseResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, touchedAt: now, expiresAt: now.Add(cfg.CacheTTL)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.touchedAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.touchedAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Safe to call multiple times; only the first call spawns
// a sweeper. It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey creates a cache key for the given input, or "" when the input
// should not be cached.
func cacheKey(s documentInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		return "url:" + s.URL
	default:
		return ""
	}
}

// newParser returns a parser configured with the server's limits and, for
// URL inputs, an HTTP client that refuses private and loopback addresses.
func newParser(forURL bool) *parser.Parser {
	p := parser.New()
	p.MaxFileSize = cfg.MaxInputBytes
	if forURL {
		p.HTTPClient = newSafeHTTPClient(cfg.FetchTimeout)
	}
	return p
}

// resolveDocument parses the specification document from whichever input was
// provided, consulting the cache first.
func resolveDocument(s documentInput) (*parser.ParseResult, error) {
	if err := s.checkExactlyOne("spec"); err != nil {
		return nil, err
	}

	if int64(len(s.Content)) > cfg.MaxInputBytes {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "input_bytes",
			Limit:        cfg.MaxInputBytes,
			Actual:       int64(len(s.Content)),
			Message:      "inline content too large; use file input or raise OASOVERLAY_MCP_MAX_INPUT_BYTES",
		}
	}

	var key string
	if cfg.CacheEnabled {
		key = cacheKey(s)
		if cached := docCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var result *parser.ParseResult
	var err error
	switch {
	case s.File != "":
		result, err = newParser(false).Parse(s.File)
	case s.URL != "":
		result, err = newParser(true).Parse(s.URL)
	default:
		result, err = newParser(false).ParseBytes([]byte(s.Content))
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.put(key, result)
	}
	return result, nil
}

// resolveOverlay parses an overlay document from the input. Overlays are
// small and change frequently during editing, so they are never cached.
func resolveOverlay(ctx context.Context, s documentInput) (*overlay.Overlay, error) {
	if err := s.checkExactlyOne("overlay"); err != nil {
		return nil, err
	}

	switch {
	case s.File != "":
		return overlay.ParseOverlayFile(s.File)
	case s.URL != "":
		data, err := fetchOverlay(ctx, s.URL)
		if err != nil {
			return nil, err
		}
		return overlay.ParseOverlay(data)
	default:
		if int64(len(s.Content)) > cfg.MaxInputBytes {
			return nil, &oaserrors.ResourceLimitError{
				ResourceType: "input_bytes",
				Limit:        cfg.MaxInputBytes,
				Actual:       int64(len(s.Content)),
			}
		}
		return overlay.ParseOverlay([]byte(s.Content))
	}
}

// fetchOverlay retrieves an overlay document over HTTP, capped at the
// configured input size.
func fetchOverlay(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay request: %w", err)
	}
	req.Header.Set("User-Agent", oasoverlay.UserAgent())

	resp, err := newSafeHTTPClient(cfg.FetchTimeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overlay: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch overlay: server returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay response: %w", err)
	}
	if int64(len(data)) > cfg.MaxInputBytes {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "fetch_bytes",
			Limit:        cfg.MaxInputBytes,
		}
	}
	return data, nil
}
