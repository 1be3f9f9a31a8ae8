package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crudkit/pkg/schema"
)

// Loader fetches config documents from files, an fs.FS, or HTTP endpoints,
// parses them through the schema engine, and caches the parsed result per
// source. Failed loads are never cached, so a broken source retries on the
// next call.
type Loader struct {
	basePath  string
	fsys      fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	parseOpts []schema.Option
	logger    zerolog.Logger

	mu    sync.RWMutex
	cache map[string]any

	watcher *watcher
}

// Option adjusts loader construction.
type Option func(*Loader)

// WithBasePath resolves relative file sources against dir.
func WithBasePath(dir string) Option {
	return func(l *Loader) { l.basePath = dir }
}

// WithFS serves file sources from the given filesystem instead of the OS.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) { l.fsys = fsys }
}

// WithHTTPClient enables http(s) sources through the supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.http = client
		l.allowHTTP = client != nil
	}
}

// WithHTTPFallback enables http(s) sources with a default client.
func WithHTTPFallback() Option {
	return func(l *Loader) { l.allowHTTP = true }
}

// WithRequestTimeout bounds each HTTP fetch.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(l *Loader) { l.timeout = timeout }
}

// WithLogger attaches a logger; the loader logs cache and fetch activity at
// debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithParseOptions forwards options to the schema parser for every document.
func WithParseOptions(opts ...schema.Option) Option {
	return func(l *Loader) { l.parseOpts = opts }
}

// WithWatch invalidates cached local files when they change on disk. Only
// OS-file sources are watched; fs.FS and HTTP sources are not.
func WithWatch() Option {
	return func(l *Loader) { l.watcher = newWatcher() }
}

// New constructs a Loader.
func New(opts ...Option) (*Loader, error) {
	loader := &Loader{
		cache:  make(map[string]any),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(loader)
	}
	if loader.allowHTTP && loader.http == nil {
		loader.http = &http.Client{Timeout: loader.timeout}
	}
	if loader.watcher != nil {
		if err := loader.watcher.start(loader); err != nil {
			return nil, fmt.Errorf("loader: start watcher: %w", err)
		}
	}
	return loader, nil
}

// Load fetches, parses, and caches one source. The returned value is a
// schema.TableConfig or schema.FormConfig depending on the document shape.
func (l *Loader) Load(ctx context.Context, source string) (any, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("loader: source is required")
	}

	l.mu.RLock()
	cached, ok := l.cache[source]
	l.mu.RUnlock()
	if ok {
		l.logger.Debug().Str("source", source).Msg("config cache hit")
		return cached, nil
	}

	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", source, err)
	}

	raw, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", source, err)
	}

	cfg, err := schema.ParseConfig(raw, l.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("loader: normalize %s: %w", source, err)
	}

	l.mu.Lock()
	l.cache[source] = cfg
	l.mu.Unlock()
	l.logger.Debug().Str("source", source).Msg("config loaded")

	if l.watcher != nil && isLocalFile(source, l.fsys) {
		l.watcher.track(l.resolvePath(source), source)
	}
	return cfg, nil
}

// LoadTable loads a source that must parse as a table config.
func (l *Loader) LoadTable(ctx context.Context, source string) (schema.TableConfig, error) {
	cfg, err := l.Load(ctx, source)
	if err != nil {
		return schema.TableConfig{}, err
	}
	table, ok := cfg.(schema.TableConfig)
	if !ok {
		return schema.TableConfig{}, fmt.Errorf("loader: %s is not a table config (got %T)", source, cfg)
	}
	return table, nil
}

// LoadForm loads a source that must parse as a form config.
func (l *Loader) LoadForm(ctx context.Context, source string) (schema.FormConfig, error) {
	cfg, err := l.Load(ctx, source)
	if err != nil {
		return schema.FormConfig{}, err
	}
	form, ok := cfg.(schema.FormConfig)
	if !ok {
		return schema.FormConfig{}, fmt.Errorf("loader: %s is not a form config (got %T)", source, cfg)
	}
	return form, nil
}

// LoadMany loads sources in order, stopping at the first failure.
func (l *Loader) LoadMany(ctx context.Context, sources ...string) ([]any, error) {
	out := make([]any, 0, len(sources))
	for _, source := range sources {
		cfg, err := l.Load(ctx, source)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Invalidate drops one source from the cache.
func (l *Loader) Invalidate(source string) {
	l.mu.Lock()
	delete(l.cache, source)
	l.mu.Unlock()
	l.logger.Debug().Str("source", source).Msg("config invalidated")
}

// ClearCache drops every cached config.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	l.cache = make(map[string]any)
	l.mu.Unlock()
}

// Close stops the file watcher, if one is running.
func (l *Loader) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.close()
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if isHTTP(source) {
		if !l.allowHTTP {
			return nil, errors.New("http support disabled")
		}
		return l.fetchHTTP(ctx, source)
	}
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, source)
	}
	return l.fetchFile(ctx, source)
}

func (l *Loader) fetchFile(ctx context.Context, source string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return os.ReadFile(l.resolvePath(source))
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if l.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (l *Loader) resolvePath(source string) string {
	if l.basePath == "" || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(l.basePath, source)
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isLocalFile(source string, fsys fs.FS) bool {
	return !isHTTP(source) && fsys == nil
}

// parseDocument tries JSON first, then YAML.
func parseDocument(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("document is empty")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	return nil, errors.New("invalid JSON or YAML")
}
