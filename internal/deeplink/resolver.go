// Package deeplink resolves inbound URLs (custom-scheme and universal links)
// to registered routes. It wraps the registry with the operational concerns
// a link entry point needs: scheme/host allow-lists, a resolution cache, and
// rate limiting against link storms.
package deeplink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/navlink/internal/cache"
	"github.com/vyrodovalexey/navlink/internal/observability"
	"github.com/vyrodovalexey/navlink/internal/pattern"
	"github.com/vyrodovalexey/navlink/internal/registry"
	"github.com/vyrodovalexey/navlink/internal/util"
)

// tracerName is the OpenTelemetry tracer name for resolution spans.
const tracerName = "navlink/deeplink"

// Resolution is the outcome of resolving a URL to a route.
type Resolution struct {
	Definition registry.Definition
	Params     pattern.Params

	// Path is the normalized path the registry matched.
	Path string

	// Cached reports whether the resolution was served from the cache.
	Cached bool
}

// Resolver resolves deep-link URLs against a route registry.
type Resolver struct {
	registry *registry.Registry
	cache    cache.Cache
	cacheTTL time.Duration
	limiter  *rate.Limiter
	schemes  map[string]bool
	hosts    map[string]bool
	logger   observability.Logger
}

// Option is a functional option for configuring the resolver.
type Option func(*Resolver)

// WithCache sets the resolution cache and entry TTL.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithRateLimit bounds resolutions with a token bucket.
func WithRateLimit(rps, burst int) Option {
	return func(r *Resolver) {
		r.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithSchemes restricts accepted URL schemes. Empty means any scheme.
func WithSchemes(schemes []string) Option {
	return func(r *Resolver) {
		r.schemes = toSet(schemes)
	}
}

// WithHosts restricts accepted universal-link hosts. Empty means any host.
func WithHosts(hosts []string) Option {
	return func(r *Resolver) {
		r.hosts = toSet(hosts)
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger observability.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver over the given registry.
func New(reg *registry.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: reg,
		logger:   observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves a raw URL to a route. A registry miss returns
// RouteNotFoundError; scheme/host rejections and rate limiting return their
// own named errors so callers can branch.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	ctx = observability.ContextWithResolutionID(ctx, observability.NewResolutionID())
	logger := r.logger.WithContext(ctx)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "deeplink.Resolve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("deeplink.url", rawURL)),
	)
	defer span.End()

	start := time.Now()
	outcome := observability.OutcomeNoMatch
	defer func() {
		m := observability.GetMetrics()
		m.ResolutionsTotal.WithLabelValues(outcome).Inc()
		m.ResolutionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		span.SetAttributes(attribute.String("deeplink.outcome", outcome))
	}()

	if r.limiter != nil && !r.limiter.Allow() {
		outcome = observability.OutcomeRateLimited
		observability.GetMetrics().RateLimitedTotal.Inc()
		logger.Warn("deep link rejected by rate limiter",
			observability.String("url", rawURL),
		)
		return nil, util.ErrRateLimited
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		outcome = observability.OutcomeDenied
		return nil, fmt.Errorf("malformed deep link %q: %w", rawURL, err)
	}

	path, err := r.normalize(parsed)
	if err != nil {
		outcome = observability.OutcomeDenied
		logger.Debug("deep link rejected",
			observability.String("url", rawURL),
			observability.Error(err),
		)
		return nil, err
	}

	cacheKey := path
	if parsed.RawQuery != "" {
		cacheKey = path + "?" + parsed.RawQuery
	}

	if res, ok := r.fromCache(ctx, cacheKey); ok {
		outcome = observability.OutcomeMatched
		return res, nil
	}

	m, ok := r.registry.Resolve(path)
	if !ok {
		logger.Debug("no route for deep link",
			observability.String("url", rawURL),
			observability.String("path", path),
		)
		return nil, util.NewRouteNotFoundError(path)
	}

	params := mergeQueryParams(m.Params, parsed.Query())

	res := &Resolution{
		Definition: m.Definition,
		Params:     params,
		Path:       path,
	}

	r.store(ctx, cacheKey, res)

	outcome = observability.OutcomeMatched
	logger.Debug("deep link resolved",
		observability.String("url", rawURL),
		observability.String("route", m.Definition.Name),
		observability.String("pattern", m.Definition.Pattern),
	)
	return res, nil
}

// normalize applies the allow-lists and returns the path the registry
// should match. For custom (non-web) schemes the URL host is the first path
// segment: app://profile/42 resolves the path /profile/42.
func (r *Resolver) normalize(u *url.URL) (string, error) {
	scheme := strings.ToLower(u.Scheme)
	if len(r.schemes) > 0 && !r.schemes[scheme] {
		return "", util.ErrSchemeDenied
	}

	if scheme == "http" || scheme == "https" {
		if len(r.hosts) > 0 && !r.hosts[strings.ToLower(u.Host)] {
			return "", util.ErrHostDenied
		}
		return ensureLeadingSlash(u.Path), nil
	}

	path := u.Path
	if u.Host != "" {
		path = "/" + u.Host + path
	}
	return ensureLeadingSlash(path), nil
}

// cachedResolution is the JSON shape stored in the resolution cache. Only
// raw string values are stored; scalar types are re-inferred on load. Values
// are slices so repeated query parameters survive the round trip.
type cachedResolution struct {
	Pattern string              `json:"pattern"`
	Path    string              `json:"path"`
	Params  map[string][]string `json:"params,omitempty"`
}

func (r *Resolver) fromCache(ctx context.Context, key string) (*Resolution, bool) {
	if r.cache == nil {
		return nil, false
	}

	data, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var rec cachedResolution
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}

	// The definition may have been unregistered or replaced since the entry
	// was written; a vanished pattern invalidates the entry.
	def, ok := r.registry.Definition(rec.Pattern)
	if !ok {
		_ = r.cache.Delete(ctx, key)
		return nil, false
	}

	params := make(pattern.Params, len(rec.Params))
	for name, values := range rec.Params {
		switch len(values) {
		case 0:
		case 1:
			params[name] = pattern.Infer(values[0])
		default:
			params[name] = pattern.SliceValue(values)
		}
	}

	return &Resolution{
		Definition: def,
		Params:     params,
		Path:       rec.Path,
		Cached:     true,
	}, true
}

func (r *Resolver) store(ctx context.Context, key string, res *Resolution) {
	if r.cache == nil {
		return
	}

	rec := cachedResolution{
		Pattern: res.Definition.Pattern,
		Path:    res.Path,
		Params:  make(map[string][]string, len(res.Params)),
	}
	for name, v := range res.Params {
		if v.Kind() == pattern.KindStringSlice {
			rec.Params[name] = v.Strings()
			continue
		}
		rec.Params[name] = []string{v.String()}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.cacheTTL); err != nil {
		r.logger.Warn("failed to cache resolution", observability.Error(err))
	}
}

// mergeQueryParams adds query string values to the extracted parameters.
// Path parameters always win over query parameters of the same name.
func mergeQueryParams(params pattern.Params, query url.Values) pattern.Params {
	if len(query) == 0 {
		return params
	}

	merged := params.Clone()
	for name, values := range query {
		if merged.Has(name) || len(values) == 0 {
			continue
		}
		if len(values) > 1 {
			merged[name] = pattern.SliceValue(values)
			continue
		}
		merged[name] = pattern.Infer(values[0])
	}
	return merged
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
