package app

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"

	domainerrors "bem/internal/core/errors"
	"bem/internal/engine/bem"
	"bem/internal/shared/cache"
	"bem/internal/shared/observability"
)

// Registry serves resolvers for the active class mapping. The mapping can be
// swapped at any time; each call works against a single snapshot.
type Registry struct {
	cacheSize int
	current   atomic.Pointer[snapshot]
}

type snapshot struct {
	mapping   bem.Mapping
	resolvers *cache.LRU[string, *bem.Resolver]
	loadedAt  time.Time
}

func NewRegistry(mapping bem.Mapping, cacheSize int) (*Registry, error) {
	r := &Registry{cacheSize: cacheSize}
	if err := r.Replace(mapping); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace installs mapping as the active class mapping and drops cached resolvers.
func (r *Registry) Replace(mapping bem.Mapping) error {
	if len(mapping) == 0 {
		return domainerrors.New(domainerrors.CodeInvalidArgument, "class mapping must not be empty")
	}
	r.current.Store(&snapshot{
		mapping:   mapping,
		resolvers: cache.NewLRU[string, *bem.Resolver](r.cacheSize),
		loadedAt:  time.Now().UTC(),
	})
	observability.ManifestKeys.Set(float64(len(mapping)))
	return nil
}

func (r *Registry) Mapping() bem.Mapping {
	return r.current.Load().mapping
}

func (r *Registry) LoadedAt() time.Time {
	return r.current.Load().loadedAt
}

// CachedResolvers returns the number of resolvers cached for the active mapping.
func (r *Registry) CachedResolvers() int {
	return r.current.Load().resolvers.Len()
}

// Resolver returns the resolver for block, building and caching it on first use.
func (r *Registry) Resolver(block string) (*bem.Resolver, error) {
	return r.current.Load().resolver(block)
}

func (s *snapshot) resolver(block string) (*bem.Resolver, error) {
	res, hit, err := s.resolvers.GetOrCreate(block, func() (*bem.Resolver, error) {
		return bem.New(s.mapping, block)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		observability.ResolverCacheHitsTotal.Inc()
	} else {
		observability.ResolverCacheMissesTotal.Inc()
	}
	return res, nil
}

// Block resolves the class string for block against the active mapping.
func (r *Registry) Block(block, external string, modifiers ...bem.Modifier) (string, error) {
	observability.ResolutionsTotal.WithLabelValues("block").Inc()
	res, err := r.Resolver(block)
	if err != nil {
		return "", recordError(err)
	}
	out, err := res.Block(external, modifiers...)
	if err != nil {
		return "", recordError(err)
	}
	return out, nil
}

// Element resolves the class string for block__element against the active mapping.
func (r *Registry) Element(block, element, external string, modifiers ...bem.Modifier) (string, error) {
	observability.ResolutionsTotal.WithLabelValues("element").Inc()
	res, err := r.Resolver(block)
	if err != nil {
		return "", recordError(err)
	}
	out, err := res.Element(element, external, modifiers...)
	if err != nil {
		return "", recordError(err)
	}
	return out, nil
}

// Keys lists the mapping keys matching a glob pattern, sorted. An empty
// pattern matches every key.
func (r *Registry) Keys(pattern string) ([]string, error) {
	keys := r.Mapping().Keys()
	if pattern == "" {
		return keys, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidArgument, "invalid key pattern")
	}
	matched := keys[:0]
	for _, key := range keys {
		if g.Match(key) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// Blocks lists the block identifiers present in the active mapping.
func (r *Registry) Blocks() []string {
	var blocks []string
	for _, key := range r.Mapping().Keys() {
		if bem.IsBlockKey(key) {
			blocks = append(blocks, key)
		}
	}
	return blocks
}

// Check validates every element and modifier key present for block. Keys that
// do not split into well-formed identifiers are reported as INVALID_ARGUMENT;
// orphans (e.g. block__el--mod without block__el) as UNKNOWN_KEY.
func (r *Registry) Check(block string) []error {
	s := r.current.Load()
	res, err := s.resolver(block)
	if err != nil {
		return []error{err}
	}

	elementPrefix := block + bem.ElementSeparator
	modifierPrefix := block + bem.ModifierSeparator

	var errs []error
	for _, key := range s.mapping.Keys() {
		if !strings.HasPrefix(key, elementPrefix) && !strings.HasPrefix(key, modifierPrefix) {
			continue
		}
		_, element, modifier, err := bem.SplitKey(key)
		if err != nil {
			errs = append(errs, domainerrors.AddContext(err, domainerrors.CtxBlock, block))
			continue
		}
		if err := res.Validate(element, modifier); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func recordError(err error) error {
	code := domainerrors.CodeOf(err)
	if code == "" {
		code = domainerrors.CodeInternal
	}
	observability.ResolutionErrorsTotal.WithLabelValues(string(code)).Inc()
	return err
}
