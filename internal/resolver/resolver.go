// Package resolver maps paths in a tree container to metadata components.
//
// Resolution drives type inference to pick a source adapter for each
// candidate path, applying ignore rules and the traversal policy: files at a
// directory level are resolved before its subdirectories, and discovering a
// mixed-content component outside its type root stops the scan of that
// directory.
package resolver

import (
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sourcepack/sourcepack/internal/component"
	"github.com/sourcepack/sourcepack/internal/errors"
	"github.com/sourcepack/sourcepack/internal/forceignore"
	"github.com/sourcepack/sourcepack/internal/registry"
	"github.com/sourcepack/sourcepack/internal/vfs"
	"github.com/sourcepack/sourcepack/pkg/log"
)

// componentCacheSize bounds the per-resolver cache of constructed components.
// The same path can be probed repeatedly in one pass, once directly and once
// through a mixed-content redirect.
const componentCacheSize = 512

// Resolver resolves metadata components from a tree container.
type Resolver struct {
	reg    *registry.Registry
	tree   vfs.TreeContainer
	logger log.Logger
	ignore *forceignore.ForceIgnore
	cache  *lru.Cache[string, *component.SourceComponent]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithForceIgnore pre-binds an ignore policy instead of searching upward from
// the resolution path.
func WithForceIgnore(ignore *forceignore.ForceIgnore) Option {
	return func(r *Resolver) {
		r.ignore = ignore
	}
}

// New creates a Resolver over the given registry and tree container.
func New(reg *registry.Registry, tree vfs.TreeContainer, opts ...Option) *Resolver {
	cache, err := lru.New[string, *component.SourceComponent](componentCacheSize)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}

	r := &Resolver{
		reg:    reg,
		tree:   tree,
		logger: log.Default(),
		cache:  cache,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GetComponentsFromPath resolves every component reachable from path.
// Order is part of the contract: components found at a directory level
// precede components found in its subdirectories, in listing order.
func (r *Resolver) GetComponentsFromPath(path string) ([]*component.SourceComponent, error) {
	if !r.tree.Exists(path) {
		return nil, NewPathNotFoundError(path)
	}

	ignore := r.ignore
	if ignore == nil {
		ignore = forceignore.FindFor(path, r.tree)
	}

	isDir, err := r.tree.IsDirectory(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	if !isDir {
		c, err := r.resolveFile(path, ignore)
		if err != nil || c == nil {
			return nil, err
		}

		return []*component.SourceComponent{c}, nil
	}

	components, err := r.resolveDirectory(path, ignore)
	if err != nil {
		return nil, err
	}

	return dedupe(components), nil
}

// dedupe drops repeat discoveries of the same source identity, keeping the
// first occurrence. Several files can resolve to one component, e.g. the
// decomposed fragments of a bundle.
func dedupe(components []*component.SourceComponent) []*component.SourceComponent {
	seen := make(map[string]struct{}, len(components))

	var out []*component.SourceComponent

	for _, c := range components {
		if _, dup := seen[c.SourceKey()]; dup {
			continue
		}

		seen[c.SourceKey()] = struct{}{}
		out = append(out, c)
	}

	return out
}

// resolveFile infers the type of a single file and dispatches to its adapter.
// A denied path yields a nil component, not an error.
func (r *Resolver) resolveFile(path string, ignore *forceignore.ForceIgnore) (*component.SourceComponent, error) {
	t, ok := determineType(r.reg, path)
	if !ok {
		if ignore.Denies(path) {
			return nil, nil
		}

		return nil, NewTypeInferenceError(path)
	}

	return r.resolveVia(t, path, ignore)
}

// resolveVia builds the component for path through the type's adapter,
// honoring ignore rules on both the path and its located descriptor.
func (r *Resolver) resolveVia(t *registry.MetadataType, path string, ignore *forceignore.ForceIgnore) (*component.SourceComponent, error) {
	if ignore.Denies(path) {
		r.logger.Debugf("Skipping %s: denied by ignore rules", path)
		return nil, nil
	}

	// The cache is shared across calls while the ignore binding is per call,
	// so a cached component's descriptor must be re-checked.
	cacheKey := t.ID + "#" + path
	if c, ok := r.cache.Get(cacheKey); ok {
		if c.XMLPath() != "" && ignore.Denies(c.XMLPath()) {
			r.logger.Debugf("Skipping %s: descriptor %s denied by ignore rules", path, c.XMLPath())
			return nil, nil
		}

		return c, nil
	}

	c, err := newAdapter(r.reg, r.tree, t).GetComponent(path)
	if err != nil || c == nil {
		return nil, err
	}

	if c.XMLPath() != "" && ignore.Denies(c.XMLPath()) {
		r.logger.Debugf("Skipping %s: descriptor %s denied by ignore rules", path, c.XMLPath())
		return nil, nil
	}

	r.cache.Add(cacheKey, c)

	return c, nil
}

// resolveDirectory walks a directory subtree. Files at the current level are
// resolved first; subdirectories are queued and recursed into afterwards, in
// listing order.
func (r *Resolver) resolveDirectory(dir string, ignore *forceignore.ForceIgnore) ([]*component.SourceComponent, error) {
	if t, root, ok := r.mixedContentRedirect(dir); ok {
		c, err := r.resolveVia(t, root, ignore)
		if err != nil || c == nil {
			return nil, err
		}

		return []*component.SourceComponent{c}, nil
	}

	if ignore.Denies(dir) {
		r.logger.Debugf("Skipping directory %s: denied by ignore rules", dir)
		return nil, nil
	}

	names, err := r.tree.ReadDirectory(dir)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	var (
		results []*component.SourceComponent
		queue   []string
	)

	for _, name := range names {
		full := filepath.Join(dir, name)

		isDir, err := r.tree.IsDirectory(full)
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}

		if isDir {
			queue = append(queue, full)
			continue
		}

		if !vfs.IsMetadataXML(name) {
			continue
		}

		c, err := r.resolveFile(full, ignore)
		if err != nil {
			// Files that cannot be typed are not an error during a walk;
			// only direct file resolution reports them.
			var inferenceErr TypeInferenceError
			if errors.As(err, &inferenceErr) {
				continue
			}

			return nil, err
		}

		if c == nil {
			continue
		}

		results = append(results, c)

		// A mixed-content component found outside its type root owns the
		// rest of this directory; rescanning would rediscover its internal
		// files as spurious siblings.
		if r.stopsScan(c.Type(), dir) {
			return results, nil
		}
	}

	for _, sub := range queue {
		// A subdirectory that is the content root of a component already
		// resolved at this level belongs to that component; descending would
		// produce a duplicate.
		if r.ownedByResult(results, sub) {
			continue
		}

		children, err := r.resolveDirectory(sub, ignore)
		if err != nil {
			return nil, err
		}

		results = append(results, children...)
	}

	return results, nil
}

// ownedByResult reports whether path is the content root of one of the
// already resolved components. Only mixed-content and bundle types own their
// content subtree; a folder container's directory still holds independent
// components and must be descended into.
func (r *Resolver) ownedByResult(results []*component.SourceComponent, path string) bool {
	for _, c := range results {
		if c.ContentPath() != path {
			continue
		}

		if r.reg.IsMixedContent(c.Type()) || c.Type().Adapter == registry.AdapterBundle {
			return true
		}
	}

	return false
}

// mixedContentRedirect reports whether dir sits inside a mixed-content
// type's subtree without being that type's own root directory, and if so,
// returns the owning content root to resolve instead.
func (r *Resolver) mixedContentRedirect(dir string) (*registry.MetadataType, string, bool) {
	segments := vfs.Segments(dir)

	for i := len(segments) - 2; i >= 0; i-- {
		t, ok := r.reg.TypeByDirectoryName(segments[i])
		if !ok {
			continue
		}

		// The folder level directly under a folder-scoped type directory is
		// walked normally.
		if t.InFolder && i == len(segments)-2 {
			return nil, "", false
		}

		return t, vfs.TrimToContentRoot(dir, t), true
	}

	return nil, "", false
}

// stopsScan reports whether finding a component of type t while scanning dir
// must terminate the scan: t is mixed-content and dir is not its root
// directory. Folder-scoped types ignore one extra path level.
func (r *Resolver) stopsScan(t *registry.MetadataType, dir string) bool {
	if !r.reg.IsMixedContent(t) {
		return false
	}

	if t.InFolder {
		return filepath.Base(filepath.Dir(dir)) != t.DirectoryName && filepath.Base(dir) != t.DirectoryName
	}

	return filepath.Base(dir) != t.DirectoryName
}
