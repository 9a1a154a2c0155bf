package xtestdata

import (
	orderedset "github.com/emirpasic/gods/sets/linkedhashset"
)

// managedEntry is a path owned by the registry: the caller gets back a
// ResourceKey and retrieves the resolved path through FsData.Path.
type managedEntry struct {
	relative string
	resolved string
}

// unmanagedEntry is a borrow of the caller's own path variable, rewritten
// in place at finalization.
type unmanagedEntry struct {
	relative string
	target   *string
}

// registry collects consumer-declared path handles. Registration never
// fails and is append-only for the lifetime of a Setup.
type registry struct {
	managed   []managedEntry
	unmanaged []unmanagedEntry
	// seen deduplicates pathspecs across both managed and unmanaged
	// entries while preserving first-insertion order, the same role
	// the teacher's fastOrderedIntSet plays for commit-mark bookkeeping.
	seen *orderedset.Set
}

func newRegistry() *registry {
	return &registry{seen: orderedset.New()}
}

// add registers an owned relative path and returns a stable handle.
func (r *registry) add(relative string) ResourceKey {
	r.seen.Add(relative)
	r.managed = append(r.managed, managedEntry{relative: relative})
	return ResourceKey(len(r.managed) - 1)
}

// borrow registers a mutable reference to the caller's own path variable.
// The variable is rewritten in place once Build succeeds.
func (r *registry) borrow(target *string) {
	r.seen.Add(*target)
	r.unmanaged = append(r.unmanaged, unmanagedEntry{relative: *target, target: target})
}

// pathspecs renders every distinct registered relative path as a PathSpec,
// in first-insertion order.
func (r *registry) pathspecs() []PathSpec {
	values := r.seen.Values()
	specs := make([]PathSpec, 0, len(values))
	for _, v := range values {
		specs = append(specs, Literal(v.(string)))
	}
	return specs
}

// relatives returns every distinct registered relative path, in
// first-insertion order; the resolver keys its resolved paths by these.
func (r *registry) relatives() []string {
	values := r.seen.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	return out
}

// empty reports whether any resource was ever registered.
func (r *registry) empty() bool {
	return len(r.managed) == 0 && len(r.unmanaged) == 0
}
