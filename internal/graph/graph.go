package graph

import (
	"reflect"
	"sort"

	"github.com/stagehand-dev/stagehand/internal/faults"
)

// Graph owns a live value tree and the dirty-path set recording writes since
// the last flush.
//
// Not safe for concurrent use: all access must happen on the goroutine that
// drives the owning ticker.
type Graph struct {
	root  map[string]any
	dirty [][]string

	// Subscription arena. Handles are plain integers into an internally
	// owned map; no hidden association between handed-out observables and
	// mutable state.
	subs   map[int]*subscription
	nextID int

	// onActive is invoked with the subscriber count whenever it changes
	// between zero and non-zero. Set by the owning ticker.
	onActive func(active int)
}

type subscription struct {
	id   int
	path []string
	cb   func(any)
	// last holds a detached copy of the value at the previous delivery.
	// Writes below the path mutate the live tree in place, so comparing
	// against a reference into it would never observe a difference.
	last any
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		root: make(map[string]any),
		subs: make(map[int]*subscription),
	}
}

// SetActivationHook registers a callback invoked whenever the subscriber
// count transitions between empty and non-empty.
func (g *Graph) SetActivationHook(hook func(active int)) {
	g.onActive = hook
}

// Set writes a value at the pointer's path and records the path as dirty.
// Subscribers are notified on the next flush, not here.
//
// Intermediate segments are created as needed; a leaf value occupying an
// intermediate position is replaced by a nested map.
func (g *Graph) Set(p Pointer, value any) error {
	tgt, path, ok := p.target()
	if !ok || tgt != g {
		return faults.New(faults.CodeNotObservable, "pointer does not belong to this graph")
	}
	if len(path) == 0 {
		m, isMap := value.(map[string]any)
		if !isMap {
			return faults.New(faults.CodeInvalidArgument, "root value must be a map")
		}
		g.root = m
	} else {
		node := g.root
		for _, seg := range path[:len(path)-1] {
			child, isMap := node[seg].(map[string]any)
			if !isMap {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		node[path[len(path)-1]] = value
	}

	dirty := make([]string, len(path))
	copy(dirty, path)
	g.dirty = append(g.dirty, dirty)
	return nil
}

// Get pull-resolves the pointer's current value at read time. Missing paths
// resolve to nil. Callers must treat the result as an immutable snapshot.
func (g *Graph) Get(p Pointer) (any, error) {
	tgt, path, ok := p.target()
	if !ok || tgt != g {
		return nil, faults.New(faults.CodeNotObservable, "pointer does not belong to this graph")
	}
	return g.resolve(path), nil
}

// resolve walks the tree along path. Missing positions resolve to nil.
func (g *Graph) resolve(path []string) any {
	var cur any = g.root
	for _, seg := range path {
		node, isMap := cur.(map[string]any)
		if !isMap {
			return nil
		}
		cur = node[seg]
	}
	return cur
}

// OnChange registers a callback for changes to an observable's resolved
// value. The callback fires at most once per tick flush, carrying the final
// value after all writes in that tick.
//
// If fireImmediately is true the callback fires exactly once, synchronously,
// with the value present at registration time.
//
// A nil or foreign observable is a programmer error reported immediately as
// a NOT_OBSERVABLE fault, never deferred to the next tick.
//
// The returned unsubscribe function is idempotent: calling it repeatedly, or
// after the graph is closed, is a no-op.
func (g *Graph) OnChange(obs Observable, cb func(value any), fireImmediately bool) (Unsubscribe, error) {
	if obs == nil {
		return nil, faults.New(faults.CodeNotObservable, "onChange target is nil")
	}
	tgt, path, ok := obs.target()
	if !ok {
		return nil, faults.New(faults.CodeNotObservable, "onChange target is not a pointer or prism")
	}
	if tgt != g {
		return nil, faults.New(faults.CodeNotObservable, "onChange target belongs to a different graph")
	}
	if cb == nil {
		return nil, faults.New(faults.CodeInvalidArgument, "onChange callback is nil")
	}

	g.nextID++
	sub := &subscription{
		id:   g.nextID,
		path: append([]string(nil), path...),
		cb:   cb,
		last: deepCopy(g.resolve(path)),
	}
	g.subs[sub.id] = sub
	if len(g.subs) == 1 && g.onActive != nil {
		g.onActive(len(g.subs))
	}

	if fireImmediately {
		cb(sub.last)
	}

	id := sub.id
	return func() {
		if _, exists := g.subs[id]; !exists {
			return
		}
		delete(g.subs, id)
		if len(g.subs) == 0 && g.onActive != nil {
			g.onActive(0)
		}
	}, nil
}

// Batch is the set of subscriptions affected by one propagation round.
type Batch struct {
	ids map[int]struct{}
}

// Merge folds another batch into this one.
func (b *Batch) Merge(other *Batch) {
	for id := range other.ids {
		b.ids[id] = struct{}{}
	}
}

// Collect drains the dirty-path set and returns the batch of subscriptions
// whose paths intersect any dirty path. No callbacks fire here.
func (g *Graph) Collect() *Batch {
	b := &Batch{ids: make(map[int]struct{})}
	if len(g.dirty) == 0 {
		return b
	}
	for _, sub := range g.subs {
		for _, dirty := range g.dirty {
			if pathsIntersect(sub.path, dirty) {
				b.ids[sub.id] = struct{}{}
				break
			}
		}
	}
	g.dirty = g.dirty[:0]
	return b
}

// Deliver re-resolves every subscription in the batch and notifies those
// whose value changed structurally since the last delivery. Subscriptions
// unsubscribed after collection are skipped. Delivery order follows
// registration order for determinism.
func (g *Graph) Deliver(b *Batch) {
	if len(b.ids) == 0 {
		return
	}
	ids := make([]int, 0, len(b.ids))
	for id := range b.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		sub, alive := g.subs[id]
		if !alive {
			continue
		}
		value := g.resolve(sub.path)
		if valuesEqual(value, sub.last) {
			continue
		}
		sub.last = deepCopy(value)
		sub.cb(value)
	}
}

// Flush runs one full propagation round: collect then deliver.
func (g *Graph) Flush() {
	g.Deliver(g.Collect())
}

// Close tears down all subscriptions. Unsubscribe functions handed out
// earlier become no-ops.
func (g *Graph) Close() {
	hadSubs := len(g.subs) > 0
	g.subs = make(map[int]*subscription)
	g.dirty = nil
	if hadSubs && g.onActive != nil {
		g.onActive(0)
	}
}

// SubscriberCount returns the number of active subscriptions.
// Useful for monitoring and testing.
func (g *Graph) SubscriberCount() int {
	return len(g.subs)
}

// pathsIntersect reports whether one path is equal to, a prefix of, or an
// extension of the other.
func pathsIntersect(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// valuesEqual checks reference equality for comparable kinds and falls back
// to structural equality for containers.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// deepCopy detaches the map containers of a resolved value from the live
// tree. Leaves are treated as immutable and shared.
func deepCopy(v any) any {
	m, isMap := v.(map[string]any)
	if !isMap {
		return v
	}
	out := make(map[string]any, len(m))
	for k, child := range m {
		out[k] = deepCopy(child)
	}
	return out
}
