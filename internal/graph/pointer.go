package graph

import (
	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
)

// Observable is anything a change subscription can target: a Pointer or a
// Prism. It is sealed to this package.
type Observable interface {
	// target yields the owning graph and path. ok is false for zero values.
	target() (g *Graph, path []string, ok bool)
}

// Unsubscribe removes a change subscription. Idempotent.
type Unsubscribe func()

// Pointer is a lazy, composable path descriptor over the graph's root value.
// Pointer.Prop("a").Prop("b") denotes "field b of field a of whatever the
// pointer denotes"; merely constructing it performs no lookup.
//
// The zero Pointer belongs to no graph and is rejected by every operation.
type Pointer struct {
	g    *Graph
	path []string
}

// Root returns the pointer denoting the graph's root value.
func (g *Graph) Root() Pointer {
	return Pointer{g: g}
}

// Prop narrows the pointer to a named field.
func (p Pointer) Prop(key string) Pointer {
	path := make([]string, len(p.path)+1)
	copy(path, p.path)
	path[len(p.path)] = key
	return Pointer{g: p.g, path: path}
}

// At narrows the pointer along a property path.
func (p Pointer) At(path address.PropPath) Pointer {
	out := p
	for _, seg := range path {
		out = out.Prop(seg)
	}
	return out
}

// Path returns the pointer's path from the root.
func (p Pointer) Path() address.PropPath {
	return address.PropPath(p.path).Clone()
}

func (p Pointer) target() (*Graph, []string, bool) {
	return p.g, p.path, p.g != nil
}

// Prism is a live observable computed from a pointer. Its current value is
// obtained by resolving the pointer's path against the live root value at
// read time; change notification goes through Graph.OnChange.
type Prism struct {
	g    *Graph
	path []string
}

// PointerToPrism resolves a pointer into a prism. The prism recomputes on
// every read and notifies subscribers when any value along its path changes.
func PointerToPrism(p Pointer) (*Prism, error) {
	if p.g == nil {
		return nil, faults.New(faults.CodeNotObservable, "cannot derive a prism from the zero pointer")
	}
	return &Prism{g: p.g, path: append([]string(nil), p.path...)}, nil
}

// Value resolves the prism's current value. Missing paths resolve to nil.
// The returned value is a snapshot; callers must not mutate it.
func (pr *Prism) Value() any {
	return pr.g.resolve(pr.path)
}

func (pr *Prism) target() (*Graph, []string, bool) {
	if pr == nil {
		return nil, nil, false
	}
	return pr.g, pr.path, pr.g != nil
}
