// Package graph implements the reactive pointer/observable graph.
//
// The graph exclusively owns a live value tree. Pointers are lazy path
// descriptors into that tree: constructing one performs no lookup. Prisms
// are live observables resolved from pointers: the value is pulled from the
// tree at read time, while change notification is push-based and batched.
//
// ARCHITECTURE:
//
// Tick-Driven Dirty Propagation:
// Writes do NOT notify subscribers directly. Each write records a dirty path;
// once per external tick the dirty set is drained in one deterministic pass.
// A subscription is affected when any dirty path intersects its own path
// (equal, prefix, or extension). Affected subscriptions re-resolve their
// pointer and notify only when the resolved value differs structurally from
// the previously delivered value, so N writes to a path within one tick
// coalesce into at most one notification carrying the final value - and a
// write that restores the original value within the tick notifies nobody.
//
// Delivery is split into Collect (drain dirty set, mark affected
// subscriptions) and Deliver (resolve, compare, notify once) so a ticker can
// run two propagation rounds per tick - before and after timeline
// advancement - while still delivering at most one notification per
// observable per tick.
//
// CONCURRENCY:
//
// The graph is single-threaded by design. All reads, writes, subscriptions,
// and flushes must happen on the goroutine that drives the owning ticker.
// Returned values are snapshots; mutating them is undefined behavior.
package graph
