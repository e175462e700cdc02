// Package studio assembles the core into an explicit context object.
//
// A Studio owns one reactive graph and the default ticker driving it. It is
// constructed once per application or session and torn down with Close;
// nothing in the core reaches for process-wide state. Projects attach to a
// studio with an ingested snapshot, sheets hang off projects, and objects
// declare typed property trees whose defaults, static overrides, and
// sequence tracks are seeded into the graph.
//
// Graph layout, from the root:
//
//	projectsById/<project>/sheetsById/<sheet>/objects/<key>/<prop path...>
//	projectsById/<project>/sheetsById/<sheet>/sequence/{position, playing, length}
package studio

import (
	"log/slog"
	"sort"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
	"github.com/stagehand-dev/stagehand/internal/graph"
	"github.com/stagehand-dev/stagehand/internal/player"
	"github.com/stagehand-dev/stagehand/internal/prop"
	"github.com/stagehand-dev/stagehand/internal/snapshot"
	"github.com/stagehand-dev/stagehand/internal/ticker"
)

// Option configures a studio.
type Option func(*options)

type options struct {
	tickerName   string
	tickerSource ticker.Source
}

// WithTickerName names the studio's default ticker.
func WithTickerName(name string) Option {
	return func(o *options) { o.tickerName = name }
}

// WithTickerSource sets the frame source driving the default ticker. The
// default is a manual source ticked by the caller.
func WithTickerSource(src ticker.Source) Option {
	return func(o *options) { o.tickerSource = src }
}

// Studio is the root context object. Like the graph it owns, it is not safe
// for concurrent use.
type Studio struct {
	g        *graph.Graph
	tk       *ticker.Ticker
	projects map[address.ProjectID]*Project
	closed   bool
}

// New constructs a studio with a fresh graph and ticker.
func New(opts ...Option) *Studio {
	o := options{
		tickerName:   "studio",
		tickerSource: ticker.ManualSource{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	g := graph.New()
	tk := ticker.New(g, ticker.WithName(o.tickerName), ticker.WithSource(o.tickerSource))
	slog.Debug("studio created", "ticker", tk.Name(), "tickerId", tk.ID())
	return &Studio{
		g:        g,
		tk:       tk,
		projects: make(map[address.ProjectID]*Project),
	}
}

// Graph returns the studio's reactive graph.
func (s *Studio) Graph() *graph.Graph { return s.g }

// Ticker returns the studio's default ticker.
func (s *Studio) Ticker() *ticker.Ticker { return s.tk }

// Tick drives the default ticker one frame forward.
func (s *Studio) Tick(timeMs float64) { s.tk.Tick(timeMs) }

// Close tears the studio down: sequences stop, pending playbacks resolve
// unfinished, and all graph subscriptions are dropped. Using the studio
// after Close is a programmer error.
func (s *Studio) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, p := range s.projects {
		for _, sheet := range p.sheets {
			if sheet.sequence != nil {
				sheet.sequence.Close()
			}
		}
	}
	s.g.Close()
	slog.Debug("studio closed")
}

// Project attaches a project to the studio, ingesting the given snapshot.
// A nil snapshot starts the project from the empty default state. Attaching
// the same project id twice is an error.
func (s *Studio) Project(id address.ProjectID, snap *snapshot.Snapshot) (*Project, error) {
	if s.closed {
		return nil, faults.New(faults.CodeInvalidArgument, "studio is closed")
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if _, exists := s.projects[id]; exists {
		return nil, faults.Newf(faults.CodeInvalidArgument, "project %q is already attached", id)
	}

	if snap == nil {
		snap = snapshot.Empty()
	}
	state, err := snapshot.Ingest(snap)
	if err != nil {
		return nil, err
	}

	p := &Project{
		studio: s,
		id:     id,
		state:  state,
		sheets: make(map[address.SheetID]*Sheet),
	}
	s.projects[id] = p
	slog.Info("project attached", "project", id, "sheets", len(state.SheetsByID))
	return p, nil
}

// Project is one attached project.
type Project struct {
	studio *Studio
	id     address.ProjectID
	state  *snapshot.Snapshot
	sheets map[address.SheetID]*Sheet
}

// ID returns the project id.
func (p *Project) ID() address.ProjectID { return p.id }

// Sheet returns the sheet with the given id, creating it on first use. If
// the project's snapshot carries a sequence for the sheet, the sheet gets a
// player wired to the studio's ticker.
func (p *Project) Sheet(id address.SheetID) (*Sheet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if sheet, exists := p.sheets[id]; exists {
		return sheet, nil
	}

	base := p.studio.g.Root().
		Prop("projectsById").Prop(string(p.id)).
		Prop("sheetsById").Prop(string(id))

	sheet := &Sheet{
		project: p,
		id:      id,
		base:    base,
		state:   p.state.SheetsByID[id],
		objects: make(map[address.ObjectKey]*Object),
	}
	if seqState := sheet.state.Sequence; seqState != nil {
		seq, err := player.New(p.studio.g, p.studio.tk, base.Prop("sequence"), seqState.Length)
		if err != nil {
			return nil, err
		}
		sheet.sequence = seq
	}
	p.sheets[id] = sheet
	return sheet, nil
}

// Sheet groups objects and at most one sequence.
type Sheet struct {
	project  *Project
	id       address.SheetID
	base     graph.Pointer
	state    snapshot.SheetState
	sequence *player.Sequence
	objects  map[address.ObjectKey]*Object
}

// ID returns the sheet id.
func (sh *Sheet) ID() address.SheetID { return sh.id }

// Sequence returns the sheet's player, or nil when the snapshot declared no
// timeline for this sheet.
func (sh *Sheet) Sequence() *player.Sequence { return sh.sequence }

// Object declares a typed property tree under the sheet. The shorthand is
// compiled to a canonical compound config; the object's initial value is the
// config's defaults overlaid with the snapshot's sanitized static overrides,
// field by field, with per-field misses falling back to the default. Tracks
// the snapshot binds to this object's prop paths are attached to the sheet's
// sequence.
//
// Each key may be declared once per sheet.
func (sh *Sheet) Object(key address.ObjectKey, shorthand any) (*Object, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if _, exists := sh.objects[key]; exists {
		return nil, faults.Newf(faults.CodeInvalidArgument, "object %q is already declared on sheet %q", key, sh.id)
	}

	cfg, err := prop.CompileCompound(shorthand)
	if err != nil {
		return nil, err
	}

	overrides := sh.state.StaticOverrides[key]
	value := seedValue(cfg, overrides, overrides != nil).(map[string]any)

	ptr := sh.base.Prop("objects").Prop(string(key))
	if err := sh.project.studio.g.Set(ptr, value); err != nil {
		return nil, err
	}

	obj := &Object{key: key, g: sh.project.studio.g, ptr: ptr, config: cfg}
	sh.objects[key] = obj

	if err := sh.bindTracks(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// bindTracks attaches the snapshot's tracks for the object to the sequence.
// Tracks addressing prop paths the declaration does not carry are skipped:
// stored state legitimately outlives declarations during interactive edits.
func (sh *Sheet) bindTracks(obj *Object) error {
	if sh.sequence == nil || sh.state.Sequence == nil {
		return nil
	}
	objTracks, exists := sh.state.Sequence.TracksByObject[obj.key]
	if !exists {
		return nil
	}

	encodedPaths := make([]string, 0, len(objTracks.TrackIDByPropPath))
	for encoded := range objTracks.TrackIDByPropPath {
		encodedPaths = append(encodedPaths, encoded)
	}
	sort.Strings(encodedPaths)

	for _, encoded := range encodedPaths {
		// Ingestion already verified the path and the track reference.
		path, err := address.ParsePath(encoded)
		if err != nil {
			return err
		}
		leafCfg, err := prop.At(obj.config, path)
		if err != nil {
			slog.Warn("skipping track for undeclared prop",
				"sheet", sh.id,
				"object", obj.key,
				"path", encoded)
			continue
		}
		tr := objTracks.TrackData[objTracks.TrackIDByPropPath[encoded]]
		if err := sh.sequence.BindTrack(obj.key, path, obj.ptr.At(path), tr, leafCfg); err != nil {
			return err
		}
	}
	return nil
}

// seedValue materializes an object's initial value: the config's default
// with the sanitized override layered over it. present=false means no
// override was stored for this position.
func seedValue(c prop.Config, raw any, present bool) any {
	if compound, isCompound := c.(*prop.Compound); isCompound {
		m, _ := raw.(map[string]any)
		out := make(map[string]any, len(compound.Fields))
		for _, f := range compound.Fields {
			fieldRaw, fieldPresent := m[f.Key]
			out[f.Key] = seedValue(f.Config, fieldRaw, fieldPresent)
		}
		return out
	}
	if present {
		if v, ok := prop.Sanitize(c, raw); ok {
			return v
		}
	}
	return prop.DefaultOf(c)
}

// Object is a declared property tree.
type Object struct {
	key    address.ObjectKey
	g      *graph.Graph
	ptr    graph.Pointer
	config *prop.Compound
}

// Key returns the object key.
func (o *Object) Key() address.ObjectKey { return o.key }

// Pointer returns the pointer to the object's root value.
func (o *Object) Pointer() graph.Pointer { return o.ptr }

// Config returns the canonical compound config.
func (o *Object) Config() *prop.Compound { return o.config }

// Value resolves the object's current value tree. Callers must treat it as
// an immutable snapshot.
func (o *Object) Value() any {
	pr, err := graph.PointerToPrism(o.ptr)
	if err != nil {
		return nil
	}
	return pr.Value()
}

// OnValuesChange subscribes to the object's value tree through the studio's
// graph. Notifications are batched per tick like any other subscription.
func (o *Object) OnValuesChange(cb func(value any), fireImmediately bool) (graph.Unsubscribe, error) {
	return o.g.OnChange(o.ptr, cb, fireImmediately)
}
