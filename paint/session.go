package paint

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the stroke state of a Session.
type State uint8

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// Options configures a new Session. Zero values are usable: an empty prefab
// list, default placement, no throttle and the "Untagged" surface tag.
type Options struct {
	Logger   *slog.Logger
	Recorder Recorder
	Metrics  *MetricsCache // shared cache; one is created from Host.Measurer when nil

	Prefabs    []PrefabEntry
	Placement  *PlacementConfig
	Throttle   Throttle
	SurfaceTag *string
	Brush      Brush
	Parent     Handle
}

// DefaultSurfaceTag is the tag hits must carry unless configured otherwise.
const DefaultSurfaceTag = "Untagged"

// pending is an instance following the pointer that has not been committed.
type pending struct {
	handle    Handle
	prefab    PrefabID
	transform Transform
}

// Session is the paint-stroke controller. It is not safe for concurrent use;
// the host delivers events serially.
type Session struct {
	host     Host
	logger   *slog.Logger
	recorder Recorder

	prefabs   *PrefabSet
	placement PlacementConfig
	throttle  Throttle
	filter    SurfaceFilter
	brush     Brush
	parent    Handle

	sampler *Sampler
	metrics *MetricsCache
	tracker *StatsTracker

	active        bool
	state         State
	lastHit       r3.Vec
	hasLastHit    bool
	lastPlacement time.Duration
	pending       *pending

	history   []Handle
	inHistory map[Handle]struct{}
}

// NewSession returns an active, idle session driving host.
func NewSession(host Host, opts Options) *Session {
	if host.Clock == nil {
		host.Clock = NewSystemClock()
	}
	if host.Random == nil {
		host.Random = NewRand(time.Now().UnixNano())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetricsCache(host.Measurer, logger)
	}
	placement := DefaultPlacement()
	if opts.Placement != nil {
		placement = *opts.Placement
	}
	tag := DefaultSurfaceTag
	if opts.SurfaceTag != nil {
		tag = *opts.SurfaceTag
	}

	return &Session{
		host:      host,
		logger:    logger,
		recorder:  opts.Recorder,
		prefabs:   NewPrefabSet(opts.Prefabs...),
		placement: placement,
		throttle:  opts.Throttle,
		filter:    SurfaceFilter{RequiredTag: tag},
		brush:     opts.Brush,
		parent:    opts.Parent,
		sampler:   NewSampler(host.Random),
		metrics:   metrics,
		tracker:   NewStatsTracker(metrics),
		active:    true,
		inHistory: make(map[Handle]struct{}),
	}
}

// PointerDown starts a stroke. When the pointer is over a surface a pending
// instance is spawned right away, bypassing filter and throttle.
func (s *Session) PointerDown(p Pointer) {
	if !s.active {
		return
	}
	if s.state == StateDragging {
		s.discardPending()
	}
	now := s.host.Clock.Now()
	s.state = StateDragging
	s.lastPlacement = now

	hit, ok := s.raycast(p)
	s.hasLastHit = ok
	if ok {
		s.lastHit = hit.Point
		s.spawn(hit)
	}
	s.logger.Debug("stroke started", "hit", ok, "pending", s.pending != nil)
	s.emit(Event{Type: EventStrokeStart, At: now, Hit: ok})
}

// PointerMove drags the pending instance along the surface and commits it
// when the surface tag matches and the throttle allows.
func (s *Session) PointerMove(p Pointer) {
	if !s.active || s.state != StateDragging || p.Alt {
		return
	}
	hit, ok := s.raycast(p)
	if !ok {
		return
	}
	now := s.host.Clock.Now()

	if s.pending == nil {
		// Nothing to drag: the stroke began off-surface or the last draw was empty.
		s.lastHit = hit.Point
		s.hasLastHit = true
		s.spawn(hit)
		if s.pending != nil {
			s.lastPlacement = now
		}
		return
	}

	if s.hasLastHit {
		s.pending.transform = s.sampler.Follow(s.pending.transform, s.lastHit, hit, s.placement)
		s.host.Instancer.Move(s.pending.handle, s.pending.transform)
	}
	s.lastHit = hit.Point
	s.hasLastHit = true

	if !s.filter.Accepts(hit.Tag) || !s.throttle.Allow(now, s.lastPlacement) {
		return
	}
	s.commit(now)
	s.spawn(hit)
	s.lastPlacement = now
}

// PointerUp ends the stroke, destroying the uncommitted pending instance.
func (s *Session) PointerUp(p Pointer) {
	if s.state != StateDragging {
		return
	}
	s.endStroke()
}

// SetActive attaches or detaches the session from input. Deactivating ends
// any stroke in progress.
func (s *Session) SetActive(active bool) {
	if s.active == active {
		return
	}
	if !active && s.state == StateDragging {
		s.endStroke()
	}
	s.active = active
	s.logger.Info("paint session toggled", "active", active)
}

// Active reports whether the session reacts to pointer events.
func (s *Session) Active() bool { return s.active }

// Close deactivates the session and releases its pending instance.
// Committed instances stay in the scene.
func (s *Session) Close() {
	s.SetActive(false)
}

// UndoLast destroys the most recently committed instance.
func (s *Session) UndoLast() {
	n := len(s.history)
	if n == 0 {
		return
	}
	h := s.history[n-1]
	s.history = s.history[:n-1]
	delete(s.inHistory, h)
	s.host.Instancer.Destroy(h)
	s.logger.Info("undo", "instance", h, "remaining", len(s.history))
	s.emit(Event{Type: EventUndo, At: s.host.Clock.Now(), Handle: h})
}

// ClearAll destroys every committed instance and zeroes the statistics.
func (s *Session) ClearAll() {
	n := len(s.history)
	for _, h := range s.history {
		s.host.Instancer.Destroy(h)
	}
	s.history = s.history[:0]
	clear(s.inHistory)
	s.tracker.Reset()
	if n > 0 {
		s.logger.Info("cleared painted instances", "count", n)
	}
	s.emit(Event{Type: EventClear, At: s.host.Clock.Now(), Count: n})
}

// ResetStats zeroes the statistics without touching committed instances.
func (s *Session) ResetStats() {
	s.tracker.Reset()
}

// Stats returns the running totals.
func (s *Session) Stats() SessionStats { return s.tracker.Stats() }

// State returns the stroke state.
func (s *Session) State() State { return s.state }

// History returns the committed instances, oldest first.
func (s *Session) History() []Handle {
	out := make([]Handle, len(s.history))
	copy(out, s.history)
	return out
}

// Pending returns the instance currently following the pointer, if any.
func (s *Session) Pending() (Handle, PrefabID, Transform, bool) {
	if s.pending == nil {
		return 0, "", Transform{}, false
	}
	return s.pending.handle, s.pending.prefab, s.pending.transform, true
}

// Placement returns the placement settings.
func (s *Session) Placement() PlacementConfig { return s.placement }

// SetPlacement replaces the placement settings.
func (s *Session) SetPlacement(cfg PlacementConfig) { s.placement = cfg }

// Throttle returns the commit throttle.
func (s *Session) Throttle() Throttle { return s.throttle }

// SetThrottle replaces the commit throttle.
func (s *Session) SetThrottle(t Throttle) { s.throttle = t }

// SurfaceTag returns the tag a surface must carry to receive commits.
func (s *Session) SurfaceTag() string { return s.filter.RequiredTag }

// SetSurfaceTag sets the required surface tag.
func (s *Session) SetSurfaceTag(tag string) { s.filter.RequiredTag = tag }

// Brush returns the active brush.
func (s *Session) Brush() Brush { return s.brush }

// SetBrush replaces the active brush.
func (s *Session) SetBrush(b Brush) { s.brush = b }

// Parent returns the instance new placements are parented under.
func (s *Session) Parent() Handle { return s.parent }

// SetParent sets the parent for future placements; zero means none.
func (s *Session) SetParent(h Handle) { s.parent = h }

// Prefabs returns the candidate list in draw order.
func (s *Session) Prefabs() []PrefabEntry { return s.prefabs.Entries() }

// SetPrefabs replaces the candidate list. Prefabs that were not candidates
// before have their cached metrics dropped so they are measured afresh.
func (s *Session) SetPrefabs(entries []PrefabEntry) {
	for _, e := range entries {
		if e.ID != "" && !s.prefabs.Contains(e.ID) {
			s.metrics.Invalidate(e.ID)
		}
	}
	s.prefabs.Replace(entries)
}

func (s *Session) raycast(p Pointer) (Hit, bool) {
	if s.host.Raycaster == nil {
		return Hit{}, false
	}
	return s.host.Raycaster.Raycast(p)
}

// spawn draws a prefab and instantiates it as the new pending instance.
// An empty draw or a host failure leaves no pending instance.
func (s *Session) spawn(hit Hit) {
	entry, ok := s.prefabs.Draw(s.host.Random.Range(0, 1))
	if !ok {
		return
	}
	point := s.brush.SpawnPoint(hit, s.host.Random)
	t := s.sampler.Spawn(point, hit.Normal, s.placement)
	h, err := s.host.Instancer.Instantiate(entry.ID, t)
	if err != nil {
		s.logger.Warn("instantiate failed", "prefab", entry.ID, "error", err)
		return
	}
	if _, dup := s.inHistory[h]; dup || h == 0 {
		s.logger.Warn("host returned unusable handle", "prefab", entry.ID, "instance", h)
		if h != 0 {
			s.host.Instancer.Destroy(h)
		}
		return
	}
	if s.parent != 0 {
		s.host.Instancer.Reparent(h, s.parent)
	}
	s.pending = &pending{handle: h, prefab: entry.ID, transform: t}
}

func (s *Session) commit(now time.Duration) {
	p := s.pending
	s.pending = nil
	s.history = append(s.history, p.handle)
	s.inHistory[p.handle] = struct{}{}
	s.tracker.RecordPlacement(p.prefab)
	s.logger.Debug("committed", "instance", p.handle, "prefab", p.prefab, "objects", s.tracker.Stats().Objects)
	s.emit(Event{
		Type:     EventCommit,
		At:       now,
		Handle:   p.handle,
		Prefab:   p.prefab,
		Position: p.transform.Position,
	})
}

// discardPending destroys the pending instance and returns its handle, or 0.
func (s *Session) discardPending() Handle {
	if s.pending == nil {
		return 0
	}
	h := s.pending.handle
	s.host.Instancer.Destroy(h)
	s.pending = nil
	return h
}

func (s *Session) endStroke() {
	discarded := s.discardPending()
	s.state = StateIdle
	s.logger.Debug("stroke ended", "history", len(s.history), "discarded", discarded)
	s.emit(Event{Type: EventStrokeEnd, At: s.host.Clock.Now(), Handle: discarded})
}

func (s *Session) emit(ev Event) {
	if s.recorder == nil {
		return
	}
	ev.Stats = s.tracker.Stats()
	s.recorder.Record(ev)
}
