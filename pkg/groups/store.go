package groups

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilemarks/tilemarks/pkg/errors"
	"github.com/tilemarks/tilemarks/pkg/kvstore"
	"github.com/tilemarks/tilemarks/pkg/observability"
)

// Store owns the in-memory group collection and bridges it to a persistent
// key-value backend.
//
// All mutations are serialized by an internal mutex: the Store is the single
// owning component the concurrency model calls for. Each mutation computes
// the new collection and writes the whole of it to the backend. The write is
// fire-and-forget from the caller's perspective: a failed save leaves the
// in-memory state ahead of the persisted state (last-write-wins, accepted).
type Store struct {
	mu sync.Mutex

	kv  kvstore.Store
	log *log.Logger

	groups      []BookmarkGroup
	showPreview bool
	editMode    bool

	now    func() time.Time
	lastID int64 // last issued creation timestamp, for monotonic IDs
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock sets the time source used for group ID generation.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store backed by kv. Call [Store.Load] before use to
// pick up previously persisted state.
func NewStore(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:          kv,
		log:         log.Default(),
		showPreview: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection and the showPreview flag.
// An absent groups key yields an empty collection; an absent preview flag
// defaults to true. Load replaces any in-memory state.
func (s *Store) Load(ctx context.Context) error {
	vals, err := s.kv.Get(ctx, kvstore.KeyGroups, kvstore.KeyShowPreview)
	if err != nil {
		observability.Store().OnLoadComplete(ctx, 0, err)
		return errors.Wrap(errors.ErrCodeStorage, err, "load groups")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups = nil
	if data, ok := vals[kvstore.KeyGroups]; ok {
		if err := json.Unmarshal(data, &s.groups); err != nil {
			observability.Store().OnLoadComplete(ctx, 0, err)
			return errors.Wrap(errors.ErrCodeStorage, err, "decode groups")
		}
	}

	s.showPreview = true
	if data, ok := vals[kvstore.KeyShowPreview]; ok {
		var flag bool
		if err := json.Unmarshal(data, &flag); err == nil {
			s.showPreview = flag
		}
	}

	observability.Store().OnLoadComplete(ctx, len(s.groups), nil)
	return nil
}

// Groups returns a deep copy of the collection in stored order.
func (s *Store) Groups() []BookmarkGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]BookmarkGroup, len(s.groups))
	for i := range s.groups {
		out[i] = s.groups[i].Clone()
	}
	return out
}

// Group returns a deep copy of the group with the given ID.
func (s *Store) Group(id string) (BookmarkGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == id {
			return s.groups[i].Clone(), true
		}
	}
	return BookmarkGroup{}, false
}

// Len returns the number of groups.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// ShowPreview reports the persisted "show preview" flag.
func (s *Store) ShowPreview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showPreview
}

// SetShowPreview updates the "show preview" flag and persists it.
func (s *Store) SetShowPreview(ctx context.Context, show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showPreview = show
	s.persistPreview(ctx)
}

// EditMode reports whether edit mode is active.
func (s *Store) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// SetEditMode toggles edit mode. While active, link mutations leave group
// sizes untouched; only SetGroupSize changes them.
func (s *Store) SetEditMode(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editMode = active
}

// CreateGroup appends a new group with the given name and persists the
// collection. The name must be non-empty after trimming; the new group
// starts at MinGroupSize with no links and the next palette color.
func (s *Store) CreateGroup(ctx context.Context, name string) (BookmarkGroup, error) {
	if err := errors.ValidateGroupName(name); err != nil {
		return BookmarkGroup{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := BookmarkGroup{
		ID:    s.nextID(),
		Name:  name,
		Color: ColorFor(len(s.groups)),
		Size:  MinGroupSize,
		Links: []QuickLink{},
	}
	s.groups = append(s.groups, g)

	observability.Store().OnMutation(ctx, "createGroup", g.ID)
	s.persistGroups(ctx)
	return g.Clone(), nil
}

// RemoveGroup deletes the group with the given ID. Unknown IDs are a no-op.
func (s *Store) RemoveGroup(ctx context.Context, groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == groupID {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			observability.Store().OnMutation(ctx, "removeGroup", groupID)
			s.persistGroups(ctx)
			return
		}
	}
}

// SetGroupSize stores clamp(size) as the group's tile weight. The clamp is
// unconditional: out-of-range manual overrides must not escape the bounds.
// Unknown IDs are a no-op.
func (s *Store) SetGroupSize(ctx context.Context, groupID string, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == groupID {
			s.groups[i].Size = ClampSize(size)
			observability.Store().OnMutation(ctx, "setGroupSize", groupID)
			s.persistGroups(ctx)
			return
		}
	}
}

// AddLink appends a link to the group and persists. Adding a link whose ID
// the group already holds is a no-op. Outside edit mode the group's size is
// re-derived from the new link count.
func (s *Store) AddLink(ctx context.Context, groupID string, link QuickLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID != groupID {
			continue
		}
		if s.groups[i].HasLink(link.ID) {
			return nil
		}

		s.groups[i].Links = append(s.groups[i].Links, link)
		if !s.editMode {
			s.groups[i].Size = DeriveSize(len(s.groups[i].Links))
		}

		observability.Store().OnMutation(ctx, "addLink", groupID)
		s.persistGroups(ctx)
		return nil
	}
	return errors.New(errors.ErrCodeGroupNotFound, "group %s not found", groupID)
}

// RemoveLink deletes the matching link by ID. Unknown group or link IDs are
// a no-op. Outside edit mode the group's size is re-derived.
func (s *Store) RemoveLink(ctx context.Context, groupID, linkID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID != groupID {
			continue
		}
		for j := range s.groups[i].Links {
			if s.groups[i].Links[j].ID == linkID {
				s.groups[i].Links = append(s.groups[i].Links[:j], s.groups[i].Links[j+1:]...)
				if !s.editMode {
					s.groups[i].Size = DeriveSize(len(s.groups[i].Links))
				}
				observability.Store().OnMutation(ctx, "removeLink", groupID)
				s.persistGroups(ctx)
				return
			}
		}
		return
	}
}

// nextID issues a creation-timestamp ID, bumped when two creations land on
// the same millisecond. Callers hold s.mu.
func (s *Store) nextID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// persistGroups writes the full collection. Callers hold s.mu.
// Failures are logged and reported via hooks, never returned: the UI must
// not block on persistence.
func (s *Store) persistGroups(ctx context.Context) {
	start := time.Now()

	data, err := json.Marshal(s.groups)
	if err == nil {
		err = s.kv.Set(ctx, map[string][]byte{kvstore.KeyGroups: data})
	}

	observability.Store().OnSaveComplete(ctx, len(s.groups), time.Since(start), err)
	if err != nil {
		s.log.Error("persist groups failed", "groups", len(s.groups), "err", err)
	}
}

// persistPreview writes the showPreview flag. Callers hold s.mu.
func (s *Store) persistPreview(ctx context.Context) {
	data, _ := json.Marshal(s.showPreview)
	if err := s.kv.Set(ctx, map[string][]byte{kvstore.KeyShowPreview: data}); err != nil {
		s.log.Error("persist preview flag failed", "err", err)
	}
}
