package viewstate

import (
	"strings"
	"sync"
)

// Phase identifies which direction of the sync, if any, is currently
// executing. Transitions are guarded so the two directions can never commit
// destructively within the same cycle.
type Phase int

// Sync phases.
const (
	PhaseIdle Phase = iota
	PhaseSyncingFromLocation
	PhaseSyncingToLocation
)

// SyncResult describes the outcome of an inbound sync pass.
type SyncResult int

// Inbound sync outcomes.
const (
	// SyncUnchanged means the location already matched the stored state.
	SyncUnchanged SyncResult = iota
	// SyncCommitted means the stored params and hash were replaced.
	SyncCommitted
	// SyncDeferred means an "id" parameter could not be resolved because
	// the name index is still loading. The caller re-runs the pass once
	// the index becomes ready.
	SyncDeferred
)

// Location is the address-bar state a sync pass reads and writes.
type Location struct {
	Path     string
	RawQuery string // without the leading "?"
	Hash     string // with the leading "#", or empty
}

// Navigation is a replace-style location update emitted by the outbound
// sync. Replace semantics: the new location substitutes the current history
// entry rather than pushing a new one.
type Navigation struct {
	Path     string
	RawQuery string
	Hash     string
}

// URL renders the navigation target as path + query + fragment.
func (n Navigation) URL() string {
	var sb strings.Builder
	sb.WriteString(n.Path)
	if n.RawQuery != "" {
		sb.WriteByte('?')
		sb.WriteString(n.RawQuery)
	}
	sb.WriteString(n.Hash)
	return sb.String()
}

// Resolver resolves item ids against the name index. Ready reports whether
// the index load has settled (successfully or not); Resolve returns the
// owning tkv for an id.
type Resolver interface {
	Ready() bool
	Resolve(id string) (tkv string, ok bool)
}

// Machine holds the view parameters and hash and applies the bidirectional
// sync protocol between them and a Location. At most one direction commits
// per cycle: an inbound commit suppresses the outbound echo until the next
// BeginCycle.
type Machine struct {
	mu       sync.Mutex
	resolver Resolver

	params Params
	hash   string

	phase   Phase
	changed bool // an inbound commit happened this cycle
}

// NewMachine creates a Machine with empty parameters backed by resolver.
func NewMachine(resolver Resolver) *Machine {
	return &Machine{
		resolver: resolver,
		params:   make(Params),
	}
}

// Params returns a copy of the stored view parameters.
func (m *Machine) Params() Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params.Clone()
}

// Hash returns the stored hash, including its leading "#" when set.
func (m *Machine) Hash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hash
}

// Phase returns the current sync phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// SetParams replaces the stored parameters. Mutations funnel through the
// same protocol as inbound commits: the next outbound pass observes them.
func (m *Machine) SetParams(p Params) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = p.Clone()
}

// SetHash replaces the stored hash verbatim.
func (m *Machine) SetHash(hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hash = hash
}

// BeginCycle starts a new update cycle, clearing the inbound-commit flag.
func (m *Machine) BeginCycle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = PhaseIdle
	m.changed = false
}

// SyncFromLocation applies the inbound direction: the location's query and
// hash become the stored state. A present "id" parameter is resolved through
// the name index: on a hit the owning tkv is split into t/k/v, the id moves
// into the hash, and the id parameter is dropped; on a miss it is carried
// through untouched. While the index is still loading the pass is deferred
// entirely.
func (m *Machine) SyncFromLocation(loc Location) SyncResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseIdle {
		return SyncUnchanged
	}
	m.phase = PhaseSyncingFromLocation
	defer func() { m.phase = PhaseIdle }()

	hash := loc.Hash
	candidates := DecodeQuery(loc.RawQuery)

	if id := candidates["id"]; id != "" {
		if !m.resolver.Ready() {
			return SyncDeferred
		}
		if tkv, ok := m.resolver.Resolve(id); ok {
			parts := strings.SplitN(tkv, "/", 3)
			for i, key := range []string{"t", "k", "v"} {
				if i < len(parts) {
					candidates[key] = parts[i]
				}
			}
			delete(candidates, "id")
			hash = "#" + id
		}
	}

	if hash == m.hash && candidates.Equal(m.params) {
		return SyncUnchanged
	}

	m.hash = hash
	m.params = candidates
	m.changed = true
	return SyncCommitted
}

// SyncToLocation applies the outbound direction: the stored parameters are
// encoded in canonical key order and compared against the location. A
// navigation is emitted only when the index is ready, the inbound pass did
// not already commit this cycle, and the query string or hash actually
// differ.
func (m *Machine) SyncToLocation(loc Location) (Navigation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseIdle {
		return Navigation{}, false
	}
	m.phase = PhaseSyncingToLocation
	defer func() { m.phase = PhaseIdle }()

	if !m.resolver.Ready() {
		return Navigation{}, false
	}

	query := EncodePairs(CanonicalPairs(m.params))

	if m.changed {
		return Navigation{}, false
	}
	if query == loc.RawQuery && m.hash == loc.Hash {
		return Navigation{}, false
	}

	return Navigation{
		Path:     loc.Path,
		RawQuery: query,
		Hash:     m.hash,
	}, true
}
