package state

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/five82/porch/internal/dashboard"
)

// Domain is one category of displayed data.
type Domain string

const (
	Weather  Domain = "weather"
	Calendar Domain = "calendar"
	Notes    Domain = "notes"
	Jarvis   Domain = "jarvis"
	Nest     Domain = "nest"
	Spotify  Domain = "spotify"
	Photos   Domain = "photos"
)

// Domains lists every domain in display order.
var Domains = []Domain{Weather, Calendar, Notes, Jarvis, Nest, Spotify, Photos}

// ParseDomain maps a push message type or CLI argument to a Domain.
func ParseDomain(s string) (Domain, bool) {
	for _, d := range Domains {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// DefaultPayload is what Get returns for a domain that never received data.
func DefaultPayload(d Domain) any {
	switch d {
	case Weather:
		return dashboard.Weather{Description: "Unavailable"}
	case Calendar:
		return dashboard.Calendar{Today: []dashboard.CalendarEvent{}, Upcoming: []dashboard.CalendarEvent{}}
	case Notes:
		return dashboard.Notes{}
	case Jarvis:
		return dashboard.Briefing{}
	case Nest:
		return dashboard.Nest{}
	case Spotify:
		return dashboard.Spotify{}
	case Photos:
		return dashboard.Photos{}
	default:
		return nil
	}
}

// DomainState is the last-known-good value for one domain.
type DomainState struct {
	Domain    Domain
	Payload   any
	UpdatedAt time.Time // issue time of the request or receipt time of the push
	HasData   bool
	Stale     bool
	LastError error
	Failures  int // consecutive failures since the last good update
}

// IsOffline returns true when the domain has failed repeatedly.
func (s DomainState) IsOffline() bool {
	return s.Failures >= 2
}

// Value returns the payload of st as T, falling back to the domain default.
func Value[T any](st DomainState) T {
	if v, ok := st.Payload.(T); ok {
		return v
	}
	if v, ok := DefaultPayload(st.Domain).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Renderer is invoked with the new state of a domain it subscribed to.
type Renderer func(DomainState)

// Store holds one DomainState per domain and notifies per-domain
// subscribers when canonical data changes.
type Store struct {
	mu      sync.RWMutex
	domains map[Domain]DomainState
	subs    map[Domain][]Renderer
}

// Subscribe registers fn for updates to d. Only d's subscribers are called
// when d changes.
func (s *Store) Subscribe(d Domain, fn Renderer) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[Domain][]Renderer)
	}
	s.subs[d] = append(s.subs[d], fn)
}

// Update replaces the payload for d. Responses stamped before the stored
// UpdatedAt are discarded and Update reports false. Subscribers run only
// when the payload differs from the stored one.
func (s *Store) Update(d Domain, payload any, at time.Time) bool {
	s.mu.Lock()
	cur := s.domains[d]
	if cur.HasData && at.Before(cur.UpdatedAt) {
		s.mu.Unlock()
		return false
	}
	changed := !cur.HasData || cur.Stale || !reflect.DeepEqual(cur.Payload, payload)
	next := DomainState{
		Domain:    d,
		Payload:   payload,
		UpdatedAt: at,
		HasData:   true,
	}
	s.set(d, next)
	subs := s.subscribers(d, changed)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
	return true
}

// Fail records a fetch failure for d. The previous payload is kept and
// marked stale; subscribers are told so the display can flag it.
func (s *Store) Fail(d Domain, err error) {
	s.mu.Lock()
	cur := s.domains[d]
	cur.Domain = d
	cur.LastError = err
	cur.Failures++
	wasStale := cur.Stale
	cur.Stale = true
	s.set(d, cur)
	subs := s.subscribers(d, !wasStale)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cur.clone())
	}
}

// Restore seeds d from a persisted snapshot. The value is marked stale and
// subscribers are not notified; any real update replaces it.
func (s *Store) Restore(d Domain, payload any, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.domains[d]; cur.HasData {
		return
	}
	s.set(d, DomainState{Domain: d, Payload: payload, UpdatedAt: at, HasData: true, Stale: true})
}

// Get returns the state of d, substituting the default payload when no
// data has arrived yet.
func (s *Store) Get(d Domain) DomainState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.domains[d]
	if !ok {
		st = DomainState{Domain: d}
	}
	if st.Payload == nil {
		st.Payload = DefaultPayload(d)
	}
	return st.clone()
}

// Snapshot returns the state of every domain.
func (s *Store) Snapshot() map[Domain]DomainState {
	out := make(map[Domain]DomainState, len(Domains))
	for _, d := range Domains {
		out[d] = s.Get(d)
	}
	return out
}

func (s *Store) set(d Domain, st DomainState) {
	if s.domains == nil {
		s.domains = make(map[Domain]DomainState)
	}
	s.domains[d] = st
}

func (s *Store) subscribers(d Domain, changed bool) []Renderer {
	if !changed || len(s.subs[d]) == 0 {
		return nil
	}
	out := make([]Renderer, len(s.subs[d]))
	copy(out, s.subs[d])
	return out
}

// clone copies the error so callers never share the stored instance.
func (s DomainState) clone() DomainState {
	if s.LastError != nil {
		s.LastError = fmt.Errorf("%w", s.LastError)
	}
	return s
}
