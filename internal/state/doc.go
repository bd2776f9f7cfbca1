// Package state holds the view state for every dashboard domain.
//
// # Overview
//
// The Store is the meeting point of the two data sources: the poll
// scheduler and the push channel. Both hand it full replacement payloads;
// neither sends deltas. The UI never reads the network directly, it only
// renders what the store tells it.
//
//	Poller ──┐                    ┌──> weather renderer
//	         ├──> store.Update() ─┼──> calendar renderer
//	Push  ───┘   (per domain)     └──> ...
//
// # Update Semantics
//
// Update is last-write-wins by timestamp, not by arrival:
//
//	store.Update(d, payload, issuedAt)
//	→ issuedAt before stored UpdatedAt: no-op, returns false
//	→ otherwise payload replaced, UpdatedAt = issuedAt, Stale cleared
//	→ subscribers of d called only if the payload changed
//
// Poll results are stamped with the time the request was issued and push
// messages with the time they were received, so a slow poll that started
// before a push arrived cannot overwrite the pushed data.
//
// Change detection uses reflect.DeepEqual. Identical content arriving on
// every five-minute poll therefore causes no re-render.
//
// Fail keeps the previous payload, records the error and marks the domain
// stale. Subscribers hear about the first failure so the display can dim
// the card; repeated failures are silent until the domain recovers.
//
// # Defaults
//
// Get never returns a nil payload. Domains without data yield the value
// from DefaultPayload: empty calendar lists, an "Unavailable" weather
// description, disconnected Nest and Spotify. Renderers only have to vary
// display text, not branch on presence.
//
// # Concurrency
//
// Writers are poll goroutines and the push reader. The store guards its
// map with a RWMutex and calls subscribers after unlocking, so a
// subscriber may call back into Get. Payloads are treated as immutable
// values once handed to the store; callers replace, never mutate.
package state
