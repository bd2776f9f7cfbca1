// Package ui provides the Bubble Tea kiosk view for porch.
//
// # Architecture Overview
//
// One Bubble Tea program owns the terminal and all UI state. Nothing else
// touches the model: store subscribers and push state watchers run on
// network goroutines and forward what they see with Program.Send.
//
//	state.Store ──Subscribe──> p.Send(domainMsg) ──┐
//	push.Manager ─OnStateChange─> p.Send(pushStateMsg) ─┼──> Model.Update
//	tea.Tick (clock, cycle, slideshow) ──────────────┘
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and Run
//   - actions.go: key bindings, the action registry and built-in handlers
//   - cards.go: per-domain card rendering and the glass frame
//   - calendar.go: today/upcoming rotation driven by cycle.Controller
//   - slideshow.go: photo caption rotation
//   - player.go: Spotify transport commands
//   - layout.go: landscape and portrait composition
//   - statusbar.go: push state, stale domains, last action notice
//   - theme.go, style_helpers.go: palettes and Lipgloss helpers
//   - help.go: key binding overlay
//
// # Rendering
//
// Cards are rendered when their domain changes and cached in the model.
// A domainMsg for weather re-renders the weather card only; View just
// stitches cached strings together. Preference changes re-render every
// card. The clock and status bar are cheap and drawn on every View.
//
// Hidden cards render as the empty string: Nest unless the integration
// reports connected, Spotify unless a track is actually playing.
//
// # Timers
//
// The calendar cards rotate every five seconds. Each tick carries the
// controller's generation; new calendar data resets the controller and
// bumps the generation, so ticks from the previous rotation die on
// arrival instead of needing to be cancelled. The slideshow uses the same
// scheme with its own generation, so toggling it off and on never leaves
// two rotations running.
//
// # Actions
//
// Keys map to named actions in a Registry; handlers subscribe to actions.
// Terminal focus regain triggers a full refresh, like a browser tab
// becoming visible again.
package ui
