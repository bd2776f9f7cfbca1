// Package app is the composition root of the porch kiosk.
//
// # Overview
//
// Run wires configuration, the backend client, the view state store, the
// snapshot cache, the push channel, the poll scheduler, the cron jobs and
// the UI, then blocks in the Bubble Tea program until the user quits.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          ~/.config/porch/config.toml
//	       ├─────> openLog()              log_path, never the terminal
//	       ├─────> dashboard.NewClient()  HTTP client
//	       ├─────> cache.RestoreInto()    stale snapshots before first poll
//	       ├─────> push.New()             WebSocket manager
//	       ├─────> NewPoller()            per-domain poll timers
//	       ├─────> newCron()              briefing and rollover jobs
//	       └─────> ui.Run()               blocks; Start() connects and polls
//
// # Poll Scheduler
//
// Every domain has its own repeating timer named "poll:<domain>". A run
// stamps the time it was issued, fetches, and hands the payload and stamp
// to the store. Runs are goroutines and may overlap; the store drops a
// result stamped before the data it already holds.
//
// Nest and Spotify are gated. A status check on "gate:<domain>" runs every
// five minutes. While the integration reports connected the data poll
// (60s thermostat, 3s now-playing) is scheduled; when it reports
// disconnected the poll timer is cancelled and the store receives the
// status-only payload, so no data request is made at all.
//
// Trigger and TriggerAll run jobs immediately and restart their intervals.
// A domain triggered again within two seconds is skipped, which absorbs
// bursts of focus events and key repeats.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or invalid, including bad cron expressions
//   - Log file cannot be opened
//   - Client construction failure
//
// Everything else is logged and retried: poll failures mark the domain
// stale, push loss schedules a reconnect, malformed push payloads keep
// the previous state.
package app
