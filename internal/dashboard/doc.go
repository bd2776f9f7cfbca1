// Package dashboard provides an HTTP client for the home-dashboard backend.
//
// # Overview
//
// The backend fetches weather, calendars, notes, the Jarvis briefing, Nest
// and Spotify data and exposes them as JSON. This package is the typed
// client for that API plus the decoder for messages on the push channel.
//
// # Files
//
//   - client.go: HTTP client, one method per endpoint
//   - types.go: payloads mirroring the backend schema
//   - calendar.go: calendar payload, event time parsing and normalization
//   - errors.go: APIError and the error-code to status-text mapping
//   - push.go: decoding of push envelope data by message type
//
// # Endpoints
//
// Read:
//
//   - GET /api/weather, /api/calendar, /api/notes, /api/photos
//   - GET /api/config, /api/jarvis/briefing[?force=true]
//   - GET /api/integrations/nest/{status,thermostat,devices}
//   - GET /api/spotify/{status,devices,now-playing,connect}
//
// Write:
//
//   - POST /api/events/add, /api/config
//   - POST /api/integrations/nest/{connect,disconnect}
//   - POST /api/spotify/{disconnect,play,pause,next,previous,transfer,manual-callback}
//
// # Error Handling
//
// Responses with status >= 400 become *APIError. When the body carries
// {"error": "...", "message": "..."} the code and message are kept so
// callers can branch on Code(err). Spotify's now-playing endpoint may
// report an error code in a 200 body; that is surfaced the same way.
//
// StatusText turns any error into the short line shown on the kiosk:
// not_connected, needs_reauth and no_device have fixed wording, anything
// else reads "Unavailable". None of these are fatal to the display.
//
// # Calendar Ordering
//
// Calendar payloads returned by FetchCalendar and DecodePush are always
// normalized: Today and Upcoming sorted ascending by start time, with the
// flat is_today/is_upcoming list partitioned when the backend sends the
// older shape. The first entry of each list is the pinned entry.
package dashboard
