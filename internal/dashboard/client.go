package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SpotifyController is the playback surface used by the kiosk keys.
type SpotifyController interface {
	SpotifyPlay(ctx context.Context) error
	SpotifyPause(ctx context.Context) error
	SpotifyNext(ctx context.Context) error
	SpotifyPrevious(ctx context.Context) error
}

// Ensure Client implements SpotifyController at compile time.
var _ SpotifyController = (*Client)(nil)

// Client talks to the dashboard backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:5000"
	defaultUserAgent = "porch/0.1"
	requestTimeout   = 10 * time.Second
	maxResponseBody  = 8 << 20
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// PushURL derives the WebSocket push endpoint from the base URL.
func (c *Client) PushURL(path string) string {
	u := c.BaseURL()
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if strings.TrimSpace(path) == "" {
		path = "/ws"
	}
	u.Path = path
	return u.String()
}

// FetchWeather retrieves current conditions. The backend reports a failed
// upstream fetch as a placeholder body with an error field, which is
// returned as *APIError.
func (c *Client) FetchWeather(ctx context.Context) (Weather, error) {
	var payload Weather
	err := c.get(ctx, "/api/weather", nil, &payload)
	return payload, err
}

// FetchCalendar retrieves today's and upcoming events, normalized.
func (c *Client) FetchCalendar(ctx context.Context) (Calendar, error) {
	var payload Calendar
	if err := c.get(ctx, "/api/calendar", nil, &payload); err != nil {
		return Calendar{}, err
	}
	return payload.Normalize(), nil
}

// FetchNotes retrieves the shared notes.
func (c *Client) FetchNotes(ctx context.Context) (Notes, error) {
	var payload Notes
	err := c.get(ctx, "/api/notes", nil, &payload)
	return payload, err
}

// SaveNotes replaces the shared notes. The backend takes a form field,
// not JSON.
func (c *Client) SaveNotes(ctx context.Context, content string) error {
	form := url.Values{"content": []string{content}}
	return c.do(ctx, request{
		method:      http.MethodPost,
		rel:         &url.URL{Path: "/api/notes"},
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		envelope:    true,
	})
}

// FetchPhotos retrieves the slideshow list.
func (c *Client) FetchPhotos(ctx context.Context) (Photos, error) {
	var payload Photos
	err := c.get(ctx, "/api/photos", nil, &payload)
	return payload, err
}

// FetchBriefing retrieves the Jarvis briefing. force asks the backend to
// regenerate it instead of returning the cached copy.
func (c *Client) FetchBriefing(ctx context.Context, force bool) (Briefing, error) {
	var query url.Values
	if force {
		query = url.Values{"force": []string{"true"}}
	}
	var payload Briefing
	err := c.get(ctx, "/api/jarvis/briefing", query, &payload)
	return payload, err
}

// FetchJarvisStatus reports whether Jarvis is enabled and its model host
// reachable.
func (c *Client) FetchJarvisStatus(ctx context.Context) (JarvisStatus, error) {
	var payload JarvisStatus
	err := c.get(ctx, "/api/jarvis/status", nil, &payload)
	return payload, err
}

// FetchConfig retrieves the backend configuration document.
func (c *Client) FetchConfig(ctx context.Context) (RemoteConfig, error) {
	payload := RemoteConfig{}
	err := c.get(ctx, "/api/config", nil, &payload)
	return payload, err
}

// SaveConfig posts a configuration document back to the backend.
func (c *Client) SaveConfig(ctx context.Context, cfg RemoteConfig) error {
	return c.post(ctx, "/api/config", cfg, nil)
}

// AddEvent creates a quick-add event and returns it as stored.
func (c *Client) AddEvent(ctx context.Context, ev NewEvent) (CalendarEvent, error) {
	if strings.TrimSpace(ev.Title) == "" {
		return CalendarEvent{}, fmt.Errorf("event title required")
	}
	if strings.TrimSpace(ev.Date) == "" {
		return CalendarEvent{}, fmt.Errorf("event date required")
	}
	var payload struct {
		Event CalendarEvent `json:"event"`
	}
	err := c.post(ctx, "/api/events/add", ev, &payload)
	return payload.Event, err
}

// FetchLocalEvents lists quick-add events that are today or later.
func (c *Client) FetchLocalEvents(ctx context.Context) ([]CalendarEvent, error) {
	var payload LocalEvents
	if err := c.get(ctx, "/api/events/local", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Events, nil
}

// DeleteLocalEvent removes a quick-add event by ID.
func (c *Client) DeleteLocalEvent(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("event id required")
	}
	return c.do(ctx, request{
		method:   http.MethodDelete,
		rel:      &url.URL{Path: "/api/events/" + url.PathEscape(id)},
		envelope: true,
	})
}

// FetchNestStatus reports whether the Nest integration is connected. The
// error field of a disconnected status is part of the payload, not a
// failure.
func (c *Client) FetchNestStatus(ctx context.Context) (NestStatus, error) {
	var payload NestStatus
	err := c.do(ctx, request{
		method: http.MethodGet,
		rel:    &url.URL{Path: "/api/integrations/nest/status"},
		dest:   &payload,
	})
	return payload, err
}

// FetchThermostats retrieves every thermostat reading.
func (c *Client) FetchThermostats(ctx context.Context) ([]Thermostat, error) {
	var payload ThermostatReading
	if err := c.get(ctx, "/api/integrations/nest/thermostat", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Thermostats, nil
}

// FetchThermostat retrieves the primary thermostat reading.
func (c *Client) FetchThermostat(ctx context.Context) (Thermostat, error) {
	const path = "/api/integrations/nest/thermostat"
	all, err := c.FetchThermostats(ctx)
	if err != nil {
		return Thermostat{}, err
	}
	if len(all) == 0 {
		return Thermostat{}, &APIError{Path: path, Status: http.StatusOK, Code: CodeNoDevices}
	}
	return all[0], nil
}

// FetchNestDevices lists the raw devices visible to the Nest integration.
func (c *Client) FetchNestDevices(ctx context.Context) ([]NestDevice, error) {
	var payload NestDevices
	if err := c.get(ctx, "/api/integrations/nest/devices", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Devices, nil
}

// NestConnect starts the Nest authorization flow and returns the URL to
// open in a browser.
func (c *Client) NestConnect(ctx context.Context) (string, error) {
	var payload AuthStart
	if err := c.post(ctx, "/api/integrations/nest/connect", nil, &payload); err != nil {
		return "", err
	}
	return payload.AuthURL, nil
}

// NestDisconnect drops the Nest integration.
func (c *Client) NestDisconnect(ctx context.Context) error {
	return c.post(ctx, "/api/integrations/nest/disconnect", nil, nil)
}

// FetchSpotifyStatus reports whether Spotify is linked.
func (c *Client) FetchSpotifyStatus(ctx context.Context) (SpotifyStatus, error) {
	var payload SpotifyStatus
	if err := c.get(ctx, "/api/spotify/status", nil, &payload); err != nil {
		return SpotifyStatus{}, err
	}
	return payload, nil
}

// FetchSpotifyDevices lists Spotify Connect devices.
func (c *Client) FetchSpotifyDevices(ctx context.Context) ([]SpotifyDevice, error) {
	var payload SpotifyDevices
	if err := c.get(ctx, "/api/spotify/devices", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Devices, nil
}

// FetchNowPlaying retrieves the current playback state. An error code in
// a 200 body is surfaced as *APIError.
func (c *Client) FetchNowPlaying(ctx context.Context) (NowPlaying, error) {
	var payload NowPlaying
	if err := c.get(ctx, "/api/spotify/now-playing", nil, &payload); err != nil {
		return NowPlaying{}, err
	}
	return payload, nil
}

// SpotifyConnectURL returns the authorization URL for linking Spotify.
func (c *Client) SpotifyConnectURL(ctx context.Context) (string, error) {
	var payload AuthStart
	if err := c.get(ctx, "/api/spotify/connect", nil, &payload); err != nil {
		return "", err
	}
	return payload.AuthURL, nil
}

// SpotifyManualCallback completes authorization with a pasted redirect URL.
func (c *Client) SpotifyManualCallback(ctx context.Context, redirectURL string) error {
	if strings.TrimSpace(redirectURL) == "" {
		return fmt.Errorf("callback url required")
	}
	body := map[string]string{"callback_url": strings.TrimSpace(redirectURL)}
	return c.post(ctx, "/api/spotify/manual-callback", body, nil)
}

// SpotifyDisconnect unlinks Spotify.
func (c *Client) SpotifyDisconnect(ctx context.Context) error {
	return c.post(ctx, "/api/spotify/disconnect", nil, nil)
}

// SpotifyPlay resumes playback.
func (c *Client) SpotifyPlay(ctx context.Context) error {
	return c.post(ctx, "/api/spotify/play", nil, nil)
}

// SpotifyPause pauses playback.
func (c *Client) SpotifyPause(ctx context.Context) error {
	return c.post(ctx, "/api/spotify/pause", nil, nil)
}

// SpotifyNext skips to the next track.
func (c *Client) SpotifyNext(ctx context.Context) error {
	return c.post(ctx, "/api/spotify/next", nil, nil)
}

// SpotifyPrevious returns to the previous track.
func (c *Client) SpotifyPrevious(ctx context.Context) error {
	return c.post(ctx, "/api/spotify/previous", nil, nil)
}

// SpotifyTransfer moves playback to the given device.
func (c *Client) SpotifyTransfer(ctx context.Context, deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return fmt.Errorf("device id required")
	}
	body := map[string]string{"device_id": strings.TrimSpace(deviceID)}
	return c.post(ctx, "/api/spotify/transfer", body, nil)
}

// request is one backend call. envelope makes a 2xx body carrying an
// error field fail with *APIError.
type request struct {
	method      string
	rel         *url.URL
	body        io.Reader
	contentType string
	dest        any
	envelope    bool
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	return c.do(ctx, request{method: http.MethodGet, rel: rel, dest: dest, envelope: true})
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	req := request{method: http.MethodPost, rel: &url.URL{Path: path}, dest: dest, envelope: true}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.body = bytes.NewReader(encoded)
		req.contentType = "application/json"
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, r request) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(r.rel)

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL.String(), r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return apiErrorFrom(r.rel.Path, resp.StatusCode, raw)
	}
	if r.envelope {
		if apiErr := envelopeError(r.rel.Path, resp.StatusCode, raw); apiErr != nil {
			return apiErr
		}
	}
	if r.dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, r.dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorEnvelope covers every failure shape the backend returns:
// {"error": {code, message}}, {"error": code, "message": text} and
// {"success": false, "error": text}. Token exchanges put the reason in
// details; FastAPI's own errors use detail.
type errorEnvelope struct {
	Error   *ErrorDetail `json:"error"`
	Message string       `json:"message"`
	Details any          `json:"details"`
	Success *bool        `json:"success"`
	Detail  any          `json:"detail"`
}

func (env errorEnvelope) failed() bool {
	return !env.Error.Empty() || (env.Success != nil && !*env.Success)
}

func (env errorEnvelope) apply(apiErr *APIError) {
	if env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(env.Message)
	}
	for _, extra := range []any{env.Details, env.Detail} {
		if s, ok := extra.(string); ok && apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(s)
		}
	}
}

// envelopeError returns the error carried by a 2xx body, or nil. Bodies
// that are not JSON objects never carry one.
func envelopeError(path string, status int, raw []byte) *APIError {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var env errorEnvelope
	if json.Unmarshal(trimmed, &env) != nil || !env.failed() {
		return nil
	}
	apiErr := &APIError{Path: path, Status: status}
	env.apply(apiErr)
	return apiErr
}

func apiErrorFrom(path string, status int, raw []byte) error {
	apiErr := &APIError{Path: path, Status: status}
	var env errorEnvelope
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &env) == nil {
		env.apply(apiErr)
	}
	return apiErr
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
