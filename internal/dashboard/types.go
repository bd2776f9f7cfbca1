package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
)

// Reading is a numeric field the backend may send as a number, as null, or
// as a placeholder string such as "--" when the source is unavailable.
type Reading struct {
	Value float64
	Valid bool
}

// Num returns a valid Reading.
func Num(v float64) Reading { return Reading{Value: v, Valid: true} }

// UnmarshalJSON accepts numbers, numeric strings, null and placeholders.
func (r *Reading) UnmarshalJSON(data []byte) error {
	*r = Reading{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*r = Num(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("reading: %w", err)
	}
	*r = Num(v)
	return nil
}

// MarshalJSON writes null for an invalid reading.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Format rounds to the given number of decimals, or returns "--".
func (r Reading) Format(decimals int) string {
	if !r.Valid {
		return "--"
	}
	if decimals <= 0 {
		return strconv.Itoa(int(math.Round(r.Value)))
	}
	return strconv.FormatFloat(r.Value, 'f', decimals, 64)
}

// ErrorDetail is the backend's error field. Integration managers send an
// object {code, message}; route handlers send a bare string.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON accepts an object, a string or null. A bare string that
// looks like a snake_case identifier is a code; anything else is a message.
func (e *ErrorDetail) UnmarshalJSON(data []byte) error {
	*e = ErrorDetail{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if isCode(s) {
			e.Code = s
		} else {
			e.Message = s
		}
		return nil
	}
	type plain ErrorDetail
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("error detail: %w", err)
	}
	*e = ErrorDetail(p)
	return nil
}

// Empty reports whether neither a code nor a message is set.
func (e *ErrorDetail) Empty() bool {
	return e == nil || (e.Code == "" && e.Message == "")
}

func isCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '_' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// MoonPhase is the backend's moon description for night display.
type MoonPhase struct {
	Name         string  `json:"name"`
	Emoji        string  `json:"emoji"`
	Illumination Reading `json:"illumination"`
}

// Weather mirrors /api/weather and the weather push.
type Weather struct {
	Icon          string     `json:"icon"`
	Temp          Reading    `json:"temp"`
	FeelsLike     Reading    `json:"feels_like"`
	Description   string     `json:"description"`
	Humidity      Reading    `json:"humidity"`
	WeatherID     int        `json:"weather_id"`
	IsNight       bool       `json:"is_night"`
	Sunrise       string     `json:"sunrise,omitempty"`
	Sunset        string     `json:"sunset,omitempty"`
	WindSpeed     Reading    `json:"wind_speed"`
	WeatherEffect string     `json:"weather_effect"`
	MoonPhase     *MoonPhase `json:"moon_phase,omitempty"`
	Unit          string     `json:"unit"`
	Location      string     `json:"location"`
	LastUpdate    string     `json:"last_update,omitempty"`
}

// Notes mirrors /api/notes and the notes push.
type Notes struct {
	Content      string `json:"content"`
	Exists       bool   `json:"exists"`
	LastModified string `json:"last_modified"`
}

// Lines returns the non-empty note lines.
func (n Notes) Lines() []string {
	var out []string
	for _, line := range strings.Split(n.Content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, " \t\r"))
	}
	return out
}

// Briefing sources reported by the backend.
const (
	BriefingCached   = "cached"
	BriefingDisabled = "disabled"
)

// Briefing mirrors /api/jarvis/briefing and the jarvis push.
type Briefing struct {
	Message     string `json:"message"`
	Source      string `json:"source"`
	Trigger     string `json:"trigger,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

// Cached reports whether the backend reused its previous briefing.
func (b Briefing) Cached() bool { return b.Source == BriefingCached }

// JarvisStatus mirrors /api/jarvis/status.
type JarvisStatus struct {
	Enabled          bool            `json:"jarvis_enabled"`
	FerretBox        FerretBoxStatus `json:"ferretbox"`
	LastBriefingTime string          `json:"last_briefing_time"`
}

// FerretBoxStatus is the reachability of the model host behind Jarvis.
type FerretBoxStatus struct {
	Online bool   `json:"online"`
	Error  string `json:"error,omitempty"`
}

// NestStatus mirrors /api/integrations/nest/status. Error is set while
// the integration is not connected.
type NestStatus struct {
	Configured         bool         `json:"configured"`
	Connected          bool         `json:"connected"`
	LastSuccessfulSync string       `json:"last_successful_sync,omitempty"`
	Error              *ErrorDetail `json:"error,omitempty"`
}

// Thermostat is one normalized entry of /api/integrations/nest/thermostat.
// Temperatures are Fahrenheit as reported by the backend.
type Thermostat struct {
	DeviceID       string   `json:"device_id"`
	DisplayName    string   `json:"display_name"`
	AmbientF       Reading  `json:"ambient_temperature_f"`
	AmbientC       Reading  `json:"ambient_temperature_c"`
	Humidity       Reading  `json:"humidity_percent"`
	HVACMode       string   `json:"hvac_mode"`
	HVACStatus     string   `json:"hvac_status"`
	AvailableModes []string `json:"available_modes,omitempty"`
	HeatSetpointF  Reading  `json:"heat_setpoint_f"`
	CoolSetpointF  Reading  `json:"cool_setpoint_f"`
	EcoMode        string   `json:"eco_mode"`
	EcoHeatF       Reading  `json:"eco_heat_f"`
	EcoCoolF       Reading  `json:"eco_cool_f"`
	FanStatus      string   `json:"fan_status"`
	Connectivity   string   `json:"connectivity"`
	IsOnline       bool     `json:"is_online"`
}

// SetpointText describes what the thermostat is holding to: a single
// setpoint for HEAT or COOL, a range for HEATCOOL or eco, "off" otherwise.
func (t Thermostat) SetpointText() string {
	span := func(lo, hi Reading) string {
		switch {
		case lo.Valid && hi.Valid:
			return lo.Format(0) + "–" + hi.Format(0) + "°"
		case lo.Valid:
			return lo.Format(0) + "°"
		case hi.Valid:
			return hi.Format(0) + "°"
		}
		return ""
	}
	if strings.EqualFold(t.EcoMode, "MANUAL_ECO") {
		if s := span(t.EcoHeatF, t.EcoCoolF); s != "" {
			return "eco " + s
		}
		return "eco"
	}
	switch strings.ToUpper(t.HVACMode) {
	case "HEAT":
		return span(t.HeatSetpointF, Reading{})
	case "COOL":
		return span(Reading{}, t.CoolSetpointF)
	case "HEATCOOL":
		return span(t.HeatSetpointF, t.CoolSetpointF)
	}
	return "off"
}

// ThermostatReading mirrors the /api/integrations/nest/thermostat body.
type ThermostatReading struct {
	Connected   bool         `json:"connected"`
	LastSync    string       `json:"last_sync,omitempty"`
	Thermostats []Thermostat `json:"thermostats"`
	Error       *ErrorDetail `json:"error,omitempty"`
}

// NestDevice is one raw SDM device from /api/integrations/nest/devices.
type NestDevice struct {
	Name   string                    `json:"name"`
	Type   string                    `json:"type"`
	Traits map[string]map[string]any `json:"traits,omitempty"`
}

// ID is the last segment of the SDM resource name.
func (d NestDevice) ID() string {
	return path.Base(d.Name)
}

// Kind is the SDM type without its sdm.devices.types prefix.
func (d NestDevice) Kind() string {
	if i := strings.LastIndex(d.Type, "."); i >= 0 {
		return d.Type[i+1:]
	}
	return d.Type
}

// Label is the device's custom name, falling back to a short ID.
func (d NestDevice) Label() string {
	if info, ok := d.Traits["sdm.devices.traits.Info"]; ok {
		if name, ok := info["customName"].(string); ok && strings.TrimSpace(name) != "" {
			return name
		}
	}
	id := d.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// NestDevices mirrors /api/integrations/nest/devices.
type NestDevices struct {
	Devices []NestDevice `json:"devices"`
}

// Nest is the view payload for the nest domain: the connection status and,
// while connected, the primary thermostat.
type Nest struct {
	Status     NestStatus  `json:"status"`
	Thermostat *Thermostat `json:"thermostat,omitempty"`
}

// Visible reports whether the Nest section should be shown at all.
func (n Nest) Visible() bool {
	return n.Status.Connected
}

// SpotifyUser is the linked account's profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Image       string `json:"image"`
}

// SpotifyStatus mirrors /api/spotify/status. Message explains why the
// account is not connected.
type SpotifyStatus struct {
	Configured bool         `json:"configured"`
	Connected  bool         `json:"connected"`
	Message    string       `json:"message,omitempty"`
	User       *SpotifyUser `json:"user,omitempty"`
}

// Track describes the currently playing item.
type Track struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Image      string `json:"image"`
	DurationMS int    `json:"duration_ms"`
}

// SpotifyDevice is a Spotify Connect playback target. The device inside
// now-playing carries only Name, Type and Volume.
type SpotifyDevice struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active,omitempty"`
	Volume   int    `json:"volume"`
}

// SpotifyDevices mirrors /api/spotify/devices.
type SpotifyDevices struct {
	Devices []SpotifyDevice `json:"devices"`
}

// NowPlaying mirrors /api/spotify/now-playing. Error is only set on the
// idle payload stored when no device is active.
type NowPlaying struct {
	IsPlaying  bool           `json:"is_playing"`
	ProgressMS int            `json:"progress_ms"`
	Track      *Track         `json:"track"`
	Device     *SpotifyDevice `json:"device"`
	Error      *ErrorDetail   `json:"error,omitempty"`
}

// Spotify is the view payload for the spotify domain.
type Spotify struct {
	Status     SpotifyStatus `json:"status"`
	NowPlaying *NowPlaying    `json:"now_playing,omitempty"`
}

// PlayerVisible reports whether the compact player should be shown. A paused
// track is hidden even when the backend still reports it.
func (s Spotify) PlayerVisible() bool {
	return s.NowPlaying != nil && s.NowPlaying.IsPlaying && s.NowPlaying.Track != nil
}

// AuthStart mirrors the OAuth start responses of /api/spotify/connect and
// POST /api/integrations/nest/connect.
type AuthStart struct {
	AuthURL      string `json:"auth_url"`
	ManualFlow   bool   `json:"manual_flow,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Photo is a single slideshow entry.
type Photo struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// Label is the text shown for the photo in a terminal.
func (p Photo) Label() string {
	if n := strings.TrimSpace(p.Filename); n != "" {
		return n
	}
	return path.Base(p.URL)
}

// Photos mirrors /api/photos, newest first.
type Photos struct {
	Photos []Photo `json:"photos"`
	Count  int     `json:"count"`
}

// RemoteConfig is the backend's free-form configuration document.
type RemoteConfig map[string]any

// NewEvent is the body of POST /api/events/add.
type NewEvent struct {
	Title  string `json:"title"`
	Date   string `json:"date"`
	Time   string `json:"time,omitempty"`
	AllDay bool   `json:"all_day"`
	Notes  string `json:"notes,omitempty"`
}

// LocalEvents mirrors /api/events/local: quick-add events stored by the
// backend itself rather than a calendar account.
type LocalEvents struct {
	Events []CalendarEvent `json:"events"`
}
