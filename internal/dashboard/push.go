package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Push message types delivered on the WebSocket channel.
const (
	PushWeather  = "weather"
	PushCalendar = "calendar"
	PushNotes    = "notes"
	PushJarvis   = "jarvis"
)

// DecodePush decodes the data of a push envelope according to its type.
// Calendar payloads are normalized the same way polled ones are. The first
// calendar push after connecting is a bare event list rather than the
// today/upcoming object. Weather and notes carrying an error field are
// rejected so a failed refresh never replaces good data.
func DecodePush(kind string, data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("push %q: empty data", kind)
	}
	switch kind {
	case PushWeather, PushNotes:
		if apiErr := envelopeError("push:"+kind, 0, data); apiErr != nil {
			return nil, fmt.Errorf("push %q: %w", kind, apiErr)
		}
	}
	switch kind {
	case PushWeather:
		var w Weather
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("push %q: %w", kind, err)
		}
		return w, nil
	case PushCalendar:
		var c Calendar
		if data[0] == '[' {
			if err := json.Unmarshal(data, &c.All); err != nil {
				return nil, fmt.Errorf("push %q: %w", kind, err)
			}
			return c.Normalize(), nil
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("push %q: %w", kind, err)
		}
		return c.Normalize(), nil
	case PushNotes:
		var n Notes
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("push %q: %w", kind, err)
		}
		return n, nil
	case PushJarvis:
		var b Briefing
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("push %q: %w", kind, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown push type %q", kind)
	}
}
