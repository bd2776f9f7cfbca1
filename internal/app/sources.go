package app

import (
	"context"
	"errors"
	"time"

	"github.com/five82/porch/internal/config"
	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/state"
)

// schedulePolls registers every domain's job with p.
func schedulePolls(p *Poller, store *state.Store, client *dashboard.Client, iv config.Intervals) {
	p.Schedule(state.Weather, iv.Weather, func(ctx context.Context) (any, error) {
		return client.FetchWeather(ctx)
	})
	p.Schedule(state.Calendar, iv.Calendar, func(ctx context.Context) (any, error) {
		return client.FetchCalendar(ctx)
	})
	p.Schedule(state.Notes, iv.Notes, func(ctx context.Context) (any, error) {
		return client.FetchNotes(ctx)
	})
	p.Schedule(state.Jarvis, iv.Jarvis, briefingFetch(client, false))
	p.Schedule(state.Photos, iv.Photos, func(ctx context.Context) (any, error) {
		return client.FetchPhotos(ctx)
	})
	p.Gate(state.Nest, nestGate(store, client, iv.NestStatus, iv.Nest))
	p.Gate(state.Spotify, spotifyGate(store, client, iv.SpotifyStatus, iv.Spotify))
}

func briefingFetch(client *dashboard.Client, force bool) FetchFunc {
	return func(ctx context.Context) (any, error) {
		return client.FetchBriefing(ctx, force)
	}
}

// nestGate polls the thermostat only while Nest reports connected.
func nestGate(store *state.Store, client *dashboard.Client, every, interval time.Duration) GateSpec {
	return GateSpec{
		Every:    every,
		Interval: interval,
		Check: func(ctx context.Context) (any, bool, error) {
			st, err := client.FetchNestStatus(ctx)
			if err != nil {
				return nil, false, err
			}
			return dashboard.Nest{Status: st}, st.Connected, nil
		},
		Fetch: func(ctx context.Context) (any, error) {
			t, err := client.FetchThermostat(ctx)
			if err != nil {
				return nil, err
			}
			cur := state.Value[dashboard.Nest](store.Get(state.Nest))
			return dashboard.Nest{Status: cur.Status, Thermostat: &t}, nil
		},
		Lost: func(err error) (any, bool) {
			if !authLost(err) {
				return nil, false
			}
			cur := state.Value[dashboard.Nest](store.Get(state.Nest))
			var apiErr *dashboard.APIError
			errors.As(err, &apiErr)
			return dashboard.Nest{Status: dashboard.NestStatus{
				Configured: cur.Status.Configured,
				Error:      &dashboard.ErrorDetail{Code: apiErr.Code, Message: apiErr.Message},
			}}, true
		},
	}
}

// spotifyGate polls now-playing only while Spotify reports connected. A
// missing playback device is a normal idle state, not a failure. A lost
// authorization stops the poll until the next status check says otherwise.
func spotifyGate(store *state.Store, client *dashboard.Client, every, interval time.Duration) GateSpec {
	return GateSpec{
		Every:    every,
		Interval: interval,
		Check: func(ctx context.Context) (any, bool, error) {
			st, err := client.FetchSpotifyStatus(ctx)
			if err != nil {
				return nil, false, err
			}
			return dashboard.Spotify{Status: st}, st.Connected, nil
		},
		Fetch: func(ctx context.Context) (any, error) {
			cur := state.Value[dashboard.Spotify](store.Get(state.Spotify))
			np, err := client.FetchNowPlaying(ctx)
			switch {
			case dashboard.Code(err) == dashboard.CodeNoDevice:
				np = dashboard.NowPlaying{Error: &dashboard.ErrorDetail{Code: dashboard.CodeNoDevice}}
			case err != nil:
				return nil, err
			}
			return dashboard.Spotify{Status: cur.Status, NowPlaying: &np}, nil
		},
		Lost: func(err error) (any, bool) {
			if !authLost(err) {
				return nil, false
			}
			cur := state.Value[dashboard.Spotify](store.Get(state.Spotify))
			return dashboard.Spotify{Status: dashboard.SpotifyStatus{
				Configured: cur.Status.Configured,
				Message:    dashboard.StatusText(err),
			}}, true
		},
	}
}

// authLost reports whether a data fetch failed because the integration's
// authorization is gone.
func authLost(err error) bool {
	switch dashboard.Code(err) {
	case dashboard.CodeNotConnected, dashboard.CodeNeedsReauth:
		return true
	}
	return false
}
