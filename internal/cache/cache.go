// Package cache keeps the last-known-good payload of each dashboard domain
// on disk so a restarted kiosk has something to show before the first poll.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/logs"
	"github.com/five82/porch/internal/state"
)

// Snapshot is the on-disk form of one domain.
type Snapshot struct {
	UpdatedAt time.Time       `json:"updated_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Cache stores one snapshot per domain under a base directory.
type Cache struct {
	d *diskv.Diskv
}

// Open returns a cache rooted at dir, creating it when missing.
func Open(dir string) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func key(d state.Domain) string {
	return filepath.Base(string(d)) + ".json"
}

// Save writes payload for d.
func (c *Cache) Save(d state.Domain, payload any, at time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", d, err)
	}
	body, err := json.Marshal(Snapshot{UpdatedAt: at, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", d, err)
	}
	if err := c.d.Write(key(d), body); err != nil {
		return fmt.Errorf("write %s snapshot: %w", d, err)
	}
	return nil
}

// Load reads the snapshot for d and decodes its payload into the type the
// store holds for that domain.
func (c *Cache) Load(d state.Domain) (any, time.Time, error) {
	body, err := c.d.Read(key(d))
	if err != nil {
		return nil, time.Time{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode %s snapshot: %w", d, err)
	}
	payload, err := decodePayload(d, snap.Payload)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, snap.UpdatedAt, nil
}

// Erase removes the snapshot for d.
func (c *Cache) Erase(d state.Domain) error {
	if !c.d.Has(key(d)) {
		return nil
	}
	return c.d.Erase(key(d))
}

// RestoreInto seeds st with every readable snapshot and reports how many
// domains were restored.
func (c *Cache) RestoreInto(st *state.Store) int {
	n := 0
	for _, d := range state.Domains {
		if !c.d.Has(key(d)) {
			continue
		}
		payload, at, err := c.Load(d)
		if err != nil {
			logs.Error("cache restore failed", err, "domain", d)
			continue
		}
		st.Restore(d, payload, at)
		n++
	}
	return n
}

// Persist subscribes to st so every fresh payload is written back.
func (c *Cache) Persist(st *state.Store) {
	for _, d := range state.Domains {
		st.Subscribe(d, func(ds state.DomainState) {
			if !ds.HasData || ds.Stale {
				return
			}
			if err := c.Save(ds.Domain, ds.Payload, ds.UpdatedAt); err != nil {
				logs.Error("cache save failed", err, "domain", ds.Domain)
			}
		})
	}
}

func decodePayload(d state.Domain, raw json.RawMessage) (any, error) {
	var (
		v   any
		err error
	)
	switch d {
	case state.Weather:
		v, err = decodeAs[dashboard.Weather](raw)
	case state.Calendar:
		var cal dashboard.Calendar
		cal, err = decodeAs[dashboard.Calendar](raw)
		v = cal.Normalize()
	case state.Notes:
		v, err = decodeAs[dashboard.Notes](raw)
	case state.Jarvis:
		v, err = decodeAs[dashboard.Briefing](raw)
	case state.Nest:
		v, err = decodeAs[dashboard.Nest](raw)
	case state.Spotify:
		v, err = decodeAs[dashboard.Spotify](raw)
	case state.Photos:
		v, err = decodeAs[dashboard.Photos](raw)
	default:
		return nil, fmt.Errorf("unknown domain %q", d)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", d, err)
	}
	return v, nil
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}
