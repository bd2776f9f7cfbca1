package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/porch/internal/cache"
	"github.com/five82/porch/internal/config"
	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/logs"
	"github.com/five82/porch/internal/prefs"
	"github.com/five82/porch/internal/push"
	"github.com/five82/porch/internal/state"
	"github.com/five82/porch/internal/timers"
	"github.com/five82/porch/internal/ui"
)

// Options configure the porch kiosk.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/porch/prefs.toml
	APIBind    string // overrides api_bind from the config file
}

// Run boots the kiosk TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load porch config: %w", err)
	}
	if opts.APIBind != "" {
		cfg.APIBind = opts.APIBind
	}

	closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := dashboard.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init dashboard client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}
	if snapshots, err := cache.Open(cfg.CacheDir); err != nil {
		logs.Error("snapshot cache disabled", err, "dir", cfg.CacheDir)
	} else {
		n := snapshots.RestoreInto(store)
		logs.Info("restored snapshots", "domains", n)
		snapshots.Persist(store)
	}

	sched := timers.New()
	defer sched.Stop()

	channel := push.New(client.PushURL(cfg.PushPath), sched, push.WithRetryDelay(cfg.ReconnectDelay))
	channel.OnMessage(pushHandler(store, time.Now))
	defer func() { _ = channel.Close() }()

	poller := NewPoller(ctx, store, sched)

	jobs, err := newCron(cfg, poller, client)
	if err != nil {
		return err
	}
	defer jobs.Stop()

	logs.Info("porch starting", "api", client.BaseURL().String(), "push", cfg.PushPath)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Player:    client,
		Refresher: poller,
		Push:      channel,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Start: func() {
			channel.Connect(ctx)
			schedulePolls(poller, store, client, cfg.Intervals)
			jobs.Start()
		},
	})
	cancel()
	poller.Wait()
	return err
}

// pushHandler decodes push envelopes into the store, stamped with the
// receipt time. Malformed data is logged and the previous state kept.
func pushHandler(store *state.Store, now func() time.Time) push.Handler {
	return func(env push.Envelope) {
		receivedAt := now()
		d, ok := state.ParseDomain(env.Type)
		if !ok {
			logs.Debug("ignoring push message", "type", env.Type)
			return
		}
		payload, err := dashboard.DecodePush(env.Type, env.Data)
		if err != nil {
			logs.Error("discarding push payload", err, "type", env.Type)
			return
		}
		store.Update(d, payload, receivedAt)
	}
}

// openLog sends log output to the configured file so it never draws over
// the TUI.
func openLog(cfg config.Config) (func(), error) {
	logs.SetLevel(logs.ParseLevel(cfg.LogLevel))
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logs.SetOutput(f)
	return func() {
		logs.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
