package gtfsload

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"transitsnap.dev/internal/timetable"
)

// Refresher periodically reloads a GTFS static feed and publishes the
// rebuilt Snapshot into a Registry, supplementing spec.md §5's RCU
// snapshot discipline with the teacher's own periodic-reload pattern
// (gtfs.Manager.updateStaticGTFS): a local file source is loaded once and
// never rescheduled, a remote URL is refreshed on a ticker.
type Refresher struct {
	source   string
	cfg      Config
	registry *timetable.Registry
	logger   *slog.Logger

	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewRefresher builds a Refresher bound to registry; call Start to load
// once and begin the periodic refresh loop (if cfg.RefreshInterval > 0
// and the source is remote).
func NewRefresher(source string, cfg Config, registry *timetable.Registry, logger *slog.Logger) *Refresher {
	return &Refresher{source: source, cfg: cfg, registry: registry, logger: logger, shutdown: make(chan struct{})}
}

func (r *Refresher) isLocalFile() bool {
	return !strings.HasPrefix(r.source, "http://") && !strings.HasPrefix(r.source, "https://")
}

// Start performs the initial load synchronously (so the Registry is Ready
// before Start returns) and, for a remote source with a positive
// RefreshInterval, launches the periodic refresh goroutine.
func (r *Refresher) Start() error {
	snap, err := Load(r.source, r.cfg)
	if err != nil {
		return err
	}
	r.registry.Publish(snap)

	if r.isLocalFile() || r.cfg.RefreshInterval <= 0 {
		return nil
	}

	r.wg.Add(1)
	go r.loop()
	return nil
}

func (r *Refresher) loop() {
	defer r.wg.Done()
	ticker := time.NewTicker(time.Duration(r.cfg.RefreshInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap, err := Load(r.source, r.cfg)
			if err != nil {
				r.logger.Error("gtfs static refresh failed", "error", err, "source", r.source)
				continue
			}
			r.registry.Publish(snap)
			r.logger.Info("gtfs static snapshot refreshed", "source", r.source)
		case <-r.shutdown:
			return
		}
	}
}

// Stop ends the refresh loop and waits for it to exit. Safe to call more
// than once.
func (r *Refresher) Stop() {
	r.once.Do(func() {
		close(r.shutdown)
	})
	r.wg.Wait()
}
