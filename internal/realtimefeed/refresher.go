package realtimefeed

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"transitsnap.dev/internal/timetable"
)

// Config configures a Refresher's HTTP fetch and poll cadence.
type Config struct {
	TripUpdatesURL string
	AuthHeaderName string
	AuthHeaderValue string

	// PollInterval is how often the trip updates feed is refetched.
	PollInterval time.Duration
}

// Refresher periodically fetches and decodes a GTFS-Realtime TripUpdates
// feed, publishing the result into a timetable.Registry via
// Registry.PublishRealtime. Ported from gtfsload.Refresher's ticker loop,
// at realtime's much shorter cadence and without a one-time local-file
// path, since a realtime feed is always fetched over HTTP.
type Refresher struct {
	cfg      Config
	registry *timetable.Registry
	logger   *slog.Logger
	client   *http.Client

	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewRefresher builds a Refresher bound to registry. Call Start to fetch
// once and begin the periodic poll loop.
func NewRefresher(cfg Config, registry *timetable.Registry, logger *slog.Logger) *Refresher {
	return &Refresher{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		client:   &http.Client{Timeout: 15 * time.Second},
		shutdown: make(chan struct{}),
	}
}

// Start performs the initial fetch synchronously and, if cfg.TripUpdatesURL
// is set, launches the periodic poll goroutine. A blank URL makes Start a
// no-op: realtime correction is an optional enhancement, per spec.md §4.3.
func (r *Refresher) Start() error {
	if r.cfg.TripUpdatesURL == "" {
		return nil
	}
	if err := r.refreshOnce(); err != nil {
		return err
	}

	r.wg.Add(1)
	go r.loop()
	return nil
}

func (r *Refresher) refreshOnce() error {
	raw, err := r.fetch()
	if err != nil {
		return err
	}
	table, err := Decode(raw)
	if err != nil {
		return err
	}
	r.registry.PublishRealtime(table)
	return nil
}

func (r *Refresher) fetch() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, r.cfg.TripUpdatesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS-RT request: %w", err)
	}
	if r.cfg.AuthHeaderName != "" && r.cfg.AuthHeaderValue != "" {
		req.Header.Set(r.cfg.AuthHeaderName, r.cfg.AuthHeaderValue)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS-RT feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected GTFS-RT status code: %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS-RT feed: %w", err)
	}
	return b, nil
}

func (r *Refresher) loop() {
	defer r.wg.Done()
	interval := r.cfg.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.refreshOnce(); err != nil {
				r.logger.Error("gtfs-rt refresh failed", "error", err, "url", r.cfg.TripUpdatesURL)
				continue
			}
			r.logger.Info("gtfs-rt snapshot refreshed", "url", r.cfg.TripUpdatesURL)
		case <-r.shutdown:
			return
		}
	}
}

// Stop ends the poll loop and waits for it to exit. Safe to call more than
// once, and safe to call even if Start was a no-op.
func (r *Refresher) Stop() {
	r.once.Do(func() {
		close(r.shutdown)
	})
	r.wg.Wait()
}
