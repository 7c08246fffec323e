package migrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/toothbrush/confluence-migrate/confluence"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

const (
	defaultPageSize = 100
	defaultWorkers  = 1
)

// Config is everything needed to build a Migrator from scratch.
type Config struct {
	Source      confluence.Credentials
	Destination confluence.Credentials

	// How many attachments of one page to transfer at once.  Defaults to 1.
	Workers int
	// Per-request limit when listing pages.  Defaults to 100.
	PageSize int
	// Zero means no timeout.
	RequestTimeout time.Duration

	// If set, all HTTP traffic goes through go-vcr cassettes named <Cassette>-source and
	// <Cassette>-destination.
	Cassette string

	ShowProgress bool
	Logger       *slog.Logger
}

type Migrator struct {
	Source      Source
	Destination Destination

	// Only used to tag destination spaces; see confluence.Space.Org.
	DestinationOrg string

	Workers      int
	PageSize     int
	ShowProgress bool

	Logger *slog.Logger

	// Where progress bars are drawn.  Defaults to stderr.
	progressOut io.Writer

	closers []func() error
}

// New builds the source and destination clients from cfg.  Call Close when done, to flush any
// recording.
func New(cfg Config) (*Migrator, error) {
	source, err := newAPI(cfg, cfg.Source, "source")
	if err != nil {
		return nil, err
	}
	destination, err := newAPI(cfg, cfg.Destination, "destination")
	if err != nil {
		return nil, err
	}

	m := &Migrator{
		Source:         source,
		Destination:    destination,
		DestinationOrg: cfg.Destination.Instance,
		Workers:        cfg.Workers,
		PageSize:       cfg.PageSize,
		ShowProgress:   cfg.ShowProgress,
		Logger:         cfg.Logger,
	}

	if cfg.Cassette != "" {
		for _, c := range []struct {
			api  *confluence.API
			name string
		}{{source, "source"}, {destination, "destination"}} {
			stop, err := c.api.Record(fmt.Sprintf("%s-%s", cfg.Cassette, c.name), recorder.ModeReplayWithNewEpisodes)
			if err != nil {
				_ = m.Close()
				return nil, fmt.Errorf("migrate: couldn't record %s traffic: %w", c.name, err)
			}
			c.api.Client.Timeout = cfg.RequestTimeout
			m.closers = append(m.closers, stop)
		}
	}

	return m, nil
}

func newAPI(cfg Config, creds confluence.Credentials, which string) (*confluence.API, error) {
	api, err := confluence.NewAPIFromCredentials(creds)
	if err != nil {
		return nil, fmt.Errorf("migrate: couldn't set up %s API: %w", which, err)
	}
	api.Client.Timeout = cfg.RequestTimeout
	return api, nil
}

// Close flushes go-vcr cassettes, if recording.
func (m *Migrator) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// MigrateSpaces copies each selected space, strictly one after the other and in the given order.
// The only error it returns is ErrInvalidInput, before anything is sent anywhere; everything that
// goes wrong later is in the per-space results.
func (m *Migrator) MigrateSpaces(ctx context.Context, spaceKeys []string) ([]SpaceResult, error) {
	if err := ValidateSelection(spaceKeys); err != nil {
		return nil, err
	}

	results := make([]SpaceResult, 0, len(spaceKeys))
	for _, key := range spaceKeys {
		results = append(results, m.migrateSpace(ctx, key))
	}

	return results, nil
}

func (m *Migrator) migrateSpace(ctx context.Context, spaceKey string) SpaceResult {
	logger := m.logger().With("space", spaceKey)
	logger.Info("Migrating space")

	result := SpaceResult{SpaceKey: spaceKey}
	m.resolveSpace(ctx, spaceKey, &result)
	m.migratePages(ctx, spaceKey, &result)

	logger.Info("Finished space",
		"pages", result.Pages,
		"attachments", result.Attachments,
		"labels", result.Labels,
		"comments", result.Comments,
		"failures", len(result.Failures))

	return result
}

// ValidateSelection checks a list of space keys: it must be non-empty, without blank or repeated
// keys.
func ValidateSelection(spaceKeys []string) error {
	if len(spaceKeys) == 0 {
		return fmt.Errorf("%w: no spaces selected", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(spaceKeys))
	for i, key := range spaceKeys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: space key #%d is blank", ErrInvalidInput, i+1)
		}
		if seen[key] {
			return fmt.Errorf("%w: space %s selected more than once", ErrInvalidInput, key)
		}
		seen[key] = true
	}

	return nil
}

// ParseSelection reads a selection payload of the form {"selectedSpaces": ["KEY", ...]}.
func ParseSelection(raw []byte) ([]string, error) {
	var payload struct {
		SelectedSpaces json.RawMessage `json:"selectedSpaces"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: couldn't parse selection: %v", ErrInvalidInput, err)
	}

	selected := bytes.TrimSpace(payload.SelectedSpaces)
	if len(selected) == 0 || bytes.Equal(selected, []byte("null")) {
		return nil, fmt.Errorf("%w: selectedSpaces is missing", ErrInvalidInput)
	}

	var keys []string
	if err := json.Unmarshal(selected, &keys); err != nil {
		return nil, fmt.Errorf("%w: selectedSpaces must be a list of space keys", ErrInvalidInput)
	}

	if err := ValidateSelection(keys); err != nil {
		return nil, err
	}

	return keys, nil
}

func (m *Migrator) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *Migrator) workers() int {
	if m.Workers < 1 {
		return defaultWorkers
	}
	return m.Workers
}

func (m *Migrator) pageSize() int {
	if m.PageSize < 1 {
		return defaultPageSize
	}
	return m.PageSize
}
