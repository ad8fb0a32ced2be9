package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/internal/domain/providers"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/clients/providerapi"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
	queryservices "github.com/zatekoja/doctorfinder/internal/query/services"
	"github.com/zatekoja/doctorfinder/pkg/retry"
	"go.opentelemetry.io/otel/attribute"
)

// LoadFailureNotice is shown to users when the directory could not be fetched
const LoadFailureNotice = "failed to load data"

// DirectoryOptions configures how the directory is loaded
type DirectoryOptions struct {
	MinRosterSize      int
	FallbackRosterSize int
	Normalize          NormalizeOptions
	Retry              retry.Config
}

// DefaultDirectoryOptions returns the standard load policy
func DefaultDirectoryOptions() DirectoryOptions {
	return DirectoryOptions{
		MinRosterSize:      MinRosterSize,
		FallbackRosterSize: FallbackRosterSize,
		Retry:              retry.DefaultConfig(),
	}
}

// LoadResult describes the outcome of one Load call
type LoadResult struct {
	Count    int
	Notice   string
	Fallback bool
	Sequence uint64
	// Stale is set when this result was discarded: a newer load finished first,
	// or ctx ended before the fetch completed
	Stale bool
}

// DirectoryService owns the current provider snapshot
type DirectoryService struct {
	client  providerapi.Client
	flags   *FeatureFlags
	opts    DirectoryOptions
	metrics *observability.Metrics
	logger  zerolog.Logger
	events  providers.EventBus

	sequence  atomic.Uint64
	current   atomic.Pointer[entities.DirectorySnapshot]
	installMu sync.Mutex
}

// NewDirectoryService creates a directory service with an empty snapshot
func NewDirectoryService(
	client providerapi.Client,
	flags *FeatureFlags,
	opts DirectoryOptions,
	metrics *observability.Metrics,
) *DirectoryService {
	s := &DirectoryService{
		client:  client,
		flags:   flags,
		opts:    opts,
		metrics: metrics,
		logger:  observability.Component("directory"),
	}
	s.current.Store(entities.EmptySnapshot())
	return s
}

// SetEventBus enables publishing a DirectoryEvent after every installed snapshot
func (s *DirectoryService) SetEventBus(bus providers.EventBus) {
	s.events = bus
}

// Snapshot returns the current directory snapshot. Callers must not modify it.
func (s *DirectoryService) Snapshot() *entities.DirectorySnapshot {
	return s.current.Load()
}

// Providers returns the current provider list
func (s *DirectoryService) Providers() []entities.Provider {
	return s.current.Load().Providers
}

// Load fetches and normalizes the directory and publishes it as the new snapshot.
// On fetch failure the snapshot is still replaced: by the fallback roster when
// synthetic rosters are enabled, otherwise by an empty list. The fetch error is returned.
// A load that finishes after a later-started load has been published is discarded,
// and so is a load whose ctx ended before the fetch completed.
func (s *DirectoryService) Load(ctx context.Context) (*LoadResult, error) {
	ctx, span := observability.StartSpan(ctx, "directory.load")
	defer span.End()

	seq := s.sequence.Add(1)
	start := time.Now()

	raw, fetchErr := s.fetch(ctx)

	if fetchErr != nil && ctx.Err() != nil {
		s.logger.Warn().Err(fetchErr).Uint64("sequence", seq).Msg("Directory load abandoned; keeping current snapshot")
		observability.RecordDirectoryLoad(ctx, s.metrics, "abandoned", time.Since(start))
		return &LoadResult{Sequence: seq, Stale: true}, fetchErr
	}

	snapshot := &entities.DirectorySnapshot{
		LoadedAt: time.Now().UTC(),
		Sequence: seq,
	}
	outcome := "success"
	if fetchErr != nil {
		outcome = "failure"
		observability.RecordError(span, fetchErr)
		s.logger.Error().Err(fetchErr).Uint64("sequence", seq).Msg("Failed to load provider directory")

		snapshot.Notice = LoadFailureNotice
		if s.flags.SyntheticRosterEnabled() {
			snapshot.Providers = FallbackRoster(s.opts.FallbackRosterSize)
			snapshot.Fallback = true
		} else {
			snapshot.Providers = []entities.Provider{}
		}
	} else {
		roster := NormalizeProviders(raw, s.opts.Normalize)
		if s.flags.SyntheticRosterEnabled() {
			roster = PadRoster(roster, s.opts.MinRosterSize)
		}
		snapshot.Providers = roster
	}
	snapshot.Specialties = queryservices.UniqueSpecialties(snapshot.Providers)

	installed := s.install(snapshot)
	if !installed {
		outcome = "stale"
		s.logger.Debug().Uint64("sequence", seq).Msg("Discarding stale directory load")
	}

	observability.RecordDirectoryLoad(ctx, s.metrics, outcome, time.Since(start))
	observability.SetSpanAttributes(span,
		attribute.Int("directory.providers", len(snapshot.Providers)),
		attribute.String("directory.load.outcome", outcome),
	)

	if installed {
		s.publish(ctx, snapshot)
	}

	if installed && fetchErr == nil {
		s.logger.Info().
			Int("providers", len(snapshot.Providers)).
			Int("raw", len(raw)).
			Dur("duration", time.Since(start)).
			Msg("Provider directory loaded")
	}

	return &LoadResult{
		Count:    len(snapshot.Providers),
		Notice:   snapshot.Notice,
		Fallback: snapshot.Fallback,
		Sequence: seq,
		Stale:    !installed,
	}, fetchErr
}

func (s *DirectoryService) fetch(ctx context.Context) ([]interface{}, error) {
	var raw []interface{}
	err := retry.Do(ctx, s.opts.Retry, func(ctx context.Context) error {
		result, err := s.client.FetchProviders(ctx)
		if err != nil {
			if !providerapi.Retryable(err) {
				return retry.Stop(err)
			}
			return err
		}
		raw = result
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		s.logger.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("Retrying provider fetch")
	})
	return raw, err
}

func (s *DirectoryService) publish(ctx context.Context, snapshot *entities.DirectorySnapshot) {
	if s.events == nil {
		return
	}
	event := entities.NewDirectoryEvent(snapshot)
	if err := s.events.Publish(ctx, providers.EventChannelDirectoryUpdates, event); err != nil {
		s.logger.Warn().Err(err).Uint64("sequence", snapshot.Sequence).Msg("Failed to publish directory event")
	}
}

func (s *DirectoryService) install(snapshot *entities.DirectorySnapshot) bool {
	s.installMu.Lock()
	defer s.installMu.Unlock()

	if current := s.current.Load(); current != nil && current.Sequence > snapshot.Sequence {
		return false
	}
	s.current.Store(snapshot)
	return true
}

// StartPeriodicRefresh starts a background goroutine that reloads the
// directory every interval until ctx is done. A non-positive interval disables it.
func (s *DirectoryService) StartPeriodicRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("Stopping periodic directory refresh")
				return
			case <-ticker.C:
				// errors are logged by Load; the snapshot is replaced either way
				_, _ = s.Load(ctx)
			}
		}
	}()
	s.logger.Info().Dur("interval", interval).Msg("Started periodic directory refresh")
}
