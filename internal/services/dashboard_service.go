package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tabungan/internal/cache"
	"tabungan/internal/core"
	"tabungan/internal/store"
)

// ErrDataUnavailable is returned by Load when the store could not be read.
var ErrDataUnavailable = errors.New("savings data unavailable")

const (
	DefaultPreferredGroupName = "Liburan"
	DefaultQueryTimeout       = 7 * time.Second
)

// DashboardOptions tunes a DashboardService. Zero values pick the defaults.
type DashboardOptions struct {
	PreferredGroupName string
	QueryTimeout       time.Duration
	// CacheTTL > 0 keeps built snapshots for that long.
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// DashboardService loads the savings group shown on the dashboard and
// aggregates it into a snapshot.
type DashboardService struct {
	reader        store.Reader
	preferredName string
	queryTimeout  time.Duration
	snapshots     *cache.LRUCache[*core.Snapshot]
	logger        *slog.Logger
}

func NewDashboardService(reader store.Reader, opts DashboardOptions) *DashboardService {
	s := &DashboardService{
		reader:        reader,
		preferredName: opts.PreferredGroupName,
		queryTimeout:  opts.QueryTimeout,
		logger:        opts.Logger,
	}
	if s.preferredName == "" {
		s.preferredName = DefaultPreferredGroupName
	}
	if s.queryTimeout <= 0 {
		s.queryTimeout = DefaultQueryTimeout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if opts.CacheTTL > 0 {
		s.snapshots = cache.NewLRUCache[*core.Snapshot](1, opts.CacheTTL)
	}
	return s
}

// RegisterCache hands the snapshot cache to m for periodic expiry sweeps.
func (s *DashboardService) RegisterCache(m *cache.Manager) {
	if s.snapshots != nil && m != nil {
		m.Register(s.snapshots)
	}
}

// SelectGroup picks the preferred group by name and falls back to the
// earliest created group. found is false when the store holds no group.
func (s *DashboardService) SelectGroup(ctx context.Context) (group core.Group, found bool, err error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	group, err = s.reader.FindGroupByName(qctx, s.preferredName)
	cancel()
	if err == nil {
		return group, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return core.Group{}, false, fmt.Errorf("find group %q: %w", s.preferredName, err)
	}

	s.logger.DebugContext(ctx, "Preferred group not found, falling back to earliest",
		"component", "dashboard", "preferred", s.preferredName)

	qctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
	group, err = s.reader.FindEarliestGroup(qctx)
	cancel()
	if errors.Is(err, store.ErrNotFound) {
		return core.Group{}, false, nil
	}
	if err != nil {
		return core.Group{}, false, fmt.Errorf("find earliest group: %w", err)
	}
	return group, true, nil
}

// Load returns the dashboard snapshot, or nil with a nil error when there is
// no group to show. Store failures are reported as ErrDataUnavailable and
// never yield a partial snapshot.
func (s *DashboardService) Load(ctx context.Context) (*core.Snapshot, error) {
	if s.snapshots != nil {
		if snap, ok := s.snapshots.Get(s.preferredName); ok {
			return snap, nil
		}
	}

	start := time.Now()
	group, found, err := s.SelectGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if !found {
		s.logger.InfoContext(ctx, "No savings group available", "component", "dashboard")
		return nil, nil
	}

	var (
		members []core.Member
		entries []core.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, s.queryTimeout)
		defer cancel()
		var err error
		members, err = s.reader.ListMembers(qctx, group.ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, s.queryTimeout)
		defer cancel()
		var err error
		entries, err = s.reader.ListEntries(qctx, group.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: group %s: %w", ErrDataUnavailable, group.ID, err)
	}

	snap := core.BuildSnapshot(group, members, entries)

	s.logger.DebugContext(ctx, "Dashboard snapshot built",
		"component", "dashboard",
		"group_id", group.ID,
		"members", len(snap.Members),
		"entries", len(snap.Entries),
		"duration_ms", time.Since(start).Milliseconds())

	if s.snapshots != nil {
		s.snapshots.Set(s.preferredName, &snap)
	}
	return &snap, nil
}

// Ready probes the store with a single group lookup. An empty store is ready.
func (s *DashboardService) Ready(ctx context.Context) error {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if _, err := s.reader.FindEarliestGroup(qctx); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
