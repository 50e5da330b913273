package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabungan/internal/core"
	"tabungan/internal/store"
	"tabungan/internal/store/memory"
)

// fakeReader wraps the memory store with per-call error injection.
type fakeReader struct {
	*memory.Store

	byNameErr   error
	earliestErr error
	membersErr  error
	entriesErr  error

	mu    sync.Mutex
	calls []string
	lists atomic.Int32
	// block makes list calls wait until the context ends
	block bool
}

func (f *fakeReader) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeReader) FindGroupByName(ctx context.Context, name string) (core.Group, error) {
	f.record("FindGroupByName")
	if f.byNameErr != nil {
		return core.Group{}, f.byNameErr
	}
	return f.Store.FindGroupByName(ctx, name)
}

func (f *fakeReader) FindEarliestGroup(ctx context.Context) (core.Group, error) {
	f.record("FindEarliestGroup")
	if f.earliestErr != nil {
		return core.Group{}, f.earliestErr
	}
	return f.Store.FindEarliestGroup(ctx)
}

func (f *fakeReader) ListMembers(ctx context.Context, groupID string) ([]core.Member, error) {
	f.lists.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.Store.ListMembers(ctx, groupID)
}

func (f *fakeReader) ListEntries(ctx context.Context, groupID string) ([]core.Entry, error) {
	f.lists.Add(1)
	if f.entriesErr != nil {
		return nil, f.entriesErr
	}
	return f.Store.ListEntries(ctx, groupID)
}

func at(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func seeded() *fakeReader {
	return &fakeReader{Store: memory.New(
		[]core.Group{
			{ID: "g-old", Name: "Rumah", Target: core.Money{Cents: 500}, CreatedAt: at(1)},
			{ID: "g-lib", Name: "Liburan", Target: core.Money{Cents: 100000}, CreatedAt: at(5)},
		},
		[]core.Member{
			{ID: "m1", GroupID: "g-lib", DisplayName: "Ayu", Target: core.Money{Cents: 100000}, CreatedAt: at(5)},
			{ID: "m2", GroupID: "g-old", DisplayName: "Budi", CreatedAt: at(1)},
		},
		[]core.Entry{
			{ID: "e1", GroupID: "g-lib", MemberID: "m1", Date: core.NewDate(2025, 10, 1), Amount: core.Money{Cents: 40000}, Type: core.Deposit},
			{ID: "e2", GroupID: "g-lib", MemberID: "m1", Date: core.NewDate(2025, 10, 2), Amount: core.Money{Cents: 10000}, Type: core.Withdraw},
		},
	)}
}

func TestSelectGroup_PrefersNamedGroup(t *testing.T) {
	r := seeded()
	svc := NewDashboardService(r, DashboardOptions{})

	g, found, err := svc.SelectGroup(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "g-lib", g.ID)
	assert.Equal(t, []string{"FindGroupByName"}, r.calls)
}

func TestSelectGroup_FallsBackToEarliest(t *testing.T) {
	r := seeded()
	svc := NewDashboardService(r, DashboardOptions{PreferredGroupName: "Mobil"})

	g, found, err := svc.SelectGroup(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "g-old", g.ID)
	assert.Equal(t, []string{"FindGroupByName", "FindEarliestGroup"}, r.calls)
}

func TestSelectGroup_NoGroups(t *testing.T) {
	r := &fakeReader{Store: memory.New(nil, nil, nil)}
	svc := NewDashboardService(r, DashboardOptions{})

	_, found, err := svc.SelectGroup(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSelectGroup_FaultDoesNotFallBack(t *testing.T) {
	boom := errors.New("connection refused")
	r := seeded()
	r.byNameErr = boom
	svc := NewDashboardService(r, DashboardOptions{})

	_, found, err := svc.SelectGroup(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, found)
	assert.Equal(t, []string{"FindGroupByName"}, r.calls, "a fault must not trigger the fallback query")
}

func TestSelectGroup_FallbackFault(t *testing.T) {
	boom := errors.New("timeout")
	r := seeded()
	r.byNameErr = store.ErrNotFound
	r.earliestErr = boom
	svc := NewDashboardService(r, DashboardOptions{})

	_, _, err := svc.SelectGroup(context.Background())
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestLoad_BuildsSnapshot(t *testing.T) {
	svc := NewDashboardService(seeded(), DashboardOptions{})

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "Liburan", snap.Group.Name)
	assert.Equal(t, int64(30000), snap.Group.Saved.Cents)
	assert.Equal(t, 30.0, snap.Group.ProgressPct)
	require.Len(t, snap.Members, 1)
	assert.Equal(t, 30.0, snap.Members[0].ProgressPct)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "e2", snap.Entries[0].ID)
	assert.Equal(t, "Ayu", snap.Entries[0].MemberName)
}

func TestLoad_NoGroupIsNotAnError(t *testing.T) {
	r := &fakeReader{Store: memory.New(nil, nil, nil)}
	snap, err := NewDashboardService(r, DashboardOptions{}).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Zero(t, r.lists.Load())
}

func TestLoad_FetchFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		mutate func(r *fakeReader)
	}{
		{"members fail", func(r *fakeReader) { r.membersErr = boom }},
		{"entries fail", func(r *fakeReader) { r.entriesErr = boom }},
		{"both fail", func(r *fakeReader) { r.membersErr = boom; r.entriesErr = boom }},
		{"group lookup fails", func(r *fakeReader) { r.byNameErr = boom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := seeded()
			tt.mutate(r)
			snap, err := NewDashboardService(r, DashboardOptions{}).Load(context.Background())
			assert.Nil(t, snap, "no partial snapshot")
			assert.ErrorIs(t, err, ErrDataUnavailable)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestLoad_QueryTimeout(t *testing.T) {
	r := seeded()
	r.block = true
	svc := NewDashboardService(r, DashboardOptions{QueryTimeout: 20 * time.Millisecond})

	start := time.Now()
	snap, err := svc.Load(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLoad_Cache(t *testing.T) {
	r := seeded()
	svc := NewDashboardService(r, DashboardOptions{CacheTTL: time.Minute})

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	second, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(2), r.lists.Load(), "second load should be served from cache")
}

func TestLoad_CacheDisabledByDefault(t *testing.T) {
	r := seeded()
	svc := NewDashboardService(r, DashboardOptions{})

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	_, err = svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(4), r.lists.Load())
}

func TestReady(t *testing.T) {
	assert.NoError(t, NewDashboardService(&fakeReader{Store: memory.New(nil, nil, nil)}, DashboardOptions{}).Ready(context.Background()))

	r := seeded()
	r.earliestErr = errors.New("db locked")
	assert.Error(t, NewDashboardService(r, DashboardOptions{}).Ready(context.Background()))
}
