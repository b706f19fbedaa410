package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartapp/pkg/contracts/domain"
)

// openMemory opens an in-memory store closed on cleanup
func openMemory(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	first, err := s.InsertChart(ctx, "Sales", `{"categories":["Jan"],"series":[]}`)
	require.NoError(t, err)
	second, err := s.InsertChart(ctx, "Costs", `not even json`)
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)

	all, err := s.ListCharts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ChartDefinition{
		{ID: first.ID, Name: "Sales", ConfigJSON: `{"categories":["Jan"],"series":[]}`},
		{ID: second.ID, Name: "Costs", ConfigJSON: `not even json`},
	}, all)
}

func TestStore_ListEmpty(t *testing.T) {
	all, err := openMemory(t).ListCharts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestStore_GetChart(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	saved, err := s.InsertChart(ctx, "One", "{}")
	require.NoError(t, err)

	got, err := s.GetChart(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = s.GetChart(ctx, saved.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "charts.db")

	s, err := Open(ctx, path, WithMkdirAll())
	require.NoError(t, err)
	_, err = s.InsertChart(ctx, "Kept", `{"a":1}`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListCharts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Kept", all[0].Name)
	assert.Equal(t, DriverModernc, reopened.Driver())
}

func TestStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertChart(ctx, "c", "{}")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.ListCharts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)

	seen := make(map[int64]bool)
	for _, def := range all {
		assert.False(t, seen[def.ID], "duplicate id %d", def.ID)
		seen[def.ID] = true
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), ":memory:", WithDriver("postgres"))
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestStore_CountCharts(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	n, err := s.CountCharts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.InsertChart(ctx, "a", "{}")
	require.NoError(t, err)
	_, err = s.InsertChart(ctx, "b", "{}")
	require.NoError(t, err)

	n, err = s.CountCharts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_Ping(t *testing.T) {
	s := openMemory(t)
	assert.NoError(t, s.Ping(context.Background()))
}
