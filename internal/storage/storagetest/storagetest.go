// Package storagetest opens throwaway chart stores for tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"chartapp/internal/storage"
)

// Open opens an in-memory store and closes it on cleanup
func Open(t testing.TB, opts ...storage.Option) *storage.Store {
	t.Helper()
	s, err := storage.Open(context.Background(), ":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
