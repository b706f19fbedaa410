// Package storage persists chart definitions in SQLite.
//
// Two drivers are supported: the pure Go modernc.org/sqlite driver registered
// as "sqlite" (default) and github.com/mattn/go-sqlite3 registered as
// "sqlite3" when the binary is built with cgo.
//
//	store, err := storage.Open(ctx, "data/chartapp.db", storage.WithMkdirAll())
//	def, err := store.InsertChart(ctx, "Sales", `{"series":[]}`)
//	all, err := store.ListCharts(ctx)
//
// In tests:
//
//	store := storagetest.Open(t)
package storage
