// Package store persists match sets in SQLite.
//
// A saved match set keeps its parameters, stoplist and matches. Feature ids
// are only meaningful inside the Vocabulary that produced them, so the store
// records feature (type, value) pairs and re-interns them on Load.
//
// The store also records job status, so a jobs.Queue can use it as its
// StatusSink:
//
//	db, err := store.Open("intertext.db")
//	q := jobs.NewQueue(intertext.New(), jobs.WithStatusSink(db))
//
// The driver is modernc.org/sqlite; no cgo is required.
package store
