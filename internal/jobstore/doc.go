// Package jobstore persists transcode job records in SQLite.
//
// Every pipeline run is recorded with its source, output, quality, terminal
// state, progress, and dropped-frame count so "lutforge jobs" can show
// history across invocations. The database is transient operational state,
// not an archive: schema changes bump the version in schema.go and users
// clear the database to adopt the new schema.
//
// Concurrent CLI invocations are serialized around schema setup with an
// advisory file lock; row updates rely on SQLite's own locking plus a
// bounded busy-retry.
package jobstore
