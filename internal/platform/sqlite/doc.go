// Package sqlite implements store.EventStore on an embedded SQLite database
// using the pure-Go modernc.org/sqlite driver. Timestamps are stored as Unix
// milliseconds so that ordering and uniqueness do not depend on text formats.
package sqlite
