// Package postgres provides a PostgreSQL implementation of store.EventStore.
// It handles the details of database connections, query execution, and data
// mapping between answer events and database records.
package postgres
