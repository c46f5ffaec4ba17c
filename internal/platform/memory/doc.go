// Package memory provides an in-process implementation of store.EventStore.
// It keeps the answer log in a map guarded by a mutex and is used when no
// persistent driver is configured, as well as in tests.
package memory
